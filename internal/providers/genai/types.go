package genai

// Wire types for the generateContent surface. Field names follow the REST
// API's camelCase JSON.

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts,omitempty"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type tool struct {
	GoogleSearch *googleSearch `json:"googleSearch,omitempty"`
}

type googleSearch struct{}

type imageConfig struct {
	AspectRatio    string `json:"aspectRatio,omitempty"`
	ImageSize      string `json:"imageSize,omitempty"`
	OutputMimeType string `json:"outputMimeType,omitempty"`
}

type generationConfig struct {
	Temperature        *float64       `json:"temperature,omitempty"`
	TopP               *float64       `json:"topP,omitempty"`
	MaxOutputTokens    int            `json:"maxOutputTokens,omitempty"`
	ResponseModalities []string       `json:"responseModalities,omitempty"`
	ResponseMimeType   string         `json:"responseMimeType,omitempty"`
	ResponseSchema     map[string]any `json:"responseSchema,omitempty"`
	ImageConfig        *imageConfig   `json:"imageConfig,omitempty"`
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	Tools             []tool            `json:"tools,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

// text concatenates the text parts of the first candidate.
func (r *generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var out string
	for _, p := range r.Candidates[0].Content.Parts {
		out += p.Text
	}
	return out
}

type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
		Status  string `json:"status,omitempty"`
	} `json:"error"`
}

// InlineImage carries raw bytes plus their mime type into a model call.
type InlineImage struct {
	Data     []byte
	MimeType string
}

// ImageGroup is a batch of reference images preceded by an instruction line.
type ImageGroup struct {
	Instruction string
	Images      []InlineImage
}

// ImageRequest describes one image generation call.
type ImageRequest struct {
	Prompt    string
	Style     string
	Model     string // explicit model id; empty selects by Quality
	Quality   string // "speed" or "quality"
	NumImages int
	Groups    []ImageGroup
}

// EditRequest describes an image edit call. Image is the picture being
// edited; References are optional visual guides.
type EditRequest struct {
	Instruction string
	Style       string
	Model       string
	Image       InlineImage
	References  []InlineImage
}
