// Package genai is a lightweight facade over Google's generative APIs. It
// speaks the generateContent REST surface directly so the rest of the service
// can work with plain Go types.
package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/HenrikWarf/creative-studio/internal/domain"
	"github.com/HenrikWarf/creative-studio/internal/infra"
)

const optimizeSystemInstruction = "You are an expert prompt engineer for AI image generation models. " +
	"Your task is to rewrite the user's prompt to be more descriptive, detailed, and optimized for high-quality image generation. " +
	"Focus on visual details, lighting, style, and composition. " +
	"Do NOT add subjects or elements that the user did not mention. " +
	"Respect the user's original intent and goal. " +
	"Output ONLY the optimized prompt text, nothing else."

// ImageGenerator is the slice of the client the image handlers depend on.
type ImageGenerator interface {
	GenerateImages(ctx context.Context, req ImageRequest) ([][]byte, error)
	EditImage(ctx context.Context, req EditRequest) ([]byte, error)
}

// TextGenerator is the slice of the client the text and context handlers
// depend on.
type TextGenerator interface {
	GenerateJSON(ctx context.Context, model, prompt string, schema map[string]any, files ...InlineImage) (json.RawMessage, error)
	GenerateGrounded(ctx context.Context, model, prompt string) (json.RawMessage, error)
	GenerateText(ctx context.Context, model, prompt string, images []InlineImage) (string, error)
	OptimizePrompt(ctx context.Context, prompt string) (string, error)
}

// Client invokes Gemini models through the configured backend. The zero
// value is not usable; construct with NewClient.
type Client struct {
	backend    Backend
	global     Backend // vertex global route for the high-quality image model
	cfg        *infra.Config
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient builds the provider client. In Vertex mode a second backend
// pinned to the "global" location is prepared for models that are only served
// there.
func NewClient(ctx context.Context, cfg *infra.Config, logger zerolog.Logger, httpClient *http.Client) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	var primary, global Backend
	if cfg.UseVertex {
		var err error
		primary, err = NewVertexBackend(ctx, cfg.GCPProject, cfg.GCPLocation)
		if err != nil {
			return nil, err
		}
		global, err = NewVertexBackend(ctx, cfg.GCPProject, "global")
		if err != nil {
			return nil, err
		}
	} else {
		primary = NewDirectBackend(cfg.GeminiBaseURL, cfg.GeminiAPIKey)
	}
	return &Client{
		backend:    primary,
		global:     global,
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Backend exposes the primary backend for collaborators like the video
// client that share the transport selection.
func (c *Client) Backend() Backend {
	return c.backend
}

// GenerateImages fans out req.NumImages independent generations and returns
// the raw image bytes in order. A failure in any generation fails the whole
// call.
func (c *Client) GenerateImages(ctx context.Context, req ImageRequest) ([][]byte, error) {
	model, backend, extended, err := c.resolveImageModel(req.Model, req.Quality)
	if err != nil {
		return nil, err
	}

	fullPrompt := req.Prompt
	if req.Style != "" {
		fullPrompt = fmt.Sprintf("Style: %s. %s", req.Style, req.Prompt)
	}
	parts := []part{{Text: fullPrompt}}
	for _, group := range req.Groups {
		if len(group.Images) == 0 {
			continue
		}
		parts = append(parts, part{Text: "\n" + group.Instruction})
		for _, img := range group.Images {
			parts = append(parts, inlinePart(img))
		}
	}

	payload := &generateRequest{Contents: []content{{Role: "user", Parts: parts}}}
	if extended {
		payload.GenerationConfig = highQualityImageConfig()
	}

	n := req.NumImages
	if n < 1 {
		n = 1
	}
	images := make([][]byte, n)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			var resp generateResponse
			if err := c.invoke(gctx, backend, model, payload, &resp); err != nil {
				return fmt.Errorf("generate image %d: %w", i+1, err)
			}
			data, err := firstInlineImage(&resp)
			if err != nil {
				return fmt.Errorf("generate image %d: %w", i+1, err)
			}
			images[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	c.logger.Debug().Str("model", model).Int("count", len(images)).Msg("generated images")
	return images, nil
}

// EditImage applies an instruction to an existing image and returns the
// edited bytes.
func (c *Client) EditImage(ctx context.Context, req EditRequest) ([]byte, error) {
	model, backend, extended, err := c.resolveImageModel(req.Model, "")
	if err != nil {
		return nil, err
	}

	instruction := req.Instruction
	if req.Style != "" {
		instruction = fmt.Sprintf("Style: %s. %s", req.Style, req.Instruction)
	}
	parts := []part{{Text: instruction}}
	if len(req.References) > 0 {
		parts = append(parts, part{Text: "\nReference Images:"})
		for _, img := range req.References {
			parts = append(parts, inlinePart(img))
		}
	}
	parts = append(parts, inlinePart(req.Image))

	payload := &generateRequest{Contents: []content{{Role: "user", Parts: parts}}}
	if extended {
		payload.GenerationConfig = highQualityImageConfig()
	}

	var resp generateResponse
	if err := c.invoke(ctx, backend, model, payload, &resp); err != nil {
		return nil, fmt.Errorf("edit image: %w", err)
	}
	data, err := firstInlineImage(&resp)
	if err != nil {
		return nil, fmt.Errorf("edit image: %w", err)
	}
	return data, nil
}

// GenerateJSON asks a model for structured output. The schema constrains the
// response when given; if the constrained call fails the request is retried
// once without the schema. Output passes through markdown fence stripping
// before being returned.
func (c *Client) GenerateJSON(ctx context.Context, model, prompt string, schema map[string]any, files ...InlineImage) (json.RawMessage, error) {
	parts := make([]part, 0, len(files)+1)
	for _, f := range files {
		parts = append(parts, inlinePart(f))
	}
	parts = append(parts, part{Text: prompt})

	payload := &generateRequest{
		Contents:         []content{{Role: "user", Parts: parts}},
		GenerationConfig: &generationConfig{ResponseMimeType: "application/json", ResponseSchema: schema},
	}

	raw, err := c.generateJSONOnce(ctx, model, payload)
	if err != nil && schema != nil {
		c.logger.Warn().Err(err).Str("model", model).Msg("schema-constrained call failed, retrying without schema")
		payload.GenerationConfig = &generationConfig{ResponseMimeType: "application/json"}
		raw, err = c.generateJSONOnce(ctx, model, payload)
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) generateJSONOnce(ctx context.Context, model string, payload *generateRequest) (json.RawMessage, error) {
	var resp generateResponse
	if err := c.invoke(ctx, c.backend, model, payload, &resp); err != nil {
		return nil, err
	}
	cleaned := CleanJSON(resp.text())
	if !json.Valid([]byte(cleaned)) {
		return nil, fmt.Errorf("%w: model returned invalid JSON", domain.ErrProviderFailure)
	}
	return json.RawMessage(cleaned), nil
}

// GenerateGrounded runs a Google-Search-grounded call. Structured output is
// not supported together with tools, so the JSON is recovered from the text
// response by fence stripping.
func (c *Client) GenerateGrounded(ctx context.Context, model, prompt string) (json.RawMessage, error) {
	payload := &generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		Tools:    []tool{{GoogleSearch: &googleSearch{}}},
	}
	var resp generateResponse
	if err := c.invoke(ctx, c.backend, model, payload, &resp); err != nil {
		return nil, err
	}
	cleaned := CleanJSON(resp.text())
	if !json.Valid([]byte(cleaned)) {
		return nil, fmt.Errorf("%w: grounded call returned invalid JSON", domain.ErrProviderFailure)
	}
	return json.RawMessage(cleaned), nil
}

// GenerateText runs a plain text call, optionally with inline images ahead of
// the prompt.
func (c *Client) GenerateText(ctx context.Context, model, prompt string, images []InlineImage) (string, error) {
	parts := make([]part, 0, len(images)+1)
	for _, img := range images {
		parts = append(parts, inlinePart(img))
	}
	parts = append(parts, part{Text: prompt})

	payload := &generateRequest{Contents: []content{{Role: "user", Parts: parts}}}
	var resp generateResponse
	if err := c.invoke(ctx, c.backend, model, payload, &resp); err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.text())
	if text == "" {
		return "", fmt.Errorf("%w: model returned no text", domain.ErrProviderFailure)
	}
	return text, nil
}

// OptimizePrompt rewrites an image prompt for quality. An empty model
// response falls back to the original prompt rather than failing.
func (c *Client) OptimizePrompt(ctx context.Context, prompt string) (string, error) {
	temperature := 0.7
	payload := &generateRequest{
		Contents:          []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		SystemInstruction: &content{Parts: []part{{Text: optimizeSystemInstruction}}},
		GenerationConfig:  &generationConfig{Temperature: &temperature},
	}
	var resp generateResponse
	if err := c.invoke(ctx, c.backend, c.cfg.ModelTextFast, payload, &resp); err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.text())
	if text == "" {
		return prompt, nil
	}
	return text, nil
}

// resolveImageModel maps an explicit model id or quality hint onto a model
// plus the backend serving it. The high-quality image model is only served
// from the Vertex "global" location and takes the extended generation config.
func (c *Client) resolveImageModel(model, quality string) (string, Backend, bool, error) {
	if model == "" {
		if quality == "quality" {
			model = c.cfg.ModelImageHighQuality
		} else {
			model = c.cfg.ModelImageFast
		}
	}
	if model == c.cfg.ModelImageHighQuality || strings.Contains(model, "gemini-3") {
		if c.global == nil {
			return "", nil, false, fmt.Errorf("%w: model %s requires Vertex AI mode", domain.ErrInvalidInput, model)
		}
		return model, c.global, true, nil
	}
	return model, c.backend, false, nil
}

// highQualityImageConfig is the extended generation config the gemini-3
// image model expects.
func highQualityImageConfig() *generationConfig {
	temperature := 1.0
	topP := 0.95
	return &generationConfig{
		Temperature:        &temperature,
		TopP:               &topP,
		MaxOutputTokens:    32768,
		ResponseModalities: []string{"TEXT", "IMAGE"},
		ImageConfig: &imageConfig{
			AspectRatio:    "1:1",
			ImageSize:      "1K",
			OutputMimeType: "image/png",
		},
	}
}

func (c *Client) invoke(ctx context.Context, backend Backend, model string, payload *generateRequest, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, backend.Endpoint(model, "generateContent"), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if err := backend.Authorize(req); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var apiErr apiErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("%w: status %d: %s", domain.ErrProviderFailure, resp.StatusCode, apiErr.Error.Message)
	}
	data, _ := io.ReadAll(resp.Body)
	if len(data) > 0 {
		return fmt.Errorf("%w: status %d: %s", domain.ErrProviderFailure, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return fmt.Errorf("%w: status %d", domain.ErrProviderFailure, resp.StatusCode)
}

// firstInlineImage pulls the first binary part from the first candidate. The
// finish reason is surfaced when the model produced nothing usable.
func firstInlineImage(resp *generateResponse) ([]byte, error) {
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates returned", domain.ErrProviderFailure)
	}
	cand := resp.Candidates[0]
	if len(cand.Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: model returned no content (finish reason: %s)", domain.ErrProviderFailure, cand.FinishReason)
	}
	for _, p := range cand.Content.Parts {
		if p.InlineData != nil && p.InlineData.Data != "" {
			data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("decode inline data: %w", err)
			}
			return data, nil
		}
	}
	return nil, fmt.Errorf("%w: no image data found in response (finish reason: %s)", domain.ErrProviderFailure, cand.FinishReason)
}

func inlinePart(img InlineImage) part {
	mime := img.MimeType
	if mime == "" {
		mime = "image/jpeg"
	}
	return part{InlineData: &inlineData{MimeType: mime, Data: base64.StdEncoding.EncodeToString(img.Data)}}
}

// CleanJSON strips markdown code fences from model output.
func CleanJSON(s string) string {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

var (
	_ ImageGenerator = (*Client)(nil)
	_ TextGenerator  = (*Client)(nil)
)
