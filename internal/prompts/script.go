// Package prompts holds the fixed prompt templates used across the creative
// pipelines, plus the render helpers that fill them in. Everything here is
// side-effect free.
package prompts

import (
	"encoding/json"
	"fmt"
)

const videoScriptWriter = `You are an expert video scriptwriter. Your task is to create a compelling video script based on the user's request.

User Prompt: %s

Constraints:
- Each scene MUST be exactly 8 seconds long. Keep the action and dialogue distinct and concise to fit this duration.

%s

Output Format:
Return ONLY a JSON object with two main keys: "global_elements" and "scenes".

1. "global_elements": An object containing detailed definitions that apply to the entire video. The values for each key MUST be a single string, not an object. You MUST include the following keys:
    - "character": Highly detailed character description. Include specific facial features, hair style/color, body type, age, clothing style, and any distinguishing marks.
    - "visual_style": Overall visual style (cinematic, handheld, vintage, etc.).
    - "audio_vibe": General audio atmosphere and mood.
    - "costume": Specific costume details and materials.
    - "color_palette": Primary and secondary colors used.
    - "set_design": Setting and environment details.
    - "objects_props": Key objects and props featured.
    - "filming_techniques": Camera angles, movement, and lighting style.
    - "voice": Voiceover tone, gender, and emotion.

2. "scenes": An array of objects. Each object represents a scene and must have exactly two keys:
    - "visual": A description of the specific action in this scene. Focus on the narrative movement.
    - "audio": The specific dialogue, voiceover, or sound effects for this scene.

The goal is to ensure high consistency by defining global elements first.

Example:
{
    "global_elements": {
        "character": "A young woman, mid-20s, with curly hair.",
        "visual_style": "Cinematic, soft focus, golden hour lighting.",
        "audio_vibe": "Peaceful, acoustic, warm.",
        "costume": "Beige knit sweater, cozy vibe.",
        "color_palette": "Gold, beige, teal.",
        "set_design": "Modern kitchen with rustic touches.",
        "objects_props": "White ceramic coffee cup.",
        "filming_techniques": "Slow pans, rack focus, macro shots.",
        "voice": "Female, warm, inviting, soft spoken."
    },
    "scenes": [
        {"visual": "Close up of the coffee cup with steam rising. Hand enters frame.", "audio": "SFX: Birds chirping. VO: Start your day right."},
        {"visual": "Woman takes a sip and smiles looking out the window.", "audio": "VO: With our new organic blend."}
    ]
}`

const videoScriptEditor = `You are an expert video script editor.

Current Script (JSON):
%s

User Instructions for Edit:
%s

Please modify the script according to the instructions. Maintain the same JSON structure (array of objects with "visual" and "audio").
Return ONLY the JSON array.`

// VideoScriptWriter renders the script-writer prompt. An empty context omits
// the brand guidelines section entirely.
func VideoScriptWriter(prompt, contextText string) string {
	section := ""
	if contextText != "" {
		section = fmt.Sprintf("Context / Brand Guidelines:\n%s\n\nPlease ensure the script aligns with these guidelines.", contextText)
	}
	return fmt.Sprintf(videoScriptWriter, prompt, section)
}

// VideoScriptEditor renders the script-editor prompt around the current
// scenes serialized as indented JSON.
func VideoScriptEditor(scenes any, instructions string) (string, error) {
	encoded, err := json.MarshalIndent(scenes, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode current script: %w", err)
	}
	return fmt.Sprintf(videoScriptEditor, string(encoded), instructions), nil
}

// ScriptSchema is the response schema constraining script generation output.
func ScriptSchema() map[string]any {
	globalKeys := []string{
		"character", "visual_style", "audio_vibe", "costume", "color_palette",
		"set_design", "objects_props", "filming_techniques", "voice",
	}
	globalProps := make(map[string]any, len(globalKeys))
	for _, key := range globalKeys {
		globalProps[key] = map[string]any{"type": "STRING"}
	}
	return map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"global_elements": map[string]any{
				"type":       "OBJECT",
				"properties": globalProps,
			},
			"scenes": sceneArraySchema(),
		},
		"required": []string{"global_elements", "scenes"},
	}
}

// SceneListSchema is the response schema constraining script edits, which
// return only the scene array.
func SceneListSchema() map[string]any {
	return sceneArraySchema()
}

func sceneArraySchema() map[string]any {
	return map[string]any{
		"type": "ARRAY",
		"items": map[string]any{
			"type": "OBJECT",
			"properties": map[string]any{
				"visual": map[string]any{"type": "STRING"},
				"audio":  map[string]any{"type": "STRING"},
			},
			"required": []string{"visual", "audio"},
		},
	}
}
