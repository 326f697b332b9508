package prompts

import "fmt"

// GenerateContext builds the prompt that turns a project goal into full
// context metadata.
func GenerateContext(goal string) string {
	return fmt.Sprintf(`Act as an expert Creative Director. Based on the following project goal, generate detailed context metadata.

Goal: %s

Return ONLY a JSON object with the following keys:
- brand_vibe
- brand_lighting
- brand_colors
- brand_subject
- project_vibe
- project_lighting
- project_colors
- project_subject
- context (Overall context/guidelines)`, goal)
}

// EnhanceField builds the prompt that rewrites a single context field.
func EnhanceField(fieldName, currentValue, instructions string) string {
	if instructions == "" {
		instructions = "Improve clarity, creativity, and impact."
	}
	return fmt.Sprintf(`Act as an expert Creative Director and Copywriter.
Your task is to enhance the text for a specific context field in a creative brief.

Field Name: %s
Current Text: "%s"

User Instructions: %s

Please rewrite the text to be more effective, professional, and aligned with the field's purpose.
Keep it concise but descriptive.

Return ONLY a JSON object with the following key:
- enhanced_text`, fieldName, currentValue, instructions)
}

// AnalyzeBrand builds the search-grounded brand analysis prompt.
func AnalyzeBrand(brandName string) string {
	return fmt.Sprintf(`Analyze the brand '%s'. Search for information about their visual style, brand guidelines, recent campaigns, and core aesthetic.

Based on your analysis, generate detailed context metadata for a creative project.

Return ONLY a JSON object with the following keys:
- brand_vibe
- brand_lighting
- brand_colors
- brand_subject
- context (Summary of the brand analysis and guidelines)`, brandName)
}

// AnalyzeFile returns the prompt applied to an uploaded document. Analysis
// type "brand" extracts brand core fields, anything else extracts project
// specifics.
func AnalyzeFile(analysisType string) string {
	if analysisType == "brand" {
		return `Analyze this file to extract Brand Core details.
Focus on visual style, brand guidelines, and core aesthetic.

Return ONLY a JSON object with the following keys:
- brand_vibe
- brand_lighting
- brand_colors
- brand_subject`
	}
	return `Analyze this file to extract Project Specifics.
Focus on the specific campaign or project details, mood, and requirements.

Return ONLY a JSON object with the following keys:
- project_vibe
- project_lighting
- project_colors
- project_subject
- context (Overall context/guidelines)`
}

// SynthesizeContext merges brand core and project specifics into the prompt
// that produces the overall guidelines paragraph.
func SynthesizeContext(brandVibe, brandLighting, brandColors, brandSubject, projectVibe, projectLighting, projectColors, projectSubject string) string {
	return fmt.Sprintf(`Act as an expert Creative Director.
Synthesize the following Brand Core and Project Specifics into a cohesive "Overall Context / Guidelines" paragraph.
This paragraph will be used to guide an AI image generator, so it should be descriptive, evocative, and clear.

Brand Core:
- Vibe: %s
- Lighting: %s
- Colors: %s
- Subject: %s

Project Specifics:
- Vibe: %s
- Lighting: %s
- Colors: %s
- Subject: %s

Return ONLY a JSON object with the following key:
- synthesized_text`, brandVibe, brandLighting, brandColors, brandSubject, projectVibe, projectLighting, projectColors, projectSubject)
}

// PromptInsight builds the analysis prompt for an existing image prompt.
func PromptInsight(promptText string) string {
	return fmt.Sprintf(`Act as an expert Creative Director and AI Image Generation Specialist. Analyze the following prompt and provide insights.

Prompt to Analyze:
%s

Provide a structured analysis in JSON format with the following keys:
- creative_summary: A brief description of the type of content this prompt will produce (e.g., "High-fashion editorial with moody lighting").
- key_features: A list of 3-5 bullet points highlighting the most impactful elements of the prompt.
- style_explanation: An explanation of why the prompt will result in the specific visual style (referencing lighting, colors, vibe).
- suggestions: A list of objects, each with "suggestion" (the proposed change) and "impact" (what this change would achieve). Suggest 2-3 meaningful improvements or variations.

Return ONLY the JSON object.`, promptText)
}
