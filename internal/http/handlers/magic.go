package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/HenrikWarf/creative-studio/internal/prompts"
	"github.com/HenrikWarf/creative-studio/internal/providers/genai"
	"github.com/HenrikWarf/creative-studio/internal/providers/video"
)

// MagicScript drafts a scene-by-scene video script with consistent global
// elements, constrained to the script schema.
func (a *App) MagicScript(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return
	}
	prompt := r.FormValue("prompt")
	if prompt == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "prompt required")
		return
	}
	raw, err := a.Text.GenerateJSON(r.Context(), a.Config.ModelTextHighQuality,
		prompts.VideoScriptWriter(prompt, r.FormValue("context")), prompts.ScriptSchema())
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, raw)
}

// MagicScriptEdit revises an existing script per the instructions.
func (a *App) MagicScriptEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return
	}
	current := r.FormValue("current_script")
	instructions := r.FormValue("instructions")
	if current == "" || instructions == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "current_script and instructions required")
		return
	}
	var scenes any
	if err := json.Unmarshal([]byte(current), &scenes); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "current_script must be valid JSON")
		return
	}
	prompt, err := prompts.VideoScriptEditor(scenes, instructions)
	if err != nil {
		a.fail(w, err)
		return
	}
	raw, err := a.Text.GenerateJSON(r.Context(), a.Config.ModelTextHighQuality, prompt, prompts.SceneListSchema())
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, raw)
}

func (a *App) MagicImageToVideo(w http.ResponseWriter, r *http.Request) {
	in, prompt, contextText, numVideos, ok := a.magicVideoForm(w, r, "image")
	if !ok {
		return
	}
	results, err := a.Videos.ImageToVideo(r.Context(), video.ImageToVideoRequest{
		Image:       in,
		Prompt:      prompt,
		Context:     contextText,
		AspectRatio: r.FormValue("aspect_ratio"),
		NumVideos:   numVideos,
	})
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"videos": a.videoViews(results)})
}

func (a *App) MagicFirstLast(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return
	}
	firstData, firstMime, err := formFile(r, "first_image")
	if err != nil || firstData == nil {
		a.error(w, http.StatusBadRequest, "bad_request", "first_image required")
		return
	}
	lastData, lastMime, err := formFile(r, "last_image")
	if err != nil || lastData == nil {
		a.error(w, http.StatusBadRequest, "bad_request", "last_image required")
		return
	}
	prompt := r.FormValue("prompt")
	if prompt == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "prompt required")
		return
	}
	numVideos, _ := strconv.Atoi(r.FormValue("num_videos"))

	results, err := a.Videos.FirstLast(r.Context(), video.FirstLastRequest{
		First:     video.Input{Data: firstData, MimeType: firstMime},
		Last:      video.Input{Data: lastData, MimeType: lastMime},
		Prompt:    prompt,
		Context:   r.FormValue("context"),
		NumVideos: numVideos,
	})
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"videos": a.videoViews(results)})
}

func (a *App) MagicReference(w http.ResponseWriter, r *http.Request) {
	in, prompt, contextText, numVideos, ok := a.magicVideoForm(w, r, "image")
	if !ok {
		return
	}
	results, err := a.Videos.Reference(r.Context(), video.ReferenceRequest{
		Image:     in,
		Prompt:    prompt,
		Context:   contextText,
		NumVideos: numVideos,
	})
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"videos": a.videoViews(results)})
}

func (a *App) MagicExtend(w http.ResponseWriter, r *http.Request) {
	in, prompt, contextText, numVideos, ok := a.magicVideoForm(w, r, "video")
	if !ok {
		return
	}
	results, err := a.Videos.Extend(r.Context(), video.ExtendRequest{
		Video:     in,
		Prompt:    prompt,
		Context:   contextText,
		NumVideos: numVideos,
	})
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"videos": a.videoViews(results)})
}

// MagicOptimizePrompt turns an image plus free-form instructions into a
// motion prompt. When instructions name a product-motion preset the preset
// template is used verbatim instead of the generic optimizer.
func (a *App) MagicOptimizePrompt(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return
	}
	data, mime, err := formFile(r, "image")
	if err != nil || data == nil {
		a.error(w, http.StatusBadRequest, "bad_request", "image required")
		return
	}
	instructions := r.FormValue("instructions")
	if instructions == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "instructions required")
		return
	}

	prompt, ok := prompts.ProductMotion(instructions)
	if !ok {
		prompt = prompts.OptimizeMotionPrompt(instructions)
	}
	text, err := a.Text.GenerateText(r.Context(), a.Config.ModelTextFast, prompt,
		[]genai.InlineImage{{Data: data, MimeType: mime}})
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"optimized_prompt": text})
}

func (a *App) MagicMotionPresets(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"presets": prompts.ProductMotionPresets()})
}

// magicVideoForm parses the shared multipart shape of the video-magic
// endpoints: one media file, a prompt, optional context, num_videos.
func (a *App) magicVideoForm(w http.ResponseWriter, r *http.Request, field string) (video.Input, string, string, int, bool) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return video.Input{}, "", "", 0, false
	}
	data, mime, err := formFile(r, field)
	if err != nil || data == nil {
		a.error(w, http.StatusBadRequest, "bad_request", field+" required")
		return video.Input{}, "", "", 0, false
	}
	prompt := r.FormValue("prompt")
	if prompt == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "prompt required")
		return video.Input{}, "", "", 0, false
	}
	numVideos, _ := strconv.Atoi(r.FormValue("num_videos"))
	return video.Input{Data: data, MimeType: mime}, prompt, r.FormValue("context"), numVideos, true
}
