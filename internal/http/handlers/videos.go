package handlers

import (
	"net/http"
	"strconv"

	"github.com/HenrikWarf/creative-studio/internal/domain"
	"github.com/HenrikWarf/creative-studio/internal/providers/video"
)

// VideosGenerate runs a text-to-video batch. Each result is a landed bucket
// key returned alongside its signed URL; saving to a project is explicit.
func (a *App) VideosGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return
	}
	prompt := r.FormValue("prompt")
	if prompt == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "prompt required")
		return
	}
	numVideos, _ := strconv.Atoi(r.FormValue("num_videos"))

	results, err := a.Videos.TextToVideo(r.Context(), video.TextToVideoRequest{
		Prompt:      prompt,
		Context:     r.FormValue("context"),
		AspectRatio: r.FormValue("aspect_ratio"),
		NumVideos:   numVideos,
	})
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"videos": a.videoViews(results)})
}

// VideosSave persists an already-generated video by its bucket key.
func (a *App) VideosSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return
	}
	projectID := r.FormValue("project_id")
	blobName := r.FormValue("blob_name")
	if projectID == "" || blobName == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "project_id and blob_name required")
		return
	}
	asset, err := a.Assets.Create(r.Context(), &domain.Asset{
		ProjectID:      projectID,
		Kind:           domain.AssetKindVideo,
		URL:            blobName,
		Prompt:         r.FormValue("prompt"),
		ModelType:      r.FormValue("model_type"),
		ContextVersion: r.FormValue("context_version"),
	})
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusCreated, a.signedAssetURL(*asset))
}

// videoViews maps generation results to response entries carrying both the
// stable key (for save) and a signed URL (for playback).
func (a *App) videoViews(results []video.Result) []map[string]string {
	views := make([]map[string]string, 0, len(results))
	for _, res := range results {
		views = append(views, map[string]string{
			"blob_name": res.Key,
			"video_url": a.Store.SignedURL(res.Key),
		})
	}
	return views
}
