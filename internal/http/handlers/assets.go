package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/HenrikWarf/creative-studio/internal/domain"
)

func (a *App) AssetsList(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "project_id required")
		return
	}
	assets, err := a.Assets.ListByProjectID(r.Context(), projectID)
	if err != nil {
		a.fail(w, err)
		return
	}
	items := make([]map[string]any, 0, len(assets))
	for _, asset := range assets {
		items = append(items, a.signedAssetURL(asset))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

type saveAssetRequest struct {
	ProjectID      string `json:"project_id"`
	Type           string `json:"type"`
	Data           string `json:"data"`
	SourceURL      string `json:"source_url"`
	Prompt         string `json:"prompt"`
	ModelType      string `json:"model_type"`
	ContextVersion string `json:"context_version"`
}

// AssetsSave persists a generated result the client chose to keep. The
// payload carries either base64 data or a source URL; the landed object's
// key is what goes in the row.
func (a *App) AssetsSave(w http.ResponseWriter, r *http.Request) {
	var req saveAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.ProjectID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "project_id required")
		return
	}
	kind := domain.AssetKind(req.Type)
	if kind != domain.AssetKindImage && kind != domain.AssetKindVideo && kind != domain.AssetKindTryOn {
		a.error(w, http.StatusBadRequest, "bad_request", "type must be image, video or tryon")
		return
	}

	key, err := a.landAsset(r, kind, req.Data, req.SourceURL)
	if err != nil {
		a.fail(w, err)
		return
	}

	asset, err := a.Assets.Create(r.Context(), &domain.Asset{
		ProjectID:      req.ProjectID,
		Kind:           kind,
		URL:            key,
		Prompt:         req.Prompt,
		ModelType:      req.ModelType,
		ContextVersion: req.ContextVersion,
	})
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusCreated, a.signedAssetURL(*asset))
}

func (a *App) AssetGet(w http.ResponseWriter, r *http.Request) {
	asset, err := a.Assets.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, a.signedAssetURL(*asset))
}

func (a *App) AssetDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.Assets.Delete(r.Context(), id); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

// landAsset uploads the payload to the bucket and returns the storage key.
func (a *App) landAsset(r *http.Request, kind domain.AssetKind, data, sourceURL string) (string, error) {
	prefix, ext, contentType := assetLocation(kind)
	key := prefix + "/" + uuid.NewString() + ext

	if data != "" {
		raw, err := decodeBase64Image(data)
		if err != nil {
			return "", domain.ErrInvalidInput
		}
		return a.Mat.FromBytes(r.Context(), raw, key, contentType)
	}
	if sourceURL != "" {
		return a.Mat.FromURI(r.Context(), sourceURL, key, contentType)
	}
	return "", domain.ErrInvalidInput
}

func assetLocation(kind domain.AssetKind) (prefix, ext, contentType string) {
	switch kind {
	case domain.AssetKindVideo:
		return "generated_videos", ".mp4", "video/mp4"
	case domain.AssetKindTryOn:
		return "tryon_results", ".png", "image/png"
	default:
		return "generated_images", ".png", "image/png"
	}
}
