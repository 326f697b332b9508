package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/HenrikWarf/creative-studio/internal/domain"
	"github.com/HenrikWarf/creative-studio/internal/providers/genai"
)

// Instruction lines prefixing each reference image group, in the order the
// groups are attached to the prompt.
const (
	styleImagesInstruction     = "Follow the artistic style, color palette, and visual texture of these reference images:"
	productImagesInstruction   = "Incorporate the product shown in these images. Ensure the key features and appearance are maintained:"
	sceneImagesInstruction     = "Place the subject or product within the environment shown in these images. Match the lighting, perspective, and background details:"
	referenceImagesInstruction = "Use these images as general visual references:"
)

// ImagesGenerate runs a multipart generation request. Results are landed in
// the bucket and returned as signed URLs for display; nothing is saved to a
// project until the client calls save.
func (a *App) ImagesGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return
	}
	prompt := r.FormValue("prompt")
	if prompt == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "prompt required")
		return
	}

	groups, err := a.imageGroups(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid image upload")
		return
	}
	numImages, _ := strconv.Atoi(r.FormValue("num_images"))

	images, err := a.Images.GenerateImages(r.Context(), genai.ImageRequest{
		Prompt:    prompt,
		Style:     r.FormValue("style"),
		Model:     r.FormValue("model_name"),
		Quality:   r.FormValue("quality"),
		NumImages: numImages,
		Groups:    groups,
	})
	if err != nil {
		a.fail(w, err)
		return
	}

	urls := make([]string, 0, len(images))
	for _, data := range images {
		key := "generated_images/" + uuid.NewString() + ".png"
		landed, err := a.Mat.FromBytes(r.Context(), data, key, "image/png")
		if err != nil {
			a.fail(w, err)
			return
		}
		urls = append(urls, a.Store.SignedURL(landed))
	}
	a.json(w, http.StatusOK, map[string]any{"image_urls": urls})
}

func (a *App) imageGroups(r *http.Request) ([]genai.ImageGroup, error) {
	ordered := []struct {
		field       string
		instruction string
	}{
		{"style_images", styleImagesInstruction},
		{"product_images", productImagesInstruction},
		{"scene_images", sceneImagesInstruction},
		{"reference_images", referenceImagesInstruction},
	}
	var groups []genai.ImageGroup
	for _, g := range ordered {
		images, err := formFiles(r, g.field)
		if err != nil {
			return nil, err
		}
		if len(images) == 0 {
			continue
		}
		groups = append(groups, genai.ImageGroup{Instruction: g.instruction, Images: images})
	}
	return groups, nil
}

// ImagesEdit applies an instruction to an uploaded image or one fetched from
// a URL. The edited image is returned inline as base64, not persisted.
func (a *App) ImagesEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return
	}
	instruction := r.FormValue("instruction")
	if instruction == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "instruction required")
		return
	}

	data, mime, err := formFile(r, "image")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid image upload")
		return
	}
	if data == nil {
		imageURL := r.FormValue("image_url")
		if imageURL == "" {
			a.error(w, http.StatusBadRequest, "bad_request", "either image file or image_url must be provided")
			return
		}
		data, mime, err = a.fetchImage(r, imageURL)
		if err != nil {
			a.fail(w, err)
			return
		}
	}

	references, err := formFiles(r, "reference_images")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid image upload")
		return
	}

	edited, err := a.Images.EditImage(r.Context(), genai.EditRequest{
		Instruction: instruction,
		Style:       r.FormValue("style"),
		Model:       r.FormValue("model_name"),
		Image:       genai.InlineImage{Data: data, MimeType: mime},
		References:  references,
	})
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{
		"image_data": base64.StdEncoding.EncodeToString(edited),
	})
}

// ImagesSave is the explicit save step after generate or edit.
func (a *App) ImagesSave(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ImageData      string `json:"image_data"`
		ImageURL       string `json:"image_url"`
		ProjectID      string `json:"project_id"`
		Prompt         string `json:"prompt"`
		ModelType      string `json:"model_type"`
		ContextVersion string `json:"context_version"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.ProjectID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "project_id required")
		return
	}
	if req.ImageData == "" && req.ImageURL == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "either image_data or image_url must be provided")
		return
	}

	key, err := a.landAsset(r, domain.AssetKindImage, req.ImageData, req.ImageURL)
	if err != nil {
		a.fail(w, err)
		return
	}
	asset, err := a.Assets.Create(r.Context(), &domain.Asset{
		ProjectID:      req.ProjectID,
		Kind:           domain.AssetKindImage,
		URL:            key,
		Prompt:         req.Prompt,
		ModelType:      req.ModelType,
		ContextVersion: req.ContextVersion,
	})
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"asset_id":  asset.ID,
		"image_url": a.Store.SignedURL(asset.URL),
	})
}

func (a *App) ImagesOptimize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Prompt == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "prompt required")
		return
	}
	optimized, err := a.Text.OptimizePrompt(r.Context(), req.Prompt)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"optimized_prompt": optimized})
}
