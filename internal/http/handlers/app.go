// Package handlers implements the HTTP API. Each handler decodes its
// request, calls into providers and repositories, and writes a JSON body.
package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/HenrikWarf/creative-studio/internal/domain"
	"github.com/HenrikWarf/creative-studio/internal/infra"
	"github.com/HenrikWarf/creative-studio/internal/materialize"
	"github.com/HenrikWarf/creative-studio/internal/providers/genai"
	"github.com/HenrikWarf/creative-studio/internal/providers/tryon"
	"github.com/HenrikWarf/creative-studio/internal/providers/video"
	"github.com/HenrikWarf/creative-studio/internal/storage"
)

// multipart uploads are parsed fully into memory; generation inputs are
// small images and short clips.
const maxMultipartMemory = 64 << 20

// App carries the handler dependencies. Everything is request-stateless and
// shared across goroutines.
type App struct {
	Logger     zerolog.Logger
	Config     *infra.Config
	Projects   domain.ProjectRepository
	Assets     domain.AssetRepository
	Versions   domain.ContextVersionRepository
	Store      storage.BlobStore
	Mat        *materialize.Materializer
	Images     genai.ImageGenerator
	Text       genai.TextGenerator
	Videos     video.Generator
	TryOn      tryon.Processor
	HTTPClient *http.Client
}

// fetchImage downloads an image the client referenced by URL, typically a
// signed URL from an earlier generate call.
func (a *App) fetchImage(r *http.Request, url string) ([]byte, string, error) {
	client := a.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: fetching image returned status %d", domain.ErrInvalidInput, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = "image/png"
	}
	return data, mime, nil
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]string{"error": code, "message": message})
}

// fail maps domain sentinels onto HTTP statuses. Provider errors surface
// their message so the client sees what the model reported.
func (a *App) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrOutputNotLocated):
		a.error(w, http.StatusInternalServerError, "output_not_located", err.Error())
	case errors.Is(err, domain.ErrProviderFailure):
		a.error(w, http.StatusInternalServerError, "provider", err.Error())
	default:
		a.Logger.Error().Err(err).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

// formFile reads a single uploaded file into memory. Returns nil data when
// the field is absent.
func formFile(r *http.Request, field string) ([]byte, string, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return data, fileContentType(header), nil
}

// formFiles reads every file uploaded under field.
func formFiles(r *http.Request, field string) ([]genai.InlineImage, error) {
	if r.MultipartForm == nil || r.MultipartForm.File == nil {
		return nil, nil
	}
	var images []genai.InlineImage
	for _, header := range r.MultipartForm.File[field] {
		file, err := header.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, err
		}
		images = append(images, genai.InlineImage{Data: data, MimeType: fileContentType(header)})
	}
	return images, nil
}

func fileContentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// decodeBase64Image accepts both raw base64 and data: URLs.
func decodeBase64Image(s string) ([]byte, error) {
	if idx := strings.Index(s, ";base64,"); idx >= 0 {
		s = s[idx+len(";base64,"):]
	}
	return base64.StdEncoding.DecodeString(s)
}

// signedAssetURL swaps the stored key for a signed URL on the way out.
func (a *App) signedAssetURL(asset domain.Asset) map[string]any {
	return map[string]any{
		"id":              asset.ID,
		"project_id":      asset.ProjectID,
		"type":            asset.Kind,
		"url":             a.Store.SignedURL(asset.URL),
		"prompt":          asset.Prompt,
		"model_type":      asset.ModelType,
		"context_version": asset.ContextVersion,
		"created_at":      asset.CreatedAt,
	}
}
