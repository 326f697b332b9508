package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/HenrikWarf/creative-studio/internal/domain"
	"github.com/HenrikWarf/creative-studio/internal/storage"
	"github.com/HenrikWarf/creative-studio/pkg/zip"
)

type projectPayload struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Context         string `json:"context"`
	BrandVibe       string `json:"brand_vibe"`
	BrandLighting   string `json:"brand_lighting"`
	BrandColors     string `json:"brand_colors"`
	BrandSubject    string `json:"brand_subject"`
	ProjectVibe     string `json:"project_vibe"`
	ProjectLighting string `json:"project_lighting"`
	ProjectColors   string `json:"project_colors"`
	ProjectSubject  string `json:"project_subject"`
}

func (p projectPayload) fields() domain.ContextFields {
	return domain.ContextFields{
		BrandVibe:       p.BrandVibe,
		BrandLighting:   p.BrandLighting,
		BrandColors:     p.BrandColors,
		BrandSubject:    p.BrandSubject,
		ProjectVibe:     p.ProjectVibe,
		ProjectLighting: p.ProjectLighting,
		ProjectColors:   p.ProjectColors,
		ProjectSubject:  p.ProjectSubject,
	}
}

func projectView(p *domain.Project) map[string]any {
	return map[string]any{
		"id":               p.ID,
		"name":             p.Name,
		"description":      p.Description,
		"context":          p.Context,
		"brand_vibe":       p.Fields.BrandVibe,
		"brand_lighting":   p.Fields.BrandLighting,
		"brand_colors":     p.Fields.BrandColors,
		"brand_subject":    p.Fields.BrandSubject,
		"project_vibe":     p.Fields.ProjectVibe,
		"project_lighting": p.Fields.ProjectLighting,
		"project_colors":   p.Fields.ProjectColors,
		"project_subject":  p.Fields.ProjectSubject,
		"created_at":       p.CreatedAt,
	}
}

func (a *App) ProjectsCreate(w http.ResponseWriter, r *http.Request) {
	var req projectPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Name == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "name required")
		return
	}
	project, err := a.Projects.Create(r.Context(), &domain.Project{
		Name:        req.Name,
		Description: req.Description,
		Context:     req.Context,
		Fields:      req.fields(),
	})
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusCreated, projectView(project))
}

func (a *App) ProjectsList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	projects, err := a.Projects.List(r.Context(), limit, offset)
	if err != nil {
		a.fail(w, err)
		return
	}
	items := make([]map[string]any, 0, len(projects))
	for i := range projects {
		items = append(items, projectView(&projects[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// ProjectGet returns the project with its assets. Signed URLs are computed
// at read time; only bare keys are stored.
func (a *App) ProjectGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	project, err := a.Projects.GetByID(r.Context(), id)
	if err != nil {
		a.fail(w, err)
		return
	}
	assets, err := a.Assets.ListByProjectID(r.Context(), id)
	if err != nil {
		a.fail(w, err)
		return
	}
	view := projectView(project)
	assetViews := make([]map[string]any, 0, len(assets))
	for _, asset := range assets {
		assetViews = append(assetViews, a.signedAssetURL(asset))
	}
	view["assets"] = assetViews
	a.json(w, http.StatusOK, view)
}

func (a *App) ProjectUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req projectPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Name == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "name required")
		return
	}
	project, err := a.Projects.Update(r.Context(), &domain.Project{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Context:     req.Context,
		Fields:      req.fields(),
	})
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, projectView(project))
}

func (a *App) ProjectDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.Projects.Delete(r.Context(), id); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

// ProjectExport streams the project's assets as a zip archive. Assets whose
// stored value is not a bucket key are skipped.
func (a *App) ProjectExport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	project, err := a.Projects.GetByID(r.Context(), id)
	if err != nil {
		a.fail(w, err)
		return
	}
	assets, err := a.Assets.ListByProjectID(r.Context(), id)
	if err != nil {
		a.fail(w, err)
		return
	}
	var entries []zip.Asset
	for i, asset := range assets {
		if storage.IsPassThrough(asset.URL) {
			continue
		}
		data, err := a.Store.Download(r.Context(), asset.URL)
		if err != nil {
			a.Logger.Warn().Err(err).Str("asset_id", asset.ID).Msg("export skipping asset")
			continue
		}
		name := path.Base(asset.URL)
		if name == "" || name == "." {
			name = fmt.Sprintf("asset_%d", i+1)
		}
		entries = append(entries, zip.Asset{Filename: name, Data: data})
	}
	archive := zip.ArchiveAssets(entries)
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", project.Name+".zip"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}
