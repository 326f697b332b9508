package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/HenrikWarf/creative-studio/internal/domain"
	"github.com/HenrikWarf/creative-studio/internal/prompts"
	"github.com/HenrikWarf/creative-studio/internal/providers/genai"
)

// ContextGenerate drafts all descriptor fields from a single goal statement.
func (a *App) ContextGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Goal string `json:"goal"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Goal == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "goal required")
		return
	}
	raw, err := a.Text.GenerateJSON(r.Context(), a.Config.ModelInsights, prompts.GenerateContext(req.Goal), nil)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, raw)
}

func (a *App) ContextEnhanceField(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FieldName    string `json:"field_name"`
		CurrentValue string `json:"current_value"`
		Instructions string `json:"instructions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FieldName == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "field_name required")
		return
	}
	text, err := a.Text.GenerateText(r.Context(), a.Config.ModelTextFast,
		prompts.EnhanceField(req.FieldName, req.CurrentValue, req.Instructions), nil)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"field_name": req.FieldName, "value": text})
}

// ContextAnalyzeBrand researches a brand with Google-Search grounding and
// returns the descriptor fields it infers.
func (a *App) ContextAnalyzeBrand(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BrandName string `json:"brand_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BrandName == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "brand_name required")
		return
	}
	raw, err := a.Text.GenerateGrounded(r.Context(), a.Config.ModelInsights, prompts.AnalyzeBrand(req.BrandName))
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, raw)
}

// ContextAnalyzeFile extracts descriptor fields from an uploaded document or
// image. analysis_type selects the brand or the project field set.
func (a *App) ContextAnalyzeFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return
	}
	data, mime, err := formFile(r, "file")
	if err != nil || data == nil {
		a.error(w, http.StatusBadRequest, "bad_request", "file required")
		return
	}
	analysisType := r.FormValue("analysis_type")
	raw, err := a.Text.GenerateJSON(r.Context(), a.Config.ModelInsights,
		prompts.AnalyzeFile(analysisType), nil, genai.InlineImage{Data: data, MimeType: mime})
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, raw)
}

type synthesizeRequest struct {
	BrandVibe       string `json:"brand_vibe"`
	BrandLighting   string `json:"brand_lighting"`
	BrandColors     string `json:"brand_colors"`
	BrandSubject    string `json:"brand_subject"`
	ProjectVibe     string `json:"project_vibe"`
	ProjectLighting string `json:"project_lighting"`
	ProjectColors   string `json:"project_colors"`
	ProjectSubject  string `json:"project_subject"`
}

// ContextSynthesize merges the descriptor fields into one narrative context
// block used as brand guidelines by the generators.
func (a *App) ContextSynthesize(w http.ResponseWriter, r *http.Request) {
	var req synthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	prompt := prompts.SynthesizeContext(
		req.BrandVibe, req.BrandLighting, req.BrandColors, req.BrandSubject,
		req.ProjectVibe, req.ProjectLighting, req.ProjectColors, req.ProjectSubject,
	)
	text, err := a.Text.GenerateText(r.Context(), a.Config.ModelInsights, prompt, nil)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"context": text})
}

func (a *App) ContextInsight(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Prompt == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "prompt required")
		return
	}
	raw, err := a.Text.GenerateJSON(r.Context(), a.Config.ModelInsights, prompts.PromptInsight(req.Prompt), nil)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, raw)
}

type contextVersionPayload struct {
	ProjectID   string `json:"project_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Context     string `json:"context"`
	synthesizeRequest
}

func contextVersionView(v *domain.ContextVersion) map[string]any {
	return map[string]any{
		"id":               v.ID,
		"project_id":       v.ProjectID,
		"name":             v.Name,
		"description":      v.Description,
		"context":          v.Context,
		"brand_vibe":       v.Fields.BrandVibe,
		"brand_lighting":   v.Fields.BrandLighting,
		"brand_colors":     v.Fields.BrandColors,
		"brand_subject":    v.Fields.BrandSubject,
		"project_vibe":     v.Fields.ProjectVibe,
		"project_lighting": v.Fields.ProjectLighting,
		"project_colors":   v.Fields.ProjectColors,
		"project_subject":  v.Fields.ProjectSubject,
		"created_at":       v.CreatedAt,
	}
}

func (a *App) ContextVersionsCreate(w http.ResponseWriter, r *http.Request) {
	var req contextVersionPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.ProjectID == "" || req.Name == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "project_id and name required")
		return
	}
	version, err := a.Versions.Create(r.Context(), &domain.ContextVersion{
		ProjectID:   req.ProjectID,
		Name:        req.Name,
		Description: req.Description,
		Context:     req.Context,
		Fields: domain.ContextFields{
			BrandVibe:       req.BrandVibe,
			BrandLighting:   req.BrandLighting,
			BrandColors:     req.BrandColors,
			BrandSubject:    req.BrandSubject,
			ProjectVibe:     req.ProjectVibe,
			ProjectLighting: req.ProjectLighting,
			ProjectColors:   req.ProjectColors,
			ProjectSubject:  req.ProjectSubject,
		},
	})
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusCreated, contextVersionView(version))
}

func (a *App) ContextVersionsList(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "project_id required")
		return
	}
	versions, err := a.Versions.ListByProjectID(r.Context(), projectID)
	if err != nil {
		a.fail(w, err)
		return
	}
	items := make([]map[string]any, 0, len(versions))
	for i := range versions {
		items = append(items, contextVersionView(&versions[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) ContextVersionGet(w http.ResponseWriter, r *http.Request) {
	version, err := a.Versions.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, contextVersionView(version))
}

type contextVersionUpdatePayload struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	Context         *string `json:"context"`
	BrandVibe       *string `json:"brand_vibe"`
	BrandLighting   *string `json:"brand_lighting"`
	BrandColors     *string `json:"brand_colors"`
	BrandSubject    *string `json:"brand_subject"`
	ProjectVibe     *string `json:"project_vibe"`
	ProjectLighting *string `json:"project_lighting"`
	ProjectColors   *string `json:"project_colors"`
	ProjectSubject  *string `json:"project_subject"`
}

// ContextVersionUpdate edits a snapshot in place. Fields absent from the
// payload keep their stored values.
func (a *App) ContextVersionUpdate(w http.ResponseWriter, r *http.Request) {
	var req contextVersionUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	version, err := a.Versions.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err)
		return
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&version.Name, req.Name)
	apply(&version.Description, req.Description)
	apply(&version.Context, req.Context)
	apply(&version.Fields.BrandVibe, req.BrandVibe)
	apply(&version.Fields.BrandLighting, req.BrandLighting)
	apply(&version.Fields.BrandColors, req.BrandColors)
	apply(&version.Fields.BrandSubject, req.BrandSubject)
	apply(&version.Fields.ProjectVibe, req.ProjectVibe)
	apply(&version.Fields.ProjectLighting, req.ProjectLighting)
	apply(&version.Fields.ProjectColors, req.ProjectColors)
	apply(&version.Fields.ProjectSubject, req.ProjectSubject)

	if version.Name == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "name required")
		return
	}
	updated, err := a.Versions.Update(r.Context(), version)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, contextVersionView(updated))
}

func (a *App) ContextVersionDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.Versions.Delete(r.Context(), id); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}
