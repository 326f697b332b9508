// Package httpapi assembles the chi router for the service.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/HenrikWarf/creative-studio/internal/http/handlers"
	"github.com/HenrikWarf/creative-studio/internal/middleware"
)

func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.CORS(app.Config.AllowedOrigins),
		middleware.Logger(app.Logger),
		middleware.RateLimit(app.Config.RateLimitPerMinute, time.Minute),
	)

	r.Get("/health", app.Health)

	r.Route("/projects", func(r chi.Router) {
		r.Post("/", app.ProjectsCreate)
		r.Get("/", app.ProjectsList)
		r.Get("/{id}", app.ProjectGet)
		r.Put("/{id}", app.ProjectUpdate)
		r.Delete("/{id}", app.ProjectDelete)
		r.Get("/{id}/export", app.ProjectExport)
	})

	r.Route("/assets", func(r chi.Router) {
		r.Get("/", app.AssetsList)
		r.Post("/", app.AssetsSave)
		r.Get("/{id}", app.AssetGet)
		r.Delete("/{id}", app.AssetDelete)
	})

	r.Route("/context", func(r chi.Router) {
		r.Post("/generate", app.ContextGenerate)
		r.Post("/enhance-field", app.ContextEnhanceField)
		r.Post("/analyze-brand", app.ContextAnalyzeBrand)
		r.Post("/analyze-file", app.ContextAnalyzeFile)
		r.Post("/synthesize", app.ContextSynthesize)
		r.Post("/insight", app.ContextInsight)
		r.Route("/versions", func(r chi.Router) {
			r.Post("/", app.ContextVersionsCreate)
			r.Get("/", app.ContextVersionsList)
			r.Get("/{id}", app.ContextVersionGet)
			r.Put("/{id}", app.ContextVersionUpdate)
			r.Delete("/{id}", app.ContextVersionDelete)
		})
	})

	r.Route("/image-creation", func(r chi.Router) {
		r.Post("/generate", app.ImagesGenerate)
		r.Post("/edit", app.ImagesEdit)
		r.Post("/save", app.ImagesSave)
		r.Post("/optimize", app.ImagesOptimize)
	})

	r.Route("/video-creation", func(r chi.Router) {
		r.Post("/generate", app.VideosGenerate)
		r.Post("/save", app.VideosSave)
	})

	r.Route("/video-magic", func(r chi.Router) {
		r.Post("/script", app.MagicScript)
		r.Post("/script/edit", app.MagicScriptEdit)
		r.Post("/image-to-video", app.MagicImageToVideo)
		r.Post("/first-last", app.MagicFirstLast)
		r.Post("/reference-video", app.MagicReference)
		r.Post("/extend-video", app.MagicExtend)
		r.Post("/optimize-prompt", app.MagicOptimizePrompt)
		r.Get("/motion-presets", app.MagicMotionPresets)
	})

	r.Post("/virtual-try-on", app.TryOnGenerate)

	// Filesystem storage mode serves the blobs directly.
	if app.Config.LocalStoragePath != "" {
		r.Handle("/files/*", http.StripPrefix("/files/", http.FileServer(http.Dir(app.Config.LocalStoragePath))))
	}

	return r
}
