package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/HenrikWarf/creative-studio/internal/adapter/repo"
	"github.com/HenrikWarf/creative-studio/internal/http/handlers"
	"github.com/HenrikWarf/creative-studio/internal/http/httpapi"
	"github.com/HenrikWarf/creative-studio/internal/infra"
	"github.com/HenrikWarf/creative-studio/internal/materialize"
	"github.com/HenrikWarf/creative-studio/internal/providers/genai"
	"github.com/HenrikWarf/creative-studio/internal/providers/tryon"
	"github.com/HenrikWarf/creative-studio/internal/providers/video"
	"github.com/HenrikWarf/creative-studio/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	runner := infra.NewSQLRunner(dbpool, logger)
	if err := repo.EnsureSchema(ctx, runner); err != nil {
		logger.Fatal().Err(err).Msg("failed to apply schema")
	}

	var store storage.BlobStore
	if cfg.LocalStoragePath != "" {
		store, err = storage.NewFileStore(cfg.LocalStoragePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open local storage")
		}
		logger.Warn().Str("path", cfg.LocalStoragePath).Msg("using filesystem storage; signed URLs are disabled")
	} else {
		gateway, err := storage.NewGateway(ctx, cfg.GCSBucket, cfg.SignedURLTTL, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open storage bucket")
		}
		defer gateway.Close()
		store = gateway
	}

	providerHTTP := &http.Client{Timeout: 120 * time.Second}
	gen, err := genai.NewClient(ctx, cfg, logger, providerHTTP)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build provider client")
	}
	mat := materialize.New(store, cfg, logger, providerHTTP)
	videos := video.NewVeo(gen.Backend(), store, mat, cfg, logger, providerHTTP)
	fitter := tryon.NewClient(gen.Backend(), cfg, logger, providerHTTP)

	app := &handlers.App{
		Logger:     logger,
		Config:     cfg,
		Projects:   repo.NewProjectRepository(dbpool, runner),
		Assets:     repo.NewAssetRepository(runner),
		Versions:   repo.NewContextVersionRepository(runner),
		Store:      store,
		Mat:        mat,
		Images:     gen,
		Text:       gen,
		Videos:     videos,
		TryOn:      fitter,
		HTTPClient: providerHTTP,
	}

	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
