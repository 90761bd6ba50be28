package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"imageatelier/internal/adapter/repo"
	httpapi "imageatelier/internal/http"
	"imageatelier/internal/http/handlers"
	"imageatelier/internal/infra"
	"imageatelier/internal/pipeline"
	"imageatelier/internal/providers/prompt"
	"imageatelier/internal/providers/sd"
	"imageatelier/internal/storage"
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

	if err := infra.EnsureSchema(ctx, dbpool); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure schema")
	}

	userRepo := repo.NewUserRepository(dbpool)
	imageRepo := repo.NewImageRecordRepository(dbpool)

	var adjuster prompt.Adjuster
	if cfg.GeminiAPIKey != "" {
		adjuster, err = prompt.NewGeminiAdjuster(prompt.GeminiOptions{
			APIKey:     cfg.GeminiAPIKey,
			Model:      cfg.GeminiModel,
			BaseURL:    cfg.GeminiBaseURL,
			HTTPClient: &http.Client{Timeout: cfg.GeminiTimeout},
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure prompt adjuster")
		}
	} else {
		logger.Warn().Msg("GEMINI_API_KEY not set, using static prompt adjuster")
		adjuster = prompt.NewStaticAdjuster()
	}

	synth := sd.NewClient(sd.Options{
		BaseURL:    cfg.SDAPIURL,
		Checkpoint: cfg.SDCheckpoint,
		Sampler:    cfg.SDSampler,
		Timeout:    cfg.SDTimeout,
		Logger:     &logger,
	})

	var blobs storage.BlobStore
	staticDir := ""
	if cfg.GCSBucket != "" {
		gcsStore, err := storage.NewGCSStore(ctx, cfg.GCSBucket)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure blob store")
		}
		defer gcsStore.Close()
		blobs = gcsStore
	} else {
		logger.Warn().Msg("GCS_BUCKET not set, storing artifacts on the local filesystem")
		fileStore, err := storage.NewFileStore(cfg.StorageBasePath, cfg.StorageBaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure blob store")
		}
		blobs = fileStore
		staticDir = fileStore.BasePath()
	}

	pl := pipeline.New(adjuster, synth, blobs, imageRepo, &logger)
	history := pipeline.NewHistory(imageRepo)

	app := handlers.NewApp(pl, history, userRepo, &logger)
	router := httpapi.NewRouter(app, httpapi.RouterOptions{
		AllowedOrigins: cfg.AllowedOrigins,
		StaticDir:      staticDir,
		Logger:         logger,
	})

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
