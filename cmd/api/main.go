package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kv-studio/internal/config"
	"kv-studio/internal/database"
	"kv-studio/internal/handler"
	"kv-studio/internal/lora"
	"kv-studio/internal/model"
	"kv-studio/internal/repository"
	"kv-studio/internal/router"
	"kv-studio/internal/service"
	"kv-studio/internal/storage"
	"kv-studio/internal/upstream"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting kv-studio API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	store, err := storage.New(ctx, cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info().Str("provider", cfg.Storage.Provider).Msg("object storage ready")

	validator, err := newLoraValidator(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize lora validator: %w", err)
	}

	// Upstream clients
	generator := upstream.NewGenerationClient(cfg.Upstream.GenerationURL, cfg.Generation.BaseModel, logger)
	captioner := upstream.NewCaptionClient(cfg.Upstream.CaptionURL, logger)
	fetcher := upstream.NewImageFetcher(cfg.Upstream.FetchTimeout, cfg.Storage.UploadMaxBytes, logger)

	// Repositories
	styleRepo := repository.NewStyleRepository(pool, model.KindStyle, logger)
	backgroundRepo := repository.NewStyleRepository(pool, model.KindBackground, logger)
	productRepo := repository.NewProductRepository(pool, logger)
	whiteProductRepo := repository.NewWhiteProductRepository(pool, logger)
	historyRepo := repository.NewHistoryRepository(pool, logger)

	// Services
	catalogOpts := service.CatalogOptions{
		MaxUploadBytes: cfg.Storage.UploadMaxBytes,
		PurgeOnDelete:  cfg.Storage.PurgeOnDelete,
		CaptionTimeout: cfg.Upstream.CaptionTimeout,
	}
	styleService := service.NewStyleService(model.KindStyle, styleRepo, store, fetcher, captioner, catalogOpts, logger)
	backgroundService := service.NewStyleService(model.KindBackground, backgroundRepo, store, fetcher, captioner, catalogOpts, logger)
	productService := service.NewProductService(productRepo, store, catalogOpts, logger)
	whiteProductService := service.NewWhiteProductService(whiteProductRepo, store, catalogOpts, logger)
	historyService := service.NewHistoryService(historyRepo, store, logger)
	generationService := service.NewGenerationService(generator, validator, styleRepo, productRepo, historyService, store, logger)
	captionService := service.NewCaptionService(captioner, cfg.Storage.UploadMaxBytes, logger)

	// Handlers
	maxUpload := cfg.Storage.UploadMaxBytes
	handlers := router.Handlers{
		Styles:        handler.NewStyleHandler(model.KindStyle, styleService, maxUpload, logger),
		Backgrounds:   handler.NewStyleHandler(model.KindBackground, backgroundService, maxUpload, logger),
		Products:      handler.NewProductHandler(productService, maxUpload, logger),
		WhiteProducts: handler.NewWhiteProductHandler(whiteProductService, maxUpload, logger),
		Generation:    handler.NewGenerationHandler(generationService, logger),
		Caption:       handler.NewCaptionHandler(captionService, maxUpload, logger),
		History:       handler.NewHistoryHandler(historyService, logger),
	}
	if local, ok := store.(*storage.LocalStore); ok {
		handlers.Files = handler.NewFileHandler(local, logger)
	}

	mux := router.New(handlers, cfg.Auth.APIKey, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newLoraValidator loads the allow-list from LORA_ALLOWLIST_FILE, which may
// be a local path or an s3:// URL, falling back to the built-in list.
func newLoraValidator(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (lora.Validator, error) {
	source := cfg.Generation.LoraAllowlistFile

	var s3Loader lora.Loader
	if lora.IsS3Source(source) {
		client, err := storage.NewS3Client(ctx, cfg.Storage.S3Region, cfg.Storage.S3Endpoint)
		if err != nil {
			return nil, err
		}
		s3Loader = lora.NewS3Loader(client, logger)
	}

	loader := lora.NewSourceLoader(s3Loader, lora.NewFileLoader(logger), logger)

	return lora.NewValidator(ctx, &lora.ValidatorConfig{
		Source:  source,
		Enforce: cfg.Generation.EnforceLoraAllowed,
	}, loader, logger)
}
