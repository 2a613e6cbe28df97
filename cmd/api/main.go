package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"market-stall/internal/config"
	"market-stall/internal/database"
	"market-stall/internal/handler"
	"market-stall/internal/repository"
	"market-stall/internal/router"
	"market-stall/internal/service"
	"market-stall/internal/taxonomy"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting market-stall catalog API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	categoryRepo := repository.NewCategoryRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)

	// Import the externally-managed category catalog, if configured.
	// Import failure is not fatal: the service keeps serving whatever the
	// categories table already holds.
	if cfg.Taxonomy.CatalogPath != "" {
		fileLoader := taxonomy.NewFileLoader(logger)
		var catalogLoader taxonomy.Loader = fileLoader

		if cfg.Taxonomy.S3Enabled {
			s3Loader, err := taxonomy.NewS3Loader(ctx, cfg.Taxonomy.S3Bucket, cfg.Taxonomy.S3Region, logger)
			if err != nil {
				logger.Warn().
					Err(err).
					Msg("failed to initialise S3 loader, falling back to local file system only")
			} else {
				catalogLoader = taxonomy.NewFallbackLoader(s3Loader, fileLoader, cfg.Taxonomy.S3Prefix, true, logger)
			}
		}

		importer := taxonomy.NewImporter(catalogLoader, categoryRepo, logger)
		if _, err := importer.Run(ctx, cfg.Taxonomy.CatalogPath); err != nil {
			logger.Warn().
				Err(err).
				Str("path", cfg.Taxonomy.CatalogPath).
				Msg("category catalog import failed, continuing with existing categories")
		}
	}

	// Initialize services
	catalogService := service.NewCatalogService(categoryRepo, productRepo, logger)
	productWriter := service.NewProductWriter(productRepo, categoryRepo, logger)

	// Initialize HTTP handlers
	categoryHandler := handler.NewCategoryHandler(catalogService, logger)
	productHandler := handler.NewProductHandler(catalogService, productWriter, logger)

	// Initialize router
	mux := router.New(categoryHandler, productHandler, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
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
