package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brewpos/internal/auth"
	"brewpos/internal/cart"
	"brewpos/internal/catalog"
	"brewpos/internal/checkout"
	"brewpos/internal/config"
	"brewpos/internal/database"
	"brewpos/internal/handler"
	"brewpos/internal/model"
	"brewpos/internal/repository"
	"brewpos/internal/router"
	"brewpos/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting brewpos API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	cashFlowRepo := repository.NewCashFlowRepository(pool, logger)
	settingsRepo := repository.NewSettingsRepository(pool, logger)
	staffRepo := repository.NewStaffRepository(pool, logger)

	if len(cfg.Catalog.Files) > 0 {
		if err := importCatalog(ctx, cfg, productRepo, logger); err != nil {
			return fmt.Errorf("failed to import catalogue: %w", err)
		}
	}

	// Services
	settingsService := service.NewSettingsService(settingsRepo, model.Settings{
		ShopName: cfg.Shop.Name,
		TaxRate:  cfg.Shop.DefaultTaxRate,
		Currency: cfg.Shop.Currency,
	}, logger)

	registry := cart.NewRegistry()
	go registry.Run(ctx, cfg.Shop.CartIdleTTL, cfg.Shop.CartSweepInterval, logger)
	numbers := checkout.NewOrderNumberGenerator(cfg.Shop.OrderNumberPrefix)

	productService := service.NewProductService(productRepo, logger)
	cartService := service.NewCartService(registry, productRepo, settingsService, logger)
	orderService := service.NewOrderService(orderRepo, registry, settingsService, numbers, logger)
	cashFlowService := service.NewCashFlowService(cashFlowRepo, logger)
	reportService := service.NewReportService(orderRepo, time.Local, logger)
	staffService := service.NewStaffService(staffRepo, logger)

	// HTTP handlers
	handlers := router.Handlers{
		Products:  handler.NewProductHandler(productService, logger),
		Carts:     handler.NewCartHandler(cartService, logger),
		Orders:    handler.NewOrderHandler(orderService, time.Local, logger),
		CashFlows: handler.NewCashFlowHandler(cashFlowService, time.Local, logger),
		Reports:   handler.NewReportHandler(reportService, time.Local, logger),
		Settings:  handler.NewSettingsHandler(settingsService, logger),
		Staff:     handler.NewStaffHandler(staffService, logger),
	}

	tokens := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	mux := router.New(handlers, tokens, staffService, cfg.Server.AllowedOrigins, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
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
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Int("open_carts", registry.Len()).
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

// importCatalog loads the configured catalogue files, from S3 when enabled with
// a local fallback, and upserts them before the server accepts requests.
func importCatalog(ctx context.Context, cfg *config.Config, store catalog.Store, logger zerolog.Logger) error {
	fileLoader := catalog.NewFileLoader(logger)

	var s3Loader catalog.Loader
	if cfg.S3.Enabled {
		loader, err := catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = loader
		}
	} else {
		logger.Info().Msg("using local file system for catalogue files (S3 disabled)")
	}

	loader := catalog.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, cfg.S3.Enabled, logger)

	result, err := catalog.NewImporter(loader, store, logger).Import(ctx, cfg.Catalog.Files...)
	if err != nil {
		return err
	}

	logger.Info().
		Int("files", result.Files).
		Int("categories", result.Categories).
		Int("products", result.Products).
		Msg("catalogue imported")
	return nil
}
