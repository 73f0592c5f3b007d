package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrops-br/storefront-core/internal/app/cart"
	"github.com/mrops-br/storefront-core/internal/app/catalog"
	"github.com/mrops-br/storefront-core/internal/app/criteria"
	"github.com/mrops-br/storefront-core/internal/app/pipeline"
	"github.com/mrops-br/storefront-core/internal/app/service"
	"github.com/mrops-br/storefront-core/internal/app/ui"
	"github.com/mrops-br/storefront-core/internal/domain"
	"github.com/mrops-br/storefront-core/internal/infrastructure/catalogapi"
	"github.com/mrops-br/storefront-core/internal/infrastructure/config"
	"github.com/mrops-br/storefront-core/internal/infrastructure/http"
	"github.com/mrops-br/storefront-core/internal/infrastructure/http/handler"
	"github.com/mrops-br/storefront-core/internal/infrastructure/repository/memory"
	"github.com/mrops-br/storefront-core/internal/infrastructure/repository/redis"
	"github.com/mrops-br/storefront-core/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var telem *telemetry.Telemetry
	if cfg.OTLP.Enabled {
		telem, err = telemetry.NewTelemetry(&cfg.OTLP)
		if err != nil {
			log.Fatalf("Failed to initialize telemetry: %v", err)
		}
	} else {
		telem = telemetry.NewNoOpTelemetry(&cfg.OTLP)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	tracer := telem.Tracer()
	meter := telem.Meter()
	logger := telem.Logger

	logger.Info("Starting storefront core",
		slog.String("catalog_base_url", cfg.Catalog.BaseURL),
		slog.Duration("catalog_ttl", cfg.Catalog.TTL),
		slog.String("cart_store", cfg.Cart.Store),
	)

	cartStore, closeStore, err := newCartStore(ctx, cfg, tracer, logger)
	if err != nil {
		logger.Error("Failed to initialize cart store", slog.String("error", err.Error()))
		return
	}
	defer closeStore()

	source := catalogapi.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.HTTPTimeout, tracer, logger)

	storefront := service.NewStorefrontService(service.Components{
		Catalog:   catalog.NewCache(source, cfg.Catalog.TTL, tracer, meter, logger),
		Criteria:  criteria.NewStore(),
		Pager:     pipeline.NewPager(cfg.Catalog.PageSize),
		Ledger:    cart.NewLedger(),
		UI:        ui.NewState(),
		CartStore: cartStore,
	}, tracer, meter, logger)

	if err := storefront.Bootstrap(ctx); err != nil {
		logger.Error("Bootstrap failed", slog.String("error", err.Error()))
		return
	}

	storefrontHandler := handler.NewStorefrontHandler(storefront, logger)
	server := http.NewServer(&cfg.Server, storefrontHandler, logger, telem)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down server...")
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}

	logger.Info("Server stopped")
}

// newCartStore selects the cart persistence backend from configuration
func newCartStore(ctx context.Context, cfg *config.Config, tracer trace.Tracer, logger *slog.Logger) (domain.CartStore, func(), error) {
	if cfg.Cart.Store != config.CartStoreRedis {
		return memory.NewCartRepository(tracer, logger), func() {}, nil
	}

	repo, err := redis.NewCartRepository(ctx, cfg.Redis, cfg.Cart.Namespace, tracer, logger)
	if err != nil {
		return nil, nil, err
	}
	return repo, func() {
		if err := repo.Close(); err != nil {
			logger.Error("Failed to close redis client", slog.String("error", err.Error()))
		}
	}, nil
}
