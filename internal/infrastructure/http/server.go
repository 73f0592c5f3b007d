package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mrops-br/storefront-core/internal/infrastructure/config"
	"github.com/mrops-br/storefront-core/internal/infrastructure/http/handler"
	"github.com/mrops-br/storefront-core/internal/infrastructure/http/middleware"
	"github.com/mrops-br/storefront-core/internal/infrastructure/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

// Server represents the HTTP server
type Server struct {
	router    *chi.Mux
	handler   *handler.StorefrontHandler
	logger    *slog.Logger
	telemetry *telemetry.Telemetry
	srv       *http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.ServerConfig,
	handler *handler.StorefrontHandler,
	logger *slog.Logger,
	telem *telemetry.Telemetry,
) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		handler:   handler,
		logger:    logger,
		telemetry: telem,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.srv = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// setupMiddleware configures the middleware chain
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.StructuredLogger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(chimiddleware.RequestID)

	meter := s.telemetry.Meter()
	s.router.Use(middleware.ActiveRequestsMiddleware(meter))
	s.router.Use(middleware.DurationMillisecondsMiddleware(meter))
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.Group(func(r chi.Router) {
		// Inline middleware wraps each endpoint, so the full route pattern
		// is resolved by the time it runs. Keep these routes flat.
		r.Use(middleware.HTTPRouteContext())

		r.Get("/products", s.handler.ListProducts)
		r.Get("/products/price-bounds", s.handler.PriceBounds)
		r.Get("/products/{id}", s.handler.GetProduct)

		r.Post("/catalog/refresh", s.handler.RefreshCatalog)
		r.Post("/catalog/invalidate", s.handler.InvalidateCatalog)
		r.Get("/categories", s.handler.ListCategories)

		r.Get("/criteria", s.handler.GetCriteria)
		r.Delete("/criteria", s.handler.ResetFilters)
		r.Get("/criteria/sort-options", s.handler.SortOptions)
		r.Put("/criteria/categories", s.handler.SetCategories)
		r.Post("/criteria/categories/{category}/toggle", s.handler.ToggleCategory)
		r.Put("/criteria/price", s.handler.SetPriceRange)
		r.Put("/criteria/rating", s.handler.SetRating)
		r.Put("/criteria/search", s.handler.SetSearch)
		r.Put("/criteria/sort", s.handler.SetSort)
		r.Put("/criteria/view", s.handler.SetViewMode)

		r.Post("/pagination/more", s.handler.LoadMore)
		r.Post("/pagination/reset", s.handler.ResetPage)

		r.Get("/cart", s.handler.GetCart)
		r.Post("/cart/items", s.handler.AddCartItem)
		r.Put("/cart/items/{id}", s.handler.SetCartQuantity)
		r.Delete("/cart/items/{id}", s.handler.RemoveCartItem)

		r.Get("/ui", s.handler.GetUI)
		r.Post("/ui/mobile-filter/toggle", s.handler.ToggleMobileFilter)
		r.Post("/ui/cart/toggle", s.handler.ToggleCart)
		r.Get("/ui/quick-view", s.handler.GetQuickView)
		r.Post("/ui/quick-view/{id}", s.handler.OpenQuickView)
		r.Delete("/ui/quick-view", s.handler.CloseQuickView)
	})

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// OpenTelemetry metrics through the Prometheus exporter
	s.router.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// Handler returns the router wrapped with otelhttp
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "http-server",
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
		otelhttp.WithTracerProvider(s.telemetry.TracerProvider),
		otelhttp.WithMeterProvider(s.telemetry.MeterProvider),
		otelhttp.WithMetricAttributesFn(func(r *http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{
				attribute.String("http.route", middleware.RoutePattern(r)),
			}
		}),
	)
}

// Start starts the HTTP server and blocks until it stops. A graceful
// Shutdown makes Start return nil.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		slog.String("address", s.srv.Addr),
	)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")
	return s.srv.Shutdown(ctx)
}
