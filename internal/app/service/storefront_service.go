package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mrops-br/storefront-core/internal/app/cart"
	"github.com/mrops-br/storefront-core/internal/app/catalog"
	"github.com/mrops-br/storefront-core/internal/app/criteria"
	"github.com/mrops-br/storefront-core/internal/app/pipeline"
	"github.com/mrops-br/storefront-core/internal/app/ui"
	"github.com/mrops-br/storefront-core/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Components are the state owners the storefront composes
type Components struct {
	Catalog   *catalog.Cache
	Criteria  *criteria.Store
	Pager     *pipeline.Pager
	Ledger    *cart.Ledger
	UI        *ui.State
	CartStore domain.CartStore
}

// StorefrontService handles storefront use cases. It is the only place
// the components are wired together.
type StorefrontService struct {
	catalog   *catalog.Cache
	criteria  *criteria.Store
	pager     *pipeline.Pager
	ledger    *cart.Ledger
	ui        *ui.State
	cartStore domain.CartStore
	cartMu    sync.Mutex
	memo      pipeline.Memo
	now       func() time.Time

	tracer            trace.Tracer
	logger            *slog.Logger
	operations        metric.Int64Counter
	persistenceErrors metric.Int64Counter
}

// Option customises a StorefrontService
type Option func(*StorefrontService)

// WithClock replaces time.Now for freshness checks
func WithClock(now func() time.Time) Option {
	return func(s *StorefrontService) {
		s.now = now
	}
}

// NewStorefrontService creates a new storefront service
func NewStorefrontService(
	c Components,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
	opts ...Option,
) *StorefrontService {
	operations, _ := meter.Int64Counter(
		"storefront.operations",
		metric.WithDescription("Total number of storefront operations"),
	)
	persistenceErrors, _ := meter.Int64Counter(
		"storefront.cart.persistence.errors",
		metric.WithDescription("Failed cart save or restore attempts"),
	)

	s := &StorefrontService{
		catalog:           c.Catalog,
		criteria:          c.Criteria,
		pager:             c.Pager,
		ledger:            c.Ledger,
		ui:                c.UI,
		cartStore:         c.CartStore,
		now:               time.Now,
		tracer:            tracer,
		logger:            logger,
		operations:        operations,
		persistenceErrors: persistenceErrors,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bootstrap restores the persisted cart and loads catalog and categories
// concurrently. A catalog failure is recorded in the cache state and
// logged; it does not abort startup.
func (s *StorefrontService) Bootstrap(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.Bootstrap")
	defer span.End()

	s.restoreCart(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.catalog.RequestCatalog(gctx, s.now())
		if err != nil {
			s.logger.WarnContext(gctx, "Catalog unavailable at startup",
				slog.String("error", err.Error()),
			)
		}
		return nil
	})
	g.Go(func() error {
		s.catalog.RequestCategories(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bootstrap failed")
		return err
	}

	entry := s.catalog.Snapshot()
	span.SetAttributes(
		attribute.String("catalog.status", string(entry.Status)),
		attribute.Int("cart.lines", s.ledger.LineCount()),
	)
	s.logger.InfoContext(ctx, "Storefront bootstrapped",
		slog.String("catalog_status", string(entry.Status)),
		slog.Int("products", len(entry.Items)),
		slog.Int("categories", len(entry.Categories)),
		slog.Int("cart_lines", s.ledger.LineCount()),
	)
	span.SetStatus(codes.Ok, "Bootstrapped")
	return nil
}

func (s *StorefrontService) restoreCart(ctx context.Context) {
	if s.cartStore == nil {
		return
	}

	snapshot, err := s.cartStore.Load(ctx)
	if err != nil {
		s.persistenceErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "restore")))
		s.logger.ErrorContext(ctx, "Failed to restore cart, starting empty",
			slog.String("error", err.Error()),
		)
		return
	}

	dropped := s.ledger.Restore(snapshot)
	if dropped > 0 {
		s.logger.WarnContext(ctx, "Dropped invalid cart lines on restore",
			slog.Int("dropped", dropped),
		)
	}
	s.logger.InfoContext(ctx, "Cart restored",
		slog.Int("lines", s.ledger.LineCount()),
		slog.Int("items", s.ledger.ItemCount()),
	)
}

// mutateCart applies mutate and saves the resulting snapshot. Mutation and
// save run under cartMu so saves land in mutation order.
func (s *StorefrontService) mutateCart(ctx context.Context, mutate func()) {
	s.cartMu.Lock()
	defer s.cartMu.Unlock()

	mutate()
	s.persistCart(ctx)
}

func (s *StorefrontService) persistCart(ctx context.Context) {
	if s.cartStore == nil {
		return
	}
	if err := s.cartStore.Save(ctx, s.ledger.Snapshot()); err != nil {
		s.persistenceErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "save")))
		s.logger.ErrorContext(ctx, "Failed to persist cart",
			slog.String("error", err.Error()),
		)
	}
}

func (s *StorefrontService) record(ctx context.Context, operation, result string) {
	s.operations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}
