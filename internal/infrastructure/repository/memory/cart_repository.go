package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mrops-br/storefront-core/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// CartRepository is an in-memory implementation of domain.CartStore.
// Its contents do not survive a restart.
type CartRepository struct {
	mu       sync.RWMutex
	snapshot domain.CartSnapshot
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewCartRepository creates a new in-memory cart repository
func NewCartRepository(tracer trace.Tracer, logger *slog.Logger) *CartRepository {
	return &CartRepository{
		tracer: tracer,
		logger: logger,
	}
}

// Save replaces the stored snapshot
func (r *CartRepository) Save(ctx context.Context, snapshot domain.CartSnapshot) error {
	ctx, span := r.tracer.Start(ctx, "CartRepository.Save")
	defer span.End()

	span.SetAttributes(attribute.Int("cart.lines", len(snapshot)))

	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshot = copySnapshot(snapshot)

	r.logger.DebugContext(ctx, "Cart saved in memory",
		slog.Int("lines", len(snapshot)),
	)

	span.SetStatus(codes.Ok, "Cart saved")
	return nil
}

// Load returns the stored snapshot, or an empty one if nothing was saved
func (r *CartRepository) Load(ctx context.Context) (domain.CartSnapshot, error) {
	_, span := r.tracer.Start(ctx, "CartRepository.Load")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	span.SetAttributes(attribute.Int("cart.lines", len(r.snapshot)))
	span.SetStatus(codes.Ok, "Cart loaded")
	return copySnapshot(r.snapshot), nil
}

func copySnapshot(in domain.CartSnapshot) domain.CartSnapshot {
	out := make(domain.CartSnapshot, len(in))
	for id, line := range in {
		out[id] = line
	}
	return out
}
