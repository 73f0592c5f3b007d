package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mrops-br/storefront-core/internal/domain"
	"github.com/mrops-br/storefront-core/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const persistKey = "persist:root"

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
}

// persistedState is the whitelist of state written to redis: only the cart
type persistedState struct {
	Cart domain.CartSnapshot `json:"cart"`
}

// CartRepository persists the cart snapshot under a single namespaced key.
// It implements domain.CartStore.
type CartRepository struct {
	store     cmdable
	raw       *redis.Client
	namespace string
	tracer    trace.Tracer
	logger    *slog.Logger
}

// NewCartRepository connects to redis and verifies connectivity
func NewCartRepository(ctx context.Context, cfg config.RedisConfig, namespace string, tracer trace.Tracer, logger *slog.Logger) (*CartRepository, error) {
	raw := redis.NewClient(&redis.Options{
		Addr:        cfg.Address,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.InfoContext(ctx, "Redis connection established",
		slog.String("address", cfg.Address),
		slog.String("namespace", namespace),
	)

	return &CartRepository{
		store:     raw,
		raw:       raw,
		namespace: namespace,
		tracer:    tracer,
		logger:    logger,
	}, nil
}

// Key is the redis key holding the persisted state
func (r *CartRepository) Key() string {
	parts := []string{}
	if ns := strings.TrimSpace(r.namespace); ns != "" {
		parts = append(parts, ns)
	}
	parts = append(parts, persistKey)
	return strings.Join(parts, ":")
}

// Save writes the snapshot without expiry
func (r *CartRepository) Save(ctx context.Context, snapshot domain.CartSnapshot) error {
	ctx, span := r.tracer.Start(ctx, "RedisCartRepository.Save")
	defer span.End()

	span.SetAttributes(
		attribute.String("redis.key", r.Key()),
		attribute.Int("cart.lines", len(snapshot)),
	)

	if snapshot == nil {
		snapshot = domain.CartSnapshot{}
	}
	payload, err := json.Marshal(persistedState{Cart: snapshot})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to encode cart")
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := r.store.Set(ctx, r.Key(), payload, 0).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save cart")
		return fmt.Errorf("failed to save cart: %w", err)
	}

	r.logger.DebugContext(ctx, "Cart saved in redis",
		slog.String("key", r.Key()),
		slog.Int("lines", len(snapshot)),
	)

	span.SetStatus(codes.Ok, "Cart saved")
	return nil
}

// Load reads the snapshot. A missing key or empty payload is a fresh cart.
func (r *CartRepository) Load(ctx context.Context) (domain.CartSnapshot, error) {
	ctx, span := r.tracer.Start(ctx, "RedisCartRepository.Load")
	defer span.End()

	span.SetAttributes(attribute.String("redis.key", r.Key()))

	raw, err := r.store.Get(ctx, r.Key()).Result()
	if errors.Is(err, redis.Nil) || (err == nil && strings.TrimSpace(raw) == "") {
		r.logger.InfoContext(ctx, "No persisted cart found",
			slog.String("key", r.Key()),
		)
		span.SetStatus(codes.Ok, "No persisted cart")
		return domain.CartSnapshot{}, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var state persistedState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to decode cart")
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	if state.Cart == nil {
		state.Cart = domain.CartSnapshot{}
	}

	span.SetAttributes(attribute.Int("cart.lines", len(state.Cart)))
	span.SetStatus(codes.Ok, "Cart loaded")
	return state.Cart, nil
}

// Ping checks connectivity
func (r *CartRepository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx).Err()
}

// Close releases the redis connection pool
func (r *CartRepository) Close() error {
	if r.raw == nil {
		return nil
	}
	return r.raw.Close()
}
