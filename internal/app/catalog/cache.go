package catalog

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/mrops-br/storefront-core/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTTL is how long a fetched catalog is served without refetching
const DefaultTTL = 5 * time.Minute

// Status is the fetch state of the catalog
type Status string

const (
	StatusEmpty   Status = "empty"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// Entry is a point-in-time view of the cached catalog.
// Generation increases every time Items is replaced.
type Entry struct {
	Items         []domain.Product
	Categories    []string
	Status        Status
	LastFetchedAt *time.Time
	Error         string
	Generation    uint64
}

// Fresh reports whether entry may be served at now without refetching
func Fresh(entry Entry, now time.Time, ttl time.Duration) bool {
	if entry.Status != StatusReady || entry.LastFetchedAt == nil {
		return false
	}
	return now.Sub(*entry.LastFetchedAt) < ttl
}

// Cache holds the fetched catalog and decides when it must be refetched.
//
// Fetches are neither de-duplicated nor cancelled: two overlapping misses
// both hit the source and whichever completes last wins.
type Cache struct {
	mu     sync.RWMutex
	entry  Entry
	index  map[int]int
	source domain.CatalogSource
	ttl    time.Duration

	tracer        trace.Tracer
	logger        *slog.Logger
	lookups       metric.Int64Counter
	fetchFailures metric.Int64Counter
}

// NewCache creates an empty catalog cache backed by source
func NewCache(
	source domain.CatalogSource,
	ttl time.Duration,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	lookups, _ := meter.Int64Counter(
		"storefront.catalog.lookups",
		metric.WithDescription("Catalog requests by cache outcome"),
	)
	fetchFailures, _ := meter.Int64Counter(
		"storefront.fetch.failures",
		metric.WithDescription("Failed catalog and category fetches"),
	)

	return &Cache{
		entry:         Entry{Status: StatusEmpty, Categories: []string{}},
		index:         map[int]int{},
		source:        source,
		ttl:           ttl,
		tracer:        tracer,
		logger:        logger,
		lookups:       lookups,
		fetchFailures: fetchFailures,
	}
}

// TTL returns the configured freshness window
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// RequestCatalog serves the cached items when they are fresh at now and
// otherwise refetches the whole product list. A failed fetch marks the
// cache failed and keeps the previous items.
func (c *Cache) RequestCatalog(ctx context.Context, now time.Time) (Entry, error) {
	ctx, span := c.tracer.Start(ctx, "CatalogCache.RequestCatalog")
	defer span.End()

	c.mu.Lock()
	if Fresh(c.entry, now, c.ttl) {
		entry := c.snapshotLocked()
		c.mu.Unlock()

		span.SetAttributes(
			attribute.Bool("cache.hit", true),
			attribute.Int("product.count", len(entry.Items)),
		)
		c.lookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "hit")))
		c.logger.DebugContext(ctx, "Catalog served from cache",
			slog.Int("count", len(entry.Items)),
		)
		span.SetStatus(codes.Ok, "Catalog served from cache")
		return entry, nil
	}

	// A warm cache keeps its visible status while refetching.
	if len(c.entry.Items) == 0 {
		c.entry.Status = StatusLoading
	}
	c.mu.Unlock()

	span.SetAttributes(attribute.Bool("cache.hit", false))
	c.lookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "miss")))
	c.logger.InfoContext(ctx, "Fetching catalog")

	products, err := c.source.FetchProducts(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.entry.Status = StatusFailed
		c.entry.Error = err.Error()

		span.RecordError(err)
		span.SetStatus(codes.Error, "Catalog fetch failed")
		c.fetchFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("resource", "products")))
		c.logger.ErrorContext(ctx, "Failed to fetch catalog",
			slog.String("error", err.Error()),
		)
		return c.snapshotLocked(), err
	}

	fetchedAt := now
	c.entry.Items = products
	c.entry.Status = StatusReady
	c.entry.LastFetchedAt = &fetchedAt
	c.entry.Error = ""
	c.entry.Generation++
	c.reindexLocked()

	span.SetAttributes(attribute.Int("product.count", len(products)))
	c.logger.InfoContext(ctx, "Catalog fetched",
		slog.Int("count", len(products)),
	)
	span.SetStatus(codes.Ok, "Catalog fetched")
	return c.snapshotLocked(), nil
}

// RequestCategories always refetches the category list. A failure keeps
// the previous list and is only logged.
func (c *Cache) RequestCategories(ctx context.Context) []string {
	ctx, span := c.tracer.Start(ctx, "CatalogCache.RequestCategories")
	defer span.End()

	categories, err := c.source.FetchCategories(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Category fetch failed")
		c.fetchFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("resource", "categories")))
		c.logger.WarnContext(ctx, "Failed to fetch categories, keeping previous list",
			slog.String("error", err.Error()),
			slog.Int("count", len(c.entry.Categories)),
		)
		return slices.Clone(c.entry.Categories)
	}

	if categories == nil {
		categories = []string{}
	}
	c.entry.Categories = categories

	span.SetAttributes(attribute.Int("category.count", len(categories)))
	span.SetStatus(codes.Ok, "Categories fetched")
	return slices.Clone(categories)
}

// Invalidate forces the next RequestCatalog to refetch
func (c *Cache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entry.LastFetchedAt = nil
	c.logger.InfoContext(ctx, "Catalog cache invalidated")
}

// Snapshot returns the current entry without touching the source
func (c *Cache) Snapshot() Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

// Lookup resolves a product id against the cached items
func (c *Cache) Lookup(id int) (domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[id]
	if !ok {
		return domain.Product{}, false
	}
	return c.entry.Items[i], true
}

// snapshotLocked shares the item slice; it is replaced wholesale, never mutated.
func (c *Cache) snapshotLocked() Entry {
	entry := c.entry
	if c.entry.LastFetchedAt != nil {
		fetchedAt := *c.entry.LastFetchedAt
		entry.LastFetchedAt = &fetchedAt
	}
	return entry
}

func (c *Cache) reindexLocked() {
	index := make(map[int]int, len(c.entry.Items))
	for i, p := range c.entry.Items {
		if _, dup := index[p.ID]; !dup {
			index[p.ID] = i
		}
	}
	c.index = index
}
