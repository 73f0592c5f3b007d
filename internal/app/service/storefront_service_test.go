package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mrops-br/storefront-core/internal/app/cart"
	"github.com/mrops-br/storefront-core/internal/app/catalog"
	"github.com/mrops-br/storefront-core/internal/app/criteria"
	"github.com/mrops-br/storefront-core/internal/app/pipeline"
	"github.com/mrops-br/storefront-core/internal/app/ui"
	"github.com/mrops-br/storefront-core/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

type stubSource struct {
	mu            sync.Mutex
	products      []domain.Product
	categories    []string
	err           error
	categoryErr   error
	productCalls  int
	categoryCalls int
}

func (s *stubSource) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.productCalls++
	return s.products, s.err
}

func (s *stubSource) FetchCategories(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categoryCalls++
	if s.categoryErr != nil {
		return nil, s.categoryErr
	}
	return s.categories, nil
}

type stubStore struct {
	mu       sync.Mutex
	snapshot domain.CartSnapshot
	loadErr  error
	saveErr  error
	saves    int
}

func (s *stubStore) Load(ctx context.Context) (domain.CartSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.snapshot, nil
}

func (s *stubStore) Save(ctx context.Context, snapshot domain.CartSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.snapshot = snapshot
	return nil
}

// gatedStore holds its first Save until release is closed
type gatedStore struct {
	mu       sync.Mutex
	calls    int
	snapshot domain.CartSnapshot
	entered  chan struct{}
	release  chan struct{}
}

func (s *gatedStore) Load(ctx context.Context) (domain.CartSnapshot, error) {
	return nil, nil
}

func (s *gatedStore) Save(ctx context.Context, snapshot domain.CartSnapshot) error {
	s.mu.Lock()
	s.calls++
	first := s.calls == 1
	s.mu.Unlock()

	if first {
		close(s.entered)
		<-s.release
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot
	return nil
}

func (s *gatedStore) saved() domain.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fixture struct {
	svc    *StorefrontService
	source *stubSource
	store  *stubStore
	clock  *clock
}

func newFixture(t *testing.T, pageSize int) *fixture {
	t.Helper()

	tracer := tracenoop.NewTracerProvider().Tracer("test")
	meter := metricnoop.NewMeterProvider().Meter("test")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	source := &stubSource{
		products: []domain.Product{
			{ID: 1, Title: "Backpack", Price: decimal.NewFromInt(10), Category: "a", Rating: domain.Rating{Rate: 4, Count: 10}},
			{ID: 2, Title: "Jacket", Price: decimal.NewFromInt(20), Category: "b", Rating: domain.Rating{Rate: 5, Count: 1}},
			{ID: 3, Title: "Bracelet", Price: decimal.RequireFromString("7.5"), Category: "b", Rating: domain.Rating{Rate: 3, Count: 50}},
		},
		categories: []string{"a", "b"},
	}
	store := &stubStore{}
	c := &clock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}

	svc := NewStorefrontService(Components{
		Catalog:   catalog.NewCache(source, time.Minute, tracer, meter, logger),
		Criteria:  criteria.NewStore(),
		Pager:     pipeline.NewPager(pageSize),
		Ledger:    cart.NewLedger(),
		UI:        ui.NewState(),
		CartStore: store,
	}, tracer, meter, logger, WithClock(c.Now))

	return &fixture{svc: svc, source: source, store: store, clock: c}
}

func TestBootstrapLoadsCatalogCategoriesAndCart(t *testing.T) {
	f := newFixture(t, 8)
	f.store.snapshot = domain.CartSnapshot{
		2: {Product: f.source.products[1], Quantity: 3},
	}
	ctx := context.Background()

	require.NoError(t, f.svc.Bootstrap(ctx))

	assert.Equal(t, 1, f.source.productCalls)
	assert.Equal(t, 1, f.source.categoryCalls)
	assert.Equal(t, 3, f.svc.Cart(ctx).ItemCount)

	entry := f.svc.catalog.Snapshot()
	assert.Equal(t, catalog.StatusReady, entry.Status)
	assert.Equal(t, []string{"a", "b"}, entry.Categories)
}

func TestBootstrapToleratesFailures(t *testing.T) {
	f := newFixture(t, 8)
	f.source.err = &domain.FetchError{Resource: "products", StatusCode: 503}
	f.source.categoryErr = errors.New("timeout")
	f.store.loadErr = errors.New("corrupt payload")

	require.NoError(t, f.svc.Bootstrap(context.Background()))

	entry := f.svc.catalog.Snapshot()
	assert.Equal(t, catalog.StatusFailed, entry.Status)
	assert.Empty(t, entry.Categories)
	assert.Zero(t, f.svc.Cart(context.Background()).LineCount)
}

func TestListProductsFeaturedAndPaging(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	page := f.svc.ListProducts(ctx)
	require.Len(t, page.Products, 2)
	assert.Equal(t, 3, page.Products[0].ID, "featured: 3*50 beats 4*10")
	assert.Equal(t, 1, page.Products[1].ID)
	assert.True(t, page.HasMore)
	assert.Equal(t, 3, page.TotalMatches)

	f.svc.LoadMore(ctx)
	page = f.svc.ListProducts(ctx)
	assert.Len(t, page.Products, 3)
	assert.False(t, page.HasMore)
	assert.Equal(t, 2, page.Page)
}

func TestListProductsUsesCacheWithinTTL(t *testing.T) {
	f := newFixture(t, 8)
	ctx := context.Background()

	f.svc.ListProducts(ctx)
	f.clock.Advance(59 * time.Second)
	f.svc.ListProducts(ctx)
	assert.Equal(t, 1, f.source.productCalls)

	f.clock.Advance(2 * time.Second)
	f.svc.ListProducts(ctx)
	assert.Equal(t, 2, f.source.productCalls)
}

func TestListProductsServesLastKnownCatalogOnFailure(t *testing.T) {
	f := newFixture(t, 8)
	ctx := context.Background()

	f.svc.ListProducts(ctx)

	f.source.err = &domain.FetchError{Resource: "products", StatusCode: 500}
	f.clock.Advance(time.Hour)

	page := f.svc.ListProducts(ctx)
	assert.Len(t, page.Products, 3)
	assert.Equal(t, catalog.StatusFailed, page.Catalog.Status)
	assert.NotEmpty(t, page.Catalog.Error)
}

func TestCriteriaChangesDoNotResetPage(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	f.svc.LoadMore(ctx)
	f.svc.SetCategories(ctx, []string{"b"})
	_, err := f.svc.SetSort(ctx, "price-low-high")
	require.NoError(t, err)

	page := f.svc.ListProducts(ctx)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Products, 2)
	assert.Equal(t, 3, page.Products[0].ID)
	assert.Equal(t, 2, page.Products[1].ID)

	assert.Equal(t, 1, f.svc.ResetPage(ctx).Page)
}

func TestSetPriceRangeFiltersListing(t *testing.T) {
	f := newFixture(t, 8)
	ctx := context.Background()

	f.svc.SetPriceRange(ctx, domain.PriceRange{Min: decimal.NewFromInt(15)})
	page := f.svc.ListProducts(ctx)
	require.Len(t, page.Products, 1)
	assert.Equal(t, 2, page.Products[0].ID)
	assert.Equal(t, 1, page.TotalMatches)
	assert.False(t, page.HasMore)
}

func TestSetRatingToggle(t *testing.T) {
	f := newFixture(t, 8)
	ctx := context.Background()
	four := 4.0

	state := f.svc.SetRating(ctx, &four, true)
	require.NotNil(t, state.Filter.Rating)
	state = f.svc.SetRating(ctx, &four, true)
	assert.Nil(t, state.Filter.Rating)

	f.svc.SetRating(ctx, &four, false)
	state = f.svc.SetRating(ctx, &four, false)
	assert.NotNil(t, state.Filter.Rating, "without toggle the same rating stays selected")
}

func TestSetViewModeRejectsUnknown(t *testing.T) {
	f := newFixture(t, 8)
	ctx := context.Background()

	_, err := f.svc.SetViewMode(ctx, "table")
	assert.ErrorIs(t, err, domain.ErrInvalidViewMode)

	state, err := f.svc.SetViewMode(ctx, "list")
	require.NoError(t, err)
	assert.Equal(t, domain.ViewList, state.ViewMode)
}

func TestCartOperationsPersist(t *testing.T) {
	f := newFixture(t, 8)
	ctx := context.Background()
	require.NoError(t, f.svc.Bootstrap(ctx))

	resp, err := f.svc.AddToCart(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.ItemCount, "quantity below 1 adds one")

	resp, err = f.svc.AddToCart(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.LineCount)
	assert.Equal(t, 3, resp.ItemCount)
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(30)))

	_, err = f.svc.AddToCart(ctx, 99, 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	resp = f.svc.SetCartQuantity(ctx, 1, 0)
	assert.Zero(t, resp.LineCount)
	assert.True(t, resp.Subtotal.IsZero())

	_, err = f.svc.AddToCart(ctx, 3, 1)
	require.NoError(t, err)
	resp = f.svc.RemoveFromCart(ctx, 3)
	assert.Zero(t, resp.LineCount)

	assert.Equal(t, 5, f.store.saves)
	assert.Empty(t, f.store.snapshot)
}

func TestConcurrentCartSavesKeepLatestSnapshot(t *testing.T) {
	f := newFixture(t, 8)
	ctx := context.Background()
	require.NoError(t, f.svc.Bootstrap(ctx))

	store := &gatedStore{entered: make(chan struct{}), release: make(chan struct{})}
	f.svc.cartStore = store

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := f.svc.AddToCart(ctx, 1, 1)
		assert.NoError(t, err)
	}()
	<-store.entered

	go func() {
		defer wg.Done()
		_, err := f.svc.AddToCart(ctx, 2, 1)
		assert.NoError(t, err)
	}()
	time.Sleep(20 * time.Millisecond)
	close(store.release)
	wg.Wait()

	assert.Equal(t, 2, f.svc.ledger.LineCount())
	saved := store.saved()
	assert.Len(t, saved, 2)
	assert.Contains(t, saved, 1)
	assert.Contains(t, saved, 2)
}

func TestCartSurvivesSaveFailure(t *testing.T) {
	f := newFixture(t, 8)
	ctx := context.Background()
	require.NoError(t, f.svc.Bootstrap(ctx))
	f.store.saveErr = errors.New("redis down")

	resp, err := f.svc.AddToCart(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.LineCount)
}

func TestQuickViewResolvesAgainstCatalog(t *testing.T) {
	f := newFixture(t, 8)
	ctx := context.Background()
	require.NoError(t, f.svc.Bootstrap(ctx))

	view := f.svc.OpenQuickView(ctx, 2)
	assert.True(t, view.Open)
	require.NotNil(t, view.Product)
	assert.Equal(t, "Jacket", view.Product.Title)

	view = f.svc.OpenQuickView(ctx, 404)
	assert.True(t, view.Open)
	require.NotNil(t, view.ProductID)
	assert.Equal(t, 404, *view.ProductID)
	assert.Nil(t, view.Product)

	view = f.svc.CloseQuickView(ctx)
	assert.False(t, view.Open)
	assert.Nil(t, view.ProductID)
}

func TestRefreshAndInvalidate(t *testing.T) {
	f := newFixture(t, 8)
	ctx := context.Background()

	status, err := f.svc.RefreshCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.StatusReady, status.Status)
	assert.Equal(t, 3, status.ProductCount)

	_, err = f.svc.RefreshCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.source.productCalls, "refresh inside the window is a hit")

	f.svc.InvalidateCatalog(ctx)
	f.source.err = &domain.FetchError{Resource: "products", StatusCode: 502}
	status, err = f.svc.RefreshCatalog(ctx)
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
	assert.Equal(t, catalog.StatusFailed, status.Status)
	assert.Equal(t, 3, status.ProductCount)
}

func TestPriceBoundsAndLookup(t *testing.T) {
	f := newFixture(t, 8)
	ctx := context.Background()

	bounds := f.svc.PriceBounds(ctx)
	assert.Nil(t, bounds.Lowest)

	require.NoError(t, f.svc.Bootstrap(ctx))
	bounds = f.svc.PriceBounds(ctx)
	require.NotNil(t, bounds.Lowest)
	assert.Equal(t, "7.5", bounds.Lowest.String())
	assert.Equal(t, "20", bounds.Highest.String())

	product, err := f.svc.GetProductByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Bracelet", product.Title)

	_, err = f.svc.GetProductByID(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCriteriaAndUIOperationsAreTraced(t *testing.T) {
	f := newFixture(t, 8)
	ctx := context.Background()
	require.NoError(t, f.svc.Bootstrap(ctx))

	recorder := tracetest.NewSpanRecorder()
	f.svc.tracer = sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)).Tracer("test")

	f.svc.ToggleCategory(ctx, "b")
	_, err := f.svc.SetSort(ctx, "cheapest")
	require.Error(t, err)
	f.svc.ToggleCart(ctx)
	f.svc.OpenQuickView(ctx, 2)

	statuses := map[string]codes.Code{}
	for _, span := range recorder.Ended() {
		statuses[span.Name()] = span.Status().Code
	}
	assert.Equal(t, codes.Ok, statuses["StorefrontService.ToggleCategory"])
	assert.Equal(t, codes.Error, statuses["StorefrontService.SetSort"])
	assert.Equal(t, codes.Ok, statuses["StorefrontService.ToggleCart"])
	assert.Equal(t, codes.Ok, statuses["StorefrontService.OpenQuickView"])
	assert.Equal(t, codes.Ok, statuses["StorefrontService.QuickView"])
}
