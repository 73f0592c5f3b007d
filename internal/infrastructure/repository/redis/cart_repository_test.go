package redis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mrops-br/storefront-core/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

type mockCmdable struct {
	data    map[string]string
	setErr  error
	getErr  error
	expires []time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: make(map[string]string)}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	if m.getErr != nil {
		return redis.NewStringResult("", m.getErr)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if m.setErr != nil {
		return redis.NewStatusResult("", m.setErr)
	}
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	m.expires = append(m.expires, expiration)
	return redis.NewStatusResult("OK", nil)
}

func newTestRepository(store cmdable, namespace string) *CartRepository {
	return &CartRepository{
		store:     store,
		namespace: namespace,
		tracer:    tracenoop.NewTracerProvider().Tracer("test"),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "storefront:persist:root", newTestRepository(nil, "storefront").Key())
	assert.Equal(t, "persist:root", newTestRepository(nil, "  ").Key())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	repo := newTestRepository(mock, "storefront")

	snapshot := domain.CartSnapshot{
		1: {
			Product: domain.Product{
				ID:     1,
				Title:  "Backpack",
				Price:  decimal.RequireFromString("109.95"),
				Rating: domain.Rating{Rate: 3.9, Count: 120},
			},
			Quantity: 2,
		},
	}
	require.NoError(t, repo.Save(ctx, snapshot))

	assert.Contains(t, mock.data, "storefront:persist:root")
	assert.Contains(t, mock.data["storefront:persist:root"], `"cart":`)
	assert.Equal(t, []time.Duration{0}, mock.expires, "cart never expires")

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Contains(t, loaded, 1)
	assert.Equal(t, 2, loaded[1].Quantity)
	assert.True(t, loaded[1].Price.Equal(decimal.RequireFromString("109.95")))
	assert.Equal(t, "Backpack", loaded[1].Title)
}

func TestLoadMissingOrEmptyIsFreshCart(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	repo := newTestRepository(mock, "storefront")

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)

	mock.data[repo.Key()] = "  "
	loaded, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)

	mock.data[repo.Key()] = `{"cart":null}`
	loaded, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, loaded)
}

func TestLoadErrors(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	repo := newTestRepository(mock, "storefront")

	mock.data[repo.Key()] = "{not json"
	_, err := repo.Load(ctx)
	assert.ErrorContains(t, err, "failed to decode cart")

	mock.getErr = errors.New("connection reset")
	_, err = repo.Load(ctx)
	assert.ErrorContains(t, err, "connection reset")
}

func TestSaveError(t *testing.T) {
	mock := newMockCmdable()
	mock.setErr = errors.New("READONLY")
	repo := newTestRepository(mock, "storefront")

	err := repo.Save(context.Background(), domain.CartSnapshot{})
	assert.ErrorContains(t, err, "READONLY")
}

func TestSaveNilWritesEmptyCart(t *testing.T) {
	mock := newMockCmdable()
	repo := newTestRepository(mock, "")

	require.NoError(t, repo.Save(context.Background(), nil))
	assert.JSONEq(t, `{"cart":{}}`, mock.data["persist:root"])
	assert.NoError(t, repo.Ping(context.Background()))
	assert.NoError(t, repo.Close())
}
