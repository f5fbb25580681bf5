package repositories

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubSource struct {
	mu    sync.Mutex
	calls int
	body  []byte
	err   error
}

func (s *stubSource) ListCompanyProducts(ctx context.Context, company, category string, filters map[string]string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.body, s.err
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
}

func newMemoryCache() *memoryCache { return &memoryCache{entries: map[string][]byte{}} }

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *memoryCache) Flush(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.entries)
	m.entries = map[string][]byte{}
	return n, nil
}

func (m *memoryCache) Enabled() bool { return true }

func TestGetCategoryProductsDecodes(t *testing.T) {
	src := &stubSource{body: []byte(`[{"id":"a","price":10},{"id":"b","price":20}]`)}
	repo := NewCatalogRepository(src, nil, nil)

	products, err := repo.GetCategoryProducts(context.Background(), "AMZ", "Laptop", nil)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "b", products[1].ID())
}

func TestGetCategoryProductsPropagatesUpstreamError(t *testing.T) {
	boom := errors.New("request failed with status code 503")
	repo := NewCatalogRepository(&stubSource{err: boom}, newMemoryCache(), zap.NewNop())

	_, err := repo.GetCategoryProducts(context.Background(), "FLP", "Laptop", nil)
	require.ErrorIs(t, err, boom)
}

func TestGetCategoryProductsRejectsNonArrayBody(t *testing.T) {
	cache := newMemoryCache()
	repo := NewCatalogRepository(&stubSource{body: []byte(`{"message":"nope"}`)}, cache, zap.NewNop())

	_, err := repo.GetCategoryProducts(context.Background(), "SNP", "Laptop", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "partition SNP")
	assert.Empty(t, cache.entries, "undecodable bodies must not be cached")
}

func TestGetCategoryProductsReadThroughCache(t *testing.T) {
	src := &stubSource{body: []byte(`[{"id":"a"}]`)}
	cache := newMemoryCache()
	repo := NewCatalogRepository(src, cache, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		products, err := repo.GetCategoryProducts(ctx, "AMZ", "Laptop", map[string]string{"top": "5"})
		require.NoError(t, err)
		require.Len(t, products, 1)
	}
	assert.Equal(t, 1, src.calls)

	// different filters are a different key
	_, err := repo.GetCategoryProducts(ctx, "AMZ", "Laptop", map[string]string{"top": "6"})
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestCacheReadFailureFallsBackToUpstream(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	src := &stubSource{body: []byte(`[{"id":"a"}]`)}
	cache := newMemoryCache()
	cache.getErr = errors.New("redis down")
	repo := NewCatalogRepository(src, cache, zap.New(core))

	products, err := repo.GetCategoryProducts(context.Background(), "AZO", "Laptop", nil)
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 1, logs.FilterMessage("Product cache read failed").Len())
}

func TestCacheKeyIgnoresEmptyFilters(t *testing.T) {
	a := cacheKey("AMZ", "Laptop", map[string]string{"top": "5", "minPrice": ""})
	b := cacheKey("AMZ", "Laptop", map[string]string{"top": "5"})
	c := cacheKey("FLP", "Laptop", map[string]string{"top": "5"})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestNewProductCacheDisabledWithoutRedis(t *testing.T) {
	cache := NewProductCache(nil, time.Minute)
	assert.False(t, cache.Enabled())
	n, err := cache.Flush(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisProductCache(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDRESS")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDRESS not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	ctx := context.Background()
	require.NoError(t, rdb.Ping(ctx).Err())

	cache := NewProductCache(rdb, time.Minute)
	_, err := cache.Flush(ctx)
	require.NoError(t, err)

	key := cacheKey("AMZ", "Laptop", nil)
	_, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, key, []byte(`[{"id":"a"}]`)))
	got, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"id":"a"}]`, string(got))

	n, err := cache.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
