package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/receiptlens/backend/internal/domain"
)

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "category_to_brands.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileRepository_Load(t *testing.T) {
	path := writeCatalogFile(t, `{"Dairy":["Amul","Britannia"],"Snacks":["Lays"]}`)
	repo := NewFileRepository(path)

	catalog, err := repo.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Dairy", "Snacks"}, catalog.Categories())
	assert.Equal(t, []string{"Amul", "Britannia"}, catalog.Brands("Dairy"))
}

func TestFileRepository_MissingFile(t *testing.T) {
	repo := NewFileRepository(filepath.Join(t.TempDir(), "nope.json"))

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}

func TestFileRepository_MalformedFile(t *testing.T) {
	path := writeCatalogFile(t, `{"Dairy": "not-an-array"`)
	repo := NewFileRepository(path)

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}

// countingRepo wraps a repository and counts Load calls.
type countingRepo struct {
	inner domain.CatalogRepository
	calls int
}

func (c *countingRepo) Load(ctx context.Context) (*domain.Catalog, error) {
	c.calls++
	return c.inner.Load(ctx)
}

type mapCache struct {
	data map[string]interface{}
}

func (m *mapCache) Get(ctx context.Context, key string) (interface{}, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *mapCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *mapCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *mapCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

func TestCachingRepository_LoadsOnce(t *testing.T) {
	path := writeCatalogFile(t, `{"Dairy":["Amul"]}`)
	counting := &countingRepo{inner: NewFileRepository(path)}
	repo := NewCachingRepository(counting, &mapCache{data: map[string]interface{}{}}, time.Minute)

	ctx := context.Background()
	first, err := repo.Load(ctx)
	require.NoError(t, err)

	second, err := repo.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, counting.calls)
	// Same ordered catalog instance comes back from the cache
	assert.Same(t, first, second)
}

func TestCachingRepository_FailuresNotCached(t *testing.T) {
	missing := NewFileRepository(filepath.Join(t.TempDir(), "nope.json"))
	counting := &countingRepo{inner: missing}
	repo := NewCachingRepository(counting, &mapCache{data: map[string]interface{}{}}, time.Minute)

	ctx := context.Background()
	_, err := repo.Load(ctx)
	require.Error(t, err)

	_, err = repo.Load(ctx)
	require.Error(t, err)
	assert.Equal(t, 2, counting.calls)
}
