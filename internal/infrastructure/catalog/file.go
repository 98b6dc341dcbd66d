package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/receiptlens/backend/internal/domain"
)

// FileRepository loads the category->brands catalog from a JSON document
// (object of category name -> array of brand names). Every Load reads the
// file fresh; wrap with CachingRepository when reloads per request are too
// expensive.
type FileRepository struct {
	path string
}

// NewFileRepository creates a catalog repository reading from the given path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Load reads and decodes the catalog source. A missing or malformed file is
// reported as ErrCatalogUnavailable; callers are expected to downgrade
// rather than fail the request.
func (r *FileRepository) Load(ctx context.Context) (*domain.Catalog, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrCatalogUnavailable, r.path, err)
	}

	var catalog domain.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrCatalogUnavailable, r.path, err)
	}

	return &catalog, nil
}

// CachingRepository decorates a CatalogRepository with TTL caching. The
// cached catalog is shared across requests and never mutated, so concurrent
// readers are safe.
type CachingRepository struct {
	inner domain.CatalogRepository
	cache domain.CacheRepository
	ttl   time.Duration
}

const catalogCacheKey = "catalog:brands"

// NewCachingRepository wraps inner with a cache layer.
func NewCachingRepository(inner domain.CatalogRepository, cache domain.CacheRepository, ttl time.Duration) *CachingRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachingRepository{inner: inner, cache: cache, ttl: ttl}
}

// Load returns the cached catalog when present, otherwise loads through the
// inner repository and caches the result. Load failures are never cached.
func (r *CachingRepository) Load(ctx context.Context) (*domain.Catalog, error) {
	if cached, err := r.cache.Get(ctx, catalogCacheKey); err == nil {
		if catalog, ok := cached.(*domain.Catalog); ok {
			return catalog, nil
		}
	}

	catalog, err := r.inner.Load(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, catalogCacheKey, catalog, r.ttl); err != nil {
		// Caching is best-effort; the loaded catalog is still good
		return catalog, nil
	}

	return catalog, nil
}
