package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogRepository loads the category->brands reference data. Loading is
// cheap enough to happen per request; implementations may cache behind the
// scenes but must hand out effectively immutable catalogs.
type CatalogRepository interface {
	Load(ctx context.Context) (*Catalog, error)
}

// RecognizedText is the output of one OCR run. Degraded is true when the
// unconstrained fallback pass produced the text.
type RecognizedText struct {
	Text     string
	Degraded bool
}

// TextRecognizer turns a receipt image file into newline-separated text.
type TextRecognizer interface {
	ExtractText(ctx context.Context, imagePath string) (RecognizedText, error)
}

// MarketplaceClient performs the outbound listing lookup for a free-form
// query. Treated as a black box by the pipeline; failures downgrade to "no
// recommendations".
type MarketplaceClient interface {
	Search(ctx context.Context, query string) ([]Recommendation, error)
}

// IntentRepository loads the goal-intent product dataset.
type IntentRepository interface {
	Load(ctx context.Context) ([]IntentProduct, error)
}
