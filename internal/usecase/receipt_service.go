package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/receiptlens/backend/internal/domain"
)

// ReceiptServiceConfig holds configuration for the receipt service
type ReceiptServiceConfig struct {
	RecommendationTTL      time.Duration
	MaxRecommendationItems int
	RawLineFallbackLimit   int
	EnableDebugLogging     bool
}

// ReceiptService runs the full receipt pipeline: recognize the image,
// classify and extract items against the catalog, build alternative-brand
// suggestions and a best-effort marketplace lookup, then assemble the
// response. Each receipt is processed independently; the only state shared
// across requests is the read-only catalog and the lookup cache.
type ReceiptService struct {
	catalogs           domain.CatalogRepository
	recognizer         domain.TextRecognizer
	marketplace        domain.MarketplaceClient
	cache              domain.CacheRepository
	extractor          *ItemExtractor
	suggester          *AlternativeSuggester
	recommendationTTL  time.Duration
	maxRecommendations int
	rawLineLimit       int
	debug              bool
}

// NewReceiptService creates a new receipt service with dependencies.
// marketplace may be nil, in which case recommendations are skipped.
func NewReceiptService(
	catalogs domain.CatalogRepository,
	recognizer domain.TextRecognizer,
	marketplace domain.MarketplaceClient,
	cache domain.CacheRepository,
	config ReceiptServiceConfig,
) *ReceiptService {
	ttl := config.RecommendationTTL
	if ttl == 0 {
		ttl = time.Hour
	}
	maxItems := config.MaxRecommendationItems
	if maxItems <= 0 {
		maxItems = 5
	}
	rawLimit := config.RawLineFallbackLimit
	if rawLimit <= 0 {
		rawLimit = 10
	}

	return &ReceiptService{
		catalogs:           catalogs,
		recognizer:         recognizer,
		marketplace:        marketplace,
		cache:              cache,
		extractor:          NewItemExtractor(config.EnableDebugLogging),
		suggester:          NewAlternativeSuggester(config.EnableDebugLogging),
		recommendationTTL:  ttl,
		maxRecommendations: maxItems,
		rawLineLimit:       rawLimit,
		debug:              config.EnableDebugLogging,
	}
}

// Analyze processes one receipt image end to end. Only unrecoverable
// failures propagate: an undecodable image or a recognition failure that
// survived the degraded fallback. Catalog and marketplace failures downgrade
// and the response is still produced.
func (s *ReceiptService) Analyze(ctx context.Context, imagePath string) (*domain.ReceiptAnalysis, error) {
	recognized, err := s.recognizer.ExtractText(ctx, imagePath)
	if err != nil {
		return nil, fmt.Errorf("extract text from %s: %w", imagePath, err)
	}

	processing := domain.ProcessingInfo{
		RecognitionMode: domain.RecognitionModeWhitelist,
		CatalogMode:     domain.CatalogModeLoaded,
		ItemSource:      domain.ItemSourceClassified,
	}
	if recognized.Degraded {
		processing.RecognitionMode = domain.RecognitionModeUnconstrained
	}

	catalog, err := s.catalogs.Load(ctx)
	if err != nil {
		log.Printf("[RECEIPT] catalog unavailable, downgrading: %v", err)
		catalog = nil
		processing.CatalogMode = domain.CatalogModeUnavailable
	}

	items := s.extractor.Extract(recognized.Text, catalog)

	// Suggestions are derived from classified items only; raw-line fallback
	// items carry no category signal worth suggesting against
	suggestions := s.suggester.Suggest(items, catalog)

	if len(items) == 0 {
		items = rawLineItems(recognized.Text, s.rawLineLimit)
		processing.ItemSource = domain.ItemSourceRawLines
	}

	recommendations := s.lookupRecommendations(ctx, items)

	if catalog == nil {
		catalog = domain.NewCatalog(nil, nil)
	}

	return &domain.ReceiptAnalysis{
		RawText:           recognized.Text,
		Items:             items,
		Suggestions:       suggestions,
		AvailableProducts: catalog,
		Recommendations:   recommendations,
		Summary:           summarize(items),
		Processing:        processing,
	}, nil
}

// lookupRecommendations queries the marketplace for the first few item
// names, cache-first. Per-item failures are treated as "no recommendation
// for this item" and never abort the request.
func (s *ReceiptService) lookupRecommendations(ctx context.Context, items []domain.ExtractedItem) map[string][]domain.Recommendation {
	recommendations := make(map[string][]domain.Recommendation)
	if s.marketplace == nil {
		return recommendations
	}

	limit := s.maxRecommendations
	if limit > len(items) {
		limit = len(items)
	}

	for _, item := range items[:limit] {
		name := strings.TrimSpace(item.ProductName)
		if name == "" {
			continue
		}

		cacheKey := "ebay:" + strings.ToLower(name)
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			if listings, ok := cached.([]domain.Recommendation); ok {
				recommendations[name] = listings
				continue
			}
		}

		listings, err := s.marketplace.Search(ctx, name)
		if err != nil {
			if s.debug {
				log.Printf("[RECEIPT] no recommendations for %q: %v", name, err)
			}
			continue
		}

		recommendations[name] = listings
		if err := s.cache.Set(ctx, cacheKey, listings, s.recommendationTTL); err != nil && s.debug {
			log.Printf("[RECEIPT] failed to cache recommendations for %q: %v", name, err)
		}
	}

	return recommendations
}

// rawLineItems is the last-resort behavior when classification extracted
// nothing: wrap the first non-empty raw lines as minimally-populated items.
func rawLineItems(text string, limit int) []domain.ExtractedItem {
	items := []domain.ExtractedItem{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		items = append(items, domain.ExtractedItem{
			ProductName:  line,
			OriginalText: line,
			Brands:       []string{},
			Categories:   []string{},
		})
		if len(items) == limit {
			break
		}
	}
	return items
}

// summarize builds the response summary block: item counts and the sorted,
// deduplicated set of categories found.
func summarize(items []domain.ExtractedItem) domain.ReceiptSummary {
	withBrands := 0
	seen := make(map[string]bool)
	categories := []string{}

	for _, item := range items {
		if item.HasBrands() {
			withBrands++
		}
		for _, category := range item.Categories {
			if !seen[category] {
				seen[category] = true
				categories = append(categories, category)
			}
		}
	}
	sort.Strings(categories)

	return domain.ReceiptSummary{
		TotalItemsFound: len(items),
		ItemsWithBrands: withBrands,
		CategoriesFound: categories,
	}
}
