package usecase

import (
	"log"
	"strings"

	"github.com/receiptlens/backend/internal/domain"
)

// categoryKeywords maps a catalog category to product-name substrings that
// indicate the category when no brand matched. Used only for keyword-based
// category inference.
var categoryKeywords = map[string][]string{
	"Dairy":        {"milk", "cheese", "yogurt", "curd", "butter"},
	"Instant Food": {"noodles", "pasta", "instant", "ready"},
	"Flour":        {"flour", "atta", "maida", "wheat"},
	"Spices":       {"spice", "masala", "powder", "turmeric", "chili"},
	"Snacks":       {"chips", "namkeen", "biscuit", "cookie"},
	"Beverages":    {"juice", "drink", "water", "cola", "tea", "coffee"},
}

// AlternativeSuggester proposes other brands in the same category for
// extracted items. Suggestions are best-effort: a missing catalog yields an
// empty mapping, never an error.
type AlternativeSuggester struct {
	enableDebugLogging bool
}

// NewAlternativeSuggester creates a new suggester
func NewAlternativeSuggester(enableDebugLogging bool) *AlternativeSuggester {
	return &AlternativeSuggester{enableDebugLogging: enableDebugLogging}
}

// Suggest builds a product-name -> suggestion mapping for the given items.
// Items with matched categories get alternatives from a direct catalog
// lookup, excluding the item's own brands; unmatched items fall back to
// keyword-based category inference over the catalog's stored category order.
// When a product name repeats across items, the last write wins.
func (s *AlternativeSuggester) Suggest(items []domain.ExtractedItem, catalog *domain.Catalog) map[string]domain.SuggestionEntry {
	suggestions := make(map[string]domain.SuggestionEntry)
	if catalog == nil || catalog.Len() == 0 {
		return suggestions
	}

	for _, item := range items {
		if len(item.Categories) > 0 {
			s.suggestFromCategories(suggestions, item, catalog)
		} else {
			s.suggestFromKeywords(suggestions, item, catalog)
		}
	}

	return suggestions
}

// suggestFromCategories records an entry per matching category. Categories
// are visited in the item's insertion order; a later matching category
// overwrites an earlier one for the same product name.
func (s *AlternativeSuggester) suggestFromCategories(suggestions map[string]domain.SuggestionEntry, item domain.ExtractedItem, catalog *domain.Catalog) {
	ownBrands := make(map[string]bool, len(item.Brands))
	for _, brand := range item.Brands {
		ownBrands[strings.ToLower(brand)] = true
	}

	for _, category := range item.Categories {
		if !catalog.Has(category) {
			continue
		}

		alternatives := []string{}
		for _, brand := range catalog.Brands(category) {
			if !ownBrands[strings.ToLower(brand)] {
				alternatives = append(alternatives, brand)
			}
		}
		if len(alternatives) == 0 {
			continue
		}

		suggestions[item.ProductName] = domain.SuggestionEntry{
			Category:       category,
			Alternatives:   alternatives,
			OriginalBrands: append([]string{}, item.Brands...),
		}
	}
}

// suggestFromKeywords infers a category from the product name. The first
// catalog category (in stored order) whose keyword list has a substring hit
// wins; its full brand list becomes the alternatives since no original brand
// was detected.
func (s *AlternativeSuggester) suggestFromKeywords(suggestions map[string]domain.SuggestionEntry, item domain.ExtractedItem, catalog *domain.Catalog) {
	productLower := strings.ToLower(item.ProductName)

	for _, category := range catalog.Categories() {
		keywords, ok := categoryKeywords[category]
		if !ok {
			continue
		}
		if !containsAny(productLower, keywords) {
			continue
		}

		if s.enableDebugLogging {
			log.Printf("[SUGGEST] inferred category %q for %q", category, item.ProductName)
		}

		suggestions[item.ProductName] = domain.SuggestionEntry{
			Category:       category,
			Alternatives:   append([]string{}, catalog.Brands(category)...),
			OriginalBrands: []string{},
		}
		return
	}
}

// containsAny reports whether s contains any of the substrings.
func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
