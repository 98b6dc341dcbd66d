package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/receiptlens/backend/internal/domain"
)

// goalMapping binds a goal keyword to the shopping categories it implies.
// Order matters: the first keyword found in the goal wins.
type goalMapping struct {
	keyword    string
	categories []string
}

var goalMappings = []goalMapping{
	{"moving", []string{"Cleaning", "Cookware", "Storage"}},
	{"camping", []string{"Tent", "Lighting", "Snacks"}},
	{"baby", []string{"Baby care", "Decor", "Gifts"}},
}

// CartService maps a free-form shopping goal to intent-dataset products via
// a rule-based keyword table. Unrelated to the receipt pipeline; it shares
// only the delivery layer.
type CartService struct {
	intents domain.IntentRepository
	debug   bool
}

// NewCartService creates a new cart service
func NewCartService(intents domain.IntentRepository, enableDebugLogging bool) *CartService {
	return &CartService{intents: intents, debug: enableDebugLogging}
}

// GenerateCart resolves the goal to target categories and returns every
// dataset product whose categories intersect them (case-insensitive). A goal
// matching no keyword yields intent "unknown" and no products.
func (s *CartService) GenerateCart(ctx context.Context, goal string) (*domain.CartResult, error) {
	if strings.TrimSpace(goal) == "" {
		return nil, domain.ErrInvalidRequest
	}

	products, err := s.intents.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load intent dataset: %w", err)
	}

	goalLower := strings.ToLower(goal)
	intent := "unknown"
	var targets map[string]bool

	for _, mapping := range goalMappings {
		if strings.Contains(goalLower, mapping.keyword) {
			intent = mapping.keyword
			targets = make(map[string]bool, len(mapping.categories))
			for _, category := range mapping.categories {
				targets[strings.ToLower(category)] = true
			}
			break
		}
	}

	result := &domain.CartResult{Intent: intent, Products: []domain.IntentProduct{}}
	if targets == nil {
		return result, nil
	}

	for _, product := range products {
		if categoriesIntersect(product.Categories, targets) {
			result.Products = append(result.Products, product)
		}
	}

	if s.debug {
		log.Printf("[CART] goal %q -> intent %q, %d products", goal, intent, len(result.Products))
	}
	return result, nil
}

// categoriesIntersect reports whether any category is in the target set
// (case-insensitive).
func categoriesIntersect(categories []string, targets map[string]bool) bool {
	for _, category := range categories {
		if targets[strings.ToLower(category)] {
			return true
		}
	}
	return false
}
