package usecase

import (
	"reflect"
	"strings"
	"testing"

	"github.com/receiptlens/backend/internal/domain"
)

func TestSuggest_DirectCategoryMatch(t *testing.T) {
	s := NewAlternativeSuggester(false)
	catalog := testCatalog()

	items := []domain.ExtractedItem{
		{
			ProductName: "Amul Butter 500g",
			Brands:      []string{"Amul"},
			Categories:  []string{"Dairy"},
		},
	}

	suggestions := s.Suggest(items, catalog)

	entry, ok := suggestions["Amul Butter 500g"]
	if !ok {
		t.Fatalf("Suggest() missing entry for %q", "Amul Butter 500g")
	}
	if entry.Category != "Dairy" {
		t.Errorf("Category = %q, want %q", entry.Category, "Dairy")
	}
	want := []string{"Britannia", "Mother Dairy"}
	if !reflect.DeepEqual(entry.Alternatives, want) {
		t.Errorf("Alternatives = %v, want %v", entry.Alternatives, want)
	}
	if !reflect.DeepEqual(entry.OriginalBrands, []string{"Amul"}) {
		t.Errorf("OriginalBrands = %v, want [Amul]", entry.OriginalBrands)
	}
}

// No alternative may case-insensitively equal an original brand.
func TestSuggest_ExclusionProperty(t *testing.T) {
	s := NewAlternativeSuggester(false)
	catalog := testCatalog()

	items := []domain.ExtractedItem{
		{ProductName: "amul cheese", Brands: []string{"AMUL"}, Categories: []string{"Dairy"}},
		{ProductName: "maggi pack", Brands: []string{"maggi"}, Categories: []string{"Instant Food"}},
	}

	for name, entry := range s.Suggest(items, catalog) {
		var item domain.ExtractedItem
		for _, i := range items {
			if i.ProductName == name {
				item = i
			}
		}
		for _, alt := range entry.Alternatives {
			for _, original := range item.Brands {
				if strings.EqualFold(alt, original) {
					t.Errorf("entry %q: alternative %q equals original brand %q", name, alt, original)
				}
			}
		}
	}
}

func TestSuggest_LastMatchingCategoryWins(t *testing.T) {
	s := NewAlternativeSuggester(false)
	catalog := testCatalog()

	items := []domain.ExtractedItem{
		{
			ProductName: "Combo Pack",
			Brands:      []string{"Amul"},
			Categories:  []string{"Dairy", "Snacks"},
		},
	}

	suggestions := s.Suggest(items, catalog)

	entry := suggestions["Combo Pack"]
	if entry.Category != "Snacks" {
		t.Errorf("Category = %q, want %q (later category overwrites earlier)", entry.Category, "Snacks")
	}
}

func TestSuggest_KeywordInference(t *testing.T) {
	s := NewAlternativeSuggester(false)
	catalog := testCatalog()

	items := []domain.ExtractedItem{
		{ProductName: "Veg Noodles", Brands: []string{}, Categories: []string{}},
	}

	suggestions := s.Suggest(items, catalog)

	entry, ok := suggestions["Veg Noodles"]
	if !ok {
		t.Fatal("Suggest() missing keyword-inferred entry")
	}
	if entry.Category != "Instant Food" {
		t.Errorf("Category = %q, want %q", entry.Category, "Instant Food")
	}
	// Full brand list, since no original brand was detected
	if !reflect.DeepEqual(entry.Alternatives, []string{"Maggi", "Knorr"}) {
		t.Errorf("Alternatives = %v, want full brand list", entry.Alternatives)
	}
	if len(entry.OriginalBrands) != 0 {
		t.Errorf("OriginalBrands = %v, want empty", entry.OriginalBrands)
	}
}

// The first category in catalog order with a keyword hit wins, no further
// categories are checked for the item.
func TestSuggest_KeywordInferenceFirstMatchWins(t *testing.T) {
	s := NewAlternativeSuggester(false)
	catalog := domain.NewCatalog(
		[]string{"Beverages", "Dairy"},
		map[string][]string{
			"Beverages": {"Tata Tea"},
			"Dairy":     {"Amul"},
		},
	)

	// "milk tea" hits both the Beverages ("tea") and Dairy ("milk") keyword
	// lists; Beverages is stored first
	items := []domain.ExtractedItem{
		{ProductName: "milk tea", Brands: []string{}, Categories: []string{}},
	}

	entry := s.Suggest(items, catalog)["milk tea"]
	if entry.Category != "Beverages" {
		t.Errorf("Category = %q, want %q", entry.Category, "Beverages")
	}
}

func TestSuggest_NoMatchNoEntry(t *testing.T) {
	s := NewAlternativeSuggester(false)

	items := []domain.ExtractedItem{
		{ProductName: "Mystery Object", Brands: []string{}, Categories: []string{}},
	}

	suggestions := s.Suggest(items, testCatalog())
	if len(suggestions) != 0 {
		t.Errorf("Suggest() = %v, want empty map", suggestions)
	}
}

func TestSuggest_NilCatalog(t *testing.T) {
	s := NewAlternativeSuggester(false)

	items := []domain.ExtractedItem{
		{ProductName: "Amul Butter", Brands: []string{"Amul"}, Categories: []string{"Dairy"}},
	}

	suggestions := s.Suggest(items, nil)
	if suggestions == nil || len(suggestions) != 0 {
		t.Errorf("Suggest(nil catalog) = %v, want empty non-nil map", suggestions)
	}
}

func TestSuggest_DuplicateProductNameLastWriteWins(t *testing.T) {
	s := NewAlternativeSuggester(false)
	catalog := testCatalog()

	items := []domain.ExtractedItem{
		{ProductName: "Butter", Brands: []string{"Amul"}, Categories: []string{"Dairy"}},
		{ProductName: "Butter", Brands: []string{"Britannia"}, Categories: []string{"Dairy"}},
	}

	entry := s.Suggest(items, catalog)["Butter"]
	if !reflect.DeepEqual(entry.OriginalBrands, []string{"Britannia"}) {
		t.Errorf("OriginalBrands = %v, want the later item's brands", entry.OriginalBrands)
	}
}
