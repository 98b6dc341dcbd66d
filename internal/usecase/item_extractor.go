package usecase

import (
	"log"
	"regexp"
	"strings"
	"unicode"

	"github.com/receiptlens/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	// Lines made of digits, whitespace and restricted punctuation only
	numericOnlyRegex = regexp.MustCompile(`^[\d\s\-.,:()]+$`)

	// Phone numbers and address fragments: a run of >=10 digits, or digit
	// groups joined by a hyphen or comma
	contactInfoRegex = regexp.MustCompile(`\d{10,}|\d+\s*-\s*\d+|\d+\s*,\s*\d+`)

	// At least one run of two or more consecutive letters
	alphaRunRegex = regexp.MustCompile(`[a-zA-Z]{2,}`)

	// Price tokens anchored on a currency symbol (₹, Rs or $); neither side
	// is required to be non-empty
	priceTokenRegex = regexp.MustCompile(`[\d.,]*\s*(?:₹|Rs|\$)\s*[\d.,]*`)

	// Quantity multipliers of the shape "x<digits>"
	quantityRegex = regexp.MustCompile(`\s*x\s*\d+\s*`)

	multiSpaceRegex = regexp.MustCompile(`\s+`)
)

// boilerplateKeywords marks lines that are receipt metadata rather than
// purchased items: store metadata, contact info, payment/tax terms,
// transaction fields and corporate suffixes.
var boilerplateKeywords = []string{
	"receipt", "bill", "invoice", "store", "mall", "supermarket", "shop",
	"address", "phone", "tel", "fax", "email", "website", "www",
	"thank you", "thanks", "welcome", "visit again", "customer",
	"cashier", "counter", "total", "subtotal", "tax", "gst", "vat",
	"cash", "card", "payment", "change", "balance", "tender",
	"date", "time", "transaction", "ref", "reference", "no.",
	"ltd", "pvt", "private", "limited", "company", "corp",
	"branch", "outlet", "location", "center", "centre",
}

// discardRule is one stage of the per-line classification chain. Rules are
// evaluated in order and the first matching rule discards the line.
type discardRule struct {
	name    string
	matches func(line, lower string) bool
}

// discardRules is the full classification chain, in the order that defines
// which discard path wins for a line matching several rules.
var discardRules = []discardRule{
	{"too-short", func(line, lower string) bool {
		return len(line) < 3
	}},
	{"boilerplate-keyword", func(line, lower string) bool {
		for _, keyword := range boilerplateKeywords {
			if strings.Contains(lower, keyword) {
				return true
			}
		}
		return false
	}},
	{"numeric-only", func(line, lower string) bool {
		return numericOnlyRegex.MatchString(line)
	}},
	{"contact-info", func(line, lower string) bool {
		return contactInfoRegex.MatchString(line)
	}},
	{"no-alpha-run", func(line, lower string) bool {
		return !alphaRunRegex.MatchString(line)
	}},
}

// fallbackDiscardRules is the reduced chain used when no catalog is
// available: length, numeric-only and alpha-run checks only.
var fallbackDiscardRules = []discardRule{
	discardRules[0],
	discardRules[2],
	discardRules[4],
}

// brandEntry pairs a catalog brand with its category, lowercased once for
// substring matching.
type brandEntry struct {
	lower    string
	display  string
	category string
}

// ItemExtractor decides, line by line, whether a line of OCR text is a
// purchasable item, strips price and quantity noise, and attaches matched
// brand/category metadata from the catalog. Extraction is a pure function of
// (text, catalog): the same inputs always yield the same item sequence.
type ItemExtractor struct {
	enableDebugLogging bool
}

// NewItemExtractor creates a new item extractor
func NewItemExtractor(enableDebugLogging bool) *ItemExtractor {
	return &ItemExtractor{enableDebugLogging: enableDebugLogging}
}

// Extract classifies every line of text and returns the surviving items in
// input order. A nil or empty catalog switches to the reduced no-catalog
// procedure, which yields items with empty brands/categories and never
// fails.
func (e *ItemExtractor) Extract(text string, catalog *domain.Catalog) []domain.ExtractedItem {
	if catalog == nil || catalog.Len() == 0 {
		return e.extractWithoutCatalog(text)
	}

	brandIndex := buildBrandIndex(catalog)
	items := []domain.ExtractedItem{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)

		if rule := firstMatchingRule(discardRules, line, lower); rule != "" {
			if e.enableDebugLogging && line != "" {
				log.Printf("[EXTRACT] discarded (%s): %q", rule, line)
			}
			continue
		}

		brands, categories := matchBrands(lower, brandIndex)

		productName := cleanProductName(line)
		if len(productName) <= 2 {
			// Price/quantity stripping can reduce a line to nothing meaningful
			continue
		}

		items = append(items, domain.ExtractedItem{
			ProductName:  productName,
			OriginalText: line,
			Brands:       brands,
			Categories:   categories,
		})
	}

	return items
}

// extractWithoutCatalog is the reduced procedure: length, numeric-only and
// alpha-run checks plus price stripping. It is the last line of defense
// before the caller's raw-line split and must never fail.
func (e *ItemExtractor) extractWithoutCatalog(text string) []domain.ExtractedItem {
	items := []domain.ExtractedItem{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)

		if firstMatchingRule(fallbackDiscardRules, line, lower) != "" {
			continue
		}

		productName := strings.TrimSpace(priceTokenRegex.ReplaceAllString(line, ""))
		if productName == "" {
			continue
		}

		items = append(items, domain.ExtractedItem{
			ProductName:  productName,
			OriginalText: line,
			Brands:       []string{},
			Categories:   []string{},
		})
	}

	return items
}

// firstMatchingRule returns the name of the first rule that discards the
// line, or "" when the line survives the chain.
func firstMatchingRule(rules []discardRule, line, lower string) string {
	for _, rule := range rules {
		if rule.matches(line, lower) {
			return rule.name
		}
	}
	return ""
}

// buildBrandIndex flattens the catalog into an ordered brand list. Order
// follows the catalog's stored category order so that matching is
// deterministic.
func buildBrandIndex(catalog *domain.Catalog) []brandEntry {
	var index []brandEntry
	for _, category := range catalog.Categories() {
		for _, brand := range catalog.Brands(category) {
			index = append(index, brandEntry{
				lower:    strings.ToLower(brand),
				display:  titleCase(brand),
				category: category,
			})
		}
	}
	return index
}

// matchBrands tests every catalog brand for substring containment in the
// lowercased line. Matched brands are title-cased; categories are
// deduplicated preserving first-seen order. Every returned brand maps to at
// least one returned category.
func matchBrands(lower string, index []brandEntry) ([]string, []string) {
	brands := []string{}
	categories := []string{}
	seenBrands := make(map[string]bool)
	seenCategories := make(map[string]bool)

	for _, entry := range index {
		if !strings.Contains(lower, entry.lower) {
			continue
		}
		if !seenBrands[entry.lower] {
			seenBrands[entry.lower] = true
			brands = append(brands, entry.display)
		}
		if !seenCategories[entry.category] {
			seenCategories[entry.category] = true
			categories = append(categories, entry.category)
		}
	}

	return brands, categories
}

// cleanProductName strips quantity multipliers and price tokens from a line
// and collapses runs of whitespace. Quantities go first: the price pattern's
// leading digit run would otherwise consume the quantity's digits and leave a
// bare "x" behind ("Butter x2 ₹120" -> "Butter x").
func cleanProductName(line string) string {
	cleaned := quantityRegex.ReplaceAllString(line, "")
	cleaned = priceTokenRegex.ReplaceAllString(cleaned, "")
	cleaned = multiSpaceRegex.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// titleCase uppercases the first letter of every space-separated word and
// lowercases the rest.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
