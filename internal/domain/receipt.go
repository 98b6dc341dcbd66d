package domain

// ExtractedItem is a single recognized product line from a receipt, with
// optional brand/category metadata matched against the catalog.
type ExtractedItem struct {
	ProductName  string   `json:"product_name"`
	OriginalText string   `json:"original_text"`
	Brands       []string `json:"brands"`
	Categories   []string `json:"categories"`
}

// HasBrands reports whether at least one known brand matched the line.
func (i ExtractedItem) HasBrands() bool {
	return len(i.Brands) > 0
}

// SuggestionEntry proposes alternative brands within one category for an
// extracted item. Alternatives exclude the item's own brands when the entry
// comes from a direct category match; keyword-inferred entries carry the full
// brand list and no original brands.
type SuggestionEntry struct {
	Category       string   `json:"category"`
	Alternatives   []string `json:"alternatives"`
	OriginalBrands []string `json:"original_brands"`
}

// Recommendation is a single marketplace listing returned by the outbound
// lookup: title, display price and item URL.
type Recommendation struct {
	Title string `json:"title"`
	Price string `json:"price"`
	Link  string `json:"link"`
}

// ReceiptSummary aggregates counts over the extracted items.
type ReceiptSummary struct {
	TotalItemsFound int      `json:"total_items_found"`
	ItemsWithBrands int      `json:"items_with_brands"`
	CategoriesFound []string `json:"categories_found"`
}

// Recognition modes reported in ProcessingInfo.
const (
	RecognitionModeWhitelist     = "whitelist"
	RecognitionModeUnconstrained = "unconstrained"

	CatalogModeLoaded      = "loaded"
	CatalogModeUnavailable = "unavailable"

	ItemSourceClassified = "classified"
	ItemSourceRawLines   = "raw-lines"
)

// ProcessingInfo records which mode produced each stage of the response so
// that callers can observe degraded paths instead of inferring them from
// empty fields.
type ProcessingInfo struct {
	RecognitionMode string `json:"recognition_mode"`
	CatalogMode     string `json:"catalog_mode"`
	ItemSource      string `json:"item_source"`
}

// ReceiptAnalysis is the full response for one analyzed receipt image.
type ReceiptAnalysis struct {
	RawText           string                       `json:"raw_extracted_text"`
	Items             []ExtractedItem              `json:"filtered_items"`
	Suggestions       map[string]SuggestionEntry   `json:"alternatives"`
	AvailableProducts *Catalog                     `json:"available_products_by_category"`
	Recommendations   map[string][]Recommendation  `json:"recommendations"`
	Summary           ReceiptSummary               `json:"summary"`
	Processing        ProcessingInfo               `json:"processing"`
}

// IntentProduct is one entry of the goal-intent dataset used by the
// goal-to-cart feature.
type IntentProduct struct {
	Input       string   `json:"input"`
	Intent      string   `json:"intent"`
	Categories  []string `json:"categories"`
	Urgency     string   `json:"urgency"`
	BudgetRange string   `json:"budgetRange"`
}

// CartResult is the response of the goal-to-cart mapping: the matched intent
// keyword (or "unknown") and the products whose categories intersect the
// goal's target categories.
type CartResult struct {
	Intent   string          `json:"intent"`
	Products []IntentProduct `json:"products"`
}
