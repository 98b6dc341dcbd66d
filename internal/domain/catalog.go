package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Catalog is the category -> brand-list reference data used for matching and
// suggestions. Category order follows the source document (JSON object key
// order) because keyword-based category inference iterates categories in
// their stored order; a plain map would make that non-deterministic.
// A Catalog is never mutated after load and is safe for concurrent readers.
type Catalog struct {
	categories []string
	brands     map[string][]string
}

// NewCatalog builds a catalog from an ordered list of (category, brands)
// pairs. Duplicate categories keep the first position and append brands;
// duplicate brand names within a category are dropped (case-insensitive).
func NewCatalog(categories []string, brands map[string][]string) *Catalog {
	c := &Catalog{brands: make(map[string][]string, len(categories))}
	for _, category := range categories {
		c.append(category, brands[category])
	}
	return c
}

func (c *Catalog) append(category string, brands []string) {
	if _, exists := c.brands[category]; !exists {
		c.categories = append(c.categories, category)
		c.brands[category] = nil
	}
	seen := make(map[string]bool, len(c.brands[category]))
	for _, b := range c.brands[category] {
		seen[strings.ToLower(b)] = true
	}
	for _, b := range brands {
		key := strings.ToLower(b)
		if seen[key] {
			continue
		}
		seen[key] = true
		c.brands[category] = append(c.brands[category], b)
	}
}

// Categories returns category names in stored order.
func (c *Catalog) Categories() []string {
	if c == nil {
		return nil
	}
	return c.categories
}

// Brands returns the ordered brand list for a category, or nil if the
// category is unknown.
func (c *Catalog) Brands(category string) []string {
	if c == nil {
		return nil
	}
	return c.brands[category]
}

// Has reports whether the category exists in the catalog.
func (c *Catalog) Has(category string) bool {
	if c == nil {
		return false
	}
	_, ok := c.brands[category]
	return ok
}

// Len returns the number of categories.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.categories)
}

// TotalBrands returns the brand count summed across all categories.
func (c *Catalog) TotalBrands() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, brands := range c.brands {
		total += len(brands)
	}
	return total
}

// UnmarshalJSON decodes an object of category -> brand array, preserving the
// key order of the source document.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("catalog: expected JSON object, got %v", tok)
	}

	c.categories = nil
	c.brands = make(map[string][]string)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		category, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("catalog: expected string key, got %v", keyTok)
		}

		var brands []string
		if err := dec.Decode(&brands); err != nil {
			return fmt.Errorf("catalog: brands for %q: %w", category, err)
		}
		c.append(category, brands)
	}

	// Consume closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON emits the catalog as an object with categories in stored order.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, category := range c.Categories() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(category)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		brands := c.brands[category]
		if brands == nil {
			brands = []string{}
		}
		val, err := json.Marshal(brands)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
