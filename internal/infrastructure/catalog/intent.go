package catalog

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/receiptlens/backend/internal/domain"
)

// intentRecord mirrors one line of the intent dataset. The output field is a
// nested JSON document carrying the actual intent payload.
type intentRecord struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

type intentOutput struct {
	Intent      string   `json:"intent"`
	Categories  []string `json:"categories"`
	Urgency     string   `json:"urgency"`
	BudgetRange string   `json:"budgetRange"`
}

// IntentFileRepository loads the goal-intent dataset from a JSONL file, one
// record per line.
type IntentFileRepository struct {
	path string
}

// NewIntentFileRepository creates an intent dataset repository.
func NewIntentFileRepository(path string) *IntentFileRepository {
	return &IntentFileRepository{path: path}
}

// Load parses the dataset, flattening the nested output payload into
// IntentProduct entries. Blank lines are skipped; a malformed line fails the
// whole load so that a truncated dataset is noticed instead of silently
// shrinking the cart results.
func (r *IntentFileRepository) Load(ctx context.Context) ([]domain.IntentProduct, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open intent dataset %s: %w", r.path, err)
	}
	defer f.Close()

	var products []domain.IntentProduct
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var record intentRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			return nil, fmt.Errorf("intent dataset line %d: %w", lineNo, err)
		}

		var output intentOutput
		if err := json.Unmarshal([]byte(record.Output), &output); err != nil {
			return nil, fmt.Errorf("intent dataset line %d output: %w", lineNo, err)
		}

		product := domain.IntentProduct{
			Input:       record.Input,
			Intent:      output.Intent,
			Categories:  output.Categories,
			Urgency:     output.Urgency,
			BudgetRange: output.BudgetRange,
		}
		if product.Urgency == "" {
			product.Urgency = "medium"
		}
		if product.BudgetRange == "" {
			product.BudgetRange = "medium"
		}
		products = append(products, product)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read intent dataset %s: %w", r.path, err)
	}

	return products, nil
}
