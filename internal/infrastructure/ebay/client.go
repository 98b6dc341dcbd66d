package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/receiptlens/backend/internal/domain"
)

// Client handles communication with the eBay Browse API. The pipeline treats
// it as a black box: item names in, listing triples out.
type Client struct {
	httpClient  *http.Client
	token       string
	baseURL     string
	resultLimit int
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new eBay Browse API client. dailyLimit is the
// application's daily call quota and is spread evenly over 24 hours.
func NewClient(token, baseURL string, resultLimit, dailyLimit int) *Client {
	if resultLimit <= 0 {
		resultLimit = 3
	}
	if dailyLimit <= 0 {
		dailyLimit = 5000
	}

	limiter := rate.NewLimiter(rate.Limit(float64(dailyLimit)/86400.0), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		token:       token,
		baseURL:     baseURL,
		resultLimit: resultLimit,
		rateLimiter: limiter,
	}
}

// SetDebug enables debug logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// browseResponse mirrors the relevant part of the Browse API search payload.
type browseResponse struct {
	ItemSummaries []itemSummary `json:"itemSummaries"`
}

type itemSummary struct {
	Title      string     `json:"title"`
	Price      *itemPrice `json:"price"`
	ItemWebURL string     `json:"itemWebUrl"`
}

type itemPrice struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// exponentialBackoff returns the wait duration before the given retry attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// Search looks up marketplace listings for a free-form query and returns up
// to the configured number of title/price/link triples. Transient transport
// and server errors are retried with backoff; client errors fail fast.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Recommendation, error) {
	endpoint := fmt.Sprintf("%s/buy/browse/v1/item_summary/search", c.baseURL)
	params := url.Values{}
	params.Add("q", query)
	params.Add("limit", fmt.Sprintf("%d", c.resultLimit))

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		// Wait for rate limiter
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if c.debug {
				log.Printf("[EBAY] request error (attempt %d): %v", attempt, err)
			}
			lastErr = err
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			if c.debug {
				log.Printf("[EBAY] server error (attempt %d) - status: %d", attempt, resp.StatusCode)
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrMarketplaceFailure, resp.StatusCode)
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: status %d", domain.ErrMarketplaceFailure, resp.StatusCode)
		}

		var browse browseResponse
		if err := json.Unmarshal(body, &browse); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		recommendations := c.mapSummaries(browse.ItemSummaries)
		if c.debug {
			log.Printf("[EBAY] found %d listings for query: %q", len(recommendations), query)
		}
		return recommendations, nil
	}

	return nil, lastErr
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", "ReceiptLens/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMarketplaceFailure, err)
	}

	return resp, nil
}

// mapSummaries keeps listings that carry both a title and a price.
func (c *Client) mapSummaries(summaries []itemSummary) []domain.Recommendation {
	recommendations := make([]domain.Recommendation, 0, c.resultLimit)
	for _, summary := range summaries {
		if len(recommendations) >= c.resultLimit {
			break
		}
		if summary.Title == "" || summary.Price == nil || summary.Price.Value == "" {
			continue
		}
		recommendations = append(recommendations, domain.Recommendation{
			Title: summary.Title,
			Price: summary.Price.Value,
			Link:  summary.ItemWebURL,
		})
	}
	return recommendations
}
