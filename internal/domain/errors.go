package domain

import "errors"

var (
	// ErrImageDecode is returned when the uploaded file cannot be decoded as
	// a raster image; recognition is never attempted.
	ErrImageDecode = errors.New("image cannot be decoded")

	// ErrRecognitionFailed is returned when both the whitelist OCR pass and
	// the unconstrained fallback pass fail.
	ErrRecognitionFailed = errors.New("text recognition failed")

	// ErrCatalogUnavailable is returned when the catalog source is missing or
	// malformed. Callers downgrade to no-catalog mode instead of failing.
	ErrCatalogUnavailable = errors.New("brand catalog unavailable")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrMarketplaceFailure is returned when the outbound marketplace lookup
	// fails; callers treat it as "no recommendations"
	ErrMarketplaceFailure = errors.New("marketplace lookup failed")
)
