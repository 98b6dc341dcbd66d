package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("RECEIPTLENS_SERVER_PORT")
		os.Unsetenv("RECEIPTLENS_SERVER_ENVIRONMENT")
		os.Unsetenv("RECEIPTLENS_SERVER_UPLOAD_DIR")
		os.Unsetenv("RECEIPTLENS_CATALOG_PATH")
		os.Unsetenv("RECEIPTLENS_CATALOG_CACHE_TTL")
		os.Unsetenv("RECEIPTLENS_INTENT_DATASET_PATH")
		os.Unsetenv("RECEIPTLENS_OCR_LANGUAGE")
		os.Unsetenv("RECEIPTLENS_OCR_PAGE_SEG_MODE")
		os.Unsetenv("RECEIPTLENS_EBAY_TOKEN")
		os.Unsetenv("RECEIPTLENS_EBAY_BASE_URL")
		os.Unsetenv("RECEIPTLENS_EBAY_RESULT_LIMIT")
		os.Unsetenv("RECEIPTLENS_RATELIMIT_EBAY")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		// Check defaults
		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Server.UploadDir != "receipts" {
			t.Errorf("Server.UploadDir = %s, want receipts", cfg.Server.UploadDir)
		}
		if cfg.Catalog.Path != "category_to_brands.json" {
			t.Errorf("Catalog.Path = %s, want category_to_brands.json", cfg.Catalog.Path)
		}
		if cfg.Catalog.CacheTTL != 5*time.Minute {
			t.Errorf("Catalog.CacheTTL = %v, want 5m", cfg.Catalog.CacheTTL)
		}
		if cfg.OCR.Language != "eng" {
			t.Errorf("OCR.Language = %s, want eng", cfg.OCR.Language)
		}
		if cfg.OCR.PageSegMode != 6 {
			t.Errorf("OCR.PageSegMode = %d, want 6", cfg.OCR.PageSegMode)
		}
		if cfg.OCR.Whitelist == "" {
			t.Error("OCR.Whitelist is empty, want default whitelist")
		}
		if cfg.Ebay.BaseURL != "https://api.ebay.com" {
			t.Errorf("Ebay.BaseURL = %s, want https://api.ebay.com", cfg.Ebay.BaseURL)
		}
		if cfg.Ebay.ResultLimit != 3 {
			t.Errorf("Ebay.ResultLimit = %d, want 3", cfg.Ebay.ResultLimit)
		}
		if cfg.Ebay.CacheTTL != time.Hour {
			t.Errorf("Ebay.CacheTTL = %v, want 1h", cfg.Ebay.CacheTTL)
		}
		if cfg.RateLimit.Ebay != 5000 {
			t.Errorf("RateLimit.Ebay = %d, want 5000", cfg.RateLimit.Ebay)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("RECEIPTLENS_SERVER_PORT", "9090")
		os.Setenv("RECEIPTLENS_SERVER_ENVIRONMENT", "production")
		os.Setenv("RECEIPTLENS_CATALOG_PATH", "/data/catalog.json")
		os.Setenv("RECEIPTLENS_CATALOG_CACHE_TTL", "10m")
		os.Setenv("RECEIPTLENS_OCR_LANGUAGE", "eng+hin")
		os.Setenv("RECEIPTLENS_OCR_PAGE_SEG_MODE", "4")
		os.Setenv("RECEIPTLENS_EBAY_TOKEN", "custom-token")
		os.Setenv("RECEIPTLENS_EBAY_BASE_URL", "https://api.sandbox.ebay.com")
		os.Setenv("RECEIPTLENS_EBAY_RESULT_LIMIT", "5")
		os.Setenv("RECEIPTLENS_RATELIMIT_EBAY", "2000")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Catalog.Path != "/data/catalog.json" {
			t.Errorf("Catalog.Path = %s, want /data/catalog.json", cfg.Catalog.Path)
		}
		if cfg.Catalog.CacheTTL != 10*time.Minute {
			t.Errorf("Catalog.CacheTTL = %v, want 10m", cfg.Catalog.CacheTTL)
		}
		if cfg.OCR.Language != "eng+hin" {
			t.Errorf("OCR.Language = %s, want eng+hin", cfg.OCR.Language)
		}
		if cfg.OCR.PageSegMode != 4 {
			t.Errorf("OCR.PageSegMode = %d, want 4", cfg.OCR.PageSegMode)
		}
		if cfg.Ebay.Token != "custom-token" {
			t.Errorf("Ebay.Token = %s, want custom-token", cfg.Ebay.Token)
		}
		if cfg.Ebay.BaseURL != "https://api.sandbox.ebay.com" {
			t.Errorf("Ebay.BaseURL = %s, want https://api.sandbox.ebay.com", cfg.Ebay.BaseURL)
		}
		if cfg.Ebay.ResultLimit != 5 {
			t.Errorf("Ebay.ResultLimit = %d, want 5", cfg.Ebay.ResultLimit)
		}
		if cfg.RateLimit.Ebay != 2000 {
			t.Errorf("RateLimit.Ebay = %d, want 2000", cfg.RateLimit.Ebay)
		}
	})

	t.Run("fails validation for out-of-range page seg mode", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("RECEIPTLENS_OCR_PAGE_SEG_MODE", "99")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for page seg mode 99")
		}
	})

	t.Run("fails validation for non-positive result limit", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("RECEIPTLENS_EBAY_RESULT_LIMIT", "0")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for result limit 0")
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{UploadDir: "receipts"},
			OCR:    OCRConfig{PageSegMode: 6},
			Ebay:   EbayConfig{ResultLimit: 3},
		}
	}

	t.Run("validates successfully with all required fields", func(t *testing.T) {
		if err := validate(valid()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails when upload dir is empty", func(t *testing.T) {
		cfg := valid()
		cfg.Server.UploadDir = ""

		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for empty upload dir")
		}
	})

	t.Run("fails for negative page seg mode", func(t *testing.T) {
		cfg := valid()
		cfg.OCR.PageSegMode = -1

		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for page seg mode -1")
		}
	})

	t.Run("accepts boundary page seg modes", func(t *testing.T) {
		for _, psm := range []int{0, 13} {
			cfg := valid()
			cfg.OCR.PageSegMode = psm

			if err := validate(cfg); err != nil {
				t.Errorf("validate() error = %v for page seg mode %d, want nil", err, psm)
			}
		}
	})

	t.Run("fails for negative result limit", func(t *testing.T) {
		cfg := valid()
		cfg.Ebay.ResultLimit = -1

		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for result limit -1")
		}
	})
}
