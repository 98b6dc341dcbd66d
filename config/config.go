package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Intent    IntentConfig
	OCR       OCRConfig
	Ebay      EbayConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	UploadDir      string   `mapstructure:"upload_dir"`
}

// CatalogConfig holds the brand catalog source settings
type CatalogConfig struct {
	Path     string        `mapstructure:"path"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// IntentConfig holds the goal-intent dataset settings
type IntentConfig struct {
	DatasetPath string `mapstructure:"dataset_path"`
}

// OCRConfig holds Tesseract recognition settings
type OCRConfig struct {
	Language    string `mapstructure:"language"`
	PageSegMode int    `mapstructure:"page_seg_mode"`
	Whitelist   string `mapstructure:"whitelist"`
}

// EbayConfig holds eBay Browse API configuration
type EbayConfig struct {
	Token       string        `mapstructure:"token"`
	BaseURL     string        `mapstructure:"base_url"`
	ResultLimit int           `mapstructure:"result_limit"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

// RateLimitConfig holds outbound rate limiting configuration
type RateLimitConfig struct {
	Ebay int `mapstructure:"ebay"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/receiptlens/")

	// Environment variable settings
	v.SetEnvPrefix("RECEIPTLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.upload_dir", "receipts")

	// Catalog defaults
	v.SetDefault("catalog.path", "category_to_brands.json")
	v.SetDefault("catalog.cache_ttl", "5m")

	// Intent dataset defaults
	v.SetDefault("intent.dataset_path", "intent_dataset.jsonl")

	// OCR defaults: receipts are blocks of short uniform lines (PSM 6), and
	// recognition is constrained to ASCII letters, digits, common punctuation
	// and the currency symbols in use
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.page_seg_mode", 6)
	v.SetDefault("ocr.whitelist", "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz.,-₹$() ")

	// Ebay defaults. The token default exists so viper knows the key; without
	// it AutomaticEnv never surfaces RECEIPTLENS_EBAY_TOKEN through Unmarshal
	v.SetDefault("ebay.token", "")
	v.SetDefault("ebay.base_url", "https://api.ebay.com")
	v.SetDefault("ebay.result_limit", 3)
	v.SetDefault("ebay.cache_ttl", "1h")

	// Rate limit defaults
	v.SetDefault("ratelimit.ebay", 5000)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.UploadDir == "" {
		return fmt.Errorf("upload dir must not be empty")
	}

	if config.OCR.PageSegMode < 0 || config.OCR.PageSegMode > 13 {
		return fmt.Errorf("OCR page seg mode must be 0-13, got: %d", config.OCR.PageSegMode)
	}

	if config.Ebay.ResultLimit <= 0 {
		return fmt.Errorf("ebay result limit must be positive, got: %d", config.Ebay.ResultLimit)
	}

	return nil
}
