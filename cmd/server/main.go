package main

import (
	"fmt"
	"log"
	"os"

	"github.com/receiptlens/backend/config"
	httpDelivery "github.com/receiptlens/backend/internal/delivery/http"
	"github.com/receiptlens/backend/internal/domain"
	"github.com/receiptlens/backend/internal/infrastructure/cache"
	"github.com/receiptlens/backend/internal/infrastructure/catalog"
	"github.com/receiptlens/backend/internal/infrastructure/ebay"
	"github.com/receiptlens/backend/internal/infrastructure/imaging"
	"github.com/receiptlens/backend/internal/infrastructure/ocr"
	"github.com/receiptlens/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting ReceiptLens Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Catalog: %s (cache TTL %s)", cfg.Catalog.Path, cfg.Catalog.CacheTTL)

	debug := cfg.Server.Environment == "development"

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache()

	catalogRepo := catalog.NewCachingRepository(
		catalog.NewFileRepository(cfg.Catalog.Path),
		memoryCache,
		cfg.Catalog.CacheTTL,
	)
	intentRepo := catalog.NewIntentFileRepository(cfg.Intent.DatasetPath)

	normalizer := imaging.NewNormalizer()
	recognizer := ocr.NewTesseractRecognizer(normalizer, ocr.Config{
		Language:    cfg.OCR.Language,
		PageSegMode: cfg.OCR.PageSegMode,
		Whitelist:   cfg.OCR.Whitelist,
	})
	recognizer.SetDebug(debug)

	var marketplace domain.MarketplaceClient
	if cfg.Ebay.Token != "" {
		ebayClient := ebay.NewClient(cfg.Ebay.Token, cfg.Ebay.BaseURL, cfg.Ebay.ResultLimit, cfg.RateLimit.Ebay)
		ebayClient.SetDebug(debug)
		marketplace = ebayClient
		log.Printf("eBay API configured: %s", cfg.Ebay.BaseURL)
	} else {
		log.Printf("WARNING: eBay token not configured - marketplace recommendations disabled")
	}

	// Initialize usecase layer
	receiptService := usecase.NewReceiptService(
		catalogRepo,
		recognizer,
		marketplace,
		memoryCache,
		usecase.ReceiptServiceConfig{
			RecommendationTTL:  cfg.Ebay.CacheTTL,
			EnableDebugLogging: debug,
		},
	)
	cartService := usecase.NewCartService(intentRepo, debug)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(receiptService, cartService, catalogRepo, cfg.Server.UploadDir)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
