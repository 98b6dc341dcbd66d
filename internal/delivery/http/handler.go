package http

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/receiptlens/backend/internal/domain"
)

// ReceiptAnalyzer is the receipt pipeline as seen by the delivery layer.
type ReceiptAnalyzer interface {
	Analyze(ctx context.Context, imagePath string) (*domain.ReceiptAnalysis, error)
}

// CartGenerator is the goal-to-cart usecase as seen by the delivery layer.
type CartGenerator interface {
	GenerateCart(ctx context.Context, goal string) (*domain.CartResult, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	receipts  ReceiptAnalyzer
	carts     CartGenerator
	catalogs  domain.CatalogRepository
	uploadDir string
}

// NewHandler creates a new HTTP handler
func NewHandler(receipts ReceiptAnalyzer, carts CartGenerator, catalogs domain.CatalogRepository, uploadDir string) *Handler {
	return &Handler{
		receipts:  receipts,
		carts:     carts,
		catalogs:  catalogs,
		uploadDir: uploadDir,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "receiptlens-backend",
		"version": "1.0.0",
	})
}

// AnalyzeReceipt accepts a multipart receipt image upload, stages it under
// the upload directory and runs the full pipeline.
func (h *Handler) AnalyzeReceipt(c *gin.Context) {
	if h.receipts == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Receipt analysis not available"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing receipt image: expected multipart field 'file'"})
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to stage upload"})
		return
	}

	// Base strips any path components a hostile client sends in the filename
	dst := filepath.Join(h.uploadDir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save upload"})
		return
	}

	analysis, err := h.receipts.Analyze(c.Request.Context(), dst)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrImageDecode):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Uploaded file is not a decodable image"})
		case errors.Is(err, domain.ErrRecognitionFailed):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Text recognition failed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Receipt analysis failed"})
		}
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// AvailableProducts returns the full brand catalog for client-side browsing.
// A missing catalog yields an empty mapping, not an error.
func (h *Handler) AvailableProducts(c *gin.Context) {
	catalog, err := h.catalogs.Load(c.Request.Context())
	if err != nil {
		catalog = domain.NewCatalog(nil, nil)
	}

	c.JSON(http.StatusOK, gin.H{
		"products_by_category": catalog,
		"total_categories":     catalog.Len(),
		"total_brands":         catalog.TotalBrands(),
	})
}

// cartRequest is the goal-to-cart request payload.
type cartRequest struct {
	Goal string `json:"goal" binding:"required"`
}

// GenerateCart maps a shopping goal to a product cart.
func (h *Handler) GenerateCart(c *gin.Context) {
	if h.carts == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Cart generation not available"})
		return
	}

	var req cartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid 'goal'"})
		return
	}

	result, err := h.carts.GenerateCart(c.Request.Context(), req.Goal)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid 'goal'"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart generation failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}
