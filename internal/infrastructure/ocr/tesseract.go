package ocr

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/receiptlens/backend/internal/domain"
)

// Normalizer prepares a receipt photo for recognition. Implemented by the
// imaging package; abstracted here so the degraded path can be tested
// without OpenCV.
type Normalizer interface {
	Normalize(path string) ([]byte, error)
}

// Config holds Tesseract recognition settings.
type Config struct {
	Language    string
	PageSegMode int
	Whitelist   string
}

// TesseractRecognizer runs Tesseract over a normalized receipt image under a
// constrained character set. When the constrained pass fails, it retries once
// on the original unprocessed image with no constraints, trading precision
// for robustness. The fallback is a single degraded-mode pass, not a
// retry-until-success loop.
type TesseractRecognizer struct {
	normalizer    Normalizer
	config        Config
	clientFactory func() *gosseract.Client
	debug         bool
}

// NewTesseractRecognizer creates a recognizer with the given normalizer and
// settings.
func NewTesseractRecognizer(normalizer Normalizer, config Config) *TesseractRecognizer {
	if config.Language == "" {
		config.Language = "eng"
	}
	return &TesseractRecognizer{
		normalizer:    normalizer,
		config:        config,
		clientFactory: gosseract.NewClient,
	}
}

// SetDebug enables debug logging
func (r *TesseractRecognizer) SetDebug(debug bool) {
	r.debug = debug
}

// ExtractText recognizes the receipt at imagePath and returns newline-
// separated lines, with lines shorter than 2 characters dropped. An
// undecodable image fails immediately with ErrImageDecode; any other primary
// failure triggers the unconstrained fallback pass.
func (r *TesseractRecognizer) ExtractText(ctx context.Context, imagePath string) (domain.RecognizedText, error) {
	text, primaryErr := r.constrainedPass(ctx, imagePath)
	if primaryErr == nil {
		return domain.RecognizedText{Text: filterShortLines(text)}, nil
	}
	if errors.Is(primaryErr, domain.ErrImageDecode) {
		return domain.RecognizedText{}, primaryErr
	}

	log.Printf("[OCR] constrained pass failed, retrying unconstrained: %v", primaryErr)

	text, fallbackErr := r.unconstrainedPass(ctx, imagePath)
	if fallbackErr != nil {
		return domain.RecognizedText{}, fmt.Errorf("%w: primary: %v; fallback: %v",
			domain.ErrRecognitionFailed, primaryErr, fallbackErr)
	}

	return domain.RecognizedText{Text: filterShortLines(text), Degraded: true}, nil
}

// constrainedPass normalizes the image and recognizes it under the character
// whitelist and receipt page segmentation mode.
func (r *TesseractRecognizer) constrainedPass(ctx context.Context, imagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	normalized, err := r.normalizer.Normalize(imagePath)
	if err != nil {
		return "", err
	}

	client := r.clientFactory()
	defer client.Close()

	if err := client.SetLanguage(r.config.Language); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	if err := client.SetImageFromBytes(normalized); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	if r.config.Whitelist != "" {
		if err := client.SetWhitelist(r.config.Whitelist); err != nil {
			return "", fmt.Errorf("set whitelist: %w", err)
		}
	}
	if err := client.SetVariable("tessedit_pageseg_mode", strconv.Itoa(r.config.PageSegMode)); err != nil {
		return "", fmt.Errorf("set page seg mode: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}

	if r.debug {
		log.Printf("[OCR] constrained pass recognized %d bytes", len(text))
	}
	return text, nil
}

// unconstrainedPass recognizes the original file with default settings.
func (r *TesseractRecognizer) unconstrainedPass(ctx context.Context, imagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := r.clientFactory()
	defer client.Close()

	if err := client.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}
	return text, nil
}

// filterShortLines trims every line and drops lines shorter than 2
// characters, which are almost always recognition artifacts.
func filterShortLines(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 1 {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
