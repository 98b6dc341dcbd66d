package ocr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/receiptlens/backend/internal/domain"
)

type failingNormalizer struct {
	err error
}

func (f *failingNormalizer) Normalize(path string) ([]byte, error) {
	return nil, f.err
}

// An undecodable image must fail immediately; the unconstrained fallback is
// only for recognition failures, not decode failures.
func TestExtractText_DecodeErrorShortCircuits(t *testing.T) {
	recognizer := NewTesseractRecognizer(&failingNormalizer{err: domain.ErrImageDecode}, Config{})

	_, err := recognizer.ExtractText(context.Background(), "not-an-image.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrImageDecode)
}

func TestExtractText_CancelledContext(t *testing.T) {
	recognizer := NewTesseractRecognizer(&failingNormalizer{err: errors.New("never reached")}, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := recognizer.ExtractText(ctx, "receipt.jpg")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRecognitionFailed)
}

func TestFilterShortLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "drops single characters and blanks",
			in:   "Amul Butter\n\na\n  \nLays Chips",
			want: "Amul Butter\nLays Chips",
		},
		{
			name: "trims surrounding whitespace",
			in:   "  Milk 1L  \n\tBread\t",
			want: "Milk 1L\nBread",
		},
		{
			name: "keeps two-character lines",
			in:   "ab\nc",
			want: "ab",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filterShortLines(tt.in))
		})
	}
}

func TestNewTesseractRecognizer_DefaultLanguage(t *testing.T) {
	recognizer := NewTesseractRecognizer(&failingNormalizer{}, Config{PageSegMode: 6})
	assert.Equal(t, "eng", recognizer.config.Language)
}
