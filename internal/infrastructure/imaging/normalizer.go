package imaging

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/receiptlens/backend/internal/domain"
)

// Normalizer turns a raw receipt photo into a binary, denoised image
// optimized for character recognition. The stage order matters: blurring
// before thresholding keeps the Otsu pass from amplifying speckle noise into
// spurious islands, and closing after thresholding merges broken character
// strokes without re-introducing grayscale ambiguity.
type Normalizer struct {
	blurKernel  image.Point
	closeKernel image.Point
}

// NewNormalizer creates a normalizer with the default kernel sizes: a 5x5
// Gaussian blur and a minimal 1x1 closing element.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		blurKernel:  image.Pt(5, 5),
		closeKernel: image.Pt(1, 1),
	}
}

// Normalize reads the image at path and returns the binarized result as
// PNG-encoded bytes. Undecodable input yields ErrImageDecode; no recognition
// must be attempted in that case.
func (n *Normalizer) Normalize(path string) ([]byte, error) {
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		return nil, fmt.Errorf("%w: %s", domain.ErrImageDecode, path)
	}
	defer img.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, n.blurKernel, 0, 0, gocv.BorderDefault)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(blurred, &thresh, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, n.closeKernel)
	defer kernel.Close()

	cleaned := gocv.NewMat()
	defer cleaned.Close()
	gocv.MorphologyEx(thresh, &cleaned, gocv.MorphClose, kernel)

	buf, err := gocv.IMEncode(gocv.PNGFileExt, cleaned)
	if err != nil {
		return nil, fmt.Errorf("encode normalized image: %w", err)
	}
	defer buf.Close()

	// Copy out: the native buffer is freed on Close
	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}
