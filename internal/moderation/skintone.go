package moderation

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	// DefaultSkinRatio is the share of skin-like pixels that triggers review.
	DefaultSkinRatio = 0.45
	sampleSize       = 64
)

// SkinToneClassifier flags images dominated by skin-coloured pixels. It is a
// coarse heuristic and has no accuracy guarantee.
type SkinToneClassifier struct {
	Threshold float64
}

// NewSkinToneClassifier returns a classifier using threshold, or
// DefaultSkinRatio when threshold is outside (0, 1].
func NewSkinToneClassifier(threshold float64) *SkinToneClassifier {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultSkinRatio
	}
	return &SkinToneClassifier{Threshold: threshold}
}

func (c *SkinToneClassifier) Name() string { return "skin_tone" }

func (c *SkinToneClassifier) Classify(ctx context.Context, data []byte) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Approved, err
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Approved, ErrUndecodable
	}

	if SkinRatio(src) >= c.Threshold {
		return NeedsReview, nil
	}
	return Approved, nil
}

// SkinRatio downsamples img and returns the fraction of skin-like pixels.
func SkinRatio(img image.Image) float64 {
	b := img.Bounds()
	if b.Empty() {
		return 0
	}

	w, h := b.Dx(), b.Dy()
	var dst *image.RGBA
	if w > sampleSize || h > sampleSize {
		w, h = sampleSize, sampleSize
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	} else {
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.Copy(dst, image.Point{}, img, b, xdraw.Src, nil)
	}

	var skin int
	for i := 0; i+3 < len(dst.Pix); i += 4 {
		if isSkin(dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2]) {
			skin++
		}
	}
	return float64(skin) / float64(w*h)
}

// isSkin applies the uniform-daylight RGB skin rule.
func isSkin(r8, g8, b8 uint8) bool {
	r, g, b := int(r8), int(g8), int(b8)
	maxC := max(r, g, b)
	minC := min(r, g, b)
	return r > 95 && g > 40 && b > 20 &&
		maxC-minC > 15 &&
		abs(r-g) > 15 && r > g && r > b
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
