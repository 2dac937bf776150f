package asciiedge

import (
	"image"

	"github.com/disintegration/imaging"
)

// An Adjustment alters an image's tones before it is rendered.
type Adjustment func(image.Image) image.Image

// Gamma corrects gamma. 1.0 leaves the image unchanged, less darkens it and
// more lightens it.
func Gamma(gamma float64) Adjustment {
	return func(img image.Image) image.Image { return imaging.AdjustGamma(img, gamma) }
}

// Brightness shifts brightness by a percentage in [-100, 100].
// -100 gives solid black and 100 solid white.
func Brightness(percentage float64) Adjustment {
	return func(img image.Image) image.Image { return imaging.AdjustBrightness(img, percentage) }
}

// Contrast changes contrast by a percentage in [-100, 100].
// -100 gives solid gray.
func Contrast(percentage float64) Adjustment {
	return func(img image.Image) image.Image { return imaging.AdjustContrast(img, percentage) }
}

// Sharpen sharpens with a gaussian of the given sigma.
func Sharpen(sigma float64) Adjustment {
	return func(img image.Image) image.Image { return imaging.Sharpen(img, sigma) }
}

// Sigmoid changes contrast along a sigmoid centered on midpoint (0..1).
// A positive factor increases contrast, a negative one decreases it.
func Sigmoid(midpoint, factor float64) Adjustment {
	return func(img image.Image) image.Image { return imaging.AdjustSigmoid(img, midpoint, factor) }
}

// Invert produces the negative image.
func Invert() Adjustment {
	return func(img image.Image) image.Image { return imaging.Invert(img) }
}

// WithAdjustments appends adjustments, applied in order before grayscale
// conversion.
func WithAdjustments(adjs ...Adjustment) Opt {
	return func(r *Renderer) {
		for _, a := range adjs {
			if a != nil {
				r.adjustments = append(r.adjustments, a)
			}
		}
	}
}
