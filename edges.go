package asciiedge

import (
	"image"

	"github.com/disintegration/imaging"
)

// findEdgesKernel is the 3x3 Laplacian used to outline shapes.
var findEdgesKernel = [9]float64{
	-1, -1, -1,
	-1, 8, -1,
	-1, -1, -1,
}

// FindEdges convolves img with a Laplacian kernel. Results are clamped to
// 0..255, so only the bright side of a boundary lights up. Pixels outside
// the image repeat the nearest border pixel, which keeps flat images at zero.
func FindEdges(img *image.Gray) *image.Gray {
	return grayFromNRGBA(imaging.Convolve3x3(img, findEdgesKernel, nil))
}

// maxLevel returns the brightest sample in img.
func maxLevel(img *image.Gray) uint8 {
	var m uint8
	for y := 0; y < img.Rect.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+img.Rect.Dx()]
		for _, v := range row {
			if v > m {
				m = v
			}
		}
	}
	return m
}
