package asciiedge

import (
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var errEmptyImage = errors.New("image has no pixels")

// Open reads and decodes the image file at path.
func Open(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ImageError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		var ie *ImageError
		if errors.As(err, &ie) {
			ie.Path = path
		}
		return nil, err
	}
	return img, nil
}

// Decode decodes any registered format: gif, jpeg, png, bmp, tiff and webp.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, &ImageError{Op: "decode", Err: err}
	}
	if img.Bounds().Empty() {
		return nil, &ImageError{Op: "decode", Err: errEmptyImage}
	}
	return img, nil
}

// Grayscale converts img to 8-bit luminance. Alpha is dropped, the gray
// level of a translucent pixel is that of its color alone.
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}
	// imaging.Grayscale leaves R == G == B, so any one channel is the luminance.
	return grayFromNRGBA(imaging.Grayscale(img))
}

// grayFromNRGBA copies the red channel of src. src must hold gray pixels.
func grayFromNRGBA(src *image.NRGBA) *image.Gray {
	bounds := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		srow := src.Pix[y*src.Stride:]
		drow := dst.Pix[y*dst.Stride:]
		for x := 0; x < bounds.Dx(); x++ {
			drow[x] = srow[x*4]
		}
	}
	return dst
}
