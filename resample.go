package asciiedge

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	xdraw "golang.org/x/image/draw"
)

// A Resampler scales a grayscale image to exactly width by height pixels.
type Resampler interface {
	Resample(src *image.Gray, width, height int) *image.Gray
}

// Resampler backends.
const (
	BackendImaging = "imaging"
	BackendNfnt    = "nfnt"
	BackendXDraw   = "xdraw"
)

// Resampling filters. Not every backend supports every filter.
const (
	FilterBox        = "box"
	FilterLinear     = "linear"
	FilterCatmullRom = "catmullrom"
	FilterLanczos    = "lanczos"
	FilterNearest    = "nearest"
)

var filterAliases = map[string]string{
	"bilinear":         FilterLinear,
	"bicubic":          FilterCatmullRom,
	"lanczos3":         FilterLanczos,
	"nearest-neighbor": FilterNearest,
}

var (
	imagingFilters = map[string]imaging.ResampleFilter{
		FilterBox:        imaging.Box,
		FilterLinear:     imaging.Linear,
		FilterCatmullRom: imaging.CatmullRom,
		FilterLanczos:    imaging.Lanczos,
		FilterNearest:    imaging.NearestNeighbor,
	}
	nfntFilters = map[string]resize.InterpolationFunction{
		FilterLinear:     resize.Bilinear,
		FilterCatmullRom: resize.Bicubic,
		FilterLanczos:    resize.Lanczos3,
		FilterNearest:    resize.NearestNeighbor,
	}
	xdrawFilters = map[string]xdraw.Scaler{
		FilterLinear:     xdraw.BiLinear,
		FilterCatmullRom: xdraw.CatmullRom,
		FilterNearest:    xdraw.NearestNeighbor,
	}
)

// NewResampler returns the resampler for backend and filter. Empty strings
// select the imaging backend and the catmullrom (bicubic) filter.
func NewResampler(backend, filter string) (Resampler, error) {
	backend = strings.ToLower(strings.TrimSpace(backend))
	filter = strings.ToLower(strings.TrimSpace(filter))
	if backend == "" {
		backend = BackendImaging
	}
	if filter == "" {
		filter = FilterCatmullRom
	}
	if alias, ok := filterAliases[filter]; ok {
		filter = alias
	}

	unsupported := func() error {
		return &ConfigError{
			Key:   "resampler",
			Value: filter,
			Err:   fmt.Errorf("not supported by the %s backend", backend),
		}
	}

	switch backend {
	case BackendImaging:
		f, ok := imagingFilters[filter]
		if !ok {
			return nil, unsupported()
		}
		return imagingResampler{name: filter, filter: f}, nil
	case BackendNfnt:
		f, ok := nfntFilters[filter]
		if !ok {
			return nil, unsupported()
		}
		return nfntResampler{name: filter, interp: f}, nil
	case BackendXDraw:
		s, ok := xdrawFilters[filter]
		if !ok {
			return nil, unsupported()
		}
		return xdrawResampler{name: filter, scaler: s}, nil
	}
	return nil, &ConfigError{
		Key:   "backend",
		Value: backend,
		Err:   fmt.Errorf("want one of %s, %s, %s", BackendImaging, BackendNfnt, BackendXDraw),
	}
}

type imagingResampler struct {
	name   string
	filter imaging.ResampleFilter
}

func (r imagingResampler) Resample(src *image.Gray, width, height int) *image.Gray {
	return grayFromNRGBA(imaging.Resize(src, width, height, r.filter))
}

func (r imagingResampler) String() string { return BackendImaging + "/" + r.name }

type nfntResampler struct {
	name   string
	interp resize.InterpolationFunction
}

func (r nfntResampler) Resample(src *image.Gray, width, height int) *image.Gray {
	img := resize.Resize(uint(width), uint(height), src, r.interp)
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}
	return Grayscale(img)
}

func (r nfntResampler) String() string { return BackendNfnt + "/" + r.name }

type xdrawResampler struct {
	name   string
	scaler xdraw.Scaler
}

func (r xdrawResampler) Resample(src *image.Gray, width, height int) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, width, height))
	r.scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

func (r xdrawResampler) String() string { return BackendXDraw + "/" + r.name }
