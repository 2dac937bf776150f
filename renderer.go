package asciiedge

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

const (
	// DefaultMaxChars is the budget the command line falls back to when it
	// may not prompt for one.
	DefaultMaxChars = 1000
	// DefaultEdgeWeight scales how much a dominant edge darkens its pixel.
	DefaultEdgeWeight = 0.4
)

// Opt configures a Renderer.
type Opt func(r *Renderer)

// WithCharAspect sets the glyph height to width ratio the grid compensates
// for. Values <= 0 are ignored.
func WithCharAspect(ratio float64) Opt {
	return func(r *Renderer) {
		if ratio > 0 {
			r.charAspect = ratio
		}
	}
}

// WithEdgeWeight sets how strongly edges darken the output. Values < 0 are ignored.
func WithEdgeWeight(weight float64) Opt {
	return func(r *Renderer) {
		if weight >= 0 {
			r.edgeWeight = weight
		}
	}
}

// WithResampler replaces the default imaging/catmullrom resampler.
func WithResampler(rs Resampler) Opt {
	return func(r *Renderer) {
		if rs != nil {
			r.resampler = rs
		}
	}
}

// WithLogger sets the logger. Without it the package logger is used.
func WithLogger(l *slog.Logger) Opt {
	return func(r *Renderer) {
		r.logger = l
	}
}

// Renderer turns images into ASCII art that darkens along edges.
// A Renderer is immutable once built and safe for concurrent use.
type Renderer struct {
	ramp       Ramp
	charAspect float64
	edgeWeight float64
	resampler  Resampler
	logger     *slog.Logger

	adjustments []Adjustment
}

// NewRenderer returns a Renderer with the default settings, then applies opts.
func NewRenderer(opts ...Opt) *Renderer {
	r := Renderer{
		ramp:       DefaultRamp,
		charAspect: DefaultCharAspect,
		edgeWeight: DefaultEdgeWeight,
		resampler:  imagingResampler{name: FilterCatmullRom, filter: imagingFilters[FilterCatmullRom]},
	}
	for _, opt := range opts {
		opt(&r)
	}
	return &r
}

// Render opens the image at path and renders it within maxChars characters.
// Failures to open or decode the file are returned as *ImageError.
func (r *Renderer) Render(path string, maxChars int) (Art, error) {
	if err := checkBudget(maxChars); err != nil {
		return Art{}, err
	}
	img, err := Open(path)
	if err != nil {
		return Art{}, err
	}
	return r.RenderImage(img, maxChars)
}

// RenderReader decodes an image from rd and renders it.
func (r *Renderer) RenderReader(rd io.Reader, maxChars int) (Art, error) {
	if err := checkBudget(maxChars); err != nil {
		return Art{}, err
	}
	img, err := Decode(rd)
	if err != nil {
		return Art{}, err
	}
	return r.RenderImage(img, maxChars)
}

/*
RenderImage renders img within maxChars characters.

Adjustments run first, in order. The image is then converted to grayscale,
fitted to a grid (see FitGrid), resampled and run through FindEdges. Every cell then gets

	brightness - edge * (edge / maxEdge) * edgeWeight

clamped to [0, 255], so an edge darkens its cell in proportion to how
dominant it is among the image's own edges. Flat regions are untouched.
*/
func (r *Renderer) RenderImage(img image.Image, maxChars int) (Art, error) {
	if err := checkBudget(maxChars); err != nil {
		return Art{}, err
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return Art{}, &ImageError{Op: "read", Err: errEmptyImage}
	}

	for _, adjust := range r.adjustments {
		img = adjust(img)
	}

	grid := FitGrid(bounds.Dx(), bounds.Dy(), maxChars, r.charAspect)
	gray := r.resampler.Resample(Grayscale(img), grid.Width, grid.Height)
	edges := FindEdges(gray)
	maxEdge := maxLevel(edges)

	r.log().Debug("asciiedge: render",
		slog.Int("src_width", bounds.Dx()),
		slog.Int("src_height", bounds.Dy()),
		slog.Int("max_chars", maxChars),
		slog.Int("width", grid.Width),
		slog.Int("height", grid.Height),
		slog.String("resampler", resamplerName(r.resampler)),
		slog.Int("max_edge", int(maxEdge)),
	)

	art := Art{Grid: grid, Rows: make([]string, grid.Height)}
	row := make([]byte, grid.Width)
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			i := y*gray.Stride + x
			brightness := float64(gray.Pix[i])
			edge := float64(edges.Pix[y*edges.Stride+x])
			row[x] = r.ramp.Char(combine(brightness, edge, float64(maxEdge), r.edgeWeight))
		}
		art.Rows[y] = string(row)
	}
	return art, nil
}

// combine blends brightness with an edge sample. The result is in [0, 255].
func combine(brightness, edge, maxEdge, weight float64) float64 {
	var strength float64
	if maxEdge > 0 {
		strength = edge / maxEdge
	}
	v := brightness - edge*strength*weight
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return v
}

func (r *Renderer) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return Logger()
}

func resamplerName(rs Resampler) string {
	if s, ok := rs.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", rs)
}

func checkBudget(maxChars int) error {
	if maxChars < 1 {
		return &ArgumentParseError{
			Arg:   "max_chars",
			Value: strconv.Itoa(maxChars),
			Err:   errNotPositive,
		}
	}
	return nil
}

// ParseMaxChars parses a character budget given as text.
func ParseMaxChars(arg, s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ArgumentParseError{Arg: arg, Value: s, Err: err}
	}
	if n < 1 {
		return 0, &ArgumentParseError{Arg: arg, Value: s, Err: errNotPositive}
	}
	return n, nil
}
