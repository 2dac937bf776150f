package asciiedge

import "math"

// DefaultCharAspect compensates for terminal glyphs being taller than wide.
const DefaultCharAspect = 2.5

// Grid is the size of the rendered text in characters.
type Grid struct {
	Width  int
	Height int
}

// Cells returns Width * Height.
func (g Grid) Cells() int { return g.Width * g.Height }

/*
FitGrid picks the largest grid that keeps the image's aspect ratio, widened
by charAspect, within maxChars cells.

The closed form height = sqrt(maxChars/target) can overshoot once both sides
are floored, so height is then walked down until the grid fits. If that walk
reaches zero the grid collapses to a single row of at most maxChars cells.
Images too tall for even one column get a single column maxChars high.

For maxChars >= 1 the result always satisfies Width >= 1, Height >= 1 and
Width*Height <= maxChars.
*/
func FitGrid(width, height, maxChars int, charAspect float64) Grid {
	target := float64(width) / float64(height) * charAspect

	h := int(math.Sqrt(float64(maxChars) / target))
	w := int(float64(h) * target)

	for w*h > maxChars {
		h--
		w = int(float64(h) * target)
		if h <= 0 || w <= 0 {
			h = 1
			w = min(maxChars, int(target))
			break
		}
	}

	g := Grid{Width: max(1, w), Height: max(1, h)}
	// Very tall images floor the width to 0. Once raised to one column the
	// height has to drop back inside the budget.
	if g.Cells() > maxChars {
		g.Height = max(1, maxChars/g.Width)
	}
	return g
}
