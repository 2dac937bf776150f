package asciiedge

import (
	"bytes"
	"io"
)

// Ramp lists characters from lowest to highest visual weight.
type Ramp string

// DefaultRamp is the ramp every Renderer uses.
const DefaultRamp Ramp = " .:-=+*#%@"

// Char maps an intensity in [0, 255] onto the ramp. Out of range values
// land on the first or last character.
func (r Ramp) Char(v float64) byte {
	last := len(r) - 1
	i := int(v * float64(last) / 255)
	if i < 0 {
		i = 0
	}
	return r[min(i, last)]
}

// Contains reports whether c is one of the ramp's characters.
func (r Ramp) Contains(c byte) bool {
	return bytes.IndexByte([]byte(r), c) >= 0
}

// Art is a rendered grid of ramp characters, one string per row.
type Art struct {
	Grid
	Rows []string
}

// String returns every row followed by a line feed.
func (a Art) String() string {
	var buf bytes.Buffer
	a.WriteTo(&buf)
	return buf.String()
}

// WriteTo writes every row followed by a line feed to w.
func (a Art) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, row := range a.Rows {
		n, err := io.WriteString(w, row)
		total += int64(n)
		if err != nil {
			return total, err
		}
		if _, err := w.Write([]byte{'\n'}); err != nil {
			return total, err
		}
		total++
	}
	return total, nil
}
