// Package figure renders multi-panel line charts to PNG.
package figure

import (
	"fmt"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Marker selects the point glyph drawn on a line.
type Marker int

const (
	MarkerNone Marker = iota
	MarkerCircle
	MarkerSquare
)

// Line is one plotted series.
type Line struct {
	// Name is shown in the panel legend.
	Name string

	X []float64
	Y []float64

	Color  drawing.Color
	Dashed bool
	Marker Marker

	// Alpha is the line opacity in [0, 1]. Zero means fully opaque.
	Alpha float64
}

// Len returns the number of plottable points.
func (l Line) Len() int {
	if len(l.X) < len(l.Y) {
		return len(l.X)
	}
	return len(l.Y)
}

// Panel is one set of axes.
type Panel struct {
	Title  string
	XLabel string
	YLabel string

	Lines []Line

	// Legend lists entries shown in the legend. Entries may refer to lines
	// that have no points and were therefore left out of Lines.
	Legend []Line
}

// HasPoints reports whether any line in the panel has data.
func (p *Panel) HasPoints() bool {
	for _, l := range p.Lines {
		if l.Len() > 0 {
			return true
		}
	}
	return false
}

// Figure is a row of panels sharing one exported image.
type Figure struct {
	// Width and Height are in inches.
	Width  float64
	Height float64

	DPI float64

	Panels []Panel
}

// MaxPixels bounds each side of an exported image, in pixels.
const MaxPixels = 1 << 16

// CheckSize reports an error when a width x height inch figure at dpi would
// have a side of MaxPixels or more.
func CheckSize(width, height, dpi float64) error {
	w, h := width*dpi, height*dpi
	if !(w < MaxPixels && h < MaxPixels) {
		return fmt.Errorf("image would be %.0fx%.0f px; each side must be below %d", w, h, MaxPixels)
	}
	return nil
}

// PixelSize returns the image dimensions in pixels.
func (f *Figure) PixelSize() (int, int) {
	return int(f.Width * f.DPI), int(f.Height * f.DPI)
}

// scale converts a size expressed for a 100 DPI canvas to this figure.
func (f *Figure) scale(v float64) float64 {
	return v * f.DPI / 100
}
