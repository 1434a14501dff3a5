package figure

import (
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var _ chart.Series = lineSeries{}

// lineSeries is a ContinuousSeries that can also draw square markers,
// which go-chart has no dot style for.
type lineSeries struct {
	chart.ContinuousSeries

	marker     Marker
	markerSize float64
}

// Render draws the line (and circle dots) through go-chart, then squares.
// yrange is the left-hand axis range; see Line.series.
func (s lineSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	s.ContinuousSeries.Render(r, canvasBox, xrange, yrange, defaults)
	if s.marker != MarkerSquare {
		return
	}

	color := s.Style.InheritFrom(defaults).GetStrokeColor()
	for i := 0; i < s.Len(); i++ {
		vx, vy := s.GetValues(i)
		x := canvasBox.Left + xrange.Translate(vx)
		y := canvasBox.Bottom - yrange.Translate(vy)
		drawMarker(r, MarkerSquare, color, x, y, s.markerSize)
	}
}

// drawMarker draws a filled glyph centered on (x, y).
func drawMarker(r chart.Renderer, m Marker, color drawing.Color, x, y int, size float64) {
	if m == MarkerNone {
		return
	}

	r.SetFillColor(color)
	r.SetStrokeColor(color)
	r.SetStrokeWidth(1)
	r.SetStrokeDashArray(nil)

	switch m {
	case MarkerCircle:
		r.Circle(size, x, y)
	case MarkerSquare:
		h := int(math.Max(1, math.Round(size)))
		r.MoveTo(x-h, y-h)
		r.LineTo(x+h, y-h)
		r.LineTo(x+h, y+h)
		r.LineTo(x-h, y+h)
		r.LineTo(x-h, y-h)
		r.Close()
	}
	r.FillStroke()
}

// strokeColor applies the line's alpha to its color.
func (l Line) strokeColor() drawing.Color {
	if l.Alpha <= 0 || l.Alpha >= 1 {
		return l.Color
	}
	return l.Color.WithAlpha(uint8(math.Round(l.Alpha * 255)))
}

// style maps a Line onto a go-chart style at the figure's scale.
func (l Line) style(scale func(float64) float64) chart.Style {
	color := l.strokeColor()
	style := chart.Style{
		StrokeColor: color,
		StrokeWidth: scale(lineWidth),
	}
	if l.Dashed {
		style.StrokeDashArray = []float64{scale(6), scale(3)}
	}
	if l.Marker == MarkerCircle {
		style.DotColor = color
		style.DotWidth = scale(markerSize)
	}
	return style
}

// series plots l against the secondary y axis, which go-chart draws on the
// left of the canvas.
func (l Line) series(scale func(float64) float64) chart.Series {
	n := l.Len()
	return lineSeries{
		ContinuousSeries: chart.ContinuousSeries{
			Name:    l.Name,
			YAxis:   chart.YAxisSecondary,
			Style:   l.style(scale),
			XValues: l.X[:n],
			YValues: l.Y[:n],
		},
		marker:     l.Marker,
		markerSize: scale(markerSize),
	}
}
