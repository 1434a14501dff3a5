package figure

import (
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// legendUpperRight draws entries in a framed box anchored to the top-right
// corner of the plot canvas.
func legendUpperRight(entries []Line, scale func(float64) float64) chart.Renderable {
	return func(r chart.Renderer, cb chart.Box, defaults chart.Style) {
		if len(entries) == 0 {
			return
		}

		font := defaults.GetFont()
		pad := int(scale(5))
		gap := int(scale(5))
		swatch := int(scale(25))
		margin := int(scale(8))
		spacing := int(scale(3))

		r.SetFont(font)
		r.SetFontSize(legendFontSize)

		textWidth, rowHeight := 0, 0
		for _, e := range entries {
			tb := r.MeasureText(e.Name)
			textWidth = max(textWidth, tb.Width())
			rowHeight = max(rowHeight, tb.Height())
		}

		box := chart.Box{
			Top:   cb.Top + margin,
			Right: cb.Right - margin,
		}
		box.Left = box.Right - (pad + swatch + gap + textWidth + pad)
		box.Bottom = box.Top + pad + len(entries)*rowHeight + (len(entries)-1)*spacing + pad

		chart.Draw.Box(r, box, chart.Style{
			FillColor:   drawing.ColorWhite.WithAlpha(204),
			StrokeColor: drawing.ColorFromHex("cccccc"),
			StrokeWidth: scale(1),
		})

		y := box.Top + pad
		for _, e := range entries {
			baseline := y + rowHeight
			mid := baseline - rowHeight/2
			lx := box.Left + pad

			style := e.style(scale)
			r.SetStrokeColor(style.StrokeColor)
			r.SetStrokeWidth(style.StrokeWidth)
			r.SetStrokeDashArray(style.StrokeDashArray)
			r.MoveTo(lx, mid)
			r.LineTo(lx+swatch, mid)
			r.Stroke()
			drawMarker(r, e.Marker, style.StrokeColor, lx+swatch/2, mid, scale(markerSize))

			r.SetFont(font)
			r.SetFontSize(legendFontSize)
			r.SetFontColor(chart.DefaultTextColor)
			r.Text(e.Name, lx+swatch+gap, baseline)

			y = baseline + spacing
		}
		r.ResetStyle()
	}
}
