package figure

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Font sizes in points; go-chart scales them by the chart DPI.
const (
	titleFontSize  = 14.0
	labelFontSize  = 12.0
	tickFontSize   = 10.0
	legendFontSize = 10.0
)

// Pixel sizes for a 100 DPI canvas; see Figure.scale.
const (
	lineWidth  = 1.5
	markerSize = 3.0

	// Minimum distance between tick labels.
	xTickSpacing = 90.0
	yTickSpacing = 60.0
)

// Render draws fig and writes it to w as a PNG tagged with fig.DPI.
func Render(ctx context.Context, fig *Figure, w io.Writer) error {
	img, err := Compose(ctx, fig)
	if err != nil {
		return err
	}
	return EncodePNG(w, img, fig.DPI)
}

// Compose draws every panel and places them left to right on one canvas.
func Compose(ctx context.Context, fig *Figure) (*image.RGBA, error) {
	if len(fig.Panels) == 0 {
		return nil, errors.New("figure has no panels")
	}

	if err := CheckSize(fig.Width, fig.Height, fig.DPI); err != nil {
		return nil, err
	}
	width, height := fig.PixelSize()
	if width < len(fig.Panels) || height <= 0 {
		return nil, fmt.Errorf("figure too small: %dx%d px", width, height)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	panelWidth := width / len(fig.Panels)
	for i := range fig.Panels {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		panel := &fig.Panels[i]
		img, err := renderPanel(fig, panel, panelWidth, height)
		if err != nil {
			return nil, fmt.Errorf("rendering panel %q: %w", panel.Title, err)
		}

		dst := image.Rect(i*panelWidth, 0, (i+1)*panelWidth, height)
		draw.Draw(canvas, dst, img, img.Bounds().Min, draw.Src)
	}

	return canvas, nil
}

func renderPanel(fig *Figure, p *Panel, width, height int) (image.Image, error) {
	if !p.HasPoints() {
		return blankPanel(width, height, p.Title, fig.scale), nil
	}

	var (
		series []chart.Series
		xs, ys [][]float64
	)
	for _, l := range p.Lines {
		if l.Len() == 0 {
			continue
		}
		series = append(series, l.series(fig.scale))
		xs = append(xs, l.X[:l.Len()])
		ys = append(ys, l.Y[:l.Len()])
	}

	axisStyle := chart.Style{
		StrokeWidth: fig.scale(1),
		FontSize:    tickFontSize,
	}
	gridStyle := chart.Style{
		StrokeColor: drawing.ColorBlack.WithAlpha(77),
		StrokeWidth: fig.scale(0.8),
	}

	xRange := paddedRange(xs...)
	xTicks := niceTicks(xRange, tickBudget(width, fig.scale(xTickSpacing)))
	yRange := paddedRange(ys...)
	yTicks := niceTicks(yRange, tickBudget(height, fig.scale(yTickSpacing)))

	ch := chart.Chart{
		Title: p.Title,
		TitleStyle: chart.Style{
			FontSize: titleFontSize,
			Padding:  chart.Box{Top: int(fig.scale(8))},
		},
		Width:  width,
		Height: height,
		DPI:    fig.DPI,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    int(fig.scale(48)),
				Left:   int(fig.scale(16)),
				Right:  int(fig.scale(12)),
				Bottom: int(fig.scale(12)),
			},
		},
		XAxis: chart.XAxis{
			Name:           p.XLabel,
			NameStyle:      chart.Style{FontSize: labelFontSize},
			Style:          axisStyle,
			ValueFormatter: formatTick,
			Range:          xRange,
			Ticks:          xTicks,
			GridMajorStyle: gridStyle,
			GridMinorStyle: chart.Hidden(),
		},
		// Series sit on the secondary axis so the scale is drawn on the
		// left. go-chart reads secondary tick bounds from the primary
		// axis, so the hidden primary carries the same ticks.
		YAxis: chart.YAxis{
			Style: chart.Hidden(),
			Range: &chart.ContinuousRange{Min: yRange.Min, Max: yRange.Max},
			Ticks: yTicks,
		},
		YAxisSecondary: chart.YAxis{
			Name:           p.YLabel,
			NameStyle:      chart.Style{FontSize: labelFontSize},
			Style:          axisStyle,
			ValueFormatter: formatTick,
			Range:          yRange,
			Ticks:          yTicks,
			GridMajorStyle: gridStyle,
			GridMinorStyle: chart.Hidden(),
		},
		Series:   series,
		Elements: []chart.Renderable{legendUpperRight(p.Legend, fig.scale)},
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}
