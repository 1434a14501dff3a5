// Package preview draws validation-loss curves as braille text, for a quick
// look at runs from a terminal without an image viewer.
package preview

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	drawille "github.com/chriskim06/drawille-go"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ccollicutt/lossplot/pkg/figure"
	"github.com/ccollicutt/lossplot/pkg/plot"
)

// ErrNothingToDraw is returned when no run has a non-constant loss series.
var ErrNothingToDraw = errors.New("no loss values to preview")

// Canvas size limits, in terminal cells.
const (
	DefaultWidth  = 80
	DefaultHeight = 16
	MinWidth      = 20
	MinHeight     = 4
	maxWidth      = 160
)

// frame is the width taken by the border and padding around the chart.
const frame = 4

// Options controls the preview layout.
type Options struct {
	Width  int
	Height int

	// Color enables ANSI line colors.
	Color bool
}

// OptionsFor sizes the preview to w when it is a terminal and enables color
// unless NO_COLOR is set. Other writers get the defaults without color.
func OptionsFor(w io.Writer) Options {
	opts := Options{Width: DefaultWidth, Height: DefaultHeight}

	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(f.Fd()) {
		return opts
	}
	if cols, _, err := term.GetSize(f.Fd()); err == nil && cols-frame >= MinWidth {
		opts.Width = min(cols-frame, maxWidth)
	}
	opts.Color = os.Getenv("NO_COLOR") == ""
	return opts
}

// Write renders a titled, framed preview of each run's validation loss by
// step, followed by a color legend.
func Write(w io.Writer, runs []plot.Run, opts Options) error {
	chart, err := Chart(runs, opts)
	if err != nil {
		return err
	}

	r := lipgloss.NewRenderer(w)
	title := r.NewStyle().Bold(true).Render("Validation loss by step")
	box := r.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1).Render(chart)

	legend := make([]string, 0, len(runs))
	for _, run := range runs {
		swatch := r.NewStyle().Foreground(lipgloss.Color(figure.Hex(run.Color))).Render("──")
		entry := swatch + " " + run.Label
		if run.File.Len() == 0 {
			entry += " (no data)"
		}
		legend = append(legend, entry)
	}

	_, err = fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, title, box, strings.Join(legend, "\n")))
	return err
}

// Chart returns the braille canvas for runs' validation loss. The x axis
// spans the smallest to the largest step across all runs.
func Chart(runs []plot.Run, opts Options) (string, error) {
	width := max(opts.Width, MinWidth)
	height := max(opts.Height, MinHeight)

	lo, hi, ok := stepRange(runs)
	if !ok {
		return "", ErrNothingToDraw
	}

	cols := (width - labelWidth(runs) - 2) * 2
	if cols < 2 {
		return "", fmt.Errorf("preview width %d is too narrow for the loss labels", width)
	}

	var (
		data   [][]float64
		colors []drawille.Color
	)
	for _, run := range runs {
		series := sample(run.File.Steps, run.File.ValLosses, lo, hi, cols)
		if len(series) == 0 {
			continue
		}
		data = append(data, series)
		colors = append(colors, xterm(run.Color))
	}
	if flat(data) {
		return "", ErrNothingToDraw
	}

	canvas := drawille.NewCanvas(width, height)
	canvas.HorizontalLabels = []string{strconv.Itoa(lo), strconv.Itoa(hi)}
	if opts.Color {
		canvas.LineColors = colors
	}
	canvas.Fill(data)
	return canvas.String(), nil
}

type point struct {
	step  int
	value float64
}

// sample resamples a series onto cols evenly spaced step positions between
// lo and hi, carrying the latest value forward. Columns before the first
// step take the first value; columns past the last step are dropped.
// Non-finite values are skipped.
func sample(steps []int, values []float64, lo, hi, cols int) []float64 {
	pts := make([]point, 0, len(steps))
	for i, s := range steps {
		if v := values[i]; !math.IsNaN(v) && !math.IsInf(v, 0) {
			pts = append(pts, point{step: s, value: v})
		}
	}
	if len(pts) == 0 {
		return nil
	}
	slices.SortStableFunc(pts, func(a, b point) int { return a.step - b.step })

	last := float64(pts[len(pts)-1].step)
	out := make([]float64, 0, cols)
	j := 0
	for c := 0; c < cols; c++ {
		pos := float64(lo)
		if cols > 1 {
			pos += float64(c) * float64(hi-lo) / float64(cols-1)
		}
		if pos > last {
			break
		}
		for j+1 < len(pts) && float64(pts[j+1].step) <= pos {
			j++
		}
		out = append(out, pts[j].value)
	}
	return out
}

func stepRange(runs []plot.Run) (int, int, bool) {
	lo, hi, ok := 0, 0, false
	for _, run := range runs {
		for _, s := range run.File.Steps {
			if !ok {
				lo, hi, ok = s, s, true
				continue
			}
			lo = min(lo, s)
			hi = max(hi, s)
		}
	}
	return lo, hi, ok
}

// labelWidth is the widest y-axis label the canvas can print for these runs.
func labelWidth(runs []plot.Run) int {
	w := len("0.00")
	for _, run := range runs {
		for _, v := range run.File.ValLosses {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			w = max(w, len(strconv.FormatFloat(v, 'f', 2, 64)))
		}
	}
	return w
}

// flat reports whether the canvas would have a zero value span. The canvas
// always includes zero as its upper bound candidate.
func flat(data [][]float64) bool {
	lo, hi := math.Inf(1), 0.0
	for _, series := range data {
		for _, v := range series {
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	return math.IsInf(lo, 1) || hi == lo
}

// xterm maps c to the nearest color in the xterm 6x6x6 color cube.
func xterm(c drawing.Color) drawille.Color {
	return drawille.Color(16 + 36*cubeLevel(c.R) + 6*cubeLevel(c.G) + cubeLevel(c.B))
}

// cubeLevel returns the cube index (0-5) for a channel. The cube levels are
// 0, 95, 135, 175, 215 and 255.
func cubeLevel(v uint8) int {
	switch {
	case v < 48:
		return 0
	case v < 115:
		return 1
	default:
		return (int(v) - 35) / 40
	}
}
