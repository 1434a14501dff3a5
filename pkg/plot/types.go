// Package plot drives parsing and rendering of training-loss comparison charts.
package plot

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ccollicutt/lossplot/pkg/parser"
)

// FigSize is the figure size in inches.
type FigSize struct {
	Width  int
	Height int
}

// Run is one parsed log file prepared for drawing.
type Run struct {
	// Label is the file's base name without its extension.
	Label string

	// Color is the run's palette color, shared by its train and val lines.
	Color drawing.Color

	File *parser.ParsedFile
}

// Result describes a completed render.
type Result struct {
	Runs []Run

	// Output is the path the image was written to.
	Output string

	Size FigSize
	DPI  int

	StartTime time.Time
	EndTime   time.Time
}

// Label derives a display label from a log path.
func Label(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
