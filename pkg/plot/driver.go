package plot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ccollicutt/lossplot/pkg/figure"
	"github.com/ccollicutt/lossplot/pkg/parser"
)

// Opener presents an exported image to the user.
type Opener interface {
	Open(path string) error
}

// Options configures a Driver.
type Options struct {
	// Output is the image path to write.
	Output string

	DPI     int
	Palette figure.Palette

	// Opener, if set, is called with Output after a successful export.
	Opener Opener

	// Stdout receives the confirmation line; Stderr receives warnings and
	// verbose diagnostics. Nil writers discard.
	Stdout  io.Writer
	Stderr  io.Writer
	Verbose bool
}

// Driver parses training logs and renders them into one comparison image.
type Driver struct {
	parser *parser.Parser
	opts   Options
}

// NewDriver creates a Driver. A nil parser uses the built-in line patterns and
// an empty palette uses the default ten-color cycle.
func NewDriver(p *parser.Parser, opts Options) *Driver {
	if p == nil {
		p = parser.NewDefaultParser()
	}
	if len(opts.Palette) == 0 {
		opts.Palette = figure.DefaultPalette()
	}
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}
	return &Driver{parser: p, opts: opts}
}

// Render parses every path in order, then draws and exports the figure.
// Any parse failure aborts before the output file is touched.
func (d *Driver) Render(ctx context.Context, paths []string, size FigSize) (*Result, error) {
	if len(paths) == 0 {
		return nil, errors.New("no log files given")
	}
	if d.opts.Output == "" {
		return nil, errors.New("no output path configured")
	}
	if d.opts.DPI <= 0 {
		return nil, fmt.Errorf("dpi must be positive, got %d", d.opts.DPI)
	}

	result := &Result{
		Output:    d.opts.Output,
		Size:      size,
		DPI:       d.opts.DPI,
		StartTime: time.Now(),
	}

	runs, err := d.Prepare(ctx, paths)
	if err != nil {
		return nil, err
	}
	result.Runs = runs

	fig := BuildFigure(runs, size, d.opts.DPI)
	if err := writeAtomic(ctx, d.opts.Output, fig); err != nil {
		return nil, err
	}
	result.EndTime = time.Now()

	fmt.Fprintf(d.opts.Stdout, "Plots saved to %s\n", d.opts.Output)

	if d.opts.Opener != nil {
		if err := d.opts.Opener.Open(d.opts.Output); err != nil {
			fmt.Fprintf(d.opts.Stderr, "Warning: could not open %s: %v\n", d.opts.Output, err)
		}
	}

	return result, nil
}

// Prepare parses paths and assigns each its label and palette color.
func (d *Driver) Prepare(ctx context.Context, paths []string) ([]Run, error) {
	files, err := d.parser.ParseAll(ctx, paths)
	if err != nil {
		return nil, err
	}

	runs := make([]Run, len(files))
	for i, f := range files {
		runs[i] = Run{
			Label: Label(f.Path),
			Color: d.opts.Palette.At(i),
			File:  f,
		}

		if d.opts.Verbose {
			fmt.Fprintf(d.opts.Stderr, "%s: %d lines, %d loss points, %d timing lines, %d malformed\n",
				f.Path, f.Stats.LinesRead, f.Stats.LossLines, f.Stats.ElapsedLines, f.Stats.Malformed)
		}
	}
	return runs, nil
}

// writeAtomic renders into a temporary file next to path and renames it into
// place, so a failed render never leaves a partial image behind.
func writeAtomic(ctx context.Context, path string, fig *figure.Figure) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".lossplot-*.png")
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = figure.Render(ctx, fig, tmp); err != nil {
		return fmt.Errorf("rendering figure: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
