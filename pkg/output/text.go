package output

import (
	"context"
	"fmt"
	"io"
	"strconv"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return FormatText
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "lossplot: %d files, %d with data, %d points\n",
		report.Summary.Files,
		report.Summary.FilesWithData,
		report.Summary.TotalPoints)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "=== Training Run Summary ===")
	fmt.Fprintln(w)

	for i := range report.Runs {
		f.formatRun(&report.Runs[i], w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d files, %d with data, %d points\n",
		report.Summary.Files,
		report.Summary.FilesWithData,
		report.Summary.TotalPoints)

	if f.opts.Verbose {
		fmt.Fprintf(w, "Lines processed: %d\n", report.Summary.LinesProcessed)
		fmt.Fprintf(w, "Output: %s (%dx%d in @ %d dpi)\n",
			report.Metadata.Output, report.Metadata.Width, report.Metadata.Height, report.Metadata.DPI)
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
	}

	return nil
}

func (f *TextFormatter) formatRun(run *RunSummary, w io.Writer) {
	fmt.Fprintf(w, "[%s] %s\n", run.Label, run.Path)

	if !run.HasData() {
		fmt.Fprintln(w, "  No loss lines found")
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "  Points: %d (steps %d to %d)\n", run.Points, deref(run.FirstStep), deref(run.LastStep))
	fmt.Fprintf(w, "  Final train loss: %s\n", formatLoss(run.FinalTrainLoss))
	fmt.Fprintf(w, "  Final val loss:   %s\n", formatLoss(run.FinalValLoss))
	if run.BestValLoss != nil {
		fmt.Fprintf(w, "  Best val loss:    %s at step %d\n", formatLoss(run.BestValLoss), deref(run.BestValStep))
	}
	if run.FinalElapsed != nil {
		fmt.Fprintf(w, "  Elapsed: %ss\n", strconv.FormatFloat(*run.FinalElapsed, 'f', 1, 64))
	}

	if f.opts.Verbose {
		fmt.Fprintf(w, "  Lines: %d read, %d loss, %d timing, %d malformed\n",
			run.Stats.LinesRead, run.Stats.LossLines, run.Stats.ElapsedLines, run.Stats.Malformed)
	}

	fmt.Fprintln(w)
}

func formatLoss(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*v, 'f', 4, 64)
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
