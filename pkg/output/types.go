// Package output formats per-run summaries of rendered training logs.
package output

import (
	"math"
	"time"

	"github.com/ccollicutt/lossplot/pkg/figure"
	"github.com/ccollicutt/lossplot/pkg/parser"
	"github.com/ccollicutt/lossplot/pkg/plot"
)

// Report is the complete summary output.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Runs has one entry per input file, in input order.
	Runs []RunSummary `json:"runs"`

	// Metadata provides context about the render.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	Files          int `json:"files"`
	FilesWithData  int `json:"files_with_data"`
	TotalPoints    int `json:"total_points"`
	LinesProcessed int `json:"lines_processed"`
}

// RunSummary describes one parsed log file. Loss and step fields are nil
// when the file had no loss lines.
type RunSummary struct {
	Label  string `json:"label"`
	Path   string `json:"path"`
	Color  string `json:"color"`
	Points int    `json:"points"`

	FirstStep      *int     `json:"first_step,omitempty"`
	LastStep       *int     `json:"last_step,omitempty"`
	FinalTrainLoss *float64 `json:"final_train_loss,omitempty"`
	FinalValLoss   *float64 `json:"final_val_loss,omitempty"`
	BestValLoss    *float64 `json:"best_val_loss,omitempty"`
	BestValStep    *int     `json:"best_val_step,omitempty"`

	// FinalElapsed is nil when the file had no timing lines.
	FinalElapsed *float64 `json:"final_elapsed_seconds,omitempty"`

	Stats parser.Stats `json:"stats"`
}

// HasData reports whether the run had any loss points.
func (r *RunSummary) HasData() bool {
	return r.Points > 0
}

// Metadata provides context about the render.
type Metadata struct {
	Output     string        `json:"output"`
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	DPI        int           `json:"dpi"`
	RenderedAt time.Time     `json:"rendered_at"`
	Duration   time.Duration `json:"duration_ns"`
}

// NewReport creates a Report from a completed render.
func NewReport(result *plot.Result) *Report {
	report := &Report{
		Runs: make([]RunSummary, 0, len(result.Runs)),
		Metadata: Metadata{
			Output:     result.Output,
			Width:      result.Size.Width,
			Height:     result.Size.Height,
			DPI:        result.DPI,
			RenderedAt: result.EndTime,
			Duration:   result.EndTime.Sub(result.StartTime),
		},
	}

	for _, run := range result.Runs {
		rs := summarize(run)
		report.Runs = append(report.Runs, rs)

		report.Summary.Files++
		if rs.HasData() {
			report.Summary.FilesWithData++
		}
		report.Summary.TotalPoints += rs.Points
		report.Summary.LinesProcessed += rs.Stats.LinesRead
	}

	return report
}

func summarize(run plot.Run) RunSummary {
	f := run.File
	rs := RunSummary{
		Label:  run.Label,
		Path:   f.Path,
		Color:  figure.Hex(run.Color),
		Points: f.Len(),
		Stats:  f.Stats,
	}
	if rs.Points == 0 {
		return rs
	}

	last := rs.Points - 1
	rs.FirstStep = intPtr(f.Steps[0])
	rs.LastStep = intPtr(f.Steps[last])
	rs.FinalTrainLoss = floatPtr(f.TrainLosses[last])
	rs.FinalValLoss = floatPtr(f.ValLosses[last])

	best := -1
	for i, v := range f.ValLosses {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if best < 0 || v < f.ValLosses[best] {
			best = i
		}
	}
	if best >= 0 {
		rs.BestValLoss = floatPtr(f.ValLosses[best])
		rs.BestValStep = intPtr(f.Steps[best])
	}

	if f.HasElapsed() && f.ElapsedTimes[last] > 0 {
		rs.FinalElapsed = floatPtr(f.ElapsedTimes[last])
	}

	return rs
}

func intPtr(v int) *int {
	return &v
}

// floatPtr returns nil for values JSON cannot represent.
func floatPtr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
