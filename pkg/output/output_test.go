package output

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/lossplot/pkg/figure"
	"github.com/ccollicutt/lossplot/pkg/parser"
	"github.com/ccollicutt/lossplot/pkg/plot"
)

func createTestResult() *plot.Result {
	palette := figure.DefaultPalette()
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &plot.Result{
		Output:    "loss_plots.png",
		Size:      plot.FigSize{Width: 12, Height: 8},
		DPI:       300,
		StartTime: start,
		EndTime:   start.Add(250 * time.Millisecond),
		Runs: []plot.Run{
			{
				Label: "run_a",
				Color: palette.At(0),
				File: &parser.ParsedFile{
					Path:         "logs/run_a.log",
					Steps:        []int{100, 200, 300},
					TrainLosses:  []float64{2.5, 2.1, 1.9},
					ValLosses:    []float64{3.1, 2.7, 2.8},
					ElapsedTimes: []float64{45.2, 90.4, 135.6},
					Stats:        parser.Stats{LinesRead: 10, LossLines: 3, ElapsedLines: 3},
				},
			},
			{
				Label: "run_b",
				Color: palette.At(1),
				File: &parser.ParsedFile{
					Path:         "logs/run_b.log",
					Steps:        []int{},
					TrainLosses:  []float64{},
					ValLosses:    []float64{},
					ElapsedTimes: []float64{},
					Stats:        parser.Stats{LinesRead: 4},
				},
			},
		},
	}
}

func TestNewReport(t *testing.T) {
	report := NewReport(createTestResult())

	assert.Equal(t, Summary{Files: 2, FilesWithData: 1, TotalPoints: 3, LinesProcessed: 14}, report.Summary)
	assert.Equal(t, 250*time.Millisecond, report.Metadata.Duration)
	assert.Equal(t, "loss_plots.png", report.Metadata.Output)

	require.Len(t, report.Runs, 2)
	a := report.Runs[0]
	assert.Equal(t, "run_a", a.Label)
	assert.Equal(t, "#0000ff", a.Color)
	assert.Equal(t, 3, a.Points)
	assert.Equal(t, 100, *a.FirstStep)
	assert.Equal(t, 300, *a.LastStep)
	assert.Equal(t, 1.9, *a.FinalTrainLoss)
	assert.Equal(t, 2.8, *a.FinalValLoss)
	assert.Equal(t, 2.7, *a.BestValLoss)
	assert.Equal(t, 200, *a.BestValStep)
	assert.Equal(t, 135.6, *a.FinalElapsed)

	b := report.Runs[1]
	assert.False(t, b.HasData())
	assert.Nil(t, b.FirstStep)
	assert.Nil(t, b.BestValLoss)
	assert.Nil(t, b.FinalElapsed)
}

func TestNewReport_NonFiniteLossesSkipped(t *testing.T) {
	result := createTestResult()
	f := result.Runs[0].File
	f.ValLosses = []float64{math.NaN(), math.Inf(1), 2.9}
	f.ElapsedTimes = []float64{0, 0, 0}

	rs := NewReport(result).Runs[0]
	assert.Equal(t, 2.9, *rs.BestValLoss)
	assert.Equal(t, 300, *rs.BestValStep)
	assert.Nil(t, rs.FinalElapsed)
}

func TestNewFormatter(t *testing.T) {
	f, err := NewFormatter("text", FormatOptions{})
	require.NoError(t, err)
	assert.Equal(t, "text", f.Name())

	f, err = NewFormatter("json", FormatOptions{})
	require.NoError(t, err)
	assert.Equal(t, "json", f.Name())

	f, err = NewFormatter("none", FormatOptions{})
	require.NoError(t, err)
	assert.Nil(t, f)

	_, err = NewFormatter("yaml", FormatOptions{})
	assert.ErrorContains(t, err, "unknown summary format")
}

func TestTextFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	err := NewTextFormatter(FormatOptions{}).Format(context.Background(), NewReport(createTestResult()), &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "=== Training Run Summary ===")
	assert.Contains(t, out, "[run_a] logs/run_a.log")
	assert.Contains(t, out, "Points: 3 (steps 100 to 300)")
	assert.Contains(t, out, "Final train loss: 1.9000")
	assert.Contains(t, out, "Best val loss:    2.7000 at step 200")
	assert.Contains(t, out, "Elapsed: 135.6s")
	assert.Contains(t, out, "[run_b] logs/run_b.log\n  No loss lines found")
	assert.Contains(t, out, "Summary: 2 files, 1 with data, 3 points")
	assert.NotContains(t, out, "Lines processed")
}

func TestTextFormatter_Verbose(t *testing.T) {
	var buf bytes.Buffer
	err := NewTextFormatter(FormatOptions{Verbose: true}).Format(context.Background(), NewReport(createTestResult()), &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Lines: 10 read, 3 loss, 3 timing, 0 malformed")
	assert.Contains(t, out, "Lines processed: 14")
	assert.Contains(t, out, "Output: loss_plots.png (12x8 in @ 300 dpi)")
}

func TestTextFormatter_Quiet(t *testing.T) {
	var buf bytes.Buffer
	err := NewTextFormatter(FormatOptions{Quiet: true}).Format(context.Background(), NewReport(createTestResult()), &buf)
	require.NoError(t, err)
	assert.Equal(t, "lossplot: 2 files, 1 with data, 3 points\n", buf.String())
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	err := NewJSONFormatter(FormatOptions{}).Format(context.Background(), NewReport(createTestResult()), &buf)
	require.NoError(t, err)

	var decoded struct {
		Summary Summary `json:"summary"`
		Runs    []struct {
			Label       string   `json:"label"`
			BestValLoss *float64 `json:"best_val_loss"`
			Stats       struct {
				LinesRead int `json:"lines_read"`
			} `json:"stats"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, 2, decoded.Summary.Files)
	require.Len(t, decoded.Runs, 2)
	assert.Equal(t, "run_a", decoded.Runs[0].Label)
	require.NotNil(t, decoded.Runs[0].BestValLoss)
	assert.Equal(t, 2.7, *decoded.Runs[0].BestValLoss)
	assert.Nil(t, decoded.Runs[1].BestValLoss)
	assert.Equal(t, 4, decoded.Runs[1].Stats.LinesRead)
}

func TestJSONFormatter_Quiet(t *testing.T) {
	var buf bytes.Buffer
	err := NewJSONFormatter(FormatOptions{Quiet: true}).Format(context.Background(), NewReport(createTestResult()), &buf)
	require.NoError(t, err)

	assert.Equal(t,
		`{"output":"loss_plots.png","files":2,"files_with_data":1,"total_points":3,"lines_processed":14}`+"\n",
		buf.String())
}
