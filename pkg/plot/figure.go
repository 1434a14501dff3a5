package plot

import (
	"github.com/ccollicutt/lossplot/pkg/figure"
)

// Fixed chart text.
const (
	StepTitle    = "Training and Validation Loss vs. Step"
	TimeTitle    = "Training and Validation Loss vs. Time"
	StepAxis     = "Step"
	TimeAxis     = "Elapsed Time (s)"
	LossAxis     = "Loss"
	valLossAlpha = 0.7
)

// BuildFigure lays runs out on a step panel and an elapsed-time panel.
// A run without elapsed times is left off the time panel.
func BuildFigure(runs []Run, size FigSize, dpi int) *figure.Figure {
	step := figure.Panel{Title: StepTitle, XLabel: StepAxis, YLabel: LossAxis}
	elapsed := figure.Panel{Title: TimeTitle, XLabel: TimeAxis, YLabel: LossAxis}

	for _, run := range runs {
		steps := toFloats(run.File.Steps)
		train, val := lossLines(run, steps)
		step.Lines = append(step.Lines, train, val)
		step.Legend = append(step.Legend, train, val)

		if !run.File.HasElapsed() {
			continue
		}
		train, val = lossLines(run, run.File.ElapsedTimes)
		elapsed.Lines = append(elapsed.Lines, train, val)
		elapsed.Legend = append(elapsed.Legend, train, val)
	}

	return &figure.Figure{
		Width:  float64(size.Width),
		Height: float64(size.Height),
		DPI:    float64(dpi),
		Panels: []figure.Panel{step, elapsed},
	}
}

// lossLines returns the train (solid, circles) and val (dashed, squares,
// translucent) lines of a run against x.
func lossLines(run Run, x []float64) (figure.Line, figure.Line) {
	train := figure.Line{
		Name:   run.Label + " - Train Loss",
		X:      x,
		Y:      run.File.TrainLosses,
		Color:  run.Color,
		Marker: figure.MarkerCircle,
	}
	val := figure.Line{
		Name:   run.Label + " - Val Loss",
		X:      x,
		Y:      run.File.ValLosses,
		Color:  run.Color,
		Dashed: true,
		Marker: figure.MarkerSquare,
		Alpha:  valLossAlpha,
	}
	return train, val
}

func toFloats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
