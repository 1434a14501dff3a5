package figure

import (
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
)

// rangeMargin is the fraction of the data span added on each side.
const rangeMargin = 0.05

// Tick count limits per axis. Any range fits three ticks on a wide enough
// step, so minTicks must stay at least 3.
const (
	minTicks = 3
	maxTicks = 10
)

// maxTickIndex keeps tick positions exactly representable as float64 multiples
// of the step.
const maxTickIndex = 1e15

// paddedRange spans every finite value in columns, widened by rangeMargin.
// A zero span is widened around the single value so the axis stays valid.
func paddedRange(columns ...[]float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, col := range columns {
		for _, v := range col {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}

	if math.IsInf(lo, 1) {
		return &chart.ContinuousRange{Min: 0, Max: 1}
	}

	pad := (hi - lo) * rangeMargin
	if pad == 0 {
		pad = math.Abs(lo) * rangeMargin
		if pad == 0 {
			pad = 1
		}
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

// niceStep rounds raw up to 1, 2 or 5 times a power of ten.
func niceStep(raw float64) float64 {
	base := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 5} {
		if raw <= m*base*(1+1e-9) {
			return m * base
		}
	}
	return 10 * base
}

// tickBudget is how many ticks fit along pixels when labels need spacing
// pixels each.
func tickBudget(pixels int, spacing float64) int {
	if spacing <= 0 {
		return maxTicks
	}
	n := int(float64(pixels) / spacing)
	return max(minTicks, min(maxTicks, n))
}

// niceTicks returns at most limit evenly spaced ticks on a round step that
// cover r, and widens r to the outer ticks. It returns nil when r cannot
// be split into finite steps, leaving tick placement to go-chart.
func niceTicks(r *chart.ContinuousRange, limit int) []chart.Tick {
	limit = max(minTicks, limit)
	span := r.Max - r.Min
	if !(span > 0) || math.IsInf(span, 0) {
		return nil
	}

	step := niceStep(span / float64(limit-1))
	if !(step > 0) {
		return nil
	}
	lo, hi := math.Floor(r.Min/step), math.Ceil(r.Max/step)
	for hi-lo+1 > float64(limit) {
		step = niceStep(step * 1.5)
		lo, hi = math.Floor(r.Min/step), math.Ceil(r.Max/step)
	}
	if math.IsInf(step, 0) || math.Abs(lo) > maxTickIndex || math.Abs(hi) > maxTickIndex {
		return nil
	}

	decimals := max(0, int(-math.Floor(math.Log10(step))))
	ticks := make([]chart.Tick, 0, int(hi-lo)+1)
	for i := lo; i <= hi; i++ {
		v := i * step
		if v == 0 {
			v = 0 // no "-0" label
		}
		ticks = append(ticks, chart.Tick{
			Value: v,
			Label: strconv.FormatFloat(v, 'f', decimals, 64),
		})
	}

	r.Min, r.Max = lo*step, hi*step
	return ticks
}

// formatTick prints integral ticks without decimals.
func formatTick(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return chart.FloatValueFormatter(v)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'g', 4, 64)
}
