package parser

// AlignElapsed returns one elapsed value per step, looked up by exact step.
// A step with no entry in index reuses the previous aligned value, or 0 when
// it is the first. The zero is indistinguishable from a real reading.
func AlignElapsed(steps []int, index map[int]float64) []float64 {
	aligned := make([]float64, 0, len(steps))
	for _, step := range steps {
		if elapsed, ok := index[step]; ok {
			aligned = append(aligned, elapsed)
			continue
		}
		if n := len(aligned); n > 0 {
			aligned = append(aligned, aligned[n-1])
		} else {
			aligned = append(aligned, 0)
		}
	}
	return aligned
}
