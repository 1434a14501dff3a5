// Package parser extracts training metrics from model-training log files.
package parser

// ParsedFile holds the series extracted from a single log file.
// Steps, TrainLosses, ValLosses and ElapsedTimes are index-aligned and
// always have the same length.
type ParsedFile struct {
	// Path is the file the series were read from.
	Path string

	// Steps are the reported step indices in file order. Duplicates and
	// out-of-order values are kept as encountered.
	Steps []int

	// TrainLosses holds the training loss reported with each step.
	TrainLosses []float64

	// ValLosses holds the validation loss reported with each step.
	ValLosses []float64

	// ElapsedTimes holds the elapsed seconds aligned to each step.
	// See AlignElapsed for the fill policy.
	ElapsedTimes []float64

	// Stats describes what the parse pass saw.
	Stats Stats
}

// Stats counts lines seen while parsing a file.
type Stats struct {
	LinesRead    int `json:"lines_read"`
	LossLines    int `json:"loss_lines"`
	ElapsedLines int `json:"elapsed_lines"`

	// Malformed counts pattern matches whose captures failed numeric conversion.
	Malformed int `json:"malformed"`
}

// Len returns the number of aligned points.
func (p *ParsedFile) Len() int {
	return len(p.Steps)
}

// HasElapsed reports whether the file produced an elapsed-time series.
func (p *ParsedFile) HasElapsed() bool {
	return len(p.ElapsedTimes) > 0
}

// LogLine is a raw log line.
type LogLine struct {
	// Content is the raw line text.
	Content string

	// Source is the file path this line came from.
	Source string

	// LineNum is the 1-based line number in the source file.
	LineNum int
}

// LossRecord is the data carried by one loss line.
type LossRecord struct {
	Step      int
	TrainLoss float64
	ValLoss   float64
}

// ElapsedRecord is the data carried by one per-iteration timing line.
type ElapsedRecord struct {
	Iteration int
	Elapsed   float64
}
