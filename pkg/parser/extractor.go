package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Built-in line patterns. Neither is anchored, so the template may appear
// anywhere in a line.
const (
	// DefaultLossPattern captures step, train loss and val loss.
	DefaultLossPattern = `step (\d+): train loss ([\d.]+), val loss ([\d.]+)`

	// DefaultElapsedPattern captures iteration and elapsed seconds.
	DefaultElapsedPattern = `(\d+) \| next_token_loss [\d.]+ \| full_loss [\d.]+ \| lr [\d.\-e]+ \| elapsed ([\d.]+)s`
)

// Minimum capture groups each pattern must provide.
const (
	LossCaptureGroups    = 3
	ElapsedCaptureGroups = 2
)

// ErrNoMatch is returned by extractors when a line does not match.
var ErrNoMatch = errors.New("pattern did not match")

// LossExtractor pulls a LossRecord out of a log line.
type LossExtractor struct {
	pattern *regexp.Regexp
}

// NewLossExtractor creates an extractor. The first three capture groups
// must hold step, train loss and val loss.
func NewLossExtractor(pattern *regexp.Regexp) *LossExtractor {
	return &LossExtractor{pattern: pattern}
}

// Extract returns ErrNoMatch if the line has no loss report, or a conversion
// error if the captured text is not a valid number.
func (e *LossExtractor) Extract(line string) (LossRecord, error) {
	matches := e.pattern.FindStringSubmatch(line)
	if len(matches) < LossCaptureGroups+1 {
		return LossRecord{}, ErrNoMatch
	}

	step, err := strconv.Atoi(matches[1])
	if err != nil {
		return LossRecord{}, fmt.Errorf("parsing step %q: %w", matches[1], err)
	}
	train, err := strconv.ParseFloat(matches[2], 64)
	if err != nil {
		return LossRecord{}, fmt.Errorf("parsing train loss %q: %w", matches[2], err)
	}
	val, err := strconv.ParseFloat(matches[3], 64)
	if err != nil {
		return LossRecord{}, fmt.Errorf("parsing val loss %q: %w", matches[3], err)
	}

	return LossRecord{Step: step, TrainLoss: train, ValLoss: val}, nil
}

// ElapsedExtractor pulls an ElapsedRecord out of a log line.
type ElapsedExtractor struct {
	pattern *regexp.Regexp
}

// NewElapsedExtractor creates an extractor. The first two capture groups
// must hold the iteration and the elapsed seconds.
func NewElapsedExtractor(pattern *regexp.Regexp) *ElapsedExtractor {
	return &ElapsedExtractor{pattern: pattern}
}

// Extract returns ErrNoMatch if the line has no timing report.
func (e *ElapsedExtractor) Extract(line string) (ElapsedRecord, error) {
	matches := e.pattern.FindStringSubmatch(line)
	if len(matches) < ElapsedCaptureGroups+1 {
		return ElapsedRecord{}, ErrNoMatch
	}

	iter, err := strconv.Atoi(matches[1])
	if err != nil {
		return ElapsedRecord{}, fmt.Errorf("parsing iteration %q: %w", matches[1], err)
	}
	elapsed, err := strconv.ParseFloat(matches[2], 64)
	if err != nil {
		return ElapsedRecord{}, fmt.Errorf("parsing elapsed %q: %w", matches[2], err)
	}

	return ElapsedRecord{Iteration: iter, Elapsed: elapsed}, nil
}
