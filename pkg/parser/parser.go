package parser

import (
	"context"
	"errors"
	"io"
	"regexp"
)

// Parser extracts loss and elapsed-time series from training logs.
// A Parser holds no per-file state and may be reused across files.
type Parser struct {
	loss    *LossExtractor
	elapsed *ElapsedExtractor
}

// NewParser creates a Parser from compiled loss and elapsed-time patterns.
func NewParser(lossPattern, elapsedPattern *regexp.Regexp) *Parser {
	return &Parser{
		loss:    NewLossExtractor(lossPattern),
		elapsed: NewElapsedExtractor(elapsedPattern),
	}
}

// NewDefaultParser creates a Parser using the built-in line patterns.
func NewDefaultParser() *Parser {
	return NewParser(
		regexp.MustCompile(DefaultLossPattern),
		regexp.MustCompile(DefaultElapsedPattern),
	)
}

// Parse reads the file at path end to end and returns its aligned series.
// A file with no matching lines yields empty series and no error.
func (p *Parser) Parse(ctx context.Context, path string) (*ParsedFile, error) {
	src, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return p.ParseSource(ctx, path, src)
}

// ParseReader parses log text from r. The name is recorded as the Path.
func (p *Parser) ParseReader(ctx context.Context, name string, r io.Reader) (*ParsedFile, error) {
	return p.ParseSource(ctx, name, NewReaderSource(name, r))
}

// ParseSource drains src and returns the aligned series.
// It does not close src.
func (p *Parser) ParseSource(ctx context.Context, name string, src LineSource) (*ParsedFile, error) {
	result := &ParsedFile{
		Path:        name,
		Steps:       []int{},
		TrainLosses: []float64{},
		ValLosses:   []float64{},
	}
	index := make(map[int]float64)

	for {
		line, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		result.Stats.LinesRead++

		// Both patterns are tried on every line.
		if rec, err := p.loss.Extract(line.Content); err == nil {
			result.Steps = append(result.Steps, rec.Step)
			result.TrainLosses = append(result.TrainLosses, rec.TrainLoss)
			result.ValLosses = append(result.ValLosses, rec.ValLoss)
			result.Stats.LossLines++
		} else if !errors.Is(err, ErrNoMatch) {
			result.Stats.Malformed++
		}

		if rec, err := p.elapsed.Extract(line.Content); err == nil {
			index[rec.Iteration] = rec.Elapsed
			result.Stats.ElapsedLines++
		} else if !errors.Is(err, ErrNoMatch) {
			result.Stats.Malformed++
		}
	}

	result.ElapsedTimes = AlignElapsed(result.Steps, index)
	return result, nil
}

// ParseAll parses paths in order and stops at the first failure.
func (p *Parser) ParseAll(ctx context.Context, paths []string) ([]*ParsedFile, error) {
	files := make([]*ParsedFile, 0, len(paths))
	for _, path := range paths {
		pf, err := p.Parse(ctx, path)
		if err != nil {
			return nil, err
		}
		files = append(files, pf)
	}
	return files, nil
}
