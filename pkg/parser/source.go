package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
)

// maxLineSize bounds a single log line; longer lines fail the read.
const maxLineSize = 1024 * 1024

// ReaderSource implements LineSource over an io.Reader.
type ReaderSource struct {
	scanner *bufio.Scanner
	source  string
	lineNum int
}

// NewReaderSource creates a LineSource reading lines from r.
// The name is recorded as the Source of every returned line.
func NewReaderSource(name string, r io.Reader) *ReaderSource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &ReaderSource{
		scanner: scanner,
		source:  name,
	}
}

// Next returns the next line.
// Returns io.EOF when the reader is exhausted.
func (s *ReaderSource) Next(ctx context.Context) (*LogLine, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if s.scanner.Scan() {
		s.lineNum++
		return &LogLine{
			Content: s.scanner.Text(),
			Source:  s.source,
			LineNum: s.lineNum,
		}, nil
	}

	if err := s.scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s at line %d: %w", s.source, s.lineNum+1, err)
	}
	return nil, io.EOF
}

// Close is a no-op; the caller owns the reader.
func (s *ReaderSource) Close() error {
	return nil
}

// FileSource implements LineSource for reading a log file from disk.
type FileSource struct {
	*ReaderSource
	file *os.File
}

// OpenFile opens path for line-by-line reading.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}

	return &FileSource{
		ReaderSource: NewReaderSource(path, f),
		file:         f,
	}, nil
}

// Close releases the underlying file.
func (s *FileSource) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
