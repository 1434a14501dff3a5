package parser

import "context"

// LineSource provides an iterator over the raw lines of one log.
// Implementations must be safe for sequential access (not concurrent).
type LineSource interface {
	// Next returns the next line.
	// Returns io.EOF when no more lines are available.
	Next(ctx context.Context) (*LogLine, error)

	// Close releases any resources held by the source.
	Close() error
}

var (
	_ LineSource = (*ReaderSource)(nil)
	_ LineSource = (*FileSource)(nil)
)
