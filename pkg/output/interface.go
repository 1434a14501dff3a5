package output

import (
	"context"
	"fmt"
	"io"
)

// Formatter renders a run summary in a specific format.
type Formatter interface {
	// Format renders the report to the given writer.
	Format(ctx context.Context, report *Report, w io.Writer) error

	// Name returns the format name (text, json).
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose adds parse statistics and timing.
	Verbose bool

	// Quiet prints only the aggregate line.
	Quiet bool
}

// Summary format names accepted by NewFormatter.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatNone = "none"
)

// NewFormatter returns the formatter for name. It returns nil, nil for "none"
// or an empty name.
func NewFormatter(name string, opts FormatOptions) (Formatter, error) {
	switch name {
	case FormatText:
		return NewTextFormatter(opts), nil
	case FormatJSON:
		return NewJSONFormatter(opts), nil
	case FormatNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown summary format %q (want text, json or none)", name)
	}
}
