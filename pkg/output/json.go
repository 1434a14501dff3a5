package output

import (
	"context"
	"encoding/json"
	"io"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return FormatJSON
}

// quietLine is the single-line form written in quiet mode.
type quietLine struct {
	Output string `json:"output"`
	Summary
}

// Format renders the report as indented JSON, or as one compact line of
// aggregate counts in quiet mode.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if f.opts.Quiet {
		return encoder.Encode(quietLine{Output: report.Metadata.Output, Summary: report.Summary})
	}

	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
