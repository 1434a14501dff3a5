package config

import (
	"os"
	"strconv"

	"github.com/ccollicutt/lossplot/pkg/figure"
	"github.com/ccollicutt/lossplot/pkg/parser"
)

// Default values for configuration.
const (
	DefaultWidth  = 12
	DefaultHeight = 8
	DefaultDPI    = 300
	DefaultOutput = "loss_plots.png"
)

// Environment variable names.
const (
	EnvOutput = "LOSSPLOT_OUTPUT"
	EnvDPI    = "LOSSPLOT_DPI"
	EnvNoShow = "LOSSPLOT_NO_SHOW"
	EnvViewer = "LOSSPLOT_VIEWER"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Patterns: PatternConfig{
			Loss:    parser.DefaultLossPattern,
			Elapsed: parser.DefaultElapsedPattern,
		},
		Figure: FigureConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			DPI:    DefaultDPI,
			Output: DefaultOutput,
		},
		Palette: append([]string(nil), figure.DefaultPaletteNames...),
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
// Unparseable numeric or boolean values are ignored.
func (c *Config) applyEnvironmentOverrides() {
	if out := os.Getenv(EnvOutput); out != "" {
		c.Figure.Output = out
	}

	if v := os.Getenv(EnvDPI); v != "" {
		if dpi, err := strconv.Atoi(v); err == nil {
			c.Figure.DPI = dpi
		}
	}

	if v := os.Getenv(EnvNoShow); v != "" {
		if noShow, err := strconv.ParseBool(v); err == nil {
			c.NoShow = noShow
		}
	}

	if v := os.Getenv(EnvViewer); v != "" {
		c.Viewer = v
	}
}
