// Package config provides configuration loading and validation for lossplot.
package config

import "regexp"

// Config is the root configuration structure loaded from YAML.
type Config struct {
	Patterns PatternConfig `yaml:"patterns"`
	Figure   FigureConfig  `yaml:"figure"`

	// Palette lists line colors, by name or as #rrggbb. File i uses
	// Palette[i % len(Palette)].
	Palette []string `yaml:"palette"`

	// NoShow disables opening the exported image in a viewer.
	NoShow bool `yaml:"no_show,omitempty"`

	// Viewer is a program to open the image with instead of the
	// platform default. It may include arguments; the image path is appended.
	Viewer string `yaml:"viewer,omitempty"`
}

// PatternConfig defines the line templates recognized in training logs.
type PatternConfig struct {
	// Loss captures step, train loss and val loss (in that order).
	Loss string `yaml:"loss"`

	// Elapsed captures iteration and elapsed seconds (in that order).
	Elapsed string `yaml:"elapsed"`

	compiledLoss    *regexp.Regexp
	compiledElapsed *regexp.Regexp
}

// CompiledLoss returns the compiled loss pattern (populated during validation).
func (p *PatternConfig) CompiledLoss() *regexp.Regexp {
	return p.compiledLoss
}

// CompiledElapsed returns the compiled elapsed pattern (populated during validation).
func (p *PatternConfig) CompiledElapsed() *regexp.Regexp {
	return p.compiledElapsed
}

// FigureConfig controls the exported chart.
type FigureConfig struct {
	// Width and Height are in inches.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	DPI int `yaml:"dpi"`

	// Output is the image path, relative to the working directory.
	Output string `yaml:"output"`
}
