package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/lossplot/pkg/figure"
	"github.com/ccollicutt/lossplot/pkg/parser"
)

// Load reads and validates a configuration file. An empty path yields the
// defaults, still subject to environment overrides and validation.
func Load(_ context.Context, path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors and compiles regex patterns.
func Validate(cfg *Config) error {
	if err := validatePatterns(&cfg.Patterns); err != nil {
		return fmt.Errorf("patterns: %w", err)
	}

	if err := validateFigure(&cfg.Figure); err != nil {
		return fmt.Errorf("figure: %w", err)
	}

	if len(cfg.Palette) == 0 {
		return errors.New("palette: at least one color is required")
	}
	for i, name := range cfg.Palette {
		if _, err := figure.ParseColor(name); err != nil {
			return fmt.Errorf("palette[%d]: %w", i, err)
		}
	}

	return nil
}

func validatePatterns(p *PatternConfig) error {
	re, err := compilePattern("loss", p.Loss, parser.LossCaptureGroups)
	if err != nil {
		return err
	}
	p.compiledLoss = re

	re, err = compilePattern("elapsed", p.Elapsed, parser.ElapsedCaptureGroups)
	if err != nil {
		return err
	}
	p.compiledElapsed = re

	return nil
}

func compilePattern(field, pattern string, groups int) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%s is required", field)
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid %s pattern: %w", field, err)
	}

	if re.NumSubexp() < groups {
		return nil, fmt.Errorf("%s pattern has only %d capture groups, need %d",
			field, re.NumSubexp(), groups)
	}

	return re, nil
}

func validateFigure(f *FigureConfig) error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("size must be positive, got %dx%d", f.Width, f.Height)
	}

	if f.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %d", f.DPI)
	}

	if err := figure.CheckSize(float64(f.Width), float64(f.Height), float64(f.DPI)); err != nil {
		return err
	}

	if f.Output == "" {
		return errors.New("output is required")
	}

	return nil
}
