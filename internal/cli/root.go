// Package cli provides the command-line interface for lossplot.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/lossplot/pkg/config"
	"github.com/ccollicutt/lossplot/pkg/figure"
	"github.com/ccollicutt/lossplot/pkg/output"
	"github.com/ccollicutt/lossplot/pkg/parser"
	"github.com/ccollicutt/lossplot/pkg/plot"
	"github.com/ccollicutt/lossplot/pkg/preview"
	"github.com/ccollicutt/lossplot/pkg/viewer"
)

// Version is set via ldflags at build time.
var Version = "dev"

// newOpener builds the image viewer; tests replace it.
var newOpener = func(command string) plot.Opener {
	return viewer.New(command)
}

// Options holds command-line options.
type Options struct {
	ConfigPath string
	Output     string
	DPI        int
	FigSize    []int
	NoShow     bool
	Preview    bool
	Summary    string
	Quiet      bool
	Verbose    bool
}

// Execute runs the root command and returns the exit code.
func Execute() int {
	return run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(NormalizeArgs(args))
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// SilenceErrors prevents Cobra from printing this itself.
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "lossplot [flags] <log-file>...",
		Short: "Plot training and validation loss from training logs",
		Long: `lossplot extracts step, training loss, validation loss and elapsed time
from model-training logs and draws a two-panel comparison chart:
loss against step, and loss against elapsed wall-clock time.

Each log file gets its own color. Training loss is drawn solid with circle
markers, validation loss dashed with square markers. Arguments may be glob
patterns.

Recognized lines (patterns can be changed in the config file):
  step 100: train loss 2.5000, val loss 3.1000
  100 | next_token_loss 1.0 | full_loss 1.0 | lr 1e-4 | elapsed 45.2s

Exit codes:
  0 - Chart written
  2 - File access, configuration or rendering error`,
		Example: `  lossplot run_a.log run_b.log
  lossplot --figsize 16 6 --no-show logs/*.log
  lossplot --no-show --preview run.log
  lossplot -c lossplot.yaml --summary text -o compare.png exp1.txt`,
		Args:          cobra.MinimumNArgs(1),
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(cmd, args, opts)
		},
	}
	cmd.SetVersionTemplate("lossplot {{.Version}}\n")

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML configuration file")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", config.DefaultOutput, "Output image path")
	cmd.Flags().IntVar(&opts.DPI, "dpi", config.DefaultDPI, "Output resolution in dots per inch")
	cmd.Flags().Var(newFigSizeValue(config.DefaultWidth, config.DefaultHeight, &opts.FigSize), "figsize",
		"Figure width and height in inches (--figsize W H or --figsize=W,H)")
	cmd.Flags().BoolVar(&opts.NoShow, "no-show", false, "Do not open the image after saving")
	cmd.Flags().BoolVar(&opts.Preview, "preview", false, "Print a braille preview of validation loss to the terminal")
	cmd.Flags().StringVar(&opts.Summary, "summary", output.FormatNone, "Print a per-run summary (text|json|none)")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Print only aggregate counts in the summary")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Print per-file parse statistics")

	return cmd
}

func runPlot(cmd *cobra.Command, args []string, opts *Options) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx, opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := applyFlags(cmd, cfg, opts); err != nil {
		return err
	}

	formatter, err := output.NewFormatter(opts.Summary, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}

	palette, err := figure.NewPalette(cfg.Palette)
	if err != nil {
		return fmt.Errorf("palette: %w", err)
	}

	paths := parser.ExpandPaths(args)

	if opts.Verbose && opts.ConfigPath != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Using config %s\n", opts.ConfigPath)
	}

	var opener plot.Opener
	if !cfg.NoShow {
		opener = newOpener(cfg.Viewer)
	}

	driver := plot.NewDriver(
		parser.NewParser(cfg.Patterns.CompiledLoss(), cfg.Patterns.CompiledElapsed()),
		plot.Options{
			Output:  cfg.Figure.Output,
			DPI:     cfg.Figure.DPI,
			Palette: palette,
			Opener:  opener,
			Stdout:  cmd.OutOrStdout(),
			Stderr:  cmd.ErrOrStderr(),
			Verbose: opts.Verbose,
		},
	)

	result, err := driver.Render(ctx, paths, plot.FigSize{Width: cfg.Figure.Width, Height: cfg.Figure.Height})
	if err != nil {
		return err
	}

	if opts.Preview {
		out := cmd.OutOrStdout()
		// The image is already written; a preview failure is only a warning.
		if err := preview.Write(out, result.Runs, preview.OptionsFor(out)); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: preview: %v\n", err)
		}
	}

	if formatter == nil {
		return nil
	}
	if err := formatter.Format(ctx, output.NewReport(result), cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting summary: %w", err)
	}
	return nil
}

// applyFlags overrides config values with flags the user set explicitly and
// re-validates the result.
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts *Options) error {
	flags := cmd.Flags()

	if flags.Changed("output") {
		cfg.Figure.Output = opts.Output
	}
	if flags.Changed("dpi") {
		cfg.Figure.DPI = opts.DPI
	}
	if flags.Changed("figsize") {
		cfg.Figure.Width = opts.FigSize[0]
		cfg.Figure.Height = opts.FigSize[1]
	}
	if flags.Changed("no-show") {
		cfg.NoShow = opts.NoShow
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}
