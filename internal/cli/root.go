// Package cli provides the command-line interface for colorthief.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/colorthief/internal/config"
	"github.com/jmylchreest/colorthief/internal/thief"
	"github.com/jmylchreest/colorthief/internal/version"
)

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	verbose    bool
	quiet      bool
	configPath string

	format  outputFormat
	output  string
	preview bool
	watch   bool

	extraction extractionFlags
}

// NewRootCmd builds the colorthief command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{format: formatText}

	rootCmd := &cobra.Command{
		Use:   "colorthief",
		Short: "Extract dominant colour palettes from images",
		Long: `colorthief extracts a palette of dominant colours from a raster image or SVG.

Pixels are sampled at a fixed stride, transparent and near-white pixels are
skipped, and the remaining samples are quantized into a small palette. Every
colour is reported as hex, rgb(), hsl() and its CSS keyword when one matches.

Images may be local files, directories (a random image is picked) or
http(s) URLs.

Configuration is read, lowest precedence first, from built-in defaults,
COLORTHIEF_* environment variables, the config file and command-line flags.

The exit status is 2 when an image cannot be loaded or read and 1 for any
other error.`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress non-error output")
	flags.StringVar(&opts.configPath, "config", "", "config file, YAML or TOML (default: $XDG_CONFIG_HOME/colorthief/config.yaml)")
	flags.VarP(&opts.format, "format", "f", "output format (text, json, table)")
	flags.StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	flags.BoolVar(&opts.preview, "preview", false, "show colour swatches (default: on when stdout is a terminal)")
	opts.extraction.register(flags)
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd(opts))
	rootCmd.AddCommand(newPaletteCmd(opts))
	rootCmd.AddCommand(newDominantCmd(opts))
	rootCmd.AddCommand(newColorsCmd(opts))
	rootCmd.AddCommand(newStatsCmd(opts))
	rootCmd.AddCommand(newConvertCmd(opts))

	return rootCmd
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		stop()
		os.Exit(exitCode(err))
	}
}

// Exit codes.
const (
	exitFailure    = 1
	exitExtraction = 2
)

// exitCode separates images that could not be read from usage and
// configuration errors.
func exitCode(err error) int {
	if thief.IsExtractionError(err) {
		return exitExtraction
	}
	return exitFailure
}

// newLogger returns the logger for a command run: Debug with --verbose,
// silent with --quiet, warnings only otherwise.
func newLogger(verbose, quiet bool, w io.Writer) hclog.Logger {
	level := hclog.Warn
	switch {
	case verbose:
		level = hclog.Debug
	case quiet:
		level = hclog.Off
		w = io.Discard
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "colorthief",
		Output: w,
		Level:  level,
	})
}

// newThief builds a ColorThief for a command run, applying environment,
// config file and flag settings in increasing precedence.
func (o *rootOptions) newThief(cmd *cobra.Command) (*thief.ColorThief, hclog.Logger, error) {
	logger := newLogger(o.verbose, o.quiet, cmd.ErrOrStderr())

	ct, err := thief.NewBuilder().
		WithEnvConfig().
		WithLogger(logger).
		WithCompatCheck().
		Build()
	if err != nil {
		return nil, nil, err
	}

	var fileOpts thief.Options
	path := o.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	if path != "" {
		logger.Debug("loading config file", "path", path)
		if fileOpts, err = config.Load(path); err != nil {
			return nil, nil, err
		}
	}

	flagOpts, err := o.extraction.options(cmd.Flags())
	if err != nil {
		return nil, nil, err
	}

	cfg, err := ct.UpdateConfig(fileOpts.Overlay(flagOpts))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Debug("configuration", "quality", cfg.Quality, "color_count", cfg.ColorCount,
		"min_alpha", cfg.MinAlpha, "exclude_white", cfg.ExcludeWhite,
		"white_threshold", cfg.WhiteThreshold, "canvas_size", cfg.CanvasSize, "algorithm", cfg.Algorithm)

	return ct, logger, nil
}
