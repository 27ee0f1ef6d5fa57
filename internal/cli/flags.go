package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/jmylchreest/colorthief/internal/colour"
	"github.com/jmylchreest/colorthief/internal/quantize"
	"github.com/jmylchreest/colorthief/internal/thief"
)

// outputFormat selects how command results are rendered.
type outputFormat string

const (
	formatText  outputFormat = "text"
	formatJSON  outputFormat = "json"
	formatTable outputFormat = "table"
)

// String implements pflag.Value.
func (f *outputFormat) String() string {
	return string(*f)
}

// Set implements pflag.Value.
func (f *outputFormat) Set(v string) error {
	switch outputFormat(strings.ToLower(v)) {
	case formatText, formatJSON, formatTable:
		*f = outputFormat(strings.ToLower(v))
		return nil
	}
	return fmt.Errorf("unsupported output format: %s (supported: text, json, table)", v)
}

// Type implements pflag.Value.
func (f *outputFormat) Type() string {
	return "format"
}

// colourFormatValue adapts colour.Format to pflag.Value.
type colourFormatValue struct {
	format colour.Format
}

func (v *colourFormatValue) String() string {
	return v.format.String()
}

func (v *colourFormatValue) Set(s string) error {
	f, err := colour.ParseFormat(s)
	if err != nil {
		return err
	}
	v.format = f
	return nil
}

func (v *colourFormatValue) Type() string {
	return "colour-format"
}

// extractionFlags are the flags that map onto thief.Options.
type extractionFlags struct {
	quality        int
	colorCount     int
	minAlpha       int
	excludeWhite   bool
	whiteThreshold int
	canvasSize     int
	algorithm      string
}

func (e *extractionFlags) register(flags *pflag.FlagSet) {
	flags.IntVar(&e.quality, "quality", thief.DefaultQuality, "sample every Nth pixel (1 = every pixel)")
	flags.IntVarP(&e.colorCount, "colours", "c", thief.DefaultColorCount, "number of colours to extract (1-256)")
	flags.IntVar(&e.minAlpha, "min-alpha", thief.DefaultMinAlpha, "skip pixels with alpha below this (0-255)")
	flags.BoolVar(&e.excludeWhite, "exclude-white", thief.DefaultExcludeWhite, "skip near-white pixels")
	flags.IntVar(&e.whiteThreshold, "white-threshold", thief.DefaultWhiteThreshold, "channel value above which a pixel counts as white (0-255)")
	flags.IntVar(&e.canvasSize, "canvas-size", thief.DefaultCanvasSize, "side of the square images are rendered into")

	algorithms := make([]string, 0, len(quantize.ValidAlgorithms()))
	for _, alg := range quantize.ValidAlgorithms() {
		algorithms = append(algorithms, string(alg))
	}
	flags.StringVarP(&e.algorithm, "algorithm", "a", string(thief.DefaultAlgorithm),
		fmt.Sprintf("quantization algorithm (%s)", strings.Join(algorithms, ", ")))
}

// options returns the flags the user set explicitly. Flags left at their
// defaults do not override the environment or config file.
func (e *extractionFlags) options(flags *pflag.FlagSet) (thief.Options, error) {
	var opts thief.Options
	if flags.Changed("quality") {
		opts.Quality = &e.quality
	}
	if flags.Changed("colours") {
		opts.ColorCount = &e.colorCount
	}
	if flags.Changed("min-alpha") {
		opts.MinAlpha = &e.minAlpha
	}
	if flags.Changed("exclude-white") {
		opts.ExcludeWhite = &e.excludeWhite
	}
	if flags.Changed("white-threshold") {
		opts.WhiteThreshold = &e.whiteThreshold
	}
	if flags.Changed("canvas-size") {
		opts.CanvasSize = &e.canvasSize
	}
	if flags.Changed("algorithm") {
		alg := quantize.Algorithm(strings.ToLower(e.algorithm))
		if !quantize.IsValidAlgorithm(alg) {
			return thief.Options{}, fmt.Errorf("invalid algorithm: %s (valid algorithms: %v)", e.algorithm, quantize.ValidAlgorithms())
		}
		opts.Algorithm = &alg
	}
	return opts, nil
}
