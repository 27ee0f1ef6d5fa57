package thief

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jmylchreest/colorthief/internal/image"
	"github.com/jmylchreest/colorthief/internal/quantize"
	"github.com/jmylchreest/colorthief/internal/sampler"
)

// Default configuration values.
const (
	DefaultQuality        = 10
	DefaultColorCount     = 5
	DefaultMinAlpha       = 125
	DefaultExcludeWhite   = true
	DefaultWhiteThreshold = 250
	DefaultCanvasSize     = 256
	DefaultAlgorithm      = quantize.AlgorithmMMCQ
)

// Environment variables read by Builder.WithEnvConfig.
const (
	EnvQuality        = "COLORTHIEF_QUALITY"
	EnvColorCount     = "COLORTHIEF_COLOR_COUNT"
	EnvMinAlpha       = "COLORTHIEF_MIN_ALPHA"
	EnvExcludeWhite   = "COLORTHIEF_EXCLUDE_WHITE"
	EnvWhiteThreshold = "COLORTHIEF_WHITE_THRESHOLD"
	EnvCanvasSize     = "COLORTHIEF_CANVAS_SIZE"
	EnvAlgorithm      = "COLORTHIEF_ALGORITHM"
)

// Config is a complete extraction configuration. Values are copied freely;
// a ColorThief never hands out a Config it still mutates.
type Config struct {
	// Quality is the sampling stride: every Quality-th pixel is read.
	Quality int `json:"quality"`
	// ColorCount is the number of palette entries requested from the quantizer.
	ColorCount int `json:"colorCount"`
	// MinAlpha discards pixels with alpha below it.
	MinAlpha int `json:"minAlpha"`
	// ExcludeWhite discards near-white pixels.
	ExcludeWhite bool `json:"excludeWhite"`
	// WhiteThreshold is the channel value all of R, G and B must exceed for a
	// pixel to count as white.
	WhiteThreshold int `json:"whiteThreshold"`
	// CanvasSize is the side of the square the source is rendered into.
	CanvasSize int `json:"canvasSize"`
	// Algorithm selects the quantizer.
	Algorithm quantize.Algorithm `json:"algorithm"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Quality:        DefaultQuality,
		ColorCount:     DefaultColorCount,
		MinAlpha:       DefaultMinAlpha,
		ExcludeWhite:   DefaultExcludeWhite,
		WhiteThreshold: DefaultWhiteThreshold,
		CanvasSize:     DefaultCanvasSize,
		Algorithm:      DefaultAlgorithm,
	}
}

// Validate checks every field is in range.
func (c Config) Validate() error {
	if err := c.filter().Validate(); err != nil {
		return err
	}
	if c.ColorCount < 1 || c.ColorCount > quantize.MaxColors {
		return fmt.Errorf("color count must be between 1 and %d, got %d", quantize.MaxColors, c.ColorCount)
	}
	if c.MinAlpha < 0 || c.MinAlpha > 255 {
		return fmt.Errorf("min alpha must be between 0 and 255, got %d", c.MinAlpha)
	}
	if c.WhiteThreshold < 0 || c.WhiteThreshold > 255 {
		return fmt.Errorf("white threshold must be between 0 and 255, got %d", c.WhiteThreshold)
	}
	if c.CanvasSize < 1 || c.CanvasSize > image.MaxCanvasSize {
		return fmt.Errorf("canvas size must be between 1 and %d, got %d", image.MaxCanvasSize, c.CanvasSize)
	}
	if !quantize.IsValidAlgorithm(c.Algorithm) {
		return fmt.Errorf("unknown algorithm: %s (valid algorithms: %v)", c.Algorithm, quantize.ValidAlgorithms())
	}
	return nil
}

// Merge returns a copy of c with every non-nil field of o applied.
func (c Config) Merge(o Options) Config {
	if o.Quality != nil {
		c.Quality = *o.Quality
	}
	if o.ColorCount != nil {
		c.ColorCount = *o.ColorCount
	}
	if o.MinAlpha != nil {
		c.MinAlpha = *o.MinAlpha
	}
	if o.ExcludeWhite != nil {
		c.ExcludeWhite = *o.ExcludeWhite
	}
	if o.WhiteThreshold != nil {
		c.WhiteThreshold = *o.WhiteThreshold
	}
	if o.CanvasSize != nil {
		c.CanvasSize = *o.CanvasSize
	}
	if o.Algorithm != nil {
		c.Algorithm = *o.Algorithm
	}
	return c
}

func (c Config) filter() sampler.Filter {
	return sampler.Filter{
		Quality:        c.Quality,
		MinAlpha:       uint8(c.MinAlpha),
		ExcludeWhite:   c.ExcludeWhite,
		WhiteThreshold: uint8(c.WhiteThreshold),
	}
}

// Options is a partial Config. Nil fields are left untouched by Merge.
type Options struct {
	Quality        *int                `json:"quality,omitempty" yaml:"quality,omitempty" toml:"quality,omitempty"`
	ColorCount     *int                `json:"colorCount,omitempty" yaml:"color_count,omitempty" toml:"color_count,omitempty"`
	MinAlpha       *int                `json:"minAlpha,omitempty" yaml:"min_alpha,omitempty" toml:"min_alpha,omitempty"`
	ExcludeWhite   *bool               `json:"excludeWhite,omitempty" yaml:"exclude_white,omitempty" toml:"exclude_white,omitempty"`
	WhiteThreshold *int                `json:"whiteThreshold,omitempty" yaml:"white_threshold,omitempty" toml:"white_threshold,omitempty"`
	CanvasSize     *int                `json:"canvasSize,omitempty" yaml:"canvas_size,omitempty" toml:"canvas_size,omitempty"`
	Algorithm      *quantize.Algorithm `json:"algorithm,omitempty" yaml:"algorithm,omitempty" toml:"algorithm,omitempty"`
}

// Overlay returns o with every non-nil field of top applied over it.
func (o Options) Overlay(top Options) Options {
	if top.Quality != nil {
		o.Quality = top.Quality
	}
	if top.ColorCount != nil {
		o.ColorCount = top.ColorCount
	}
	if top.MinAlpha != nil {
		o.MinAlpha = top.MinAlpha
	}
	if top.ExcludeWhite != nil {
		o.ExcludeWhite = top.ExcludeWhite
	}
	if top.WhiteThreshold != nil {
		o.WhiteThreshold = top.WhiteThreshold
	}
	if top.CanvasSize != nil {
		o.CanvasSize = top.CanvasSize
	}
	if top.Algorithm != nil {
		o.Algorithm = top.Algorithm
	}
	return o
}

// OptionsFromEnv reads the COLORTHIEF_* environment variables. Unset or empty
// variables leave the matching field nil.
func OptionsFromEnv() (Options, error) {
	return optionsFromLookup(os.LookupEnv)
}

func optionsFromLookup(lookup func(string) (string, bool)) (Options, error) {
	var opts Options
	ints := []struct {
		env string
		dst **int
	}{
		{EnvQuality, &opts.Quality},
		{EnvColorCount, &opts.ColorCount},
		{EnvMinAlpha, &opts.MinAlpha},
		{EnvWhiteThreshold, &opts.WhiteThreshold},
		{EnvCanvasSize, &opts.CanvasSize},
	}
	for _, f := range ints {
		v, ok := lookup(f.env)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return Options{}, fmt.Errorf("invalid %s: %w", f.env, err)
		}
		*f.dst = &n
	}

	if v, ok := lookup(EnvExcludeWhite); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return Options{}, fmt.Errorf("invalid %s: %w", EnvExcludeWhite, err)
		}
		opts.ExcludeWhite = &b
	}
	if v, ok := lookup(EnvAlgorithm); ok && strings.TrimSpace(v) != "" {
		alg := quantize.Algorithm(strings.ToLower(strings.TrimSpace(v)))
		opts.Algorithm = &alg
	}
	return opts, nil
}
