// Package thief extracts dominant colour palettes from images.
//
// A ColorThief renders the image through an image.Source, samples the pixels,
// quantizes the samples and formats every palette entry. Configuration is an
// immutable snapshot read once at the start of each call, so UpdateConfig is
// safe to use while extractions are in flight.
package thief

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/colorthief/internal/colour"
	"github.com/jmylchreest/colorthief/internal/compat"
	"github.com/jmylchreest/colorthief/internal/image"
	"github.com/jmylchreest/colorthief/internal/quantize"
	"github.com/jmylchreest/colorthief/internal/sampler"
)

// Formats holds the textual forms of a colour.
type Formats struct {
	Hex     string `json:"hex"`
	RGB     string `json:"rgb"`
	HSL     string `json:"hsl"`
	Keyword string `json:"keyword"`
}

// ColorResult is one palette entry.
type ColorResult struct {
	RGB     colour.RGB `json:"rgb"`
	Formats Formats    `json:"formats"`
	// Weight is the share of sampled pixels the colour represents, or zero
	// when the quantizer does not report it.
	Weight float64 `json:"weight,omitempty"`
}

// PaletteResult is a palette split into its dominant and secondary colours.
type PaletteResult struct {
	Colors    []ColorResult `json:"colors"`
	Dominant  ColorResult   `json:"dominant"`
	Secondary []ColorResult `json:"secondary"`
	// PixelCount is len(Colors) * Quality. It is a nominal figure, not the
	// number of pixels that were sampled.
	PixelCount int `json:"pixelCount"`
	// SampledPixels is the number of pixels that survived filtering.
	SampledPixels int `json:"sampledPixels"`
}

// ColorStatistics summarises a palette.
type ColorStatistics struct {
	TotalColors       int     `json:"totalColors"`
	AverageBrightness float64 `json:"averageBrightness"`
	// ColorDistribution maps hex to a rank weight: (N - index) / N.
	ColorDistribution map[string]float64 `json:"colorDistribution"`
}

type stage string

const (
	stageAcquiringSource stage = "acquiring-source"
	stageSampling        stage = "sampling"
	stageQuantizing      stage = "quantizing"
	stageFormatting      stage = "formatting"
	stageIdle            stage = "idle"
	stageFailed          stage = "failed"
)

// Builder provides a fluent interface for constructing a ColorThief.
type Builder struct {
	config      Config
	useEnv      bool
	logger      hclog.Logger
	source      image.Source
	quantizer   quantize.Quantizer
	compatCheck bool
}

// NewBuilder creates a builder with default settings.
func NewBuilder() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig sets the base configuration.
func (b *Builder) WithConfig(config Config) *Builder {
	b.config = config
	return b
}

// WithEnvConfig applies the COLORTHIEF_* environment variables over the base
// configuration at Build time.
func (b *Builder) WithEnvConfig() *Builder {
	b.useEnv = true
	return b
}

// WithLogger sets the logger. The default discards everything.
func (b *Builder) WithLogger(logger hclog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithSource replaces the default CanvasSource.
func (b *Builder) WithSource(source image.Source) *Builder {
	b.source = source
	return b
}

// WithQuantizer fixes the quantizer, overriding Config.Algorithm. The
// quantizer must be safe for concurrent use if the ColorThief is shared.
func (b *Builder) WithQuantizer(q quantize.Quantizer) *Builder {
	b.quantizer = q
	return b
}

// WithCompatCheck logs a warning at Build time if the runtime is older than
// the minimum supported Go version.
func (b *Builder) WithCompatCheck() *Builder {
	b.compatCheck = true
	return b
}

// Build constructs the ColorThief. Environment values, when enabled, override
// the configuration given to WithConfig.
func (b *Builder) Build() (*ColorThief, error) {
	config := b.config
	if b.useEnv {
		opts, err := OptionsFromEnv()
		if err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
		config = config.Merge(opts)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := b.logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	source := b.source
	if source == nil {
		source = image.NewCanvasSource(logger)
	}
	if b.compatCheck {
		compat.CheckRuntime(logger)
	}

	t := &ColorThief{
		source:    source,
		quantizer: b.quantizer,
		logger:    logger,
	}
	t.config.Store(&config)
	return t, nil
}

// New creates a ColorThief with the default configuration and source.
func New() *ColorThief {
	t, err := NewBuilder().Build()
	if err != nil {
		// The defaults always validate.
		panic(err)
	}
	return t
}

// ColorThief extracts palettes. It is safe for concurrent use.
type ColorThief struct {
	config    atomic.Pointer[Config]
	source    image.Source
	quantizer quantize.Quantizer
	logger    hclog.Logger
}

// Config returns a copy of the current configuration.
func (t *ColorThief) Config() Config {
	return *t.config.Load()
}

// UpdateConfig applies opts over the current configuration and returns the
// result. The configuration is left unchanged if the result is invalid.
func (t *ColorThief) UpdateConfig(opts Options) (Config, error) {
	for {
		current := t.config.Load()
		next := current.Merge(opts)
		if err := next.Validate(); err != nil {
			return *current, fmt.Errorf("failed to update config: %w", err)
		}
		if t.config.CompareAndSwap(current, &next) {
			t.logger.Debug("configuration updated", "config", fmt.Sprintf("%+v", next))
			return next, nil
		}
	}
}

// ResetConfig restores the default configuration.
func (t *ColorThief) ResetConfig() {
	config := DefaultConfig()
	t.config.Store(&config)
}

// IsSupportedFormat reports whether uri has a supported image extension.
func (t *ColorThief) IsSupportedFormat(uri string) bool {
	return image.IsSupported(uri)
}

// ProminentColors extracts the palette of the image at uri, most prominent
// first. An image with no usable pixels yields an empty slice and no error.
// Failures to render the image are reported as *ExtractionError.
func (t *ColorThief) ProminentColors(ctx context.Context, uri string) ([]ColorResult, error) {
	colors, _, err := t.extract(ctx, uri, t.Config())
	if err != nil {
		return nil, err
	}
	return colors, nil
}

// Palette extracts the palette and splits it into dominant and secondary
// colours. It returns ErrNoColors if the image yields no colours.
func (t *ColorThief) Palette(ctx context.Context, uri string) (*PaletteResult, error) {
	config := t.Config()
	colors, stats, err := t.extract(ctx, uri, config)
	if err != nil {
		return nil, fmt.Errorf("failed to get palette: %w", err)
	}
	if len(colors) == 0 {
		return nil, fmt.Errorf("failed to get palette: %w", ErrNoColors)
	}
	return &PaletteResult{
		Colors:        colors,
		Dominant:      colors[0],
		Secondary:     colors[1:],
		PixelCount:    len(colors) * config.Quality,
		SampledPixels: stats.Kept,
	}, nil
}

// DominantColor returns the most prominent colour, or ErrNoColors.
func (t *ColorThief) DominantColor(ctx context.Context, uri string) (*ColorResult, error) {
	colors, _, err := t.extract(ctx, uri, t.Config())
	if err != nil {
		return nil, fmt.Errorf("failed to get dominant color: %w", err)
	}
	if len(colors) == 0 {
		return nil, fmt.Errorf("failed to get dominant color: %w", ErrNoColors)
	}
	dominant := colors[0]
	return &dominant, nil
}

// ColorsInFormat extracts the palette and renders each colour in format.
func (t *ColorThief) ColorsInFormat(ctx context.Context, uri string, format colour.Format) ([]string, error) {
	colors, _, err := t.extract(ctx, uri, t.Config())
	if err != nil {
		return nil, fmt.Errorf("failed to get colors in format: %w", err)
	}

	out := make([]string, 0, len(colors))
	for _, c := range colors {
		s, err := colour.FormatString(c.RGB, format)
		if err != nil {
			return nil, fmt.Errorf("failed to get colors in format: %w", err)
		}
		out = append(out, s)
	}
	return out, nil
}

// ColorStatistics extracts the palette and summarises it.
func (t *ColorThief) ColorStatistics(ctx context.Context, uri string) (*ColorStatistics, error) {
	colors, _, err := t.extract(ctx, uri, t.Config())
	if err != nil {
		return nil, fmt.Errorf("failed to get color statistics: %w", err)
	}
	return Statistics(colors), nil
}

// Statistics summarises a palette. The distribution weight of the colour at
// index i of N is (N - i) / N; it ranks, it does not measure.
func Statistics(colors []ColorResult) *ColorStatistics {
	stats := &ColorStatistics{
		TotalColors:       len(colors),
		ColorDistribution: make(map[string]float64, len(colors)),
	}
	if len(colors) == 0 {
		return stats
	}

	n := float64(len(colors))
	var brightness float64
	for i, c := range colors {
		brightness += c.RGB.Brightness()
		// Palettes from MMCQ never repeat a colour; keep the higher rank if another algorithm does.
		if _, seen := stats.ColorDistribution[c.Formats.Hex]; !seen {
			stats.ColorDistribution[c.Formats.Hex] = (n - float64(i)) / n
		}
	}
	stats.AverageBrightness = brightness / n
	return stats
}

// NewColorResult formats rgb in every textual form.
func NewColorResult(rgb colour.RGB, weight float64) ColorResult {
	return ColorResult{
		RGB: rgb,
		Formats: Formats{
			Hex:     rgb.Hex(),
			RGB:     rgb.String(),
			HSL:     colour.RGBToHSL(rgb).String(),
			Keyword: colour.Keyword(rgb),
		},
		Weight: weight,
	}
}

// extract runs the pipeline for one call against a single config snapshot.
func (t *ColorThief) extract(ctx context.Context, uri string, config Config) ([]ColorResult, sampler.Stats, error) {
	logger := t.logger.With("uri", uri)
	fail := func(err error) ([]ColorResult, sampler.Stats, error) {
		logger.Trace("extraction stage", "stage", stageFailed, "error", err)
		logger.Trace("extraction stage", "stage", stageIdle)
		return nil, sampler.Stats{}, &ExtractionError{URI: uri, Err: err}
	}

	logger.Trace("extraction stage", "stage", stageAcquiringSource)
	svg := image.IsSVG(uri)
	surface, err := t.acquire(ctx, uri, svg, config.CanvasSize)
	if err != nil {
		return fail(err)
	}
	if surface == nil {
		return fail(image.ErrCanvasNotInitialized)
	}
	defer surface.Release()

	pixels, err := surface.ReadPixels()
	if err != nil {
		return fail(err)
	}
	pixelCount := surface.Width() * surface.Height()
	if len(pixels) == 0 && pixelCount > 0 {
		return fail(readFailure(svg))
	}

	logger.Trace("extraction stage", "stage", stageSampling,
		"width", surface.Width(), "height", surface.Height())
	samples, stats := sampler.SampleWithStats(pixels, pixelCount, config.filter())
	logger.Debug("sampled pixels", "visited", stats.Visited, "kept", stats.Kept,
		"alpha_rejected", stats.AlphaRejected, "white_rejected", stats.WhiteRejected)

	logger.Trace("extraction stage", "stage", stageQuantizing, "algorithm", config.Algorithm)
	q, err := t.quantizerFor(config)
	if err != nil {
		return fail(err)
	}
	swatches := quantize.Quantize(q, samples, config.ColorCount)

	logger.Trace("extraction stage", "stage", stageFormatting, "colors", len(swatches))
	colors := make([]ColorResult, 0, len(swatches))
	for _, s := range swatches {
		colors = append(colors, NewColorResult(s.RGB, s.Weight))
	}

	logger.Trace("extraction stage", "stage", stageIdle)
	return colors, stats, nil
}

func (t *ColorThief) acquire(ctx context.Context, uri string, svg bool, canvasSize int) (image.Surface, error) {
	if !svg {
		return t.source.DecodeRaster(ctx, uri, canvasSize)
	}
	doc, err := t.source.DecodeSVG(ctx, uri)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, image.ErrLoadSVG
	}
	return t.source.DrawSVG(doc, canvasSize)
}

// quantizerFor returns the injected quantizer or a fresh one for the
// configured algorithm, since some algorithms keep per-run state.
func (t *ColorThief) quantizerFor(config Config) (quantize.Quantizer, error) {
	if t.quantizer != nil {
		return t.quantizer, nil
	}
	return quantize.New(config.Algorithm)
}

func readFailure(svg bool) error {
	if svg {
		return image.ErrReadSVGPixels
	}
	return image.ErrReadImagePixels
}

// IsExtractionError reports whether err is, or wraps, an *ExtractionError.
func IsExtractionError(err error) bool {
	var target *ExtractionError
	return errors.As(err, &target)
}
