// Package sampler walks raw RGBA pixel buffers and selects the pixels that take
// part in palette quantization.
package sampler

import (
	"fmt"

	"github.com/jmylchreest/colorthief/internal/colour"
)

// Filter holds the sampling stride and the pixel exclusion rules.
type Filter struct {
	// Quality is the stride between sampled pixels. Every Quality-th pixel is read.
	Quality int
	// MinAlpha discards pixels whose alpha is strictly below it.
	MinAlpha uint8
	// ExcludeWhite discards pixels whose channels are all above WhiteThreshold.
	ExcludeWhite bool
	// WhiteThreshold is compared with a strict greater-than.
	WhiteThreshold uint8
}

// Validate reports whether the filter can drive a sampling pass.
func (f Filter) Validate() error {
	if f.Quality < 1 {
		return fmt.Errorf("quality must be at least 1, got %d", f.Quality)
	}
	return nil
}

// Stats counts what happened to the pixels visited by a sampling pass.
type Stats struct {
	Visited       int
	AlphaRejected int
	WhiteRejected int
	Kept          int
}

// Sample returns the RGB value of every Quality-th pixel of buf that passes the
// filter. buf holds four bytes per pixel in R, G, B, A order; a pixel missing
// its alpha byte is treated as opaque. An empty buffer yields an empty list.
func Sample(buf []byte, pixelCount int, f Filter) []colour.RGB {
	samples, _ := SampleWithStats(buf, pixelCount, f)
	return samples
}

// SampleWithStats is Sample that also reports per-rule counts.
func SampleWithStats(buf []byte, pixelCount int, f Filter) ([]colour.RGB, Stats) {
	var stats Stats
	step := max(f.Quality, 1)
	samples := make([]colour.RGB, 0, Visited(pixelCount, step))

	for i := 0; i < pixelCount; i += step {
		offset := i * 4
		if offset+2 >= len(buf) {
			break
		}
		stats.Visited++

		r, g, b := buf[offset], buf[offset+1], buf[offset+2]
		if offset+3 < len(buf) && buf[offset+3] < f.MinAlpha {
			stats.AlphaRejected++
			continue
		}
		if f.ExcludeWhite && r > f.WhiteThreshold && g > f.WhiteThreshold && b > f.WhiteThreshold {
			stats.WhiteRejected++
			continue
		}

		samples = append(samples, colour.RGB{R: r, G: g, B: b})
	}

	stats.Kept = len(samples)
	return samples, stats
}

// Visited returns how many pixel indices a pass with the given stride visits,
// ceil(pixelCount / quality).
func Visited(pixelCount, quality int) int {
	if pixelCount <= 0 {
		return 0
	}
	quality = max(quality, 1)
	return (pixelCount + quality - 1) / quality
}
