package quantize

import (
	"image"
	"image/color"

	"github.com/ericpauley/go-quantize/quantize"

	"github.com/jmylchreest/colorthief/internal/colour"
)

// MedianCut adapts go-quantize's median cut quantizer. The samples are laid out
// as a one pixel high image; each distinct colour is weighted by its frequency.
// Palette order is the order in which go-quantize emits its buckets.
type MedianCut struct {
	quantizer quantize.MedianCutQuantizer
}

// NewMedianCut creates a median cut quantizer that averages each bucket.
func NewMedianCut() *MedianCut {
	return &MedianCut{
		quantizer: quantize.MedianCutQuantizer{Aggregation: quantize.Mean},
	}
}

// Quantize implements Quantizer.
func (q *MedianCut) Quantize(samples []colour.RGB, count int) []Swatch {
	if len(samples) == 0 || count < 1 {
		return nil
	}

	img := image.NewRGBA(image.Rect(0, 0, len(samples), 1))
	for x, s := range samples {
		img.SetRGBA(x, 0, color.RGBA{R: s.R, G: s.G, B: s.B, A: 255})
	}

	palette := q.quantizer.Quantize(make(color.Palette, 0, count), img)
	if len(palette) == 0 {
		return nil
	}

	swatches := make([]Swatch, len(palette))
	for i, c := range palette {
		swatches[i] = Swatch{RGB: colour.ToRGB(c)}
	}
	assignWeights(swatches, samples)
	return swatches
}

// assignWeights sets each swatch's weight to the share of samples nearest to it.
func assignWeights(swatches []Swatch, samples []colour.RGB) {
	counts := make([]int, len(swatches))
	for _, s := range samples {
		counts[nearest(swatches, s)]++
	}
	for i := range swatches {
		swatches[i].Weight = float64(counts[i]) / float64(len(samples))
	}
}

func nearest(swatches []Swatch, c colour.RGB) int {
	best, bestDist := 0, -1
	for i, s := range swatches {
		dr := int(s.RGB.R) - int(c.R)
		dg := int(s.RGB.G) - int(c.G)
		db := int(s.RGB.B) - int(c.B)
		if d := dr*dr + dg*dg + db*db; bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
