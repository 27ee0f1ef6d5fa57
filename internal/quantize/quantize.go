// Package quantize reduces a list of sampled colours to a small ordered palette.
package quantize

import (
	"fmt"

	"github.com/jmylchreest/colorthief/internal/colour"
)

// MaxColors is the largest palette any algorithm will build.
const MaxColors = 256

// Swatch is one palette entry.
type Swatch struct {
	RGB colour.RGB
	// Weight is the share of samples the swatch represents, in [0, 1].
	// Zero when the algorithm does not report populations.
	Weight float64
}

// Quantizer builds a palette of at most count colours from samples. The
// returned order is the algorithm's own ranking. A nil result means no
// palette could be built.
type Quantizer interface {
	Quantize(samples []colour.RGB, count int) []Swatch
}

// Algorithm represents the colour quantization algorithm type.
type Algorithm string

const (
	// AlgorithmMMCQ is the modified median cut quantizer: a 5-bit histogram split
	// by population, then by population x volume. Output is most prominent first.
	AlgorithmMMCQ Algorithm = "mmcq"

	// AlgorithmMedianCut delegates to the go-quantize median cut implementation.
	AlgorithmMedianCut Algorithm = "mediancut"

	// AlgorithmKMeans uses k-means clustering.
	AlgorithmKMeans Algorithm = "kmeans"
)

// ValidAlgorithms returns a list of valid algorithm names.
func ValidAlgorithms() []Algorithm {
	return []Algorithm{
		AlgorithmMMCQ,
		AlgorithmMedianCut,
		AlgorithmKMeans,
	}
}

// IsValidAlgorithm checks if the given algorithm name is valid.
func IsValidAlgorithm(alg Algorithm) bool {
	for _, valid := range ValidAlgorithms() {
		if alg == valid {
			return true
		}
	}
	return false
}

// New creates a Quantizer for the specified algorithm.
func New(alg Algorithm) (Quantizer, error) {
	switch alg {
	case AlgorithmMMCQ, "":
		return NewMMCQ(), nil
	case AlgorithmMedianCut:
		return NewMedianCut(), nil
	case AlgorithmKMeans:
		return NewKMeans(), nil
	default:
		return nil, fmt.Errorf("unknown algorithm: %s (valid algorithms: %v)", alg, ValidAlgorithms())
	}
}

// Quantize runs q over samples. Empty input returns nil without invoking q,
// as does a q that produces nothing. Otherwise q's palette is returned as is.
func Quantize(q Quantizer, samples []colour.RGB, count int) []Swatch {
	if len(samples) == 0 || count < 1 {
		return nil
	}
	palette := q.Quantize(samples, min(count, MaxColors))
	if len(palette) == 0 {
		return nil
	}
	return palette
}
