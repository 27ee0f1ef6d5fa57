package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jmylchreest/colorthief/internal/image"
	"github.com/jmylchreest/colorthief/internal/thief"
)

func TestExitCode(t *testing.T) {
	extraction := &thief.ExtractionError{URI: "a.png", Err: image.ErrLoadImage}
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"usage", errors.New("unknown flag: --nope"), exitFailure},
		{"no colours", fmt.Errorf("failed to get palette: %w", thief.ErrNoColors), exitFailure},
		{"extraction", extraction, exitExtraction},
		{"wrapped extraction", fmt.Errorf("failed to get palette: %w", extraction), exitExtraction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
