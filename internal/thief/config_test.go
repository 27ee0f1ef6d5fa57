package thief

import (
	"testing"

	"github.com/jmylchreest/colorthief/internal/quantize"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"quality one", func(c *Config) { c.Quality = 1 }, false},
		{"quality zero", func(c *Config) { c.Quality = 0 }, true},
		{"color count zero", func(c *Config) { c.ColorCount = 0 }, true},
		{"color count max", func(c *Config) { c.ColorCount = quantize.MaxColors }, false},
		{"color count over max", func(c *Config) { c.ColorCount = quantize.MaxColors + 1 }, true},
		{"min alpha zero", func(c *Config) { c.MinAlpha = 0 }, false},
		{"min alpha negative", func(c *Config) { c.MinAlpha = -1 }, true},
		{"min alpha over 255", func(c *Config) { c.MinAlpha = 256 }, true},
		{"white threshold 255", func(c *Config) { c.WhiteThreshold = 255 }, false},
		{"white threshold over 255", func(c *Config) { c.WhiteThreshold = 300 }, true},
		{"canvas zero", func(c *Config) { c.CanvasSize = 0 }, true},
		{"canvas too large", func(c *Config) { c.CanvasSize = 1 << 20 }, true},
		{"kmeans", func(c *Config) { c.Algorithm = quantize.AlgorithmKMeans }, false},
		{"unknown algorithm", func(c *Config) { c.Algorithm = "octree" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)
			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigMergeLeavesUnsetFields(t *testing.T) {
	base := DefaultConfig()
	quality := 2
	excludeWhite := false

	merged := base.Merge(Options{Quality: &quality, ExcludeWhite: &excludeWhite})

	want := base
	want.Quality = 2
	want.ExcludeWhite = false
	if merged != want {
		t.Errorf("Merge() = %+v, want %+v", merged, want)
	}
	if base.Quality != DefaultQuality {
		t.Errorf("Merge() modified the receiver: %+v", base)
	}
	if got := base.Merge(Options{}); got != base {
		t.Errorf("Merge(empty) = %+v, want %+v", got, base)
	}
}

func TestOptionsOverlay(t *testing.T) {
	one, two, three := 1, 2, 3
	alg := quantize.AlgorithmMedianCut

	bottom := Options{Quality: &one, ColorCount: &two}
	top := Options{ColorCount: &three, Algorithm: &alg}
	got := bottom.Overlay(top)

	if got.Quality == nil || *got.Quality != 1 {
		t.Errorf("Overlay() Quality = %v, want 1", got.Quality)
	}
	if got.ColorCount == nil || *got.ColorCount != 3 {
		t.Errorf("Overlay() ColorCount = %v, want 3", got.ColorCount)
	}
	if got.Algorithm == nil || *got.Algorithm != alg {
		t.Errorf("Overlay() Algorithm = %v, want %v", got.Algorithm, alg)
	}
	if got.MinAlpha != nil {
		t.Errorf("Overlay() MinAlpha = %v, want nil", *got.MinAlpha)
	}
}

func TestOptionsFromLookup(t *testing.T) {
	env := map[string]string{
		EnvQuality:        " 3 ",
		EnvColorCount:     "8",
		EnvMinAlpha:       "",
		EnvExcludeWhite:   "0",
		EnvWhiteThreshold: "240",
		EnvAlgorithm:      "KMEANS",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	opts, err := optionsFromLookup(lookup)
	if err != nil {
		t.Fatalf("optionsFromLookup() error = %v", err)
	}

	got := DefaultConfig().Merge(opts)
	want := DefaultConfig()
	want.Quality = 3
	want.ColorCount = 8
	want.ExcludeWhite = false
	want.WhiteThreshold = 240
	want.Algorithm = quantize.AlgorithmKMeans
	if got != want {
		t.Errorf("config from env = %+v, want %+v", got, want)
	}
}

func TestOptionsFromLookupInvalid(t *testing.T) {
	tests := map[string]string{
		EnvCanvasSize:   "big",
		EnvExcludeWhite: "maybe",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			lookup := func(k string) (string, bool) {
				if k == key {
					return value, true
				}
				return "", false
			}
			if _, err := optionsFromLookup(lookup); err == nil {
				t.Errorf("optionsFromLookup() with %s=%q expected error", key, value)
			}
		})
	}
}
