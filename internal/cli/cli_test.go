// Package cli_test provides tests for the CLI package.
package cli_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmylchreest/colorthief/internal/cli"
	"github.com/jmylchreest/colorthief/internal/thief"
)

// setupTests isolates the CLI from the user's environment and returns a
// directory for test images.
func setupTests(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, env := range []string{
		thief.EnvQuality, thief.EnvColorCount, thief.EnvMinAlpha, thief.EnvExcludeWhite,
		thief.EnvWhiteThreshold, thief.EnvCanvasSize, thief.EnvAlgorithm,
	} {
		t.Setenv(env, "")
	}
	return t.TempDir()
}

// writePNG writes a w x h PNG filled with c.
func writePNG(t *testing.T, dir, name string, w, h int, c color.NRGBA) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("Failed to write PNG: %v", err)
	}
	return path
}

// run executes the CLI with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	rootCmd := cli.NewRootCmd()
	rootCmd.SetOut(&outBuf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

var (
	red         = color.NRGBA{R: 255, A: 255}
	white       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	transparent = color.NRGBA{}
)

func TestRootCommands(t *testing.T) {
	rootCmd := cli.NewRootCmd()
	want := []string{"palette", "dominant", "colors", "stats", "convert", "version"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("Find(%q) = %v, %v", name, cmd, err)
		}
	}
}

func TestPaletteCommand(t *testing.T) {
	dir := setupTests(t)
	path := writePNG(t, dir, "red.png", 4, 4, red)

	t.Run("Text", func(t *testing.T) {
		out, _, err := run(t, "palette", path)
		if err != nil {
			t.Fatalf("palette failed: %v", err)
		}
		for _, want := range []string{"dominant", "#ff0000", "rgb(255, 0, 0)", "hsl(0, 100%, 50%)", "red"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
		if strings.Contains(out, "\x1b[") {
			t.Errorf("output to a buffer should not contain escape sequences: %q", out)
		}
	})

	t.Run("JSON", func(t *testing.T) {
		out, _, err := run(t, "palette", "--format", "json", path)
		if err != nil {
			t.Fatalf("palette failed: %v", err)
		}
		var palette thief.PaletteResult
		if err := json.Unmarshal([]byte(out), &palette); err != nil {
			t.Fatalf("invalid JSON output: %v\n%s", err, out)
		}
		if palette.Dominant.Formats.Hex != "#ff0000" {
			t.Errorf("dominant = %q, want #ff0000", palette.Dominant.Formats.Hex)
		}
		if len(palette.Secondary) != 0 {
			t.Errorf("secondary = %v, want none", palette.Secondary)
		}
		if palette.PixelCount != thief.DefaultQuality {
			t.Errorf("pixelCount = %d, want %d", palette.PixelCount, thief.DefaultQuality)
		}
	})

	t.Run("Table", func(t *testing.T) {
		out, _, err := run(t, "palette", "-f", "table", path)
		if err != nil {
			t.Fatalf("palette failed: %v", err)
		}
		if !strings.HasPrefix(out, "Role") || !strings.Contains(out, "#ff0000") {
			t.Errorf("unexpected table output:\n%s", out)
		}
	})

	t.Run("ForcedPreview", func(t *testing.T) {
		out, _, err := run(t, "palette", "--preview", path)
		if err != nil {
			t.Fatalf("palette failed: %v", err)
		}
		if !strings.Contains(out, "48;2;255;0;0") {
			t.Errorf("expected a truecolour swatch, got %q", out)
		}
	})

	t.Run("OutputFile", func(t *testing.T) {
		outPath := filepath.Join(dir, "palette.txt")
		out, _, err := run(t, "palette", "-o", outPath, path)
		if err != nil {
			t.Fatalf("palette failed: %v", err)
		}
		if out != "" {
			t.Errorf("stdout should be empty when writing to a file, got %q", out)
		}
		data, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("output file not written: %v", err)
		}
		if !strings.Contains(string(data), "#ff0000") {
			t.Errorf("output file = %q", data)
		}
	})

	t.Run("Directory", func(t *testing.T) {
		imageDir := filepath.Join(dir, "images")
		if err := os.Mkdir(imageDir, 0o755); err != nil {
			t.Fatal(err)
		}
		writePNG(t, imageDir, "only.png", 2, 2, red)
		out, _, err := run(t, "dominant", imageDir)
		if err != nil {
			t.Fatalf("dominant failed: %v", err)
		}
		if !strings.HasPrefix(out, "#ff0000") {
			t.Errorf("output = %q", out)
		}
	})
}

func TestNoColours(t *testing.T) {
	dir := setupTests(t)
	path := writePNG(t, dir, "clear.png", 2, 2, transparent)

	for _, command := range []string{"palette", "dominant"} {
		_, _, err := run(t, command, path)
		if err == nil || !strings.Contains(err.Error(), "no colors found in image") {
			t.Errorf("%s error = %v, want no colors found", command, err)
		}
	}

	out, _, err := run(t, "colors", path)
	if err != nil {
		t.Fatalf("colors failed: %v", err)
	}
	if out != "" {
		t.Errorf("colors output = %q, want empty", out)
	}
}

func TestColorsCommand(t *testing.T) {
	dir := setupTests(t)
	path := writePNG(t, dir, "red.png", 3, 3, red)

	tests := []struct {
		as   string
		want string
	}{
		{"hex", "#ff0000\n"},
		{"rgb", "rgb(255, 0, 0)\n"},
		{"hsl", "hsl(0, 100%, 50%)\n"},
		{"rgbArray", "[255, 0, 0]\n"},
		{"hslArray", "[0, 100, 50]\n"},
		{"keyword", "red\n"},
	}

	for _, tt := range tests {
		t.Run(tt.as, func(t *testing.T) {
			out, _, err := run(t, "colors", "--as", tt.as, path)
			if err != nil {
				t.Fatalf("colors failed: %v", err)
			}
			if out != tt.want {
				t.Errorf("colors --as %s = %q, want %q", tt.as, out, tt.want)
			}
		})
	}

	if _, _, err := run(t, "colors", "--as", "cmyk", path); err == nil {
		t.Error("expected an error for an unknown colour format")
	}
}

func TestStatsCommand(t *testing.T) {
	dir := setupTests(t)
	path := writePNG(t, dir, "red.png", 2, 2, red)

	out, _, err := run(t, "stats", "--format", "json", path)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	var stats thief.ColorStatistics
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if stats.TotalColors != 1 || stats.ColorDistribution["#ff0000"] != 1 || stats.AverageBrightness != 85 {
		t.Errorf("stats = %+v", stats)
	}

	out, _, err = run(t, "stats", path)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if !strings.Contains(out, "Total colours:      1") || !strings.Contains(out, "#ff0000  1.0000") {
		t.Errorf("unexpected stats output:\n%s", out)
	}
}

func TestConvertCommand(t *testing.T) {
	setupTests(t)

	out, _, err := run(t, "convert", "tomato", "--to", "hex")
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if out != "#ff6347\n" {
		t.Errorf("convert --to hex = %q", out)
	}

	for input, want := range map[string]string{
		"hsl(240, 100%, 50%)": "#0000ff\n",
		"[0, 255, 0]":         "#00ff00\n",
	} {
		out, _, err := run(t, "convert", input, "--to", "hex")
		if err != nil {
			t.Fatalf("convert %s failed: %v", input, err)
		}
		if out != want {
			t.Errorf("convert %s --to hex = %q, want %q", input, out, want)
		}
	}

	out, _, err = run(t, "convert", "#ff0000")
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	for _, want := range []string{"hex:      #ff0000", "rgb:      rgb(255, 0, 0)", "keyword:  red", "hslArray: [0, 100, 50]"} {
		if !strings.Contains(out, want) {
			t.Errorf("convert output missing %q:\n%s", want, out)
		}
	}

	out, _, err = run(t, "convert", "rgb(0, 0, 255)", "-f", "json")
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(out), &data); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if data["hex"] != "#0000ff" || data["keyword"] != "blue" {
		t.Errorf("convert JSON = %v", data)
	}

	if _, _, err := run(t, "convert", "not-a-colour"); err == nil {
		t.Error("expected an error for an unrecognised colour")
	}
}

func TestConfigPrecedence(t *testing.T) {
	dir := setupTests(t)
	path := writePNG(t, dir, "white.png", 2, 2, white)

	// Defaults exclude white.
	if _, _, err := run(t, "dominant", path); err == nil {
		t.Fatal("expected no colours with white excluded")
	}

	// Environment keeps white.
	t.Setenv(thief.EnvExcludeWhite, "false")
	out, _, err := run(t, "dominant", path)
	if err != nil || !strings.HasPrefix(out, "#ffffff") {
		t.Fatalf("env override: out = %q, err = %v", out, err)
	}

	// The config file overrides the environment.
	configPath := filepath.Join(dir, "colorthief.yaml")
	if err := os.WriteFile(configPath, []byte("extraction:\n  exclude_white: true\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := run(t, "dominant", "--config", configPath, path); err == nil {
		t.Fatal("config file should override the environment")
	}

	// Flags override the config file.
	out, _, err = run(t, "dominant", "--config", configPath, "--exclude-white=false", path)
	if err != nil || !strings.HasPrefix(out, "#ffffff") {
		t.Fatalf("flag override: out = %q, err = %v", out, err)
	}

	// A file in the user config directory is picked up without --config.
	userDir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "colorthief")
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(userDir, "config.toml"), []byte("[extraction]\nexclude_white = true\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := run(t, "dominant", path); err == nil {
		t.Fatal("default config file should be loaded")
	}
}

func TestInvalidInput(t *testing.T) {
	dir := setupTests(t)
	path := writePNG(t, dir, "red.png", 1, 1, red)
	notImage := filepath.Join(dir, "fake.png")
	if err := os.WriteFile(notImage, []byte("dummy image data"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing file", []string{"palette", filepath.Join(dir, "missing.png")}, "not found"},
		{"unsupported extension", []string{"palette", filepath.Join(dir, "x.txt")}, "not found"},
		{"not an image", []string{"palette", notImage}, "failed to load image"},
		{"bad output format", []string{"palette", "--format", "xml", path}, "unsupported output format"},
		{"bad algorithm", []string{"palette", "--algorithm", "octree", path}, "invalid algorithm"},
		{"bad quality", []string{"palette", "--quality", "0", path}, "quality must be at least 1"},
		{"too many colours", []string{"palette", "-c", "300", path}, "color count"},
		{"verbose and quiet", []string{"palette", "-v", "-q", path}, "none of the others can be"},
		{"no argument", []string{"palette"}, "accepts 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestVerboseLogging(t *testing.T) {
	dir := setupTests(t)
	path := writePNG(t, dir, "red.png", 1, 1, red)

	_, stderr, err := run(t, "palette", "-v", path)
	if err != nil {
		t.Fatalf("palette failed: %v", err)
	}
	if !strings.Contains(stderr, "colorthief") || !strings.Contains(stderr, "sampled pixels") {
		t.Errorf("verbose output missing debug logs:\n%s", stderr)
	}

	_, stderr, err = run(t, "palette", "-q", path)
	if err != nil {
		t.Fatalf("palette failed: %v", err)
	}
	if stderr != "" {
		t.Errorf("quiet output = %q, want empty", stderr)
	}
}

func TestVersionCommand(t *testing.T) {
	setupTests(t)

	out, _, err := run(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "colorthief dev (") || !strings.Contains(out, "quantizers: mmcq") {
		t.Errorf("version output = %q", out)
	}

	out, _, err = run(t, "version", "--format", "json")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, `"go_version"`) || !strings.Contains(out, `"algorithms"`) {
		t.Errorf("version JSON = %q", out)
	}
}
