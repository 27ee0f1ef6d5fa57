// Package config loads colorthief settings from a YAML or TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/colorthief/internal/thief"
)

// FileNames are the names looked for in the user config directory, in order.
var FileNames = []string{"config.yaml", "config.yml", "config.toml"}

// ErrUnsupportedFormat is returned for config files that are neither YAML nor TOML.
var ErrUnsupportedFormat = errors.New("unsupported config file format")

// File is the on-disk configuration. Every key is optional.
type File struct {
	Extraction thief.Options `yaml:"extraction" toml:"extraction"`
}

// Load reads the config file at path. The format is chosen by extension:
// .yaml and .yml are YAML, .toml is TOML.
func Load(path string) (thief.Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return thief.Options{}, fmt.Errorf("failed to read config file: %w", err)
	}

	opts, err := Parse(bytes.NewReader(data), filepath.Ext(path))
	if err != nil {
		return thief.Options{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return opts, nil
}

// Parse decodes a config document. ext is the file extension including the dot.
func Parse(r io.Reader, ext string) (thief.Options, error) {
	var file File
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
			return thief.Options{}, err
		}
	case ".toml":
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&file); err != nil {
			return thief.Options{}, err
		}
	default:
		return thief.Options{}, fmt.Errorf("%w: %q (use .yaml, .yml or .toml)", ErrUnsupportedFormat, ext)
	}
	return file.Extraction, nil
}

// DefaultPath returns the first config file that exists under the user config
// directory (colorthief/config.{yaml,yml,toml}), or "" if there is none.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return findIn(filepath.Join(dir, "colorthief"))
}

func findIn(dir string) string {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
