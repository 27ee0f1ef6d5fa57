// Package version describes a colorthief binary: the release and commit the
// linker stamped in, the toolchain it was built with, and the quantizers it
// can run. Release builds set the stamps with
//
//	go build -ldflags "-X github.com/jmylchreest/colorthief/internal/version.Version=v1.2.0 \
//	  -X github.com/jmylchreest/colorthief/internal/version.Commit=$(git rev-parse HEAD) \
//	  -X github.com/jmylchreest/colorthief/internal/version.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// A plain `go build` reports "dev".
package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/jmylchreest/colorthief/internal/compat"
	"github.com/jmylchreest/colorthief/internal/quantize"
)

// Set by the linker.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info is the build description printed by `colorthief version`.
type Info struct {
	Version    string   `json:"version"`
	Commit     string   `json:"commit"`
	Date       string   `json:"date"`
	GoVersion  string   `json:"go_version"`
	MinimumGo  string   `json:"minimum_go"`
	Platform   string   `json:"platform"`
	Algorithms []string `json:"algorithms"`
}

// GetInfo returns the build description of the running binary.
func GetInfo() Info {
	algorithms := make([]string, 0, len(quantize.ValidAlgorithms()))
	for _, alg := range quantize.ValidAlgorithms() {
		algorithms = append(algorithms, string(alg))
	}
	return Info{
		Version:    Version,
		Commit:     Commit,
		Date:       Date,
		GoVersion:  runtime.Version(),
		MinimumGo:  compat.MinimumGoVersion,
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
		Algorithms: algorithms,
	}
}

// String is the one-line form used by --version, e.g.
// "colorthief dev (go1.25.1, linux/amd64, quantizers: mmcq, mediancut, kmeans)".
// Stamped builds add the short commit and build date.
func String() string {
	info := GetInfo()
	details := []string{info.GoVersion, info.Platform, "quantizers: " + strings.Join(info.Algorithms, ", ")}
	if info.Commit != "unknown" && info.Date != "unknown" {
		details = append([]string{"commit " + shortCommit(info.Commit), "built " + info.Date}, details...)
	}
	return fmt.Sprintf("colorthief %s (%s)", info.Version, strings.Join(details, ", "))
}

// Short returns the bare release, as cobra's --version flag shows it.
func Short() string {
	return Version
}

func shortCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
