// Package compat checks the runtime environment against what colorthief was
// built and tested with. Its findings are advisory and never stop extraction.
package compat

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/hashicorp/go-hclog"
)

// MinimumGoVersion is the oldest Go runtime the module is tested against.
const MinimumGoVersion = "1.25.0"

// Report is the outcome of a compatibility check.
type Report struct {
	Runtime  string
	Minimum  string
	Warnings []string
}

// OK reports whether the check produced no warnings.
func (r Report) OK() bool {
	return len(r.Warnings) == 0
}

// Check compares goVersion (as reported by runtime.Version) with minimum.
func Check(goVersion, minimum string) Report {
	report := Report{Runtime: goVersion, Minimum: minimum}

	constraint, err := semver.NewConstraint(">= " + minimum)
	if err != nil {
		report.Warnings = append(report.Warnings, fmt.Sprintf("invalid minimum version %q: %v", minimum, err))
		return report
	}

	current, err := parseGoVersion(goVersion)
	if err != nil {
		report.Warnings = append(report.Warnings, fmt.Sprintf("unrecognised Go version %q", goVersion))
		return report
	}
	if !constraint.Check(current) {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("Go %s is older than the minimum supported %s", current, minimum))
	}
	return report
}

// CheckRuntime checks the running binary and logs any warnings.
func CheckRuntime(logger hclog.Logger) Report {
	report := Check(runtime.Version(), MinimumGoVersion)
	for _, w := range report.Warnings {
		logger.Warn("compatibility", "warning", w)
	}
	return report
}

// parseGoVersion turns "go1.25.1", "go1.26rc1" or "devel go1.26-abc" into a semver version.
func parseGoVersion(v string) (*semver.Version, error) {
	if i := strings.Index(v, "go1"); i >= 0 {
		v = v[i+2:]
	}
	if i := strings.IndexAny(v, " -+"); i >= 0 {
		v = v[:i]
	}
	// Pre-release suffixes such as "rc1" are treated as the release.
	for _, tag := range []string{"rc", "beta"} {
		if i := strings.Index(v, tag); i >= 0 {
			v = v[:i]
		}
	}
	return semver.NewVersion(v)
}
