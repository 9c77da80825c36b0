package exec

import (
	"context"
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

var versionPattern = regexp.MustCompile(`\d+(\.\d+){1,2}([-+][0-9A-Za-z.-]+)?`)

// ParseVersion extracts the first version number found in the output of a
// `--version` invocation, e.g. "git version 2.43.0" or "1.22.19".
func ParseVersion(out string) (*semver.Version, error) {
	match := versionPattern.FindString(out)
	if match == "" {
		return nil, fmt.Errorf("no version found in %q", out)
	}
	return semver.NewVersion(match)
}

// Probe runs `name --version` and returns the version it printed. The error
// is non-nil only when the binary could not be run successfully; use
// IsNotFound to tell a missing binary from a failing one. Output without a
// recognisable version yields a nil version and a nil error.
func (e *Executor) Probe(ctx context.Context, name string) (*semver.Version, error) {
	out, err := e.Output(ctx, name, "--version")
	if err != nil {
		return nil, err
	}
	v, err := ParseVersion(out)
	if err != nil {
		return nil, nil
	}
	return v, nil
}
