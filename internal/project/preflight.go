package project

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/silica-framework/create-silica/pkg/exec"
	"github.com/silica-framework/create-silica/pkg/output"
)

// Detection is the outcome of probing an external tool. A failed probe is
// recorded here rather than returned as an error.
type Detection struct {
	Available bool
	Version   *semver.Version
	// Err is why the probe failed, when it did
	Err error
}

func detect(ctx context.Context, e *exec.Executor, name string) Detection {
	v, err := e.Probe(ctx, name)
	return Detection{Available: err == nil, Version: v, Err: err}
}

// Missing reports whether the tool is not installed at all, as opposed to
// installed but failing
func (d Detection) Missing() bool {
	return !d.Available && (d.Err == nil || exec.IsNotFound(d.Err))
}

func (d Detection) String() string {
	switch {
	case d.Missing():
		return "not found"
	case !d.Available:
		return fmt.Sprintf("failed (%v)", d.Err)
	case d.Version == nil:
		return "found (unknown version)"
	default:
		return d.Version.String()
	}
}

// Tools records which external tools are installed on the host
type Tools struct {
	Git  Detection
	Yarn Detection
}

// Supports reports whether m can be offered to the user
func (t Tools) Supports(m PackageManager) bool {
	if m.Primary {
		return true
	}
	if m.Name == Yarn.Name {
		return t.Yarn.Available
	}
	return false
}

// Preflight probes git and yarn. A git that is missing or fails is reported
// but does not stop anything: the clone step fails loudly later. A missing
// yarn only disables it as a choice.
func Preflight(ctx context.Context, e *exec.Executor) Tools {
	tools := Tools{
		Git:  detect(ctx, e, "git"),
		Yarn: detect(ctx, e, Yarn.Name),
	}

	if !tools.Git.Available {
		output.Error("You need git to run this command.")
		if !tools.Git.Missing() {
			output.Info("git is installed but `git --version` failed")
		}
	}

	output.Verbose(fmt.Sprintf("git: %s", tools.Git))
	output.Verbose(fmt.Sprintf("yarn: %s", tools.Yarn))

	return tools
}
