// Package exec provides utilities for executing external commands.
//
// The package is domain-agnostic. It knows how to start a process, wait for
// it, kill it when the context is cancelled, hide its output behind a spinner,
// and probe a binary for its version. It knows nothing about git or package
// managers.
//
// # Basic Usage
//
// Create an executor and run commands:
//
//	executor := exec.NewExecutor(nil)
//	err := executor.Run(ctx, "echo", "Hello, World!")
//
// Run inside another directory with output hidden:
//
//	err := exec.NewGenericCommand(executor, "npm").
//	    WithArgs("install").
//	    WithDir(dir).
//	    WithSpinner("Installing dependencies").
//	    Run(ctx)
//
// Probe a binary:
//
//	version, err := executor.Probe(ctx, "git")
//	if exec.IsNotFound(err) {
//	    // git is not installed
//	}
//
// # Testing
//
// Options.CommandFunc replaces exec.Command, so tests can re-invoke the test
// binary as a helper process instead of touching real tools.
package exec
