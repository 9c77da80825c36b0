package exec

import (
	"context"
	"io"
	"strings"
)

// GenericCommand provides a fluent API for building and executing commands
type GenericCommand struct {
	executor    *Executor
	command     string
	args        []string
	dir         string
	output      io.Writer
	showSpinner bool
	spinnerMsg  string
}

// NewGenericCommand creates a new generic command builder
func NewGenericCommand(executor *Executor, command string) *GenericCommand {
	return &GenericCommand{
		executor: executor,
		command:  command,
		args:     []string{},
	}
}

// WithArgs adds arguments to the command
func (g *GenericCommand) WithArgs(args ...string) *GenericCommand {
	g.args = append(g.args, args...)
	return g
}

// WithDir sets the working directory
func (g *GenericCommand) WithDir(dir string) *GenericCommand {
	g.dir = dir
	return g
}

// WithOutput sends both standard output and standard error to w
func (g *GenericCommand) WithOutput(w io.Writer) *GenericCommand {
	g.output = w
	return g
}

// WithSpinner hides the command's output behind a spinner with the given message
func (g *GenericCommand) WithSpinner(message string) *GenericCommand {
	g.showSpinner = true
	g.spinnerMsg = message
	return g
}

// Run executes the command
func (g *GenericCommand) Run(ctx context.Context) error {
	cmdExecutor := *g.executor
	if g.dir != "" {
		cmdExecutor.dir = g.dir
	}
	if g.output != nil {
		cmdExecutor.stdout = g.output
		cmdExecutor.stderr = g.output
	}

	if g.showSpinner {
		return cmdExecutor.RunWithSpinner(ctx, g.spinnerMsg, g.command, g.args...)
	}
	return cmdExecutor.Run(ctx, g.command, g.args...)
}

// String returns the command string representation for debugging
func (g *GenericCommand) String() string {
	parts := []string{g.command}
	parts = append(parts, g.args...)
	return strings.Join(parts, " ")
}
