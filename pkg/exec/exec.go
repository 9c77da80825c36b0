package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// CommandFunc builds the *exec.Cmd for a command. exec.Command is the default;
// tests substitute a helper process.
type CommandFunc func(name string, args ...string) *exec.Cmd

// Executor runs external commands
type Executor struct {
	stdout  io.Writer
	stderr  io.Writer
	dir     string
	spinner bool

	commandFunc CommandFunc
}

// Options configures command execution
type Options struct {
	Stdout      io.Writer
	Stderr      io.Writer
	Spinner     bool // Show spinner for long-running commands
	CommandFunc CommandFunc
}

// NewExecutor creates an executor with sensible defaults
func NewExecutor(opts *Options) *Executor {
	if opts == nil {
		opts = &Options{
			Stdout:  os.Stdout,
			Stderr:  os.Stderr,
			Spinner: true,
		}
	}

	// Set defaults for nil fields
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.CommandFunc == nil {
		opts.CommandFunc = exec.Command
	}

	return &Executor{
		stdout:      opts.Stdout,
		stderr:      opts.Stderr,
		spinner:     opts.Spinner,
		commandFunc: opts.CommandFunc,
	}
}

// Run executes a command, streaming its output to the executor's writers.
// It blocks until the process exits or ctx is cancelled, in which case the
// process is killed.
func (e *Executor) Run(ctx context.Context, name string, args ...string) error {
	return e.run(ctx, e.stdout, e.stderr, name, args...)
}

// Output runs a command and returns its trimmed standard output. Standard
// error is discarded.
func (e *Executor) Output(ctx context.Context, name string, args ...string) (string, error) {
	var stdout bytes.Buffer
	if err := e.run(ctx, &stdout, io.Discard, name, args...); err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout.String()), nil
}

func (e *Executor) run(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error {
	cmd := e.commandFunc(name, args...)

	// Set working directory
	if e.dir != "" {
		cmd.Dir = e.dir
	}

	// Connect output streams
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	// Start the command
	if err := cmd.Start(); err != nil {
		if isCommandNotFound(err) {
			return enhanceError(err, name)
		}
		return fmt.Errorf("failed to start %s: %w", name, err)
	}

	// Wait for completion
	errCh := make(chan error, 1)
	go func() {
		errCh <- cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		return fmt.Errorf("%s cancelled: %w", name, ctx.Err())
	case err := <-errCh:
		if err != nil {
			if isCommandNotFound(err) {
				return enhanceError(err, name)
			}
			return fmt.Errorf("%s failed: %w", name, err)
		}
		return nil
	}
}

// RunWithSpinner runs a command with its output hidden. While it runs, a
// spinner labelled with message is drawn on the executor's stderr when that is
// a terminal and spinners are enabled. On failure the tail of the command's
// standard error is appended to the returned error.
func (e *Executor) RunWithSpinner(ctx context.Context, message string, name string, args ...string) error {
	stderrTail := newTailBuffer(maxTailLines)

	if !e.spinner || !isTerminal(e.stderr) {
		return withTail(e.run(ctx, io.Discard, stderrTail, name, args...), stderrTail)
	}

	// Channel to signal command completion
	done := make(chan error, 1)

	// Run command in background
	go func() {
		done <- e.run(ctx, io.Discard, stderrTail, name, args...)
	}()

	p := tea.NewProgram(newSpinnerModel(message), tea.WithOutput(e.stderr), tea.WithInput(nil))

	// Start the spinner
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		// Spinner failures only affect rendering
		_, _ = p.Run()
	}()

	err := <-done
	p.Send(spinnerDoneMsg{err: err})
	<-finished

	return withTail(err, stderrTail)
}

// spinnerModel is the bubbletea model for the spinner
type spinnerModel struct {
	spinner spinner.Model
	message string
	done    bool
	err     error
}

type spinnerDoneMsg struct {
	err error
}

func newSpinnerModel(message string) *spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	return &spinnerModel{
		spinner: s,
		message: message,
	}
}

func (m *spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *spinnerModel) View() string {
	if m.done {
		// The pipeline prints its own status line once the command returns
		return ""
	}
	return fmt.Sprintf("%s %s...", m.spinner.View(), m.message)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// isCommandNotFound checks if an error indicates a command was not found
func isCommandNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, exec.ErrNotFound) ||
		// Some systems return different errors
		strings.Contains(err.Error(), "executable file not found") ||
		strings.Contains(err.Error(), "command not found")
}

// IsNotFound reports whether err was returned because the binary is missing.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// NotFoundError is returned when the command binary cannot be located.
type NotFoundError struct {
	Command string
	Err     error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: command '%s' not found, please install it and try again", e.Err, e.Command)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// enhanceError adds helpful message for missing commands
func enhanceError(err error, cmd string) error {
	return &NotFoundError{Command: cmd, Err: err}
}

func withTail(err error, tail *tailBuffer) error {
	if err == nil {
		return nil
	}
	if t := tail.String(); t != "" {
		return fmt.Errorf("%w\n%s", err, t)
	}
	return err
}
