// Package input provides interactive terminal input utilities.
package input

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ErrCancelled is returned when the user aborts a prompt (Ctrl+C, Esc, end of
// input or a cancelled context).
var ErrCancelled = errors.New("prompt cancelled")

var (
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
)

// Choice is one option of a Select prompt.
type Choice struct {
	// Name is returned when the choice is picked.
	Name string
	// Label is displayed instead of Name when set.
	Label    string
	Disabled bool
}

func (c Choice) display() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Name
}

// Prompter asks questions on a terminal. When its input is a TTY the prompts
// are rendered with bubbletea; otherwise it falls back to reading plain lines,
// which keeps piped input and tests working.
type Prompter struct {
	in          io.Reader
	out         io.Writer
	interactive bool
	reader      *bufio.Reader

	// pending holds a read that outlived a cancelled prompt. The next prompt
	// picks it up instead of reading concurrently.
	pending chan lineResult
}

type lineResult struct {
	line string
	err  error
}

// NewPrompter creates a prompter reading from in and drawing on out. Nil
// arguments default to os.Stdin and os.Stdout.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{
		in:          in,
		out:         out,
		interactive: isTerminal(in),
		reader:      bufio.NewReader(in),
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Text asks for free-text input. An empty answer selects initial. validate,
// when non-nil, is applied to the answer; a rejected answer is reported and
// the question is asked again. Cancelling ctx abandons the prompt with
// ErrCancelled.
func (p *Prompter) Text(ctx context.Context, message, initial string, validate func(string) error) (string, error) {
	if p.interactive {
		m := newTextModel(message, initial, validate)
		final, err := p.program(ctx, m).Run()
		if err != nil {
			return "", programErr(ctx, err)
		}
		res := final.(*textModel)
		if res.cancelled {
			return "", ErrCancelled
		}
		return res.answer, nil
	}

	for {
		if initial != "" {
			fmt.Fprint(p.out, promptStyle.Render(message)+" "+hintStyle.Render(fmt.Sprintf("(%s)", initial))+": ")
		} else {
			fmt.Fprint(p.out, promptStyle.Render(message)+": ")
		}

		line, err := p.readLine(ctx)
		if err != nil {
			return "", err
		}

		answer := line
		if answer == "" {
			answer = initial
		}
		if validate != nil {
			if verr := validate(answer); verr != nil {
				fmt.Fprintln(p.out, errorStyle.Render(verr.Error()))
				continue
			}
		}
		return answer, nil
	}
}

// Select asks the user to pick one of choices and returns the Name of the
// picked choice. Disabled choices are shown but cannot be picked.
func (p *Prompter) Select(ctx context.Context, message string, choices []Choice) (string, error) {
	if firstEnabled(choices) < 0 {
		return "", errors.New("no selectable choices")
	}

	if p.interactive {
		m := newSelectModel(message, choices)
		final, err := p.program(ctx, m).Run()
		if err != nil {
			return "", programErr(ctx, err)
		}
		res := final.(*selectModel)
		if res.cancelled {
			return "", ErrCancelled
		}
		return res.choices[res.cursor].Name, nil
	}

	fmt.Fprintln(p.out, promptStyle.Render(message))
	for i, c := range choices {
		line := fmt.Sprintf("  %d) %s", i+1, c.display())
		if c.Disabled {
			line = disabledStyle.Render(line)
		}
		fmt.Fprintln(p.out, line)
	}

	for {
		fmt.Fprint(p.out, hintStyle.Render(fmt.Sprintf("Choice [1-%d]", len(choices)))+": ")
		line, err := p.readLine(ctx)
		if err != nil {
			return "", err
		}
		line = strings.TrimSpace(line)

		idx := -1
		if line == "" {
			idx = firstEnabled(choices)
		} else if n, convErr := strconv.Atoi(line); convErr == nil && n >= 1 && n <= len(choices) {
			idx = n - 1
		} else {
			for i, c := range choices {
				if strings.EqualFold(c.Name, line) {
					idx = i
					break
				}
			}
		}

		switch {
		case idx < 0:
			fmt.Fprintln(p.out, errorStyle.Render(fmt.Sprintf("%q is not one of the choices", line)))
		case choices[idx].Disabled:
			fmt.Fprintln(p.out, errorStyle.Render(fmt.Sprintf("%s is not available", choices[idx].Name)))
		default:
			return choices[idx].Name, nil
		}
	}
}

func (p *Prompter) program(ctx context.Context, m tea.Model) *tea.Program {
	return tea.NewProgram(m, tea.WithContext(ctx), tea.WithInput(p.in), tea.WithOutput(p.out))
}

func programErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ErrCancelled
	}
	return fmt.Errorf("prompt failed: %w", err)
}

// readLine returns the next line without its line terminator. End of input
// with nothing typed counts as cancellation, and so does ctx being cancelled
// while the read blocks.
func (p *Prompter) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", ErrCancelled
	}

	if p.pending == nil {
		ch := make(chan lineResult, 1)
		go func() {
			line, err := p.reader.ReadString('\n')
			ch <- lineResult{line: line, err: err}
		}()
		p.pending = ch
	}

	var res lineResult
	select {
	case <-ctx.Done():
		return "", ErrCancelled
	case res = <-p.pending:
		p.pending = nil
	}

	line, err := res.line, res.err
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		if line == "" {
			return "", ErrCancelled
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func firstEnabled(choices []Choice) int {
	for i, c := range choices {
		if !c.Disabled {
			return i
		}
	}
	return -1
}
