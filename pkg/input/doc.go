// Package input provides interactive terminal input utilities.
//
// # Overview
//
// A Prompter asks free-text and single-select questions. On a terminal it
// renders them with bubbletea (a text input with inline validation and an
// arrow-key select list); on any other input it reads plain lines, so the same
// code works with piped answers and in tests.
//
// # Usage
//
//	p := input.NewPrompter(os.Stdin, os.Stdout)
//
//	name, err := p.Text(ctx, "What is your bot called?", "silica-framework-bot", validateName)
//	if errors.Is(err, input.ErrCancelled) {
//	    return nil // user pressed Ctrl+C
//	}
//
//	manager, err := p.Select(ctx, "Select which package manager to use", []input.Choice{
//	    {Name: "npm"},
//	    {Name: "yarn", Disabled: !yarnInstalled},
//	})
//
// # Styling
//
// The package uses lipgloss for consistent terminal styling:
//   - Questions are displayed in blue and bold
//   - Hints (defaults, choice ranges) are displayed in gray
//   - Disabled choices are struck through
//
// # Cancellation
//
// Ctrl+C and Esc on a terminal, end of input otherwise, and a cancelled
// context in either mode return ErrCancelled.
package input
