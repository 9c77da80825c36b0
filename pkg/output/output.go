// Package output provides styled terminal output for the scaffolder.
//
// Every status line carries a fixed-width level prefix (ERROR, INFO, SUCCESS)
// followed by a separator, so a run reads as one aligned column of events.
// Functions use lipgloss for styling but abstract away the details from callers.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	mu          sync.Mutex
	out         io.Writer = os.Stdout
	verboseMode bool
)

const separator = " |  "

// SetOutput redirects all output to w. Passing nil restores os.Stdout.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stdout
	}
	out = w
}

// Writer returns the writer output is currently sent to.
func Writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return out
}

// SetVerbose enables or disables verbose output for debugging.
// This should be called by the CLI when the --verbose flag is set.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verboseMode = v
}

// IsVerbose reports whether verbose output is enabled.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verboseMode
}

// SetColor toggles ANSI colours for every style in the process.
func SetColor(enabled bool) {
	if enabled {
		lipgloss.SetColorProfile(termenv.EnvColorProfile())
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}

// Accent renders s in the highlight colour used for names and commands.
func Accent(s string) string {
	return accentStyle.Render(s)
}

func writeLine(s string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out, s)
}

func prefixed(style lipgloss.Style, level, msg string) string {
	return style.Render(fmt.Sprintf("%-7s", level)) + infoStyle.Render(separator) + msg
}

// Error prints an error line.
// Use this for failures that need user attention.
//
// Example:
//
//	output.Error("Folder already exists, aborting")
func Error(msg string) {
	writeLine(prefixed(errorStyle, "ERROR", msg))
}

// Info prints an informational line.
// Use this for status updates or explanations.
//
// Example:
//
//	output.Info("Cloning the git repository")
func Info(msg string) {
	writeLine(prefixed(infoStyle, "INFO", msg))
}

// Success prints a success line.
// Use this for completed operations.
//
// Example:
//
//	output.Success("Installed dependencies")
func Success(msg string) {
	writeLine(prefixed(successStyle, "SUCCESS", msg))
}

// Step prints an indented step message in gray.
// Use this for actionable next steps or sub-items.
//
// Example:
//
//	output.Step("$ npm sync")
func Step(msg string) {
	writeLine(stepStyle.Render("    " + msg))
}

// Plain prints msg as-is, followed by a newline.
func Plain(msg string) {
	writeLine(msg)
}

// Blank prints an empty line.
func Blank() {
	writeLine("")
}

// Verbose prints a debug line only if verbose mode is enabled.
//
// Example:
//
//	output.Verbose("git version 2.43.0")
func Verbose(msg string) {
	if !IsVerbose() {
		return
	}
	writeLine(stepStyle.Render("DEBUG  " + separator + msg))
}

// Banner prints art with every ':' drawn as a coloured block and every other
// non-newline rune blanked out, producing a silhouette of the logo.
func Banner(art string) {
	var b strings.Builder
	for _, r := range art {
		switch r {
		case ':':
			b.WriteString(accentStyle.Render(":"))
		case '\n':
			b.WriteRune('\n')
		default:
			b.WriteRune(' ')
		}
	}
	writeLine(b.String())
}
