package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// textModel is the bubbletea model behind Prompter.Text
type textModel struct {
	input     textinput.Model
	message   string
	initial   string
	validate  func(string) error
	errMsg    string
	answer    string
	done      bool
	cancelled bool
}

func newTextModel(message, initial string, validate func(string) error) *textModel {
	ti := textinput.New()
	ti.Placeholder = initial
	ti.Prompt = ""
	ti.Focus()

	return &textModel{
		input:    ti,
		message:  message,
		initial:  initial,
		validate: validate,
	}
}

func (m *textModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *textModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			answer := m.input.Value()
			if answer == "" {
				answer = m.initial
			}
			if m.validate != nil {
				if err := m.validate(answer); err != nil {
					m.errMsg = err.Error()
					return m, nil
				}
			}
			m.answer = answer
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *textModel) View() string {
	var b strings.Builder
	b.WriteString(selectedStyle.Render("? ") + promptStyle.Render(m.message) + hintStyle.Render(" › "))

	if m.done || m.cancelled {
		b.WriteString(m.answer)
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render("  " + m.errMsg))
		b.WriteString("\n")
	}
	return b.String()
}

// selectModel is the bubbletea model behind Prompter.Select
type selectModel struct {
	message   string
	choices   []Choice
	cursor    int
	done      bool
	cancelled bool
}

func newSelectModel(message string, choices []Choice) *selectModel {
	return &selectModel{
		message: message,
		choices: choices,
		cursor:  firstEnabled(choices),
	}
}

func (m *selectModel) Init() tea.Cmd {
	return nil
}

func (m *selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc":
		m.cancelled = true
		return m, tea.Quit
	case "enter":
		m.done = true
		return m, tea.Quit
	case "up", "k", "shift+tab":
		m.move(-1)
	case "down", "j", "tab":
		m.move(1)
	}
	return m, nil
}

// move steps the cursor by delta, wrapping around and skipping disabled
// choices.
func (m *selectModel) move(delta int) {
	n := len(m.choices)
	for i := 1; i <= n; i++ {
		next := ((m.cursor+delta*i)%n + n) % n
		if !m.choices[next].Disabled {
			m.cursor = next
			return
		}
	}
}

func (m *selectModel) View() string {
	var b strings.Builder
	b.WriteString(selectedStyle.Render("? ") + promptStyle.Render(m.message) + hintStyle.Render(" › "))

	if m.done || m.cancelled {
		if m.done {
			b.WriteString(m.choices[m.cursor].display())
		}
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString("\n")
	for i, c := range m.choices {
		switch {
		case c.Disabled:
			b.WriteString("  " + disabledStyle.Render(c.display()))
		case i == m.cursor:
			b.WriteString(selectedStyle.Render("❯ " + c.display()))
		default:
			b.WriteString("  " + c.display())
		}
		b.WriteString("\n")
	}
	return b.String()
}
