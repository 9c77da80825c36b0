package exec

import (
	"bytes"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

const maxTailLines = 20

// PrefixWriter adds a styled prefix to each line of output
type PrefixWriter struct {
	mu     sync.Mutex
	prefix string
	style  lipgloss.Style
	writer io.Writer
	// Buffer for incomplete lines
	buffer []byte
}

// NewPrefixWriter creates a writer that prefixes each line, rendering the
// whole line in the given colour.
func NewPrefixWriter(writer io.Writer, prefix string, color lipgloss.Color) *PrefixWriter {
	return &PrefixWriter{
		prefix: prefix,
		style:  lipgloss.NewStyle().Foreground(color),
		writer: writer,
	}
}

// Write formats and writes output line by line
func (p *PrefixWriter) Write(data []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.buffer = append(p.buffer, data...)

	for {
		i := bytes.IndexByte(p.buffer, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimRight(string(p.buffer[:i]), "\r")
		p.buffer = p.buffer[i+1:]
		if _, err := io.WriteString(p.writer, p.style.Render(p.prefix+line)+"\n"); err != nil {
			return 0, err
		}
	}

	return len(data), nil
}

// Flush writes any remaining buffered content
func (p *PrefixWriter) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.buffer) == 0 {
		return nil
	}
	_, err := io.WriteString(p.writer, p.style.Render(p.prefix+string(p.buffer))+"\n")
	p.buffer = p.buffer[:0]
	return err
}

// tailBuffer keeps the last n lines written to it
type tailBuffer struct {
	mu    sync.Mutex
	max   int
	lines []string
	part  []byte
}

func newTailBuffer(max int) *tailBuffer {
	return &tailBuffer{max: max}
}

func (t *tailBuffer) Write(data []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.part = append(t.part, data...)
	for {
		i := bytes.IndexByte(t.part, '\n')
		if i < 0 {
			break
		}
		t.push(string(t.part[:i]))
		t.part = t.part[i+1:]
	}
	return len(data), nil
}

func (t *tailBuffer) push(line string) {
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" {
		return
	}
	t.lines = append(t.lines, line)
	if len(t.lines) > t.max {
		t.lines = t.lines[len(t.lines)-t.max:]
	}
}

// String returns the retained lines, including an unterminated final line.
func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	lines := t.lines
	if len(t.part) > 0 && strings.TrimSpace(string(t.part)) != "" {
		lines = append(append([]string{}, lines...), string(t.part))
		if len(lines) > t.max {
			lines = lines[len(lines)-t.max:]
		}
	}
	return strings.Join(lines, "\n")
}
