package display

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Terminal palette. Muted hues chosen to stay readable on dark and
// light backgrounds.
var (
	termGreen  = lipgloss.Color("#5FD787")
	termYellow = lipgloss.Color("#FFD787")
	termRed    = lipgloss.Color("#FF8787")
	termCyan   = lipgloss.Color("#5FAFFF")
)

var termStyles = map[Color]lipgloss.Style{
	ColorDefault: lipgloss.NewStyle(),
	ColorGreen:   lipgloss.NewStyle().Foreground(termGreen),
	ColorYellow:  lipgloss.NewStyle().Foreground(termYellow),
	ColorRed:     lipgloss.NewStyle().Foreground(termRed).Bold(true),
	ColorCyan:    lipgloss.NewStyle().Foreground(termCyan),
}

// Terminal renders status blocks as styled text lines on a writer.
//
// Each block is written as one contiguous group of lines followed by
// a blank separator line. Nothing is screen-positioned; the output is
// suitable for a console, a serial line, or a log pipe.
type Terminal struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTerminal creates a terminal renderer writing to w.
// A nil writer defaults to stdout.
func NewTerminal(w io.Writer) *Terminal {
	if w == nil {
		w = os.Stdout
	}
	return &Terminal{w: w}
}

// Render writes the block to the terminal. Write errors are ignored;
// a broken console must not disturb collection.
func (t *Terminal) Render(lines []Line) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, line := range lines {
		style, ok := termStyles[line.Color]
		if !ok {
			style = termStyles[ColorDefault]
		}
		fmt.Fprintln(t.w, style.Render(line.Text))
	}
	fmt.Fprintln(t.w)
}
