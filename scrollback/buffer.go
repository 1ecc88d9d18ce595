// Package scrollback holds the append-only line history shown in each pane.
package scrollback

import "github.com/lixenwraith/micromon/terminal/tui"

// Buffer is an unbounded, append-only log of lines.
// Entries are never edited or dropped; only the window shown is bounded.
type Buffer struct {
	lines []string
}

// New creates an empty buffer
func New() *Buffer {
	return &Buffer{}
}

// Append adds a line at the end of the history
func (b *Buffer) Append(line string) {
	b.lines = append(b.lines, line)
}

// Len returns the number of lines stored
func (b *Buffer) Len() int {
	return len(b.lines)
}

// Line returns the line at index, 0 being the oldest. Out of range returns ""
func (b *Buffer) Line(index int) string {
	if index < 0 || index >= len(b.lines) {
		return ""
	}
	return b.lines[index]
}

// Window returns the last maxLines entries oldest first, tabs expanded, each cut to maxWidth
// display cells. The result is a fresh slice; the buffer is not modified.
func (b *Buffer) Window(maxLines, maxWidth int) []string {
	if maxLines <= 0 || len(b.lines) == 0 {
		return nil
	}
	start := len(b.lines) - maxLines
	if start < 0 {
		start = 0
	}
	out := make([]string, 0, len(b.lines)-start)
	for _, line := range b.lines[start:] {
		out = append(out, tui.Clip(tui.ExpandTabs(line), maxWidth))
	}
	return out
}
