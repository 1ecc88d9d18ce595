// Package layout splits the terminal into the send and receive panes.
package layout

import (
	"fmt"

	"github.com/lixenwraith/micromon/terminal/tui"
)

// MinHeight is the smallest height with two dividers, a prompt and one row per pane
const MinHeight = 8

// Divider labels and the rule that pads them to full width
const (
	SendLabel    = "◦ send:      "
	ReceiveLabel = "◦ receive:   "
	RuleChar     = '─'
	PromptGlyph  = ">_ "
)

// Geometry is the screen split for one tick
type Geometry struct {
	Width            int
	Height           int
	DividerRow       int // receive divider
	SendAreaLines    int // rows 1..DividerRow-2
	ReceiveAreaLines int // rows DividerRow+1..Height-1
	PromptRow        int
	PromptColumn     int // first column after the prompt glyph
}

// TooSmallError reports a terminal below the minimum usable size
type TooSmallError struct {
	Width  int
	Height int
}

func (e *TooSmallError) Error() string {
	return fmt.Sprintf("terminal too small: %dx%d, need at least %d rows", e.Width, e.Height, MinHeight)
}

// Compute derives the geometry from the terminal size. It has no hidden state
func Compute(width, height int) (Geometry, error) {
	if height < MinHeight || width < 1 {
		return Geometry{}, &TooSmallError{Width: width, Height: height}
	}
	divider := height / 2
	return Geometry{
		Width:            width,
		Height:           height,
		DividerRow:       divider,
		SendAreaLines:    divider - 2,
		ReceiveAreaLines: height - divider - 1,
		PromptRow:        divider - 1,
		PromptColumn:     tui.Width(PromptGlyph),
	}, nil
}

// ReceiveFirstRow is the first receive history row
func (g Geometry) ReceiveFirstRow() int {
	return g.DividerRow + 1
}

// PromptWidth is the number of cells available for the edit line
func (g Geometry) PromptWidth() int {
	w := g.Width - g.PromptColumn
	if w < 0 {
		return 0
	}
	return w
}

// Divider returns label followed by the rule character up to width cells.
// A label wider than width is cut, the padding never goes negative.
func Divider(label string, width int) string {
	if width <= 0 {
		return ""
	}
	lw := tui.Width(label)
	if lw >= width {
		return tui.Clip(label, width)
	}
	return label + tui.RepeatRune(RuleChar, width-lw)
}
