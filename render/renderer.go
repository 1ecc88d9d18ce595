// Package render paints the dashboard frame from session state.
package render

import (
	"github.com/lixenwraith/micromon/driver"
	"github.com/lixenwraith/micromon/layout"
	"github.com/lixenwraith/micromon/scrollback"
	"github.com/lixenwraith/micromon/terminal/tui"
)

// Frame is the state painted by one Render call. The renderer only reads it
type Frame struct {
	Geometry layout.Geometry
	Sent     *scrollback.Buffer
	Received *scrollback.Buffer
	Edit     string
}

// Renderer paints frames onto a driver
type Renderer struct {
	drv   driver.Driver
	theme tui.Theme
}

// New creates a renderer. A monochrome theme paints every accent in the plain style
func New(drv driver.Driver, theme tui.Theme) *Renderer {
	return &Renderer{drv: drv, theme: theme}
}

// Render clears the previous frame, paints the panes top to bottom, parks the cursor
// after the edit text and presents the result. Identical frames paint identically.
func (r *Renderer) Render(f Frame) error {
	g := f.Geometry

	r.drv.Clear()

	r.drv.WriteAt(0, 0, layout.Divider(layout.SendLabel, g.Width), r.theme.Accent)
	r.paintSent(f)
	cursorCol := r.paintPrompt(f)
	r.drv.WriteAt(g.DividerRow, 0, layout.Divider(layout.ReceiveLabel, g.Width), r.theme.Accent)
	r.paintReceived(f)

	r.drv.MoveCursor(g.PromptRow, cursorCol)
	return r.drv.Show()
}

// paintSent bottom-aligns the send history against the prompt row
func (r *Renderer) paintSent(f Frame) {
	g := f.Geometry
	if f.Sent == nil {
		return
	}
	lines := f.Sent.Window(g.SendAreaLines, g.Width)
	row := g.PromptRow - len(lines)
	for _, line := range lines {
		r.drv.WriteAt(row, 0, line, r.theme.Text)
		row++
	}
}

// paintReceived top-aligns the receive history under its divider
func (r *Renderer) paintReceived(f Frame) {
	g := f.Geometry
	if f.Received == nil {
		return
	}
	row := g.ReceiveFirstRow()
	for _, line := range f.Received.Window(g.ReceiveAreaLines, g.Width) {
		r.drv.WriteAt(row, 0, line, r.theme.Text)
		row++
	}
}

// paintPrompt draws the glyph and the edit line, returns the cursor column.
// An edit line too wide for the row shows its tail with one cell left for the cursor.
func (r *Renderer) paintPrompt(f Frame) int {
	g := f.Geometry
	r.drv.WriteAt(g.PromptRow, 0, layout.PromptGlyph, r.theme.Accent)

	visible := f.Edit
	if avail := g.PromptWidth(); tui.Width(visible) >= avail {
		visible = tui.Tail(visible, avail-1)
	}
	r.drv.WriteAt(g.PromptRow, g.PromptColumn, visible, r.theme.Text)

	// A pane narrower than the glyph still keeps the cursor on screen
	col := g.PromptColumn + tui.Width(visible)
	if col > g.Width-1 {
		col = g.Width - 1
	}
	return col
}
