package tui

import (
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/micromon/terminal"
)

// Region represents a rectangular area within a cell buffer
// All coordinates are relative to the region's origin
type Region struct {
	Cells  []terminal.Cell
	TotalW int // Total width of the underlying cell buffer
	X, Y   int // Absolute position in cell buffer
	W, H   int // Region dimensions
}

// NewRegion creates a region referencing a cell slice with bounds
func NewRegion(cells []terminal.Cell, totalW, x, y, w, h int) Region {
	return Region{
		Cells:  cells,
		TotalW: totalW,
		X:      x,
		Y:      y,
		W:      w,
		H:      h,
	}
}

// Sub returns a nested region with coordinates relative to parent, result is clipped to parent bounds
func (r Region) Sub(x, y, w, h int) Region {
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	if x+w > r.W {
		w = r.W - x
	}
	if y+h > r.H {
		h = r.H - y
	}
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}

	return Region{
		Cells:  r.Cells,
		TotalW: r.TotalW,
		X:      r.X + x,
		Y:      r.Y + y,
		W:      w,
		H:      h,
	}
}

// Cell sets a single cell with bounds checking
func (r Region) Cell(x, y int, ch rune, st Style) {
	if x < 0 || x >= r.W || y < 0 || y >= r.H {
		return
	}
	absX := r.X + x
	absY := r.Y + y

	// Bounds check against the physical buffer dimensions
	if uint(absX) >= uint(r.TotalW) {
		return
	}

	idx := absY*r.TotalW + absX
	if uint(idx) < uint(len(r.Cells)) {
		r.Cells[idx] = terminal.Cell{Rune: ch, Fg: st.Fg, Bg: st.Bg, Attrs: st.Attr}
	}
}

// Text renders text at position by display width, truncates at region edge.
// Zero-width runes are dropped; a wide rune that would straddle the edge is not drawn.
// Returns the column after the last drawn cell.
func (r Region) Text(x, y int, s string, st Style) int {
	if y < 0 || y >= r.H {
		return x
	}
	col := x
	for _, ch := range s {
		cw := runewidth.RuneWidth(ch)
		if cw == 0 {
			continue
		}
		if col+cw > r.W {
			break
		}
		if col >= 0 {
			r.Cell(col, y, ch, st)
			if cw == 2 {
				r.Cell(col+1, y, terminal.RuneContinuation, st)
			}
		}
		col += cw
	}
	return col
}

// HLine draws a horizontal rule of ch from column x to the region edge
func (r Region) HLine(x, y int, ch rune, st Style) {
	if y < 0 || y >= r.H {
		return
	}
	for ; x < r.W; x++ {
		r.Cell(x, y, ch, st)
	}
}

// Clear fills region with blank cells in the terminal's default colors
func (r Region) Clear() {
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			r.Cell(x, y, ' ', Plain)
		}
	}
}

// Width returns region width
func (r Region) Width() int {
	return r.W
}

// Height returns region height
func (r Region) Height() int {
	return r.H
}
