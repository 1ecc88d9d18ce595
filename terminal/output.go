// @lixen: #focus{sys[term,io,output]}
// @lixen: #interact{trigger[output,ansi]}
package terminal

import (
	"bufio"
	"io"

	"github.com/mattn/go-runewidth"
)

// outputBuffer manages double-buffered terminal output with diffing
type outputBuffer struct {
	front     []Cell
	width     int
	height    int
	colorMode ColorMode
	writer    *bufio.Writer

	cursorX     int
	cursorY     int
	cursorValid bool

	// Style state for coalescing
	lastFg    RGB
	lastBg    RGB
	lastAttr  Attr
	lastValid bool
}

// blankCell is a space in the terminal's own colors
var blankCell = Cell{Rune: ' ', Attrs: AttrDefault}

// newOutputBuffer creates a new output buffer
func newOutputBuffer(w io.Writer, colorMode ColorMode) *outputBuffer {
	return &outputBuffer{
		writer:    bufio.NewWriterSize(w, 32768),
		colorMode: colorMode,
	}
}

// resize updates buffer dimensions
func (o *outputBuffer) resize(width, height int) {
	size := width * height
	if cap(o.front) < size {
		o.front = make([]Cell, size)
	} else {
		o.front = o.front[:size]
	}
	o.width = width
	o.height = height

	for i := range o.front {
		o.front[i] = Cell{Rune: 0}
	}
	o.lastValid = false
	o.cursorValid = false
}

// cellEqual compares two cells for equality (standalone for inlining)
func cellEqual(a, b Cell) bool {
	return a.Rune == b.Rune && a.Attrs == b.Attrs && a.Fg == b.Fg && a.Bg == b.Bg
}

// flush writes the back buffer to terminal, diffing against front buffer
func (o *outputBuffer) flush(cells []Cell, width, height int) {
	if width != o.width || height != o.height {
		o.resize(width, height)
	}

	expectedSize := width * height
	if len(cells) < expectedSize {
		return
	}

	w := o.writer

	for y := 0; y < height; y++ {
		rowStart := y * width
		x := 0

		for x < width {
			idx := rowStart + x
			newCell := cells[idx]

			if cellEqual(newCell, o.front[idx]) {
				x++
				continue
			}

			// Position cursor once for this dirty region
			if !o.cursorValid || x != o.cursorX || y != o.cursorY {
				if o.cursorValid && y == o.cursorY && x > o.cursorX {
					writeCursorForward(w, x-o.cursorX)
				} else {
					writeCursorPos(w, x, y)
				}
				o.cursorX = x
				o.cursorY = y
				o.cursorValid = true
			}

			// Write all contiguous dirty cells, emitting style only when changed
			for x < width {
				cidx := rowStart + x
				c := cells[cidx]

				if cellEqual(c, o.front[cidx]) {
					break
				}

				// Already painted by the wide rune to its left
				if c.Rune == RuneContinuation {
					o.front[cidx] = c
					x++
					continue
				}

				o.writeStyleCoalesced(w, c.Fg, c.Bg, c.Attrs)

				r := c.Rune
				if r == 0 {
					r = ' '
				}
				if r < 0x80 {
					w.WriteByte(byte(r))
					o.cursorX++
				} else {
					w.WriteRune(r)
					o.cursorX += runewidth.RuneWidth(r)
				}

				o.front[cidx] = c
				x++
			}
		}
	}

	w.Write(csiSGR0)
	o.lastValid = false

	w.Flush()
}

// writeStyleCoalesced emits a single combined SGR sequence when style changes
func (o *outputBuffer) writeStyleCoalesced(w *bufio.Writer, fg, bg RGB, attr Attr) {
	fgMode := attr & (AttrFg256 | AttrFgDefault)
	bgMode := attr & (AttrBg256 | AttrBgDefault)
	fgChanged := !o.lastValid || fg != o.lastFg || fgMode != o.lastAttr&(AttrFg256|AttrFgDefault)
	bgChanged := !o.lastValid || bg != o.lastBg || bgMode != o.lastAttr&(AttrBg256|AttrBgDefault)
	styleAttr := attr & AttrStyle
	attrChanged := !o.lastValid || styleAttr != o.lastAttr&AttrStyle

	if !fgChanged && !bgChanged && !attrChanged {
		return
	}

	// If attributes changed, must reset first
	if attrChanged {
		w.Write(csi)
		w.WriteByte('0')

		for _, sgr := range styleSGR {
			if styleAttr&sgr.attr != 0 {
				w.WriteByte(';')
				w.WriteByte(sgr.code)
			}
		}

		o.writeFgInline(w, fg, attr)
		o.writeBgInline(w, bg, attr)

		w.WriteByte('m')
	} else {
		// Only colors changed, emit minimal sequence
		if fgChanged {
			o.writeFgFull(w, fg, attr)
		}
		if bgChanged {
			o.writeBgFull(w, bg, attr)
		}
	}

	o.lastFg = fg
	o.lastBg = bg
	o.lastAttr = attr
	o.lastValid = true
}

// styleSGR pairs style bits with their SGR parameter
var styleSGR = []struct {
	attr Attr
	code byte
}{
	{AttrBold, '1'},
	{AttrDim, '2'},
	{AttrItalic, '3'},
	{AttrUnderline, '4'},
	{AttrBlink, '5'},
	{AttrReverse, '7'},
}

// writeFgInline writes fg color parameters (no CSI prefix, no 'm' suffix)
func (o *outputBuffer) writeFgInline(w *bufio.Writer, fg RGB, attr Attr) {
	w.WriteByte(';')
	switch {
	case attr&AttrFgDefault != 0:
		w.WriteString("39")
	case attr&AttrFg256 != 0:
		w.WriteString("38;5;")
		writeInt(w, int(fg.R))
	case o.colorMode == ColorModeTrueColor:
		w.WriteString("38;2;")
		writeInt(w, int(fg.R))
		w.WriteByte(';')
		writeInt(w, int(fg.G))
		w.WriteByte(';')
		writeInt(w, int(fg.B))
	default:
		w.WriteString("38;5;")
		writeInt(w, int(RGBTo256(fg)))
	}
}

// writeBgInline writes bg color parameters (no CSI prefix, no 'm' suffix)
func (o *outputBuffer) writeBgInline(w *bufio.Writer, bg RGB, attr Attr) {
	w.WriteByte(';')
	switch {
	case attr&AttrBgDefault != 0:
		w.WriteString("49")
	case attr&AttrBg256 != 0:
		w.WriteString("48;5;")
		writeInt(w, int(bg.R))
	case o.colorMode == ColorModeTrueColor:
		w.WriteString("48;2;")
		writeInt(w, int(bg.R))
		w.WriteByte(';')
		writeInt(w, int(bg.G))
		w.WriteByte(';')
		writeInt(w, int(bg.B))
	default:
		w.WriteString("48;5;")
		writeInt(w, int(RGBTo256(bg)))
	}
}

// writeFgFull writes complete fg color sequence
func (o *outputBuffer) writeFgFull(w *bufio.Writer, fg RGB, attr Attr) {
	switch {
	case attr&AttrFgDefault != 0:
		w.Write(csiFgDefault)
	case attr&AttrFg256 != 0:
		w.Write(csiFg256)
		writeInt(w, int(fg.R))
		w.WriteByte('m')
	case o.colorMode == ColorModeTrueColor:
		w.Write(csiFgRGB)
		writeInt(w, int(fg.R))
		w.WriteByte(';')
		writeInt(w, int(fg.G))
		w.WriteByte(';')
		writeInt(w, int(fg.B))
		w.WriteByte('m')
	default:
		w.Write(csiFg256)
		writeInt(w, int(RGBTo256(fg)))
		w.WriteByte('m')
	}
}

// writeBgFull writes complete bg color sequence
func (o *outputBuffer) writeBgFull(w *bufio.Writer, bg RGB, attr Attr) {
	switch {
	case attr&AttrBgDefault != 0:
		w.Write(csiBgDefault)
	case attr&AttrBg256 != 0:
		w.Write(csiBg256)
		writeInt(w, int(bg.R))
		w.WriteByte('m')
	case o.colorMode == ColorModeTrueColor:
		w.Write(csiBgRGB)
		writeInt(w, int(bg.R))
		w.WriteByte(';')
		writeInt(w, int(bg.G))
		w.WriteByte(';')
		writeInt(w, int(bg.B))
		w.WriteByte('m')
	default:
		w.Write(csiBg256)
		writeInt(w, int(RGBTo256(bg)))
		w.WriteByte('m')
	}
}

// forceFullRedraw clears front buffer to force complete redraw
func (o *outputBuffer) forceFullRedraw() {
	for i := range o.front {
		o.front[i] = Cell{Rune: 0}
	}
	o.lastValid = false
	o.cursorValid = false
}

// clear erases the screen in the terminal's default colors
func (o *outputBuffer) clear() {
	w := o.writer
	w.Write(csiSGR0)
	w.Write(csiClear)

	o.lastValid = false
	o.cursorValid = false
	w.Flush()

	for i := range o.front {
		o.front[i] = blankCell
	}
}

// invalidateCursor marks cursor position as unknown
func (o *outputBuffer) invalidateCursor() {
	o.cursorValid = false
}
