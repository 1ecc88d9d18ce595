package terminal

import (
	"bufio"
	"strconv"
)

// Control sequences written by the terminal and the output buffer
var (
	csi      = []byte("\x1b[")
	csiRIS   = []byte("\x1bc")
	csiSGR0  = []byte("\x1b[0m")
	csiClear = []byte("\x1b[2J\x1b[H")

	csiCursorHide = []byte("\x1b[?25l")
	csiCursorShow = []byte("\x1b[?25h")

	csiAltScreenEnter = []byte("\x1b[?1049h")
	csiAltScreenExit  = []byte("\x1b[?1049l")

	// With wrapping off a write to the last cell does not scroll the screen
	csiAutoWrapOn  = []byte("\x1b[?7h")
	csiAutoWrapOff = []byte("\x1b[?7l")

	// SGR color prefixes, the caller appends the parameters and 'm'
	csiFg256 = []byte("\x1b[38;5;")
	csiBg256 = []byte("\x1b[48;5;")
	csiFgRGB = []byte("\x1b[38;2;")
	csiBgRGB = []byte("\x1b[48;2;")

	csiFgDefault = []byte("\x1b[39m")
	csiBgDefault = []byte("\x1b[49m")
)

// writeInt writes a non-negative decimal parameter
func writeInt(w *bufio.Writer, n int) {
	if n < 0 {
		n = 0
	}
	var scratch [20]byte
	w.Write(strconv.AppendInt(scratch[:0], int64(n), 10))
}

// writeCSI writes ESC [ p1;p2;... final
func writeCSI(w *bufio.Writer, final byte, params ...int) {
	w.Write(csi)
	for i, p := range params {
		if i > 0 {
			w.WriteByte(';')
		}
		writeInt(w, p)
	}
	w.WriteByte(final)
}

// writeCursorPos moves the cursor to the 0-based column x and row y
func writeCursorPos(w *bufio.Writer, x, y int) {
	writeCSI(w, 'H', y+1, x+1)
}

// writeCursorForward moves the cursor n columns right
func writeCursorForward(w *bufio.Writer, n int) {
	switch {
	case n <= 0:
	case n == 1:
		writeCSI(w, 'C')
	default:
		writeCSI(w, 'C', n)
	}
}
