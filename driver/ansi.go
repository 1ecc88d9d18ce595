package driver

import (
	"sync"
	"time"

	"github.com/lixenwraith/micromon/terminal"
	"github.com/lixenwraith/micromon/terminal/tui"
)

// ANSI drives the terminal directly through raw mode and ANSI sequences
type ANSI struct {
	term terminal.Terminal

	cells  []terminal.Cell
	width  int
	height int

	cursorRow int
	cursorCol int

	restoreOnce sync.Once
}

// NewANSI enters raw mode on stdin/stdout and switches to the alternate screen
func NewANSI(mode ...terminal.ColorMode) (*ANSI, error) {
	t := terminal.New(mode...)
	if err := t.Init(); err != nil {
		return nil, err
	}
	return newANSI(t), nil
}

func newANSI(t terminal.Terminal) *ANSI {
	a := &ANSI{term: t}
	a.Clear()
	return a
}

func (a *ANSI) Size() (int, int) {
	return a.term.Size()
}

// Clear resizes the back buffer to the current terminal size and blanks it
func (a *ANSI) Clear() {
	w, h := a.term.Size()
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	size := w * h
	if cap(a.cells) < size {
		a.cells = make([]terminal.Cell, size)
	} else {
		a.cells = a.cells[:size]
	}
	a.width, a.height = w, h
	a.root().Clear()
}

func (a *ANSI) root() tui.Region {
	return tui.NewRegion(a.cells, a.width, 0, 0, a.width, a.height)
}

func (a *ANSI) WriteAt(row, col int, text string, style tui.Style) {
	a.root().Text(col, row, text, style)
}

func (a *ANSI) MoveCursor(row, col int) {
	a.cursorRow, a.cursorCol = row, col
}

// Show flushes the diff against the previous frame and parks the cursor
func (a *ANSI) Show() error {
	a.term.Flush(a.cells, a.width, a.height)
	a.term.MoveCursor(a.cursorCol, a.cursorRow)
	a.term.SetCursorVisible(true)
	return nil
}

func (a *ANSI) PollKey(timeout time.Duration) (int, bool, error) {
	return a.term.ReadKey(timeout)
}

func (a *ANSI) Sync() {
	a.term.Sync()
}

func (a *ANSI) Restore() {
	a.restoreOnce.Do(a.term.Fini)
}
