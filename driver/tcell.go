package driver

import (
	"sync"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/micromon/terminal"
	"github.com/lixenwraith/micromon/terminal/tui"
)

// Tcell drives the terminal through a tcell screen
type Tcell struct {
	screen tcell.Screen
	codes  chan int
	errs   chan error
	done   chan struct{}

	restoreOnce sync.Once
}

// NewTcell initializes a tcell screen on the controlling terminal
func NewTcell() (*Tcell, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return newTcell(screen)
}

func newTcell(screen tcell.Screen) (*Tcell, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}
	// Use default terminal colors instead of forcing a background
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tcell.ColorReset))
	screen.Clear()

	t := &Tcell{
		screen: screen,
		codes:  make(chan int, 256),
		errs:   make(chan error, 1),
		done:   make(chan struct{}),
	}
	go t.pump()
	return t, nil
}

// pump converts tcell events to raw codes until the screen is finalized
func (t *Tcell) pump() {
	defer close(t.done)
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		var code int
		switch ev := ev.(type) {
		case *tcell.EventResize:
			code = terminal.CodeResize
		case *tcell.EventKey:
			c, ok := tcellCode(ev)
			if !ok {
				continue
			}
			code = c
		case *tcell.EventError:
			select {
			case t.errs <- ev:
			default:
			}
			continue
		default:
			continue
		}
		select {
		case t.codes <- code:
		default:
		}
	}
}

// tcellNamed maps tcell special keys onto the raw code sentinels
var tcellNamed = map[tcell.Key]int{
	tcell.KeyUp:      terminal.CodeUp,
	tcell.KeyDown:    terminal.CodeDown,
	tcell.KeyLeft:    terminal.CodeLeft,
	tcell.KeyRight:   terminal.CodeRight,
	tcell.KeyHome:    terminal.CodeHome,
	tcell.KeyEnd:     terminal.CodeEnd,
	tcell.KeyPgUp:    terminal.CodePageUp,
	tcell.KeyPgDn:    terminal.CodePageDown,
	tcell.KeyInsert:  terminal.CodeInsert,
	tcell.KeyDelete:  terminal.CodeDelete,
	tcell.KeyBacktab: terminal.CodeBacktab,
	tcell.KeyF1:      terminal.CodeF1,
	tcell.KeyF2:      terminal.CodeF2,
	tcell.KeyF3:      terminal.CodeF3,
	tcell.KeyF4:      terminal.CodeF4,
	tcell.KeyF5:      terminal.CodeF5,
	tcell.KeyF6:      terminal.CodeF6,
	tcell.KeyF7:      terminal.CodeF7,
	tcell.KeyF8:      terminal.CodeF8,
	tcell.KeyF9:      terminal.CodeF9,
	tcell.KeyF10:     terminal.CodeF10,
	tcell.KeyF11:     terminal.CodeF11,
	tcell.KeyF12:     terminal.CodeF12,
}

// tcellCode converts a key event to a raw code.
// tcell control keys carry their ASCII value, so they pass through unchanged.
func tcellCode(ev *tcell.EventKey) (int, bool) {
	key := ev.Key()
	if key == tcell.KeyRune {
		r := ev.Rune()
		// Some terminals report control combinations as a modified letter
		if ev.Modifiers()&tcell.ModCtrl != 0 {
			if u := unicode.ToUpper(r); u >= 'A' && u <= 'Z' {
				return int(u - '@'), true
			}
		}
		return int(r), true
	}
	if key >= 0 && key < 256 {
		return int(key), true
	}
	code, ok := tcellNamed[key]
	return code, ok
}

// tcellStyle converts a cell style, honoring the default color attributes
func tcellStyle(st tui.Style) tcell.Style {
	s := tcell.StyleDefault
	if st.Attr&terminal.AttrFgDefault != 0 {
		s = s.Foreground(tcell.ColorReset)
	} else {
		s = s.Foreground(tcell.NewRGBColor(int32(st.Fg.R), int32(st.Fg.G), int32(st.Fg.B)))
	}
	if st.Attr&terminal.AttrBgDefault != 0 {
		s = s.Background(tcell.ColorReset)
	} else {
		s = s.Background(tcell.NewRGBColor(int32(st.Bg.R), int32(st.Bg.G), int32(st.Bg.B)))
	}
	if st.Attr&terminal.AttrBold != 0 {
		s = s.Bold(true)
	}
	if st.Attr&terminal.AttrUnderline != 0 {
		s = s.Underline(true)
	}
	if st.Attr&terminal.AttrReverse != 0 {
		s = s.Reverse(true)
	}
	return s
}

func (t *Tcell) Size() (int, int) {
	return t.screen.Size()
}

func (t *Tcell) Clear() {
	t.screen.Clear()
}

func (t *Tcell) WriteAt(row, col int, text string, style tui.Style) {
	w, h := t.screen.Size()
	if row < 0 || row >= h {
		return
	}
	st := tcellStyle(style)
	for _, ch := range text {
		cw := runewidth.RuneWidth(ch)
		if cw == 0 {
			continue
		}
		if col+cw > w {
			break
		}
		if col >= 0 {
			t.screen.SetContent(col, row, ch, nil, st)
		}
		col += cw
	}
}

func (t *Tcell) MoveCursor(row, col int) {
	t.screen.ShowCursor(col, row)
}

func (t *Tcell) Show() error {
	t.screen.Show()
	return nil
}

func (t *Tcell) PollKey(timeout time.Duration) (int, bool, error) {
	select {
	case <-t.done:
		return 0, false, terminal.ErrNotInitialized
	default:
	}

	select {
	case code := <-t.codes:
		return code, true, nil
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case code := <-t.codes:
		return code, true, nil
	case err := <-t.errs:
		return 0, false, err
	case <-t.done:
		return 0, false, terminal.ErrNotInitialized
	case <-timer.C:
		return 0, false, nil
	}
}

func (t *Tcell) Sync() {
	t.screen.Sync()
}

// Restore finalizes the screen, which also ends the event pump
func (t *Tcell) Restore() {
	t.restoreOnce.Do(func() {
		t.screen.Fini()
		select {
		case <-t.done:
		case <-time.After(200 * time.Millisecond):
		}
	})
}
