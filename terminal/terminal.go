package terminal

import (
	"errors"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Attr represents text attributes (bitmask)
type Attr uint16

const (
	AttrNone      Attr = 0
	AttrBold      Attr = 1 << 0
	AttrDim       Attr = 1 << 1
	AttrItalic    Attr = 1 << 2
	AttrUnderline Attr = 1 << 3
	AttrBlink     Attr = 1 << 4
	AttrReverse   Attr = 1 << 5
	AttrFg256     Attr = 1 << 6 // Fg.R is 256-color palette index
	AttrBg256     Attr = 1 << 7 // Bg.R is 256-color palette index
	AttrFgDefault Attr = 1 << 8 // Fg is ignored, terminal default foreground
	AttrBgDefault Attr = 1 << 9 // Bg is ignored, terminal default background
)

// AttrStyle masks only the style bits (excludes color mode flags)
const AttrStyle Attr = AttrBold | AttrDim | AttrItalic | AttrUnderline | AttrBlink | AttrReverse

// AttrDefault selects the terminal's default foreground and background
const AttrDefault Attr = AttrFgDefault | AttrBgDefault

// RuneContinuation marks the cell covered by the right half of a wide rune
const RuneContinuation rune = -1

// Cell represents a single terminal cell
type Cell struct {
	Rune  rune
	Fg    RGB
	Bg    RGB
	Attrs Attr
}

// ErrNotInitialized is returned by ReadKey before Init or after Fini
var ErrNotInitialized = errors.New("terminal not initialized")

// Terminal provides low-level terminal access
type Terminal interface {
	// Init enters raw mode, alternate screen buffer, hides cursor
	Init() error

	// Fini restores terminal state. Safe to call multiple times
	Fini()

	// Size returns current terminal dimensions
	Size() (width, height int)

	// ColorMode returns detected color capability
	ColorMode() ColorMode

	// Flush writes cell buffer to terminal
	// Cells are row-major: cells[y*width + x]
	Flush(cells []Cell, width, height int)

	// Clear erases the screen in default colors
	Clear()

	// SetCursorVisible shows/hides cursor
	SetCursorVisible(visible bool)

	// MoveCursor positions cursor (0-indexed)
	MoveCursor(x, y int)

	// Sync forces full redraw on the next Flush
	Sync()

	// ReadKey waits up to timeout for one raw key code.
	// ok is false when the timeout elapsed without input. A resize is reported as CodeResize.
	ReadKey(timeout time.Duration) (code int, ok bool, err error)
}

// termImpl implements Terminal using the Backend interface
type termImpl struct {
	backend Backend

	output   *outputBuffer
	input    *inputReader
	resizeCh chan struct{}

	cursorVisible atomic.Bool

	mu          sync.Mutex
	initialized bool
	finalized   bool
}

// New creates a new Terminal instance
func New(colorMode ...ColorMode) Terminal {
	var c ColorMode
	if len(colorMode) == 0 {
		c = DetectColorMode()
	} else {
		c = colorMode[0]
	}
	return newTerminal(newBackend(), c)
}

func newTerminal(b Backend, c ColorMode) *termImpl {
	return &termImpl{
		backend:  b,
		resizeCh: make(chan struct{}, 1),
		output:   newOutputBuffer(backendWriter{b}, c),
	}
}

// backendWriter adapts Backend.Write to io.Writer for the buffered output
type backendWriter struct {
	b Backend
}

func (w backendWriter) Write(p []byte) (int, error) {
	if err := w.b.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Init enters raw mode and sets up terminal
func (t *termImpl) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}

	// Initialize backend (raw mode)
	if err := t.backend.Init(); err != nil {
		return err
	}

	w, h := t.backend.Size()
	t.output.resize(w, h)

	t.input = newInputReader(t.backend)

	// Coalesce resizes: a pending notification already tells the reader to re-query the size
	t.backend.SetResizeHandler(func(int, int) {
		select {
		case t.resizeCh <- struct{}{}:
		default:
		}
	})

	// Enter alternate screen, hide cursor
	t.writeRaw(csiAltScreenEnter)
	t.writeRaw(csiCursorHide)

	// Prevents terminal scroll/wrap on bottom-right corner write
	t.writeRaw(csiAutoWrapOff)

	t.cursorVisible.Store(false)

	t.output.clear()

	t.input.start()

	t.initialized = true
	return nil
}

// Fini restores terminal state
func (t *termImpl) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	if t.input != nil {
		t.input.stop()
	}

	t.writeRaw(csiCursorShow)
	t.writeRaw(csiAltScreenExit)

	// Re-enable Auto-Wrap AFTER exiting alt screen to ensure the main buffer has wrap enabled
	t.writeRaw(csiAutoWrapOn)
	t.writeRaw(csiSGR0)

	t.backend.Fini()

	t.finalized = true
}

// Size returns current terminal dimensions
func (t *termImpl) Size() (int, int) {
	return t.backend.Size()
}

// ColorMode returns detected color capability
func (t *termImpl) ColorMode() ColorMode {
	return t.output.colorMode
}

// Flush writes cell buffer to terminal
// Holds lock for entire operation to prevent race with Clear/MoveCursor
func (t *termImpl) Flush(cells []Cell, width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	// Drop frames composed for a stale size, the next tick recomposes
	currW, currH := t.backend.Size()
	if currW != width || currH != height {
		return
	}

	t.output.flush(cells, width, height)
}

// Clear erases the screen
func (t *termImpl) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	t.output.clear()
}

// SetCursorVisible shows/hides cursor
func (t *termImpl) SetCursorVisible(visible bool) {
	if t.cursorVisible.Swap(visible) == visible {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	w := t.output.writer
	if visible {
		w.Write(csiCursorShow)
	} else {
		w.Write(csiCursorHide)
	}
	w.Flush()
}

// MoveCursor positions cursor (0-indexed)
func (t *termImpl) MoveCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	t.output.invalidateCursor()

	w, h := t.backend.Size()
	if x >= w {
		x = w - 1
	}
	if y >= h {
		y = h - 1
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	// Write through buffered writer to maintain stream order
	wBuf := t.output.writer
	writeCursorPos(wBuf, x, y)
	wBuf.Flush()
}

// Sync forces full redraw
func (t *termImpl) Sync() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	// Diff-based rendering assumes physical terminal matches front buffer state
	t.output.clear()
	t.output.forceFullRedraw()
}

// ReadKey waits for the next key code, resize or input error
func (t *termImpl) ReadKey(timeout time.Duration) (int, bool, error) {
	t.mu.Lock()
	in := t.input
	live := t.initialized && !t.finalized
	t.mu.Unlock()

	if !live || in == nil {
		return 0, false, ErrNotInitialized
	}

	// Pending input wins over a resize that raced it
	select {
	case code := <-in.codeCh:
		return code, true, nil
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case code := <-in.codeCh:
		return code, true, nil
	case <-t.resizeCh:
		return CodeResize, true, nil
	case err := <-in.errCh:
		return 0, false, err
	case <-timer.C:
		return 0, false, nil
	}
}

// writeRaw writes raw bytes to output
func (t *termImpl) writeRaw(data []byte) {
	t.backend.Write(data)
}

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if Fini() cannot be called normally
func EmergencyReset(w io.Writer) {
	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(csiSGR0)
	w.Write(csiAutoWrapOn)
	w.Write(csiRIS)

	// Flush if it's a file
	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	// This is best-effort; ignore errors in crash context
	resetTerminalMode()
}
