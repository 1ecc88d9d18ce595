// Package drivertest provides an in-memory driver.Driver for tests.
package drivertest

import (
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/micromon/terminal"
	"github.com/lixenwraith/micromon/terminal/tui"
)

// Cell is one recorded grid cell
type Cell struct {
	Rune  rune
	Style tui.Style
}

// Screen records frames and replays scripted key codes.
// It is safe for use from the goroutine running the session and the test.
type Screen struct {
	mu sync.Mutex

	width, height int
	grid          [][]Cell
	shown         [][]Cell

	cursorRow, cursorCol int
	shownRow, shownCol   int

	keys   []int
	keyErr error

	// OnPoll runs at the start of every PollKey, outside the lock
	OnPoll func(n int)
	// ShowErr is returned by Show when set
	ShowErr error

	Clears   int
	Shows    int
	Syncs    int
	Polls    int
	Restores int
}

// New creates a blank width x height screen
func New(width, height int) *Screen {
	s := &Screen{}
	s.Resize(width, height)
	return s
}

// Resize changes the reported size. The composed grid is reallocated on the next Clear
func (s *Screen) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
	s.grid = blankGrid(width, height)
}

func blankGrid(w, h int) [][]Cell {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	g := make([][]Cell, h)
	for y := range g {
		g[y] = make([]Cell, w)
		for x := range g[y] {
			g[y][x] = Cell{Rune: ' ', Style: tui.Plain}
		}
	}
	return g
}

// Script queues raw codes returned by subsequent PollKey calls
func (s *Screen) Script(codes ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, codes...)
}

// FailPoll makes PollKey return err once the scripted keys are consumed
func (s *Screen) FailPoll(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keyErr = err
}

func (s *Screen) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

func (s *Screen) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Clears++
	s.grid = blankGrid(s.width, s.height)
}

func (s *Screen) WriteAt(row, col int, text string, style tui.Style) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row < 0 || row >= len(s.grid) {
		return
	}
	line := s.grid[row]
	for _, ch := range text {
		cw := runewidth.RuneWidth(ch)
		if cw == 0 {
			continue
		}
		if col+cw > len(line) {
			break
		}
		if col >= 0 {
			line[col] = Cell{Rune: ch, Style: style}
			if cw == 2 {
				line[col+1] = Cell{Rune: terminal.RuneContinuation, Style: style}
			}
		}
		col += cw
	}
}

func (s *Screen) MoveCursor(row, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursorRow, s.cursorCol = row, col
}

// Show snapshots the composed grid as the visible frame
func (s *Screen) Show() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ShowErr != nil {
		return s.ShowErr
	}
	s.Shows++
	s.shown = make([][]Cell, len(s.grid))
	for y := range s.grid {
		s.shown[y] = append([]Cell(nil), s.grid[y]...)
	}
	s.shownRow, s.shownCol = s.cursorRow, s.cursorCol
	return nil
}

// PollKey pops the next scripted code; with none left it reports a timeout without sleeping
func (s *Screen) PollKey(time.Duration) (int, bool, error) {
	s.mu.Lock()
	s.Polls++
	n := s.Polls
	hook := s.OnPoll
	s.mu.Unlock()

	if hook != nil {
		hook(n)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.keys) > 0 {
		code := s.keys[0]
		s.keys = s.keys[1:]
		return code, true, nil
	}
	if s.keyErr != nil {
		return 0, false, s.keyErr
	}
	return 0, false, nil
}

func (s *Screen) Sync() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Syncs++
}

func (s *Screen) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Restores++
}

// Row returns the text of a shown row with trailing blanks removed
func (s *Screen) Row(row int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row < 0 || row >= len(s.shown) {
		return ""
	}
	var b strings.Builder
	for _, c := range s.shown[row] {
		if c.Rune == terminal.RuneContinuation {
			continue
		}
		b.WriteRune(c.Rune)
	}
	return strings.TrimRight(b.String(), " ")
}

// Rows returns every shown row, see Row
func (s *Screen) Rows() []string {
	s.mu.Lock()
	n := len(s.shown)
	s.mu.Unlock()
	rows := make([]string, n)
	for i := range rows {
		rows[i] = s.Row(i)
	}
	return rows
}

// StyleAt returns the style of a shown cell
func (s *Screen) StyleAt(row, col int) tui.Style {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row < 0 || row >= len(s.shown) || col < 0 || col >= len(s.shown[row]) {
		return tui.Style{}
	}
	return s.shown[row][col].Style
}

// Cursor returns the cursor position of the shown frame
func (s *Screen) Cursor() (row, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shownRow, s.shownCol
}

// RestoreCount returns how many times Restore was called
func (s *Screen) RestoreCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Restores
}
