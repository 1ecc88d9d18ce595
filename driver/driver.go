// Package driver defines the terminal capabilities the dashboard needs and
// implements them over the raw ANSI terminal and over tcell.
package driver

import (
	"fmt"
	"strings"
	"time"

	"github.com/lixenwraith/micromon/terminal"
	"github.com/lixenwraith/micromon/terminal/tui"
)

// Driver paints a frame and delivers raw key codes.
// Paint calls are buffered until Show. Rows and columns are 0-indexed.
type Driver interface {
	// Size returns the current terminal width and height in cells
	Size() (width, height int)

	// Clear blanks the frame being composed
	Clear()

	// WriteAt places text at row, col; text past the right edge is cut
	WriteAt(row, col int, text string, style tui.Style)

	// MoveCursor sets where the cursor is left after Show
	MoveCursor(row, col int)

	// Show presents the composed frame
	Show() error

	// PollKey waits up to timeout for a raw code. ok is false on timeout.
	// Resizes are reported as terminal.CodeResize.
	PollKey(timeout time.Duration) (code int, ok bool, err error)

	// Sync forces the next Show to repaint every cell
	Sync()

	// Restore returns the terminal to normal mode. Safe to call more than once
	Restore()
}

// Kind names a driver implementation
type Kind string

const (
	KindANSI  Kind = "ansi"
	KindTcell Kind = "tcell"
)

// Kinds lists the selectable drivers
var Kinds = []Kind{KindANSI, KindTcell}

// ParseKind accepts a driver name, case insensitive
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown driver %q: want ansi or tcell", s)
}

// Open takes over the terminal with the chosen driver. The color mode only
// applies to the ANSI driver; tcell reads terminfo
func Open(kind Kind, mode ...terminal.ColorMode) (Driver, error) {
	switch kind {
	case KindANSI, "":
		return NewANSI(mode...)
	case KindTcell:
		return NewTcell()
	}
	return nil, fmt.Errorf("unknown driver %q", kind)
}
