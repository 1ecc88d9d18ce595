package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/lixenwraith/micromon/driver/drivertest"
	"github.com/lixenwraith/micromon/layout"
	"github.com/lixenwraith/micromon/scrollback"
	"github.com/lixenwraith/micromon/terminal"
	"github.com/lixenwraith/micromon/terminal/tui"
)

func buffer(lines ...string) *scrollback.Buffer {
	b := scrollback.New()
	for _, l := range lines {
		b.Append(l)
	}
	return b
}

func mustGeometry(t *testing.T, w, h int) layout.Geometry {
	t.Helper()
	g, err := layout.Compute(w, h)
	if err != nil {
		t.Fatalf("Compute(%d, %d) failed: %v", w, h, err)
	}
	return g
}

func TestRenderFullFrame(t *testing.T) {
	scr := drivertest.New(20, 10)
	r := New(scr, tui.DefaultTheme)

	frame := Frame{
		Geometry: mustGeometry(t, 20, 10),
		Sent:     buffer("hello"),
		Received: buffer("world", "a line longer than twenty cells"),
		Edit:     "pi",
	}
	if err := r.Render(frame); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	expected := []string{
		"◦ send:      ───────",
		"",
		"",
		"hello",
		">_ pi",
		"◦ receive:   ───────",
		"world",
		"a line longer than t",
		"",
		"",
	}
	rows := scr.Rows()
	if len(rows) != len(expected) {
		t.Fatalf("Expected %d rows, got %d", len(expected), len(rows))
	}
	for i := range expected {
		if rows[i] != expected[i] {
			t.Errorf("Row %d: expected %q, got %q", i, expected[i], rows[i])
		}
	}

	row, col := scr.Cursor()
	if row != 4 || col != 5 {
		t.Errorf("Expected cursor at 4,5, got %d,%d", row, col)
	}
}

func TestRenderReceiveWindowShowsNewest(t *testing.T) {
	scr := drivertest.New(20, 6)
	r := New(scr, tui.DefaultTheme)

	g := layout.Geometry{Width: 20, Height: 6, DividerRow: 3, SendAreaLines: 1, ReceiveAreaLines: 2, PromptRow: 2, PromptColumn: 3}
	if err := r.Render(Frame{Geometry: g, Sent: buffer(), Received: buffer("a", "b", "c")}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if scr.Row(4) != "b" || scr.Row(5) != "c" {
		t.Errorf("Expected receive pane b, c, got %q, %q", scr.Row(4), scr.Row(5))
	}
	for i, row := range scr.Rows() {
		if row == "a" {
			t.Errorf("Row %d shows evicted line a", i)
		}
	}
}

func TestRenderStyles(t *testing.T) {
	scr := drivertest.New(20, 8)
	accent := tui.NewTheme(terminal.RGBBlue, false)

	New(scr, accent).Render(Frame{Geometry: mustGeometry(t, 20, 8), Sent: buffer("x"), Received: buffer("y"), Edit: "e"})

	if got := scr.StyleAt(0, 0); got != accent.Accent {
		t.Errorf("Expected accent on send divider, got %+v", got)
	}
	if got := scr.StyleAt(4, 19); got != accent.Accent {
		t.Errorf("Expected accent on receive divider rule, got %+v", got)
	}
	if got := scr.StyleAt(3, 0); got != accent.Accent {
		t.Errorf("Expected accent on prompt glyph, got %+v", got)
	}
	if got := scr.StyleAt(3, 3); got != tui.Plain {
		t.Errorf("Expected plain edit text, got %+v", got)
	}

	mono := drivertest.New(20, 8)
	New(mono, tui.NewTheme(terminal.RGBBlue, true)).Render(Frame{Geometry: mustGeometry(t, 20, 8), Sent: buffer(), Received: buffer()})
	for _, pos := range [][2]int{{0, 0}, {3, 0}, {4, 0}} {
		if got := mono.StyleAt(pos[0], pos[1]); got != tui.Plain {
			t.Errorf("Monochrome: expected plain style at %v, got %+v", pos, got)
		}
	}
}

func TestRenderClearsPreviousFrame(t *testing.T) {
	scr := drivertest.New(20, 8)
	r := New(scr, tui.DefaultTheme)
	g := mustGeometry(t, 20, 8)

	r.Render(Frame{Geometry: g, Sent: buffer(), Received: buffer(), Edit: "typing something"})
	r.Render(Frame{Geometry: g, Sent: buffer(), Received: buffer(), Edit: "ty"})

	if got := scr.Row(g.PromptRow); got != ">_ ty" {
		t.Errorf("Expected stale edit text cleared, got %q", got)
	}
	if scr.Clears < 2 {
		t.Errorf("Expected a clear per frame, got %d", scr.Clears)
	}
}

func TestRenderIdempotent(t *testing.T) {
	g := mustGeometry(t, 30, 12)
	frame := Frame{Geometry: g, Sent: buffer("1", "2"), Received: buffer("3"), Edit: "abc"}

	scr := drivertest.New(30, 12)
	r := New(scr, tui.DefaultTheme)
	r.Render(frame)
	first := strings.Join(scr.Rows(), "\n")
	r.Render(frame)
	second := strings.Join(scr.Rows(), "\n")

	if first != second {
		t.Errorf("Expected identical frames, got\n%s\n---\n%s", first, second)
	}
	if frame.Sent.Len() != 2 || frame.Received.Len() != 1 || frame.Edit != "abc" {
		t.Error("Expected render to leave state untouched")
	}
}

func TestRenderLongEditShowsTail(t *testing.T) {
	scr := drivertest.New(10, 8)
	r := New(scr, tui.DefaultTheme)
	g := mustGeometry(t, 10, 8)

	r.Render(Frame{Geometry: g, Sent: buffer(), Received: buffer(), Edit: "0123456789"})

	if got := scr.Row(g.PromptRow); got != ">_ 456789" {
		t.Errorf("Expected tail of edit line, got %q", got)
	}
	if _, col := scr.Cursor(); col != 9 {
		t.Errorf("Expected cursor in last column, got %d", col)
	}
}

func TestRenderShowError(t *testing.T) {
	scr := drivertest.New(10, 8)
	scr.ShowErr = errors.New("screen gone")

	err := New(scr, tui.DefaultTheme).Render(Frame{Geometry: mustGeometry(t, 10, 8)})
	if err == nil || err.Error() != "screen gone" {
		t.Errorf("Expected show error to propagate, got %v", err)
	}
}

func TestRenderNarrowPaneKeepsCursorOnScreen(t *testing.T) {
	for _, w := range []int{1, 2, 3} {
		scr := drivertest.New(w, 8)
		r := New(scr, tui.DefaultTheme)
		g := mustGeometry(t, w, 8)

		if err := r.Render(Frame{Geometry: g, Edit: "abc"}); err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		row, col := scr.Cursor()
		if row != g.PromptRow {
			t.Errorf("Width %d: expected cursor row %d, got %d", w, g.PromptRow, row)
		}
		if col != w-1 {
			t.Errorf("Width %d: expected cursor column %d, got %d", w, w-1, col)
		}
		if got, want := scr.Row(g.PromptRow), layout.PromptGlyph[:w]; got != strings.TrimRight(want, " ") {
			t.Errorf("Width %d: expected prompt row %q, got %q", w, want, got)
		}
	}
}

func TestRenderReceivedTabs(t *testing.T) {
	scr := drivertest.New(20, 10)
	r := New(scr, tui.DefaultTheme)
	g := mustGeometry(t, 20, 10)

	if err := r.Render(Frame{Geometry: g, Received: buffer("col1\tcol2")}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := scr.Row(g.ReceiveFirstRow()); got != "col1    col2" {
		t.Errorf("Expected tab shown as spaces, got %q", got)
	}
}
