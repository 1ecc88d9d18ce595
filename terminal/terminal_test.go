package terminal

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeBackend feeds scripted input chunks and records output
type fakeBackend struct {
	mu      sync.Mutex
	out     bytes.Buffer
	width   int
	height  int
	input   chan []byte
	readErr error
	resize  func(int, int)
	initCnt int
	finiCnt int
}

func newFakeBackend(w, h int) *fakeBackend {
	return &fakeBackend{width: w, height: h, input: make(chan []byte, 16)}
}

func (f *fakeBackend) Init() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initCnt++
	return nil
}

func (f *fakeBackend) Fini() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finiCnt++
}

func (f *fakeBackend) Size() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.width, f.height
}

func (f *fakeBackend) Write(p []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out.Write(p)
	return nil
}

func (f *fakeBackend) Read(timeout time.Duration, stopCh <-chan struct{}) ([]byte, error) {
	f.mu.Lock()
	err := f.readErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	select {
	case data := <-f.input:
		return data, nil
	case <-stopCh:
		return nil, nil
	case <-time.After(timeout):
		return nil, nil
	}
}

func (f *fakeBackend) SetResizeHandler(handler func(int, int)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resize = handler
}

func (f *fakeBackend) setSize(w, h int) {
	f.mu.Lock()
	f.width, f.height = w, h
	handler := f.resize
	f.mu.Unlock()
	if handler != nil {
		handler(w, h)
	}
}

func (f *fakeBackend) output() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.out.String()
}

func readKeyOrFail(t *testing.T, term Terminal) int {
	t.Helper()
	code, ok, err := term.ReadKey(time.Second)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !ok {
		t.Fatal("Expected a key code, got timeout")
	}
	return code
}

func TestReadKeyDeliversParsedCodes(t *testing.T) {
	fb := newFakeBackend(80, 24)
	term := newTerminal(fb, ColorModeTrueColor)
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer term.Fini()

	fb.input <- []byte("a\x7f\x1b[A\r")

	expected := []int{'a', 0x7f, CodeUp, '\r'}
	for i, want := range expected {
		if got := readKeyOrFail(t, term); got != want {
			t.Errorf("Code %d: expected %s, got %s", i, CodeName(want), CodeName(got))
		}
	}
}

func TestReadKeyStandaloneEscape(t *testing.T) {
	fb := newFakeBackend(80, 24)
	term := newTerminal(fb, ColorModeTrueColor)
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer term.Fini()

	fb.input <- []byte{0x1b}

	if got := readKeyOrFail(t, term); got != 0x1b {
		t.Errorf("Expected ESC after escape timeout, got %s", CodeName(got))
	}
}

func TestReadKeyTimeout(t *testing.T) {
	fb := newFakeBackend(80, 24)
	term := newTerminal(fb, ColorModeTrueColor)
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer term.Fini()

	start := time.Now()
	_, ok, err := term.ReadKey(20 * time.Millisecond)
	if err != nil || ok {
		t.Errorf("Expected silent timeout, got ok=%v err=%v", ok, err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("Expected ReadKey to wait for the timeout, returned after %v", elapsed)
	}
}

func TestReadKeyResize(t *testing.T) {
	fb := newFakeBackend(80, 24)
	term := newTerminal(fb, ColorModeTrueColor)
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer term.Fini()

	// Two resizes before a read coalesce into one notification
	fb.setSize(100, 30)
	fb.setSize(120, 40)

	if got := readKeyOrFail(t, term); got != CodeResize {
		t.Errorf("Expected resize, got %s", CodeName(got))
	}
	if w, h := term.Size(); w != 120 || h != 40 {
		t.Errorf("Expected size 120x40, got %dx%d", w, h)
	}
	if _, ok, _ := term.ReadKey(10 * time.Millisecond); ok {
		t.Error("Expected coalesced resize to be reported once")
	}
}

func TestReadKeyInputError(t *testing.T) {
	fb := newFakeBackend(80, 24)
	fb.readErr = errors.New("stdin closed")
	term := newTerminal(fb, ColorModeTrueColor)
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer term.Fini()

	_, _, err := term.ReadKey(time.Second)
	if err == nil || err.Error() != "stdin closed" {
		t.Errorf("Expected stdin closed error, got %v", err)
	}
}

func TestReadKeyBeforeInit(t *testing.T) {
	term := newTerminal(newFakeBackend(80, 24), ColorModeTrueColor)
	if _, _, err := term.ReadKey(time.Millisecond); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}
}

func TestFiniIdempotent(t *testing.T) {
	fb := newFakeBackend(80, 24)
	term := newTerminal(fb, ColorModeTrueColor)
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	term.Fini()
	term.Fini()

	if fb.finiCnt != 1 {
		t.Errorf("Expected backend Fini once, got %d", fb.finiCnt)
	}
	out := fb.output()
	if !strings.Contains(out, string(csiAltScreenExit)) {
		t.Error("Expected alternate screen exit on Fini")
	}
	if !strings.Contains(out, string(csiCursorShow)) {
		t.Error("Expected cursor show on Fini")
	}
}

func TestFlushDropsStaleFrame(t *testing.T) {
	fb := newFakeBackend(4, 1)
	term := newTerminal(fb, ColorModeTrueColor)
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer term.Fini()

	before := len(fb.output())
	cells := make([]Cell, 2)
	term.Flush(cells, 2, 1)
	if after := len(fb.output()); after != before {
		t.Errorf("Expected frame for stale size to be dropped, %d bytes written", after-before)
	}
}
