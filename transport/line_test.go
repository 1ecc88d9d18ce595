package transport

import (
	"errors"
	"strings"
	"testing"

	"github.com/lixenwraith/micromon/transport/transporttest"
)

func TestSendAppendsTerminator(t *testing.T) {
	tests := []struct {
		term Terminator
		want string
	}{
		{LF, "ping\n"},
		{CR, "ping\r"},
		{CRLF, "ping\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.term.String(), func(t *testing.T) {
			s := transporttest.New()
			lt := NewLine(s, tt.term)
			if err := lt.Send("ping"); err != nil {
				t.Fatalf("Send failed: %v", err)
			}
			if got := s.Written(); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
			stats := lt.Stats()
			if stats.LinesSent != 1 || stats.BytesSent != uint64(len(tt.want)) {
				t.Errorf("Expected 1 line and %d bytes sent, got %+v", len(tt.want), stats)
			}
		})
	}
}

func TestSendEmptyLine(t *testing.T) {
	s := transporttest.New()
	lt := NewLine(s, LF)
	if err := lt.Send(""); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if got := s.Written(); got != "\n" {
		t.Errorf("Expected bare terminator, got %q", got)
	}
}

func TestSendCompletesShortWrites(t *testing.T) {
	s := transporttest.New()
	s.LimitWrite(2)
	lt := NewLine(s, CRLF)

	if err := lt.Send("abcd"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if got := s.Written(); got != "abcd\r\n" {
		t.Errorf("Expected full frame, got %q", got)
	}
	if s.Writes() != 3 {
		t.Errorf("Expected 3 writes, got %d", s.Writes())
	}
}

func TestSendWriteFailure(t *testing.T) {
	s := transporttest.New()
	cause := errors.New("device unplugged")
	s.FailWrite(cause)
	lt := NewLine(s, LF)

	err := lt.Send("ping")
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("Expected *IOError, got %T %v", err, err)
	}
	if ioErr.Op != "write" {
		t.Errorf("Expected write op, got %q", ioErr.Op)
	}
	if !errors.Is(err, cause) {
		t.Error("Expected IOError to wrap the device error")
	}
	if lt.Stats().LinesSent != 0 {
		t.Error("Expected failed send not to count as a sent line")
	}
}

func TestPollReceiveBuffersPartialLines(t *testing.T) {
	s := transporttest.New()
	s.Feed("hel", "lo\nwor", "ld\n")
	lt := NewLine(s, LF)

	if line, ok, err := lt.PollReceive(); err != nil || ok {
		t.Fatalf("Expected no line from a partial read, got %q ok=%v err=%v", line, ok, err)
	}
	if lt.Pending() != 3 {
		t.Errorf("Expected 3 pending bytes, got %d", lt.Pending())
	}

	line, ok, err := lt.PollReceive()
	if err != nil || !ok || line != "hello" {
		t.Fatalf("Expected hello, got %q ok=%v err=%v", line, ok, err)
	}

	line, ok, err = lt.PollReceive()
	if err != nil || !ok || line != "world" {
		t.Fatalf("Expected world, got %q ok=%v err=%v", line, ok, err)
	}

	if _, ok, _ := lt.PollReceive(); ok {
		t.Error("Expected no line once the stream is empty")
	}
}

func TestPollReceiveOneLinePerCall(t *testing.T) {
	s := transporttest.New()
	s.Feed("a\nb\nc\n", "d\n")
	lt := NewLine(s, LF)

	for _, want := range []string{"a", "b", "c"} {
		line, ok, err := lt.PollReceive()
		if err != nil || !ok || line != want {
			t.Fatalf("Expected %q, got %q ok=%v err=%v", want, line, ok, err)
		}
	}
	// Queued lines are handed out before the stream is touched again
	if s.Queued() != 1 {
		t.Errorf("Expected second chunk still queued, got %d chunks", s.Queued())
	}
}

func TestDrainReturnsAllCompleteLines(t *testing.T) {
	s := transporttest.New()
	s.Feed("one\ntwo\nthr")
	lt := NewLine(s, LF)

	lines, err := lt.Drain()
	if err != nil {
		t.Fatalf("Drain failed: %v", err)
	}
	if strings.Join(lines, ",") != "one,two" {
		t.Errorf("Expected one,two, got %v", lines)
	}

	lines, err = lt.Drain()
	if err != nil || lines != nil {
		t.Errorf("Expected nothing on an idle stream, got %v err=%v", lines, err)
	}

	s.Feed("ee\n")
	lines, _ = lt.Drain()
	if len(lines) != 1 || lines[0] != "three" {
		t.Errorf("Expected three, got %v", lines)
	}
	if got := lt.Stats().LinesReceived; got != 3 {
		t.Errorf("Expected 3 lines received, got %d", got)
	}
}

func TestReceiveTrimsAndSplits(t *testing.T) {
	tests := []struct {
		name  string
		term  Terminator
		input string
		want  []string
	}{
		{"lf strips cr", LF, "  42 \r\n", []string{"42"}},
		{"crlf splits on lf", CRLF, "ok\r\nready\r\n", []string{"ok", "ready"}},
		{"cr mode", CR, "one\r\ntwo\r", []string{"one", "two"}},
		{"cr mode ignores lf", CR, "a\nb\r", []string{"a\nb"}},
		{"empty line kept", LF, "\nx\n", []string{"", "x"}},
		{"invalid utf8 replaced", LF, "a\xffb\n", []string{"a�b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := transporttest.New()
			s.Feed(tt.input)
			lines, err := NewLine(s, tt.term).Drain()
			if err != nil {
				t.Fatalf("Drain failed: %v", err)
			}
			if len(lines) != len(tt.want) {
				t.Fatalf("Expected %q, got %q", tt.want, lines)
			}
			for i := range lines {
				if lines[i] != tt.want[i] {
					t.Errorf("Line %d: expected %q, got %q", i, tt.want[i], lines[i])
				}
			}
		})
	}
}

func TestReceiveFlushesOversizedLine(t *testing.T) {
	s := transporttest.New()
	s.Feed(strings.Repeat("x", maxPending), "tail\n")
	lt := NewLine(s, LF)

	line, ok, err := lt.PollReceive()
	if err != nil || !ok {
		t.Fatalf("Expected an oversized line to be delivered, got ok=%v err=%v", ok, err)
	}
	if len(line) != maxPending {
		t.Errorf("Expected %d bytes, got %d", maxPending, len(line))
	}
	if lt.Pending() != 0 {
		t.Errorf("Expected empty pending buffer, got %d", lt.Pending())
	}

	line, ok, _ = lt.PollReceive()
	if !ok || line != "tail" {
		t.Errorf("Expected tail, got %q ok=%v", line, ok)
	}
}

func TestReceiveReadFailure(t *testing.T) {
	s := transporttest.New()
	cause := errors.New("i/o error")
	s.Feed("partial")
	s.FailRead(cause)
	lt := NewLine(s, LF)

	if _, ok, err := lt.PollReceive(); ok || err != nil {
		t.Fatalf("Expected queued chunk to read cleanly, got ok=%v err=%v", ok, err)
	}

	_, _, err := lt.PollReceive()
	var ioErr *IOError
	if !errors.As(err, &ioErr) || ioErr.Op != "read" {
		t.Fatalf("Expected read IOError, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Error("Expected IOError to wrap the read error")
	}
	if lt.Pending() != len("partial") {
		t.Errorf("Expected partial bytes kept, got %d", lt.Pending())
	}
}

func TestCloseClosesStream(t *testing.T) {
	s := transporttest.New()
	if err := NewLine(s, LF).Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if s.Closed() != 1 {
		t.Errorf("Expected stream closed once, got %d", s.Closed())
	}
}
