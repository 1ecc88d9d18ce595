package transport

import (
	"bytes"
	"strings"
)

// maxPending caps an unterminated line; a longer run is delivered as a line of its own
const maxPending = 64 * 1024

// Stats counts traffic through a LineTransport
type Stats struct {
	BytesSent     uint64
	BytesReceived uint64
	LinesSent     uint64
	LinesReceived uint64
}

// LineTransport frames outgoing text with a terminator and reassembles incoming
// lines from partial reads. It is owned by a single goroutine
type LineTransport struct {
	bt   ByteTransport
	term Terminator

	// Bytes after the last terminator seen
	pending []byte
	// Complete lines not yet handed out
	ready []string

	stats Stats
}

// NewLine wraps a byte transport
func NewLine(bt ByteTransport, term Terminator) *LineTransport {
	return &LineTransport{
		bt:      bt,
		term:    term,
		pending: make([]byte, 0, 256),
	}
}

// Terminator returns the configured line ending
func (l *LineTransport) Terminator() Terminator {
	return l.term
}

// Send writes text followed by the terminator
func (l *LineTransport) Send(text string) error {
	frame := make([]byte, 0, len(text)+2)
	frame = append(frame, text...)
	frame = append(frame, l.term.Bytes()...)

	for written := 0; written < len(frame); {
		n, err := l.bt.Write(frame[written:])
		written += n
		l.stats.BytesSent += uint64(n)
		if err != nil {
			return &IOError{Op: "write", Err: err}
		}
		if n == 0 {
			return &IOError{Op: "write", Err: errShortWrite}
		}
	}
	l.stats.LinesSent++
	return nil
}

// PollReceive returns the next complete line if one is available. It never
// waits for more bytes
func (l *LineTransport) PollReceive() (string, bool, error) {
	if len(l.ready) == 0 {
		if err := l.fill(); err != nil {
			return "", false, err
		}
	}
	if len(l.ready) == 0 {
		return "", false, nil
	}
	line := l.ready[0]
	l.ready[0] = ""
	l.ready = l.ready[1:]
	return line, true, nil
}

// Drain returns every complete line currently available, in arrival order. Lines
// completed before a read error are returned along with it
func (l *LineTransport) Drain() ([]string, error) {
	err := l.fill()
	if len(l.ready) == 0 {
		return nil, err
	}
	lines := l.ready
	l.ready = nil
	return lines, err
}

// Pending reports the number of buffered bytes not yet forming a line
func (l *LineTransport) Pending() int {
	return len(l.pending)
}

// Stats returns the traffic counters
func (l *LineTransport) Stats() Stats {
	return l.stats
}

// Close closes the underlying transport
func (l *LineTransport) Close() error {
	return l.bt.Close()
}

// fill performs one readiness check and, if bytes are waiting, one bounded read
func (l *LineTransport) fill() error {
	n, err := l.bt.Buffered()
	if err != nil {
		return &IOError{Op: "read", Err: err}
	}
	if n == 0 {
		return nil
	}

	data, err := l.bt.ReadAvailable()
	l.stats.BytesReceived += uint64(len(data))
	l.pending = append(l.pending, data...)
	l.split()
	if err != nil {
		return &IOError{Op: "read", Err: err}
	}
	return nil
}

// split moves every terminated line out of pending
func (l *LineTransport) split() {
	sep := l.term.split()
	start := 0
	for {
		idx := bytes.IndexByte(l.pending[start:], sep)
		if idx < 0 {
			break
		}
		l.push(l.pending[start : start+idx])
		start += idx + 1
	}

	rest := len(l.pending) - start
	if rest >= maxPending {
		l.push(l.pending[start:])
		start = len(l.pending)
		rest = 0
	}

	if start > 0 {
		copy(l.pending, l.pending[start:])
		l.pending = l.pending[:rest]
	}
}

func (l *LineTransport) push(raw []byte) {
	line := strings.TrimSpace(string(bytes.ToValidUTF8(raw, []byte("�"))))
	l.ready = append(l.ready, line)
	l.stats.LinesReceived++
}
