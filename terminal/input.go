package terminal

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
	"time"
)

// inputReader turns raw stdin bytes into key codes
type inputReader struct {
	backend Backend
	codeCh  chan int
	errCh   chan error
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	running bool

	// Persistent buffer for stream assembly, keeps partial escape and UTF-8 sequences across reads
	buf []byte
}

// escapeTimeout is the duration to wait after ESC to distinguish
// standalone ESC from escape sequence start
const escapeTimeout = 50 * time.Millisecond

// newInputReader creates a new input reader
func newInputReader(backend Backend) *inputReader {
	return &inputReader{
		backend: backend,
		codeCh:  make(chan int, 256),
		errCh:   make(chan error, 1),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		buf:     make([]byte, 0, 256),
	}
}

// start begins reading input in a goroutine
func (r *inputReader) start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	go r.readLoop()
}

// stop signals the reader to stop
func (r *inputReader) stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	// Wait with timeout - don't block forever if read is stuck
	select {
	case <-r.doneCh:
	case <-time.After(200 * time.Millisecond):
	}
}

// readLoop is the main input reading goroutine
func (r *inputReader) readLoop() {
	defer close(r.doneCh)

	defer func() {
		if rec := recover(); rec != nil {
			EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mINPUT READER CRASHED: %v\x1b[0m\r\n", rec)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	for {
		data, err := r.backend.Read(escapeTimeout, r.stopCh)
		if err != nil {
			select {
			case r.errCh <- err:
			default:
			}
			return
		}

		if len(data) == 0 {
			// Timeout: a lone pending ESC is the Escape key itself
			if len(r.buf) == 1 && r.buf[0] == 0x1b {
				r.send(0x1b)
				r.buf = r.buf[:0]
			}
			select {
			case <-r.stopCh:
				return
			default:
				continue
			}
		}

		r.buf = append(r.buf, data...)

		consumed := r.parseInput(r.buf)

		if consumed > 0 {
			if consumed >= len(r.buf) {
				r.buf = r.buf[:0]
			} else {
				copy(r.buf, r.buf[consumed:])
				r.buf = r.buf[:len(r.buf)-consumed]
			}
		}
	}
}

// parseInput parses raw bytes into codes and returns bytes consumed (stop on incomplete sequence)
func (r *inputReader) parseInput(data []byte) int {
	i := 0
	n := len(data)

	for i < n {
		b := data[i]

		// Escape sequence
		if b == 0x1b {
			if i+1 >= n {
				return i // Wait for more data or the escape timeout
			}

			consumed, code := parseEscape(data[i:])
			if consumed == 0 {
				return i
			}
			if code >= 0 {
				r.send(code)
			}
			i += consumed
			continue
		}

		// UTF-8 multibyte
		if b >= 0x80 {
			seqLen := utf8SeqLen(b)
			if seqLen == 0 {
				i++
				continue
			}
			if i+seqLen > n {
				return i
			}

			rn, size := decodeRune(data[i:])
			r.send(int(rn))
			i += size
			continue
		}

		// Printable ASCII, control bytes and DEL pass through as byte values
		r.send(int(b))
		i++
	}
	return i
}

// parseEscape parses an escape sequence starting at data[0] == ESC.
// Returns consumed bytes (0 when incomplete) and the code, -1 for swallowed sequences.
func parseEscape(data []byte) (int, int) {
	if len(data) < 2 {
		return 0, -1
	}

	switch {
	case data[1] == 0x1b:
		// ESC ESC: Alt+Escape, still an Escape
		return 2, 0x1b
	case data[1] == '[':
		return parseCSI(data)
	case data[1] == 'O':
		return parseSS3(data)
	case data[1] < 0x7f:
		// Alt+key: modifier is dropped, the key itself is delivered
		return 2, int(data[1])
	}

	// ESC followed by a non-ASCII lead byte: deliver the ESC alone
	return 1, 0x1b
}

// parseCSI parses CSI sequence without allocation
func parseCSI(data []byte) (int, int) {
	if len(data) < 3 {
		return 0, -1
	}

	end := 2
	maxScan := len(data)
	if maxScan > 16 {
		maxScan = 16
	}

	for end < maxScan {
		b := data[end]
		if (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b == '~' {
			end++
			break
		}
		if b < 0x20 || b > 0x7e {
			// Malformed: consume the introducer so the rest is re-read as plain input
			return 2, -1
		}
		end++
	}

	if end <= 2 || end > maxScan {
		return 0, -1
	}

	lastByte := data[end-1]
	if !((lastByte >= 'A' && lastByte <= 'Z') || (lastByte >= 'a' && lastByte <= 'z') || lastByte == '~') {
		if maxScan == 16 {
			return end, -1 // Overlong, discard
		}
		return 0, -1 // Incomplete, no terminator found
	}

	// Linux console F1-F5: ESC [ [ X
	if data[2] == '[' && end == 4 && len(data) >= 4 {
		if code, ok := lookupCSI(data[2:4]); ok {
			return 4, code
		}
	}

	if code, ok := lookupCSI(data[2:end]); ok {
		return end, code
	}

	// Unknown but valid CSI syntax - consume silently
	return end, -1
}

// parseSS3 parses SS3 sequence without allocation, returns length even for unknown sequences
func parseSS3(data []byte) (int, int) {
	if len(data) < 3 {
		return 0, -1
	}
	if code, ok := lookupSS3(data[2:3]); ok {
		return 3, code
	}
	return 3, -1
}

// send delivers a code, dropping it when the consumer has fallen far behind
func (r *inputReader) send(code int) {
	select {
	case r.codeCh <- code:
	default:
	}
}

// utf8SeqLen returns expected UTF-8 sequence length from start byte, 0 if invalid
func utf8SeqLen(b byte) int {
	if b < 0x80 {
		return 1
	}
	if b&0xe0 == 0xc0 {
		return 2
	}
	if b&0xf0 == 0xe0 {
		return 3
	}
	if b&0xf8 == 0xf0 {
		return 4
	}
	return 0
}

// decodeRune decodes the first UTF-8 rune from data
func decodeRune(data []byte) (rune, int) {
	if len(data) == 0 {
		return 0, 0
	}

	b := data[0]
	if b < 0x80 {
		return rune(b), 1
	}

	var size int
	var min rune
	var r rune

	switch {
	case b&0xe0 == 0xc0:
		size = 2
		min = 0x80
		r = rune(b & 0x1f)
	case b&0xf0 == 0xe0:
		size = 3
		min = 0x800
		r = rune(b & 0x0f)
	case b&0xf8 == 0xf0:
		size = 4
		min = 0x10000
		r = rune(b & 0x07)
	default:
		return 0xFFFD, 1
	}

	if len(data) < size {
		return 0xFFFD, 1
	}

	for i := 1; i < size; i++ {
		if data[i]&0xc0 != 0x80 {
			return 0xFFFD, 1
		}
		r = r<<6 | rune(data[i]&0x3f)
	}

	if r < min {
		return 0xFFFD, 1 // Overlong encoding
	}

	return r, size
}
