package transport

import (
	"fmt"
	"strings"
)

// Terminator is the line ending appended to outgoing text
type Terminator uint8

const (
	LF Terminator = iota
	CR
	CRLF
)

// ParseTerminator accepts the flag forms n, r and both, and lf, cr and crlf
func ParseTerminator(s string) (Terminator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "n", "lf", "\\n":
		return LF, nil
	case "r", "cr", "\\r":
		return CR, nil
	case "both", "crlf", "rn", "\\r\\n":
		return CRLF, nil
	}
	return LF, fmt.Errorf("invalid terminator %q: want n, r or both", s)
}

// Bytes returns the terminator sequence
func (t Terminator) Bytes() []byte {
	switch t {
	case CR:
		return []byte{'\r'}
	case CRLF:
		return []byte{'\r', '\n'}
	}
	return []byte{'\n'}
}

// split is the byte that ends an incoming line. CRLF input splits on LF and
// the leftover CR is removed by trimming
func (t Terminator) split() byte {
	if t == CR {
		return '\r'
	}
	return '\n'
}

// Flag returns the command line spelling
func (t Terminator) Flag() string {
	switch t {
	case CR:
		return "r"
	case CRLF:
		return "both"
	}
	return "n"
}

func (t Terminator) String() string {
	switch t {
	case CR:
		return "CR"
	case CRLF:
		return "CRLF"
	}
	return "LF"
}
