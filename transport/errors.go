package transport

import (
	"errors"
	"fmt"
)

// ErrNoEndpoints is returned when discovery finds nothing to connect to
var ErrNoEndpoints = errors.New("no serial ports found")

var errShortWrite = errors.New("short write")

// OpenError reports an endpoint that could not be opened
type OpenError struct {
	Endpoint string
	Err      error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Endpoint, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// IOError reports a read or write failure on an open endpoint
type IOError struct {
	Op  string // "read" or "write"
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
