package terminal

import "time"

// Backend abstracts platform-specific terminal operations.
type Backend interface {
	// Lifecycle
	Init() error
	Fini()

	// Capabilities
	Size() (width, height int)

	// I/O
	// Write writes raw bytes to the terminal output.
	Write(p []byte) error

	// Read waits up to timeout for input. A nil slice with nil error means the timeout
	// elapsed, or stopCh was closed, without input.
	Read(timeout time.Duration, stopCh <-chan struct{}) ([]byte, error)

	// Callbacks
	// SetResizeHandler registers a callback for terminal resize events.
	SetResizeHandler(handler func(width, height int))
}
