// Package transporttest provides an in-memory byte stream for exercising line
// framing and the session loop without a device.
package transporttest

import (
	"bytes"
	"sync"
)

// Stream is a scripted ByteTransport. Each fed chunk becomes visible to exactly
// one ReadAvailable call, which mimics bytes trickling in from a device
type Stream struct {
	mu       sync.Mutex
	chunks   [][]byte
	written  bytes.Buffer
	writes   int
	writeErr error
	readErr  error
	maxWrite int
	closed   int
}

// New returns an empty stream
func New() *Stream {
	return &Stream{}
}

// Feed queues incoming chunks
func (s *Stream) Feed(chunks ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range chunks {
		s.chunks = append(s.chunks, []byte(c))
	}
}

// FailWrite makes every later write fail with err
func (s *Stream) FailWrite(err error) {
	s.mu.Lock()
	s.writeErr = err
	s.mu.Unlock()
}

// FailRead makes the readiness check fail with err once queued chunks are consumed
func (s *Stream) FailRead(err error) {
	s.mu.Lock()
	s.readErr = err
	s.mu.Unlock()
}

// LimitWrite caps the bytes accepted per write call
func (s *Stream) LimitWrite(n int) {
	s.mu.Lock()
	s.maxWrite = n
	s.mu.Unlock()
}

func (s *Stream) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return 0, s.writeErr
	}
	if s.maxWrite > 0 && len(p) > s.maxWrite {
		p = p[:s.maxWrite]
	}
	s.writes++
	s.written.Write(p)
	return len(p), nil
}

func (s *Stream) Buffered() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.chunks) == 0 {
		return 0, s.readErr
	}
	return len(s.chunks[0]), nil
}

func (s *Stream) ReadAvailable() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.chunks) == 0 {
		return nil, s.readErr
	}
	out := s.chunks[0]
	s.chunks = s.chunks[1:]
	return out, nil
}

func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

// Written returns everything written so far
func (s *Stream) Written() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written.String()
}

// Writes returns the number of successful write calls
func (s *Stream) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Queued returns the number of chunks not yet read
func (s *Stream) Queued() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chunks)
}

// Closed returns how many times Close was called
func (s *Stream) Closed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
