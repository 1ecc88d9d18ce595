// Package transport frames text lines over the byte stream to a device.
//
// A ByteTransport is any byte-oriented endpoint that can report how much input is
// ready without blocking. LineTransport adds the terminator on the way out and
// reassembles complete lines on the way in.
package transport

import (
	"context"
	"fmt"
	"io"
	"strings"

	"pkt.systems/pslog"
)

// ByteTransport is a non-blocking byte stream to a device
type ByteTransport interface {
	io.Writer

	// Buffered reports how many bytes can be read without blocking
	Buffered() (int, error)

	// ReadAvailable returns the bytes that are ready, possibly none. It never blocks
	ReadAvailable() ([]byte, error)

	Close() error
}

// Kind classifies an endpoint
type Kind string

const (
	KindSerial    Kind = "serial"
	KindPTY       Kind = "pty"
	KindTCP       Kind = "tcp"
	KindWebSocket Kind = "websocket"
)

// Endpoint names something Open can connect to
type Endpoint struct {
	Name        string // device path, "pty" or URL
	Description string
	Kind        Kind
}

func (e Endpoint) String() string {
	if e.Description == "" {
		return e.Name
	}
	return e.Name + " - " + e.Description
}

// Options are the stream parameters applied on open
type Options struct {
	Baud int // serial only

	// OnVirtual receives the slave path of a virtual device once it exists
	OnVirtual func(path string)
}

// DefaultBaud is the serial rate used when none is configured
const DefaultBaud = 9600

// ParseEndpoint classifies a user supplied device name
func ParseEndpoint(name string) Endpoint {
	lower := strings.ToLower(name)
	switch {
	case lower == "pty":
		return Endpoint{Name: "pty", Description: "virtual device", Kind: KindPTY}
	case strings.HasPrefix(lower, "tcp://"):
		return Endpoint{Name: name, Description: "tcp bridge", Kind: KindTCP}
	case strings.HasPrefix(lower, "ws://"), strings.HasPrefix(lower, "wss://"):
		return Endpoint{Name: name, Description: "websocket bridge", Kind: KindWebSocket}
	}
	return Endpoint{Name: name, Kind: KindSerial}
}

// Open connects to the endpoint. Failures are returned as *OpenError
func Open(ctx context.Context, ep Endpoint, opts Options) (ByteTransport, error) {
	log := pslog.Ctx(ctx).With("endpoint", ep.Name, "kind", string(ep.Kind))

	var (
		bt  ByteTransport
		err error
	)
	switch ep.Kind {
	case KindSerial:
		bt, err = openSerial(ep.Name, opts)
	case KindPTY:
		bt, err = openPTY(opts)
	case KindTCP:
		bt, err = openTCP(ctx, ep.Name)
	case KindWebSocket:
		bt, err = openWebSocket(ctx, ep.Name)
	default:
		err = fmt.Errorf("unknown endpoint kind %q", ep.Kind)
	}
	if err != nil {
		log.Debug("transport open failed", "err", err)
		return nil, &OpenError{Endpoint: ep.Name, Err: err}
	}
	log.Info("transport open")
	return bt, nil
}
