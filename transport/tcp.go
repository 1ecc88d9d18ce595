package transport

import (
	"context"
	"errors"
	"net"
	"net/url"
	"os"
	"time"
)

// pollDeadline is how long a readiness read may wait on a socket. A deadline
// already in the past fails the read before any data is taken
const pollDeadline = time.Millisecond

// tcpPort is a raw byte bridge such as ser2net
type tcpPort struct {
	conn  net.Conn
	stage []byte
	buf   []byte
}

func openTCP(ctx context.Context, rawURL string) (*tcpPort, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Host == "" {
		return nil, errors.New("missing host")
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", u.Host)
	if err != nil {
		return nil, err
	}
	return newTCPPort(conn), nil
}

func newTCPPort(conn net.Conn) *tcpPort {
	return &tcpPort{
		conn: conn,
		buf:  make([]byte, readChunk),
	}
}

func (t *tcpPort) Write(p []byte) (int, error) {
	return t.conn.Write(p)
}

func (t *tcpPort) Buffered() (int, error) {
	if len(t.stage) >= readChunk {
		return len(t.stage), nil
	}
	if err := t.conn.SetReadDeadline(time.Now().Add(pollDeadline)); err != nil {
		return len(t.stage), err
	}
	n, err := t.conn.Read(t.buf)
	if n > 0 {
		t.stage = append(t.stage, t.buf[:n]...)
	}
	if err != nil && !errors.Is(err, os.ErrDeadlineExceeded) {
		return len(t.stage), err
	}
	return len(t.stage), nil
}

func (t *tcpPort) ReadAvailable() ([]byte, error) {
	if _, err := t.Buffered(); err != nil && len(t.stage) == 0 {
		return nil, err
	}
	out := t.stage
	t.stage = nil
	return out, nil
}

func (t *tcpPort) Close() error {
	return t.conn.Close()
}
