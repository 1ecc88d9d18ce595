package transport

import (
	"os"

	"github.com/creack/pty"
	"golang.org/x/term"
)

// virtualPort is a pseudo-terminal pair standing in for a device. Another program
// opens the slave path and talks to the session as if it were the device
type virtualPort struct {
	ptmx *os.File
	tty  *os.File
	buf  []byte
}

func openPTY(opts Options) (*virtualPort, error) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		return nil, err
	}
	// Raw slave: no echo and no newline translation
	if _, err := term.MakeRaw(int(tty.Fd())); err != nil {
		ptmx.Close()
		tty.Close()
		return nil, err
	}
	v := &virtualPort{
		ptmx: ptmx,
		tty:  tty,
		buf:  make([]byte, readChunk),
	}
	if opts.OnVirtual != nil {
		opts.OnVirtual(v.Path())
	}
	return v, nil
}

// Path returns the slave device path
func (v *virtualPort) Path() string {
	return v.tty.Name()
}

func (v *virtualPort) Write(p []byte) (int, error) {
	return v.ptmx.Write(p)
}

func (v *virtualPort) Buffered() (int, error) {
	return inputQueued(int(v.ptmx.Fd()))
}

func (v *virtualPort) ReadAvailable() ([]byte, error) {
	n, err := v.Buffered()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	if n > len(v.buf) {
		n = len(v.buf)
	}
	// n bytes are queued, so this read does not block
	m, err := v.ptmx.Read(v.buf[:n])
	out := make([]byte, m)
	copy(out, v.buf[:m])
	return out, err
}

func (v *virtualPort) Close() error {
	err := v.ptmx.Close()
	if terr := v.tty.Close(); err == nil {
		err = terr
	}
	return err
}
