//go:build unix

package terminal

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

var (
	errStdinNotTerminal = errors.New("stdin is not a terminal")
	errStdinClosed      = errors.New("stdin closed")
)

const (
	// pollSlice bounds one poll(2) wait so a stop request is noticed quickly
	pollSlice = 100 * time.Millisecond
	readChunk = 256

	fallbackWidth  = 80
	fallbackHeight = 24
)

// unixBackend drives the controlling tty through stdin and stdout
type unixBackend struct {
	in, out *os.File
	saved   *term.State
	winch   *winchWatcher
}

func newBackend() Backend {
	return &unixBackend{in: os.Stdin, out: os.Stdout}
}

func (b *unixBackend) inFd() int  { return int(b.in.Fd()) }
func (b *unixBackend) outFd() int { return int(b.out.Fd()) }

func (b *unixBackend) Init() error {
	if !term.IsTerminal(b.inFd()) {
		return errStdinNotTerminal
	}
	saved, err := term.MakeRaw(b.inFd())
	if err != nil {
		return err
	}
	b.saved = saved
	return nil
}

func (b *unixBackend) Fini() {
	if b.winch != nil {
		b.winch.stop()
		b.winch = nil
	}
	if b.saved != nil {
		term.Restore(b.inFd(), b.saved)
		b.saved = nil
	}
}

func (b *unixBackend) Size() (int, int) {
	ws, err := unix.IoctlGetWinsize(b.outFd(), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 {
		return fallbackWidth, fallbackHeight
	}
	return int(ws.Col), int(ws.Row)
}

func (b *unixBackend) Write(p []byte) error {
	_, err := b.out.Write(p)
	return err
}

func (b *unixBackend) Read(timeout time.Duration, stopCh <-chan struct{}) ([]byte, error) {
	ready, err := b.waitReadable(time.Now().Add(timeout), stopCh)
	if err != nil || !ready {
		return nil, err
	}

	buf := make([]byte, readChunk)
	for {
		n, err := unix.Read(b.inFd(), buf)
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN:
			return nil, nil
		case err != nil:
			return nil, err
		case n == 0:
			return nil, errStdinClosed
		}
		return buf[:n], nil
	}
}

// waitReadable polls stdin until it has input, the deadline passes or stopCh closes
func (b *unixBackend) waitReadable(deadline time.Time, stopCh <-chan struct{}) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(b.inFd()), Events: unix.POLLIN}}
	for {
		select {
		case <-stopCh:
			return false, nil
		default:
		}

		wait := min(time.Until(deadline), pollSlice)
		if wait <= 0 {
			return false, nil
		}
		n, err := unix.Poll(fds, int(wait/time.Millisecond))
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return false, err
		}
		if n > 0 {
			return true, nil
		}
	}
}

func (b *unixBackend) SetResizeHandler(handler func(width, height int)) {
	if b.winch != nil {
		b.winch.stop()
	}
	b.winch = watchWinch(func() {
		handler(b.Size())
	})
}

// winchWatcher runs fn on every SIGWINCH until stopped
type winchWatcher struct {
	sig  chan os.Signal
	quit chan struct{}
	done chan struct{}
}

func watchWinch(fn func()) *winchWatcher {
	w := &winchWatcher{
		sig:  make(chan os.Signal, 1),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	signal.Notify(w.sig, syscall.SIGWINCH)
	go func() {
		defer close(w.done)
		for {
			select {
			case <-w.quit:
				return
			case <-w.sig:
				fn()
			}
		}
	}()
	return w
}

func (w *winchWatcher) stop() {
	signal.Stop(w.sig)
	close(w.quit)
	<-w.done
}
