// Package session runs the dashboard loop: it polls the device, paints both panes,
// reads one key and applies it, until the operator quits or a fault occurs.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"pkt.systems/pslog"

	"github.com/lixenwraith/micromon/driver"
	"github.com/lixenwraith/micromon/keys"
	"github.com/lixenwraith/micromon/layout"
	"github.com/lixenwraith/micromon/render"
	"github.com/lixenwraith/micromon/scrollback"
	"github.com/lixenwraith/micromon/terminal/tui"
	"github.com/lixenwraith/micromon/transport"
)

// DefaultPollInterval is the key read timeout, which also paces device polling
// while the operator is idle
const DefaultPollInterval = 150 * time.Millisecond

// Notifier is told once per received line
type Notifier interface {
	Notify()
}

// Options configures a session
type Options struct {
	PollInterval time.Duration
	Theme        tui.Theme
	Notifier     Notifier
}

// Session owns the buffers, the edit line and the collaborators of one dashboard run.
// All methods must be called from the goroutine running it
type Session struct {
	id string

	drv      driver.Driver
	line     *transport.LineTransport
	decoder  *keys.Decoder
	renderer *render.Renderer
	notifier Notifier
	poll     time.Duration

	sent     *scrollback.Buffer
	received *scrollback.Buffer
	edit     string
	geometry layout.Geometry

	state State
	err   error

	restoreOnce sync.Once
}

// New creates a session in the Connecting state over an open transport
func New(drv driver.Driver, line *transport.LineTransport, opts Options) *Session {
	poll := opts.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	theme := opts.Theme
	if theme == (tui.Theme{}) {
		theme = tui.DefaultTheme
	}

	s := &Session{
		id:       uuid.New().String(),
		drv:      drv,
		line:     line,
		decoder:  keys.NewDecoder(),
		renderer: render.New(drv, theme),
		notifier: opts.Notifier,
		poll:     poll,
		sent:     scrollback.New(),
		received: scrollback.New(),
		state:    StateConnecting,
	}
	// A resize invalidates whatever is on screen; the next Show repaints every cell
	s.decoder.OnResize(drv.Sync)
	return s
}

// ID identifies the session in logs
func (s *Session) ID() string {
	return s.id
}

// State returns the lifecycle stage
func (s *Session) State() State {
	return s.state
}

// Err returns the fault that ended the session, nil for an operator quit
func (s *Session) Err() error {
	return s.err
}

// Edit returns the line being typed
func (s *Session) Edit() string {
	return s.edit
}

// Sent returns the send history
func (s *Session) Sent() *scrollback.Buffer {
	return s.sent
}

// Received returns the receive history
func (s *Session) Received() *scrollback.Buffer {
	return s.received
}

// Stats returns the transport traffic counters
func (s *Session) Stats() transport.Stats {
	return s.line.Stats()
}

func (s *Session) log(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx).With("session", s.id)
}

// Run drives the loop until Escape, Ctrl-C, context cancellation or a fault. The
// terminal is restored exactly once before Run returns, panics included. The
// returned error is the fault, nil for an operator quit
func (s *Session) Run(ctx context.Context) error {
	log := s.log(ctx)

	defer func() {
		s.restore(log)
		s.setState(log, StateTerminated)
	}()

	s.setState(log, StateRunning)
	for s.state == StateRunning {
		if ctx.Err() != nil {
			log.Info("session interrupted")
			s.shutdown(log, nil)
			break
		}
		if err := s.Tick(ctx); err != nil {
			s.shutdown(log, err)
		}
	}
	return s.err
}

// Tick runs one iteration: geometry, device poll, render, one key. A returned
// error is fatal; a quit request moves the session to ShuttingDown without one
func (s *Session) Tick(ctx context.Context) error {
	log := s.log(ctx)

	g, err := layout.Compute(s.drv.Size())
	if err != nil {
		return err
	}
	s.geometry = g

	if err := s.receive(log); err != nil {
		return err
	}

	if err := s.renderer.Render(s.frame()); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	code, ok, err := s.drv.PollKey(s.poll)
	if err != nil {
		return fmt.Errorf("read key: %w", err)
	}
	if !ok {
		return nil
	}
	return s.dispatch(log, s.decoder.Decode(code))
}

// receive appends every complete line the device has sent
func (s *Session) receive(log pslog.Logger) error {
	lines, err := s.line.Drain()
	for _, line := range lines {
		s.received.Append(line)
		log.Debug("line received", "len", len(line))
		if s.notifier != nil {
			s.notifier.Notify()
		}
	}
	return err
}

func (s *Session) dispatch(log pslog.Logger, ev keys.Event) error {
	switch {
	case ev.Is(keys.NameEscape):
		log.Info("quit requested", "key", ev.String())
		s.shutdown(log, nil)
	case ev.IsControl('C'):
		// Raw mode delivers Ctrl-C as a byte instead of a signal
		log.Info("interrupt key", "key", ev.String())
		s.shutdown(log, nil)
	case ev.Submits():
		return s.submit(log)
	case ev.Is(keys.NameBackspace):
		if s.edit != "" {
			_, size := utf8.DecodeLastRuneInString(s.edit)
			s.edit = s.edit[:len(s.edit)-size]
		}
	case ev.Kind == keys.KindPrintable:
		s.edit += string(ev.Char)
	case ev.Is(keys.NameResize):
		// Geometry is recomputed at the start of the next tick
	default:
		log.Debug("key ignored", "key", ev.String())
	}
	return nil
}

// submit sends the edit line and moves it into the send history
func (s *Session) submit(log pslog.Logger) error {
	text := s.edit
	if err := s.line.Send(text); err != nil {
		return err
	}
	s.sent.Append(text)
	s.edit = ""
	log.Debug("line sent", "len", len(text))
	return nil
}

func (s *Session) frame() render.Frame {
	return render.Frame{
		Geometry: s.geometry,
		Sent:     s.sent,
		Received: s.received,
		Edit:     s.edit,
	}
}

func (s *Session) shutdown(log pslog.Logger, err error) {
	if s.state != StateRunning {
		return
	}
	s.err = err
	if err != nil {
		log.With("err", err).Error("session fault")
	}
	s.setState(log, StateShuttingDown)
}

func (s *Session) setState(log pslog.Logger, next State) {
	if s.state == next {
		return
	}
	log.Info("session state", "from", s.state.String(), "to", next.String())
	s.state = next
}

// restore hands the terminal back. Only the first call has an effect
func (s *Session) restore(log pslog.Logger) {
	s.restoreOnce.Do(func() {
		s.drv.Restore()
		log.Debug("terminal restored")
	})
}
