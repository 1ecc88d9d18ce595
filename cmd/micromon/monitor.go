package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/lixenwraith/micromon/bell"
	"github.com/lixenwraith/micromon/config"
	"github.com/lixenwraith/micromon/driver"
	"github.com/lixenwraith/micromon/session"
	"github.com/lixenwraith/micromon/transport"
)

// errNotTerminal is returned when stdin cannot drive the dashboard
var errNotTerminal = errors.New("stdin is not a terminal")

func runMonitor(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	logFile, logger := setupLogging(cfg.Debug)
	if logFile != nil {
		defer logFile.Close()
	}
	logger = logger.With("run", uuid.New().String())
	ctx := pslog.ContextWithLogger(cmd.Context(), logger)

	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return errNotTerminal
	}

	out := cmd.OutOrStdout()
	lt, ep, err := connect(ctx, cfg, out)
	if err != nil {
		return err
	}
	defer lt.Close()

	if !opts.yes {
		printBanner(out)
		start, err := awaitStartRaw(os.Stdin)
		if err != nil {
			return err
		}
		if !start {
			logger.Info("start declined")
			return nil
		}
	}

	stats, err := monitor(ctx, cfg, lt)
	fmt.Fprintln(out, summary(ep, stats))
	return err
}

// connect selects and opens the device and reports what was opened
func connect(ctx context.Context, cfg config.Config, out io.Writer) (*transport.LineTransport, transport.Endpoint, error) {
	term, err := cfg.LineTerminator()
	if err != nil {
		return nil, transport.Endpoint{}, err
	}

	ep, err := selectEndpoint(cfg, out, chooseWithForm)
	if err != nil {
		return nil, transport.Endpoint{}, err
	}
	fmt.Fprintf(out, " -> Port selection: %s\n", ep)

	bt, err := transport.OpenWithRetry(ctx, ep, transport.Options{
		Baud: cfg.Baud,
		OnVirtual: func(path string) {
			fmt.Fprintf(out, " -> Virtual device ready at %s\n", path)
		},
	}, cfg.Wait)
	if err != nil {
		return nil, ep, err
	}

	if ep.Kind == transport.KindSerial {
		fmt.Fprintf(out, " -> Serial port connection opened at %d baud\n", cfg.Baud)
	} else {
		fmt.Fprintf(out, " -> Connection opened to %s\n", ep.Name)
	}
	return transport.NewLine(bt, term), ep, nil
}

// monitor runs the dashboard. The terminal is restored when it returns
func monitor(ctx context.Context, cfg config.Config, lt *transport.LineTransport) (transport.Stats, error) {
	log := pslog.Ctx(ctx)

	theme, err := cfg.Theme()
	if err != nil {
		return transport.Stats{}, err
	}
	modes, err := cfg.ColorModes()
	if err != nil {
		return transport.Stats{}, err
	}
	kind, err := driver.ParseKind(cfg.Driver)
	if err != nil {
		return transport.Stats{}, err
	}

	opts := session.Options{
		PollInterval: cfg.PollInterval,
		Theme:        theme,
	}
	if cfg.Bell {
		b := bell.New(bell.DefaultInterval)
		if err := b.Initialize(); err != nil {
			log.Warn("bell unavailable", "err", err)
		} else {
			defer b.Close()
			opts.Notifier = b
		}
	}

	drv, err := driver.Open(kind, modes...)
	if err != nil {
		return transport.Stats{}, fmt.Errorf("terminal: %w", err)
	}

	s := session.New(drv, lt, opts)
	log.Info("session start", "session", s.ID(), "driver", string(kind), "terminator", lt.Terminator().String())
	err = s.Run(ctx)
	return s.Stats(), err
}

// summary describes the traffic of a finished run
func summary(ep transport.Endpoint, st transport.Stats) string {
	return fmt.Sprintf("%s: sent %s in %s, received %s in %s",
		ep.Name,
		humanize.Bytes(st.BytesSent), lines(st.LinesSent),
		humanize.Bytes(st.BytesReceived), lines(st.LinesReceived))
}

func lines(n uint64) string {
	if n == 1 {
		return "1 line"
	}
	return humanize.Comma(int64(n)) + " lines"
}
