package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"pkt.systems/pslog"

	"github.com/lixenwraith/micromon/config"
	"github.com/lixenwraith/micromon/transport"
)

// chooser asks the operator to pick one of several endpoints
type chooser func(eps []transport.Endpoint) (transport.Endpoint, error)

// discover is replaced in tests
var discover = transport.Discover

func listPorts(ctx context.Context, out io.Writer, all bool) error {
	eps, err := discover(all)
	if err != nil {
		return err
	}
	pslog.Ctx(ctx).Debug("ports listed", "count", len(eps), "all", all)
	for i, ep := range eps {
		fmt.Fprintf(out, "   %d. %s\n", i+1, ep)
	}
	return nil
}

// selectEndpoint resolves the device to open: an explicit device first, then a
// port index, then the only port found, and finally the operator's choice
func selectEndpoint(cfg config.Config, out io.Writer, choose chooser) (transport.Endpoint, error) {
	if cfg.Device != "" {
		return transport.ParseEndpoint(cfg.Device), nil
	}

	eps, err := discover(cfg.All)
	if err != nil {
		if errors.Is(err, transport.ErrNoEndpoints) {
			return transport.Endpoint{}, fmt.Errorf("no usb serial ports available, please check that devices are connected: %w", err)
		}
		return transport.Endpoint{}, err
	}

	if cfg.Port > 0 {
		return transport.Pick(eps, cfg.Port)
	}
	if len(eps) == 1 {
		fmt.Fprintln(out, "One serial port available:")
		return eps[0], nil
	}
	return choose(eps)
}

// chooseWithForm shows a select list of the ports
func chooseWithForm(eps []transport.Endpoint) (transport.Endpoint, error) {
	options := make([]huh.Option[int], 0, len(eps))
	for i, ep := range eps {
		options = append(options, huh.NewOption(fmt.Sprintf("%d. %s", i+1, ep), i+1))
	}

	index := 1
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Please select a serial device").
				Options(options...).
				Value(&index),
		),
	).Run()
	if err != nil {
		return transport.Endpoint{}, err
	}
	return transport.Pick(eps, index)
}
