package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/micromon/driver"
	"github.com/lixenwraith/micromon/keys"
	"github.com/lixenwraith/micromon/layout"
	"github.com/lixenwraith/micromon/scrollback"
	"github.com/lixenwraith/micromon/terminal"
	"github.com/lixenwraith/micromon/terminal/tui"
)

const probeLabel = "◦ keys (ctrl-c quits):   "

func newKeysCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Show the raw code and decoded event of each key press",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			theme, err := cfg.Theme()
			if err != nil {
				return err
			}
			modes, err := cfg.ColorModes()
			if err != nil {
				return err
			}
			kind, err := driver.ParseKind(cfg.Driver)
			if err != nil {
				return err
			}
			drv, err := driver.Open(kind, modes...)
			if err != nil {
				return fmt.Errorf("terminal: %w", err)
			}
			return probeKeys(cmd.Context(), drv, theme)
		},
	}
}

// probeKeys logs decoded keys until Ctrl-C or cancellation, then restores the terminal
func probeKeys(ctx context.Context, drv driver.Driver, theme tui.Theme) error {
	defer drv.Restore()

	history := scrollback.New()
	for ctx.Err() == nil {
		w, h := drv.Size()
		drv.Clear()
		drv.WriteAt(0, 0, layout.Divider(probeLabel, w), theme.Accent)
		for i, line := range history.Window(h-1, w) {
			drv.WriteAt(1+i, 0, line, theme.Text)
		}
		drv.MoveCursor(0, 0)
		if err := drv.Show(); err != nil {
			return err
		}

		code, ok, err := drv.PollKey(250 * time.Millisecond)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		ev := keys.Decode(code)
		history.Append(fmt.Sprintf("%-10s %s", terminal.CodeName(code), ev))
		if ev.IsControl('C') {
			return nil
		}
	}
	return nil
}
