package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/micromon/config"
)

// rootOptions are the flags that are not configuration keys
type rootOptions struct {
	configPath string
	yes        bool
}

func addConfigFlags(root *cobra.Command, opts *rootOptions) {
	def := config.Default()
	pf := root.PersistentFlags()

	pf.StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/micromon/config.yaml)")
	pf.IntP("baud", "b", def.Baud, "serial baud rate")
	pf.StringP("terminator", "t", def.Terminator, "line terminator: n, r or both")
	pf.BoolP("all", "a", def.All, "list every serial port, not only USB adapters")
	pf.IntP("port", "p", def.Port, "1-based index of the port to open, skips the prompt")
	pf.StringP("device", "d", def.Device, "device path, pty, tcp://host:port or ws://host/path")
	pf.BoolP("monochrome", "m", def.Monochrome, "no accent color")
	pf.String("accent", def.Accent, "accent color as #rrggbb")
	pf.String("driver", def.Driver, "terminal driver: ansi or tcell")
	pf.String("color", def.Color, "color mode: auto, 256 or truecolor")
	pf.Duration("poll", def.PollInterval, "key poll interval (100ms-250ms)")
	pf.Bool("bell", def.Bell, "chime when a line is received")
	pf.Duration("wait", def.Wait, "keep retrying to open the device for this long")
	pf.Bool("debug", def.Debug, "write a debug log to logs/micromon.log")

	root.Flags().BoolVarP(&opts.yes, "yes", "y", false, "start the monitor without waiting for return")
}

// loadConfig resolves the configuration for a command, flags included
func loadConfig(cmd *cobra.Command, opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.configPath, cmd.Flags())
	if err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			data, err := cfg.YAML()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if path := config.ConfigFileUsed(opts.configPath); path != "" {
				fmt.Fprintf(out, "# %s\n", path)
			}
			_, err = out.Write(data)
			return err
		},
	}
}

func newPortsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List serial ports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return listPorts(cmd.Context(), cmd.OutOrStdout(), cfg.All)
		},
	}
}

