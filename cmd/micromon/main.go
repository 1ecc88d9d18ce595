// Command micromon is a two-pane terminal monitor for line oriented serial devices.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"pkt.systems/psi"
	"pkt.systems/pslog"

	"github.com/lixenwraith/micromon/terminal"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) (code int) {
	// Restore the terminal even if something below panics outside the session
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mMICROMON CRASHED: %v\x1b[0m\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			code = 1
		}
	}()

	root := newRootCmd()
	root.SetArgs(os.Args[1:])

	if err := root.ExecuteContext(ctx); err != nil {
		pslog.Ctx(ctx).With("err", err).Error("micromon failed")
		// The terminal is back in normal mode by now
		fmt.Fprintln(root.OutOrStdout(), "Error:", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "micromon",
		Short: "Talk to a serial device in a split send/receive terminal view",
		Long: `micromon opens a serial device (or a pty, tcp:// or ws:// bridge) and shows
sent lines above received lines. Type a line and press return to send it;
press escape to quit.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMonitor(cmd, opts)
		},
	}

	addConfigFlags(root, opts)

	root.AddCommand(newPortsCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	root.AddCommand(newKeysCmd(opts))
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "micromon %s\n", version)
			return err
		},
	}
}
