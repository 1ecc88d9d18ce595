//go:build unix

package terminal

import (
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// trueColorEnv lists variables whose presence identifies a 24-bit capable emulator
var trueColorEnv = []string{
	"KITTY_WINDOW_ID",
	"KONSOLE_VERSION",
	"ITERM_SESSION_ID",
	"ALACRITTY_WINDOW_ID",
	"ALACRITTY_LOG",
	"WEZTERM_PANE",
}

// DetectColorMode determines terminal color capability from environment
func DetectColorMode() ColorMode {
	switch strings.ToLower(os.Getenv("COLORTERM")) {
	case "truecolor", "24bit":
		return ColorModeTrueColor
	}

	for _, name := range trueColorEnv {
		if os.Getenv(name) != "" {
			return ColorModeTrueColor
		}
	}

	term := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(term, "truecolor") ||
		strings.Contains(term, "24bit") ||
		strings.Contains(term, "direct") {
		return ColorModeTrueColor
	}

	return ColorMode256
}

// resetTerminalMode attempts to restore terminal to cooked mode
// Best-effort for crash recovery; errors ignored
func resetTerminalMode() {
	// /dev/tty works even if stdin is redirected
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return
	}
	defer tty.Close()

	fd := int(tty.Fd())
	termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return
	}
	termios.Lflag |= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
	termios.Iflag |= unix.ICRNL
	termios.Oflag |= unix.OPOST
	unix.IoctlSetTermios(fd, ioctlSetTermios, termios)
}
