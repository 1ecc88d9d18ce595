package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const banner = "\nPress escape key to exit at any time.   Press return to enter serial monitor."

func printBanner(out io.Writer) {
	fmt.Fprintln(out, banner)
}

// awaitStart reads one key. Escape and Ctrl-C decline, anything else starts
func awaitStart(in io.Reader) (bool, error) {
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if n == 1 {
			switch buf[0] {
			case 0x1b, 0x03:
				return false, nil
			}
			return true, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, err
		}
	}
}

// awaitStartRaw reads the start key from the terminal without line buffering or echo
func awaitStartRaw(f *os.File) (bool, error) {
	fd := int(f.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return false, err
	}
	defer term.Restore(fd, state)
	return awaitStart(f)
}
