//go:build linux

package transport

import "golang.org/x/sys/unix"

// inputQueued returns the number of bytes waiting to be read on fd
func inputQueued(fd int) (int, error) {
	return unix.IoctlGetInt(fd, unix.TIOCINQ)
}
