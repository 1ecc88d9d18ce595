//go:build darwin || freebsd || netbsd || openbsd || dragonfly

package transport

import "golang.org/x/sys/unix"

func inputQueued(fd int) (int, error) {
	return unix.IoctlGetInt(fd, unix.FIONREAD)
}
