//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package transport

import "errors"

func inputQueued(int) (int, error) {
	return 0, errors.ErrUnsupported
}
