//go:build !windows

package ipc

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
)

var transientErrnos = []syscall.Errno{
	unix.EAGAIN,
	unix.EWOULDBLOCK,
	unix.ECONNRESET,
	unix.EPIPE,
	unix.ENOENT,
	unix.ECONNREFUSED,
}

func isTransientErrno(err error) bool {
	for _, errno := range transientErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
