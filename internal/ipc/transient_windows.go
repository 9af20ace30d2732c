//go:build windows

package ipc

import (
	"errors"
	"syscall"

	"golang.org/x/sys/windows"
)

// Winsock codes for would-block, reset and refused.
const (
	wsaEWouldBlock  syscall.Errno = 10035
	wsaEConnReset   syscall.Errno = 10054
	wsaEConnRefused syscall.Errno = 10061
)

var transientErrnos = []syscall.Errno{
	wsaEWouldBlock,
	wsaEConnReset,
	wsaEConnRefused,
	windows.ERROR_FILE_NOT_FOUND,
	windows.ERROR_BROKEN_PIPE,
	windows.ERROR_NO_DATA,
}

func isTransientErrno(err error) bool {
	for _, errno := range transientErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
