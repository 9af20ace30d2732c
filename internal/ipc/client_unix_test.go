//go:build !windows

package ipc

import "golang.org/x/sys/unix"

func errConnRefused() error { return unix.ECONNREFUSED }
