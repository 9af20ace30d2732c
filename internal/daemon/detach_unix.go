//go:build !windows

package daemon

import "syscall"

// A new session detaches the worker from the controlling terminal, so
// Ctrl-C in the caller's shell does not reach it.
func detachedProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
