//go:build windows

package ipc

func errConnRefused() error { return wsaEConnRefused }
