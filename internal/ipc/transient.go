package ipc

import (
	"errors"
	"io"
	"os"
	"strings"
)

// ErrEmptyResponse is returned when the worker replies with a blank line.
var ErrEmptyResponse = errors.New("empty response from daemon")

var transientMessageTokens = []string{
	"resource temporarily unavailable",
	"would block",
	"connection reset",
	"broken pipe",
	"connection refused",
	"no such file or directory",
}

// IsTransient reports whether err is a transport failure worth retrying:
// a busy, resetting or not-yet-listening worker. An expired socket deadline
// counts as busy, the same as a would-block read. Protocol errors and
// everything outside the known set are permanent.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var protoErr *ProtocolError
	if errors.As(err, &protoErr) {
		return false
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, ErrEmptyResponse) {
		return true
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	if isTransientErrno(err) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, token := range transientMessageTokens {
		if strings.Contains(msg, token) {
			return true
		}
	}
	return false
}
