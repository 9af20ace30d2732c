package ipc

import (
	"io"
	"net"
	"time"

	"github.com/agentbrowser/agent-browser/internal/paths"
)

// Endpoint is where a session's worker listens: a Unix socket path or a
// loopback TCP address.
type Endpoint = paths.Endpoint

// Conn is the byte stream used for one request/response exchange. Both
// *net.UnixConn and *net.TCPConn satisfy it.
type Conn interface {
	io.ReadWriteCloser
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
}

var netDialTimeoutFn = net.DialTimeout

// Dial connects to ep, giving up after timeout.
func Dial(ep Endpoint, timeout time.Duration) (Conn, error) {
	conn, err := netDialTimeoutFn(ep.Network, ep.Address, timeout)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Probe reports whether something accepts connections at ep.
func Probe(ep Endpoint, timeout time.Duration) bool {
	conn, err := Dial(ep, timeout)
	if err != nil {
		return false
	}
	conn.Close() //nolint:errcheck
	return true
}
