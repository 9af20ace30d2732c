package paths

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
)

// DefaultSession is used when no --session flag or AGENT_BROWSER_SESSION is set.
const DefaultSession = "default"

// MaxSocketPathLen is the usable byte length of a Unix domain socket path
// (sun_path is 104 bytes on macOS including the terminator).
const MaxSocketPathLen = 103

const (
	portRangeStart = 49152
	portRangeSize  = 16383
)

// Endpoint names the address a session's worker listens on.
type Endpoint struct {
	Network string // "unix" or "tcp"
	Address string
}

func (e Endpoint) String() string {
	return e.Network + ":" + e.Address
}

// Session holds the on-disk artifacts and the endpoint for one named session.
type Session struct {
	Name       string
	Dir        string
	PIDPath    string
	SocketPath string
	PortPath   string
	LockPath   string
	Port       int
	Endpoint   Endpoint
}

// InvalidSessionNameError reports a session name that cannot be used as a
// file name component.
type InvalidSessionNameError struct {
	Name string
}

func (e *InvalidSessionNameError) Error() string {
	return fmt.Sprintf("invalid session name %q: use letters, digits, '.', '_' or '-' and do not start with '.'", e.Name)
}

// SocketPathTooLongError reports a socket path over the domain-socket limit.
type SocketPathTooLongError struct {
	Session string
	Path    string
	Length  int
	Max     int
}

func (e *SocketPathTooLongError) Error() string {
	return fmt.Sprintf("session name %q is too long: socket path would be %d bytes (max %d); use a shorter session name or set AGENT_BROWSER_SOCKET_DIR to a shorter path",
		e.Session, e.Length, e.Max)
}

// Resolve returns the paths and endpoint for session under SocketDir().
func Resolve(session string) (Session, error) {
	return resolveIn(SocketDir(), session, runtime.GOOS)
}

func resolveIn(dir, session, goos string) (Session, error) {
	if err := ValidateSessionName(session); err != nil {
		return Session{}, err
	}

	s := Session{
		Name:       session,
		Dir:        dir,
		PIDPath:    filepath.Join(dir, session+".pid"),
		SocketPath: filepath.Join(dir, session+".sock"),
		PortPath:   filepath.Join(dir, session+".port"),
		LockPath:   filepath.Join(dir, session+".lock"),
		Port:       PortForSession(session),
	}

	if usesTCP(goos) {
		s.Endpoint = Endpoint{Network: "tcp", Address: net.JoinHostPort("127.0.0.1", strconv.Itoa(s.Port))}
		return s, nil
	}

	s.Endpoint = Endpoint{Network: "unix", Address: s.SocketPath}
	if err := CheckSocketPathLength(session, s.SocketPath); err != nil {
		return Session{}, err
	}
	return s, nil
}

func usesTCP(goos string) bool {
	return goos == "windows"
}

// ValidateSessionName rejects names that are empty, start with '.', or
// contain anything other than letters, digits, '.', '_' and '-'.
func ValidateSessionName(name string) error {
	if name == "" || strings.HasPrefix(name, ".") {
		return &InvalidSessionNameError{Name: name}
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '_', r == '-':
		default:
			return &InvalidSessionNameError{Name: name}
		}
	}
	return nil
}

// CheckSocketPathLength rejects socket paths that would not fit in sun_path.
func CheckSocketPathLength(session, socketPath string) error {
	if n := len(socketPath); n > MaxSocketPathLen {
		return &SocketPathTooLongError{Session: session, Path: socketPath, Length: n, Max: MaxSocketPathLen}
	}
	return nil
}

// PortForSession derives the loopback port for session. The hash wraps at
// 32 bits so the worker can compute the same value without a port file.
func PortForSession(session string) int {
	var h int32
	for _, c := range session {
		h = (h << 5) - h + int32(c)
	}
	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return portRangeStart + int(abs%portRangeSize)
}

// ListSessions returns the names of sessions with a pid file in dir, sorted.
func ListSessions(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name, ok := strings.CutSuffix(e.Name(), ".pid")
		if !ok || name == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
