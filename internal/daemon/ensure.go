package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/agentbrowser/agent-browser/internal/ipc"
	"github.com/agentbrowser/agent-browser/internal/paths"
)

const (
	probeTimeout = 250 * time.Millisecond
	// recheckDelay outlasts the worker's own 100ms shutdown grace period.
	recheckDelay  = 150 * time.Millisecond
	pollInterval  = 100 * time.Millisecond
	pollAttempts  = 50
	writeTestName = ".write_test"
)

var (
	dialFn            = ipc.Probe
	processAliveFn    = processAlive
	sleepFn           = time.Sleep
	lockFn            = acquireSessionLock
	locateWorkerFn    = locateWorker
	lookPathFn        = lookPath
	spawnFn           = spawnDetachedWorker
	probeFn           = probe
	resolveSessionFn  = paths.Resolve
	parentEnvironFn   = os.Environ
	ensureSocketDirFn = paths.EnsureDir
)

// Result reports how EnsureDaemon satisfied the request.
type Result struct {
	// AlreadyRunning is true when an existing worker was reused, in which
	// case the LaunchOptions passed to EnsureDaemon were not applied.
	AlreadyRunning bool
	Session        paths.Session
}

// StartError reports a worker that was spawned but never became reachable.
type StartError struct {
	Endpoint ipc.Endpoint
}

func (e *StartError) Error() string {
	if e.Endpoint.Network == "tcp" {
		return fmt.Sprintf("daemon failed to start (address: %s)", e.Endpoint.Address)
	}
	return fmt.Sprintf("daemon failed to start (socket: %s)", e.Endpoint.Address)
}

// EnsureDaemon makes sure a worker for session is accepting connections,
// starting one with opts if needed.
func EnsureDaemon(session string, opts LaunchOptions) (Result, error) {
	s, err := resolveSessionFn(session)
	if err != nil {
		return Result{}, err
	}

	if probeFn(s) {
		// A worker that is shutting down still answers briefly.
		sleepFn(recheckDelay)
		if dialFn(s.Endpoint, probeTimeout) {
			log.Debug("reusing running daemon", "session", s.Name, "endpoint", s.Endpoint)
			return Result{AlreadyRunning: true, Session: s}, nil
		}
		log.Debug("daemon stopped answering during recheck", "session", s.Name)
	}

	if err := ensureSocketDirFn(s.Dir); err != nil {
		return Result{}, fmt.Errorf("failed to create socket directory %s: %w", s.Dir, err)
	}

	release, err := lockFn(s.LockPath)
	if err != nil {
		return Result{}, fmt.Errorf("acquiring session lock: %w", err)
	}
	defer release() //nolint:errcheck

	// Another invocation may have finished starting the worker while we
	// waited for the lock.
	if probeFn(s) {
		log.Debug("daemon started by concurrent invocation", "session", s.Name)
		return Result{AlreadyRunning: true, Session: s}, nil
	}

	cleanStale(s)

	if err := preflight(s); err != nil {
		return Result{}, err
	}

	script, err := locateWorkerFn()
	if err != nil {
		return Result{}, err
	}
	runtimeName := opts.Runtime
	if runtimeName == "" {
		runtimeName = "node"
	}
	runtimePath, err := lookPathFn(runtimeName)
	if err != nil {
		return Result{}, err
	}

	pid, err := spawnFn(workerSpec{
		Runtime: runtimePath,
		Script:  script,
		Env:     mergeEnv(parentEnvironFn(), opts.Env(s.Name)),
	})
	if err != nil {
		return Result{}, err
	}
	log.Debug("spawned daemon", "session", s.Name, "pid", pid, "script", script)

	for i := 0; i < pollAttempts; i++ {
		if dialFn(s.Endpoint, probeTimeout) {
			log.Debug("daemon ready", "session", s.Name, "attempts", i+1)
			return Result{Session: s}, nil
		}
		sleepFn(pollInterval)
	}
	return Result{}, &StartError{Endpoint: s.Endpoint}
}

// probe reports whether a worker for s looks alive: its pid file exists,
// the pid (when readable) is a live process and the endpoint accepts a
// connection.
func probe(s paths.Session) bool {
	data, err := os.ReadFile(s.PIDPath)
	if err != nil {
		return false
	}
	if pid, err := strconv.Atoi(strings.TrimSpace(string(data))); err == nil && !processAliveFn(pid) {
		log.Debug("stale pid file", "session", s.Name, "pid", pid)
		return false
	}
	return dialFn(s.Endpoint, probeTimeout)
}

// cleanStale removes the artifacts a previous worker left behind. The new
// worker's successful listen is the source of truth, not these files.
func cleanStale(s paths.Session) {
	for _, p := range []string{s.PIDPath, s.SocketPath, s.PortPath} {
		if err := os.Remove(p); err == nil {
			log.Debug("removed stale file", "path", p)
		}
	}
}

func preflight(s paths.Session) error {
	if s.Endpoint.Network == "unix" {
		if err := paths.CheckSocketPathLength(s.Name, s.SocketPath); err != nil {
			return err
		}
	}

	probePath := filepath.Join(s.Dir, writeTestName)
	if err := os.WriteFile(probePath, nil, 0600); err != nil {
		return fmt.Errorf("socket directory %s is not writable: %w", s.Dir, err)
	}
	_ = os.Remove(probePath)
	return nil
}

// ErrWorkerNotFound means no daemon.js was found in any search location.
var ErrWorkerNotFound = errors.New("daemon not found: set AGENT_BROWSER_HOME to the agent-browser install directory or run from the project directory")
