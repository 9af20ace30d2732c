package daemon

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/agentbrowser/agent-browser/internal/ipc"
	"github.com/agentbrowser/agent-browser/internal/paths"
)

func saveEnsureHooks() func() {
	oldDial := dialFn
	oldAlive := processAliveFn
	oldSleep := sleepFn
	oldLock := lockFn
	oldLocate := locateWorkerFn
	oldLookPath := lookPathFn
	oldSpawn := spawnFn
	oldProbe := probeFn
	oldResolve := resolveSessionFn
	oldEnviron := parentEnvironFn
	oldEnsureDir := ensureSocketDirFn

	return func() {
		dialFn = oldDial
		processAliveFn = oldAlive
		sleepFn = oldSleep
		lockFn = oldLock
		locateWorkerFn = oldLocate
		lookPathFn = oldLookPath
		spawnFn = oldSpawn
		probeFn = oldProbe
		resolveSessionFn = oldResolve
		parentEnvironFn = oldEnviron
		ensureSocketDirFn = oldEnsureDir
	}
}

// setupSessionDir points the resolver at a short temp dir and stubs
// everything that would touch the real system.
func setupSessionDir(t *testing.T) (paths.Session, *[]time.Duration) {
	t.Helper()

	dir, err := os.MkdirTemp("", "ab")
	if err != nil {
		t.Fatalf("MkdirTemp() error = %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	t.Setenv("AGENT_BROWSER_SOCKET_DIR", dir)

	restore := saveEnsureHooks()
	t.Cleanup(restore)

	var sleeps []time.Duration
	sleepFn = func(d time.Duration) { sleeps = append(sleeps, d) }
	locateWorkerFn = func() (string, error) { return "/opt/agent-browser/dist/daemon.js", nil }
	lookPathFn = func(name string) (string, error) { return "/usr/bin/" + name, nil }
	parentEnvironFn = func() []string { return []string{"PATH=/usr/bin", "AGENT_BROWSER_SESSION=stale"} }
	spawnFn = func(workerSpec) (int, error) {
		t.Fatal("spawn should not be called")
		return 0, nil
	}

	s, err := paths.Resolve("work")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	return s, &sleeps
}

func writePID(t *testing.T, s paths.Session, pid int) {
	t.Helper()
	if err := os.WriteFile(s.PIDPath, []byte(strconv.Itoa(pid)+"\n"), 0600); err != nil {
		t.Fatalf("write pid file: %v", err)
	}
}

func listen(t *testing.T, s paths.Session) net.Listener {
	t.Helper()
	ln, err := net.Listen(s.Endpoint.Network, s.Endpoint.Address)
	if err != nil {
		t.Fatalf("listen %s: %v", s.Endpoint, err)
	}
	t.Cleanup(func() { ln.Close() })
	return ln
}

func TestEnsureDaemonReusesResponsiveWorker(t *testing.T) {
	s, sleeps := setupSessionDir(t)
	writePID(t, s, os.Getpid())
	listen(t, s)

	res, err := EnsureDaemon("work", LaunchOptions{Headed: true})
	if err != nil {
		t.Fatalf("EnsureDaemon() error = %v", err)
	}
	if !res.AlreadyRunning {
		t.Fatal("EnsureDaemon() AlreadyRunning = false, want true")
	}
	if diff := cmp.Diff([]time.Duration{recheckDelay}, *sleeps); diff != "" {
		t.Fatalf("sleeps mismatch (-want +got):\n%s", diff)
	}
}

func TestEnsureDaemonRespawnsCrashedWorker(t *testing.T) {
	s, _ := setupSessionDir(t)
	// The pid is alive but nothing listens: the worker crashed or hung.
	writePID(t, s, os.Getpid())
	if err := os.WriteFile(s.PortPath, []byte("50000"), 0600); err != nil {
		t.Fatalf("write port file: %v", err)
	}

	var got workerSpec
	spawnFn = func(spec workerSpec) (int, error) {
		got = spec
		if _, err := os.Stat(s.PIDPath); !os.IsNotExist(err) {
			t.Errorf("pid file not removed before spawn, stat err = %v", err)
		}
		if _, err := os.Stat(s.PortPath); !os.IsNotExist(err) {
			t.Errorf("port file not removed before spawn, stat err = %v", err)
		}
		if _, err := os.Stat(filepath.Join(s.Dir, writeTestName)); !os.IsNotExist(err) {
			t.Errorf("write probe left behind, stat err = %v", err)
		}
		listen(t, s)
		return 4242, nil
	}

	res, err := EnsureDaemon("work", LaunchOptions{Headed: true, Proxy: "http://proxy:8080"})
	if err != nil {
		t.Fatalf("EnsureDaemon() error = %v", err)
	}
	if res.AlreadyRunning {
		t.Fatal("EnsureDaemon() AlreadyRunning = true, want false")
	}
	if got.Runtime != "/usr/bin/node" || got.Script != "/opt/agent-browser/dist/daemon.js" {
		t.Fatalf("spawn spec = %+v", got)
	}

	wantEnv := []string{
		"PATH=/usr/bin",
		"AGENT_BROWSER_DAEMON=1",
		"AGENT_BROWSER_SESSION=work",
		"AGENT_BROWSER_HEADED=1",
		"AGENT_BROWSER_PROXY=http://proxy:8080",
	}
	if diff := cmp.Diff(wantEnv, got.Env); diff != "" {
		t.Fatalf("worker env mismatch (-want +got):\n%s", diff)
	}
}

func TestEnsureDaemonIgnoresDeadPID(t *testing.T) {
	s, _ := setupSessionDir(t)
	writePID(t, s, 999999)

	processAliveFn = func(pid int) bool { return false }
	// Only the new worker, which rewrites the pid file, answers.
	dialFn = func(ipc.Endpoint, time.Duration) bool { return spawned(s) }
	spawnFn = func(workerSpec) (int, error) {
		writePID(t, s, 1)
		return 1, nil
	}

	res, err := EnsureDaemon("work", LaunchOptions{})
	if err != nil {
		t.Fatalf("EnsureDaemon() error = %v", err)
	}
	if res.AlreadyRunning {
		t.Fatal("EnsureDaemon() AlreadyRunning = true, want false")
	}
}

func spawned(s paths.Session) bool {
	_, err := os.Stat(s.PIDPath)
	return err == nil
}

func TestEnsureDaemonRestartsWorkerThatStopsDuringRecheck(t *testing.T) {
	s, sleeps := setupSessionDir(t)
	writePID(t, s, os.Getpid())

	calls := 0
	dialFn = func(ipc.Endpoint, time.Duration) bool {
		calls++
		// Probe succeeds, the recheck after the shutdown grace fails, then
		// the probe under the lock fails, then the new worker answers.
		return calls == 1 || calls >= 4
	}
	var didSpawn bool
	spawnFn = func(workerSpec) (int, error) {
		didSpawn = true
		return 7, nil
	}

	res, err := EnsureDaemon("work", LaunchOptions{})
	if err != nil {
		t.Fatalf("EnsureDaemon() error = %v", err)
	}
	if res.AlreadyRunning || !didSpawn {
		t.Fatalf("AlreadyRunning = %v, spawned = %v; want fresh start", res.AlreadyRunning, didSpawn)
	}
	if len(*sleeps) == 0 || (*sleeps)[0] != recheckDelay {
		t.Fatalf("sleeps = %v, want recheck delay first", *sleeps)
	}
}

func TestEnsureDaemonSeesWorkerStartedWhileWaitingForLock(t *testing.T) {
	setupSessionDir(t)

	probes := 0
	probeFn = func(paths.Session) bool {
		probes++
		return probes == 2
	}

	res, err := EnsureDaemon("work", LaunchOptions{})
	if err != nil {
		t.Fatalf("EnsureDaemon() error = %v", err)
	}
	if !res.AlreadyRunning {
		t.Fatal("EnsureDaemon() AlreadyRunning = false, want true")
	}
}

func TestEnsureDaemonTimesOutWhenWorkerNeverListens(t *testing.T) {
	s, sleeps := setupSessionDir(t)
	dialFn = func(ipc.Endpoint, time.Duration) bool { return false }
	spawnFn = func(workerSpec) (int, error) { return 9, nil }

	_, err := EnsureDaemon("work", LaunchOptions{})
	var startErr *StartError
	if !errors.As(err, &startErr) {
		t.Fatalf("EnsureDaemon() error = %v, want StartError", err)
	}
	if !strings.Contains(err.Error(), s.SocketPath) {
		t.Fatalf("error %q does not name the socket", err)
	}
	if len(*sleeps) != pollAttempts {
		t.Fatalf("poll slept %d times, want %d", len(*sleeps), pollAttempts)
	}
}

func TestEnsureDaemonRequiresRuntime(t *testing.T) {
	setupSessionDir(t)
	lookPathFn = lookPath

	_, err := EnsureDaemon("work", LaunchOptions{Runtime: "agent-browser-no-such-runtime"})
	if err == nil || !strings.Contains(err.Error(), `required runtime "agent-browser-no-such-runtime" not found in PATH`) {
		t.Fatalf("EnsureDaemon() error = %v, want missing runtime", err)
	}
}

func TestEnsureDaemonReportsMissingWorker(t *testing.T) {
	setupSessionDir(t)
	locateWorkerFn = func() (string, error) { return "", ErrWorkerNotFound }

	_, err := EnsureDaemon("work", LaunchOptions{})
	if !errors.Is(err, ErrWorkerNotFound) {
		t.Fatalf("EnsureDaemon() error = %v, want ErrWorkerNotFound", err)
	}
}

func TestEnsureDaemonRejectsLongSessionBeforeAnyIO(t *testing.T) {
	setupSessionDir(t)
	ensureSocketDirFn = func(string) error {
		t.Fatal("socket dir touched for invalid session")
		return nil
	}

	_, err := EnsureDaemon(strings.Repeat("x", 120), LaunchOptions{})
	var tooLong *paths.SocketPathTooLongError
	if !errors.As(err, &tooLong) {
		t.Fatalf("EnsureDaemon() error = %v, want SocketPathTooLongError", err)
	}
}

func TestEnsureDaemonReportsUncreatableSocketDir(t *testing.T) {
	setupSessionDir(t)
	ensureSocketDirFn = func(string) error { return os.ErrPermission }

	_, err := EnsureDaemon("work", LaunchOptions{})
	if err == nil || !strings.Contains(err.Error(), "failed to create socket directory") {
		t.Fatalf("EnsureDaemon() error = %v, want socket dir failure", err)
	}
}
