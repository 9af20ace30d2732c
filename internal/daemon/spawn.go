package daemon

import (
	"fmt"
	"os"
	"os/exec"
)

var execCommandFn = exec.Command

// workerSpec is everything needed to start one worker process.
type workerSpec struct {
	Runtime string
	Script  string
	Env     []string
}

// spawnDetachedWorker starts the worker in its own session or process
// group with its standard streams on the null device, and returns its pid
// without waiting for it.
func spawnDetachedWorker(spec workerSpec) (int, error) {
	cmd, cleanup, err := newWorkerCommand(spec)
	if err != nil {
		return 0, err
	}
	defer cleanup()

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start daemon: %w", err)
	}

	pid := cmd.Process.Pid
	go cmd.Wait() //nolint:errcheck
	return pid, nil
}

func newWorkerCommand(spec workerSpec) (*exec.Cmd, func(), error) {
	cmd := execCommandFn(spec.Runtime, spec.Script)
	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", os.DevNull, err)
	}

	cmd.Stdin = devNull
	cmd.Stdout = devNull
	cmd.Stderr = devNull
	cmd.Env = spec.Env
	cmd.SysProcAttr = detachedProcAttr()
	return cmd, func() {
		_ = devNull.Close()
	}, nil
}
