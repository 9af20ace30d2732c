package daemon

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const workerScript = "daemon.js"

var (
	executableFn = os.Executable
	statFn       = os.Stat
)

// workerCandidates lists where daemon.js may live, most specific first.
func workerCandidates(home, exeDir string) []string {
	var candidates []string
	if home != "" {
		candidates = append(candidates,
			filepath.Join(home, "dist", workerScript),
			filepath.Join(home, workerScript),
		)
	}
	if exeDir != "" {
		candidates = append(candidates,
			filepath.Join(exeDir, workerScript),
			filepath.Join(exeDir, "..", "dist", workerScript),
		)
	}
	return append(candidates, filepath.Join("dist", workerScript))
}

func locateWorker() (string, error) {
	exeDir := ""
	if exe, err := executableFn(); err == nil {
		// npm installs the binary behind a symlink in its bin directory.
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		exeDir = filepath.Dir(exe)
	}

	candidates := workerCandidates(strings.TrimSpace(os.Getenv("AGENT_BROWSER_HOME")), exeDir)
	for _, p := range candidates {
		if info, err := statFn(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w (searched %s)", ErrWorkerNotFound, strings.Join(candidates, ", "))
}

func lookPath(runtime string) (string, error) {
	p, err := exec.LookPath(runtime)
	if err != nil {
		return "", fmt.Errorf("required runtime %q not found in PATH", runtime)
	}
	return p, nil
}
