package daemon

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/agentbrowser/agent-browser/internal/paths"
)

// LiveSessions returns the sessions in dir whose pid file names a running
// process. It never starts or contacts a worker.
func LiveSessions(dir string) ([]string, error) {
	names, err := paths.ListSessions(dir)
	if err != nil {
		return nil, err
	}

	live := make([]string, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name+".pid"))
		if err != nil {
			continue
		}
		pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
		if err != nil || !processAliveFn(pid) {
			continue
		}
		live = append(live, name)
	}
	return live, nil
}
