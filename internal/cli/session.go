package cli

import (
	"fmt"
	"io"

	"github.com/agentbrowser/agent-browser/internal/daemon"
	"github.com/agentbrowser/agent-browser/internal/ipc"
	"github.com/agentbrowser/agent-browser/internal/paths"
)

var liveSessionsFn = daemon.LiveSessions

// runSession prints the current session, or with "list" the sessions that
// have a running worker. It never starts a worker.
func runSession(args []string, current string, jsonMode bool, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] != "list" {
		if jsonMode {
			return writeJSONData(stdout, map[string]any{"session": current})
		}
		fmt.Fprintln(stdout, current)
		return 0
	}

	sessions, err := liveSessionsFn(paths.SocketDir())
	if err != nil {
		return writeFailure(stdout, stderr, jsonMode, fmt.Errorf("listing sessions: %w", err))
	}
	if sessions == nil {
		sessions = []string{}
	}

	if jsonMode {
		return writeJSONData(stdout, map[string]any{"sessions": sessions})
	}
	if len(sessions) == 0 {
		fmt.Fprintln(stdout, "No active sessions")
		return 0
	}
	fmt.Fprintln(stdout, "Active sessions:")
	for _, s := range sessions {
		marker := " "
		if s == current {
			marker = markerStyle.Render("→")
		}
		fmt.Fprintf(stdout, "%s %s\n", marker, s)
	}
	return 0
}

func writeJSONData(w io.Writer, data any) int {
	line, err := ipc.EncodeLine(map[string]any{"success": true, "data": data})
	if err != nil {
		return 1
	}
	_, _ = w.Write(line)
	return 0
}
