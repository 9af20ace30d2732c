package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/agentbrowser/agent-browser/internal/command"
)

// builtinCommands are handled by the CLI itself rather than sent to a worker.
var builtinCommands = []string{"completion", "mcp", "session"}

func runCompletionCommand(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "agent-browser: usage: agent-browser completion <bash|zsh|fish>")
		return 1
	}

	script, ok := completionScripts[strings.ToLower(args[0])]
	if !ok {
		fmt.Fprintf(stderr, "agent-browser: unknown shell for completion: %s\n", args[0])
		return 1
	}

	_, _ = io.WriteString(stdout, script)
	return 0
}

func runInternalCompletion(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "agent-browser: usage: agent-browser __complete <verbs|subverbs|flags> ...")
		return 1
	}

	switch args[0] {
	case "verbs":
		if len(args) != 1 {
			fmt.Fprintln(stderr, "agent-browser: usage: agent-browser __complete verbs")
			return 1
		}
		for _, v := range uniqueSorted(append(command.Verbs(), builtinCommands...)) {
			fmt.Fprintln(stdout, v)
		}
		return 0
	case "subverbs":
		if len(args) != 2 {
			fmt.Fprintln(stderr, "agent-browser: usage: agent-browser __complete subverbs <verb>")
			return 1
		}
		for _, v := range completeSubverbs(args[1]) {
			fmt.Fprintln(stdout, v)
		}
		return 0
	case "flags":
		if len(args) != 1 {
			fmt.Fprintln(stderr, "agent-browser: usage: agent-browser __complete flags")
			return 1
		}
		for _, f := range globalFlagNames() {
			fmt.Fprintln(stdout, f)
		}
		return 0
	default:
		fmt.Fprintf(stderr, "agent-browser: unknown completion query: %s\n", args[0])
		return 1
	}
}

func completeSubverbs(verb string) []string {
	switch verb {
	case "session":
		return []string{"list"}
	case "completion":
		return []string{"bash", "fish", "zsh"}
	}
	return command.SubVerbs(verb)
}

func globalFlagNames() []string {
	var names []string
	for _, f := range globalFlags {
		names = append(names, f.names...)
	}
	return uniqueSorted(names)
}

func uniqueSorted(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
