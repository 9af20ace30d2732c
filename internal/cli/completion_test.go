package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunCompletionCommandBash(t *testing.T) {
	var out bytes.Buffer
	var errOut bytes.Buffer

	code := runCompletionCommand([]string{"bash"}, &out, &errOut)
	if code != 0 {
		t.Fatalf("runCompletionCommand() code = %d, want 0", code)
	}
	if errOut.Len() != 0 {
		t.Fatalf("stderr = %q, want empty", errOut.String())
	}
	for _, want := range []string{
		"agent-browser __complete verbs",
		`agent-browser __complete subverbs "$verb"`,
		"agent-browser __complete flags",
		"complete -F _agent_browser_completion agent-browser",
	} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("bash completion missing %q: %q", want, out.String())
		}
	}
}

func TestRunCompletionCommandShellNamesAreCaseInsensitive(t *testing.T) {
	for _, shell := range []string{"ZSH", "Fish"} {
		var out bytes.Buffer
		var errOut bytes.Buffer

		if code := runCompletionCommand([]string{shell}, &out, &errOut); code != 0 {
			t.Fatalf("runCompletionCommand(%q) code = %d, want 0", shell, code)
		}
		if !strings.Contains(out.String(), "agent-browser __complete verbs") {
			t.Fatalf("%s completion missing verb query: %q", shell, out.String())
		}
	}
}

func TestRunCompletionCommandUnknownShell(t *testing.T) {
	var out bytes.Buffer
	var errOut bytes.Buffer

	code := runCompletionCommand([]string{"powershell"}, &out, &errOut)
	if code != 1 {
		t.Fatalf("runCompletionCommand() code = %d, want 1", code)
	}
	if out.Len() != 0 {
		t.Fatalf("stdout = %q, want empty", out.String())
	}
	if !strings.Contains(errOut.String(), "unknown shell for completion") {
		t.Fatalf("stderr = %q, want unknown shell error", errOut.String())
	}
}

func TestRunInternalCompletionRequiresQueryType(t *testing.T) {
	var out bytes.Buffer
	var errOut bytes.Buffer

	code := runInternalCompletion(nil, &out, &errOut)
	if code != 1 {
		t.Fatalf("runInternalCompletion() code = %d, want 1", code)
	}
	if !strings.Contains(errOut.String(), "usage") {
		t.Fatalf("stderr = %q, want usage error", errOut.String())
	}
}

func TestRunInternalCompletionVerbsIncludesBuiltins(t *testing.T) {
	var out bytes.Buffer
	var errOut bytes.Buffer

	if code := runInternalCompletion([]string{"verbs"}, &out, &errOut); code != 0 {
		t.Fatalf("runInternalCompletion() code = %d, stderr = %q", code, errOut.String())
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	got := make(map[string]bool, len(lines))
	for _, l := range lines {
		got[l] = true
	}
	for _, want := range []string{"open", "click", "snapshot", "tab", "session", "mcp", "completion"} {
		if !got[want] {
			t.Fatalf("verbs missing %q: %v", want, lines)
		}
	}
}

func TestRunInternalCompletionSubverbs(t *testing.T) {
	tests := []struct {
		verb string
		want string
	}{
		{verb: "tab", want: "close\nlist\nnew\n"},
		{verb: "session", want: "list\n"},
		{verb: "click", want: ""},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		var errOut bytes.Buffer
		if code := runInternalCompletion([]string{"subverbs", tt.verb}, &out, &errOut); code != 0 {
			t.Fatalf("subverbs %s code = %d, stderr = %q", tt.verb, code, errOut.String())
		}
		if out.String() != tt.want {
			t.Fatalf("subverbs %s = %q, want %q", tt.verb, out.String(), tt.want)
		}
	}
}

func TestRunInternalCompletionFlags(t *testing.T) {
	var out bytes.Buffer
	var errOut bytes.Buffer

	if code := runInternalCompletion([]string{"flags"}, &out, &errOut); code != 0 {
		t.Fatalf("runInternalCompletion() code = %d", code)
	}
	for _, want := range []string{"--session\n", "--headed\n", "-p\n", "--max-output\n"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("flags missing %q: %q", want, out.String())
		}
	}
}
