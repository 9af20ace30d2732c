package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/term"

	"github.com/agentbrowser/agent-browser/internal/command"
	"github.com/agentbrowser/agent-browser/internal/ipc"
)

var confirmStdin io.Reader = os.Stdin

var stdinIsTermFn = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }

// pendingConfirmation is the part of a response that asks the user to
// approve an action before the worker performs it.
type pendingConfirmation struct {
	id          string
	category    string
	description string
}

func confirmationRequest(resp *ipc.Response) (pendingConfirmation, bool) {
	if resp == nil || !resp.HasData() {
		return pendingConfirmation{}, false
	}
	data := gjson.ParseBytes(resp.Data)
	if !data.Get("confirmation_required").Bool() {
		return pendingConfirmation{}, false
	}

	desc := data.Get("description").String()
	if desc == "" {
		desc = "unknown action"
	}
	return pendingConfirmation{
		id:          data.Get("confirmation_id").String(),
		category:    data.Get("category").String(),
		description: desc,
	}, true
}

// askConfirmation prompts on stderr and reads the answer from stdin. A
// stdin that is not a terminal always denies.
func askConfirmation(p pendingConfirmation, stderr io.Writer) bool {
	fmt.Fprintln(stderr, "[agent-browser] Action requires confirmation:")
	fmt.Fprintf(stderr, "  %s: %s\n", p.category, p.description)
	fmt.Fprint(stderr, "  Allow? [y/N]: ")

	if !stdinIsTermFn() {
		fmt.Fprintln(stderr)
		return false
	}
	line, err := bufio.NewReader(confirmStdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// resolveConfirmation answers a pending confirmation and returns the
// worker's reply to that answer.
func resolveConfirmation(c sender, p pendingConfirmation, approved bool) (*ipc.Response, error) {
	action := "deny"
	if approved {
		action = "confirm"
	}
	return c.Send(ipc.Request{"id": command.NewID(), "action": action, "confirmationId": p.id})
}
