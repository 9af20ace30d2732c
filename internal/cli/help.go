package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/agentbrowser/agent-browser/internal/command"
)

func printRootHelp(out io.Writer) {
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "  agent-browser <command> [args...] [options]")
	fmt.Fprintln(out, "  agent-browser session [list]")
	fmt.Fprintln(out, "  agent-browser mcp")
	fmt.Fprintln(out, "  agent-browser completion <bash|zsh|fish>")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Commands:")
	for _, verb := range command.Verbs() {
		usage, _ := command.Usage(verb)
		fmt.Fprintf(out, "  %-16s %s\n", verb, usage)
	}
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Options:")
	fmt.Fprintln(out, "  --session <name>          Isolated browser session (default: default)")
	fmt.Fprintln(out, "  --json                    Print raw JSON responses")
	fmt.Fprintln(out, "  --full                    Full-page screenshot")
	fmt.Fprintln(out, "  --headed                  Show the browser window")
	fmt.Fprintln(out, "  --headers <json>          Extra HTTP headers for open")
	fmt.Fprintln(out, "  --executable-path <path>  Browser executable")
	fmt.Fprintln(out, "  --extension <path>        Load a browser extension (repeatable)")
	fmt.Fprintln(out, "  --cdp <port|url>          Connect to a browser over CDP")
	fmt.Fprintln(out, "  --auto-connect            Connect to a running browser")
	fmt.Fprintln(out, "  -p, --provider <name>     Use a cloud browser provider")
	fmt.Fprintln(out, "  --profile <path>          Persistent browser profile")
	fmt.Fprintln(out, "  --state <path>            Load storage state")
	fmt.Fprintln(out, "  --proxy <url>             Proxy server, credentials allowed")
	fmt.Fprintln(out, "  --proxy-bypass <hosts>    Hosts that skip the proxy")
	fmt.Fprintln(out, "  --args <list>             Extra browser arguments, comma separated")
	fmt.Fprintln(out, "  --user-agent <ua>         Custom user agent")
	fmt.Fprintln(out, "  --ignore-https-errors     Ignore certificate errors")
	fmt.Fprintln(out, "  --allow-file-access       Allow file:// pages to read local files")
	fmt.Fprintln(out, "  --device <name>           iOS device")
	fmt.Fprintln(out, "  --session-name <name>     Persist auth state under this name")
	fmt.Fprintln(out, "  --download-path <dir>     Download directory")
	fmt.Fprintln(out, "  --allowed-domains <list>  Restrict navigation to these domains")
	fmt.Fprintln(out, "  --action-policy <path>    Action policy file")
	fmt.Fprintln(out, "  --confirm-actions <list>  Action categories that need confirmation")
	fmt.Fprintln(out, "  --confirm-interactive     Prompt for confirmations on the terminal")
	fmt.Fprintln(out, "  --color-scheme <scheme>   dark, light or no-preference")
	fmt.Fprintln(out, "  --content-boundaries      Wrap page content in boundary markers")
	fmt.Fprintln(out, "  --max-output <chars>      Truncate page content")
	fmt.Fprintln(out, "  --debug                   Debug logging on stderr")
	fmt.Fprintln(out, "  --help, -h                Show help")
	fmt.Fprintln(out, "  --version, -V             Show version")
}

// printCommandHelp prints the synopsis for verb and reports whether verb
// is known.
func printCommandHelp(out io.Writer, verb string) bool {
	usage, ok := command.Usage(verb)
	if !ok {
		return false
	}
	fmt.Fprintf(out, "Usage: agent-browser %s %s\n", verb, usage)
	if subs := command.SubVerbs(verb); len(subs) > 0 {
		fmt.Fprintf(out, "\nSubcommands: %s\n", strings.Join(subs, ", "))
	}
	return true
}
