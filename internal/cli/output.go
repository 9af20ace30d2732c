package cli

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/agentbrowser/agent-browser/internal/command"
	"github.com/agentbrowser/agent-browser/internal/ipc"
	"github.com/agentbrowser/agent-browser/internal/paths"
)

type outputOptions struct {
	json              bool
	contentBoundaries bool
	// maxOutput truncates page content to this many characters; 0 means no
	// limit.
	maxOutput int
}

var boundaryNonce = sync.OnceValue(func() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("generating boundary nonce: %v", err))
	}
	return hex.EncodeToString(buf)
})

type boundaryInfo struct {
	Nonce  string `json:"nonce"`
	Origin string `json:"origin"`
}

type boundedResponse struct {
	*ipc.Response
	Boundary *boundaryInfo `json:"_boundary,omitempty"`
}

// writeResponse prints resp and returns the exit code it implies.
func writeResponse(stdout, stderr io.Writer, resp *ipc.Response, opts outputOptions) int {
	if opts.json {
		writeJSONResponse(stdout, resp, opts)
	} else {
		writeTextResponse(stdout, stderr, resp, opts)
	}
	if !resp.Success {
		return 1
	}
	return 0
}

func writeJSONResponse(w io.Writer, resp *ipc.Response, opts outputOptions) {
	out := boundedResponse{Response: resp}
	if opts.contentBoundaries {
		origin := "unknown"
		if v := gjson.GetBytes(resp.Data, "origin"); v.Type == gjson.String {
			origin = v.String()
		}
		out.Boundary = &boundaryInfo{Nonce: boundaryNonce(), Origin: origin}
	}
	line, err := ipc.EncodeLine(out)
	if err != nil {
		fmt.Fprintf(w, "{\"success\":false,\"error\":%q}\n", err.Error())
		return
	}
	_, _ = w.Write(line)
}

func writeTextResponse(stdout, stderr io.Writer, resp *ipc.Response, opts outputOptions) {
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "Unknown error"
		}
		printError(stderr, "%s", msg)
		return
	}
	if !resp.HasData() {
		printSuccess(stdout, "Done")
		return
	}

	data := gjson.ParseBytes(resp.Data)
	if data.Type == gjson.String {
		writeContent(stdout, data.String(), "", opts)
		return
	}
	origin := data.Get("origin").String()

	url, title := data.Get("url"), data.Get("title")
	switch {
	case url.Type == gjson.String && title.Type == gjson.String:
		printSuccess(stdout, "%s", boldStyle.Render(title.String()))
		fmt.Fprintf(stdout, "  %s\n", dimStyle.Render(url.String()))
	case url.Type == gjson.String:
		fmt.Fprintln(stdout, url.String())
	case data.Get("snapshot").Type == gjson.String:
		writeContent(stdout, data.Get("snapshot").String(), origin, opts)
	case title.Type == gjson.String:
		fmt.Fprintln(stdout, title.String())
	case data.Get("text").Type == gjson.String:
		writeContent(stdout, data.Get("text").String(), origin, opts)
	case data.Get("html").Type == gjson.String:
		writeContent(stdout, data.Get("html").String(), origin, opts)
	case data.Get("value").Type == gjson.String:
		fmt.Fprintln(stdout, data.Get("value").String())
	case data.Get("count").Type == gjson.Number:
		fmt.Fprintln(stdout, data.Get("count").Int())
	case data.Get("visible").IsBool():
		fmt.Fprintln(stdout, data.Get("visible").Bool())
	case data.Get("enabled").IsBool():
		fmt.Fprintln(stdout, data.Get("enabled").Bool())
	case data.Get("checked").IsBool():
		fmt.Fprintln(stdout, data.Get("checked").Bool())
	case data.Get("result").Exists():
		writeContent(stdout, indentJSON(data.Get("result").Raw), origin, opts)
	case data.Get("tabs").IsArray():
		for i, tab := range data.Get("tabs").Array() {
			marker := " "
			if tab.Get("active").Bool() {
				marker = markerStyle.Render("→")
			}
			name := tab.Get("title").String()
			if name == "" {
				name = "Untitled"
			}
			fmt.Fprintf(stdout, "%s [%d] %s - %s\n", marker, i, name, tab.Get("url").String())
		}
	case data.Get("messages").IsArray():
		var b strings.Builder
		for _, m := range data.Get("messages").Array() {
			level := m.Get("type").String()
			if level == "" {
				level = "log"
			}
			fmt.Fprintf(&b, "[%s] %s\n", level, m.Get("text").String())
		}
		writeContent(stdout, strings.TrimSuffix(b.String(), "\n"), origin, opts)
	case data.Get("errors").IsArray():
		for _, e := range data.Get("errors").Array() {
			printError(stdout, "%s", e.Get("message").String())
		}
	case data.Get("cookies").IsArray():
		for _, c := range data.Get("cookies").Array() {
			fmt.Fprintf(stdout, "%s=%s\n", c.Get("name").String(), c.Get("value").String())
		}
	case data.Get("closed").Exists():
		printSuccess(stdout, "Browser closed")
	default:
		printSuccess(stdout, "Done")
	}
}

// writeContent prints page-derived text, truncated to opts.maxOutput and
// wrapped in boundary markers when requested.
func writeContent(w io.Writer, content, origin string, opts outputOptions) {
	content = truncateContent(content, opts.maxOutput)
	if !opts.contentBoundaries {
		fmt.Fprintln(w, content)
		return
	}
	if origin == "" {
		origin = "unknown"
	}
	nonce := boundaryNonce()
	fmt.Fprintf(w, "--- AGENT_BROWSER_PAGE_CONTENT nonce=%s origin=%s ---\n", nonce, origin)
	fmt.Fprintln(w, content)
	fmt.Fprintf(w, "--- END_AGENT_BROWSER_PAGE_CONTENT nonce=%s ---\n", nonce)
}

func truncateContent(content string, limit int) string {
	if limit <= 0 || len(content) <= limit {
		return content
	}
	total := utf8.RuneCountInString(content)
	if total <= limit {
		return content
	}
	cut, n := 0, 0
	for i := range content {
		if n == limit {
			cut = i
			break
		}
		n++
	}
	return fmt.Sprintf("%s\n[truncated: showing %d of %d chars. Use --max-output to adjust]", content[:cut], limit, total)
}

func indentJSON(raw string) string {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return raw
	}
	return string(out)
}

// writeFailure reports a fatal condition in the active output mode.
func writeFailure(stdout, stderr io.Writer, jsonMode bool, err error) int {
	if jsonMode {
		writeJSONError(stdout, err.Error(), errorKind(err))
	} else {
		printError(stderr, "%s", err)
	}
	return 1
}

// errorKind is the "type" reported for err in --json output, or "" when err
// has no machine-readable kind.
func errorKind(err error) string {
	var perr command.ParseError
	if errors.As(err, &perr) {
		return perr.Type()
	}
	var nameErr *paths.InvalidSessionNameError
	if errors.As(err, &nameErr) {
		return "invalid_session_name"
	}
	return ""
}

func writeJSONError(w io.Writer, msg, kind string) {
	out := map[string]any{"success": false, "error": strings.ReplaceAll(msg, "\n", " ")}
	if kind != "" {
		out["type"] = kind
	}
	line, err := ipc.EncodeLine(out)
	if err != nil {
		return
	}
	_, _ = w.Write(line)
}
