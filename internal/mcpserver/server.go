// Package mcpserver exposes the browser command pipeline as a single MCP
// tool over stdio.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/tidwall/gjson"

	"github.com/agentbrowser/agent-browser/internal/command"
	"github.com/agentbrowser/agent-browser/internal/daemon"
	"github.com/agentbrowser/agent-browser/internal/ipc"
	"github.com/agentbrowser/agent-browser/internal/paths"
)

const (
	toolName = "browser"
	// freshStartSettle gives a just-spawned worker time to finish launching
	// the browser before the first command.
	freshStartSettle = 500 * time.Millisecond
)

type sender interface {
	Send(req ipc.Request) (*ipc.Response, error)
}

var (
	ensureDaemonFn = daemon.EnsureDaemon
	newClientFn    = func(ep ipc.Endpoint) sender { return ipc.NewClient(ep) }
	sleepFn        = time.Sleep
)

// Options configure the worker each tool call is routed to.
type Options struct {
	// Session is used when a call does not name one.
	Session string
	Launch  daemon.LaunchOptions
	Globals command.Globals
}

// New returns an MCP server with the browser tool registered.
func New(opts Options, version string) *server.MCPServer {
	s := server.NewMCPServer("agent-browser", version, server.WithToolCapabilities(false))
	s.AddTool(browserTool(), handler(opts))
	return s
}

// Serve runs the MCP server on in/out until ctx is done or in is closed.
func Serve(ctx context.Context, in io.Reader, out io.Writer, opts Options, version string) error {
	stdio := server.NewStdioServer(New(opts, version))
	err := stdio.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func browserTool() mcp.Tool {
	return mcp.NewTool(toolName,
		mcp.WithDescription("Run an agent-browser command, for example \"open example.com\", \"snapshot -i\" or \"click @e2\"."),
		mcp.WithString("command",
			mcp.Required(),
			mcp.Description("The command line after agent-browser, quoted like a shell command."),
		),
		mcp.WithString("session",
			mcp.Description("Browser session to run the command in."),
		),
	)
}

func handler(opts Options) server.ToolHandlerFunc {
	return func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		line, err := request.RequireString("command")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		session := request.GetString("session", opts.Session)
		if session == "" {
			session = paths.DefaultSession
		}

		text, err := run(line, session, opts)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(text), nil
	}
}

// run translates line, makes sure session has a worker and returns the
// text of the worker's reply.
func run(line, session string, opts Options) (string, error) {
	req, err := command.Translate(command.SplitLine(line), opts.Globals)
	if err != nil {
		var perr command.ParseError
		if errors.As(err, &perr) {
			return "", fmt.Errorf("%s: %w", perr.Type(), err)
		}
		return "", err
	}

	result, err := ensureDaemonFn(session, opts.Launch)
	if err != nil {
		return "", err
	}
	if !result.AlreadyRunning {
		log.Debug("worker started", "session", session)
		sleepFn(freshStartSettle)
	}

	resp, err := newClientFn(result.Session.Endpoint).Send(req)
	if err != nil {
		return "", err
	}
	if !resp.Success {
		if resp.Error == "" {
			return "", errors.New("command failed")
		}
		return "", errors.New(resp.Error)
	}
	return resultText(resp), nil
}

// resultText picks the readable part of a successful reply: a string
// payload or a well-known text field, else the data as JSON.
func resultText(resp *ipc.Response) string {
	if !resp.HasData() {
		return "ok"
	}
	data := gjson.ParseBytes(resp.Data)
	if data.Type == gjson.String {
		return data.String()
	}
	for _, field := range []string{"snapshot", "text", "html", "url"} {
		if v := data.Get(field); v.Type == gjson.String {
			return v.String()
		}
	}
	return strings.TrimSpace(data.Raw)
}
