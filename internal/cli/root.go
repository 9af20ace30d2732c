package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/agentbrowser/agent-browser/internal/command"
	"github.com/agentbrowser/agent-browser/internal/config"
	"github.com/agentbrowser/agent-browser/internal/daemon"
	"github.com/agentbrowser/agent-browser/internal/ipc"
	"github.com/agentbrowser/agent-browser/internal/mcpserver"
)

type sender interface {
	Send(req ipc.Request) (*ipc.Response, error)
}

var (
	loadConfigFn   = config.Load
	lookupEnvFn    = os.LookupEnv
	ensureDaemonFn = daemon.EnsureDaemon
	newClientFn    = func(ep ipc.Endpoint) sender { return ipc.NewClient(ep) }
	serveMCPFn     = mcpserver.Serve
)

// Run is the main CLI entry point. Returns an exit code.
func Run(args []string) int {
	cfg, err := loadConfigFn()
	if err != nil {
		fmt.Fprintf(rootStderr, "agent-browser: %v\n", err)
		return 1
	}
	if verr := config.Validate(cfg); verr != nil {
		fmt.Fprintf(rootStderr, "agent-browser: invalid config: %v\n", verr)
		return 1
	}

	opts, rest, err := parseGlobalOptions(args, cfg, lookupEnvFn)
	if err != nil {
		jsonMode := false
		for _, a := range args {
			jsonMode = jsonMode || a == "--json"
		}
		return writeFailure(rootStdout, rootStderr, jsonMode, err)
	}
	if opts.debug {
		log.SetLevel(log.DebugLevel)
	}

	if handled, code := handleInfoFlags(opts, rest); handled {
		return code
	}

	switch rest[0] {
	case "completion":
		return runCompletionCommand(rest[1:], rootStdout, rootStderr)
	case "__complete":
		return runInternalCompletion(rest[1:], rootStdout, rootStderr)
	case "session":
		return runSession(rest[1:], opts.session, opts.json, rootStdout, rootStderr)
	case "mcp":
		return runMCP(opts)
	}

	req, err := command.Translate(rest, opts.commandGlobals())
	if err != nil {
		return writeFailure(rootStdout, rootStderr, opts.json, err)
	}
	if err := checkExclusiveOptions(opts); err != nil {
		return writeFailure(rootStdout, rootStderr, opts.json, err)
	}

	return execute(req, opts)
}

// execute makes sure the session's worker is up, applies launch options
// and sends req.
func execute(req ipc.Request, opts *globalOptions) int {
	steps, err := launchSteps(opts)
	if err != nil {
		return writeFailure(rootStdout, rootStderr, opts.json, err)
	}

	result, err := ensureDaemonFn(opts.session, opts.launchOptions())
	if err != nil {
		return writeFailure(rootStdout, rootStderr, opts.json, err)
	}
	if result.AlreadyRunning && !opts.json {
		if ignored := opts.cliLaunchFlags(); len(ignored) > 0 {
			printWarning(rootStderr, "%s ignored: daemon already running. Use 'agent-browser close' first to restart with new options.", strings.Join(ignored, ", "))
		}
	}

	client := newClientFn(result.Session.Endpoint)
	for _, step := range steps {
		if err := sendLaunch(client, step); err != nil {
			return writeFailure(rootStdout, rootStderr, opts.json, err)
		}
	}

	out := outputOptions{json: opts.json, contentBoundaries: opts.contentBoundaries, maxOutput: opts.maxOutput}
	resp, err := client.Send(req)
	if err != nil {
		return writeFailure(rootStdout, rootStderr, opts.json, err)
	}

	if opts.confirmInteractive {
		if pending, ok := confirmationRequest(resp); ok {
			approved := askConfirmation(pending, rootStderr)
			answer, err := resolveConfirmation(client, pending, approved)
			if err != nil {
				return writeFailure(rootStdout, rootStderr, opts.json, err)
			}
			if !approved {
				printError(rootStderr, "Action denied")
				return 1
			}
			return writeResponse(rootStdout, rootStderr, answer, out)
		}
	}

	return writeResponse(rootStdout, rootStderr, resp, out)
}

func sendLaunch(client sender, step launchStep) error {
	resp, err := client.Send(step.req)
	if err != nil {
		return fmt.Errorf("could not configure browser: %w", err)
	}
	if !resp.Success {
		if resp.Error == "" {
			return errors.New(step.fallback)
		}
		return errors.New(resp.Error)
	}
	return nil
}

func runMCP(opts *globalOptions) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mcpOpts := mcpserver.Options{
		Session: opts.session,
		Launch:  opts.launchOptions(),
		Globals: opts.commandGlobals(),
	}
	if err := serveMCPFn(ctx, os.Stdin, rootStdout, mcpOpts, buildVersion); err != nil {
		fmt.Fprintf(rootStderr, "agent-browser mcp: %v\n", err)
		return 1
	}
	return 0
}
