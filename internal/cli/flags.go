package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agentbrowser/agent-browser/internal/command"
	"github.com/agentbrowser/agent-browser/internal/config"
	"github.com/agentbrowser/agent-browser/internal/daemon"
	"github.com/agentbrowser/agent-browser/internal/paths"
)

// globalOptions are the options accepted anywhere on the command line.
type globalOptions struct {
	session string
	json    bool
	full    bool
	debug   bool
	headers string
	help    bool
	version bool

	headed            bool
	executablePath    string
	extensions        []string
	cdp               string
	profile           string
	state             string
	proxy             string
	proxyBypass       string
	args              string
	userAgent         string
	provider          string
	ignoreHTTPSErrors bool
	allowFileAccess   bool
	device            string
	autoConnect       bool
	sessionName       string
	downloadPath      string
	allowedDomains    []string
	actionPolicy      string
	confirmActions    string
	colorScheme       string
	nodePath          string

	confirmInteractive bool
	contentBoundaries  bool
	maxOutput          int

	// fromCLI holds the primary name of every flag given on the command
	// line, as opposed to the environment or config file.
	fromCLI map[string]bool
}

type flagKind int

const (
	kindBool flagKind = iota
	kindValue
	kindList
)

// globalFlag describes one global option. set receives "true"/"false" for
// bool flags, the raw value for value flags and a comma-joined list for
// list flags.
type globalFlag struct {
	names []string
	env   string
	kind  flagKind
	// launch marks options that only take effect when a worker starts.
	launch bool
	set    func(o *globalOptions, value string) error
}

func (f globalFlag) primary() string { return f.names[0] }

func setString(field func(o *globalOptions) *string) func(*globalOptions, string) error {
	return func(o *globalOptions, v string) error {
		*field(o) = v
		return nil
	}
}

func setBool(field func(o *globalOptions) *bool) func(*globalOptions, string) error {
	return func(o *globalOptions, v string) error {
		*field(o) = parseBoolValue(v)
		return nil
	}
}

func setList(field func(o *globalOptions) *[]string) func(*globalOptions, string) error {
	return func(o *globalOptions, v string) error {
		*field(o) = splitList(v)
		return nil
	}
}

var globalFlags = []globalFlag{
	{names: []string{"--session"}, env: "AGENT_BROWSER_SESSION", kind: kindValue, set: setString(func(o *globalOptions) *string { return &o.session })},
	{names: []string{"--json"}, env: "AGENT_BROWSER_JSON", kind: kindBool, set: setBool(func(o *globalOptions) *bool { return &o.json })},
	{names: []string{"--full"}, kind: kindBool, set: setBool(func(o *globalOptions) *bool { return &o.full })},
	{names: []string{"--debug"}, env: "AGENT_BROWSER_DEBUG", kind: kindBool, set: setBool(func(o *globalOptions) *bool { return &o.debug })},
	{names: []string{"--headers"}, kind: kindValue, set: setString(func(o *globalOptions) *string { return &o.headers })},
	{names: []string{"--help", "-h"}, kind: kindBool, set: setBool(func(o *globalOptions) *bool { return &o.help })},
	{names: []string{"--version", "-V"}, kind: kindBool, set: setBool(func(o *globalOptions) *bool { return &o.version })},

	{names: []string{"--headed"}, env: "AGENT_BROWSER_HEADED", kind: kindBool, set: setBool(func(o *globalOptions) *bool { return &o.headed })},
	{names: []string{"--executable-path"}, env: "AGENT_BROWSER_EXECUTABLE_PATH", kind: kindValue, launch: true, set: setString(func(o *globalOptions) *string { return &o.executablePath })},
	{names: []string{"--extension"}, env: "AGENT_BROWSER_EXTENSIONS", kind: kindList, launch: true, set: setList(func(o *globalOptions) *[]string { return &o.extensions })},
	{names: []string{"--cdp"}, env: "AGENT_BROWSER_CDP", kind: kindValue, set: setString(func(o *globalOptions) *string { return &o.cdp })},
	{names: []string{"--profile"}, env: "AGENT_BROWSER_PROFILE", kind: kindValue, launch: true, set: setString(func(o *globalOptions) *string { return &o.profile })},
	{names: []string{"--state"}, env: "AGENT_BROWSER_STATE", kind: kindValue, launch: true, set: setString(func(o *globalOptions) *string { return &o.state })},
	{names: []string{"--proxy"}, env: "AGENT_BROWSER_PROXY", kind: kindValue, launch: true, set: setString(func(o *globalOptions) *string { return &o.proxy })},
	{names: []string{"--proxy-bypass"}, env: "AGENT_BROWSER_PROXY_BYPASS", kind: kindValue, launch: true, set: setString(func(o *globalOptions) *string { return &o.proxyBypass })},
	{names: []string{"--args"}, env: "AGENT_BROWSER_ARGS", kind: kindValue, launch: true, set: setString(func(o *globalOptions) *string { return &o.args })},
	{names: []string{"--user-agent"}, env: "AGENT_BROWSER_USER_AGENT", kind: kindValue, launch: true, set: setString(func(o *globalOptions) *string { return &o.userAgent })},
	{names: []string{"--provider", "-p"}, env: "AGENT_BROWSER_PROVIDER", kind: kindValue, set: setString(func(o *globalOptions) *string { return &o.provider })},
	{names: []string{"--ignore-https-errors"}, env: "AGENT_BROWSER_IGNORE_HTTPS_ERRORS", kind: kindBool, launch: true, set: setBool(func(o *globalOptions) *bool { return &o.ignoreHTTPSErrors })},
	{names: []string{"--allow-file-access"}, env: "AGENT_BROWSER_ALLOW_FILE_ACCESS", kind: kindBool, launch: true, set: setBool(func(o *globalOptions) *bool { return &o.allowFileAccess })},
	{names: []string{"--device"}, env: "AGENT_BROWSER_IOS_DEVICE", kind: kindValue, set: setString(func(o *globalOptions) *string { return &o.device })},
	{names: []string{"--auto-connect"}, env: "AGENT_BROWSER_AUTO_CONNECT", kind: kindBool, set: setBool(func(o *globalOptions) *bool { return &o.autoConnect })},
	{names: []string{"--session-name"}, env: "AGENT_BROWSER_SESSION_NAME", kind: kindValue, set: setString(func(o *globalOptions) *string { return &o.sessionName })},
	{names: []string{"--download-path"}, env: "AGENT_BROWSER_DOWNLOAD_PATH", kind: kindValue, launch: true, set: setString(func(o *globalOptions) *string { return &o.downloadPath })},
	{names: []string{"--allowed-domains"}, env: "AGENT_BROWSER_ALLOWED_DOMAINS", kind: kindList, set: setList(func(o *globalOptions) *[]string { return &o.allowedDomains })},
	{names: []string{"--action-policy"}, env: "AGENT_BROWSER_ACTION_POLICY", kind: kindValue, set: setString(func(o *globalOptions) *string { return &o.actionPolicy })},
	{names: []string{"--confirm-actions"}, env: "AGENT_BROWSER_CONFIRM_ACTIONS", kind: kindValue, set: setString(func(o *globalOptions) *string { return &o.confirmActions })},
	{names: []string{"--confirm-interactive"}, env: "AGENT_BROWSER_CONFIRM_INTERACTIVE", kind: kindBool, set: setBool(func(o *globalOptions) *bool { return &o.confirmInteractive })},
	{names: []string{"--color-scheme"}, env: "AGENT_BROWSER_COLOR_SCHEME", kind: kindValue, set: setString(func(o *globalOptions) *string { return &o.colorScheme })},
	{names: []string{"--content-boundaries"}, env: "AGENT_BROWSER_CONTENT_BOUNDARIES", kind: kindBool, set: setBool(func(o *globalOptions) *bool { return &o.contentBoundaries })},
	{names: []string{"--max-output"}, env: "AGENT_BROWSER_MAX_OUTPUT", kind: kindValue, set: func(o *globalOptions, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid --max-output value %q: must be a non-negative integer", v)
		}
		o.maxOutput = n
		return nil
	}},
}

func lookupGlobalFlag(token string) (globalFlag, bool) {
	for _, f := range globalFlags {
		for _, name := range f.names {
			if name == token {
				return f, true
			}
		}
	}
	return globalFlag{}, false
}

// parseGlobalOptions extracts global flags from anywhere in args and
// returns the remaining tokens in order. Values come from, lowest first:
// the config file, AGENT_BROWSER_* environment variables, then the command
// line.
func parseGlobalOptions(args []string, cfg *config.Config, lookupEnv func(string) (string, bool)) (*globalOptions, []string, error) {
	opts := &globalOptions{session: paths.DefaultSession, fromCLI: make(map[string]bool)}
	applyConfig(opts, cfg)

	for _, f := range globalFlags {
		if f.env == "" {
			continue
		}
		v, ok := lookupEnv(f.env)
		if !ok || v == "" {
			continue
		}
		if err := f.set(opts, v); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", f.env, err)
		}
	}

	cli := make(map[string][]string)
	var order []globalFlag
	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		token := args[i]
		name, inline, hasInline := strings.Cut(token, "=")
		if !strings.HasPrefix(token, "--") {
			name, hasInline = token, false
		}

		f, ok := lookupGlobalFlag(name)
		if !ok {
			rest = append(rest, token)
			continue
		}
		if _, seen := cli[f.primary()]; !seen {
			order = append(order, f)
		}

		switch {
		case f.kind == kindBool && !hasInline:
			cli[f.primary()] = append(cli[f.primary()], "true")
		case hasInline:
			cli[f.primary()] = append(cli[f.primary()], inline)
		case i+1 < len(args):
			i++
			cli[f.primary()] = append(cli[f.primary()], args[i])
		default:
			return nil, nil, fmt.Errorf("missing value for %s", name)
		}
	}

	for _, f := range order {
		values := cli[f.primary()]
		value := values[len(values)-1]
		if f.kind == kindList {
			value = strings.Join(values, ",")
		}
		if err := f.set(opts, value); err != nil {
			return nil, nil, err
		}
		opts.fromCLI[f.primary()] = true
	}

	if err := paths.ValidateSessionName(opts.session); err != nil {
		return nil, nil, err
	}
	return opts, rest, nil
}

func applyConfig(o *globalOptions, cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.Session != "" {
		o.session = cfg.Session
	}
	o.debug = cfg.Debug
	o.headed = cfg.Headed
	o.executablePath = cfg.ExecutablePath
	o.extensions = append([]string(nil), cfg.Extensions...)
	o.args = cfg.Args
	o.userAgent = cfg.UserAgent
	o.proxy = cfg.Proxy
	o.proxyBypass = cfg.ProxyBypass
	o.ignoreHTTPSErrors = cfg.IgnoreHTTPSErrors
	o.allowFileAccess = cfg.AllowFileAccess
	o.profile = cfg.Profile
	o.state = cfg.State
	o.provider = cfg.Provider
	o.device = cfg.Device
	o.sessionName = cfg.SessionName
	o.downloadPath = cfg.DownloadPath
	o.allowedDomains = append([]string(nil), cfg.AllowedDomains...)
	o.actionPolicy = cfg.ActionPolicy
	o.confirmActions = cfg.ConfirmActions
	o.colorScheme = cfg.ColorScheme
	o.nodePath = cfg.NodePath
	o.contentBoundaries = cfg.ContentBoundaries
	o.maxOutput = cfg.MaxOutput
}

func parseBoolValue(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "no", "off":
		return false
	default:
		return true
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (o *globalOptions) commandGlobals() command.Globals {
	return command.Globals{Full: o.full, Headers: o.headers, SessionName: o.sessionName}
}

func (o *globalOptions) launchOptions() daemon.LaunchOptions {
	return daemon.LaunchOptions{
		Headed:            o.headed,
		ExecutablePath:    o.executablePath,
		Extensions:        o.extensions,
		Args:              o.args,
		UserAgent:         o.userAgent,
		Proxy:             o.proxy,
		ProxyBypass:       o.proxyBypass,
		IgnoreHTTPSErrors: o.ignoreHTTPSErrors,
		AllowFileAccess:   o.allowFileAccess,
		Profile:           o.profile,
		State:             o.state,
		Provider:          o.provider,
		Device:            o.device,
		SessionName:       o.sessionName,
		DownloadPath:      o.downloadPath,
		AllowedDomains:    o.allowedDomains,
		ActionPolicy:      o.actionPolicy,
		ConfirmActions:    o.confirmActions,
		Runtime:           o.nodePath,
	}
}

// cliLaunchFlags lists, in table order, the launch-only flags that were
// given on the command line.
func (o *globalOptions) cliLaunchFlags() []string {
	var names []string
	for _, f := range globalFlags {
		if f.launch && o.fromCLI[f.primary()] {
			names = append(names, f.primary())
		}
	}
	return names
}
