package daemon

import "strings"

// LaunchOptions is the browser configuration a worker is started with.
// It is read once, at spawn time; a running worker never sees new values.
type LaunchOptions struct {
	Headed            bool
	ExecutablePath    string
	Extensions        []string
	Args              string
	UserAgent         string
	Proxy             string
	ProxyBypass       string
	IgnoreHTTPSErrors bool
	AllowFileAccess   bool
	Profile           string
	State             string
	Provider          string
	Device            string
	SessionName       string
	DownloadPath      string
	AllowedDomains    []string
	ActionPolicy      string
	ConfirmActions    string

	// Runtime is the JavaScript runtime that runs the worker script.
	// Empty means "node" on PATH. It is not passed to the worker.
	Runtime string
}

// Env returns the variables that tell a spawned worker its session and
// options. Only options that differ from their zero value are included,
// always in the same order.
func (o LaunchOptions) Env(session string) []string {
	env := []string{
		"AGENT_BROWSER_DAEMON=1",
		"AGENT_BROWSER_SESSION=" + session,
	}

	flag := func(name string, set bool) {
		if set {
			env = append(env, name+"=1")
		}
	}
	str := func(name, value string) {
		if value != "" {
			env = append(env, name+"="+value)
		}
	}
	list := func(name string, values []string) {
		if len(values) > 0 {
			env = append(env, name+"="+strings.Join(values, ","))
		}
	}

	flag("AGENT_BROWSER_HEADED", o.Headed)
	str("AGENT_BROWSER_EXECUTABLE_PATH", o.ExecutablePath)
	list("AGENT_BROWSER_EXTENSIONS", o.Extensions)
	str("AGENT_BROWSER_ARGS", o.Args)
	str("AGENT_BROWSER_USER_AGENT", o.UserAgent)
	str("AGENT_BROWSER_PROXY", o.Proxy)
	str("AGENT_BROWSER_PROXY_BYPASS", o.ProxyBypass)
	flag("AGENT_BROWSER_IGNORE_HTTPS_ERRORS", o.IgnoreHTTPSErrors)
	flag("AGENT_BROWSER_ALLOW_FILE_ACCESS", o.AllowFileAccess)
	str("AGENT_BROWSER_PROFILE", o.Profile)
	str("AGENT_BROWSER_STATE", o.State)
	str("AGENT_BROWSER_PROVIDER", o.Provider)
	str("AGENT_BROWSER_IOS_DEVICE", o.Device)
	str("AGENT_BROWSER_SESSION_NAME", o.SessionName)
	str("AGENT_BROWSER_DOWNLOAD_PATH", o.DownloadPath)
	list("AGENT_BROWSER_ALLOWED_DOMAINS", o.AllowedDomains)
	str("AGENT_BROWSER_ACTION_POLICY", o.ActionPolicy)
	str("AGENT_BROWSER_CONFIRM_ACTIONS", o.ConfirmActions)
	return env
}

// mergeEnv appends overrides to base, dropping base entries that the
// overrides redefine so the child sees one value per name.
func mergeEnv(base, overrides []string) []string {
	names := make(map[string]bool, len(overrides))
	for _, kv := range overrides {
		name, _, _ := strings.Cut(kv, "=")
		names[name] = true
	}

	out := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		name, _, _ := strings.Cut(kv, "=")
		if names[name] {
			continue
		}
		out = append(out, kv)
	}
	return append(out, overrides...)
}
