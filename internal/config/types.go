package config

// Config holds default values for global options. Command-line flags and
// AGENT_BROWSER_* environment variables take precedence over it.
type Config struct {
	Session string `toml:"session"`
	Debug   bool   `toml:"debug"`

	// Browser launch
	Headed            bool     `toml:"headed"`
	ExecutablePath    string   `toml:"executable_path"`
	Extensions        []string `toml:"extensions"`
	Args              string   `toml:"args"`
	UserAgent         string   `toml:"user_agent"`
	Proxy             string   `toml:"proxy"`
	ProxyBypass       string   `toml:"proxy_bypass"`
	IgnoreHTTPSErrors bool     `toml:"ignore_https_errors"`
	AllowFileAccess   bool     `toml:"allow_file_access"`
	Profile           string   `toml:"profile"`
	State             string   `toml:"state"`
	Provider          string   `toml:"provider"`
	Device            string   `toml:"device"`
	SessionName       string   `toml:"session_name"`
	DownloadPath      string   `toml:"download_path"`
	AllowedDomains    []string `toml:"allowed_domains"`
	ActionPolicy      string   `toml:"action_policy"`
	ConfirmActions    string   `toml:"confirm_actions"`
	ColorScheme       string   `toml:"color_scheme"`

	// NodePath is the JavaScript runtime used to run the worker.
	NodePath string `toml:"node_path"`

	// Output
	ContentBoundaries bool `toml:"content_boundaries"`
	MaxOutput         int  `toml:"max_output"`
}
