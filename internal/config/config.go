package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"

	"github.com/agentbrowser/agent-browser/internal/paths"
)

var envVarRe = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads the config file and returns the parsed Config.
// If the config file does not exist, it returns an empty Config (no error).
func Load() (*Config, error) {
	return LoadFrom(paths.ConfigFile())
}

// LoadFrom reads and parses a config file at the given path. ${VAR}
// references in string values are expanded after parsing.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parsing config %s: unknown key %q", path, undecoded[0].String())
	}

	expandConfigEnvVars(&cfg)
	return &cfg, nil
}

func expandConfigEnvVars(cfg *Config) {
	for _, s := range []*string{
		&cfg.Session,
		&cfg.ExecutablePath,
		&cfg.Args,
		&cfg.UserAgent,
		&cfg.Proxy,
		&cfg.ProxyBypass,
		&cfg.Profile,
		&cfg.State,
		&cfg.Provider,
		&cfg.Device,
		&cfg.SessionName,
		&cfg.DownloadPath,
		&cfg.ActionPolicy,
		&cfg.ConfirmActions,
		&cfg.ColorScheme,
		&cfg.NodePath,
	} {
		*s = expandEnvVars(*s)
	}
	for i := range cfg.Extensions {
		cfg.Extensions[i] = expandEnvVars(cfg.Extensions[i])
	}
	for i := range cfg.AllowedDomains {
		cfg.AllowedDomains[i] = expandEnvVars(cfg.AllowedDomains[i])
	}
}

// expandEnvVars replaces ${VAR_NAME} with the value of the environment variable.
func expandEnvVars(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		name := envVarRe.FindStringSubmatch(match)[1]
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match // leave unresolved vars as-is
	})
}
