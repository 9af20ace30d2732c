package paths

import (
	"os"
	"path/filepath"
)

const appName = "agent-browser"

func homeDir() string {
	if h := os.Getenv("HOME"); h != "" {
		return h
	}
	h, _ := os.UserHomeDir()
	return h
}

func xdgDir(envVar, fallbackSuffix string) string {
	if v := os.Getenv(envVar); v != "" {
		return filepath.Join(v, appName)
	}
	return filepath.Join(homeDir(), fallbackSuffix, appName)
}

// SocketDir returns the directory holding every session's pid, socket and
// lock files. The first non-empty source wins:
// $AGENT_BROWSER_SOCKET_DIR, $XDG_RUNTIME_DIR/agent-browser,
// ~/.agent-browser, then the OS temp dir.
func SocketDir() string {
	if v := os.Getenv("AGENT_BROWSER_SOCKET_DIR"); v != "" {
		return v
	}
	if v := os.Getenv("XDG_RUNTIME_DIR"); v != "" {
		return filepath.Join(v, appName)
	}
	if h := homeDir(); h != "" {
		return filepath.Join(h, "."+appName)
	}
	return filepath.Join(os.TempDir(), appName)
}

// ConfigDir returns the agent-browser config directory ($XDG_CONFIG_HOME/agent-browser).
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// ConfigFile returns the path to config.toml. AGENT_BROWSER_CONFIG overrides it.
func ConfigFile() string {
	if v := os.Getenv("AGENT_BROWSER_CONFIG"); v != "" {
		return v
	}
	return filepath.Join(ConfigDir(), "config.toml")
}

// EnsureDir creates a directory and parents if needed.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0700)
}
