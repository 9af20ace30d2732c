package cli

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/agentbrowser/agent-browser/internal/config"
	"github.com/agentbrowser/agent-browser/internal/daemon"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := m[name]
		return v, ok
	}
}

func TestParseGlobalOptionsExtractsFlagsAnywhere(t *testing.T) {
	opts, rest, err := parseGlobalOptions(
		[]string{"--headed", "fill", "#q", "--session", "work", "hello", "--json", "world"},
		nil, envMap(nil),
	)
	if err != nil {
		t.Fatalf("parseGlobalOptions() error = %v", err)
	}

	if diff := cmp.Diff([]string{"fill", "#q", "hello", "world"}, rest); diff != "" {
		t.Fatalf("rest mismatch (-want +got):\n%s", diff)
	}
	if opts.session != "work" || !opts.headed || !opts.json {
		t.Fatalf("opts = %+v, want session work, headed, json", opts)
	}
}

func TestParseGlobalOptionsKeepsVerbFlags(t *testing.T) {
	_, rest, err := parseGlobalOptions([]string{"wait", "--text", "Done", "--timeout", "500"}, nil, envMap(nil))
	if err != nil {
		t.Fatalf("parseGlobalOptions() error = %v", err)
	}
	if diff := cmp.Diff([]string{"wait", "--text", "Done", "--timeout", "500"}, rest); diff != "" {
		t.Fatalf("rest mismatch (-want +got):\n%s", diff)
	}
}

func TestParseGlobalOptionsPrecedence(t *testing.T) {
	cfg := &config.Config{
		Session:   "from-config",
		UserAgent: "config-agent",
		Proxy:     "http://config-proxy:1",
		MaxOutput: 100,
	}
	env := envMap(map[string]string{
		"AGENT_BROWSER_SESSION":    "from-env",
		"AGENT_BROWSER_USER_AGENT": "env-agent",
		"AGENT_BROWSER_MAX_OUTPUT": "200",
	})

	opts, _, err := parseGlobalOptions([]string{"--session", "from-cli", "snapshot"}, cfg, env)
	if err != nil {
		t.Fatalf("parseGlobalOptions() error = %v", err)
	}

	if opts.session != "from-cli" {
		t.Fatalf("session = %q, want from-cli", opts.session)
	}
	if opts.userAgent != "env-agent" {
		t.Fatalf("userAgent = %q, want env-agent", opts.userAgent)
	}
	if opts.proxy != "http://config-proxy:1" {
		t.Fatalf("proxy = %q, want config value", opts.proxy)
	}
	if opts.maxOutput != 200 {
		t.Fatalf("maxOutput = %d, want 200", opts.maxOutput)
	}
	if diff := cmp.Diff(map[string]bool{"--session": true}, opts.fromCLI); diff != "" {
		t.Fatalf("fromCLI mismatch (-want +got):\n%s", diff)
	}
}

func TestParseGlobalOptionsDefaultsSession(t *testing.T) {
	opts, _, err := parseGlobalOptions([]string{"snapshot"}, &config.Config{}, envMap(nil))
	if err != nil {
		t.Fatalf("parseGlobalOptions() error = %v", err)
	}
	if opts.session != "default" {
		t.Fatalf("session = %q, want default", opts.session)
	}
}

func TestParseGlobalOptionsRepeatableAndInlineValues(t *testing.T) {
	env := envMap(map[string]string{"AGENT_BROWSER_EXTENSIONS": "/env-ext"})

	opts, _, err := parseGlobalOptions([]string{
		"--extension", "/one",
		"--extension=/two",
		"--allowed-domains", "a.com, b.com",
		"--ignore-https-errors=false",
		"open", "x",
	}, nil, env)
	if err != nil {
		t.Fatalf("parseGlobalOptions() error = %v", err)
	}

	if diff := cmp.Diff([]string{"/one", "/two"}, opts.extensions); diff != "" {
		t.Fatalf("extensions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a.com", "b.com"}, opts.allowedDomains); diff != "" {
		t.Fatalf("allowedDomains mismatch (-want +got):\n%s", diff)
	}
	if opts.ignoreHTTPSErrors {
		t.Fatal("ignoreHTTPSErrors = true, want false from inline value")
	}
}

func TestParseGlobalOptionsBoolEnvValues(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{value: "1", want: true},
		{value: "true", want: true},
		{value: "0", want: false},
		{value: "false", want: false},
	}

	for _, tt := range tests {
		opts, _, err := parseGlobalOptions([]string{"snapshot"}, nil, envMap(map[string]string{"AGENT_BROWSER_HEADED": tt.value}))
		if err != nil {
			t.Fatalf("parseGlobalOptions() error = %v", err)
		}
		if opts.headed != tt.want {
			t.Fatalf("AGENT_BROWSER_HEADED=%s headed = %v, want %v", tt.value, opts.headed, tt.want)
		}
	}
}

func TestParseGlobalOptionsErrors(t *testing.T) {
	tests := []struct {
		args []string
		env  map[string]string
		want string
	}{
		{args: []string{"snapshot", "--session"}, want: "missing value for --session"},
		{args: []string{"--max-output", "-5", "snapshot"}, want: "invalid --max-output value"},
		{args: []string{"--session", "../x", "snapshot"}, want: "invalid session name"},
		{args: []string{"snapshot"}, env: map[string]string{"AGENT_BROWSER_MAX_OUTPUT": "lots"}, want: "AGENT_BROWSER_MAX_OUTPUT"},
	}

	for _, tt := range tests {
		_, _, err := parseGlobalOptions(tt.args, nil, envMap(tt.env))
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Fatalf("parseGlobalOptions(%v) error = %v, want %q", tt.args, err, tt.want)
		}
	}
}

func TestLaunchOptionsCarryWorkerSettings(t *testing.T) {
	opts, _, err := parseGlobalOptions([]string{
		"--headed", "--device", "iPhone 15", "--session-name", "shop",
		"--allowed-domains", "example.com", "snapshot",
	}, &config.Config{NodePath: "bun"}, envMap(nil))
	if err != nil {
		t.Fatalf("parseGlobalOptions() error = %v", err)
	}

	want := daemon.LaunchOptions{
		Headed:         true,
		Device:         "iPhone 15",
		SessionName:    "shop",
		AllowedDomains: []string{"example.com"},
		Runtime:        "bun",
	}
	if diff := cmp.Diff(want, opts.launchOptions()); diff != "" {
		t.Fatalf("launchOptions() mismatch (-want +got):\n%s", diff)
	}
}
