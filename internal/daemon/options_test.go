package daemon

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLaunchOptionsEnvDefaultsOnlyMarkDaemonAndSession(t *testing.T) {
	got := LaunchOptions{Runtime: "bun"}.Env("default")
	want := []string{"AGENT_BROWSER_DAEMON=1", "AGENT_BROWSER_SESSION=default"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Env() mismatch (-want +got):\n%s", diff)
	}
}

func TestLaunchOptionsEnvEncodesEveryOption(t *testing.T) {
	opts := LaunchOptions{
		Headed:            true,
		ExecutablePath:    "/usr/bin/chromium",
		Extensions:        []string{"/ext/a", "/ext/b"},
		Args:              "--no-sandbox,--mute-audio",
		UserAgent:         "bot/1.0",
		Proxy:             "http://proxy:3128",
		ProxyBypass:       "localhost",
		IgnoreHTTPSErrors: true,
		AllowFileAccess:   true,
		Profile:           "/tmp/profile",
		State:             "auth.json",
		Provider:          "ios",
		Device:            "iPhone 15",
		SessionName:       "shop",
		DownloadPath:      "/tmp/dl",
		AllowedDomains:    []string{"example.com", "*.example.org"},
		ActionPolicy:      "policy.json",
		ConfirmActions:    "eval,download",
	}

	want := []string{
		"AGENT_BROWSER_DAEMON=1",
		"AGENT_BROWSER_SESSION=work",
		"AGENT_BROWSER_HEADED=1",
		"AGENT_BROWSER_EXECUTABLE_PATH=/usr/bin/chromium",
		"AGENT_BROWSER_EXTENSIONS=/ext/a,/ext/b",
		"AGENT_BROWSER_ARGS=--no-sandbox,--mute-audio",
		"AGENT_BROWSER_USER_AGENT=bot/1.0",
		"AGENT_BROWSER_PROXY=http://proxy:3128",
		"AGENT_BROWSER_PROXY_BYPASS=localhost",
		"AGENT_BROWSER_IGNORE_HTTPS_ERRORS=1",
		"AGENT_BROWSER_ALLOW_FILE_ACCESS=1",
		"AGENT_BROWSER_PROFILE=/tmp/profile",
		"AGENT_BROWSER_STATE=auth.json",
		"AGENT_BROWSER_PROVIDER=ios",
		"AGENT_BROWSER_IOS_DEVICE=iPhone 15",
		"AGENT_BROWSER_SESSION_NAME=shop",
		"AGENT_BROWSER_DOWNLOAD_PATH=/tmp/dl",
		"AGENT_BROWSER_ALLOWED_DOMAINS=example.com,*.example.org",
		"AGENT_BROWSER_ACTION_POLICY=policy.json",
		"AGENT_BROWSER_CONFIRM_ACTIONS=eval,download",
	}
	if diff := cmp.Diff(want, opts.Env("work")); diff != "" {
		t.Fatalf("Env() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(opts.Env("work"), opts.Env("work")); diff != "" {
		t.Fatalf("Env() not deterministic:\n%s", diff)
	}
}

func TestMergeEnvOverridesInheritedValues(t *testing.T) {
	got := mergeEnv(
		[]string{"HOME=/root", "AGENT_BROWSER_HEADED=1", "AGENT_BROWSER_SESSION=old"},
		[]string{"AGENT_BROWSER_DAEMON=1", "AGENT_BROWSER_SESSION=new"},
	)
	want := []string{"HOME=/root", "AGENT_BROWSER_HEADED=1", "AGENT_BROWSER_DAEMON=1", "AGENT_BROWSER_SESSION=new"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mergeEnv() mismatch (-want +got):\n%s", diff)
	}
}
