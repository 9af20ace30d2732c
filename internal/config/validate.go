package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agentbrowser/agent-browser/internal/paths"
)

// Validate checks configuration invariants and returns actionable errors.
func Validate(cfg *Config) error {
	if cfg == nil {
		return nil
	}

	var errs []error
	if cfg.Session != "" {
		if err := paths.ValidateSessionName(cfg.Session); err != nil {
			errs = append(errs, fmt.Errorf("session: %w", err))
		}
	}
	if cfg.SessionName != "" {
		if err := paths.ValidateSessionName(cfg.SessionName); err != nil {
			errs = append(errs, fmt.Errorf("session_name: %w", err))
		}
	}

	switch cfg.ColorScheme {
	case "", "dark", "light", "no-preference":
	default:
		errs = append(errs, fmt.Errorf("color_scheme: must be dark, light or no-preference, got %q", cfg.ColorScheme))
	}

	if cfg.MaxOutput < 0 {
		errs = append(errs, fmt.Errorf("max_output: must be >= 0, got %d", cfg.MaxOutput))
	}

	if cfg.Provider != "" && len(cfg.Extensions) > 0 {
		errs = append(errs, errors.New("extensions: cannot be combined with provider"))
	}

	for i, domain := range cfg.AllowedDomains {
		if strings.TrimSpace(domain) == "" || strings.Contains(domain, "/") {
			errs = append(errs, fmt.Errorf("allowed_domains[%d]: invalid domain %q", i, domain))
		}
	}

	return errors.Join(errs...)
}
