package config

import (
	"strings"

	"github.com/coprime/wait-for-vercel-preview/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - GitHub token must not be empty
//   - GitHub API URL must not be empty
//   - GitHub repository must be an owner/name pair on pull request events
//   - Vercel token must not be empty
//   - Vercel team ID and API URL must not be empty
//   - Check interval and request timeout must be positive
//   - Timeouts must not be negative
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	// Validate GitHub config
	if err := validateGitHubConfig(&cfg.GitHub); err != nil {
		return err
	}

	// Validate Vercel config
	if err := validateVercelConfig(&cfg.Vercel); err != nil {
		return err
	}

	// Validate Checks config
	if err := validateChecksConfig(&cfg.Checks); err != nil {
		return err
	}

	return nil
}

// validateGitHubConfig checks GitHub-specific configuration values.
func validateGitHubConfig(cfg *GitHubConfig) error {
	if cfg.Token == "" {
		return errors.Wrap(errors.ErrConfigInvalidGitHub,
			"github.token must be set, provide the token input or GITHUB_TOKEN")
	}

	if cfg.APIURL == "" {
		return errors.Wrap(errors.ErrConfigInvalidGitHub,
			"github.api_url must not be empty")
	}

	// Pull request events need the repository to look up the head commit.
	if isPullRequestEventName(cfg.EventName) {
		owner, name, ok := strings.Cut(cfg.Repository, "/")
		if !ok || owner == "" || name == "" {
			return errors.Wrapf(errors.ErrConfigInvalidGitHub,
				"github.repository must be an owner/name pair on %s events, got %q",
				cfg.EventName, cfg.Repository)
		}
	}

	return nil
}

// validateVercelConfig checks Vercel-specific configuration values.
func validateVercelConfig(cfg *VercelConfig) error {
	if cfg.Token == "" {
		return errors.Wrap(errors.ErrConfigInvalidVercel,
			"vercel.token must be set, provide the vercel_token input")
	}

	if cfg.TeamID == "" {
		return errors.Wrap(errors.ErrConfigInvalidVercel,
			"vercel.team_id must not be empty")
	}

	if cfg.APIURL == "" {
		return errors.Wrap(errors.ErrConfigInvalidVercel,
			"vercel.api_url must not be empty")
	}

	return nil
}

// validateChecksConfig checks polling configuration values.
func validateChecksConfig(cfg *ChecksConfig) error {
	if cfg.CheckInterval <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidChecks,
			"checks.check_interval must be positive, got %s", cfg.CheckInterval)
	}

	if cfg.RequestTimeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidChecks,
			"checks.request_timeout must be positive, got %s", cfg.RequestTimeout)
	}

	if cfg.MaxTimeout < 0 {
		return errors.Wrapf(errors.ErrConfigInvalidChecks,
			"checks.max_timeout must not be negative, got %s", cfg.MaxTimeout)
	}

	if cfg.HealthTimeout < 0 {
		return errors.Wrapf(errors.ErrConfigInvalidChecks,
			"checks.health_timeout must not be negative, got %s", cfg.HealthTimeout)
	}

	return nil
}

// isPullRequestEventName reports whether the workflow event carries a pull
// request payload with a head commit of its own.
func isPullRequestEventName(eventName string) bool {
	switch eventName {
	case "pull_request", "pull_request_target":
		return true
	default:
		return false
	}
}
