package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coprime/wait-for-vercel-preview/internal/errors"
)

// validConfig returns a configuration that passes every validation rule.
func validConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			Token:  "ghs_" + "workflow_test_value",
			APIURL: "https://api.github.com/",
		},
		Vercel: VercelConfig{
			Token:  "vc_" + "api_test_value",
			TeamID: "team_coprime",
			APIURL: "https://api.vercel.com",
		},
		Checks: ChecksConfig{
			MaxTimeout:     720 * time.Second,
			CheckInterval:  2 * time.Second,
			HealthTimeout:  720 * time.Second,
			RequestTimeout: 2 * time.Second,
			Path:           "/",
		},
	}
}

// TestValidate_NilConfig tests that nil config returns error
func TestValidate_NilConfig(t *testing.T) {
	t.Parallel()

	err := Validate(nil)

	require.Error(t, err)
	require.ErrorIs(t, err, errors.ErrConfigNil)
}

// TestValidate_ValidConfig tests that a fully populated config passes
func TestValidate_ValidConfig(t *testing.T) {
	t.Parallel()

	err := Validate(validConfig())

	require.NoError(t, err)
}

// TestValidateGitHubConfig_Token tests the token requirement
func TestValidateGitHubConfig_Token(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.GitHub.Token = ""

	err := Validate(cfg)

	require.Error(t, err)
	require.ErrorIs(t, err, errors.ErrConfigInvalidGitHub)
	assert.Contains(t, err.Error(), "github.token must be set")
}

// TestValidateGitHubConfig_APIURL tests the API URL requirement
func TestValidateGitHubConfig_APIURL(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.GitHub.APIURL = ""

	err := Validate(cfg)

	require.Error(t, err)
	require.ErrorIs(t, err, errors.ErrConfigInvalidGitHub)
	assert.Contains(t, err.Error(), "github.api_url")
}

// TestValidateGitHubConfig_Repository tests the repository format rule
func TestValidateGitHubConfig_Repository(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		eventName  string
		repository string
		wantErr    bool
	}{
		{
			name:       "push_event_without_repository",
			eventName:  "push",
			repository: "",
			wantErr:    false,
		},
		{
			name:       "pull_request_with_valid_repository",
			eventName:  "pull_request",
			repository: "coprime/web",
			wantErr:    false,
		},
		{
			name:       "pull_request_without_repository",
			eventName:  "pull_request",
			repository: "",
			wantErr:    true,
		},
		{
			name:       "pull_request_without_slash",
			eventName:  "pull_request",
			repository: "coprime",
			wantErr:    true,
		},
		{
			name:       "pull_request_target_missing_owner",
			eventName:  "pull_request_target",
			repository: "/web",
			wantErr:    true,
		},
		{
			name:       "pull_request_missing_name",
			eventName:  "pull_request",
			repository: "coprime/",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			cfg.GitHub.EventName = tt.eventName
			cfg.GitHub.Repository = tt.repository

			err := Validate(cfg)

			if tt.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, errors.ErrConfigInvalidGitHub)
				assert.Contains(t, err.Error(), "owner/name")
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestValidateVercelConfig tests the Vercel identity requirements
func TestValidateVercelConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{
			name:   "missing_token",
			mutate: func(c *Config) { c.Vercel.Token = "" },
			errMsg: "vercel.token must be set",
		},
		{
			name:   "missing_team_id",
			mutate: func(c *Config) { c.Vercel.TeamID = "" },
			errMsg: "vercel.team_id",
		},
		{
			name:   "missing_api_url",
			mutate: func(c *Config) { c.Vercel.APIURL = "" },
			errMsg: "vercel.api_url",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)

			require.Error(t, err)
			require.ErrorIs(t, err, errors.ErrConfigInvalidVercel)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

// TestValidateChecksConfig tests the polling budget rules
func TestValidateChecksConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "zero_check_interval",
			mutate:  func(c *Config) { c.Checks.CheckInterval = 0 },
			wantErr: true,
			errMsg:  "checks.check_interval must be positive",
		},
		{
			name:    "negative_check_interval",
			mutate:  func(c *Config) { c.Checks.CheckInterval = -time.Second },
			wantErr: true,
			errMsg:  "checks.check_interval must be positive",
		},
		{
			name:    "zero_request_timeout",
			mutate:  func(c *Config) { c.Checks.RequestTimeout = 0 },
			wantErr: true,
			errMsg:  "checks.request_timeout must be positive",
		},
		{
			name:    "negative_max_timeout",
			mutate:  func(c *Config) { c.Checks.MaxTimeout = -time.Minute },
			wantErr: true,
			errMsg:  "checks.max_timeout must not be negative",
		},
		{
			name:    "negative_health_timeout",
			mutate:  func(c *Config) { c.Checks.HealthTimeout = -time.Minute },
			wantErr: true,
			errMsg:  "checks.health_timeout must not be negative",
		},
		{
			// A zero budget is representable; the polling loop reports
			// the timeout on its own terms.
			name:    "zero_max_timeout",
			mutate:  func(c *Config) { c.Checks.MaxTimeout = 0 },
			wantErr: false,
		},
		{
			name:    "zero_health_timeout",
			mutate:  func(c *Config) { c.Checks.HealthTimeout = 0 },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)

			if tt.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, errors.ErrConfigInvalidChecks)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestValidate_StopsAtFirstError tests fail-fast ordering across sections
func TestValidate_StopsAtFirstError(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.GitHub.Token = ""
	cfg.Vercel.Token = ""
	cfg.Checks.CheckInterval = 0

	err := Validate(cfg)

	require.Error(t, err)
	// GitHub validation runs first, so only its error surfaces.
	require.ErrorIs(t, err, errors.ErrConfigInvalidGitHub)
	require.NotErrorIs(t, err, errors.ErrConfigInvalidVercel)
}
