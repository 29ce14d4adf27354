// Package config loads the step's configuration from the CI environment.
//
// Sources are loaded in the following order (highest precedence first):
//  1. Step inputs (INPUT_* environment variables, the runner convention)
//     and workflow context (GITHUB_* variables)
//  2. Optional YAML config file (local runs)
//  3. Built-in defaults
//
// Duration inputs accept both bare seconds ("720") and Go duration strings
// ("12m"), matching the step's historical input contract.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import other internal packages.
package config

import "time"

// Config is the root configuration structure for the step.
type Config struct {
	// GitHub contains the source-control identity and workflow context.
	GitHub GitHubConfig `yaml:"github" mapstructure:"github"`

	// Vercel contains the deployment platform identity and team scope.
	Vercel VercelConfig `yaml:"vercel" mapstructure:"vercel"`

	// Checks contains the polling budgets and health check settings.
	Checks ChecksConfig `yaml:"checks" mapstructure:"checks"`

	// LogFile enables a rotating debug log at the given path.
	// Default: "" (disabled)
	LogFile string `yaml:"log_file" mapstructure:"log_file"`
}

// GitHubConfig contains the source-control identity and the workflow context
// the runner provides.
type GitHubConfig struct {
	// Token authenticates pull request lookups.
	// Sources: INPUT_TOKEN, then GITHUB_TOKEN. Required.
	Token string `yaml:"token" mapstructure:"token"`

	// APIURL is the REST API base URL, configurable for GitHub Enterprise.
	// Default: "https://api.github.com/"
	APIURL string `yaml:"api_url" mapstructure:"api_url"`

	// Repository is the owner/name pair the workflow runs in (GITHUB_REPOSITORY).
	Repository string `yaml:"repository" mapstructure:"repository"`

	// EventName is the workflow event (GITHUB_EVENT_NAME).
	EventName string `yaml:"event_name" mapstructure:"event_name"`

	// EventPath is the runner's event payload file (GITHUB_EVENT_PATH).
	EventPath string `yaml:"event_path" mapstructure:"event_path"`

	// SHA is the workflow's own commit (GITHUB_SHA), the fallback for
	// events that do not carry a pull request.
	SHA string `yaml:"sha" mapstructure:"sha"`

	// OutputPath is the step outputs file (GITHUB_OUTPUT). Empty on local
	// runs, in which case outputs are logged instead of written.
	OutputPath string `yaml:"output_path" mapstructure:"output_path"`
}

// VercelConfig contains the deployment platform identity and team scope.
type VercelConfig struct {
	// Token authenticates deployment and project listings.
	// Source: INPUT_VERCEL_TOKEN. Required.
	Token string `yaml:"token" mapstructure:"token"`

	// Password is the shared preview protection secret. When set, a bypass
	// token is obtained before every health check attempt.
	// Default: "" (previews are not password-protected)
	Password string `yaml:"password" mapstructure:"password"`

	// TeamID scopes every listing call.
	// Default: "team_coprime"
	TeamID string `yaml:"team_id" mapstructure:"team_id"`

	// APIURL is the platform API base URL.
	// Default: "https://api.vercel.com"
	APIURL string `yaml:"api_url" mapstructure:"api_url"`
}

// ChecksConfig contains the polling budgets and health check settings.
type ChecksConfig struct {
	// MaxTimeout bounds the deployment resolution phase.
	// Accepts bare seconds or a duration string. Default: 720s
	MaxTimeout time.Duration `yaml:"max_timeout" mapstructure:"max_timeout"`

	// CheckInterval is the pause between polling attempts in both phases.
	// Default: 2s
	CheckInterval time.Duration `yaml:"check_interval" mapstructure:"check_interval"`

	// HealthTimeout bounds the URL health phase separately.
	// Zero inherits max_timeout. Default: 0
	HealthTimeout time.Duration `yaml:"health_timeout" mapstructure:"health_timeout"`

	// Path is resolved against each preview host to form the check URL.
	// Default: "/"
	Path string `yaml:"path" mapstructure:"path"`

	// RequestTimeout caps each network request. It should stay below
	// check_interval so one stalled request cannot span several attempts.
	// Default: 2s
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`

	// Environment is part of the historical input contract. It is parsed
	// and logged but does not affect polling.
	// Default: ""
	Environment string `yaml:"environment" mapstructure:"environment"`

	// AllowInactive is a legacy flag from a retired code path. It is
	// parsed for input-contract compatibility and warned about when set.
	// Default: false
	AllowInactive bool `yaml:"allow_inactive" mapstructure:"allow_inactive"`

	// ChecksFile is an optional YAML file mapping project names to
	// health-check paths, overriding Path per target.
	// Default: "" (disabled)
	ChecksFile string `yaml:"checks_file" mapstructure:"checks_file"`
}
