package config

import (
	"context"
	"reflect"
	"strconv"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/coprime/wait-for-vercel-preview/internal/constants"
	"github.com/coprime/wait-for-vercel-preview/internal/errors"
)

// newViperInstance creates a Viper instance with defaults and the runner's
// environment bound to config keys.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	bindEnvironment(v)
	return v
}

// Load reads configuration from the environment and built-in defaults.
//
// The function returns an error only for actual configuration problems;
// absent optional inputs simply keep their defaults.
func Load(ctx context.Context) (*Config, error) {
	return LoadFromFile(ctx, "")
}

// LoadFromFile reads configuration with an optional YAML file layered
// beneath the environment. An empty path skips the file level; a named file
// must exist and parse.
func LoadFromFile(ctx context.Context, configPath string) (*Config, error) {
	v := newViperInstance()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	normalize(&cfg)

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Dur("checks.max_timeout", cfg.Checks.MaxTimeout).
		Dur("checks.health_timeout", cfg.Checks.HealthTimeout).
		Dur("checks.check_interval", cfg.Checks.CheckInterval).
		Dur("checks.request_timeout", cfg.Checks.RequestTimeout).
		Str("checks.path", cfg.Checks.Path).
		Str("vercel.team_id", cfg.Vercel.TeamID).
		Str("github.event_name", cfg.GitHub.EventName).
		Msg("configuration loaded and unmarshaled")

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &cfg, nil
}

// setDefaults configures all default values on the Viper instance.
// IMPORTANT: Keys must match the mapstructure tag names exactly.
func setDefaults(v *viper.Viper) {
	// GitHub defaults
	v.SetDefault("github.api_url", constants.DefaultGitHubAPIURL)

	// Vercel defaults
	v.SetDefault("vercel.team_id", constants.DefaultTeamID)
	v.SetDefault("vercel.api_url", constants.DefaultVercelAPIURL)

	// Checks defaults
	v.SetDefault("checks.max_timeout", constants.DefaultMaxTimeout)
	v.SetDefault("checks.check_interval", constants.DefaultCheckInterval)
	v.SetDefault("checks.request_timeout", constants.DefaultRequestTimeout)
	v.SetDefault("checks.path", constants.DefaultCheckPath)
	v.SetDefault("checks.allow_inactive", false)
}

// bindEnvironment maps the runner's environment onto config keys. Step
// inputs arrive as INPUT_* variables, workflow context as GITHUB_*.
//
// Multiple variables for one key are checked in order; an empty variable
// falls through to the next, so an undeclared step input never shadows the
// workflow token.
func bindEnvironment(v *viper.Viper) {
	bindings := map[string][]string{
		"github.token":       {constants.EnvInputToken, constants.EnvGitHubToken},
		"github.api_url":     {constants.EnvInputGitHubAPIURL},
		"github.repository":  {constants.EnvGitHubRepository},
		"github.event_name":  {constants.EnvGitHubEventName},
		"github.event_path":  {constants.EnvGitHubEventPath},
		"github.sha":         {constants.EnvGitHubSHA},
		"github.output_path": {constants.EnvGitHubOutput},

		"vercel.token":    {constants.EnvInputVercelToken},
		"vercel.password": {constants.EnvInputVercelPassword},
		"vercel.team_id":  {constants.EnvInputTeamID},
		"vercel.api_url":  {constants.EnvInputVercelAPIURL},

		"checks.max_timeout":     {constants.EnvInputMaxTimeout},
		"checks.check_interval":  {constants.EnvInputCheckInterval},
		"checks.health_timeout":  {constants.EnvInputHealthTimeout},
		"checks.path":            {constants.EnvInputPath},
		"checks.request_timeout": {constants.EnvInputRequestTimeout},
		"checks.environment":     {constants.EnvInputEnvironment},
		"checks.allow_inactive":  {constants.EnvInputAllowInactive},
		"checks.checks_file":     {constants.EnvInputChecksFile},

		"log_file": {constants.EnvInputLogFile},
	}

	for key, envs := range bindings {
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}
}

// normalize fills derived values after unmarshaling.
func normalize(cfg *Config) {
	// The URL health phase inherits the deployment budget unless it was
	// budgeted separately.
	if cfg.Checks.HealthTimeout == 0 {
		cfg.Checks.HealthTimeout = cfg.Checks.MaxTimeout
	}
}

// viperDecoderOption returns the decoder options for Viper unmarshal.
// The hook chain tries bare seconds first, then Go duration strings, so the
// historical input "720" and the richer "12m" both decode into a duration.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			secondsToDurationHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}

// secondsToDurationHookFunc converts bare numbers into second durations.
// Non-numeric strings pass through untouched for the duration-string hook.
func secondsToDurationHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		// Values that are already durations (the built-in defaults) must
		// pass through untouched.
		if t != reflect.TypeOf(time.Duration(0)) || f == t {
			return data, nil
		}

		switch f.Kind() {
		case reflect.String:
			raw := data.(string)
			if raw == "" {
				return time.Duration(0), nil
			}
			secs, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return data, nil
			}
			return time.Duration(secs * float64(time.Second)), nil
		case reflect.Int, reflect.Int32, reflect.Int64:
			return time.Duration(reflect.ValueOf(data).Int()) * time.Second, nil
		case reflect.Float32, reflect.Float64:
			return time.Duration(reflect.ValueOf(data).Float() * float64(time.Second)), nil
		default:
			return data, nil
		}
	}
}
