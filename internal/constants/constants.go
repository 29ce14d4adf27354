// Package constants provides centralized constant values used throughout
// wait-for-vercel-preview. This package is the single source of truth for all
// shared constants and MUST NOT import any other internal packages.
package constants

import "time"

// Deployment platform defaults.
const (
	// DefaultVercelAPIURL is the base URL for the Vercel REST API.
	DefaultVercelAPIURL = "https://api.vercel.com"

	// DefaultTeamID identifies the team whose deployments are polled.
	// Override with the team_id input when the previews belong to another team.
	DefaultTeamID = "team_coprime"

	// BypassCookieName is the cookie that carries the password-bypass token
	// on password-protected deployments.
	BypassCookieName = "_vercel_jwt"

	// BypassFormField is the form field a protected deployment expects the
	// shared password in.
	BypassFormField = "_vercel_password"
)

// Source control defaults.
const (
	// DefaultGitHubAPIURL is the base URL for the GitHub REST API.
	// The trailing slash is required by the client constructor.
	DefaultGitHubAPIURL = "https://api.github.com/"
)

// Polling defaults. Each polling phase makes floor(timeout/interval) attempts.
const (
	// DefaultMaxTimeout bounds a polling phase when the max_timeout input is
	// not provided.
	DefaultMaxTimeout = 720 * time.Second

	// DefaultCheckInterval is the pause between polling attempts.
	DefaultCheckInterval = 2 * time.Second

	// DefaultRequestTimeout caps a single HTTP request. It must not exceed
	// the check interval or one stalled request spans several attempts.
	DefaultRequestTimeout = 2 * time.Second

	// DefaultCheckPath is the path requested on each resolved deployment URL.
	DefaultCheckPath = "/"
)

// Rotation settings for the optional debug log file.
const (
	// LogMaxSizeMB is the maximum size of the log file before rotation.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated log files to keep.
	LogMaxBackups = 3

	// LogMaxAgeDays is the maximum age of rotated log files.
	LogMaxAgeDays = 7

	// LogCompress enables gzip compression of rotated log files.
	LogCompress = true
)
