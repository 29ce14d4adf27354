package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries is the pre-built mapping of sentinel errors to their user-facing messages.
// This single source of truth ensures UserMessage and Actionable stay in sync.
// Using a slice (not a map) because errors.Is() requires proper error chain traversal.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	// ===================
	// Inputs & config
	// ===================
	{
		err: ErrMissingInput,
		info: ErrorInfo{
			Message: "A required input is missing.",
			Action:  "Set the input in the workflow step (token, vercel_token) or pass the matching flag.",
		},
	},
	{
		err: ErrInvalidInput,
		info: ErrorInfo{
			Message: "An input value could not be used.",
			Action:  "Check the reported input against the action documentation and fix its value.",
		},
	},
	{
		err: ErrConfigInvalidGitHub,
		info: ErrorInfo{
			Message: "The GitHub configuration is invalid.",
			Action:  "Verify GITHUB_REPOSITORY is owner/repo and the token input is set.",
		},
	},
	{
		err: ErrConfigInvalidVercel,
		info: ErrorInfo{
			Message: "The Vercel configuration is invalid.",
			Action:  "Verify vercel_token and team_id are set for the team that owns the previews.",
		},
	},
	{
		err: ErrConfigInvalidChecks,
		info: ErrorInfo{
			Message: "The health-check configuration is invalid.",
			Action:  "check_interval and request_timeout must be positive durations; max_timeout must not be negative.",
		},
	},
	{
		err: ErrChecksFileMissing,
		info: ErrorInfo{
			Message: "The checks file does not exist.",
			Action:  "Fix the checks_file path or remove the input to use the default path for every project.",
		},
	},
	{
		err: ErrChecksFileParse,
		info: ErrorInfo{
			Message: "The checks file is not valid YAML.",
			Action:  "Fix the YAML syntax; the file maps project names to health-check paths.",
		},
	},

	// ===================
	// Commit resolution
	// ===================
	{
		err: ErrCommitUnresolved,
		info: ErrorInfo{
			Message: "Could not determine the commit SHA for this workflow run.",
			Action:  "Ensure the step runs on a push or pull_request event with the default checkout context.",
		},
	},
	{
		err: ErrEventPayloadInvalid,
		info: ErrorInfo{
			Message: "The workflow event payload could not be read.",
			Action:  "Check GITHUB_EVENT_PATH points to the event JSON provided by the runner.",
		},
	},
	{
		err: ErrGitHubAPI,
		info: ErrorInfo{
			Message: "A GitHub API request failed.",
			Action:  "Check the token input has pull-request read access and the API is reachable.",
		},
	},

	// ===================
	// Deployment polling
	// ===================
	{
		err: ErrVercelAPI,
		info: ErrorInfo{
			Message: "A Vercel API request failed.",
			Action:  "Check vercel_token scope and the team_id; transient failures are retried automatically.",
		},
	},
	{
		err: ErrDeploymentTimeout,
		info: ErrorInfo{
			Message: "Timed out waiting for team deployments to finish building.",
			Action:  "Increase max_timeout or check the Vercel dashboard for a stuck build.",
		},
	},
	{
		err: ErrNoDeployment,
		info: ErrorInfo{
			Message: "No deployment matched the target commit.",
			Action:  "Confirm the Vercel project deploys this repository and the commit triggered a build.",
		},
	},

	// ===================
	// URL health polling
	// ===================
	{
		err: ErrHealthCheckTimeout,
		info: ErrorInfo{
			Message: "Timed out waiting for a preview URL to respond.",
			Action:  "Increase max_timeout, or check the deployment serves the configured path.",
		},
	},
	{
		err: ErrHealthChecksFailed,
		info: ErrorInfo{
			Message: "One or more preview URLs never responded.",
			Action:  "Review the per-url failures logged above.",
		},
	},
	{
		err: ErrCheckURLInvalid,
		info: ErrorInfo{
			Message: "A health-check URL could not be built.",
			Action:  "Check the path input; it must be resolvable against the deployment host.",
		},
	},
	{
		err: ErrBypassRequestFailed,
		info: ErrorInfo{
			Message: "The password-bypass request was rejected by the deployment.",
			Action:  "Verify vercel_password matches the password protection configured for the project.",
		},
	},
	{
		err: ErrBypassTokenMissing,
		info: ErrorInfo{
			Message: "The deployment accepted the bypass request but returned no token cookie.",
			Action:  "Verify password protection is enabled for the project.",
		},
	},

	// ===================
	// Run lifecycle
	// ===================
	{
		err: ErrOutputWrite,
		info: ErrorInfo{
			Message: "Step outputs could not be written.",
			Action:  "Check the file named by GITHUB_OUTPUT is writable by the step.",
		},
	},
	{
		err: ErrCanceled,
		info: ErrorInfo{
			Message: "The run was canceled before completion.",
			Action:  "",
		},
	},
	{
		err: ErrConflictingFlags,
		info: ErrorInfo{
			Message: "Conflicting flags were specified.",
			Action:  "Check the command help for valid flag combinations.",
		},
	},
}

// errorInfoMap provides O(1) lookup for direct sentinel error matches.
// Built once from errorInfoEntries during package initialization.
//
//nolint:gochecknoglobals // Pre-built mapping for O(1) lookup performance
var errorInfoMap = buildErrorInfoMap()

// buildErrorInfoMap creates a map from the errorInfoEntries slice.
// This is called once during package init for O(1) direct lookups.
func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// It first tries O(1) direct map lookup for unwrapped sentinel errors,
// then falls back to errors.Is() traversal for wrapped errors.
// Returns an ErrorInfo with the original error message if not found.
func getErrorInfo(err error) ErrorInfo {
	// Fast path: O(1) lookup for direct sentinel errors
	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	// Slow path: errors.Is() for wrapped errors
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}

	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// This function maps sentinel errors to helpful, actionable messages
// that are suitable for display to end users.
//
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve or work around the issue.
//
// For errors that are not recoverable or have no clear action, the action
// string will be empty.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
