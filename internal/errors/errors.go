// Package errors provides centralized error handling for wait-for-vercel-preview.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrMissingInput indicates that a required step input (token, team id, etc.)
	// was not provided through flags, environment, or config file.
	ErrMissingInput = errors.New("required input missing")

	// ErrInvalidInput indicates that a step input was provided but its value
	// could not be used (bad duration, negative interval, malformed repository).
	ErrInvalidInput = errors.New("invalid input value")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidGitHub indicates an invalid GitHub configuration value.
	ErrConfigInvalidGitHub = errors.New("invalid GitHub configuration")

	// ErrConfigInvalidVercel indicates an invalid Vercel configuration value.
	ErrConfigInvalidVercel = errors.New("invalid Vercel configuration")

	// ErrConfigInvalidChecks indicates an invalid health-check configuration value.
	ErrConfigInvalidChecks = errors.New("invalid checks configuration")

	// ErrChecksFileMissing indicates the per-project checks file does not exist.
	ErrChecksFileMissing = errors.New("checks file not found")

	// ErrChecksFileParse indicates the per-project checks file has invalid YAML syntax.
	ErrChecksFileParse = errors.New("checks file parse error")

	// ErrEventPayloadInvalid indicates the workflow event payload could not be
	// read or did not contain the expected fields.
	ErrEventPayloadInvalid = errors.New("invalid event payload")

	// ErrCommitUnresolved indicates that no commit SHA could be determined from
	// the workflow event context.
	ErrCommitUnresolved = errors.New("commit sha could not be resolved")

	// ErrCheckURLInvalid indicates that a health-check URL could not be built
	// from the resolved deployment host and the configured path.
	ErrCheckURLInvalid = errors.New("invalid health check url")

	// ErrOutputWrite indicates that a step output could not be written to the
	// runner's output file.
	ErrOutputWrite = errors.New("step output write failed")

	// ErrGitHubAPI indicates that a GitHub API operation failed.
	ErrGitHubAPI = errors.New("github api request failed")

	// ErrVercelAPI indicates that a Vercel API operation failed.
	ErrVercelAPI = errors.New("vercel api request failed")

	// ErrBypassRequestFailed indicates that the password-bypass request could
	// not be completed or was rejected by the deployment.
	ErrBypassRequestFailed = errors.New("bypass request failed")

	// ErrBypassTokenMissing indicates that the bypass response completed but
	// carried no usable token cookie.
	ErrBypassTokenMissing = errors.New("bypass token cookie not found")

	// ErrDeploymentTimeout indicates that deployment polling exceeded the
	// configured timeout while builds were still in progress.
	ErrDeploymentTimeout = errors.New("deployment polling timeout")

	// ErrNoDeployment indicates that polling finished but no deployment
	// matched the target commit.
	ErrNoDeployment = errors.New("no deployment found")

	// ErrHealthCheckTimeout indicates that URL health polling exceeded the
	// configured timeout without a completed response.
	ErrHealthCheckTimeout = errors.New("url health polling timeout")

	// ErrHealthChecksFailed indicates that one or more URL health checks
	// failed after all of them were waited on.
	ErrHealthChecksFailed = errors.New("url health checks failed")

	// ErrConflictingFlags indicates that mutually exclusive flags were specified.
	ErrConflictingFlags = errors.New("conflicting flags specified")

	// ErrCanceled indicates the run was canceled by a signal or by the runner.
	ErrCanceled = errors.New("run canceled")
)

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}
