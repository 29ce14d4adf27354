// Package watch implements the bounded polling loops that gate a preview
// check run.
// This file implements URL health polling.
package watch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/coprime/wait-for-vercel-preview/internal/constants"
	"github.com/coprime/wait-for-vercel-preview/internal/ctxutil"
	apperrors "github.com/coprime/wait-for-vercel-preview/internal/errors"
)

// TokenFetcher obtains bypass tokens for password-protected previews.
type TokenFetcher interface {
	// FetchBypassToken exchanges the shared preview password for a bypass
	// token at the given deployment URL.
	FetchBypassToken(ctx context.Context, deploymentURL, password string) (string, error)
}

// maxHealthBodySize caps how much of a health response body is drained.
const maxHealthBodySize = 1 << 20 // 1MB

// HealthOptions configures URL health polling. One options value drives
// every target of a run.
type HealthOptions struct {
	// Path is resolved against the target host to form the check URL.
	// Defaults to "/".
	Path string

	// Password is the shared preview secret. When set, a fresh bypass
	// token is fetched before every attempt.
	Password string

	// Budget bounds the polling loop.
	Budget Budget
}

// HealthResult contains the outcome of polling one preview URL.
type HealthResult struct {
	// Target is the preview deployment that was checked.
	Target Target

	// CheckURL is the fully resolved URL the check was issued against.
	CheckURL string

	// StatusCode is the status of the response that completed the poll.
	StatusCode int

	// BypassToken is the last bypass token obtained for the target, if any.
	BypassToken string

	// Attempts is the number of polls performed.
	Attempts int

	// Elapsed is the total time spent polling.
	Elapsed time.Duration
}

// HealthWatcher polls a preview URL until any response completes.
//
// A watcher is safe for concurrent use; one instance serves every target of
// a run.
type HealthWatcher struct {
	fetcher        TokenFetcher
	httpClient     *http.Client
	requestTimeout time.Duration
	logger         zerolog.Logger
}

// HealthWatcherOption configures a HealthWatcher.
type HealthWatcherOption func(*HealthWatcher)

// WithHealthLogger sets the logger for health polling.
func WithHealthLogger(logger zerolog.Logger) HealthWatcherOption {
	return func(w *HealthWatcher) {
		w.logger = logger
	}
}

// WithHealthRequestTimeout sets the per-request timeout. It should stay
// below the polling interval so one stalled request cannot span attempts.
func WithHealthRequestTimeout(timeout time.Duration) HealthWatcherOption {
	return func(w *HealthWatcher) {
		w.requestTimeout = timeout
	}
}

// WithHealthHTTPClient replaces the HTTP client used for check requests.
func WithHealthHTTPClient(client *http.Client) HealthWatcherOption {
	return func(w *HealthWatcher) {
		w.httpClient = client
	}
}

// NewHealthWatcher creates a watcher. The fetcher may be nil when previews
// are not password-protected.
func NewHealthWatcher(fetcher TokenFetcher, opts ...HealthWatcherOption) *HealthWatcher {
	w := &HealthWatcher{
		fetcher: fetcher,
		// per-request timeouts come from context, not the client
		httpClient:     &http.Client{},
		requestTimeout: constants.DefaultRequestTimeout,
		logger:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Wait polls the target until any response completes, bypassing password
// protection when a password is configured.
//
// Status codes are deliberately not classified: previews can serve transient
// 404s and 502s while infrastructure propagates, so any completed response
// counts as reachable. Transport errors and failed bypass handshakes are
// transient and retried until the budget runs out (ErrHealthCheckTimeout).
// A malformed check URL aborts immediately with ErrCheckURLInvalid.
func (w *HealthWatcher) Wait(ctx context.Context, target Target, opts HealthOptions) (*HealthResult, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrCanceled, err.Error())
	}
	if opts.Password != "" && w.fetcher == nil {
		return nil, fmt.Errorf("%w: preview password set but no token fetcher configured", apperrors.ErrMissingInput)
	}
	if opts.Path == "" {
		opts.Path = constants.DefaultCheckPath
	}

	iterations := opts.Budget.Iterations()
	start := time.Now()
	result := &HealthResult{Target: target}

	w.logger.Info().
		Str("url", target.URL).
		Str("path", opts.Path).
		Dur("interval", opts.Budget.Interval).
		Int("max_attempts", iterations).
		Bool("protected", opts.Password != "").
		Msg("waiting for preview url")

	for attempt := 1; attempt <= iterations; attempt++ {
		completed, err := w.poll(ctx, attempt, iterations, target, opts, result)
		if err != nil {
			return nil, err
		}
		if completed {
			result.Attempts = attempt
			result.Elapsed = time.Since(start)
			w.logger.Info().
				Str("url", result.CheckURL).
				Int("status_code", result.StatusCode).
				Int("attempts", attempt).
				Dur("elapsed", result.Elapsed).
				Msg("preview url responded")
			return result, nil
		}

		if err := ctxutil.Sleep(ctx, opts.Budget.Interval); err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrCanceled, err.Error())
		}
	}

	return nil, fmt.Errorf("%w: %s gave no response in %d attempts over %s",
		apperrors.ErrHealthCheckTimeout, target.URL, iterations,
		time.Since(start).Round(time.Millisecond))
}

// poll performs a single health attempt. completed reports whether a
// response came back; a non-nil error aborts the loop. Transient failures
// return (false, nil) and the caller retries.
func (w *HealthWatcher) poll(ctx context.Context, attempt, total int, target Target, opts HealthOptions, result *HealthResult) (bool, error) {
	var token string
	if opts.Password != "" {
		var err error
		token, err = w.fetcher.FetchBypassToken(ctx, "https://"+target.URL, opts.Password)
		if err != nil {
			w.logger.Warn().
				Err(err).
				Str("url", target.URL).
				Int("attempt", attempt).
				Int("max_attempts", total).
				Msg("bypass token fetch failed")
			return false, nil
		}
		result.BypassToken = token
	}

	checkURL, err := buildCheckURL(target.URL, opts.Path)
	if err != nil {
		return false, err
	}
	result.CheckURL = checkURL

	reqCtx, cancel := context.WithTimeout(ctx, w.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, checkURL, nil)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %s", apperrors.ErrCheckURLInvalid, checkURL, err.Error())
	}
	req.Header.Set("User-Agent", "wait-for-vercel-preview")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: constants.BypassCookieName, Value: token})
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		w.logger.Warn().
			Err(err).
			Str("url", checkURL).
			Int("attempt", attempt).
			Int("max_attempts", total).
			Msg("health check request failed")
		return false, nil
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxHealthBodySize))

	result.StatusCode = resp.StatusCode
	return true, nil
}

// buildCheckURL joins the preview host and the configured check path into an
// absolute URL.
func buildCheckURL(host, path string) (string, error) {
	base, err := url.Parse("https://" + host)
	if err != nil {
		return "", fmt.Errorf("%w: host %q: %s", apperrors.ErrCheckURLInvalid, host, err.Error())
	}
	if base.Host == "" {
		return "", fmt.Errorf("%w: host %q has no authority", apperrors.ErrCheckURLInvalid, host)
	}

	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("%w: path %q: %s", apperrors.ErrCheckURLInvalid, path, err.Error())
	}
	return base.ResolveReference(ref).String(), nil
}
