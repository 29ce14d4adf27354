package vercel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/coprime/wait-for-vercel-preview/internal/constants"
	apperrors "github.com/coprime/wait-for-vercel-preview/internal/errors"
)

// API version paths for the endpoints this tool consumes.
const (
	deploymentsPath = "/v6/deployments"
	projectsPath    = "/v9/projects"
)

// Connection pooling limits to prevent resource exhaustion when several
// health pollers share the client.
const (
	maxIdleConns        = 100
	maxIdleConnsPerHost = 10
	maxConnsPerHost     = 10
	idleConnTimeout     = 60 * time.Second
)

// maxResponseBodySize caps how much of an API response body is read.
const maxResponseBodySize = 1 << 20 // 1MB

// errorBodySnippet caps how much of an error body ends up in error messages.
const errorBodySnippet = 256

// Client talks to the Vercel REST API on behalf of one team and performs
// the password-bypass handshake against protected deployments.
//
// Timeouts are applied per request via context so a stalled request cannot
// consume more than one polling interval.
type Client struct {
	baseURL        string
	token          string
	requestTimeout time.Duration
	logger         zerolog.Logger
	httpClient     *http.Client
	bypassClient   *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL (for self-hosted proxies and tests).
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithRequestTimeout sets the per-request timeout.
func WithRequestTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.requestTimeout = timeout
	}
}

// WithLogger sets the logger for API operations.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client authenticated with the given API token.
func NewClient(token string, opts ...ClientOption) *Client {
	transport := &http.Transport{
		MaxIdleConns:        maxIdleConns,
		MaxIdleConnsPerHost: maxIdleConnsPerHost,
		MaxConnsPerHost:     maxConnsPerHost,
		IdleConnTimeout:     idleConnTimeout,
	}

	c := &Client{
		baseURL:        constants.DefaultVercelAPIURL,
		token:          token,
		requestTimeout: constants.DefaultRequestTimeout,
		logger:         zerolog.Nop(),
		// no client-level timeout - timeouts are per request via context
		httpClient: &http.Client{Transport: transport},
		// the bypass handshake must read cookies off the first response,
		// so redirects are not followed
		bypassClient: &http.Client{
			Transport: transport,
			CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListDeployments returns the team's recent deployments, newest first.
// Transport failures and non-2xx responses are reported as ErrVercelAPI.
func (c *Client) ListDeployments(ctx context.Context, teamID string) ([]Deployment, error) {
	var out struct {
		Deployments []Deployment `json:"deployments"`
	}
	if err := c.getJSON(ctx, deploymentsPath, teamID, &out); err != nil {
		return nil, err
	}
	return out.Deployments, nil
}

// ListProjects returns the team's projects with their latest deployments.
// Transport failures and non-2xx responses are reported as ErrVercelAPI.
func (c *Client) ListProjects(ctx context.Context, teamID string) ([]Project, error) {
	var out struct {
		Projects []Project `json:"projects"`
	}
	if err := c.getJSON(ctx, projectsPath, teamID, &out); err != nil {
		return nil, err
	}
	return out.Projects, nil
}

// getJSON performs an authenticated GET against an API path scoped to the
// team and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, path, teamID string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	reqURL := c.baseURL + path + "?teamId=" + url.QueryEscape(teamID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("%w: build request for %s: %s", apperrors.ErrVercelAPI, path, err.Error())
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "wait-for-vercel-preview")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %s", apperrors.ErrVercelAPI, path, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug().
		Str("path", path).
		Int("status_code", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("vercel api request")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodySnippet))
		return fmt.Errorf("%w: GET %s returned status %d: %s",
			apperrors.ErrVercelAPI, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBodySize)).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %s", apperrors.ErrVercelAPI, path, err.Error())
	}
	return nil
}
