// Package github resolves the commit under test from the workflow that
// launched the run, calling the GitHub API when the workflow serves a pull
// request.
package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/github"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/coprime/wait-for-vercel-preview/internal/constants"
	apperrors "github.com/coprime/wait-for-vercel-preview/internal/errors"
)

// Client wraps the GitHub REST API for pull request head lookups.
type Client struct {
	gh     *github.Client
	apiURL string
	logger zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIURL overrides the API base URL (GitHub Enterprise, tests).
func WithAPIURL(apiURL string) ClientOption {
	return func(c *Client) {
		c.apiURL = apiURL
	}
}

// WithLogger sets the logger for API operations.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a GitHub client authenticated with the given token.
func NewClient(token string, opts ...ClientOption) (*Client, error) {
	c := &Client{
		apiURL: constants.DefaultGitHubAPIURL,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	tokenService := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tokenClient := oauth2.NewClient(context.Background(), tokenService)

	gh, err := github.NewEnterpriseClient(c.apiURL, c.apiURL, tokenClient)
	if err != nil {
		return nil, fmt.Errorf("%w: api url %s: %s", apperrors.ErrConfigInvalidGitHub, c.apiURL, err.Error())
	}
	c.gh = gh
	return c, nil
}

// PRHeadSHA returns the head commit of a pull request.
func (c *Client) PRHeadSHA(ctx context.Context, owner, repo string, number int) (string, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return "", fmt.Errorf("%w: get pull request %s/%s#%d: %s",
			apperrors.ErrGitHubAPI, owner, repo, number, err.Error())
	}

	sha := pr.GetHead().GetSHA()
	if sha == "" {
		return "", fmt.Errorf("%w: pull request %s/%s#%d has no head commit",
			apperrors.ErrGitHubAPI, owner, repo, number)
	}

	c.logger.Debug().
		Int("pr_number", number).
		Str("head_sha", sha).
		Msg("pull request head resolved")
	return sha, nil
}
