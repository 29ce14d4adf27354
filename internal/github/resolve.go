package github

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	apperrors "github.com/coprime/wait-for-vercel-preview/internal/errors"
)

// ResolveOptions carries the workflow context needed to resolve the commit
// under test. The values come straight from the runner's GITHUB_* variables.
type ResolveOptions struct {
	// EventName is the workflow event (pull_request, push, ...).
	EventName string

	// EventPath is the runner's event payload file.
	EventPath string

	// Repository is the owner/name pair the workflow runs in.
	Repository string

	// FallbackSHA is the workflow's own commit (GITHUB_SHA), used for
	// events that do not carry a pull request.
	FallbackSHA string
}

// eventPayload is the slice of the event file this tool reads. Pull request
// events carry the number both at the top level and under pull_request.
type eventPayload struct {
	Number      int `json:"number"`
	PullRequest struct {
		Number int `json:"number"`
	} `json:"pull_request"`
}

// ResolveCommitSHA determines the commit whose preview deployments should be
// awaited.
//
// Pull request workflows build the PR head, not the workflow's own merge
// commit, so for pull_request and pull_request_target events the PR number is
// read from the event payload and the head sha fetched through the API. Every
// other event uses FallbackSHA directly. Failures are configuration errors;
// nothing here is retried.
func (c *Client) ResolveCommitSHA(ctx context.Context, opts ResolveOptions) (string, error) {
	if !isPullRequestEvent(opts.EventName) {
		if opts.FallbackSHA == "" {
			return "", fmt.Errorf("%w: event %q carries no commit and GITHUB_SHA is unset",
				apperrors.ErrCommitUnresolved, opts.EventName)
		}
		c.logger.Debug().
			Str("event", opts.EventName).
			Str("sha", opts.FallbackSHA).
			Msg("using workflow commit")
		return opts.FallbackSHA, nil
	}

	number, err := prNumberFromEvent(opts.EventPath)
	if err != nil {
		return "", err
	}

	owner, repo, err := splitRepository(opts.Repository)
	if err != nil {
		return "", err
	}

	sha, err := c.PRHeadSHA(ctx, owner, repo, number)
	if err != nil {
		return "", fmt.Errorf("%w: %s", apperrors.ErrCommitUnresolved, err.Error())
	}
	return sha, nil
}

// isPullRequestEvent reports whether the event payload identifies a pull
// request.
func isPullRequestEvent(name string) bool {
	switch name {
	case "pull_request", "pull_request_target":
		return true
	default:
		return false
	}
}

// prNumberFromEvent reads the pull request number from the runner's event
// payload file.
func prNumberFromEvent(eventPath string) (int, error) {
	if eventPath == "" {
		return 0, fmt.Errorf("%w: GITHUB_EVENT_PATH is unset for a pull request event",
			apperrors.ErrEventPayloadInvalid)
	}

	data, err := os.ReadFile(eventPath) //nolint:gosec // path comes from the runner, not a user
	if err != nil {
		return 0, fmt.Errorf("%w: read %s: %s", apperrors.ErrEventPayloadInvalid, eventPath, err.Error())
	}

	var payload eventPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return 0, fmt.Errorf("%w: parse %s: %s", apperrors.ErrEventPayloadInvalid, eventPath, err.Error())
	}

	number := payload.Number
	if number == 0 {
		number = payload.PullRequest.Number
	}
	if number <= 0 {
		return 0, fmt.Errorf("%w: %s carries no pull request number",
			apperrors.ErrEventPayloadInvalid, eventPath)
	}
	return number, nil
}

// splitRepository splits an owner/name pair.
func splitRepository(repository string) (owner, repo string, err error) {
	owner, repo, found := strings.Cut(repository, "/")
	if !found || owner == "" || repo == "" {
		return "", "", fmt.Errorf("%w: repository %q is not an owner/name pair",
			apperrors.ErrCommitUnresolved, repository)
	}
	return owner, repo, nil
}
