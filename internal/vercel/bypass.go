package vercel

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coprime/wait-for-vercel-preview/internal/constants"
	apperrors "github.com/coprime/wait-for-vercel-preview/internal/errors"
)

// FetchBypassToken posts the shared preview password to a protected
// deployment and returns the bypass token from the response cookie.
//
// The platform answers the form post with a redirect (typically 303) whose
// Set-Cookie header carries the token, so redirects are not followed and the
// cookie is read off the first response. Any status below 307 is inspected
// for the cookie; 3xx is the normal success shape here, not a failure.
//
// A completed response without the cookie is ErrBypassTokenMissing; transport
// failures and rejected statuses are ErrBypassRequestFailed. No retry happens
// at this level - the health poller obtains a fresh token each attempt.
func (c *Client) FetchBypassToken(ctx context.Context, deploymentURL, password string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	form := url.Values{constants.BypassFormField: {password}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, deploymentURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: build request for %s: %s",
			apperrors.ErrBypassRequestFailed, deploymentURL, err.Error())
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "wait-for-vercel-preview")

	start := time.Now()
	resp, err := c.bypassClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: POST %s: %s",
			apperrors.ErrBypassRequestFailed, deploymentURL, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBodySize))

	c.logger.Debug().
		Str("url", deploymentURL).
		Int("status_code", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("bypass handshake")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusTemporaryRedirect {
		return "", fmt.Errorf("%w: status %d from %s",
			apperrors.ErrBypassRequestFailed, resp.StatusCode, deploymentURL)
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == constants.BypassCookieName && cookie.Value != "" {
			return cookie.Value, nil
		}
	}
	return "", fmt.Errorf("%w: no %s cookie in status %d response from %s",
		apperrors.ErrBypassTokenMissing, constants.BypassCookieName, resp.StatusCode, deploymentURL)
}
