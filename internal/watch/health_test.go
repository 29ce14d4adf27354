package watch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/coprime/wait-for-vercel-preview/internal/errors"
	"github.com/coprime/wait-for-vercel-preview/internal/testutil"
)

// mockTokenFetcher is a test double for TokenFetcher.
type mockTokenFetcher struct {
	fetchFunc    func(ctx context.Context, deploymentURL, password string) (string, error)
	calls        int
	lastURL      string
	lastPassword string
}

func (m *mockTokenFetcher) FetchBypassToken(ctx context.Context, deploymentURL, password string) (string, error) {
	m.calls++
	m.lastURL = deploymentURL
	m.lastPassword = password
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, deploymentURL, password)
	}
	return "", apperrors.ErrBypassTokenMissing
}

// Compile-time interface check.
var _ TokenFetcher = (*mockTokenFetcher)(nil)

// roundTripperFunc adapts a function into an http.RoundTripper so check
// requests can be answered without a network listener.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func respondWith(status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{},
		Body:       http.NoBody,
	}
}

func watcherWithTransport(fetcher TokenFetcher, rt roundTripperFunc) *HealthWatcher {
	return NewHealthWatcher(fetcher, WithHealthHTTPClient(&http.Client{Transport: rt}))
}

func TestHealthWatcher_Wait_SucceedsOnFirstResponse(t *testing.T) {
	var lastReq *http.Request
	watcher := watcherWithTransport(nil, func(r *http.Request) (*http.Response, error) {
		lastReq = r
		return respondWith(http.StatusOK), nil
	})

	target := Target{Name: "web", URL: "web-preview.vercel.app"}

	result, err := watcher.Wait(context.Background(), target, HealthOptions{
		Path:   "/",
		Budget: testBudget(5),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "https://web-preview.vercel.app/", result.CheckURL)
	assert.Empty(t, result.BypassToken)
	assert.Equal(t, target, result.Target)

	require.NotNil(t, lastReq)
	assert.Equal(t, http.MethodGet, lastReq.Method)
	assert.Empty(t, lastReq.Header.Get("Cookie"))
}

// TestHealthWatcher_Wait_AnyStatusCodeCompletes pins the deliberate choice
// to treat every completed response as reachable, error statuses included.
func TestHealthWatcher_Wait_AnyStatusCodeCompletes(t *testing.T) {
	statuses := []int{
		http.StatusOK,
		http.StatusNotFound,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
	}

	for _, status := range statuses {
		t.Run(fmt.Sprintf("status %d", status), func(t *testing.T) {
			watcher := watcherWithTransport(nil, func(_ *http.Request) (*http.Response, error) {
				return respondWith(status), nil
			})

			result, err := watcher.Wait(context.Background(),
				Target{Name: "web", URL: "web-preview.vercel.app"},
				HealthOptions{Budget: testBudget(3)})

			require.NoError(t, err)
			assert.Equal(t, status, result.StatusCode)
			assert.Equal(t, 1, result.Attempts)
		})
	}
}

func TestHealthWatcher_Wait_RetriesTransportErrors(t *testing.T) {
	call := 0
	watcher := watcherWithTransport(nil, func(_ *http.Request) (*http.Response, error) {
		call++
		if call < 3 {
			return nil, testutil.ErrMockConnRefused
		}
		return respondWith(http.StatusOK), nil
	})

	result, err := watcher.Wait(context.Background(),
		Target{Name: "web", URL: "web-preview.vercel.app"},
		HealthOptions{Budget: testBudget(5)})

	require.NoError(t, err)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, 3, call)
}

func TestHealthWatcher_Wait_TimeoutAfterBudget(t *testing.T) {
	call := 0
	watcher := watcherWithTransport(nil, func(_ *http.Request) (*http.Response, error) {
		call++
		return nil, testutil.ErrMockConnRefused
	})

	_, err := watcher.Wait(context.Background(),
		Target{Name: "web", URL: "web-preview.vercel.app"},
		HealthOptions{Budget: testBudget(3)})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrHealthCheckTimeout)
	assert.Contains(t, err.Error(), "web-preview.vercel.app")
	assert.Contains(t, err.Error(), "3 attempts")
	assert.Equal(t, 3, call, "every budgeted attempt is used")
}

func TestHealthWatcher_Wait_ZeroBudgetTimesOutImmediately(t *testing.T) {
	call := 0
	watcher := watcherWithTransport(nil, func(_ *http.Request) (*http.Response, error) {
		call++
		return respondWith(http.StatusOK), nil
	})

	start := time.Now()
	_, err := watcher.Wait(context.Background(),
		Target{Name: "web", URL: "web-preview.vercel.app"},
		HealthOptions{Budget: Budget{}})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrHealthCheckTimeout)
	assert.Equal(t, 0, call, "a zero budget makes no attempts")
	assert.Less(t, time.Since(start), time.Second)
}

func TestHealthWatcher_Wait_FetchesFreshTokenEachAttempt(t *testing.T) {
	fetchCount := 0
	fetcher := &mockTokenFetcher{
		fetchFunc: func(_ context.Context, _, _ string) (string, error) {
			fetchCount++
			return fmt.Sprintf("token-%d", fetchCount), nil
		},
	}

	var lastReq *http.Request
	call := 0
	watcher := watcherWithTransport(fetcher, func(r *http.Request) (*http.Response, error) {
		call++
		lastReq = r
		if call == 1 {
			return nil, testutil.ErrMockConnReset
		}
		return respondWith(http.StatusOK), nil
	})

	result, err := watcher.Wait(context.Background(),
		Target{Name: "web", URL: "web-preview.vercel.app"},
		HealthOptions{Password: "fake-preview-password", Budget: testBudget(5)})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, 2, fetcher.calls, "a fresh token is fetched on every attempt")
	assert.Equal(t, "token-2", result.BypassToken)
	assert.Equal(t, "https://web-preview.vercel.app", fetcher.lastURL,
		"the handshake targets the deployment base, not the check path")
	assert.Equal(t, "fake-preview-password", fetcher.lastPassword)

	require.NotNil(t, lastReq)
	cookie, err := lastReq.Cookie("_vercel_jwt")
	require.NoError(t, err)
	assert.Equal(t, "token-2", cookie.Value)
}

func TestHealthWatcher_Wait_BypassFailureIsTransient(t *testing.T) {
	fetchCount := 0
	fetcher := &mockTokenFetcher{
		fetchFunc: func(_ context.Context, _, _ string) (string, error) {
			fetchCount++
			if fetchCount == 1 {
				return "", fmt.Errorf("%w: status 401", apperrors.ErrBypassRequestFailed)
			}
			return "token-ok", nil
		},
	}

	checkCalls := 0
	watcher := watcherWithTransport(fetcher, func(_ *http.Request) (*http.Response, error) {
		checkCalls++
		return respondWith(http.StatusOK), nil
	})

	result, err := watcher.Wait(context.Background(),
		Target{Name: "web", URL: "web-preview.vercel.app"},
		HealthOptions{Password: "fake-preview-password", Budget: testBudget(5)})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, 1, checkCalls, "no check is issued when the handshake fails")
	assert.Equal(t, "token-ok", result.BypassToken)
}

func TestHealthWatcher_Wait_NoHandshakeWithoutPassword(t *testing.T) {
	fetcher := &mockTokenFetcher{}
	watcher := watcherWithTransport(fetcher, func(_ *http.Request) (*http.Response, error) {
		return respondWith(http.StatusOK), nil
	})

	result, err := watcher.Wait(context.Background(),
		Target{Name: "web", URL: "web-preview.vercel.app"},
		HealthOptions{Budget: testBudget(3)})

	require.NoError(t, err)
	assert.Equal(t, 0, fetcher.calls)
	assert.Empty(t, result.BypassToken)
}

func TestHealthWatcher_Wait_PasswordWithoutFetcher(t *testing.T) {
	watcher := NewHealthWatcher(nil)

	_, err := watcher.Wait(context.Background(),
		Target{Name: "web", URL: "web-preview.vercel.app"},
		HealthOptions{Password: "fake-preview-password", Budget: testBudget(3)})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrMissingInput)
}

// TestHealthWatcher_Wait_MalformedPathAborts verifies a bad check path is a
// configuration error, not something to retry 360 times.
func TestHealthWatcher_Wait_MalformedPathAborts(t *testing.T) {
	call := 0
	watcher := watcherWithTransport(nil, func(_ *http.Request) (*http.Response, error) {
		call++
		return respondWith(http.StatusOK), nil
	})

	start := time.Now()
	_, err := watcher.Wait(context.Background(),
		Target{Name: "web", URL: "web-preview.vercel.app"},
		HealthOptions{Path: "/%zz", Budget: testBudget(100)})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrCheckURLInvalid)
	assert.Equal(t, 0, call)
	assert.Less(t, time.Since(start), time.Second, "configuration errors abort without retrying")
}

func TestHealthWatcher_Wait_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	watcher := watcherWithTransport(nil, func(_ *http.Request) (*http.Response, error) {
		return respondWith(http.StatusOK), nil
	})

	_, err := watcher.Wait(ctx, Target{Name: "web", URL: "web-preview.vercel.app"},
		HealthOptions{Budget: testBudget(3)})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrCanceled)
}

// TestHealthWatcher_Wait_AgainstLiveServer runs the full check against a TLS
// listener, cookie handling included.
func TestHealthWatcher_Wait_AgainstLiveServer(t *testing.T) {
	var gotCookie string
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie("_vercel_jwt"); err == nil {
			gotCookie = cookie.Value
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	fetcher := &mockTokenFetcher{
		fetchFunc: func(_ context.Context, _, _ string) (string, error) {
			return "live-token", nil
		},
	}

	watcher := NewHealthWatcher(fetcher, WithHealthHTTPClient(server.Client()))

	host := server.Listener.Addr().String()
	result, err := watcher.Wait(context.Background(), Target{Name: "web", URL: host},
		HealthOptions{Password: "fake-preview-password", Budget: testBudget(5)})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "live-token", gotCookie)
	assert.Equal(t, "https://"+host, fetcher.lastURL)
}

func TestBuildCheckURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		host     string
		path     string
		expected string
		wantErr  error
	}{
		{
			name:     "root path",
			host:     "web-preview.vercel.app",
			path:     "/",
			expected: "https://web-preview.vercel.app/",
		},
		{
			name:     "nested path",
			host:     "web-preview.vercel.app",
			path:     "/api/health",
			expected: "https://web-preview.vercel.app/api/health",
		},
		{
			name:     "path with query",
			host:     "web-preview.vercel.app",
			path:     "/api/health?probe=1",
			expected: "https://web-preview.vercel.app/api/health?probe=1",
		},
		{
			name:     "relative path",
			host:     "web-preview.vercel.app",
			path:     "status",
			expected: "https://web-preview.vercel.app/status",
		},
		{
			name:     "empty path keeps the base",
			host:     "web-preview.vercel.app",
			path:     "",
			expected: "https://web-preview.vercel.app",
		},
		{
			name:    "invalid percent escape",
			host:    "web-preview.vercel.app",
			path:    "/%zz",
			wantErr: apperrors.ErrCheckURLInvalid,
		},
		{
			name:    "host with spaces",
			host:    "not a host",
			path:    "/",
			wantErr: apperrors.ErrCheckURLInvalid,
		},
		{
			name:    "empty host",
			host:    "",
			path:    "/",
			wantErr: apperrors.ErrCheckURLInvalid,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := buildCheckURL(tt.host, tt.path)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
