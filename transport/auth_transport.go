// Package transport implements the authenticated round tripper: it attaches
// the current access token to outgoing requests, and on a 401 coordinates a
// single token refresh shared by every request failing concurrently, then
// replays each of them once with the refreshed token.
package transport

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "

	refreshEndpointPath = "/auth/refresh-token"

	// refreshGroupKey keys the singleflight group; there is only ever one
	// refresh cycle per transport.
	refreshGroupKey = "refresh"
)

// Refresher is the slice of the session service the transport depends on.
type Refresher interface {
	// AccessToken returns the currently stored access token, or "".
	AccessToken() string
	// RefreshToken performs one coordinated token refresh and returns the new
	// access token. It triggers logout itself on irrecoverable failure.
	RefreshToken(ctx context.Context) (string, error)
	// Logout clears the session, optionally signalling navigation to login.
	Logout(navigate bool)
}

// AuthTransport is an http.RoundTripper wrapping a base transport.
//
// At most one refresh call is in flight at any time: the first 401 observed
// starts it, 401s observed while it runs join it, and every waiter receives
// either a replayed response carrying the same refreshed token or the same
// terminal error. A failed refresh is never retried; the session service has
// already logged the user out by the time the error propagates.
type AuthTransport struct {
	base      http.RoundTripper
	refresher Refresher
	group     singleflight.Group
}

// NewAuthTransport creates an AuthTransport over base; a nil base means
// http.DefaultTransport.
func NewAuthTransport(refresher Refresher, base http.RoundTripper) (*AuthTransport, error) {
	if refresher == nil {
		return nil, errors.New("[NewAuthTransport] refresher is required")
	}
	if base == nil {
		base = http.DefaultTransport
	}

	return &AuthTransport{
		base:      base,
		refresher: refresher,
	}, nil
}

// RoundTrip implements http.RoundTripper.
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if HasBypass(req.Context()) {
		return t.base.RoundTrip(req)
	}

	outReq := req
	if token := t.refresher.AccessToken(); token != "" {
		outReq = withToken(req, token)
	}

	resp, err := t.base.RoundTrip(outReq)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	if isRefreshEndpoint(req.URL.Path) {
		drainAndClose(resp)
		t.refresher.Logout(true)
		return nil, ErrRefreshEndpointAuthFailed
	}

	// A consumed body we cannot rewind rules out a replay; hand the 401 back
	// rather than dropping the request.
	if req.Body != nil && req.GetBody == nil {
		return resp, nil
	}
	drainAndClose(resp)

	newToken, refreshErr := t.awaitRefresh(req.Context())
	if refreshErr != nil {
		return nil, refreshErr
	}

	retryReq, err := rewind(req)
	if err != nil {
		return nil, err
	}
	return t.base.RoundTrip(withToken(retryReq, newToken))
}

// awaitRefresh starts a refresh when none is in flight and otherwise joins
// the one already running; all joined callers share the same outcome.
func (t *AuthTransport) awaitRefresh(ctx context.Context) (string, error) {
	result, err, _ := t.group.Do(refreshGroupKey, func() (any, error) {
		return t.refresher.RefreshToken(ctx)
	})
	if err != nil {
		return "", err
	}

	token, _ := result.(string)
	if token == "" {
		t.refresher.Logout(true)
		return "", ErrNoRefreshedToken
	}
	return token, nil
}

func withToken(req *http.Request, token string) *http.Request {
	cloned := req.Clone(req.Context())
	cloned.Header.Set(authorizationHeader, bearerPrefix+token)
	return cloned
}

// rewind clones req with a fresh body so it can be sent again.
func rewind(req *http.Request) (*http.Request, error) {
	cloned := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, errors.Wrap(err, "rewind request body")
		}
		cloned.Body = body
	}
	return cloned, nil
}

func isRefreshEndpoint(path string) bool {
	return strings.HasSuffix(path, refreshEndpointPath)
}

func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
