// Package gate decides route entry and post-navigation redirects from the
// derived session state.
package gate

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/finacct/go-session-client/session"
)

// Route paths mirroring the application screens.
const (
	RouteRoot                 = "/"
	RouteLogin                = "/login"
	RouteRegister             = "/register"
	RouteDashboard            = "/dashboard"
	RouteCreateCompany        = "/create-company"
	RouteVerifyEmail          = "/verify-email"
	RouteRequestPasswordReset = "/request-password-reset"
	RouteResetPassword        = "/reset-password"
)

// Decision is the outcome of a route-entry check: either entry is allowed or
// the caller must redirect.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// CanActivate allows entry for logged-in sessions and otherwise redirects to
// the login screen, preserving the originally requested location.
func CanActivate(state session.State, target string) Decision {
	if state.LoggedIn {
		return Decision{Allow: true}
	}

	redirect := RouteLogin
	if target != "" && target != RouteRoot && target != RouteLogin {
		redirect = RouteLogin + "?redirect=" + url.QueryEscape(target)
	}
	return Decision{RedirectTo: redirect}
}

// AfterNavigation implements the onboarding redirect policy. It runs on every
// completed navigation: a logged-in user with no company is steered to the
// onboarding screen unless already there or inside the auth flow. The second
// return value reports whether a redirect is required.
func AfterNavigation(state session.State, current string) (string, bool) {
	if !state.LoggedIn || state.CompanyID != "" {
		return "", false
	}
	if normalize(current) == RouteCreateCompany || isAuthFlowRoute(current) {
		return "", false
	}
	return RouteCreateCompany, true
}

// ResolveRoute maps the empty path and unknown destinations to the dashboard.
func ResolveRoute(path string) string {
	switch normalize(path) {
	case RouteLogin, RouteRegister, RouteDashboard, RouteCreateCompany,
		RouteVerifyEmail, RouteRequestPasswordReset, RouteResetPassword:
		return normalize(path)
	default:
		return RouteDashboard
	}
}

// Gate binds the decision functions to a live session service.
type Gate struct {
	sessions *session.Service
}

// New creates a Gate observing the supplied session service.
func New(sessions *session.Service) (*Gate, error) {
	if sessions == nil {
		return nil, errors.New("[gate.New] session service is required")
	}
	return &Gate{sessions: sessions}, nil
}

// CanActivate checks route entry against the current session state.
func (g *Gate) CanActivate(target string) Decision {
	return CanActivate(g.sessions.CurrentState(), target)
}

// AfterNavigation checks the onboarding redirect policy against the current
// session state.
func (g *Gate) AfterNavigation(current string) (string, bool) {
	return AfterNavigation(g.sessions.CurrentState(), current)
}

func isAuthFlowRoute(path string) bool {
	switch normalize(path) {
	case RouteLogin, RouteRegister, RouteVerifyEmail, RouteRequestPasswordReset, RouteResetPassword:
		return true
	default:
		return false
	}
}

// normalize strips query and trailing slash so route comparisons see the bare
// path.
func normalize(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}
