// Package session owns the token lifecycle: explicit auth actions (login,
// refresh, logout, token updates) and the observable logged-in/company state
// every navigation decision derives from.
package session

import (
	"context"
	"net/http"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/finacct/go-session-client/httpapi"
	interrors "github.com/finacct/go-session-client/internal/errors"
	"github.com/finacct/go-session-client/tokenstore"
	"github.com/finacct/go-session-client/transport"
)

const loginRoute = "/login"

// Navigator receives the navigation side effects the session layer emits,
// such as the forced return to the login screen after logout. Environments
// with no navigation concept leave it unset.
type Navigator interface {
	Navigate(path string)
}

// Service performs token acquisition and exposes the derived session state.
// It is the sole writer of token storage.
type Service struct {
	api       *httpapi.Client
	tokens    *tokenstore.Store
	navigator Navigator

	lock       sync.RWMutex
	state      State
	listeners  map[int]Listener
	listenerID int
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service) error

// WithNavigator sets the navigation sink for logout side effects.
func WithNavigator(navigator Navigator) ServiceOption {
	return func(s *Service) error {
		s.navigator = navigator
		return nil
	}
}

// WithBaseTransport sets the transport the auth round tripper wraps
// (primarily for testing).
func WithBaseTransport(base http.RoundTripper) ServiceOption {
	return func(s *Service) error {
		return s.buildAPIClient(s.api.BaseURL(), base)
	}
}

// NewService initializes a Service talking to baseURL, using store for the
// token pair. All requests it issues run through the auth transport; the
// refresh call alone carries the bypass marker.
func NewService(baseURL string, store *tokenstore.Store, options ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("[NewService] token store is required")
	}

	service := &Service{
		tokens:    store,
		listeners: make(map[int]Listener),
	}
	if err := service.buildAPIClient(baseURL, nil); err != nil {
		return nil, err
	}

	for _, opt := range options {
		if err := opt(service); err != nil {
			return nil, err
		}
	}

	service.state = service.deriveState()
	return service, nil
}

func (s *Service) buildAPIClient(baseURL string, base http.RoundTripper) error {
	authTransport, err := transport.NewAuthTransport(s, base)
	if err != nil {
		return err
	}
	api, err := httpapi.NewClient(baseURL, &http.Client{Transport: authTransport})
	if err != nil {
		return err
	}
	s.api = api
	return nil
}

// APIClient returns the JSON client whose requests carry the session's
// credentials. Collaborating services (companies, lookups) share it.
func (s *Service) APIClient() *httpapi.Client {
	return s.api
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Login posts credentials and, when the response carries both tokens, commits
// them and recomputes session state. A transport-level success missing either
// token is a failure: stored tokens are cleared and state reflects logged out.
func (s *Service) Login(ctx context.Context, email, password string) (State, error) {
	var resp tokenPairResponse
	if err := s.api.PostJSON(ctx, "/auth/login", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return s.CurrentState(), interrors.Wrapf(err, "login")
	}

	if resp.AccessToken == "" || resp.RefreshToken == "" {
		log.Error().Msg("login response did not include expected tokens")
		s.clearTokensAndNotify()
		return s.CurrentState(), ErrLoginTokensMissing
	}

	if err := s.commitTokens(resp.AccessToken, resp.RefreshToken); err != nil {
		s.clearTokensAndNotify()
		return s.CurrentState(), interrors.Wrapf(err, "login")
	}
	return s.CurrentState(), nil
}

// Logout always clears the token pair and notifies observers of the
// logged-out state. With navigate set it additionally signals navigation to
// the login screen. It never fails and never blocks on network activity.
func (s *Service) Logout(navigate bool) {
	s.clearTokensAndNotify()
	if navigate && s.navigator != nil {
		s.navigator.Navigate(loginRoute)
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken     string `json:"accessToken"`
	NewRefreshToken string `json:"newRefreshToken"`
}

// RefreshToken exchanges the stored refresh token for a new access token and
// returns it. With nothing stored it fails fast without a network call. Every
// failure path logs the user out before returning; a success always leaves a
// complete pair behind, keeping the previous refresh token when the server
// does not rotate it.
func (s *Service) RefreshToken(ctx context.Context) (string, error) {
	refreshToken := s.tokens.RefreshToken()
	if refreshToken == "" {
		s.Logout(true)
		return "", ErrNoRefreshToken
	}

	var resp refreshResponse
	err := s.api.PostJSON(transport.WithBypass(ctx), "/auth/refresh-token", refreshRequest{RefreshToken: refreshToken}, &resp)
	if err != nil {
		s.Logout(true)
		if httpapi.IsStatus(err, http.StatusUnauthorized) {
			return "", interrors.Wrapf(transport.ErrRefreshEndpointAuthFailed, "refresh token")
		}
		return "", interrors.Wrapf(err, "refresh token")
	}

	if resp.AccessToken == "" {
		s.Logout(true)
		return "", ErrRefreshTokenMissing
	}

	newRefreshToken := resp.NewRefreshToken
	if newRefreshToken == "" {
		newRefreshToken = refreshToken
	}
	if err := s.commitTokens(resp.AccessToken, newRefreshToken); err != nil {
		s.Logout(true)
		return "", interrors.Wrapf(err, "refresh token")
	}
	return resp.AccessToken, nil
}

// UpdateTokens commits a new access token handed over by a collaborator, for
// example after company creation returns fresh claims. An empty refreshToken
// keeps the stored one; with neither available the session is inconsistent
// and the user is logged out.
func (s *Service) UpdateTokens(accessToken, refreshToken string) {
	if refreshToken == "" {
		refreshToken = s.tokens.RefreshToken()
	}
	if refreshToken == "" {
		log.Error().Msg("cannot update tokens: refresh token is missing")
		s.Logout(true)
		return
	}

	if err := s.commitTokens(accessToken, refreshToken); err != nil {
		log.Error().Err(err).Msg("failed to update tokens")
		s.Logout(true)
	}
}

// AccessToken returns the stored access token for header attachment.
func (s *Service) AccessToken() string {
	return s.tokens.AccessToken()
}

// IsLoggedIn reports whether a valid (unexpired, decodable) access token is
// stored.
func (s *Service) IsLoggedIn() bool {
	return s.CurrentState().LoggedIn
}

// CompanyID returns the company the session is scoped to, or "".
func (s *Service) CompanyID() string {
	return s.CurrentState().CompanyID
}

// CurrentState returns a snapshot of the derived session state.
func (s *Service) CurrentState() State {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.state
}

// OnChange registers a listener for session state recomputations and returns
// its unsubscribe function. Listeners run synchronously with the mutation.
func (s *Service) OnChange(listener Listener) func() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.listenerID++
	id := s.listenerID
	s.listeners[id] = listener

	return func() {
		s.lock.Lock()
		defer s.lock.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Service) commitTokens(accessToken, refreshToken string) error {
	if err := s.tokens.SetTokens(accessToken, refreshToken); err != nil {
		return err
	}
	s.recomputeState()
	return nil
}

func (s *Service) clearTokensAndNotify() {
	if err := s.tokens.ClearTokens(); err != nil {
		log.Warn().Err(err).Msg("failed to clear tokens")
	}
	s.recomputeState()
}

func (s *Service) deriveState() State {
	return State{
		LoggedIn:  s.tokens.IsAccessTokenValid(),
		CompanyID: s.tokens.CompanyID(),
	}
}

// recomputeState rederives state from the stored access token and notifies
// every listener, including when the value is unchanged.
func (s *Service) recomputeState() {
	state := s.deriveState()

	s.lock.Lock()
	s.state = state
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.lock.Unlock()

	for _, l := range listeners {
		l(state)
	}
}
