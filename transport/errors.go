package transport

import "errors"

var (
	// ErrRefreshEndpointAuthFailed is returned when the refresh endpoint
	// itself answers 401. The transport never refreshes in response to it.
	ErrRefreshEndpointAuthFailed = errors.New("refresh endpoint rejected its credentials")

	// ErrNoRefreshedToken is returned when a refresh settles without
	// producing a usable access token.
	ErrNoRefreshedToken = errors.New("token refresh produced no access token")
)
