package session

import "errors"

var (
	// ErrNoRefreshToken means a refresh was attempted with nothing stored.
	// Fatal for the current session; no network call is made.
	ErrNoRefreshToken = errors.New("no refresh token available")

	// ErrRefreshTokenMissing means the refresh endpoint answered successfully
	// but omitted the access token. Fatal for the current session.
	ErrRefreshTokenMissing = errors.New("refresh token endpoint did not return an access token")

	// ErrLoginTokensMissing means the login endpoint answered successfully
	// but omitted one or both tokens.
	ErrLoginTokensMissing = errors.New("login response did not include expected tokens")
)
