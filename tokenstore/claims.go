package tokenstore

import (
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// HasuraClaims is the namespaced claims block the backend embeds in every
// access token. The company id is absent until the user has completed
// onboarding.
type HasuraClaims struct {
	AllowedRoles []string `json:"x-hasura-allowed-roles,omitempty"`
	DefaultRole  string   `json:"x-hasura-default-role,omitempty"`
	UserID       string   `json:"x-hasura-user-id,omitempty"`
	CompanyID    string   `json:"x-hasura-company-id,omitempty"`
}

// Claims is the decoded payload of an access token. Decoding never verifies
// the signature - the client trusts the server that issued the token and only
// needs the payload for expiry and company scoping.
type Claims struct {
	Email     string       `json:"email,omitempty"`
	FirstName string       `json:"first_name,omitempty"`
	Hasura    HasuraClaims `json:"https://hasura.io/jwt/claims,omitempty"`
	jwtlib.RegisteredClaims
}

// decodeClaims parses the payload of rawToken without signature verification.
func decodeClaims(rawToken string) (*Claims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, ErrNoToken
	}

	claims := &Claims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(rawToken, claims); err != nil {
		return nil, err
	}

	return claims, nil
}
