// Package company is the onboarding collaborator: it creates the company the
// session becomes scoped to and hands any re-issued token back to the session
// layer so the new company claim lands in the derived state.
package company

import (
	"context"

	"github.com/pkg/errors"

	"github.com/finacct/go-session-client/httpapi"
	interrors "github.com/finacct/go-session-client/internal/errors"
)

// CreationData is the company creation payload.
type CreationData struct {
	Name              string `json:"company_name"`
	EIK               string `json:"company_eik"`
	CountryID         string `json:"company_country_id"`
	TypeID            string `json:"company_type_id"`
	DefaultLocaleID   string `json:"company_default_locale_id"`
	DefaultCurrencyID string `json:"company_default_currency_id"`
	AddressLine1      string `json:"company_address_line1,omitempty"`
	City              string `json:"company_city,omitempty"`
}

// CreationResponse is the backend's answer. The backend re-issues the access
// token with the new company claim; refresh token rotation is optional.
type CreationResponse struct {
	CompanyID    string `json:"companyId"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenUpdater is the slice of the session service the company client needs.
type TokenUpdater interface {
	UpdateTokens(accessToken, refreshToken string)
}

// Client creates companies through the authenticated API client.
type Client struct {
	api      *httpapi.Client
	sessions TokenUpdater
}

// NewClient creates a company Client. api must be the session's authenticated
// API client so creation requests carry credentials.
func NewClient(api *httpapi.Client, sessions TokenUpdater) (*Client, error) {
	if api == nil {
		return nil, errors.New("[company.NewClient] api client is required")
	}
	if sessions == nil {
		return nil, errors.New("[company.NewClient] session token updater is required")
	}
	return &Client{api: api, sessions: sessions}, nil
}

// Create posts the company and, when the response carries a re-issued access
// token, commits it via the session layer (keeping the stored refresh token
// unless the response rotates it).
func (c *Client) Create(ctx context.Context, data CreationData) (*CreationResponse, error) {
	resp := &CreationResponse{}
	if err := c.api.PostJSON(ctx, "/companies", data, resp); err != nil {
		return nil, interrors.Wrapf(err, "create company")
	}

	if resp.AccessToken != "" {
		c.sessions.UpdateTokens(resp.AccessToken, resp.RefreshToken)
	}
	return resp, nil
}
