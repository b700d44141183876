package tokenstore

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Storage is the durable key/value backing for the token pair. A missing key
// is reported as an empty value with a nil error; errors are reserved for the
// backend actually failing. One shared instance serves the whole application.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// Store owns the persisted access/refresh token pair and derives session
// facts (validity, company scope) from the access token's claims. It is the
// only component that writes token storage.
type Store struct {
	storage    Storage
	accessKey  string
	refreshKey string
	nowTime    func() time.Time // injectable for testing
}

// StoreOption defines a function type to modify the Store instance.
type StoreOption func(*Store)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) StoreOption {
	return func(s *Store) {
		s.nowTime = nowFunc
	}
}

// NewStore initializes a Store over the supplied storage backend using the
// configured key names for the two tokens.
func NewStore(storage Storage, accessKey, refreshKey string, options ...StoreOption) (*Store, error) {
	if storage == nil {
		return nil, errors.New("[NewStore] storage is required")
	}
	if accessKey == "" || refreshKey == "" {
		return nil, errors.New("[NewStore] token key names are required")
	}

	store := &Store{
		storage:    storage,
		accessKey:  accessKey,
		refreshKey: refreshKey,
		nowTime:    time.Now,
	}

	for _, opt := range options {
		opt(store)
	}

	return store, nil
}

// AccessToken returns the stored access token, or "" when none is stored or
// the backend is unreachable.
func (s *Store) AccessToken() string {
	token, err := s.storage.Get(s.accessKey)
	if err != nil {
		log.Warn().Err(err).Msg("token storage read failed")
		return ""
	}
	return token
}

// RefreshToken returns the stored refresh token, or "" when none is stored or
// the backend is unreachable.
func (s *Store) RefreshToken() string {
	token, err := s.storage.Get(s.refreshKey)
	if err != nil {
		log.Warn().Err(err).Msg("token storage read failed")
		return ""
	}
	return token
}

// SetTokens persists both tokens. The pair is written together or not at all:
// if the refresh token write fails, the access token write is rolled back so
// storage never holds exactly one of the two.
func (s *Store) SetTokens(accessToken, refreshToken string) error {
	if accessToken == "" || refreshToken == "" {
		return ErrIncompleteTokenPair
	}

	if err := s.storage.Set(s.accessKey, accessToken); err != nil {
		return fmt.Errorf("store access token: %w", err)
	}
	if err := s.storage.Set(s.refreshKey, refreshToken); err != nil {
		if rbErr := s.storage.Remove(s.accessKey); rbErr != nil {
			log.Warn().Err(rbErr).Msg("failed to roll back access token write")
		}
		return fmt.Errorf("store refresh token: %w", err)
	}

	return nil
}

// ClearTokens removes both tokens. Both removals are attempted even if the
// first fails.
func (s *Store) ClearTokens() error {
	accessErr := s.storage.Remove(s.accessKey)
	refreshErr := s.storage.Remove(s.refreshKey)
	if accessErr != nil {
		return fmt.Errorf("clear access token: %w", accessErr)
	}
	if refreshErr != nil {
		return fmt.Errorf("clear refresh token: %w", refreshErr)
	}
	return nil
}

// DecodeAccessToken parses the current access token's claims. A missing or
// malformed token yields nil - "no valid session", never a caller-visible
// error.
func (s *Store) DecodeAccessToken() *Claims {
	token := s.AccessToken()
	if token == "" {
		return nil
	}

	claims, err := decodeClaims(token)
	if err != nil {
		log.Debug().Err(err).Msg("failed to decode access token")
		return nil
	}
	return claims
}

// IsAccessTokenValid reports whether a decodable access token is stored whose
// expiry lies strictly in the future. No clock-skew grace period is applied.
func (s *Store) IsAccessTokenValid() bool {
	claims := s.DecodeAccessToken()
	if claims == nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Time.After(s.nowTime())
}

// CompanyID extracts the company claim from the access token, or "" when the
// user is not yet scoped to a company.
func (s *Store) CompanyID() string {
	claims := s.DecodeAccessToken()
	if claims == nil {
		return ""
	}
	return claims.Hasura.CompanyID
}
