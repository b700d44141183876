package session

import (
	"context"

	interrors "github.com/finacct/go-session-client/internal/errors"
)

// The account operations below are plain request/response pass-throughs: no
// token side effects, failures propagate unchanged to the caller.

// RegisterRequest is the payload for account registration.
type RegisterRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	TermsAgreed bool   `json:"terms_agreed"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// Register creates a new account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) error {
	return interrors.Wrapf(s.api.PostJSON(ctx, "/auth/register", req, nil), "register")
}

// ResendVerification asks for a new verification email.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	return interrors.Wrapf(s.api.PostJSON(ctx, "/auth/resend-verification-email", emailRequest{Email: email}, nil), "resend verification")
}

// VerifyEmailToken confirms an email address with its verification token.
func (s *Service) VerifyEmailToken(ctx context.Context, token string) error {
	return interrors.Wrapf(s.api.PostJSON(ctx, "/auth/verify-email", tokenRequest{Token: token}, nil), "verify email")
}

// RequestPasswordReset asks for a password reset email.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	return interrors.Wrapf(s.api.PostJSON(ctx, "/auth/request-password-reset", emailRequest{Email: email}, nil), "request password reset")
}

// ResetPassword sets a new password using a reset token.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	return interrors.Wrapf(s.api.PostJSON(ctx, "/auth/reset-password", resetPasswordRequest{Token: token, NewPassword: newPassword}, nil), "reset password")
}
