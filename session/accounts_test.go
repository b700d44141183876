package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finacct/go-session-client/session"
)

func TestRegister(t *testing.T) {
	var gotBody map[string]any

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeJSON(t, w, map[string]string{"status": "ok"})
	})

	f := setupTestFixture(t, mux)

	err := f.service.Register(context.Background(), session.RegisterRequest{
		FirstName:   "John",
		LastName:    "Doe",
		Email:       testEmail,
		Password:    testPassword,
		TermsAgreed: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "John", gotBody["first_name"])
	assert.Equal(t, "Doe", gotBody["last_name"])
	assert.Equal(t, true, gotBody["terms_agreed"])
	assert.Equal(t, 0, f.storage.Len(), "registration has no token side effects")
}

func TestAccountEndpointsPostExpectedBodies(t *testing.T) {
	type call struct {
		path string
		body map[string]any
	}
	var calls []call

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		calls = append(calls, call{path: r.URL.Path, body: body})
		writeJSON(t, w, map[string]string{"status": "ok"})
	})

	f := setupTestFixture(t, handler)
	ctx := context.Background()

	require.NoError(t, f.service.ResendVerification(ctx, testEmail))
	require.NoError(t, f.service.VerifyEmailToken(ctx, "verify-token"))
	require.NoError(t, f.service.RequestPasswordReset(ctx, testEmail))
	require.NoError(t, f.service.ResetPassword(ctx, "reset-token", "new-password"))

	require.Len(t, calls, 4)
	assert.Equal(t, "/auth/resend-verification-email", calls[0].path)
	assert.Equal(t, testEmail, calls[0].body["email"])
	assert.Equal(t, "/auth/verify-email", calls[1].path)
	assert.Equal(t, "verify-token", calls[1].body["token"])
	assert.Equal(t, "/auth/request-password-reset", calls[2].path)
	assert.Equal(t, testEmail, calls[2].body["email"])
	assert.Equal(t, "/auth/reset-password", calls[3].path)
	assert.Equal(t, "reset-token", calls[3].body["token"])
	assert.Equal(t, "new-password", calls[3].body["new_password"])
}

func TestAccountFailuresLeaveSessionUntouched(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/register", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "email taken", http.StatusConflict)
	})

	f := setupTestFixture(t, mux)
	require.NoError(t, f.store.SetTokens("AT1", "RT1"))

	err := f.service.Register(context.Background(), session.RegisterRequest{Email: testEmail})
	require.Error(t, err)

	assert.Equal(t, "AT1", f.store.AccessToken())
	assert.Equal(t, "RT1", f.store.RefreshToken())
	assert.Empty(t, f.nav.Paths())
}
