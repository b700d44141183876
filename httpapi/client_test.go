package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finacct/go-session-client/httpapi"
)

func TestNewClientValidation(t *testing.T) {
	_, err := httpapi.NewClient("", http.DefaultClient)
	require.Error(t, err)

	_, err = httpapi.NewClient("http://localhost", nil)
	require.Error(t, err)
}

func TestPostJSON(t *testing.T) {
	var gotBody map[string]string
	var gotRequestID string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)
		gotRequestID = r.Header.Get("X-Request-ID")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client, err := httpapi.NewClient(server.URL+"/", http.DefaultClient)
	require.NoError(t, err)

	var out struct {
		Status string `json:"status"`
	}
	err = client.PostJSON(context.Background(), "/auth/login", map[string]string{"email": "a@b.com"}, &out)
	require.NoError(t, err)

	assert.Equal(t, "ok", out.Status)
	assert.Equal(t, "a@b.com", gotBody["email"])
	assert.NotEmpty(t, gotRequestID, "every request carries a correlation id")
}

func TestPostJSONEmptyResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := httpapi.NewClient(server.URL, http.DefaultClient)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, client.PostJSON(context.Background(), "/auth/logout", nil, &out))
}

func TestPostJSONErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))
	defer server.Close()

	client, err := httpapi.NewClient(server.URL, http.DefaultClient)
	require.NoError(t, err)

	err = client.PostJSON(context.Background(), "/auth/login", nil, nil)
	require.Error(t, err)

	var respErr *httpapi.ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusUnauthorized, respErr.StatusCode)
	assert.Equal(t, "bad credentials", respErr.Body)
	assert.True(t, httpapi.IsStatus(err, http.StatusUnauthorized))
	assert.False(t, httpapi.IsStatus(err, http.StatusForbidden))
}

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"items":["a","b"]}`))
	}))
	defer server.Close()

	client, err := httpapi.NewClient(server.URL, http.DefaultClient)
	require.NoError(t, err)

	var out struct {
		Items []string `json:"items"`
	}
	require.NoError(t, client.GetJSON(context.Background(), "/lookups/countries", &out))
	assert.Equal(t, []string{"a", "b"}, out.Items)
}
