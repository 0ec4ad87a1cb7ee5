package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeIssuer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.Form.Get("code") != "good-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"access_token": "at-1", "token_type": "Bearer", "expires_in": 3600})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-1" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(ExternalIdentity{Subject: "sub-9", Email: "doc@x.com", Name: "Doc"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestOIDCExchange(t *testing.T) {
	srv := fakeIssuer(t)
	a, err := NewOIDCAuthenticator(srv.URL+"/", "client", "secret", "http://localhost/cb")
	require.NoError(t, err)

	id, err := a.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "doc@x.com", id.Email)
	assert.Equal(t, "sub-9", id.Subject)

	_, err = a.Exchange(context.Background(), "bad-code")
	assert.Error(t, err)
}

func TestOIDCLoginURL(t *testing.T) {
	a, err := NewOIDCAuthenticator("https://idp.example.com", "client", "", "http://localhost/cb")
	require.NoError(t, err)

	u, err := url.Parse(a.LoginURL("state-1"))
	require.NoError(t, err)
	assert.Equal(t, "/authorize", u.Path)
	assert.Equal(t, "state-1", u.Query().Get("state"))
	assert.Equal(t, "client", u.Query().Get("client_id"))

	_, err = NewOIDCAuthenticator("", "client", "", "")
	assert.Error(t, err)
}
