package discord

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, meStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("code") != "good" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		assert.Equal(t, "cid", r.PostForm.Get("client_id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("GET /api/users/@me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))
		w.WriteHeader(meStatus)
		_, _ = w.Write([]byte(`{"id":"80351110224678912","username":"nelly","global_name":"Nelly"}`))
	})
	return httptest.NewServer(mux)
}

func TestClient_AuthCodeURL(t *testing.T) {
	c := NewClient("cid", "secret", "http://localhost:8080/auth/discord/callback")

	u, err := url.Parse(c.AuthCodeURL("st4te"))
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "discord.com", u.Host)
	assert.Equal(t, "cid", q.Get("client_id"))
	assert.Equal(t, "st4te", q.Get("state"))
	assert.Equal(t, "identify", q.Get("scope"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "http://localhost:8080/auth/discord/callback", q.Get("redirect_uri"))
}

func TestClient_Identify(t *testing.T) {
	srv := newTestServer(t, http.StatusOK)
	defer srv.Close()

	c := NewClient("cid", "secret", "http://cb", WithEndpoints(srv.URL+"/authorize", srv.URL+"/token", srv.URL+"/api"))

	u, err := c.Identify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "80351110224678912", u.ID)
	assert.Equal(t, "Nelly", u.DisplayName())
}

func TestClient_Identify_BadCode(t *testing.T) {
	srv := newTestServer(t, http.StatusOK)
	defer srv.Close()

	c := NewClient("cid", "secret", "http://cb", WithEndpoints(srv.URL+"/authorize", srv.URL+"/token", srv.URL+"/api"))

	_, err := c.Identify(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrExchange)
}

func TestClient_Identify_UserLookupFails(t *testing.T) {
	srv := newTestServer(t, http.StatusUnauthorized)
	defer srv.Close()

	c := NewClient("cid", "secret", "http://cb", WithEndpoints(srv.URL+"/authorize", srv.URL+"/token", srv.URL+"/api"))

	_, err := c.Identify(context.Background(), "good")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "nelly", User{Username: "nelly"}.DisplayName())
}
