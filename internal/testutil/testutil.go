// Package testutil holds helpers shared by handler tests.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"uilibs/internal/httpx"
	"uilibs/internal/platform/crypto"
)

// Token signs a one-hour session token.
func Token(t testing.TB, secret, userID, role string) string {
	t.Helper()
	token, err := crypto.GenerateToken(secret, userID, role, "tester", time.Hour)
	require.NoError(t, err)
	return token
}

// ExpiredToken signs a session token that expired an hour ago.
func ExpiredToken(t testing.TB, secret, userID, role string) string {
	t.Helper()
	c := crypto.Claims{
		Sub:  userID,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    crypto.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

// NewRequestWithAuth builds a request carrying token as a bearer credential.
func NewRequestWithAuth(method, path string, body io.Reader, token string) *http.Request {
	r := httptest.NewRequest(method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// Envelope is the decoded form of every JSON response.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
	Error   struct {
		Code    string              `json:"code"`
		Message string              `json:"message"`
		Details []httpx.ErrorDetail `json:"details"`
	} `json:"error"`
}

func DecodeEnvelope(t testing.TB, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return env
}

// DecodeData unmarshals the envelope's data into v.
func (e Envelope) DecodeData(t testing.TB, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(e.Data, v))
}
