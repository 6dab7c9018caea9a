package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"uilibs/internal/auth"
	"uilibs/internal/favorites"
	"uilibs/internal/httpx"
	"uilibs/internal/library"
	"uilibs/internal/logger"
	"uilibs/internal/platform/discord"
	"uilibs/internal/platform/objectstore"
	"uilibs/internal/testutil"
)

const testSecret = "routing-secret"

func init() {
	logger.Discard()
}

type stubAuthRepo struct {
	admins map[string]bool
}

func (s stubAuthRepo) UpsertUser(context.Context, discord.User) (auth.User, error) {
	return auth.User{}, errors.New("not used")
}

func (s stubAuthRepo) GetUser(_ context.Context, id string) (auth.User, error) {
	return auth.User{ID: id}, nil
}

func (s stubAuthRepo) LinkAdmin(context.Context, string, string) (bool, error) {
	return false, nil
}

func (s stubAuthRepo) IsAdmin(_ context.Context, userID string) (bool, error) {
	return s.admins[userID], nil
}

type stubIdentifier struct{}

func (stubIdentifier) AuthCodeURL(state string) string { return "https://discord.test/?state=" + state }

func (stubIdentifier) Identify(context.Context, string) (discord.User, error) {
	return discord.User{}, errors.New("not used")
}

func newTestRouter(t *testing.T) (http.Handler, *library.MockRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := library.NewMockRepository(ctrl)
	store := library.NewMockImageStore(ctrl)

	authService := auth.NewService(testSecret, time.Hour, stubAuthRepo{admins: map[string]bool{"admin-1": true}}, stubIdentifier{})
	srv := &server{
		libraries: library.NewHTTPHandler(library.NewService(repo, store), objectstore.NewResolver("https://s", "b"), authService, 1<<20),
		favorites: favorites.NewHTTPHandler(false),
		auth:      auth.NewHTTPHandler(authService, false),
		admins:    authService,
		ready:     func(context.Context) error { return nil },
	}
	return httpx.Chain(srv.routes(),
		httpx.RecoveryMiddleware,
		httpx.RequestIDMiddleware,
		httpx.AuthMiddleware(testSecret),
		httpx.AccessLogMiddleware,
	), repo
}

func TestRouting_PublicEndpoints(t *testing.T) {
	h, repo := newTestRouter(t)
	repo.EXPECT().ListAll(gomock.Any()).Return([]library.Library{}, nil).AnyTimes()

	for _, path := range []string{"/healthz", "/readyz", "/metrics", "/v1/libraries", "/v1/libraries/tags", "/v1/favorites"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestRouting_LoginRedirects(t *testing.T) {
	h, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/discord/login", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "https://discord.test/")
}

func TestRouting_MeRequiresSession(t *testing.T) {
	h, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	r := testutil.NewRequestWithAuth(http.MethodGet, "/v1/me", nil, testutil.Token(t, testSecret, "user-1", httpx.RoleUser))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouting_AdminGate(t *testing.T) {
	tests := []struct {
		name   string
		token  func(t *testing.T) string
		status int
	}{
		{"anonymous", func(*testing.T) string { return "" }, http.StatusUnauthorized},
		{"expired admin", func(t *testing.T) string {
			return testutil.ExpiredToken(t, testSecret, "admin-1", httpx.RoleAdmin)
		}, http.StatusUnauthorized},
		{"plain user", func(t *testing.T) string {
			return testutil.Token(t, testSecret, "user-1", httpx.RoleUser)
		}, http.StatusForbidden},
		{"revoked admin", func(t *testing.T) string {
			return testutil.Token(t, testSecret, "user-1", httpx.RoleAdmin)
		}, http.StatusForbidden},
		{"promoted after login", func(t *testing.T) string {
			return testutil.Token(t, testSecret, "admin-1", httpx.RoleUser)
		}, http.StatusOK},
		{"admin", func(t *testing.T) string {
			return testutil.Token(t, testSecret, "admin-1", httpx.RoleAdmin)
		}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, repo := newTestRouter(t)
			if tt.status == http.StatusOK {
				repo.EXPECT().ListAll(gomock.Any()).Return([]library.Library{}, nil)
			}

			r := testutil.NewRequestWithAuth(http.MethodGet, "/v1/admin/libraries", nil, tt.token(t))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRouting_MethodAndPath(t *testing.T) {
	h, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/libraries", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v2/libraries", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
