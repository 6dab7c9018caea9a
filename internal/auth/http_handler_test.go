package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"uilibs/internal/httpx"
)

func cookieNamed(res *http.Response, name string) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHTTPHandler_Login(t *testing.T) {
	h := NewHTTPHandler(NewService(testSecret, time.Hour, new(mockRepo), new(mockIdentifier)), true)

	w := httptest.NewRecorder()
	h.Login(w, httptest.NewRequest(http.MethodGet, "/auth/discord/login", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	state := cookieNamed(w.Result(), stateCookie)
	require.NotNil(t, state)
	assert.True(t, state.HttpOnly)
	assert.True(t, state.Secure)

	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, state.Value, loc.Query().Get("state"))
}

func TestHTTPHandler_Callback(t *testing.T) {
	newRequest := func(code, state, cookieState string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/auth/discord/callback?code="+code+"&state="+state, nil)
		if cookieState != "" {
			r.AddCookie(&http.Cookie{Name: stateCookie, Value: cookieState})
		}
		return r
	}

	t.Run("admin lands on admin area with session", func(t *testing.T) {
		repo, idp := new(mockRepo), new(mockIdentifier)
		h := NewHTTPHandler(NewService(testSecret, time.Hour, repo, idp), false)

		idp.On("Identify", mock.Anything, "c").Return(nelly, nil)
		repo.On("UpsertUser", mock.Anything, nelly).Return(User{ID: "u-1", Username: "nelly"}, nil)
		repo.On("LinkAdmin", mock.Anything, "8035", "u-1").Return(true, nil)

		w := httptest.NewRecorder()
		h.Callback(w, newRequest("c", "st", "st"))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/admin", w.Header().Get("Location"))
		sess := cookieNamed(w.Result(), httpx.SessionCookie)
		require.NotNil(t, sess)
		assert.NotEmpty(t, sess.Value)
		assert.True(t, sess.HttpOnly)
	})

	t.Run("state mismatch", func(t *testing.T) {
		h := NewHTTPHandler(NewService(testSecret, time.Hour, new(mockRepo), new(mockIdentifier)), false)

		w := httptest.NewRecorder()
		h.Callback(w, newRequest("c", "st", "other"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_STATE")
		assert.Nil(t, cookieNamed(w.Result(), httpx.SessionCookie))
	})

	t.Run("user declined", func(t *testing.T) {
		h := NewHTTPHandler(NewService(testSecret, time.Hour, new(mockRepo), new(mockIdentifier)), false)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/auth/discord/callback?error=access_denied", nil)
		h.Callback(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHTTPHandler_Logout(t *testing.T) {
	h := NewHTTPHandler(NewService(testSecret, time.Hour, new(mockRepo), new(mockIdentifier)), false)

	w := httptest.NewRecorder()
	h.Logout(w, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	sess := cookieNamed(w.Result(), httpx.SessionCookie)
	require.NotNil(t, sess)
	assert.Equal(t, -1, sess.MaxAge)
}

func TestHTTPHandler_Me(t *testing.T) {
	repo := new(mockRepo)
	h := NewHTTPHandler(NewService(testSecret, time.Hour, repo, new(mockIdentifier)), false)

	t.Run("known user", func(t *testing.T) {
		repo.On("GetUser", mock.Anything, "u-1").Return(User{ID: "u-1", Username: "nelly"}, nil).Once()
		repo.On("IsAdmin", mock.Anything, "u-1").Return(false, nil).Once()

		r := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
		r = r.WithContext(httpx.ContextWithUser(r.Context(), "u-1", httpx.RoleUser, "nelly"))
		w := httptest.NewRecorder()
		h.Me(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"username":"nelly"`)
		assert.Contains(t, w.Body.String(), `"is_admin":false`)
	})

	t.Run("deleted user", func(t *testing.T) {
		repo.On("GetUser", mock.Anything, "gone").Return(User{}, ErrNotFound).Once()

		r := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
		r = r.WithContext(httpx.ContextWithUser(r.Context(), "gone", httpx.RoleUser, ""))
		w := httptest.NewRecorder()
		h.Me(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
