package auth

import (
	"errors"
	"net/http"
	"time"

	"uilibs/internal/httpx"
	"uilibs/internal/logger"
)

const (
	stateCookie = "oauth_state"
	stateTTL    = 10 * time.Minute
)

type HTTPHandler struct {
	service      *Service
	secureCookie bool
}

func NewHTTPHandler(service *Service, secureCookie bool) *HTTPHandler {
	return &HTTPHandler{service: service, secureCookie: secureCookie}
}

// Login handles GET /auth/discord/login
// @Summary Start Discord login
// @Tags auth
// @Success 302
// @Router /auth/discord/login [get]
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	authURL, state := h.service.BeginLogin()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth",
		MaxAge:   int(stateTTL / time.Second),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback handles GET /auth/discord/callback
// @Summary Finish Discord login
// @Description Verifies the OAuth state, links the admin row and sets the session cookie
// @Tags auth
// @Param code query string true "Authorization code"
// @Param state query string true "OAuth state"
// @Success 302
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /auth/discord/callback [get]
func (h *HTTPHandler) Callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	// The state cookie is single use.
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Path: "/auth", MaxAge: -1})

	if e := query.Get("error"); e != "" {
		logger.For(r.Context()).WithField("error", e).Info("discord login declined")
		httpx.Unauthorized(w, r)
		return
	}

	expected := ""
	if c, err := r.Cookie(stateCookie); err == nil {
		expected = c.Value
	}

	sess, err := h.service.CompleteLogin(r.Context(), query.Get("code"), query.Get("state"), expected)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidState):
			httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_STATE", "Login expired, please try again", nil)
		case errors.Is(err, ErrUnauthorized):
			logger.For(r.Context()).WithError(err).Info("discord login rejected")
			httpx.Unauthorized(w, r)
		default:
			httpx.InternalError(w, r, err)
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     httpx.SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.Expires,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	target := "/"
	if sess.Role == httpx.RoleAdmin {
		target = "/admin"
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// Logout handles POST /auth/logout
// @Summary Log out
// @Tags auth
// @Success 204
// @Router /auth/logout [post]
func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     httpx.SessionCookie,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.JSONNoContent(w)
}

// Me handles GET /v1/me
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /v1/me [get]
func (h *HTTPHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, isAdmin, err := h.service.Me(r.Context(), httpx.UserIDFrom(r))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Unauthorized(w, r)
			return
		}
		httpx.InternalError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, map[string]any{
		"id":         u.ID,
		"discord_id": u.DiscordID,
		"username":   u.Username,
		"avatar":     u.Avatar,
		"is_admin":   isAdmin,
	}, nil)
}
