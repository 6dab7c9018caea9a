package httpx

import (
	"context"
	"net/http"
	"strings"

	"uilibs/internal/platform/crypto"
)

// SessionCookie is the cookie that carries the session token.
const SessionCookie = "session"

// AdminChecker confirms admin rights against the source of truth, so a
// revoked admin loses access before their token expires.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

func tokenFrom(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// AuthMiddleware attaches the session user to the request when a valid token
// is present. It never rejects a request.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFrom(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := crypto.ParseToken(secret, token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := ContextWithUser(r.Context(), claims.Sub, claims.Role, claims.Name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects requests without a session user.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserIDFrom(r) == "" {
			Unauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AdminStatus reports whether the session user is an admin. A non-nil
// checker is authoritative and the role claim is ignored; with a nil checker
// the claim alone decides.
func AdminStatus(r *http.Request, checker AdminChecker) (bool, error) {
	userID := UserIDFrom(r)
	if userID == "" {
		return false, nil
	}
	if checker == nil {
		return IsAdmin(r), nil
	}
	return checker.IsAdmin(r.Context(), userID)
}

// RequireAdmin rejects requests whose session user is not an admin, as
// decided by AdminStatus.
func RequireAdmin(checker AdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserIDFrom(r) == "" {
				Unauthorized(w, r)
				return
			}
			ok, err := AdminStatus(r, checker)
			if err != nil {
				InternalError(w, r, err)
				return
			}
			if !ok {
				Forbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
