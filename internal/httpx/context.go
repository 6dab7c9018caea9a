package httpx

import (
	"context"
	"net/http"

	"uilibs/internal/logger"
)

type contextKey string

const (
	userIDKey   contextKey = "userID"
	roleKey     contextKey = "role"
	usernameKey contextKey = "username"
)

// Roles carried in session tokens.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// UserIDFrom retrieves the user ID from the request context.
func UserIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// RoleFrom retrieves the user role from the request context.
func RoleFrom(r *http.Request) string {
	if v, ok := r.Context().Value(roleKey).(string); ok {
		return v
	}
	return ""
}

func UsernameFrom(r *http.Request) string {
	if v, ok := r.Context().Value(usernameKey).(string); ok {
		return v
	}
	return ""
}

// IsAdmin reports whether the request carries an admin session.
func IsAdmin(r *http.Request) bool {
	return RoleFrom(r) == RoleAdmin
}

// ContextWithUser returns a new context with the user ID, role and display name.
func ContextWithUser(ctx context.Context, userID, role, username string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, roleKey, role)
	return context.WithValue(ctx, usernameKey, username)
}

func RequestIDFrom(r *http.Request) string {
	return logger.RequestIDFrom(r.Context())
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return logger.ContextWithRequestID(ctx, id)
}
