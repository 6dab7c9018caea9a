package auth

import (
	"errors"
	"time"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidState = errors.New("invalid oauth state")
	ErrNotFound     = errors.New("user not found")
)

// User is a person who has logged in through Discord at least once.
type User struct {
	ID          string    `json:"id"`
	DiscordID   string    `json:"discord_id"`
	Username    string    `json:"username"`
	Avatar      string    `json:"avatar,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	LastLoginAt time.Time `json:"last_login_at"`
}
