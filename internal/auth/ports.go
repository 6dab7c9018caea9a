package auth

import (
	"context"

	"uilibs/internal/platform/discord"
)

type Repository interface {
	// UpsertUser records a login for the Discord account, creating the user
	// on first sight.
	UpsertUser(ctx context.Context, du discord.User) (User, error)
	GetUser(ctx context.Context, id string) (User, error)
	// LinkAdmin attaches userID to the admin row registered for discordID
	// and reports whether such a row exists.
	LinkAdmin(ctx context.Context, discordID, userID string) (bool, error)
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// Identifier resolves an OAuth authorization code to a Discord account.
type Identifier interface {
	AuthCodeURL(state string) string
	Identify(ctx context.Context, code string) (discord.User, error)
}
