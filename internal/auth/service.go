package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"uilibs/internal/httpx"
	"uilibs/internal/logger"
	"uilibs/internal/metrics"
	"uilibs/internal/platform/crypto"
)

type Service struct {
	secret   string
	ttl      time.Duration
	repo     Repository
	provider Identifier
}

func NewService(secret string, ttl time.Duration, repo Repository, provider Identifier) *Service {
	return &Service{
		secret:   secret,
		ttl:      ttl,
		repo:     repo,
		provider: provider,
	}
}

// Session is the outcome of a completed login.
type Session struct {
	Token   string
	User    User
	Role    string
	Expires time.Time
}

// BeginLogin returns the provider URL to redirect to and the state value the
// callback must echo back.
func (s *Service) BeginLogin() (string, string) {
	state := uuid.NewString()
	return s.provider.AuthCodeURL(state), state
}

// CompleteLogin verifies state, identifies the Discord account behind code,
// links it to its admin row if one exists and issues a session token.
func (s *Service) CompleteLogin(ctx context.Context, code, state, expectedState string) (Session, error) {
	if state == "" || state != expectedState {
		return Session{}, ErrInvalidState
	}
	if code == "" {
		return Session{}, ErrUnauthorized
	}

	du, err := s.provider.Identify(ctx, code)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	u, err := s.repo.UpsertUser(ctx, du)
	if err != nil {
		return Session{}, fmt.Errorf("upsert user: %w", err)
	}

	isAdmin, err := s.repo.LinkAdmin(ctx, du.ID, u.ID)
	if err != nil {
		return Session{}, fmt.Errorf("link admin: %w", err)
	}

	role := httpx.RoleUser
	if isAdmin {
		role = httpx.RoleAdmin
	}

	token, err := crypto.GenerateToken(s.secret, u.ID, role, u.Username, s.ttl)
	if err != nil {
		return Session{}, err
	}

	metrics.AdminLogins.WithLabelValues(role).Inc()
	logger.For(ctx).WithFields(logrus.Fields{
		"user_id": u.ID,
		"role":    role,
	}).Info("login completed")

	return Session{
		Token:   token,
		User:    u,
		Role:    role,
		Expires: time.Now().Add(s.ttl),
	}, nil
}

// IsAdmin consults the admins table, so revoking a row takes effect before
// the session token expires.
func (s *Service) IsAdmin(ctx context.Context, userID string) (bool, error) {
	return s.repo.IsAdmin(ctx, userID)
}

func (s *Service) Me(ctx context.Context, userID string) (User, bool, error) {
	u, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return User{}, false, err
	}
	isAdmin, err := s.repo.IsAdmin(ctx, userID)
	if err != nil {
		return User{}, false, err
	}
	return u, isAdmin, nil
}
