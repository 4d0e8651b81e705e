package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// Session is the token bundle issued by the auth service. The access token
// is a signed JWT carried in a cookie; the refresh token is an opaque value
// whose server-side record allows rotation after the access token expires.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
}

// Expired reports whether the access token lifetime has elapsed.
func (s *Session) Expired() bool {
	return !s.ExpiresAt.After(time.Now())
}

// SessionRecord is the persisted refresh-token record backing a Session.
type SessionRecord struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// SessionRepository defines the interface for refresh-token persistence
type SessionRepository interface {
	Create(ctx context.Context, record *SessionRecord) error
	GetByRefreshToken(ctx context.Context, token string) (*SessionRecord, error)
	Rotate(ctx context.Context, oldToken, newToken string, expiresAt time.Time) error
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
