package session

import (
	"context"
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

type Session struct {
	Token     string    `json:"token"`
	UserID    uint      `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store holds server-side session state keyed by opaque token. Expired
// sessions behave exactly like absent ones.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Find(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}
