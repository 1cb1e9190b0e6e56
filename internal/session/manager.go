package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const CookieName = "registry_session"

// Manager ties the session store to the cookie the browser carries.
type Manager struct {
	store    Store
	ttl      time.Duration
	secure   bool
	sameSite http.SameSite
}

func NewManager(store Store, ttl time.Duration, secure bool, sameSite string) *Manager {
	return &Manager{
		store:    store,
		ttl:      ttl,
		secure:   secure,
		sameSite: parseSameSite(sameSite),
	}
}

// Issue creates a session for the user and sets the cookie on the response.
func (m *Manager) Issue(ctx context.Context, w http.ResponseWriter, userID uint) (*Session, error) {
	s := &Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(m.ttl),
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.Token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: m.sameSite,
	})
	return s, nil
}

// Resolve returns the live session carried by the request cookie, or
// ErrSessionNotFound.
func (m *Manager) Resolve(ctx context.Context, r *http.Request) (*Session, error) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return nil, ErrSessionNotFound
	}
	return m.store.Find(ctx, c.Value)
}

// Clear drops the session server-side and expires the cookie.
func (m *Manager) Clear(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		if err := m.store.Delete(ctx, c.Value); err != nil {
			return err
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: m.sameSite,
	})
	return nil
}

func parseSameSite(v string) http.SameSite {
	switch v {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
