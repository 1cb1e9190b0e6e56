package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/memberbase/member-registry/internal/http/response"
	"github.com/memberbase/member-registry/internal/session"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionAuth is the guard in front of member data: requests without a live
// session are rejected before any storage call happens.
func SessionAuth(mgr *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := mgr.Resolve(r.Context(), r)
			if err != nil {
				if !errors.Is(err, session.ErrSessionNotFound) {
					slog.ErrorContext(r.Context(), "session.resolve", "error", err.Error())
					response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "session store unavailable", nil)
					return
				}
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "not authenticated", nil)
				return
			}
			ctx := context.WithValue(r.Context(), sessionContextKey, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(*session.Session)
	return s, ok
}
