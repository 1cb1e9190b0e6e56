package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/memberbase/member-registry/internal/session"
)

func TestSessionAuthRejectsMissingSession(t *testing.T) {
	mgr := session.NewManager(session.NewMemoryStore(), time.Hour, false, "lax")
	guard := SessionAuth(mgr)

	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run without a session")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/members", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Error.Code != "UNAUTHORIZED" {
		t.Fatalf("unexpected error code: %q", payload.Error.Code)
	}
}

func TestSessionAuthPutsSessionInContext(t *testing.T) {
	mgr := session.NewManager(session.NewMemoryStore(), time.Hour, false, "lax")
	guard := SessionAuth(mgr)

	issueRec := httptest.NewRecorder()
	issued, err := mgr.Issue(context.Background(), issueRec, 8)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	called := false
	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		s, ok := SessionFromContext(r.Context())
		if !ok {
			t.Fatalf("session missing from context")
		}
		if s.UserID != 8 || s.Token != issued.Token {
			t.Fatalf("wrong session in context: %+v", s)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/members", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: issued.Token})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if !called {
		t.Fatalf("handler not reached with a valid session")
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestSessionAuthRejectsExpiredSession(t *testing.T) {
	store := session.NewMemoryStore()
	mgr := session.NewManager(store, time.Hour, false, "lax")
	guard := SessionAuth(mgr)

	expired := &session.Session{Token: "stale", UserID: 1, ExpiresAt: time.Now().Add(-time.Minute)}
	if err := store.Save(context.Background(), expired); err != nil {
		t.Fatalf("save: %v", err)
	}

	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run with an expired session")
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/members", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "stale"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired session, got %d", rr.Code)
	}
}
