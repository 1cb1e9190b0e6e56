package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreSaveFindDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	s := &Session{Token: "tok-1", UserID: 7, ExpiresAt: time.Now().Add(time.Hour)}
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}

	found, err := store.Find(ctx, "tok-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.UserID != 7 {
		t.Fatalf("unexpected session: %+v", found)
	}

	if err := store.Delete(ctx, "tok-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Find(ctx, "tok-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
}

func TestMemoryStoreExpiredSessionBehavesLikeAbsent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	s := &Session{Token: "tok-2", UserID: 9, ExpiresAt: time.Now().Add(-time.Minute)}
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := store.Find(ctx, "tok-2"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for expired session, got %v", err)
	}
}

func TestMemoryStoreUnknownToken(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.Find(context.Background(), "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
