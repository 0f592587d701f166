package memory

import (
	"context"
	"testing"

	"quizshow-scoreboard/internal/app"
)

func TestSessionStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(app.NewSessionFactory(app.SessionOptions{}))

	session, err := store.GetOrCreate(ctx, "show-1")
	if err != nil || session == nil {
		t.Fatalf("expected session, got %v", err)
	}
	defer session.Close()

	again, _ := store.GetOrCreate(ctx, "show-1")
	if again != session {
		t.Fatalf("expected the same session for the same show")
	}
	if _, ok := store.Get(ctx, "show-1"); !ok {
		t.Fatalf("expected session present")
	}

	store.Delete(ctx, "show-1")
	if _, ok := store.Get(ctx, "show-1"); ok {
		t.Fatalf("expected session removed")
	}
}
