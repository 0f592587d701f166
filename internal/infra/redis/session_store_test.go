package redis

import (
	"context"
	"sort"
	"testing"
	"time"

	"quizshow-scoreboard/internal/app"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute, app.NewSessionFactory(app.SessionOptions{}))

	session, err := store.GetOrCreate(ctx, "show-1")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	defer session.Close()
	if !mr.Exists("scoreboard:show:show-1") {
		t.Fatalf("expected redis key to be set")
	}
	if ttl := mr.TTL("scoreboard:show:show-1"); ttl != time.Minute {
		t.Fatalf("expected a one minute ttl, got %v", ttl)
	}

	second, _ := store.GetOrCreate(ctx, "show-2")
	defer second.Close()
	shows, err := store.LiveShows(ctx)
	if err != nil {
		t.Fatalf("live shows: %v", err)
	}
	sort.Strings(shows)
	if len(shows) != 2 || shows[0] != "show-1" || shows[1] != "show-2" {
		t.Fatalf("unexpected live shows %v", shows)
	}

	store.Delete(ctx, "show-1")
	if mr.Exists("scoreboard:show:show-1") {
		t.Fatalf("expected redis key to be removed")
	}
	if _, ok := store.Get(ctx, "show-1"); ok {
		t.Fatalf("expected session removed")
	}
}

func TestSessionStoreFailsWhenRedisIsDown(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	mr.Close()

	store := NewSessionStore(client, time.Minute, app.NewSessionFactory(app.SessionOptions{}))
	if _, err := store.GetOrCreate(context.Background(), "show-1"); err == nil {
		t.Fatalf("expected an error without redis")
	}
}
