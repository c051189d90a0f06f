// README: Redis session store integration test (requires a live redis).
package dialogue

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"wayfare/internal/types"
)

// TestRedisSessionStore runs against a real redis when WAYFARE_REDIS_ADDR
// is set; otherwise it is skipped.
func TestRedisSessionStore(t *testing.T) {
	addr := os.Getenv("WAYFARE_REDIS_ADDR")
	if addr == "" {
		t.Skip("WAYFARE_REDIS_ADDR not set; skipping redis integration test")
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("redis ping: %v", err)
	}
	defer client.Close()

	store := NewRedisSessionStore(client, time.Minute)
	owner, conv := types.ID("it-user"), types.ID("it-conv")
	defer store.Delete(ctx, owner, conv)

	if _, open, err := store.Load(ctx, owner, conv); err != nil || open {
		t.Fatalf("load before save: open=%v err=%v", open, err)
	}

	sess, err := StartSession(PartialRequest{}, FieldOrder)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sess.SubmitAnswer("Chennai"); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, owner, conv, sess.Snapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}

	snap, open, err := store.Load(ctx, owner, conv)
	if err != nil || !open {
		t.Fatalf("load after save: open=%v err=%v", open, err)
	}
	restored, err := RestoreSession(snap)
	if err != nil {
		t.Fatal(err)
	}
	if restored.Current() != FieldDestination {
		t.Errorf("restored current = %s, want destination", restored.Current())
	}
	if p := restored.Partial(); p.Source == nil || *p.Source != "Chennai" {
		t.Errorf("restored partial = %+v, want source Chennai", p)
	}

	// The key carries the TTL so stale conversations age out.
	ttl, err := client.TTL(ctx, sessionKey(owner, conv)).Result()
	if err != nil {
		t.Fatal(err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("ttl = %v, want (0, 1m]", ttl)
	}

	if err := store.Delete(ctx, owner, conv); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, open, _ := store.Load(ctx, owner, conv); open {
		t.Error("session still present after delete")
	}
}
