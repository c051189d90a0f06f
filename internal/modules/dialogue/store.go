// README: Session stores: Redis-backed for the API, in-memory for demos and tests.
package dialogue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"wayfare/internal/types"
)

const sessionKeyPrefix = "dialogue:user:%s:conversation:%s:session"

// SessionStore persists the open session of a conversation between
// messages. At most one session exists per (owner, conversation) pair.
type SessionStore interface {
	Save(ctx context.Context, owner, conv types.ID, snap Snapshot) error
	// Load returns the stored snapshot and whether one exists.
	Load(ctx context.Context, owner, conv types.ID) (Snapshot, bool, error)
	Delete(ctx context.Context, owner, conv types.ID) error
}

// RedisSessionStore keeps session snapshots as JSON values with a TTL so
// stale conversations age out on their own.
type RedisSessionStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{redis: client, ttl: ttl}
}

func (s *RedisSessionStore) Save(ctx context.Context, owner, conv types.ID, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.redis.Set(ctx, sessionKey(owner, conv), data, s.ttl).Err()
}

func (s *RedisSessionStore) Load(ctx context.Context, owner, conv types.ID) (Snapshot, bool, error) {
	val, err := s.redis.Get(ctx, sessionKey(owner, conv)).Result()
	if err == redis.Nil {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, err
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("unmarshal session: %w", err)
	}
	return snap, true, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, owner, conv types.ID) error {
	return s.redis.Del(ctx, sessionKey(owner, conv)).Err()
}

func sessionKey(owner, conv types.ID) string {
	return fmt.Sprintf(sessionKeyPrefix, string(owner), string(conv))
}

// MemorySessionStore is a process-local SessionStore used by the demo CLI
// and unit tests.
type MemorySessionStore struct {
	mu    sync.Mutex
	snaps map[string]Snapshot
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{snaps: make(map[string]Snapshot)}
}

func (s *MemorySessionStore) Save(_ context.Context, owner, conv types.ID, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[sessionKey(owner, conv)] = snap
	return nil
}

func (s *MemorySessionStore) Load(_ context.Context, owner, conv types.ID) (Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snaps[sessionKey(owner, conv)]
	return snap, ok, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, owner, conv types.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snaps, sessionKey(owner, conv))
	return nil
}
