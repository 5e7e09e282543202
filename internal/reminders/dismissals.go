package reminders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DismissalStore remembers which call reminders the operator dismissed during
// the current session.
type DismissalStore interface {
	Dismiss(ctx context.Context, entryID string) error
	IsDismissed(ctx context.Context, entryID string) (bool, error)
}

// MemoryDismissals keeps dismissals for the lifetime of the process.
type MemoryDismissals struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func NewMemoryDismissals() *MemoryDismissals {
	return &MemoryDismissals{ids: make(map[string]struct{})}
}

func (m *MemoryDismissals) Dismiss(_ context.Context, entryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[entryID] = struct{}{}
	return nil
}

func (m *MemoryDismissals) IsDismissed(_ context.Context, entryID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.ids[entryID]
	return ok, nil
}

// RedisDismissals stores a session's dismissals in a redis set that expires
// with the session, so several desk terminals sharing a session agree.
type RedisDismissals struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisDismissals binds the store to sessionID. A zero ttl keeps the set
// until it is deleted.
func NewRedisDismissals(client *redis.Client, sessionID string, ttl time.Duration) *RedisDismissals {
	return &RedisDismissals{
		client: client,
		key:    "desk:dismissed:" + sessionID,
		ttl:    ttl,
	}
}

func (r *RedisDismissals) Dismiss(ctx context.Context, entryID string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, r.key, entryID)
	if r.ttl > 0 {
		pipe.Expire(ctx, r.key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store dismissal in redis: %w", err)
	}
	return nil
}

func (r *RedisDismissals) IsDismissed(ctx context.Context, entryID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	ok, err := r.client.SIsMember(ctx, r.key, entryID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to read dismissal from redis: %w", err)
	}
	return ok, nil
}

// Connect opens a redis client and checks it with PING.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}
