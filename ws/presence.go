package ws

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Presence maps a user id to its live connection id. It is an injected
// dependency of the relay so the backing store can be swapped: in-process
// memory for a single backend, Redis when presence must survive restarts or
// be shared across instances.
type Presence interface {
	Register(ctx context.Context, userID, connID string) error
	Unregister(ctx context.Context, userID string) error
	// Lookup returns the connection id for a user and whether one is
	// registered.
	Lookup(ctx context.Context, userID string) (string, bool, error)
}

// MemoryPresence keeps the mapping in process memory. Entries are lost on
// restart and invisible to other processes.
type MemoryPresence struct {
	mu     sync.RWMutex
	byUser map[string]string
}

func NewMemoryPresence() *MemoryPresence {
	return &MemoryPresence{byUser: make(map[string]string)}
}

func (p *MemoryPresence) Register(_ context.Context, userID, connID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byUser[userID] = connID
	return nil
}

func (p *MemoryPresence) Unregister(_ context.Context, userID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.byUser, userID)
	return nil
}

func (p *MemoryPresence) Lookup(_ context.Context, userID string) (string, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	connID, ok := p.byUser[userID]
	return connID, ok, nil
}

const presenceTTL = 24 * time.Hour

// RedisPresence keeps the mapping in Redis under presence:<userID>, so it
// survives process restarts and is shared across backend instances.
type RedisPresence struct {
	client *redis.Client
}

func NewRedisPresence(client *redis.Client) *RedisPresence {
	return &RedisPresence{client: client}
}

func (p *RedisPresence) Register(ctx context.Context, userID, connID string) error {
	return p.client.Set(ctx, "presence:"+userID, connID, presenceTTL).Err()
}

func (p *RedisPresence) Unregister(ctx context.Context, userID string) error {
	return p.client.Del(ctx, "presence:"+userID).Err()
}

func (p *RedisPresence) Lookup(ctx context.Context, userID string) (string, bool, error) {
	connID, err := p.client.Get(ctx, "presence:"+userID).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return connID, true, nil
}
