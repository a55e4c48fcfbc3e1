package service

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistPrefix = "session:revoked:"

// RedisDenylist stores revoked session ids in Redis so revocation
// survives restarts and is shared between replicas.
type RedisDenylist struct {
	client *redis.Client
}

// NewRedisDenylist wraps a Redis client as a Denylist.
func NewRedisDenylist(client *redis.Client) *RedisDenylist {
	return &RedisDenylist{client: client}
}

func (d *RedisDenylist) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	return d.client.Set(ctx, denylistPrefix+sessionID, "1", ttl).Err()
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := d.client.Exists(ctx, denylistPrefix+sessionID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemoryDenylist is the fallback when Redis is not configured. Entries
// are pruned lazily on lookup.
type MemoryDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewMemoryDenylist builds an empty in-process denylist.
func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{revoked: make(map[string]time.Time)}
}

func (d *MemoryDenylist) Revoke(_ context.Context, sessionID string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[sessionID] = time.Now().Add(ttl)
	return nil
}

func (d *MemoryDenylist) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	until, ok := d.revoked[sessionID]
	if !ok {
		return false, nil
	}
	if time.Now().After(until) {
		delete(d.revoked, sessionID)
		return false, nil
	}
	return true, nil
}
