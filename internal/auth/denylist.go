package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MemoryDenylist список отзыва в памяти процесса
type MemoryDenylist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (d *MemoryDenylist) Add(_ context.Context, jti string, expiresAt time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries[jti] = expiresAt
	return nil
}

func (d *MemoryDenylist) Contains(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	expiresAt, ok := d.entries[jti]
	if !ok {
		return false, nil
	}
	if d.now().After(expiresAt) {
		delete(d.entries, jti)
		return false, nil
	}
	return true, nil
}

// Sweep удаляет истёкшие записи и возвращает их количество
func (d *MemoryDenylist) Sweep(_ context.Context) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	removed := 0
	for jti, expiresAt := range d.entries {
		if now.After(expiresAt) {
			delete(d.entries, jti)
			removed++
		}
	}
	return removed
}

// Len количество записей
func (d *MemoryDenylist) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}

const redisKeyPrefix = "auth:revoked:"

// RedisDenylist список отзыва в Redis, записи истекают вместе с токеном
type RedisDenylist struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisDenylist(client *redis.Client) *RedisDenylist {
	return &RedisDenylist{client: client, now: time.Now}
}

func (d *RedisDenylist) Add(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, redisKeyPrefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (d *RedisDenylist) Contains(ctx context.Context, jti string) (bool, error) {
	n, err := d.client.Exists(ctx, redisKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}
