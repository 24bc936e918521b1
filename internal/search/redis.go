package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/pkordes/maple-planner/internal/domain"
)

const redisKeyPrefix = "maple:search:session:"

// RedisStore keeps sessions as JSON values with a TTL, so several API
// replicas can share them. Redis expires idle sessions on its own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps client. Every Put refreshes the key's ttl.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) key(id string) string { return redisKeyPrefix + id }

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	b, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("search.RedisStore.Get: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("search.RedisStore.Get: %w", err)
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("search.RedisStore.Get: decode: %w", err)
	}
	if s.Seen == nil {
		s.Seen = map[string]bool{}
	}
	if s.Results == nil {
		s.Results = []domain.Place{}
	}
	return &s, nil
}

func (r *RedisStore) Put(ctx context.Context, s *Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("search.RedisStore.Put: encode: %w", err)
	}
	if err := r.client.Set(ctx, r.key(s.ID), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("search.RedisStore.Put: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := r.client.Del(ctx, r.key(id)).Result()
	if err != nil {
		return fmt.Errorf("search.RedisStore.Delete: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("search.RedisStore.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// Sweep is a no-op; keys expire through their ttl.
func (r *RedisStore) Sweep(context.Context, time.Duration) (int, error) {
	return 0, nil
}
