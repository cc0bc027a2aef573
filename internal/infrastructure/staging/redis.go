// Package staging provides the Redis-backed primary tier of the staging
// buffer. Redis native key TTLs implement entry expiry, so expired entries
// vanish without any sweep.
package staging

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	domstaging "tenderdesk/internal/domain/staging"
)

const keyPrefix = "staging"

// RedisStore implements staging.Store on top of Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a store over an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(buffer, key string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, buffer, key)
}

// Set implements staging.Store.
func (s *RedisStore) Set(ctx context.Context, buffer, key string, e domstaging.Entry, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = domstaging.DefaultTTL
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal staging entry: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(buffer, key), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Get implements staging.Store.
func (s *RedisStore) Get(ctx context.Context, buffer, key string) (domstaging.Entry, bool, error) {
	data, err := s.client.Get(ctx, redisKey(buffer, key)).Bytes()
	if err == redis.Nil {
		return domstaging.Entry{}, false, nil
	}
	if err != nil {
		return domstaging.Entry{}, false, fmt.Errorf("redis get: %w", err)
	}

	var e domstaging.Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return domstaging.Entry{}, false, fmt.Errorf("unmarshal staging entry: %w", err)
	}
	return e, true, nil
}

// Remove implements staging.Store.
func (s *RedisStore) Remove(ctx context.Context, buffer, key string) error {
	if err := s.client.Del(ctx, redisKey(buffer, key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// ListLiveKeys implements staging.Store.
func (s *RedisStore) ListLiveKeys(ctx context.Context, buffer string) ([]string, error) {
	prefix := fmt.Sprintf("%s:%s:", keyPrefix, buffer)
	var keys []string

	iter := s.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	return keys, nil
}

// ListLive implements staging.Store.
func (s *RedisStore) ListLive(ctx context.Context, buffer string) ([]domstaging.Entry, error) {
	keys, err := s.ListLiveKeys(ctx, buffer)
	if err != nil {
		return nil, err
	}

	entries := make([]domstaging.Entry, 0, len(keys))
	for _, key := range keys {
		e, ok, err := s.Get(ctx, buffer, key)
		if err != nil {
			return nil, err
		}
		// A key may expire between the scan and the read.
		if !ok {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

var _ domstaging.Store = (*RedisStore)(nil)
