// Package rediscache stores computed compliance scores in Redis.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ims/internal/domain"
)

const keyPrefix = "compliance:"

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// Connect parses a redis:// URL and checks the server answers.
func Connect(ctx context.Context, url string, ttl time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return New(rdb, ttl), nil
}

func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

func Key(std domain.Standard) string { return keyPrefix + string(std) }

func (c *Cache) Get(ctx context.Context, std domain.Standard) (domain.CachedScore, bool, error) {
	raw, err := c.rdb.Get(ctx, Key(std)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.CachedScore{}, false, nil
	}
	if err != nil {
		return domain.CachedScore{}, false, err
	}
	var s domain.CachedScore
	if err := json.Unmarshal(raw, &s); err != nil {
		// a corrupt entry is treated as a miss and overwritten on the next Set
		return domain.CachedScore{}, false, nil
	}
	return s, true, nil
}

// Set stores entry. A zero TTL keeps it until invalidated.
func (c *Cache) Set(ctx context.Context, entry domain.CachedScore) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, Key(entry.Score.Standard), data, c.ttl).Err()
}

func (c *Cache) Invalidate(ctx context.Context, stds ...domain.Standard) error {
	if len(stds) == 0 {
		return nil
	}
	keys := make([]string, len(stds))
	for i, s := range stds {
		keys[i] = Key(s)
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *Cache) Close() error { return c.rdb.Close() }
