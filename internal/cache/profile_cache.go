// Package cache stores served profile representations in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wmbogo12/profiles-rest-api/internal/model"
)

// ErrMiss is returned when a profile is not cached.
var ErrMiss = errors.New("cache miss")

// ProfileCache caches the public representation of a profile. The password
// hash is never part of a cached value.
type ProfileCache interface {
	Get(ctx context.Context, id int64) (*model.UserProfileResponse, error)
	Set(ctx context.Context, p model.UserProfileResponse) error
	Delete(ctx context.Context, id int64) error
}

func key(id int64) string { return "profile:" + strconv.FormatInt(id, 10) }

// RedisProfileCache is a ProfileCache backed by Redis.
type RedisProfileCache struct {
	r   *redis.Client
	ttl time.Duration
}

// NewRedisProfileCache creates a cache whose entries expire after ttl.
func NewRedisProfileCache(r *redis.Client, ttl time.Duration) *RedisProfileCache {
	return &RedisProfileCache{r: r, ttl: ttl}
}

func (c *RedisProfileCache) Get(ctx context.Context, id int64) (*model.UserProfileResponse, error) {
	b, err := c.r.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, err
	}
	var p model.UserProfileResponse
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *RedisProfileCache) Set(ctx context.Context, p model.UserProfileResponse) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.r.Set(ctx, key(p.ID), b, c.ttl).Err()
}

func (c *RedisProfileCache) Delete(ctx context.Context, id int64) error {
	return c.r.Del(ctx, key(id)).Err()
}

// Nop is a ProfileCache that stores nothing. Used when Redis is not configured.
type Nop struct{}

func (Nop) Get(context.Context, int64) (*model.UserProfileResponse, error) { return nil, ErrMiss }
func (Nop) Set(context.Context, model.UserProfileResponse) error { return nil }
func (Nop) Delete(context.Context, int64) error { return nil }
