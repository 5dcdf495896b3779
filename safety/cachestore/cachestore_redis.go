package cachestore

import (
	"context"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
)

// StatusCache shared between processes via redis. Gate lookups are hot, so
// a small local TinyLFU copy sits in front of the redis round-trip; local
// entries get the same TTL as the remote ones.
type RedisStatusCache struct {
	Data *cache.Cache
	TTL  time.Duration
}

var _ StatusCache = (*RedisStatusCache)(nil)

func NewRedisStatusCache(redisURL string, ttl time.Duration) (*RedisStatusCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	// check redis connection
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return &RedisStatusCache{
		Data: cache.New(&cache.Options{
			Redis:      rdb,
			LocalCache: cache.NewTinyLFU(10_000, ttl),
		}),
		TTL: ttl,
	}, nil
}

func statusKey(userID string) string {
	return "acct-status/" + userID
}

func (s *RedisStatusCache) GetStatus(ctx context.Context, userID string) (*StatusEntry, error) {
	var entry StatusEntry
	err := s.Data.Get(ctx, statusKey(userID), &entry)
	if err == cache.ErrCacheMiss {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *RedisStatusCache) PutStatus(ctx context.Context, userID string, entry StatusEntry) error {
	return s.Data.Set(&cache.Item{
		Ctx:   ctx,
		Key:   statusKey(userID),
		Value: entry,
		TTL:   s.TTL,
	})
}

func (s *RedisStatusCache) Purge(ctx context.Context, userID string) error {
	err := s.Data.Delete(ctx, statusKey(userID))
	if err == cache.ErrCacheMiss {
		return nil
	}
	return err
}
