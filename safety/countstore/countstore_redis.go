package countstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisViolationPrefix = "violations/"
	// HyperLogLog keys for distinct source-address estimation
	redisSourcesPrefix = "violation-sources/"
)

// ViolationCounter shared between processes via redis. The hour and day
// buckets carry expirations; the all-time bucket, which the progressive
// thresholds are compared against, never expires.
type RedisViolationCounter struct {
	Client *redis.Client
}

var _ ViolationCounter = (*RedisViolationCounter)(nil)

func NewRedisViolationCounter(redisURL string) (*RedisViolationCounter, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	// check redis connection
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return &RedisViolationCounter{Client: rdb}, nil
}

func (s *RedisViolationCounter) Increment(ctx context.Context, userID string) error {
	// all period buckets in a single redis round-trip
	multi := s.Client.Pipeline()

	key := redisViolationPrefix + periodBucket(userID, PeriodHour)
	multi.Incr(ctx, key)
	multi.Expire(ctx, key, 2*time.Hour)

	key = redisViolationPrefix + periodBucket(userID, PeriodDay)
	multi.Incr(ctx, key)
	multi.Expire(ctx, key, 48*time.Hour)

	multi.Incr(ctx, redisViolationPrefix+periodBucket(userID, PeriodTotal))

	_, err := multi.Exec(ctx)
	return err
}

func (s *RedisViolationCounter) Count(ctx context.Context, userID, period string) (int, error) {
	c, err := s.Client.Get(ctx, redisViolationPrefix+periodBucket(userID, period)).Int()
	if err == redis.Nil {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	return c, nil
}

func (s *RedisViolationCounter) NoteSource(ctx context.Context, userID, ipAddress string) error {
	multi := s.Client.Pipeline()

	key := redisSourcesPrefix + periodBucket(userID, PeriodHour)
	multi.PFAdd(ctx, key, ipAddress)
	multi.Expire(ctx, key, 2*time.Hour)

	key = redisSourcesPrefix + periodBucket(userID, PeriodDay)
	multi.PFAdd(ctx, key, ipAddress)
	multi.Expire(ctx, key, 48*time.Hour)

	multi.PFAdd(ctx, redisSourcesPrefix+periodBucket(userID, PeriodTotal), ipAddress)

	_, err := multi.Exec(ctx)
	return err
}

func (s *RedisViolationCounter) DistinctSources(ctx context.Context, userID, period string) (int, error) {
	c, err := s.Client.PFCount(ctx, redisSourcesPrefix+periodBucket(userID, period)).Result()
	if err == redis.Nil {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	return int(c), nil
}
