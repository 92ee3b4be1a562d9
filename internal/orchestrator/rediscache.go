package orchestrator

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/resume-job-matcher/internal/domain"
)

// RedisCacheBackend is the optional cross-process CacheBackend backed by
// Redis SETNX, letting several orchestrator replicas avoid a redundant
// sentence-store read for the same résumé id at the same moment.
type RedisCacheBackend struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCacheBackend builds a backend over an already-configured Redis
// client. ttl bounds how long a lock can be held if release is never
// called (process crash mid-population); it should comfortably exceed a
// single sentence-store round trip.
func NewRedisCacheBackend(client *redis.Client, ttl time.Duration) *RedisCacheBackend {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisCacheBackend{client: client, ttl: ttl}
}

// Lock implements CacheBackend.Lock with a SETNX-based mutual exclusion
// lock scoped to key. A failed acquisition is not an error: the caller
// falls back to its own sentence-store read.
func (b *RedisCacheBackend) Lock(ctx domain.Context, key string) (func(), bool, error) {
	if b == nil || b.client == nil {
		return func() {}, false, nil
	}

	redisKey := "sentencecache:lock:" + key
	token := uuid.NewString()
	ok, err := b.client.SetNX(ctx, redisKey, token, b.ttl).Result()
	if err != nil {
		return func() {}, false, err
	}
	if !ok {
		return func() {}, false, nil
	}

	release := func() {
		val, err := b.client.Get(ctx, redisKey).Result()
		if err != nil {
			if err != redis.Nil {
				slog.Error("sentence cache lock release failed to read token", slog.String("key", key), slog.Any("error", err))
			}
			return
		}
		if val != token {
			// Lock expired and was re-acquired by someone else; releasing
			// it now would drop their lock instead of ours.
			return
		}
		if err := b.client.Del(ctx, redisKey).Err(); err != nil {
			slog.Error("sentence cache lock release failed", slog.String("key", key), slog.Any("error", err))
		}
	}
	return release, true, nil
}
