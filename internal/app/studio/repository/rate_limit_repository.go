package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter считает запросы в фиксированном окне
type RateLimiter interface {
	// Allow инкрементирует счётчик ключа и сообщает, укладывается ли
	// вызов в лимит; retryAfter - время до конца окна при отказе
	Allow(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, retryAfter time.Duration, err error)
}

type redisRateLimiter struct {
	client *redis.Client
}

// NewRedisRateLimiter создает rate limiter на основе Redis INCR + EXPIRE
func NewRedisRateLimiter(client *redis.Client) RateLimiter {
	return &redisRateLimiter{client: client}
}

func (r *redisRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	count, err := r.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	// Первый запрос открывает окно
	if count == 1 {
		if err := r.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return false, 0, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	if count > int64(limit) {
		ttl, err := r.client.TTL(ctx, redisKey).Result()
		if err != nil || ttl < 0 {
			ttl = window
		}
		return false, ttl, nil
	}

	return true, 0, nil
}
