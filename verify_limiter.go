package goVerify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var errVerifyRateLimited = errors.New("verify rate limited")

// verifyLimiter is a fixed-window failure counter for code submissions,
// keyed by the session's best subject hint. Optional: when no Redis client
// is wired the engine skips attempt limiting entirely.
type verifyLimiter struct {
	redis  *redis.Client
	max    int64
	window time.Duration
}

func newVerifyLimiter(redisClient *redis.Client, cfg VerifyConfig) *verifyLimiter {
	return &verifyLimiter{
		redis:  redisClient,
		max:    int64(cfg.MaxAttempts),
		window: cfg.AttemptWindow,
	}
}

func (l *verifyLimiter) key(subject string) string {
	return "vfy:att:" + subject
}

func (l *verifyLimiter) Check(ctx context.Context, subject string) error {
	count, err := l.redis.Get(ctx, l.key(subject)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrVerifyUnavailable, err)
	}
	if count >= l.max {
		return errVerifyRateLimited
	}
	return nil
}

func (l *verifyLimiter) RecordFailure(ctx context.Context, subject string) error {
	count, err := l.redis.Incr(ctx, l.key(subject)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVerifyUnavailable, err)
	}
	if count == 1 {
		if err := l.redis.Expire(ctx, l.key(subject), l.window).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrVerifyUnavailable, err)
		}
	}
	if count >= l.max {
		return errVerifyRateLimited
	}
	return nil
}

func (l *verifyLimiter) Reset(ctx context.Context, subject string) error {
	if err := l.redis.Del(ctx, l.key(subject)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrVerifyUnavailable, err)
	}
	return nil
}
