package services

import (
	"context"
	"errors"
	"gradebook/backend/app/models"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

// LoginThrottle counts failed logins per role and username.
type LoginThrottle interface {
	// Allow reports whether another attempt is permitted.
	Allow(ctx context.Context, role models.Role, username string) (bool, error)
	Fail(ctx context.Context, role models.Role, username string) error
	Reset(ctx context.Context, role models.Role, username string) error
}

// NoopThrottle never blocks. It is used when no redis is configured.
type NoopThrottle struct{}

func (NoopThrottle) Allow(context.Context, models.Role, string) (bool, error) { return true, nil }
func (NoopThrottle) Fail(context.Context, models.Role, string) error          { return nil }
func (NoopThrottle) Reset(context.Context, models.Role, string) error         { return nil }

const keyLoginFailures = "gradebook:login_failures:"

// RedisThrottle locks a username out for Window once MaxFailures failed
// attempts accumulate within that window.
type RedisThrottle struct {
	rdb         redis.Cmdable
	MaxFailures int
	Window      time.Duration
}

func NewRedisThrottle(rdb redis.Cmdable, maxFailures int, window time.Duration) *RedisThrottle {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &RedisThrottle{rdb: rdb, MaxFailures: maxFailures, Window: window}
}

func failureKey(role models.Role, username string) string {
	return keyLoginFailures + role.String() + ":" + username
}

func (t *RedisThrottle) Allow(ctx context.Context, role models.Role, username string) (bool, error) {
	n, err := t.rdb.Get(ctx, failureKey(role, username)).Int()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return true, oops.Wrapf(err, "read login failures")
	}
	return n < t.MaxFailures, nil
}

func (t *RedisThrottle) Fail(ctx context.Context, role models.Role, username string) error {
	key := failureKey(role, username)
	n, err := t.rdb.Incr(ctx, key).Result()
	if err != nil {
		return oops.Wrapf(err, "record login failure")
	}
	if n == 1 {
		if err := t.rdb.Expire(ctx, key, t.Window).Err(); err != nil {
			return oops.Wrapf(err, "expire login failures")
		}
	}
	return nil
}

func (t *RedisThrottle) Reset(ctx context.Context, role models.Role, username string) error {
	if err := t.rdb.Del(ctx, failureKey(role, username)).Err(); err != nil {
		return oops.Wrapf(err, "reset login failures")
	}
	return nil
}
