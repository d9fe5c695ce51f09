package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/rueidis"
)

// RedisLimiter is a fixed-window counter shared by every instance pointing at
// the same Redis. Each window gets its own key that expires after the window.
type RedisLimiter struct {
	client rueidis.Client
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(client rueidis.Client, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := l.windowKey(key)

	results := l.client.DoMulti(
		ctx,
		l.client.B().Incr().Key(redisKey).Build(),
		l.client.B().Pexpire().Key(redisKey).Milliseconds(l.window.Milliseconds()).Build(),
	)

	count, err := results[0].AsInt64()
	if err != nil {
		return false, err
	}
	if err := results[1].Error(); err != nil {
		return false, err
	}

	return count <= int64(l.limit), nil
}

func (l *RedisLimiter) windowKey(key string) string {
	window := l.now().UnixMilli() / l.window.Milliseconds()
	return l.prefix + key + ":" + strconv.FormatInt(window, 10)
}
