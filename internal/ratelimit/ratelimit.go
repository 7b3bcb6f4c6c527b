package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Limiter is the admission-control capability checked once, first,
// per mutating request.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// slidingWindow trims expired members, counts the survivors, and inserts
// the new request in one script so two bursts arriving at the limit
// cannot both pass the count check.
const slidingWindowSrc = `
redis.call("ZREMRANGEBYSCORE", KEYS[1], "0", ARGV[1])
if redis.call("ZCARD", KEYS[1]) >= tonumber(ARGV[2]) then
	return 0
end
redis.call("ZADD", KEYS[1], ARGV[3], ARGV[3])
redis.call("PEXPIRE", KEYS[1], ARGV[4])
return 1
`

var slidingWindow = redis.NewScript(slidingWindowSrc)

// RedisLimiter is a sliding-window counter over a redis sorted set:
// one member per request, scored by timestamp, trimmed to the window.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := time.Now()
	redisKey := fmt.Sprintf("ratelimit:%s:%s", l.prefix, key)
	windowStart := now.Add(-l.window)

	res, err := slidingWindow.Run(ctx, l.client,
		[]string{redisKey},
		windowStart.UnixNano(),
		l.limit,
		now.UnixNano(),
		l.window.Milliseconds(),
	).Int64()
	if err != nil {
		return false, err
	}

	return res == 1, nil
}

func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}
