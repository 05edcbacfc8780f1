package limiter

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/rueidis"
)

// incrWindow counts a hit and arms the window expiry in one atomic step, so a
// counter never outlives its window.
var incrWindow = rueidis.NewLuaScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// RedisLimiter shares a fixed-window counter between replicas. Every window
// gets its own key, which expires once the window is over.
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

func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowKey := r.windowKey(key, r.now())

	ttl := strconv.FormatInt(r.window.Milliseconds(), 10)
	count, err := incrWindow.Exec(ctx, r.client, []string{windowKey}, []string{ttl}).AsInt64()
	if err != nil {
		return false, err
	}

	return count <= int64(r.limit), nil
}

func (r *RedisLimiter) windowKey(key string, now time.Time) string {
	return fmt.Sprintf("%s:%s:%d", r.prefix, key, now.UnixNano()/int64(r.window))
}
