package cache

import (
	"context"
	"fmt"

	"github.com/Domenick1991/bustrip/config"
	"github.com/redis/go-redis/v9"
)

// RedisCache keeps seat occupancy in Redis so every app instance sees the same seats.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(cfg config.RedisConfig) *RedisCache {
	return NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}))
}

func NewRedisCacheWithClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// AcquireSeat claims a seat for holder. It returns false when the seat is taken.
func (c *RedisCache) AcquireSeat(ctx context.Context, tripKey string, seat int, holder string) (bool, error) {
	return c.client.SetNX(ctx, seatKey(tripKey, seat), holder, 0).Result()
}

// releaseSeatScript deletes the seat key only when it still names the holder.
var releaseSeatScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ReleaseSeat frees a seat only while holder still owns it. It reports whether a lock was removed.
func (c *RedisCache) ReleaseSeat(ctx context.Context, tripKey string, seat int, holder string) (bool, error) {
	n, err := releaseSeatScript.Run(ctx, c.client, []string{seatKey(tripKey, seat)}, holder).Int64()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func seatKey(tripKey string, seat int) string {
	return fmt.Sprintf("seat:trip:%s:%d", tripKey, seat)
}
