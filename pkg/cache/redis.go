package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores JSON objects in Redis and remembers every key it wrote in a
// set so a whole group can be dropped at once. A nil *Cache, or one without a
// client, is a valid disabled cache.
type Cache struct {
	rdb    *redis.Client
	ttl    time.Duration
	keySet string
}

// Connect dials Redis and checks it answers.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		DB:       0,
		PoolSize: 20,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func New(rdb *redis.Client, keySet string, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl, keySet: keySet}
}

func (c *Cache) enabled() bool {
	return c != nil && c.rdb != nil
}

// GetObject loads key into dest. It reports false on a miss.
func (c *Cache) GetObject(ctx context.Context, key string, dest any) (bool, error) {
	if !c.enabled() {
		return false, nil
	}
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetObject stores obj under key and records key in the group set.
func (c *Cache) SetObject(ctx context.Context, key string, obj any) error {
	if !c.enabled() {
		return nil
	}
	payload, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	_, err = c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, payload, c.ttl)
		pipe.SAdd(ctx, c.keySet, key)
		return nil
	})
	return err
}

// Invalidate drops every key written through this cache.
func (c *Cache) Invalidate(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	keys, err := c.rdb.SMembers(ctx, c.keySet).Result()
	if err != nil {
		return err
	}
	return c.rdb.Del(ctx, append(keys, c.keySet)...).Err()
}
