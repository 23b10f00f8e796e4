package lib

import (
	"atman/src/config"
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

func InitRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	redisClient = redis.NewClient(opt)
	return redisClient
}

func GetRedisClient() *redis.Client {
	return redisClient
}

// NewRedisClient replaces the shared instance, used by tests.
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}

// CacheGetJSON loads a cached value into out. Returns false on miss or when
// caching is disabled. Only public content is ever cached here; booking,
// payment and capacity state always come from the database.
func CacheGetJSON(ctx context.Context, key string, out any) bool {
	rd := GetRedisClient()
	if rd == nil {
		return false
	}
	val, err := rd.Get(ctx, key).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		log.Printf("[redis] Error reading key %s: %s\n", key, err.Error())
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		log.Printf("[redis] Error decoding cached value for %s: %s\n", key, err.Error())
		return false
	}
	return true
}

func CacheSetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	rd := GetRedisClient()
	if rd == nil {
		return
	}
	b, err := json.Marshal(value)
	if err != nil {
		log.Printf("[redis] Error encoding value for %s: %s\n", key, err.Error())
		return
	}
	if err := rd.Set(ctx, key, string(b), ttl).Err(); err != nil {
		log.Printf("[redis] Error writing key %s: %s\n", key, err.Error())
	}
}

func CacheInvalidate(ctx context.Context, keys ...string) {
	rd := GetRedisClient()
	if rd == nil || len(keys) == 0 {
		return
	}
	if err := rd.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[redis] Error invalidating keys %v: %s\n", keys, err.Error())
	}
}
