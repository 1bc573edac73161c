package config

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// ErrRedisNotConfigured means no address was given; the list cache is then disabled.
var ErrRedisNotConfigured = errors.New("REDIS_ADDR (or REDIS_URI/REDIS_URL) environment variable is not set")

// redisAddr returns the first of REDIS_ADDR, REDIS_URI, REDIS_URL that is set.
func redisAddr() string {
	for _, k := range []string{"REDIS_ADDR", "REDIS_URI", "REDIS_URL"} {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

// redisOptions accepts a redis:// or rediss:// URL or a bare host:port.
func redisOptions(addr string) (*redis.Options, error) {
	if addr == "" {
		return nil, ErrRedisNotConfigured
	}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		return redis.ParseURL(addr)
	}
	return &redis.Options{Addr: addr}, nil
}

// InitRedis connects the list cache. Callers treat ErrRedisNotConfigured as
// "run without a cache".
func InitRedis() error {
	opt, err := redisOptions(redisAddr())
	if err != nil {
		return err
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return err
	}

	RedisClient = client
	return nil
}
