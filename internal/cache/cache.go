package cache

import (
	"context"
	"time"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// ApplicationsKey is the cache key of a user's application list.
func ApplicationsKey(userID string) string {
	return "applications:" + userID
}
