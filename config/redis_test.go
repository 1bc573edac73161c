package config

import (
	"errors"
	"testing"
)

func TestRedisOptions(t *testing.T) {
	if _, err := redisOptions(""); !errors.Is(err, ErrRedisNotConfigured) {
		t.Fatalf("empty address: %v", err)
	}

	opt, err := redisOptions("localhost:6379")
	if err != nil || opt.Addr != "localhost:6379" {
		t.Fatalf("bare address = %+v, %v", opt, err)
	}

	opt, err = redisOptions("redis://:secret@cache.internal:6380/2")
	if err != nil {
		t.Fatal(err)
	}
	if opt.Addr != "cache.internal:6380" || opt.Password != "secret" || opt.DB != 2 {
		t.Fatalf("url options = %+v", opt)
	}
	if opt.TLSConfig != nil {
		t.Fatal("redis:// must not enable TLS")
	}

	opt, err = redisOptions("rediss://cache.internal:6380")
	if err != nil || opt.TLSConfig == nil {
		t.Fatalf("rediss:// should enable TLS: %+v, %v", opt, err)
	}
}

func TestRedisAddrPrecedence(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("REDIS_URI", " redis://a:1 ")
	t.Setenv("REDIS_URL", "redis://b:2")
	if got := redisAddr(); got != "redis://a:1" {
		t.Fatalf("redisAddr = %q", got)
	}

	t.Setenv("REDIS_ADDR", "c:3")
	if got := redisAddr(); got != "c:3" {
		t.Fatalf("redisAddr = %q", got)
	}
}
