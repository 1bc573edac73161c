package config

import (
	"os"
	"strings"
	"time"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// StoreDriver selects the record store backend (STORE_DRIVER, default mongo).
func StoreDriver() string {
	switch v := strings.ToLower(strings.TrimSpace(os.Getenv("STORE_DRIVER"))); v {
	case DriverPostgres, DriverMemory:
		return v
	}
	return DriverMongo
}

// CORSOrigins reads CORS_ORIGINS as a comma separated list. Empty means any origin.
func CORSOrigins() []string {
	var out []string
	for _, o := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func Port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "8080"
}

// CacheTTL reads CACHE_TTL ("5m", "30s"); invalid or empty values give 5 minutes.
func CacheTTL() time.Duration {
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return 5 * time.Minute
}
