package config

import (
	"errors"
	"testing"
)

func TestPostgresDSNPrecedence(t *testing.T) {
	t.Setenv("POSTGRES_URI", "")
	t.Setenv("DATABASE_URL", "postgres://b")
	if got := postgresDSN(); got != "postgres://b" {
		t.Fatalf("postgresDSN = %q", got)
	}

	t.Setenv("POSTGRES_URI", " postgres://a ")
	if got := postgresDSN(); got != "postgres://a" {
		t.Fatalf("postgresDSN = %q", got)
	}
}

func TestInitPostgresRequiresDSN(t *testing.T) {
	t.Setenv("POSTGRES_URI", "")
	t.Setenv("DATABASE_URL", "")
	if err := InitPostgres(); !errors.Is(err, ErrPostgresNotConfigured) {
		t.Fatalf("err = %v", err)
	}
}

func TestPoolFromEnv(t *testing.T) {
	tests := []struct {
		name           string
		open, idle     string
		wantOpen, want int
	}{
		{"defaults", "", "", 20, 5},
		{"overrides", "50", "10", 50, 10},
		{"garbage ignored", "lots", "-1", 20, 5},
		{"idle capped by open", "3", "8", 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PG_MAX_OPEN_CONNS", tt.open)
			t.Setenv("PG_MAX_IDLE_CONNS", tt.idle)
			p := poolFromEnv()
			if p.maxOpen != tt.wantOpen || p.maxIdle != tt.want {
				t.Fatalf("pool = %+v", p)
			}
		})
	}
}
