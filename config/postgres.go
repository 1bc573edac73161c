package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	pgrepo "github.com/yoockh/jobtrack/internal/repositories/postgres"
)

var PostgresDB *gorm.DB

var ErrPostgresNotConfigured = errors.New("POSTGRES_URI (or DATABASE_URL) environment variable is not set")

type poolSettings struct {
	maxOpen     int
	maxIdle     int
	maxLifetime time.Duration
	maxIdleTime time.Duration
}

// postgresDSN returns POSTGRES_URI, falling back to DATABASE_URL.
func postgresDSN() string {
	for _, k := range []string{"POSTGRES_URI", "DATABASE_URL"} {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

// poolFromEnv reads PG_MAX_OPEN_CONNS and PG_MAX_IDLE_CONNS. Idle never exceeds open.
func poolFromEnv() poolSettings {
	p := poolSettings{
		maxOpen:     intEnv("PG_MAX_OPEN_CONNS", 20),
		maxIdle:     intEnv("PG_MAX_IDLE_CONNS", 5),
		maxLifetime: 30 * time.Minute,
		maxIdleTime: 5 * time.Minute,
	}
	if p.maxIdle > p.maxOpen {
		p.maxIdle = p.maxOpen
	}
	return p
}

func intEnv(key string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key))); err == nil && n > 0 {
		return n
	}
	return def
}

// InitPostgres opens the job_applications store and migrates its table.
func InitPostgres() error {
	dsn := postgresDSN()
	if dsn == "" {
		return ErrPostgresNotConfigured
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	pool := poolFromEnv()
	sqlDB.SetMaxOpenConns(pool.maxOpen)
	sqlDB.SetMaxIdleConns(pool.maxIdle)
	sqlDB.SetConnMaxLifetime(pool.maxLifetime)
	sqlDB.SetConnMaxIdleTime(pool.maxIdleTime)

	if err := pgrepo.Migrate(db); err != nil {
		_ = sqlDB.Close()
		return err
	}

	PostgresDB = db
	return nil
}
