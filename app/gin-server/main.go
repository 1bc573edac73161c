package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/jobtrack/config"
	"github.com/yoockh/jobtrack/internal/api/handlers"
	"github.com/yoockh/jobtrack/internal/api/middleware"
	"github.com/yoockh/jobtrack/internal/api/routes"
	"github.com/yoockh/jobtrack/internal/cache"
	"github.com/yoockh/jobtrack/internal/logger"
	"github.com/yoockh/jobtrack/internal/repositories"
	"github.com/yoockh/jobtrack/internal/repositories/memory"
	mongorepo "github.com/yoockh/jobtrack/internal/repositories/mongo"
	pgrepo "github.com/yoockh/jobtrack/internal/repositories/postgres"
	"github.com/yoockh/jobtrack/internal/services"
)

func main() {
	_ = godotenv.Load()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	apps, closeStore, err := openStore(log)
	if err != nil {
		log.WithError(err).Fatal("record store init failed")
	}
	defer closeStore()

	// Redis is optional; without it every list goes to the store.
	var listCache cache.Cache
	switch err := config.InitRedis(); {
	case errors.Is(err, config.ErrRedisNotConfigured):
		log.Info("Redis not configured, list cache disabled")
	case err != nil:
		log.WithError(err).Fatal("Redis init error")
	default:
		listCache = cache.NewRedisCache(config.RedisClient, "jobtrack:")
		defer config.RedisClient.Close()
		log.Info("Redis connected")
	}

	auth := middleware.AuthConfigFromEnv()
	if len(auth.Secret) == 0 {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	svc := services.NewApplicationService(apps, listCache, config.CacheTTL(), log)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log), cors.New(corsConfig()))
	routes.RegisterRoutes(r, routes.Deps{
		Applications: handlers.NewApplicationHandler(svc),
		Auth:         auth,
	})

	srv := &http.Server{
		Addr:              ":" + config.Port(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.WithField("addr", srv.Addr).Info("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("server failed")
	}
	log.Info("server stopped")
}

func openStore(log *logrus.Logger) (repositories.ApplicationRepository, func(), error) {
	driver := config.StoreDriver()
	l := log.WithField("driver", driver)

	switch driver {
	case config.DriverMemory:
		l.Warn("using in-memory store, records are lost on restart")
		return memory.NewApplicationRepo(), func() {}, nil

	case config.DriverPostgres:
		if err := config.InitPostgres(); err != nil {
			return nil, nil, err
		}
		l.Info("PostgreSQL connected")
		closeFn := func() {
			if sqlDB, err := config.PostgresDB.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return pgrepo.NewApplicationRepo(config.PostgresDB), closeFn, nil

	default:
		if err := config.InitMongo(); err != nil {
			return nil, nil, err
		}
		if err := config.EnsureMongoIndexes(); err != nil {
			return nil, nil, err
		}
		l.Info("MongoDB connected")
		closeFn := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = config.CloseMongo(ctx)
		}
		return mongorepo.NewApplicationRepo(config.MongoDatabase()), closeFn, nil
	}
}

func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	if origins := config.CORSOrigins(); len(origins) > 0 {
		cfg.AllowOrigins = origins
	} else {
		cfg.AllowAllOrigins = true
	}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	return cfg
}
