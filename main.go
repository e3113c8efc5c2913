package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"portfolio-api/internal/config"
	"portfolio-api/internal/database"
	"portfolio-api/internal/logging"
	"portfolio-api/internal/router"
	"portfolio-api/internal/session"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// load configuration (missing database URL or content dir is fatal)
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.Server.Mode, cfg.Log.Level)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	// ensure basic directories exist
	if err := ensureDir(cfg.Content.Dir); err != nil {
		logger.Fatal("create content dir", zap.Error(err))
	}
	if err := ensureDir(filepath.Dir(cfg.Translation.File)); err != nil {
		logger.Fatal("create translation dir", zap.Error(err))
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("init database", zap.Error(err))
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}

	// session store and sweeper
	store, err := buildSessionStore(cfg, db)
	if err != nil {
		logger.Fatal("init session store", zap.Error(err))
	}
	manager := session.NewManager(
		store,
		cfg.Session.CookieName,
		time.Duration(cfg.Session.IdleMinutes)*time.Minute,
		cfg.Session.CookieSecure,
		logger,
	)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go session.Sweep(sweepCtx, store, time.Duration(cfg.Session.SweepSeconds)*time.Second, logger)

	// setup router
	r := router.SetupRouter(cfg, db, logger, manager)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	logger.Info("server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("run server", zap.Error(err))
	}
}

func buildSessionStore(cfg *config.Config, db *gorm.DB) (session.Store, error) {
	switch cfg.Session.Store {
	case "memory":
		return session.NewMemoryStore(), nil
	case "database":
		return session.NewGormStore(db), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Session.RedisAddr,
			Password: cfg.Session.RedisPassword,
			DB:       cfg.Session.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		return session.NewRedisStore(client), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
