// cmd/historian is an asynchronous historian service that pops turn records from a Redis queue and persists them to PostgreSQL.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jason-s-yu/landgrab/internal/cache"
	"github.com/jason-s-yu/landgrab/internal/config"
	"github.com/jason-s-yu/landgrab/internal/database"
	"github.com/jason-s-yu/landgrab/internal/historian"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	logger.SetLevel(cfg.LogLevel)
	if cfg.DatabaseURL == "" {
		logger.Fatal("historian needs DATABASE_URL or the PG_* variables")
	}
	redisAddr := cfg.RedisAddr
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("database: %v", err)
	}
	defer pool.Close()
	if err := database.EnsureSchema(ctx, pool); err != nil {
		logger.Fatalf("database schema: %v", err)
	}

	rdb, err := cache.ConnectRedis(ctx, redisAddr, cfg.RedisDB)
	if err != nil {
		logger.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	svc := historian.New(rdb, database.NewMatchRepo(pool), historian.Options{
		Queue:      cfg.QueueName,
		BatchSize:  cfg.BatchSize,
		FlushDelay: cfg.FlushDelay,
		Inactivity: cfg.Inactivity,
	}, logger.WithField("service", "historian"))
	svc.Run(ctx)
}
