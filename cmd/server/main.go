// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/landgrab/internal/cache"
	"github.com/jason-s-yu/landgrab/internal/catalog"
	"github.com/jason-s-yu/landgrab/internal/config"
	"github.com/jason-s-yu/landgrab/internal/database"
	"github.com/jason-s-yu/landgrab/internal/game"
	"github.com/jason-s-yu/landgrab/internal/handlers"
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

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Fatalf("card catalog: %v", err)
	}
	logger.Infof("loaded %d card templates", cat.Len())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	matches := game.NewMatchStore()

	var decks database.DeckStore = database.NewMemoryDeckStore()
	var recorder handlers.MatchRecorder
	if cfg.DatabaseURL != "" {
		pool, err := database.ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("database: %v", err)
		}
		defer pool.Close()
		if err := database.EnsureSchema(ctx, pool); err != nil {
			logger.Fatalf("database schema: %v", err)
		}
		decks = database.NewPgDeckStore(pool)
		recorder = database.NewMatchRepo(pool)
		logger.Info("using Postgres for decks and match results")
	} else {
		logger.Warn("no database configured; decks are kept in memory")
	}

	var publisher handlers.TurnPublisher
	if cfg.RedisAddr != "" {
		rdb, err := cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			logger.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
		publisher = cache.NewTurnPublisher(rdb, cfg.QueueName)
		logger.Infof("publishing turns to Redis list %s", cfg.QueueName)
	}
	if publisher != nil || recorder != nil {
		history := handlers.NewHistoryWriter(publisher, recorder, logger, handlers.DefaultHistoryBuffer)
		defer history.Close()
		matches.OnResolved(history.Listener())
	}

	gs := handlers.NewGameServer(cat, matches, decks, logger)
	addr := ":" + cfg.Port
	if !cfg.Production() {
		// bind to localhost outside production
		addr = "localhost:" + cfg.Port
	}
	srv := &http.Server{
		Addr: addr,
		Handler: gs.Routes(handlers.RouterOptions{
			Production:     cfg.Production(),
			AllowedOrigins: cfg.AllowedOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("shutdown: %v", err)
		}
	}()

	logger.Infof("Running on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("server exited: %v", err)
	}
	logger.Info("server stopped")
}
