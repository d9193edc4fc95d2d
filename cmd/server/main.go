package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hue-clues/internal/config"
	"hue-clues/internal/db"
	"hue-clues/internal/game"
	"hue-clues/internal/server"
	"hue-clues/internal/words"

	"go.uber.org/zap"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	logger, err := server.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger setup failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	store, wordSource, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("store setup failed", zap.Error(err))
	}

	hub := server.NewHub(cfg.SendQueueSize, logger.Named("hub"))
	engine := game.NewEngine(store, wordSource, hub, logger.Named("engine"), game.Options{
		RoundCap:                cfg.RoundCap,
		EnforceUniqueColors:     cfg.EnforceUniqueColors,
		RejectActivePlayerClues: cfg.RejectActivePlayerClues,
	})
	if err := engine.Restore(ctx); err != nil {
		logger.Fatal("session restore failed", zap.Error(err))
	}

	srv := server.New(engine, store, hub, cfg, logger.Named("http"))
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("hue-clues server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}

// openStore picks Postgres when DATABASE_URL is set and process memory
// otherwise. Words come from the library table when it has rows, with the
// static pool as fallback.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (game.Store, game.WordSource, error) {
	pool := words.NewPool(nil)
	if cfg.WordsFile != "" {
		loaded, err := words.LoadPool(cfg.WordsFile)
		if err != nil {
			return nil, nil, err
		}
		pool = loaded
	}

	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL is not set, using in-memory store")
		return game.NewMemoryStore(), pool, nil
	}

	conn, err := db.Open(cfg.DatabaseURL, db.Pool{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime(),
		ConnMaxIdleTime: cfg.ConnMaxIdleTime(),
	})
	if err != nil {
		return nil, nil, err
	}
	store := db.NewGormStore(conn)
	if err := store.SetUniqueColors(ctx, cfg.EnforceUniqueColors); err != nil {
		return nil, nil, err
	}

	library := words.NewLibrary(conn)
	count, err := library.Count(ctx)
	if err != nil {
		logger.Warn("word library unavailable", zap.Error(err))
		return store, pool, nil
	}
	logger.Info("word library loaded", zap.Int64("words", count))
	if count == 0 {
		return store, pool, nil
	}
	return store, words.Fallback{Primary: library, Secondary: pool}, nil
}
