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

	"github.com/joho/godotenv"
	"github.com/ruimartins/status-hunter-back/internal/cache"
	"github.com/ruimartins/status-hunter-back/internal/chat"
	"github.com/ruimartins/status-hunter-back/internal/config"
	httpserver "github.com/ruimartins/status-hunter-back/internal/http"
	"github.com/ruimartins/status-hunter-back/internal/http/handlers"
	"github.com/ruimartins/status-hunter-back/internal/hunter"
	"github.com/ruimartins/status-hunter-back/internal/repository"
)

func main() {
	logger := log.New(os.Stdout, "[status-hunter] ", log.LstdFlags|log.LUTC|log.Lmicroseconds)
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Printf("failed loading .env file: %v", err)
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, storeCloser := setupStore(ctx, cfg, logger)
	defer storeCloser()

	sessions, sessionsCloser := setupSessions(ctx, cfg, logger)
	defer sessionsCloser()

	searchCache := cache.NewSearchCache(cache.Config{
		TTL:        time.Duration(cfg.SearchCacheTTLSeconds) * time.Second,
		MaxEntries: cfg.SearchCacheMaxEntries,
	})
	statusHunter := hunter.New(store, searchCache, time.Duration(cfg.SearchTimeoutMS)*time.Millisecond)
	machine := chat.NewMachine(statusHunter, cfg.ChatAutoAdvanceOnMatch)

	api := handlers.NewAPI(statusHunter, machine, sessions)
	handler := httpserver.NewRouter(httpserver.RouterDependencies{
		API:            api,
		Logger:         logger,
		AuthToken:      cfg.AuthToken,
		CORSOrigins:    cfg.CORSAllowedOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Printf("api listening on :%s", cfg.Port)
		errChan <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Printf("shutdown signal received")
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("server failed: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	}
}

func setupStore(
	ctx context.Context,
	cfg config.Config,
	logger *log.Logger,
) (repository.StatusStore, func()) {
	if cfg.DatabaseURL == "" {
		logger.Printf("DATABASE_URL not configured, using in-memory status store")
		return repository.NewMemoryStatusStore(), func() {}
	}

	pgStore, err := repository.NewPostgresStatusStore(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Printf("failed to initialize postgres status store, fallback to memory: %v", err)
		return repository.NewMemoryStatusStore(), func() {}
	}
	logger.Printf("postgres status store initialized")
	return pgStore, func() {
		pgStore.Close()
	}
}

func setupSessions(
	ctx context.Context,
	cfg config.Config,
	logger *log.Logger,
) (chat.SessionStore, func()) {
	sessionTTL := time.Duration(cfg.SessionTTLSeconds) * time.Second

	if cfg.RedisAddr == "" {
		logger.Printf("REDIS_ADDR not configured, using in-memory session store")
		return chat.NewMemorySessionStore(sessionTTL), func() {}
	}

	redisStore, err := chat.NewRedisSessionStore(ctx, chat.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      sessionTTL,
	})
	if err != nil {
		logger.Printf("failed to initialize redis session store, fallback to memory: %v", err)
		return chat.NewMemorySessionStore(sessionTTL), func() {}
	}
	logger.Printf("redis session store initialized")
	return redisStore, func() {
		_ = redisStore.Close()
	}
}
