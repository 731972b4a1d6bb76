package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eternal-365/educonnect/internal/ai"
	"github.com/eternal-365/educonnect/internal/chat"
	"github.com/eternal-365/educonnect/internal/config"
	"github.com/eternal-365/educonnect/internal/db"
	"github.com/eternal-365/educonnect/internal/httpapi"
	"github.com/eternal-365/educonnect/internal/ratelimit"
	"github.com/eternal-365/educonnect/internal/store/rabbitmq"
	"github.com/eternal-365/educonnect/internal/users"
)

func main() {
	cfg := config.Load()

	gdb := db.Connect(cfg.DBDSN)
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	usersSvc := users.NewService(users.NewRepo(gdb))
	if err := usersSvc.Seed(context.Background()); err != nil {
		log.Printf("seed: %v", err)
	}

	var limiter ratelimit.Limiter
	switch cfg.RateLimitBackend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		limiter = ratelimit.NewRedisLimiter(rdb, cfg.RateLimitPerMinute, time.Minute)
	default:
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimitPerMinute, time.Minute)
	}

	reg := ai.NewRegistry()
	reg.Register("router", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		m := strings.TrimSpace(model)
		if m == "" {
			m = cfg.RouterModel
		}
		return ai.NewRouterProvider(cfg.RouterBaseURL, cfg.RouterAPIKey, m), nil
	})
	reg.Register("ollama", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		m := strings.TrimSpace(model)
		if m == "" {
			m = cfg.OllamaModel
		}
		return ai.NewOllamaProvider(cfg.OllamaBaseURL, m), nil
	})

	chatSvc := chat.NewService(chat.NewRepo(gdb), usersSvc, reg, limiter, cfg.AIProvider, "", cfg.ChatContextWindowSize)

	var rabbit *rabbitmq.Publisher
	if cfg.RabbitURL != "" {
		var err error
		rabbit, err = rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
		if err != nil {
			log.Fatalf("rabbit: %v", err)
		}
		defer rabbit.Close()
	}

	r := httpapi.NewRouter(gdb, cfg, usersSvc, chatSvc, rabbit)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}

	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
