package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port      string
	DBDSN     string
	JWTSecret string
	StaticDir string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// rate limiting for the chat proxy
	RateLimitBackend   string // "memory" or "redis"
	RateLimitPerMinute int

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	ChatContextWindowSize int

	// AI provider
	AIProvider    string
	RouterBaseURL string
	RouterAPIKey  string
	RouterModel   string
	OllamaBaseURL string
	OllamaModel   string

	// rabbitMQ (async chat jobs); empty RabbitURL disables the async path
	RabbitURL   string
	RabbitQueue string
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	// DSN demo:
	// app:apppass@tcp(127.0.0.1:3306)/educonnect?charset=utf8mb4&parseTime=true&loc=Local
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
			"app", "apppass", "127.0.0.1", "3306", "educonnect",
		)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-change-me"
	}

	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "./web"
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	rateLimitBackend := os.Getenv("RATE_LIMIT_BACKEND")
	if rateLimitBackend == "" {
		rateLimitBackend = "memory"
	}

	rateLimitPerMinute := 10
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			rateLimitPerMinute = n
		}
	}

	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := 587
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			smtpPort = n
		}
	}
	smtpFrom := os.Getenv("SMTP_FROM")
	if smtpFrom == "" {
		smtpFrom = os.Getenv("SMTP_USER")
	}

	windowSize := 6
	if v := os.Getenv("CHAT_CONTEXT_WINDOW_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			windowSize = n
		}
	}

	aiProvider := os.Getenv("AI_PROVIDER")
	if aiProvider == "" {
		aiProvider = "router"
	}

	routerBaseURL := os.Getenv("ROUTER_BASE_URL")
	if routerBaseURL == "" {
		routerBaseURL = "https://router.huggingface.co/v1"
	}
	routerModel := os.Getenv("ROUTER_MODEL")
	if routerModel == "" {
		routerModel = "Qwen/Qwen3-Next-80B-A3B-Instruct:novita"
	}

	ollamaBaseURL := os.Getenv("OLLAMA_BASE_URL")
	if ollamaBaseURL == "" {
		ollamaBaseURL = "http://localhost:11434"
	}
	ollamaModel := os.Getenv("OLLAMA_MODEL")
	if ollamaModel == "" {
		ollamaModel = "llama3:latest"
	}

	rabbitQueue := os.Getenv("RABBIT_QUEUE")
	if rabbitQueue == "" {
		rabbitQueue = "chat_jobs"
	}

	return Config{
		Port:      port,
		DBDSN:     dsn,
		JWTSecret: secret,
		StaticDir: staticDir,

		RedisAddr:     redisAddr,
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		RateLimitBackend:   rateLimitBackend,
		RateLimitPerMinute: rateLimitPerMinute,

		SMTPHost: smtpHost,
		SMTPPort: smtpPort,
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: smtpFrom,

		ChatContextWindowSize: windowSize,

		AIProvider:    aiProvider,
		RouterBaseURL: routerBaseURL,
		RouterAPIKey:  os.Getenv("ROUTER_API_KEY"),
		RouterModel:   routerModel,
		OllamaBaseURL: ollamaBaseURL,
		OllamaModel:   ollamaModel,

		RabbitURL:   os.Getenv("RABBIT_URL"),
		RabbitQueue: rabbitQueue,
	}
}
