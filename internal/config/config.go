package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string

	DBDriver string
	DBDSN    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// chat
	ChatHistoryLimit int
	SessionCapacity  int
	SessionIdleTTL   time.Duration

	// AI provider
	AIProvider        string
	AIModel           string
	AITimeout         time.Duration
	GeminiAPIKey      string
	AnthropicAPIKey   string
	OllamaBaseURL     string
	OllamaModel       string
	OpenRouterBaseURL string
	OpenRouterAPIKey  string
	OpenRouterModel   string
	OpenRouterSiteURL string
	OpenRouterAppName string

	// rabbitMQ
	RabbitURL   string
	RabbitQueue string

	CORSAllowOrigins []string
}

// Load reads the process environment. A .env file in the working directory, if
// present, fills in variables that are not already set.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() Config {
	return Config{
		HTTPAddr: getString("HTTP_ADDR", ":8000"),

		DBDriver: strings.ToLower(getString("DB_DRIVER", "sqlite")),
		DBDSN:    getString("DB_DSN", "chat_history.db"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),

		ChatHistoryLimit: getInt("CHAT_HISTORY_LIMIT", 5),
		SessionCapacity:  getInt("SESSION_CAPACITY", 10000),
		SessionIdleTTL:   getDuration("SESSION_IDLE_TTL", 0),

		AIProvider:        strings.ToLower(getString("AI_PROVIDER", "gemini")),
		AIModel:           os.Getenv("AI_MODEL"),
		AITimeout:         getDuration("AI_TIMEOUT", 60*time.Second),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		AnthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
		OllamaBaseURL:     getString("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:       getString("OLLAMA_MODEL", "llama3:latest"),
		OpenRouterBaseURL: getString("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenRouterAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterModel:   getString("OPENROUTER_MODEL", "openrouter/auto"),
		OpenRouterSiteURL: os.Getenv("OPENROUTER_SITE_URL"),
		OpenRouterAppName: os.Getenv("OPENROUTER_APP_NAME"),

		RabbitURL:   os.Getenv("RABBIT_URL"),
		RabbitQueue: getString("RABBIT_QUEUE", "chat_turns"),

		CORSAllowOrigins: getList("CORS_ALLOW_ORIGINS", []string{"*"}),
	}
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
