package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	App        AppConfig
	RAG        RAGConfig
	Generation GenerationConfig
	History    HistoryConfig
}

type ServerConfig struct {
	Port            string
	StaticDir       string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

// DatabaseConfig is optional. When neither DSN nor Host is set, question
// history is disabled.
type DatabaseConfig struct {
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

func (d DatabaseConfig) Enabled() bool {
	return d.DSN != "" || d.Host != ""
}

type RedisConfig struct {
	URL          string
	EmbeddingTTL time.Duration
}

type AppConfig struct {
	ServiceName string
	Environment string
	LogLevel    string
	Version     string
}

type RAGConfig struct {
	Enabled  bool
	IndexDir string
	TopK     int
}

type GenerationConfig struct {
	Provider      string
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	SystemPrompt  string
	RateLimit     float64
	Burst         int
}

type HistoryConfig struct {
	Retention     time.Duration
	PruneSchedule string
}

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			StaticDir:       getEnv("STATIC_DIR", "static"),
			AllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "copilot"),
		},
		Redis: RedisConfig{
			URL:          getEnv("REDIS_URL", ""),
			EmbeddingTTL: getEnvAsDuration("EMBEDDING_CACHE_TTL", 24*time.Hour),
		},
		App: AppConfig{
			ServiceName: getEnv("SERVICE_NAME", "hr-copilot"),
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		RAG: RAGConfig{
			Enabled:  getEnvAsBool("RAG_ENABLED", true),
			IndexDir: getEnv("INDEX_DIR", "database"),
			TopK:     getEnvAsInt("SEARCH_TOP_K", 10),
		},
		Generation: GenerationConfig{
			Provider:      strings.ToLower(getEnv("GENERATION_PROVIDER", ProviderGemini)),
			GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
			GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			GeminiBaseURL: getEnv("GEMINI_BASE_URL", ""),
			OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
			SystemPrompt:  getEnv("SYSTEM_PROMPT", defaultSystemPrompt),
			RateLimit:     getEnvAsFloat("GENERATION_RATE_LIMIT", 0),
			Burst:         getEnvAsInt("GENERATION_BURST", 1),
		},
		History: HistoryConfig{
			Retention:     getEnvAsDuration("HISTORY_RETENTION", 30*24*time.Hour),
			PruneSchedule: getEnv("HISTORY_PRUNE_SCHEDULE", "0 0 3 * * *"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

const defaultSystemPrompt = "You are the HR copilot. Answer employee questions clearly and briefly, " +
	"relying on the provided company documents when they are present."

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.RAG.Enabled {
		if c.RAG.IndexDir == "" {
			return fmt.Errorf("INDEX_DIR is required when RAG_ENABLED is true")
		}
		if c.RAG.TopK <= 0 {
			return fmt.Errorf("SEARCH_TOP_K must be positive, got %d", c.RAG.TopK)
		}
	}

	switch c.Generation.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown GENERATION_PROVIDER %q", c.Generation.Provider)
	}

	if c.Generation.RateLimit < 0 {
		return fmt.Errorf("GENERATION_RATE_LIMIT must not be negative")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
