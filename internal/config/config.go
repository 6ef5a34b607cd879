package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Session SessionConfig
	Ai      AIConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RedisURL           string
	AuditTopic         string
	BodyLimitMB        int
}

type SessionConfig struct {
	Backend       string // "memory" or "redis"
	TTL           time.Duration
	PurgeInterval time.Duration
	TokenTTL      time.Duration
}

type AIConfig struct {
	LLMProvider  string // "ollama" or "openai"
	LLMModel     string
	BaseURL      string
	APIKey       string
	AgentTimeout time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			AuditTopic:         getEnv("AUDIT_TOPIC_NAME", "ASSESSMENT_EVENTS"),
			BodyLimitMB:        getEnvAsInt("BODY_LIMIT_MB", 1),
		},
		Session: SessionConfig{
			Backend:       getEnv("SESSION_BACKEND", "memory"),
			TTL:           getEnvAsDuration("SESSION_TTL", 1*time.Hour),
			PurgeInterval: getEnvAsDuration("SESSION_PURGE_INTERVAL", 10*time.Minute),
			TokenTTL:      getEnvAsDuration("SESSION_TOKEN_TTL", 12*time.Hour),
		},
		Ai: AIConfig{
			LLMProvider:  getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:     getEnv("LLM_MODEL", "llama3"),
			BaseURL:      getEnv("LLM_BASE_URL", "http://localhost:11434"),
			APIKey:       getEnv("LLM_API_KEY", ""),
			AgentTimeout: getEnvAsDuration("AGENT_TIMEOUT", 120*time.Second),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
