package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Ai          AIConfig
	Workspace   WorkspaceConfig
	Leaderboard LeaderboardConfig
	Tracing     TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	RealtimeLogPath    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string
}

type DatabaseConfig struct {
	Connection  string
	AutoMigrate bool
}

type AIConfig struct {
	LLMProvider   string // "ollama"
	LLMModel      string // e.g. "llama3", "qwen2.5:7b"
	OllamaBaseURL string
}

type WorkspaceConfig struct {
	ExtractDebounce time.Duration
	HistoryCap      int
	SessionTTL      time.Duration
	KVBackend       string // "redis" or "postgres"
}

type LeaderboardConfig struct {
	ActiveWindow    time.Duration
	MaxRecords      int
	ActivitySubject string
	RefreshInterval time.Duration // republish so stale users fall out of the window
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			RealtimeLogPath:    getEnv("REALTIME_LOG_FILE_PATH", "logs/realtime.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection:  getEnv("DB_CONNECTION_STRING", ""),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:      getEnv("LLM_MODEL", "qwen2.5:7b"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
		Workspace: WorkspaceConfig{
			ExtractDebounce: getEnvAsDuration("WORKSPACE_EXTRACT_DEBOUNCE", 1200*time.Millisecond),
			HistoryCap:      getEnvAsInt("WORKSPACE_HISTORY_CAP", 50),
			SessionTTL:      getEnvAsDuration("WORKSPACE_SESSION_TTL", 2*time.Hour),
			KVBackend:       strings.ToLower(getEnv("WORKSPACE_KV_BACKEND", "redis")),
		},
		Leaderboard: LeaderboardConfig{
			ActiveWindow:    time.Duration(getEnvAsInt("LEADERBOARD_WINDOW_HOURS", 24)) * time.Hour,
			MaxRecords:      getEnvAsInt("LEADERBOARD_MAX_RECORDS", 40),
			ActivitySubject: getEnv("LEADERBOARD_ACTIVITY_SUBJECT", "leaderboard.activity"),
			RefreshInterval: getEnvAsDuration("LEADERBOARD_REFRESH_INTERVAL", time.Minute),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "studyspace-be"),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("1.5s") or plain milliseconds ("1500").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	if ms, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}
