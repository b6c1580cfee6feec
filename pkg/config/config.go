package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string   `yaml:"port"`
	GinMode     string   `yaml:"gin_mode"`
	LogLevel    string   `yaml:"log_level"`
	CORSOrigins []string `yaml:"cors_origins"`

	DBDriver   string `yaml:"db_driver"` // "postgres" or "sqlite"
	DBURL      string `yaml:"db_url"`
	DBHost     string `yaml:"db_host"`
	DBPort     int    `yaml:"db_port"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBName     string `yaml:"db_name"`
	DBSSLMode  string `yaml:"db_sslmode"`

	JWTSecret        string        `yaml:"jwt_secret"`
	JWTAccessExpiry  time.Duration `yaml:"jwt_access_expiry"`
	JWTRefreshExpiry time.Duration `yaml:"jwt_refresh_expiry"`

	GoogleClientID     string `yaml:"google_client_id"`
	GoogleClientSecret string `yaml:"google_client_secret"`
	GoogleRedirectURI  string `yaml:"google_redirect_uri"`

	AIProvider       string        `yaml:"ai_provider"` // "openai", "gemini" or "ollama"
	OpenAIAPIKey     string        `yaml:"openai_api_key"`
	OpenAIModel      string        `yaml:"openai_model"`
	OpenAIBaseURL    string        `yaml:"openai_base_url"`
	GeminiAPIKey     string        `yaml:"gemini_api_key"`
	GeminiModel      string        `yaml:"gemini_model"`
	OllamaBaseURL    string        `yaml:"ollama_base_url"`
	OllamaModel      string        `yaml:"ollama_model"`
	AITemperature    float32       `yaml:"ai_temperature"`
	AIMaxTokens      int           `yaml:"ai_max_tokens"`
	AIRequestTimeout time.Duration `yaml:"ai_request_timeout"`

	ReplyMinLength      int `yaml:"reply_min_length"`
	HistoryDefaultLimit int `yaml:"history_default_limit"`

	RateLimitPerMinute int    `yaml:"rate_limit_per_minute"`
	RedisAddr          string `yaml:"redis_addr"`
	RedisPassword      string `yaml:"redis_password"`
	RedisDB            int    `yaml:"redis_db"`
}

// Default returns the configuration used when neither a config file nor env overrides are present.
func Default() *Config {
	return &Config{
		Port:        "8080",
		GinMode:     "release",
		LogLevel:    "info",
		CORSOrigins: []string{"*"},

		DBDriver:  "postgres",
		DBHost:    "localhost",
		DBPort:    5432,
		DBUser:    "postgres",
		DBName:    "mailreply",
		DBSSLMode: "disable",

		JWTSecret:        "your-secret-key-change-in-production",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 168 * time.Hour, // 7 days

		GoogleRedirectURI: "http://localhost:8080/api/auth/google/callback",

		AIProvider:       "openai",
		OpenAIModel:      "gpt-4",
		GeminiModel:      "gemini-2.5-flash",
		OllamaBaseURL:    "http://localhost:11434",
		OllamaModel:      "llama3",
		AITemperature:    0.7,
		AIMaxTokens:      1000,
		AIRequestTimeout: 60 * time.Second,

		ReplyMinLength:      10,
		HistoryDefaultLimit: 50,

		RateLimitPerMinute: 20,
	}
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := LoadFile(path, cfg); err != nil {
			// A broken config file is a deployment mistake; keep going on env and defaults.
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
		}
	}
	applyEnv(cfg)
	return cfg
}

// LoadFile overlays the YAML file at path onto cfg.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.GinMode = getEnv("GIN_MODE", cfg.GinMode)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}

	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.DBURL = getEnv("DATABASE_URL", cfg.DBURL)
	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	cfg.DBPort = getIntEnv("DB_PORT", cfg.DBPort)
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPassword = getEnv("DB_PASSWORD", cfg.DBPassword)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)
	cfg.DBSSLMode = getEnv("DB_SSLMODE", cfg.DBSSLMode)

	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTAccessExpiry = getDurationEnv("JWT_ACCESS_EXPIRY", cfg.JWTAccessExpiry)
	cfg.JWTRefreshExpiry = getDurationEnv("JWT_REFRESH_EXPIRY", cfg.JWTRefreshExpiry)

	cfg.GoogleClientID = getEnv("GOOGLE_CLIENT_ID", cfg.GoogleClientID)
	cfg.GoogleClientSecret = getEnv("GOOGLE_CLIENT_SECRET", cfg.GoogleClientSecret)
	cfg.GoogleRedirectURI = getEnv("GOOGLE_REDIRECT_URI", cfg.GoogleRedirectURI)

	cfg.AIProvider = getEnv("AI_PROVIDER", cfg.AIProvider)
	cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIAPIKey)
	cfg.OpenAIModel = getEnv("OPENAI_MODEL", cfg.OpenAIModel)
	cfg.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", cfg.OpenAIBaseURL)
	cfg.GeminiAPIKey = getEnv("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.GeminiModel = getEnv("GEMINI_MODEL", cfg.GeminiModel)
	cfg.OllamaBaseURL = getEnv("OLLAMA_BASE_URL", cfg.OllamaBaseURL)
	cfg.OllamaModel = getEnv("OLLAMA_MODEL", cfg.OllamaModel)
	cfg.AITemperature = getFloatEnv("AI_TEMPERATURE", cfg.AITemperature)
	cfg.AIMaxTokens = getIntEnv("AI_MAX_TOKENS", cfg.AIMaxTokens)
	cfg.AIRequestTimeout = getDurationEnv("AI_REQUEST_TIMEOUT", cfg.AIRequestTimeout)

	cfg.ReplyMinLength = getIntEnv("REPLY_MIN_LENGTH", cfg.ReplyMinLength)
	cfg.HistoryDefaultLimit = getIntEnv("HISTORY_DEFAULT_LIMIT", cfg.HistoryDefaultLimit)

	cfg.RateLimitPerMinute = getIntEnv("RATE_LIMIT_PER_MINUTE", cfg.RateLimitPerMinute)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = getIntEnv("REDIS_DB", cfg.RedisDB)
}

// PostgresDSN builds a DSN from the DB_* parts unless DATABASE_URL is set.
func (c *Config) PostgresDSN() string {
	if c.DBURL != "" {
		return c.DBURL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(parsed)
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
