package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds every runtime setting the server needs, loaded once at startup.
type Config struct {
	Port      string
	MongoURI  string
	MongoDB   string
	JWTSecret string
	// TokenExpiry is how long issued session tokens stay valid.
	TokenExpiry time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	OpenAIAPIKey string
	OpenAIModel  string
	// SuggestTimeout caps the wall-clock duration of a streamed suggestion.
	SuggestTimeout time.Duration

	// RedisAddr enables rate limiting of anonymous routes when set.
	RedisAddr     string
	RedisPassword string

	AllowedOrigin string
}

// LoadConfig reads configuration from the environment, loading a .env file
// first if one is present.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, relying on environment variables")
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getEnv("MONGO_DB", "mystery_message"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		TokenExpiry:    getEnvDuration("TOKEN_EXPIRY", 24*time.Hour),
		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       getEnvInt("SMTP_PORT", 587),
		SMTPUsername:   getEnv("SMTP_USERNAME", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:       getEnv("SMTP_FROM", "onboarding@mystery-message.dev"),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o"),
		SuggestTimeout: getEnvDuration("SUGGEST_TIMEOUT", 30*time.Second),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		AllowedOrigin:  getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		logrus.Warnf("Invalid integer for %s, using default", key)
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
		logrus.Warnf("Invalid duration for %s, using default", key)
	}
	return fallback
}
