package config

import (
	"os"
	"strconv"
	"time"
)

type AppConfig struct {
	OpenAI  OpenAIConfig
	Server  ServerConfig
	Storage StorageConfig
	// InterviewConfigPath путь к YAML с настройками интервью
	InterviewConfigPath string
	Debug               bool
}

type ServerConfig struct {
	Port               int
	PublicDir          string
	RateLimitPerMinute int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
}

type StorageConfig struct {
	DatabasePath string
}

func LoadAppConfig() *AppConfig {
	return &AppConfig{
		OpenAI: *LoadOpenAIConfig(),
		Server: ServerConfig{
			Port:               getEnvAsInt("SERVER_PORT", 8080),
			PublicDir:          getEnv("PUBLIC_DIR", "public"),
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
			ReadTimeout:        getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			// генерация вопросов идет синхронно в запросе, поэтому запас по времени
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Storage: StorageConfig{
			DatabasePath: getEnv("DATABASE_PATH", "interview.sqlite"),
		},
		InterviewConfigPath: getEnv("INTERVIEW_CONFIG", "config/interview.yaml"),
		Debug:               getEnvAsBool("DEBUG", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
