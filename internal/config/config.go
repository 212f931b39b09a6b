// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port             string
	AppEnv           string
	DatabaseURL      string
	RedisAddr        string
	CORSOrigins      string
	SessionTTL       time.Duration
	PythonExecutable string
	PredictScript    string
	PredictTimeout   time.Duration
}

func Load() Config {
	return Config{
		Port:             GetEnv("PORT", "8080"),
		AppEnv:           GetEnv("APP_ENV", "development"),
		DatabaseURL:      GetEnv("DATABASE_URL", "host=localhost port=5432 user=postgres dbname=texthunter sslmode=disable"),
		RedisAddr:        GetEnv("REDIS_ADDR", "localhost:6379"),
		CORSOrigins:      GetEnv("CORS_ORIGINS", "http://localhost:3000"),
		SessionTTL:       time.Duration(GetEnvAsInt("SESSION_TTL_SECONDS", 1800)) * time.Second,
		PythonExecutable: GetEnv("PYTHON_EXECUTABLE", "python3"),
		PredictScript:    GetEnv("PREDICT_SCRIPT", "scripts/predict.py"),
		PredictTimeout:   time.Duration(GetEnvAsInt("PREDICT_TIMEOUT_SECONDS", 60)) * time.Second,
	}
}

func GetEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func GetEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}
