package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port string
	Env  string

	// MaxUploadBytes caps the size of one uploaded file.
	MaxUploadBytes int64

	// WorkerCount bounds concurrent files within a batch. 1 processes files
	// strictly in arrival order.
	WorkerCount int
}

func Load() *Config {
	return &Config{
		Port:           getEnv("SERVICE_PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		MaxUploadBytes: getEnvAsInt64("MAX_UPLOAD_SIZE", 50*1024*1024),
		WorkerCount:    getEnvAsInt("WORKER_COUNT", 1),
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
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}
