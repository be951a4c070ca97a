package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Backend REST API
	APIBaseURL  string
	HTTPTimeout time.Duration

	// Web front-end
	ListenAddr string

	// Session token storage
	SessionStore  string // "file" or "redis"
	SessionFile   string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Sign-in
	SessionMinutes int

	// Telemetry viewer
	WindowSize int
	ExportDir  string

	// Application
	LogLevel string
	LogFile  string
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	timeoutSec, _ := strconv.Atoi(getEnv("HTTP_TIMEOUT_SECONDS", "30"))
	sessionMinutes, _ := strconv.Atoi(getEnv("SESSION_MINUTES", "170"))
	windowSize, _ := strconv.Atoi(getEnv("WINDOW_SIZE", "11"))

	return &Config{
		APIBaseURL:  getEnv("API_BASE_URL", "http://127.0.0.1:5001"),
		HTTPTimeout: time.Duration(timeoutSec) * time.Second,

		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),

		SessionStore:  getEnv("SESSION_STORE", "file"),
		SessionFile:   getEnv("SESSION_FILE", defaultSessionFile()),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,

		SessionMinutes: sessionMinutes,

		WindowSize: windowSize,
		ExportDir:  getEnv("EXPORT_DIR", "."),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}
}

// defaultSessionFile places the token under the user config directory, the
// closest analog to the secure store the mobile client uses.
func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".iotview-token"
	}
	return filepath.Join(dir, "iotview", "token")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
