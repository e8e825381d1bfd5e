package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds runtime configuration loaded from the environment.
type Config struct {
	Port        string
	MongoURI    string
	DBName      string
	JWTSecret   string
	TokenExpiry time.Duration
	BaseURL     string
	FanoutLimit int
}

// LoadConfig reads configuration from the .env file and the environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:      getEnv("DB_NAME", "mindwell"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		TokenExpiry: 24 * time.Hour,
		FanoutLimit: 8,
	}

	if hours := os.Getenv("TOKEN_EXPIRY_HOURS"); hours != "" {
		if h, err := strconv.Atoi(hours); err == nil && h > 0 {
			cfg.TokenExpiry = time.Duration(h) * time.Hour
		}
	}
	if limit := os.Getenv("FANOUT_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			cfg.FanoutLimit = n
		}
	}

	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET is required")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
