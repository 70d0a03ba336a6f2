package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Env              string
	Port             string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string
	PostgresTimeZone string
	RedisURL         string
	CartTTL          time.Duration
	JWTSecret        string
	SMTPEmail        string
	SMTPPassword     string
	SMTPHost         string
	SMTPPort         string
	GatewayKeyID     string
	GatewayKeySecret string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone: getEnv("POSTGRES_TIMEZONE", "Asia/Kolkata"),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),
		CartTTL:          time.Duration(getEnvInt("CART_TTL_HOURS", 72)) * time.Hour,
		JWTSecret:        os.Getenv("JWT_SECRET"),
		SMTPEmail:        os.Getenv("SMTP_EMAIL"),
		SMTPPassword:     os.Getenv("SMTP_PASSWORD"),
		SMTPHost:         getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:         getEnv("SMTP_PORT", "587"),
		GatewayKeyID:     os.Getenv("PAYMENT_GATEWAY_KEY_ID"),
		GatewayKeySecret: os.Getenv("PAYMENT_GATEWAY_KEY_SECRET"),
	}

	if cfg.PostgresUser == "" || cfg.PostgresPassword == "" || cfg.PostgresDB == "" || cfg.PostgresHost == "" {
		return nil, fmt.Errorf("database config incomplete")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}
