package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret            string
	AccessTokenLifetime  time.Duration
	RefreshTokenLifetime time.Duration

	GinMode        string
	AllowedOrigins []string
}

func Load() *Config {
	return &Config{
		DBDriver:   getEnv("DB_DRIVER", "mysql"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "taskuser"),
		DBPassword: getEnv("DB_PASSWORD", "taskpassword"),
		DBName:     getEnv("DB_NAME", "taskflow"),

		JWTSecret:            getEnv("JWT_SECRET", "default-secret-key-change-me"),
		AccessTokenLifetime:  getDurationEnv("ACCESS_TOKEN_LIFETIME", 30*time.Minute),
		RefreshTokenLifetime: getDurationEnv("REFRESH_TOKEN_LIFETIME", 7*24*time.Hour),

		GinMode:        getEnv("GIN_MODE", "debug"),
		AllowedOrigins: getListEnv("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}
}

// IsProduction reports whether the server runs in release mode. Cookie
// Secure flags follow this.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
