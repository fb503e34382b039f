package config

import (
	"os"
	"time"
)

// Config holds the application settings read from environment variables.
type Config struct {
	Port  string
	GoEnv string // dev/prod

	JWTSecret string
	TokenTTL  time.Duration

	AdminUsername string // bootstrap admin
	AdminPassword string
}

// Load reads the environment. Every key has a development default so a
// bare `go run` works against a local postgres.
func Load() Config {
	return Config{
		Port:  getEnv("PORT", "8080"),
		GoEnv: getEnv("GO_ENV", "dev"),

		JWTSecret: getEnv("JWT_SECRET", "dev_secret_change_me"),
		TokenTTL:  getEnvAsDuration("TOKEN_TTL", 24*time.Hour),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "CascadeTiles2024"),
	}
}

// IsDev reports whether the app runs in development mode.
func (c Config) IsDev() bool {
	return c.GoEnv != "prod" && c.GoEnv != "production"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
