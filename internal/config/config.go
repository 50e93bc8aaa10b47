package config

import "os"

const (
	// DeletedMessageText replaces the content of soft-deleted messages.
	DeletedMessageText = "This message was deleted"

	// MaxContentLength caps message and edit content, in bytes.
	MaxContentLength = 4096

	// TokenIssuer is the JWT "iss" claim.
	TokenIssuer = "pingdm-service"
)

// Config holds the environment-driven settings. Load never fails; every
// field has a development default matching docker-compose.
type Config struct {
	ListenAddr    string
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	JWTSecret     string
}

func Load() *Config {
	return &Config{
		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
		PostgresDSN:   getEnv("POSTGRES_DSN", "host=localhost user=user password=password dbname=pingdmdb port=5432 sslmode=disable"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6380"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		JWTSecret:     getEnv("JWT_SECRET", "dev-only-secret-change-me"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
