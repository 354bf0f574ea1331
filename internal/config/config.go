package config

import (
	"os"
	"time"
)

// Config holds all service configuration loaded from environment variables.
// Empty backend settings disable the corresponding backend: without
// POSTGRES_DSN and MONGO_URI all records live in process memory, without
// REDIS_ADDR logout is a stateless acknowledgment, without MINIO_ENDPOINT
// avatar uploads are off.
type Config struct {
	Port        string
	Environment string
	JWTSecret   string

	PostgresDSN   string
	MongoURI      string
	MongoDB       string
	RedisAddr     string
	RedisPassword string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	StaticDir string

	StartDelay   time.Duration
	StopDelay    time.Duration
	RestartDelay time.Duration
}

func Load() *Config {
	return &Config{
		Port:        getenv("PORT", "8080"),
		Environment: getenv("ENVIRONMENT", "development"),
		JWTSecret:   getenv("JWT_SECRET", "dev-secret-change-me"),

		PostgresDSN:   getenv("POSTGRES_DSN", ""),
		MongoURI:      getenv("MONGO_URI", ""),
		MongoDB:       getenv("MONGO_DB", "bothost"),
		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),

		MinioEndpoint:  getenv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getenv("MINIO_BUCKET", "bothost-avatars"),
		MinioUseSSL:    getenv("MINIO_USE_SSL", "false") == "true",

		StaticDir: getenv("STATIC_DIR", ""),

		StartDelay:   getdur("START_DELAY", 3*time.Second),
		StopDelay:    getdur("STOP_DELAY", 2*time.Second),
		RestartDelay: getdur("RESTART_DELAY", 4*time.Second),
	}
}

// Development reports whether internal error messages may be exposed.
func (c *Config) Development() bool {
	return c.Environment == "development"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getdur(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
