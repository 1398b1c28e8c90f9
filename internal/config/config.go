package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all runtime configuration, loaded from the environment.
type Config struct {
	Port      string
	MongoURI  string
	MongoDB   string
	JWTSecret string

	// RedisAddr enables the followee-set cache when non-empty.
	RedisAddr     string
	RedisPassword string

	// FeedAllowAnonymous controls whether unauthenticated viewers may see
	// public actors' activities. Off by default: the feed requires login.
	FeedAllowAnonymous bool

	// FeedResolveTimeout bounds each per-kind target resolution batch.
	FeedResolveTimeout time.Duration
}

// LoadConfig reads configuration from a .env file (if present) and the
// process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, relying on environment variables")
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:            getEnv("MONGO_DB", "wanderstay"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		FeedAllowAnonymous: getEnvBool("FEED_ALLOW_ANONYMOUS", false),
		FeedResolveTimeout: getEnvDuration("FEED_RESOLVE_TIMEOUT", 3*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logrus.Warnf("Invalid boolean for %s: %q, using default", key, value)
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		logrus.Warnf("Invalid duration for %s: %q, using default", key, value)
		return fallback
	}
	return parsed
}
