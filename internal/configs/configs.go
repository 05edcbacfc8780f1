package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

type StoreDriver string

const (
	StoreMemory StoreDriver = "memory"
	StoreMongo  StoreDriver = "mongo"
	StoreNeo4j  StoreDriver = "neo4j"
	StoreSQLite StoreDriver = "sqlite"
)

type Config struct {
	AppURL                 string
	LogLevel               string
	MongoURI               string
	MongoDatabase          string
	Neo4jURI               string
	Neo4jUser              string
	Neo4jPassword          string
	Neo4jDatabase          string
	DatabaseDSN            string
	RateLimit              int
	RedisAddr              string
	RedisRateLimitKey      string
	ShutdownTimeoutSeconds int
}

func Load() Config {
	appHost := getEnv("APP_HOST", "0.0.0.0")
	appPort := getEnv("APP_PORT", getEnv("PORT", "3000"))

	cfg := Config{
		AppURL:                 fmt.Sprintf("%s:%s", appHost, appPort),
		LogLevel:               strings.ToLower(getEnv("LOG_LEVEL", "info")),
		MongoURI:               os.Getenv("MONGODB_URI"),
		MongoDatabase:          os.Getenv("MONGODB_DB"),
		Neo4jURI:               os.Getenv("NEO4J_URI"),
		Neo4jUser:              getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:          os.Getenv("NEO4J_PASSWORD"),
		Neo4jDatabase:          getEnv("NEO4J_DATABASE", "neo4j"),
		DatabaseDSN:            os.Getenv("DATABASE_DSN"),
		RateLimit:              getEnvAsInt("RATE_LIMIT_PER_MINUTE", 300),
		RedisRateLimitKey:      getEnv("REDIS_RATE_LIMIT_KEY", "task_manager_rate_limit"),
		ShutdownTimeoutSeconds: getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20),
	}
	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		cfg.RedisAddr = fmt.Sprintf("%s:%s", redisHost, getEnv("REDIS_PORT", "6379"))
	}

	validate(cfg)
	return cfg
}

// Store picks the backend from whichever connection string is configured.
// Without one, tasks live in memory.
func (c Config) Store() StoreDriver {
	switch {
	case c.MongoURI != "":
		return StoreMongo
	case c.Neo4jURI != "":
		return StoreNeo4j
	case c.DatabaseDSN != "":
		return StoreSQLite
	default:
		return StoreMemory
	}
}

func validate(cfg Config) {
	if cfg.AppURL == "" {
		log.Fatal("APP_URL must not be empty (e.g. 127.0.0.1:3000)")
	}
	if cfg.RateLimit < 0 {
		log.Fatal("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	if cfg.ShutdownTimeoutSeconds <= 0 {
		log.Fatal("SHUTDOWN_TIMEOUT_SECONDS must be greater than 0")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		log.Fatalf("LOG_LEVEL must be one of debug, info, warn, error (got %q)", cfg.LogLevel)
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid integer value for %s", key)
		}
		return i
	}
	return defaultVal
}
