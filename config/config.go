package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Redis     RedisConfig
	S3        S3Config
	Discovery DiscoveryConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	SlowQuery       time.Duration // 0 disables gorm query logging
}

// JWTConfig only verifies tokens; they are issued by the account service.
type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// S3Config is used to archive recategorization reports. Empty Bucket disables archiving.
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

// DiscoveryConfig tunes the search pipeline and the categorization engine.
type DiscoveryConfig struct {
	FallbackCategory    string        // assigned when no keyword matches
	DefaultRegion       string        // region used to pre-filter keyword rules ("" = all)
	Locale              string        // collation locale for name sorting
	RetrievalTimeout    time.Duration // budget per retrieval attempt
	SearchLimit         int
	RulesCacheTTL       time.Duration
	RecategorizeEnabled bool
	RecategorizeCron    string
	RecategorizeWorkers int
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "bizdir"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),

			MaxIdleConns:    parseInt(getEnv("DB_MAX_IDLE_CONNS", "10"), 10),
			MaxOpenConns:    parseInt(getEnv("DB_MAX_OPEN_CONNS", "100"), 100),
			ConnMaxLifetime: parseDuration(getEnv("DB_CONN_MAX_LIFETIME", "30m"), 30*time.Minute),
			SlowQuery:       parseDuration(getEnv("DB_SLOW_QUERY", "0s"), 0),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Redis: RedisConfig{
			Enabled:  parseBool(getEnv("REDIS_ENABLED", "false")),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "eu-central-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
		Discovery: DiscoveryConfig{
			FallbackCategory:    getEnv("DISCOVERY_FALLBACK_CATEGORY", "Shopping"),
			DefaultRegion:       getEnv("DISCOVERY_DEFAULT_REGION", ""),
			Locale:              getEnv("DISCOVERY_LOCALE", "en"),
			RetrievalTimeout:    parseDuration(getEnv("DISCOVERY_RETRIEVAL_TIMEOUT", "3s"), 3*time.Second),
			SearchLimit:         parseInt(getEnv("DISCOVERY_SEARCH_LIMIT", "100"), 100),
			RulesCacheTTL:       parseDuration(getEnv("DISCOVERY_RULES_CACHE_TTL", "10m"), 10*time.Minute),
			RecategorizeEnabled: parseBool(getEnv("RECATEGORIZE_ENABLED", "false")),
			RecategorizeCron:    getEnv("RECATEGORIZE_CRON", "0 3 * * *"),
			RecategorizeWorkers: parseInt(getEnv("RECATEGORIZE_WORKERS", "1"), 1),
		},
	}

	if strings.TrimSpace(config.Discovery.FallbackCategory) == "" {
		return nil, fmt.Errorf("DISCOVERY_FALLBACK_CATEGORY must not be empty")
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
