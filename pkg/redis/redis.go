package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/ikkim/bizdir-backend/config"
	"github.com/ikkim/bizdir-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RulesVersionKey is bumped whenever the keyword dictionary changes so every
// instance drops its cached rule set.
const RulesVersionKey = "discovery:rules:version"

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance (nil when Redis is disabled)
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// VersionStore tracks the shared keyword dictionary version.
type VersionStore struct {
	client *redis.Client
	key    string
}

// NewVersionStore returns a store backed by c. A nil client makes every call a no-op.
func NewVersionStore(c *redis.Client) *VersionStore {
	return &VersionStore{client: c, key: RulesVersionKey}
}

// Version returns the current dictionary version, 0 when it was never bumped.
func (s *VersionStore) Version(ctx context.Context) (int64, error) {
	if s == nil || s.client == nil {
		return 0, nil
	}

	version, err := s.client.Get(ctx, s.key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		logger.Error("Failed to read rules version", err, nil)
		return 0, err
	}
	return version, nil
}

// Bump increments the dictionary version and returns the new value.
func (s *VersionStore) Bump(ctx context.Context) (int64, error) {
	if s == nil || s.client == nil {
		return 0, nil
	}

	version, err := s.client.Incr(ctx, s.key).Result()
	if err != nil {
		logger.Error("Failed to bump rules version", err, nil)
		return 0, err
	}

	logger.Debug("Rules version bumped", map[string]interface{}{
		"version": version,
	})
	return version, nil
}
