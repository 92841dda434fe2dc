package infra

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates a Redis client for the track definition cache.
// Returns nil (cache disabled) when Redis is not enabled in config.
func NewRedisClient(ctx context.Context, cfg *Config, logger *slog.Logger) (*redis.Client, error) {
	if !cfg.RedisEnabled || cfg.RedisURL == "" {
		logger.Info("redis cache disabled")
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.Info("redis cache initialized", "url", cfg.RedisURL)
	return client, nil
}
