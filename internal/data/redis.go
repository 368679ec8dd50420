package data

import (
	"context"

	"github.com/redis/go-redis/v9"

	"plume-backend/internal/config"
)

// NewRedis constructs a Redis client from configuration.
func NewRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Ping verifies connectivity before the server starts taking traffic.
func Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}
