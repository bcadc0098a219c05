package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is the global Redis client, nil unless the redis backend is selected
var Redis *redis.Client

// ConnectRedis opens and pings the Redis client named by cfg.Redis.URL
func ConnectRedis(cfg *Config) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	Redis = client

	log.Printf("✅ Redis connected successfully [%s]", opt.Addr)
	return client, nil
}

// CloseRedis closes the Redis client
func CloseRedis() error {
	if Redis == nil {
		return nil
	}
	return Redis.Close()
}

// RedisHealth pings Redis. Returns nil when Redis is not in use.
func RedisHealth(ctx context.Context) error {
	if Redis == nil {
		return nil
	}
	return Redis.Ping(ctx).Err()
}
