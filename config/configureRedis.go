package config

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// InitRedisServer connects to Redis when an address is configured. A nil client
// with a nil error means caching is disabled.
func InitRedisServer(ctx context.Context, s *Settings) (*redis.Client, error) {
	if s.RedisAddress == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:        s.RedisAddress,
		Password:    s.RedisPassword,
		DB:          s.RedisDB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", s.RedisAddress, err)
	}

	return client, nil
}
