package utils

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// InvalidateCache deletes every key cached under resourceType and reports how many
// keys were removed.
func InvalidateCache(ctx context.Context, rdb *redis.Client, resourceType string) (int, error) {
	// SCAN instead of KEYS so large keyspaces don't block the server
	pattern := fmt.Sprintf("%s:*", resourceType)
	iter := rdb.Scan(ctx, 0, pattern, 100).Iterator()

	deleted := 0
	for iter.Next(ctx) {
		key := iter.Val()
		if err := rdb.Del(ctx, key).Err(); err != nil {
			return deleted, fmt.Errorf("failed to delete key %s: %w", key, err)
		}
		deleted++
	}

	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("error during SCAN iteration: %w", err)
	}

	return deleted, nil
}
