package middleware

import (
	"context"

	"catalog-aggregator-backend/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// AppContext bundles all dependencies
type AppContext struct {
	Settings    *config.Settings
	Logger      *zap.Logger
	Ctx         context.Context
	RedisClient *redis.Client
}
