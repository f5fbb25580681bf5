package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "catalog-aggregator-backend/config"
	"catalog-aggregator-backend/internal/bootstrap"
	"catalog-aggregator-backend/internal/telemetry"
	"catalog-aggregator-backend/utils"

	"go.uber.org/zap"
)

func main() {
	// Console logger until LOG_LEVEL / LOG_DIR are known
	config.InitConsoleLogger()

	// Load environment variables
	if err := config.LoadEnvFile(".env"); err != nil {
		config.Logger.Fatal("Error loading .env file", zap.Error(err))
	}
	settings := config.LoadSettings()

	// Initialize Zap logger
	logger, err := config.InitLogger(settings.LogLevel, settings.LogDir)
	if err != nil {
		config.Logger.Fatal("Error initializing logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := telemetry.InitOTel(ctx, logger, telemetry.OtelConfig{
		ServiceName: "catalog-aggregator",
		Environment: settings.AppEnv,
	})

	// Redis is optional; without it listings are always fetched live.
	redisClient, err := config.InitRedisServer(ctx, settings)
	if err != nil {
		logger.Warn("Redis unavailable, product cache disabled", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	server, err := bootstrap.NewServer(ctx, bootstrap.Dependencies{
		Settings:    settings,
		Logger:      logger,
		RedisClient: redisClient,
	})
	if err != nil {
		logger.Fatal("Cannot build server", zap.Error(err))
	}

	// Background cache flush
	if settings.CacheFlushSchedule != "" && server.ProductCache.Enabled() {
		scheduler, err := utils.StartScheduledCacheFlush(settings.CacheFlushSchedule, server.ProductCache.Flush, logger)
		if err != nil {
			logger.Fatal("Cannot schedule cache flush", zap.Error(err))
		}
		defer scheduler.Stop()
	}

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down server...")
		if err := server.App.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("Server starting",
		zap.String("port", settings.Port),
		zap.Strings("partitions", settings.Partitions),
		zap.String("fanout_mode", settings.FanoutMode),
	)
	if err := server.App.Listen(":" + settings.Port); err != nil {
		logger.Error("Server failed", zap.String("port", settings.Port), zap.Error(err))
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		logger.Warn("Tracer shutdown failed", zap.Error(err))
	}
}
