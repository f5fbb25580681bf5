package bootstrap

import (
	"context"
	"fmt"
	"time"

	account_routes "catalog-aggregator-backend/accounts/routes"
	"catalog-aggregator-backend/config"
	upstream "catalog-aggregator-backend/internal/services"
	"catalog-aggregator-backend/middleware"
	product_repositories "catalog-aggregator-backend/products/repositories"
	product_routes "catalog-aggregator-backend/products/routes"
	product_services "catalog-aggregator-backend/products/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Dependencies struct {
	Settings    *config.Settings
	Logger      *zap.Logger
	RedisClient *redis.Client
}

// Server is the assembled HTTP application plus the pieces main needs to manage.
type Server struct {
	App          *fiber.App
	ProductCache product_repositories.ProductCache
}

// NewServer wires the upstream client, cache, aggregator and routes into a fiber app.
func NewServer(ctx context.Context, deps Dependencies) (*Server, error) {
	s := deps.Settings
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	catalogService, err := upstream.NewCatalogService(upstream.CatalogServiceConfig{
		BaseURL:           s.UpstreamBaseURL,
		Token:             s.UpstreamToken,
		Timeout:           s.UpstreamTimeout,
		RequestsPerSecond: s.UpstreamRPS,
		Burst:             s.UpstreamBurst,
	})
	if err != nil {
		return nil, fmt.Errorf("catalog service: %w", err)
	}

	productCache := product_repositories.NewProductCache(deps.RedisClient, s.CacheTTL)
	catalogRepo := product_repositories.NewCatalogRepository(catalogService, productCache, logger)
	aggregator := product_services.NewProductAggregator(catalogRepo, product_services.AggregatorConfig{
		Partitions:       s.Partitions,
		LookupCategories: s.LookupCategories,
		PageSizeCap:      s.PageSizeCap,
		Mode:             product_services.FanoutMode(s.FanoutMode),
		MaxConcurrency:   s.FanoutConcurrency,
	}, logger)

	app := fiber.New(fiber.Config{
		AppName:      "catalog-aggregator",
		UnescapePath: true,
		// Params and queries outlive the handler in exported spans and cached requests.
		Immutable: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(logger))
	middleware.InitCors(app, s.CORSAllowOrigins)
	if s.RateLimitMax > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        s.RateLimitMax,
			Expiration: s.RateLimitWindow,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many requests"})
			},
		}))
	}

	appContext := &middleware.AppContext{
		Settings:    s,
		Logger:      logger,
		Ctx:         ctx,
		RedisClient: deps.RedisClient,
	}

	app.Get("/healthz", healthHandler(appContext))
	account_routes.AccountRouterInit(app, catalogService, logger)
	product_routes.ProductRouterInit(app, appContext, aggregator, productCache, logger)

	return &Server{App: app, ProductCache: productCache}, nil
}

func healthHandler(appContext *middleware.AppContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cache := "disabled"
		if appContext.RedisClient != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), time.Second)
			defer cancel()
			if err := appContext.RedisClient.Ping(ctx).Err(); err != nil {
				cache = "unavailable"
			} else {
				cache = "ok"
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"cache":      cache,
			"partitions": appContext.Settings.Partitions,
		})
	}
}
