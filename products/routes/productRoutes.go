package routes

import (
	"catalog-aggregator-backend/middleware"
	"catalog-aggregator-backend/products/controllers"
	"catalog-aggregator-backend/products/repositories"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func ProductRouterInit(
	app *fiber.App,
	appContext *middleware.AppContext,
	productService controllers.ProductService,
	productCache repositories.ProductCache,
	logger *zap.Logger,
) {
	productController := &controllers.ProductController{
		Products: productService,
		Cache:    productCache,
		Logger:   logger,
	}

	app.Get("/categories/:categoryname/products", productController.GetCategoryProductsController)
	app.Get("/products/:id", productController.GetProductByIDController)

	cacheRoutes := app.Group("/cache", middleware.AdminRoute(appContext))
	cacheRoutes.Delete("/products", productController.FlushCacheController)
}
