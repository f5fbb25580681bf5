package routes

import (
	"catalog-aggregator-backend/accounts/controllers"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func AccountRouterInit(app *fiber.App, gateway controllers.AccountGateway, logger *zap.Logger) {
	accountController := &controllers.AccountController{
		Gateway: gateway,
		Logger:  logger,
	}

	app.Post("/register", accountController.RegisterController)
	app.Post("/auth", accountController.AuthController)
}
