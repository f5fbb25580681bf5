package controllers

import (
	"context"
	"encoding/json"

	"catalog-aggregator-backend/accounts/requests"
	upstream "catalog-aggregator-backend/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AccountGateway is the upstream side of registration and authentication.
type AccountGateway interface {
	Register(ctx context.Context, payload any) ([]byte, error)
	Authenticate(ctx context.Context, payload any) ([]byte, error)
}

type AccountController struct {
	Gateway AccountGateway
	Logger  *zap.Logger
}

func (ac *AccountController) RegisterController(c *fiber.Ctx) error {
	var req requests.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	body, err := ac.Gateway.Register(ac.upstreamContext(c), req)
	if err != nil {
		ac.Logger.Error("Upstream registration failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return sendUpstreamJSON(c, body)
}

func (ac *AccountController) AuthController(c *fiber.Ctx) error {
	var req requests.AuthRequest
	if err := parseBody(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	body, err := ac.Gateway.Authenticate(ac.upstreamContext(c), req)
	if err != nil {
		ac.Logger.Error("Upstream authentication failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return sendUpstreamJSON(c, body)
}

func (ac *AccountController) upstreamContext(c *fiber.Ctx) context.Context {
	return upstream.WithAuthorization(c.UserContext(), c.Get(fiber.HeaderAuthorization))
}

// parseBody decodes a JSON body; an empty body leaves every field absent. Bodies sent
// without a Content-Type are still read as JSON.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if len(c.Request().Header.ContentType()) == 0 {
		return json.Unmarshal(c.Body(), out)
	}
	return c.BodyParser(out)
}

// sendUpstreamJSON relays the upstream body as-is. Invalid JSON is wrapped as a
// string so the response stays valid JSON.
func sendUpstreamJSON(c *fiber.Ctx, body []byte) error {
	if len(body) == 0 {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{})
	}
	if !json.Valid(body) {
		return c.Status(fiber.StatusOK).JSON(string(body))
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(fiber.StatusOK).Send(body)
}
