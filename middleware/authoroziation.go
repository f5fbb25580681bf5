package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AdminTokenHeader carries the shared secret for administrative routes.
const AdminTokenHeader = "X-Admin-Token"

// AdminRoute only lets requests through that present the configured admin token.
// With no token configured every request is rejected.
func AdminRoute(ctx *AppContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		expected := ""
		if ctx != nil && ctx.Settings != nil {
			expected = ctx.Settings.AdminToken
		}

		presented := strings.TrimSpace(c.Get(AdminTokenHeader))
		if expected == "" || presented == "" ||
			subtle.ConstantTimeCompare([]byte(presented), []byte(expected)) != 1 {
			if ctx != nil && ctx.Logger != nil {
				ctx.Logger.Warn("Rejected admin request",
					zap.String("path", c.Path()),
					zap.String("ip", c.IP()),
					zap.Bool("token_configured", expected != ""),
				)
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized",
				"error":   "Admin token required",
			})
		}

		return c.Next()
	}
}
