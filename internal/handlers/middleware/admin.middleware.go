package middleware

import (
	"github.com/gofiber/fiber/v2"
)

func (m *Middleware) RequireAdmin() fiber.Handler {
	log := m.log.Function("RequireAdmin")

	return func(c *fiber.Ctx) error {
		caller := GetCaller(c)
		if caller == nil {
			log.Info("caller not found in context")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		if !caller.IsAdmin {
			log.Info("caller is not admin", "callerID", caller.ID)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin access required",
			})
		}

		return c.Next()
	}
}
