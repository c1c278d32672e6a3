// middleware/auth.go
package middleware

import (
	"log"
	"strings"

	"karate-entry-system/utils"

	"github.com/gofiber/fiber/v2"
)

// SchoolContext parses the Bearer token and attaches the school identity to
// the request context. Every route behind it can rely on school_id being set.
func SchoolContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(auth, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing bearer token",
			})
		}

		claims, err := utils.ParseToken(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			log.Printf("[AUTH] rejected token on %s: %v", c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired session",
			})
		}

		c.Locals("school_id", claims.SchoolID)
		c.Locals("school_name", claims.SchoolName)
		c.Locals("is_admin", claims.IsAdmin)
		return c.Next()
	}
}

// AdminOnly gates the office console routes. Runs behind SchoolContext.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if isAdmin, ok := c.Locals("is_admin").(bool); !ok || !isAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin access required",
			})
		}
		return c.Next()
	}
}
