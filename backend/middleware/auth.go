package middleware

import (
	"projecttracker/backend/config"
	"projecttracker/backend/utils"

	"github.com/gofiber/fiber/v2"
)

const LocalsUserID = "user_id"

// AuthMiddleware requires a valid JWT and stores its user id in c.Locals.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		c.Locals(LocalsUserID, userID)
		return c.Next()
	}
}

func CurrentUserID(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals(LocalsUserID).(uint)
	return userID, ok
}
