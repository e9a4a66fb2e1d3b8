package hotels

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, client *Client, authMiddleware fiber.Handler) {
	r.Get("/search", authMiddleware, func(c *fiber.Ctx) error {
		destination := c.Query("destination")
		if destination == "" {
			return fiber.NewError(fiber.StatusBadRequest, "destination required")
		}
		return c.JSON(fiber.Map{"hotels": client.Search(c.Context(), destination)})
	})
}
