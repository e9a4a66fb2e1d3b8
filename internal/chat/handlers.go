package chat

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/:id/messages", authMiddleware, func(c *fiber.Ctx) error {
		var req Message
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.SenderID == "" || req.Text == "" {
			return fiber.NewError(fiber.StatusBadRequest, "sender_id and text required")
		}
		req.TripID = c.Params("id")
		message, err := svc.SendMessage(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(message)
	})

	r.Get("/:id/messages", authMiddleware, func(c *fiber.Ctx) error {
		messages, err := svc.Messages(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if messages == nil {
			messages = []Message{}
		}
		return c.JSON(messages)
	})

	r.Get("/:id/messages/summary", authMiddleware, func(c *fiber.Ctx) error {
		summary, err := svc.Summary(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"summary": summary})
	})
}
