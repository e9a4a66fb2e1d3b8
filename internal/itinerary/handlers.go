package itinerary

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/:id/itinerary", authMiddleware, func(c *fiber.Ctx) error {
		var req Activity
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Title == "" || req.Day <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "title and day required")
		}
		req.TripID = c.Params("id")
		activity, err := svc.AddActivity(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(activity)
	})

	r.Get("/:id/itinerary", authMiddleware, func(c *fiber.Ctx) error {
		activities, err := svc.Activities(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if activities == nil {
			activities = []Activity{}
		}
		return c.JSON(activities)
	})

	r.Post("/:id/itinerary/generate", authMiddleware, func(c *fiber.Ctx) error {
		activities, err := svc.Generate(c.Context(), c.Params("id"))
		if errors.Is(err, ErrTripNotFound) {
			return fiber.NewError(fiber.StatusNotFound, ErrTripNotFound.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "failed to generate itinerary")
		}
		return c.Status(fiber.StatusCreated).JSON(activities)
	})

	r.Delete("/:id/itinerary/:activityID", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.DeleteActivity(c.Context(), c.Params("id"), c.Params("activityID")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/:id/itinerary/:activityID/vote", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			UserID string `json:"user_id"`
		}
		if err := c.BodyParser(&body); err != nil || body.UserID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "user_id required")
		}
		if err := svc.ToggleVote(c.Context(), c.Params("id"), c.Params("activityID"), body.UserID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusOK)
	})

	r.Post("/:id/itinerary/:activityID/comments", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			User string `json:"user"`
			Text string `json:"text"`
		}
		if err := c.BodyParser(&body); err != nil || body.User == "" || body.Text == "" {
			return fiber.NewError(fiber.StatusBadRequest, "user and text required")
		}
		comment, err := svc.AddComment(c.Context(), c.Params("id"), c.Params("activityID"), body.User, body.Text)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(comment)
	})
}
