package expense

import (
	"errors"

	"github.com/aayanrashid995/tripsync/internal/ledger"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/:id/expenses", authMiddleware, func(c *fiber.Ctx) error {
		var req Expense
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Title == "" || req.PaidBy == "" {
			return fiber.NewError(fiber.StatusBadRequest, "title and paid_by required")
		}
		if req.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "amount must be positive")
		}
		req.TripID = c.Params("id")
		expense, err := svc.AddExpense(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(expense)
	})

	r.Get("/:id/expenses", authMiddleware, func(c *fiber.Ctx) error {
		expenses, err := svc.Expenses(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if expenses == nil {
			expenses = []Expense{}
		}
		return c.JSON(expenses)
	})

	r.Delete("/:id/expenses/:expenseID", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.DeleteExpense(c.Context(), c.Params("id"), c.Params("expenseID")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/:id/balances", authMiddleware, func(c *fiber.Ctx) error {
		balances, err := svc.Balances(c.Context(), c.Params("id"))
		if errors.Is(err, ErrTripNotFound) {
			return fiber.NewError(fiber.StatusNotFound, ErrTripNotFound.Error())
		}
		if errors.Is(err, ledger.ErrEmptySplit) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(balances)
	})
}
