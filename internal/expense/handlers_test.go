package expense

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
)

func newApp(mock pgxmock.PgxPoolIface) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app.Group("/trips"), NewService(mock, nil), func(c *fiber.Ctx) error { return c.Next() })
	return app
}

func TestExpenseHandlersAddListDelete(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO expenses`).
		WithArgs(pgxmock.AnyArg(), "trip-1", "Dinner", 90.0, "user-1", pgxmock.AnyArg(), "").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectQuery(`FROM expenses WHERE trip_id`).
		WithArgs("trip-1").
		WillReturnRows(pgxmock.NewRows(expenseColumns()).
			AddRow("exp-1", "trip-1", "Dinner", 90.0, "user-1", []string{}, "", time.Now()))
	mock.ExpectExec(`DELETE FROM expenses WHERE id`).
		WithArgs("exp-1", "trip-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	app := newApp(mock)

	body, _ := json.Marshal(Expense{Title: "Dinner", Amount: 90, PaidBy: "user-1"})
	req := httptest.NewRequest(http.MethodPost, "/trips/trip-1/expenses", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("add status: %v %v", err, resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/trips/trip-1/expenses", nil)
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("list status: %v %v", err, resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodDelete, "/trips/trip-1/expenses/exp-1", nil)
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status: %v %v", err, resp.StatusCode)
	}
}

func TestExpenseHandlersValidation(t *testing.T) {
	app := newApp(nil)

	body, _ := json.Marshal(Expense{Title: "Dinner", PaidBy: "user-1"})
	req := httptest.NewRequest(http.MethodPost, "/trips/trip-1/expenses", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for zero amount, got %d", resp.StatusCode)
	}

	body, _ = json.Marshal(Expense{Amount: 10})
	req = httptest.NewRequest(http.MethodPost, "/trips/trip-1/expenses", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for missing fields, got %d", resp.StatusCode)
	}
}

func TestExpenseHandlersBalances(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT members FROM trips WHERE id`).
		WithArgs("trip-1").
		WillReturnRows(pgxmock.NewRows([]string{"members"}).AddRow([]string{"A", "B"}))
	mock.ExpectQuery(`FROM expenses WHERE trip_id`).
		WithArgs("trip-1").
		WillReturnRows(pgxmock.NewRows(expenseColumns()).
			AddRow("exp-1", "trip-1", "Tickets", 50.0, "A", []string{"B"}, "", time.Now()))

	app := newApp(mock)

	req := httptest.NewRequest(http.MethodGet, "/trips/trip-1/balances", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("balances status: %v %v", err, resp.StatusCode)
	}

	var balances map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&balances); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if math.Abs(balances["A"]-50) > 1e-9 || math.Abs(balances["B"]+50) > 1e-9 {
		t.Fatalf("unexpected balances: %v", balances)
	}
}

func TestExpenseHandlersBalancesTripNotFound(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT members FROM trips WHERE id`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	app := newApp(mock)

	req := httptest.NewRequest(http.MethodGet, "/trips/missing/balances", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
