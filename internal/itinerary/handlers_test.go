package itinerary

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aayanrashid995/tripsync/internal/ai"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func newApp(mock pgxmock.PgxPoolIface, generator Generator) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app.Group("/trips"), NewService(mock, nil, generator), func(c *fiber.Ctx) error { return c.Next() })
	return app
}

func TestItineraryHandlersAddListVoteComment(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO itinerary`).
		WithArgs(pgxmock.AnyArg(), "trip-1", 1, "10:00 AM", "Temple walk", "Morning visit.", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectQuery(`FROM itinerary WHERE trip_id`).
		WithArgs("trip-1").
		WillReturnRows(pgxmock.NewRows(activityColumns()).
			AddRow("act-1", "trip-1", 1, "10:00 AM", "Temple walk", "Morning visit.", []string{}, []Comment{}, time.Now()))
	mock.ExpectExec(`UPDATE itinerary SET votes = array_append`).
		WithArgs("act-1", "trip-1", "user-2").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE itinerary SET comments = comments \|\|`).
		WithArgs("act-1", "trip-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	app := newApp(mock, nil)

	body, _ := json.Marshal(Activity{Day: 1, Time: "10:00 AM", Title: "Temple walk", Description: "Morning visit."})
	req := httptest.NewRequest(http.MethodPost, "/trips/trip-1/itinerary", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("add status: %v %v", err, resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/trips/trip-1/itinerary", nil)
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("list status: %v %v", err, resp.StatusCode)
	}

	voteBody, _ := json.Marshal(map[string]string{"user_id": "user-2"})
	req = httptest.NewRequest(http.MethodPost, "/trips/trip-1/itinerary/act-1/vote", bytes.NewReader(voteBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("vote status: %v %v", err, resp.StatusCode)
	}

	commentBody, _ := json.Marshal(map[string]string{"user": "user-2", "text": "Sounds fun"})
	req = httptest.NewRequest(http.MethodPost, "/trips/trip-1/itinerary/act-1/comments", bytes.NewReader(commentBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("comment status: %v %v", err, resp.StatusCode)
	}
}

func TestItineraryHandlersValidation(t *testing.T) {
	app := newApp(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/trips/trip-1/itinerary", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for missing fields, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodPost, "/trips/trip-1/itinerary/act-1/vote", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for missing user_id, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodPost, "/trips/trip-1/itinerary/act-1/comments", bytes.NewReader([]byte(`{"user":"u"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for missing text, got %d", resp.StatusCode)
	}
}

func TestItineraryHandlersGenerate(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT destination, days FROM trips WHERE id`).
		WithArgs("trip-1").
		WillReturnRows(pgxmock.NewRows([]string{"destination", "days"}).AddRow("Bangkok", 1))
	mock.ExpectQuery(`INSERT INTO itinerary`).
		WithArgs(pgxmock.AnyArg(), "trip-1", 1, "10:00 AM", "Temple walk", "Morning visit.", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	generator := &stubGenerator{activities: []ai.Activity{
		{Title: "Temple walk", Time: "10:00 AM", Description: "Morning visit.", Day: 1},
	}}

	app := newApp(mock, generator)

	req := httptest.NewRequest(http.MethodPost, "/trips/trip-1/itinerary/generate", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("generate status: %v %v", err, resp.StatusCode)
	}

	var created []Activity
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(created) != 1 || created[0].Title != "Temple walk" {
		t.Fatalf("unexpected response: %+v", created)
	}
}

func TestItineraryHandlersGenerateFailure(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT destination, days FROM trips WHERE id`).
		WithArgs("trip-1").
		WillReturnRows(pgxmock.NewRows([]string{"destination", "days"}).AddRow("Bangkok", 1))

	app := newApp(mock, &stubGenerator{err: errQuery})

	req := httptest.NewRequest(http.MethodPost, "/trips/trip-1/itinerary/generate", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
}
