package expense

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/aayanrashid995/tripsync/internal/db"
	"github.com/aayanrashid995/tripsync/internal/ledger"
	"github.com/aayanrashid995/tripsync/internal/stream"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrTripNotFound = errors.New("trip not found")

type Service struct {
	db  db.Querier
	hub *stream.Hub
}

func NewService(db db.Querier, hub *stream.Hub) *Service {
	return &Service{db: db, hub: hub}
}

func (s *Service) AddExpense(ctx context.Context, input Expense) (Expense, error) {
	input.ID = uuid.NewString()
	if input.SplitWith == nil {
		input.SplitWith = []string{}
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO expenses (id, trip_id, title, amount, paid_by, split_with, receipt_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at
	`, input.ID, input.TripID, input.Title, input.Amount, input.PaidBy, input.SplitWith, input.ReceiptURL)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Expense{}, err
	}

	s.broadcast(ctx, input.TripID)
	return input, nil
}

func (s *Service) Expenses(ctx context.Context, tripID string) ([]Expense, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, trip_id, title, amount, paid_by, split_with, receipt_url, created_at
		FROM expenses WHERE trip_id=$1
		ORDER BY created_at DESC
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.TripID, &e.Title, &e.Amount, &e.PaidBy, &e.SplitWith, &e.ReceiptURL, &e.CreatedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

func (s *Service) DeleteExpense(ctx context.Context, tripID, expenseID string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM expenses WHERE id=$1 AND trip_id=$2`, expenseID, tripID); err != nil {
		return err
	}
	s.broadcast(ctx, tripID)
	return nil
}

// Balances nets every expense of the trip into a per-member balance.
// The result is derived on demand and never stored.
func (s *Service) Balances(ctx context.Context, tripID string) (map[string]float64, error) {
	var members []string
	err := s.db.QueryRow(ctx, `SELECT members FROM trips WHERE id=$1`, tripID).Scan(&members)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTripNotFound
	}
	if err != nil {
		return nil, err
	}

	expenses, err := s.Expenses(ctx, tripID)
	if err != nil {
		return nil, err
	}

	entries := make([]ledger.Expense, 0, len(expenses))
	for _, e := range expenses {
		entries = append(entries, ledger.Expense{Amount: e.Amount, PaidBy: e.PaidBy, SplitWith: e.SplitWith})
	}
	return ledger.ComputeBalances(members, entries)
}

func (s *Service) broadcast(ctx context.Context, tripID string) {
	if s.hub == nil {
		return
	}
	expenses, err := s.Expenses(ctx, tripID)
	if err != nil {
		return
	}
	if expenses == nil {
		expenses = []Expense{}
	}
	payload, err := json.Marshal(expenses)
	if err != nil {
		return
	}
	s.hub.BroadcastSnapshot(tripID, "expenses", payload)
}
