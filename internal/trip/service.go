package trip

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/aayanrashid995/tripsync/internal/db"
	"github.com/aayanrashid995/tripsync/internal/stream"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound      = errors.New("invalid trip code")
	ErrAlreadyMember = errors.New("already a member of this trip")
)

const (
	codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeLength   = 6
)

type Service struct {
	db  db.Querier
	hub *stream.Hub
}

func NewService(db db.Querier, hub *stream.Hub) *Service {
	return &Service{db: db, hub: hub}
}

// generateCode draws a 6-char uppercase base-36 join code. Collisions are
// left to the unique constraint; at 36^6 codes they are not worth a
// retry loop at this scale.
func generateCode() string {
	var b strings.Builder
	for i := 0; i < codeLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			// crypto/rand only fails when the platform source is broken
			panic(err)
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String()
}

func (s *Service) CreateTrip(ctx context.Context, input Trip) (Trip, error) {
	input.ID = uuid.NewString()
	input.Code = generateCode()
	input.Members = []string{input.Organizer}
	if days := inclusiveDays(input.StartDate, input.EndDate); days > 0 {
		input.Days = days
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO trips (id, title, destination, start_date, end_date, days, code, organizer, members)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at
	`, input.ID, input.Title, input.Destination, input.StartDate, input.EndDate, input.Days, input.Code, input.Organizer, input.Members)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Trip{}, err
	}
	return input, nil
}

func (s *Service) GetTrip(ctx context.Context, id string) (Trip, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, title, destination, start_date, end_date, days, code, organizer, members, created_at
		FROM trips WHERE id=$1
	`, id)
	var trip Trip
	if err := row.Scan(&trip.ID, &trip.Title, &trip.Destination, &trip.StartDate, &trip.EndDate, &trip.Days, &trip.Code, &trip.Organizer, &trip.Members, &trip.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Trip{}, ErrNotFound
		}
		return Trip{}, err
	}
	return trip, nil
}

// TripsForUser lists every trip the user is a member of, newest first.
func (s *Service) TripsForUser(ctx context.Context, userID string) ([]Trip, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, title, destination, start_date, end_date, days, code, organizer, members, created_at
		FROM trips WHERE members @> ARRAY[$1]
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []Trip
	for rows.Next() {
		var t Trip
		if err := rows.Scan(&t.ID, &t.Title, &t.Destination, &t.StartDate, &t.EndDate, &t.Days, &t.Code, &t.Organizer, &t.Members, &t.CreatedAt); err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, nil
}

// JoinTrip adds the user to the trip with the given code. The guarded
// append makes the whole check-and-add a single statement, so two
// concurrent joins of the same user cannot both succeed.
func (s *Service) JoinTrip(ctx context.Context, code, userID string) (Trip, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	var id string
	err := s.db.QueryRow(ctx, `
		UPDATE trips SET members = array_append(members, $2)
		WHERE code=$1 AND NOT (members @> ARRAY[$2])
		RETURNING id
	`, code, userID).Scan(&id)
	if err == nil {
		trip, err := s.GetTrip(ctx, id)
		if err != nil {
			return Trip{}, err
		}
		s.broadcastMembers(ctx, trip)
		return trip, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Trip{}, err
	}

	// zero rows: either the code is unknown or the user is already in
	var existing string
	err = s.db.QueryRow(ctx, `SELECT id FROM trips WHERE code=$1`, code).Scan(&existing)
	if errors.Is(err, pgx.ErrNoRows) {
		return Trip{}, ErrNotFound
	}
	if err != nil {
		return Trip{}, err
	}
	return Trip{}, ErrAlreadyMember
}

// DeleteTrip removes the trip and everything hanging off it. The
// sub-collections go first so a failure never leaves orphaned rows behind
// a deleted trip.
func (s *Service) DeleteTrip(ctx context.Context, id string) error {
	for _, stmt := range []string{
		`DELETE FROM expenses WHERE trip_id=$1`,
		`DELETE FROM itinerary WHERE trip_id=$1`,
		`DELETE FROM messages WHERE trip_id=$1`,
		`DELETE FROM trips WHERE id=$1`,
	} {
		if _, err := s.db.Exec(ctx, stmt, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) Members(ctx context.Context, tripID string) ([]string, error) {
	var members []string
	err := s.db.QueryRow(ctx, `SELECT members FROM trips WHERE id=$1`, tripID).Scan(&members)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (s *Service) broadcastMembers(ctx context.Context, trip Trip) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(trip.Members)
	if err != nil {
		return
	}
	s.hub.BroadcastSnapshot(trip.ID, "members", payload)
}

func inclusiveDays(start, end string) int {
	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		return 0
	}
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		return 0
	}
	if endDate.Before(startDate) {
		return 0
	}
	return int(endDate.Sub(startDate).Hours()/24) + 1
}
