package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/aayanrashid995/tripsync/internal/ai"
	"github.com/aayanrashid995/tripsync/internal/db"
	"github.com/aayanrashid995/tripsync/internal/stream"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrTripNotFound = errors.New("trip not found")

// Generator produces itinerary suggestions. Satisfied by *ai.Client.
type Generator interface {
	GenerateItinerary(ctx context.Context, destination string, days int) ([]ai.Activity, error)
}

type Service struct {
	db        db.Querier
	hub       *stream.Hub
	generator Generator
}

func NewService(db db.Querier, hub *stream.Hub, generator Generator) *Service {
	return &Service{db: db, hub: hub, generator: generator}
}

func (s *Service) AddActivity(ctx context.Context, input Activity) (Activity, error) {
	input.ID = uuid.NewString()
	if input.Votes == nil {
		input.Votes = []string{}
	}
	if input.Comments == nil {
		input.Comments = []Comment{}
	}
	comments, err := json.Marshal(input.Comments)
	if err != nil {
		return Activity{}, err
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO itinerary (id, trip_id, day, time, title, description, votes, comments)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at
	`, input.ID, input.TripID, input.Day, input.Time, input.Title, input.Description, input.Votes, comments)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Activity{}, err
	}

	s.broadcast(ctx, input.TripID)
	return input, nil
}

// Activities lists the trip's plan sorted by day, then by start time.
func (s *Service) Activities(ctx context.Context, tripID string) ([]Activity, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, trip_id, day, time, title, description, votes, comments, created_at
		FROM itinerary WHERE trip_id=$1
		ORDER BY day, time
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.TripID, &a.Day, &a.Time, &a.Title, &a.Description, &a.Votes, &a.Comments, &a.CreatedAt); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, nil
}

func (s *Service) DeleteActivity(ctx context.Context, tripID, activityID string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM itinerary WHERE id=$1 AND trip_id=$2`, activityID, tripID); err != nil {
		return err
	}
	s.broadcast(ctx, tripID)
	return nil
}

// ToggleVote records the user's vote exactly once. The guarded append makes
// repeat votes no-ops at the row, so the operation is idempotent without a
// read-modify-write cycle. There is no unvote.
func (s *Service) ToggleVote(ctx context.Context, tripID, activityID, userID string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE itinerary SET votes = array_append(votes, $3)
		WHERE id=$1 AND trip_id=$2 AND NOT (votes @> ARRAY[$3])
	`, activityID, tripID, userID)
	if err != nil {
		return err
	}
	s.broadcast(ctx, tripID)
	return nil
}

func (s *Service) AddComment(ctx context.Context, tripID, activityID, user, text string) (Comment, error) {
	comment := Comment{User: user, Text: text, Time: time.Now().UTC()}
	appended, err := json.Marshal([]Comment{comment})
	if err != nil {
		return Comment{}, err
	}

	_, err = s.db.Exec(ctx, `
		UPDATE itinerary SET comments = comments || $3::jsonb
		WHERE id=$1 AND trip_id=$2
	`, activityID, tripID, appended)
	if err != nil {
		return Comment{}, err
	}

	s.broadcast(ctx, tripID)
	return comment, nil
}

// Generate asks the model for a full plan and stores every suggested
// activity. Any failure, transport or parse, is returned as-is; the caller
// retries manually.
func (s *Service) Generate(ctx context.Context, tripID string) ([]Activity, error) {
	var destination string
	var days int
	err := s.db.QueryRow(ctx, `SELECT destination, days FROM trips WHERE id=$1`, tripID).Scan(&destination, &days)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTripNotFound
	}
	if err != nil {
		return nil, err
	}

	suggestions, err := s.generator.GenerateItinerary(ctx, destination, days)
	if err != nil {
		return nil, err
	}

	created := make([]Activity, 0, len(suggestions))
	for _, sg := range suggestions {
		activity, err := s.AddActivity(ctx, Activity{
			TripID:      tripID,
			Day:         sg.Day,
			Time:        sg.Time,
			Title:       sg.Title,
			Description: sg.Description,
		})
		if err != nil {
			return nil, err
		}
		created = append(created, activity)
	}
	return created, nil
}

func (s *Service) broadcast(ctx context.Context, tripID string) {
	if s.hub == nil {
		return
	}
	activities, err := s.Activities(ctx, tripID)
	if err != nil {
		return
	}
	if activities == nil {
		activities = []Activity{}
	}
	payload, err := json.Marshal(activities)
	if err != nil {
		return
	}
	s.hub.BroadcastSnapshot(tripID, "itinerary", payload)
}
