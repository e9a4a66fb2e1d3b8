package chat

import (
	"context"
	"encoding/json"

	"github.com/aayanrashid995/tripsync/internal/ai"
	"github.com/aayanrashid995/tripsync/internal/db"
	"github.com/aayanrashid995/tripsync/internal/stream"

	"github.com/google/uuid"
)

// Summarizer condenses a chat log into displayable text. Satisfied by
// *ai.Client.
type Summarizer interface {
	SummarizeChat(ctx context.Context, messages []ai.ChatLine) string
}

type Service struct {
	db         db.Querier
	hub        *stream.Hub
	summarizer Summarizer
}

func NewService(db db.Querier, hub *stream.Hub, summarizer Summarizer) *Service {
	return &Service{db: db, hub: hub, summarizer: summarizer}
}

func (s *Service) SendMessage(ctx context.Context, input Message) (Message, error) {
	input.ID = uuid.NewString()

	row := s.db.QueryRow(ctx, `
		INSERT INTO messages (id, trip_id, sender_id, sender_name, text)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, input.ID, input.TripID, input.SenderID, input.SenderName, input.Text)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Message{}, err
	}

	s.broadcast(ctx, input.TripID)
	return input, nil
}

// Messages returns the trip's chat history oldest first. Messages are
// immutable; there is no edit or delete.
func (s *Service) Messages(ctx context.Context, tripID string) ([]Message, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, trip_id, sender_id, sender_name, text, created_at
		FROM messages WHERE trip_id=$1
		ORDER BY created_at
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.TripID, &m.SenderID, &m.SenderName, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, nil
}

// Summary condenses the chat into a few bullet points. Model failures are
// absorbed by the summarizer, which always hands back displayable text;
// only a store failure surfaces as an error.
func (s *Service) Summary(ctx context.Context, tripID string) (string, error) {
	messages, err := s.Messages(ctx, tripID)
	if err != nil {
		return "", err
	}

	lines := make([]ai.ChatLine, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, ai.ChatLine{Sender: m.SenderName, Text: m.Text})
	}
	return s.summarizer.SummarizeChat(ctx, lines), nil
}

func (s *Service) broadcast(ctx context.Context, tripID string) {
	if s.hub == nil {
		return
	}
	messages, err := s.Messages(ctx, tripID)
	if err != nil {
		return
	}
	if messages == nil {
		messages = []Message{}
	}
	payload, err := json.Marshal(messages)
	if err != nil {
		return
	}
	s.hub.BroadcastSnapshot(tripID, "messages", payload)
}
