package chat

import "time"

type Message struct {
	ID         string    `json:"id"`
	TripID     string    `json:"trip_id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}
