package itinerary

import "time"

type Comment struct {
	User string    `json:"user"`
	Text string    `json:"text"`
	Time time.Time `json:"time"`
}

type Activity struct {
	ID          string    `json:"id"`
	TripID      string    `json:"trip_id"`
	Day         int       `json:"day"`
	Time        string    `json:"time"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Votes       []string  `json:"votes"`
	Comments    []Comment `json:"comments"`
	CreatedAt   time.Time `json:"created_at"`
}
