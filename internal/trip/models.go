package trip

import "time"

type Trip struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Destination string    `json:"destination"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	Days        int       `json:"days"`
	Code        string    `json:"code"`
	Organizer   string    `json:"organizer"`
	Members     []string  `json:"members"`
	CreatedAt   time.Time `json:"created_at"`
}
