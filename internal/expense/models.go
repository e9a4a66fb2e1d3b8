package expense

import "time"

type Expense struct {
	ID         string    `json:"id"`
	TripID     string    `json:"trip_id"`
	Title      string    `json:"title"`
	Amount     float64   `json:"amount"`
	PaidBy     string    `json:"paid_by"`
	SplitWith  []string  `json:"split_with"`
	ReceiptURL string    `json:"receipt_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
