package store

import "time"

// Reservation is one confirmed table booking. Rows are written once and
// never updated or deleted by this service.
type Reservation struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	PartySize int       `json:"party_size"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// Order is one takeaway order. Items holds the JSON-encoded line-item
// list; its structure is not validated beyond being a sequence.
type Order struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Items      string    `json:"items"`
	PickupTime string    `json:"pickup_time"`
	Total      float64   `json:"total"`
	CreatedAt  time.Time `json:"created_at"`
}
