package activity

import "time"

// DefaultCurrency is used when an activity is created without one
const DefaultCurrency = "ARS"

// Activity is a shared event (a trip, a dinner) whose expenses are split
// between its members.
type Activity struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	CurrencyCode string    `json:"currency_code"`
	CreatedAt    time.Time `json:"created_at"`
}

// Member is a participant of an activity. Members are not users; they are
// just names the owner adds.
type Member struct {
	ID         string    `json:"id"`
	ActivityID string    `json:"activity_id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
}
