package domain

import "time"

// OrderStatus enumerates order lifecycle states. Transitions move forward
// through the sequence below; failed is reachable from any non-terminal state.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusTraining   OrderStatus = "training"
	OrderStatusGenerating OrderStatus = "generating"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusFailed     OrderStatus = "failed"
)

// Terminal reports whether no further transition is permitted from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusFailed
}

// Order is one customer purchase. It fans out into one generation job per
// purchased style once the subject model has been trained.
type Order struct {
	ID           string
	Email        string
	Tier         Tier
	Locale       string
	Status       OrderStatus
	ModelRef     string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
