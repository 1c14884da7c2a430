package domain

import "time"

// JobStatus enumerates generation job lifecycle states. A job is created as
// submitted and moves exactly once to completed or failed.
type JobStatus string

const (
	JobStatusSubmitted JobStatus = "submitted"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Terminal reports whether s permits no further transition.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Job is one provider-side generation task for a single style within an
// order. The provider assigns its identifier at submission time.
type Job struct {
	ProviderID   string
	OrderID      string
	Style        Style
	Status       JobStatus
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TrainingJob maps a provider training prediction back to the order that
// submitted it. The mapping is recorded at submission time so the training
// webhook can find its owning order.
type TrainingJob struct {
	ProviderID string
	OrderID    string
	CreatedAt  time.Time
}
