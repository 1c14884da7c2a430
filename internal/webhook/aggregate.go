package webhook

import (
	"context"

	"headshots/internal/domain"
)

// Aggregator derives order-level completion from the status of all owned
// jobs. It only reads and is safe to call repeatedly and concurrently.
type Aggregator struct {
	jobs domain.JobRepository
}

// NewAggregator constructs an Aggregator over the given job store.
func NewAggregator(jobs domain.JobRepository) *Aggregator {
	return &Aggregator{jobs: jobs}
}

// IsOrderComplete reports whether the order has at least one job and every
// job has completed. A submitted or failed job yields false, as does an
// order with no jobs at all.
func (a *Aggregator) IsOrderComplete(ctx context.Context, orderID string) (bool, error) {
	jobs, err := a.jobs.ListByOrderID(ctx, orderID)
	if err != nil {
		return false, err
	}
	if len(jobs) == 0 {
		return false, nil
	}
	for _, job := range jobs {
		if job.Status != domain.JobStatusCompleted {
			return false, nil
		}
	}
	return true, nil
}
