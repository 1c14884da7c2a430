package domain

import "context"

// OrderRepository defines persistence for orders. CompareAndSetStatus is the
// synchronization point for the completed transition: the single caller whose
// compare-and-set succeeds owns the follow-up side effects.
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	CompareAndSetStatus(ctx context.Context, id string, expected, next OrderStatus) (bool, error)
	SetModelRef(ctx context.Context, id, modelRef string) error
	SetFailed(ctx context.Context, id, reason string) error
}

// JobRepository defines persistence for generation jobs, keyed by the
// provider-assigned prediction identifier.
type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByProviderID(ctx context.Context, providerID string) (*Job, error)
	ListByOrderID(ctx context.Context, orderID string) ([]Job, error)
	UpdateStatus(ctx context.Context, providerID string, status JobStatus, errDetail *string) error
}

// AssetRepository handles persistence for generated assets. Save is an upsert
// on (order, style, idx) so redelivered webhooks reuse the identity.
type AssetRepository interface {
	Save(ctx context.Context, asset *Asset) error
	ListByOrderID(ctx context.Context, orderID string) ([]Asset, error)
}

// TrainingJobRepository persists the training-prediction to order mapping.
type TrainingJobRepository interface {
	Create(ctx context.Context, job *TrainingJob) error
	GetByProviderID(ctx context.Context, providerID string) (*TrainingJob, error)
}
