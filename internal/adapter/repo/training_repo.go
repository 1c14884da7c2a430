package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"headshots/internal/domain"
)

// TrainingJobRepositoryPG implements domain.TrainingJobRepository.
type TrainingJobRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewTrainingJobRepository constructs a new training job repository instance.
func NewTrainingJobRepository(pool *pgxpool.Pool) *TrainingJobRepositoryPG {
	return &TrainingJobRepositoryPG{pool: pool}
}

// Create records the mapping from a training prediction to its order.
func (r *TrainingJobRepositoryPG) Create(ctx context.Context, job *domain.TrainingJob) error {
	query := `
INSERT INTO training_jobs (provider_id, order_id)
VALUES ($1, $2);
`
	_, err := r.pool.Exec(ctx, query, job.ProviderID, job.OrderID)
	return err
}

// GetByProviderID resolves the order that owns a training prediction.
func (r *TrainingJobRepositoryPG) GetByProviderID(ctx context.Context, providerID string) (*domain.TrainingJob, error) {
	query := `
SELECT provider_id, order_id, created_at
FROM training_jobs
WHERE provider_id = $1;
`
	row := r.pool.QueryRow(ctx, query, providerID)
	var job domain.TrainingJob
	if err := row.Scan(&job.ProviderID, &job.OrderID, &job.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}
