package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"headshots/internal/domain"
)

// JobRepositoryPG implements domain.JobRepository.
type JobRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewJobRepository creates a new job repository backed by PostgreSQL.
func NewJobRepository(pool *pgxpool.Pool) *JobRepositoryPG {
	return &JobRepositoryPG{pool: pool}
}

// Create inserts a new generation job record.
func (r *JobRepositoryPG) Create(ctx context.Context, job *domain.Job) error {
	query := `
INSERT INTO generation_jobs (provider_id, order_id, style, status, error_message)
VALUES ($1, $2, $3, $4, $5);
`
	_, err := r.pool.Exec(ctx, query,
		job.ProviderID,
		job.OrderID,
		job.Style,
		job.Status,
		job.ErrorMessage,
	)
	return err
}

// GetByProviderID fetches a job by the provider-assigned identifier.
func (r *JobRepositoryPG) GetByProviderID(ctx context.Context, providerID string) (*domain.Job, error) {
	query := `
SELECT provider_id, order_id, style, status, error_message, created_at, updated_at
FROM generation_jobs
WHERE provider_id = $1;
`
	row := r.pool.QueryRow(ctx, query, providerID)
	var job domain.Job
	if err := row.Scan(
		&job.ProviderID,
		&job.OrderID,
		&job.Style,
		&job.Status,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

// ListByOrderID returns all jobs owned by the order.
func (r *JobRepositoryPG) ListByOrderID(ctx context.Context, orderID string) ([]domain.Job, error) {
	rows, err := r.pool.Query(ctx, `
SELECT provider_id, order_id, style, status, error_message, created_at, updated_at
FROM generation_jobs
WHERE order_id = $1
ORDER BY created_at ASC;
`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		var job domain.Job
		if err := rows.Scan(&job.ProviderID, &job.OrderID, &job.Style, &job.Status, &job.ErrorMessage, &job.CreatedAt, &job.UpdatedAt); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

// UpdateStatus moves a job to the given status. The guard only lets a job
// leave submitted once: a duplicate terminal delivery degrades to a same-value
// write and a stale intermediate can never overwrite a terminal status.
func (r *JobRepositoryPG) UpdateStatus(ctx context.Context, providerID string, status domain.JobStatus, errDetail *string) error {
	query := `
UPDATE generation_jobs
SET status = $2,
    updated_at = NOW(),
    error_message = COALESCE($3, error_message)
WHERE provider_id = $1 AND (status = $4 OR status = $2);
`
	_, err := r.pool.Exec(ctx, query, providerID, status, errDetail, domain.JobStatusSubmitted)
	return err
}
