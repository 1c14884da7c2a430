package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables this service needs if they do not exist.
// Statements are idempotent so startup can run this unconditionally.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			tier TEXT NOT NULL,
			locale TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			model_ref TEXT NOT NULL DEFAULT '',
			error_message TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS generation_jobs (
			provider_id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL REFERENCES orders(id),
			style TEXT NOT NULL,
			status TEXT NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS generation_jobs_order_idx ON generation_jobs (order_id);`,
		`CREATE TABLE IF NOT EXISTS training_jobs (
			provider_id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL REFERENCES orders(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS generated_assets (
			id TEXT NOT NULL,
			order_id TEXT NOT NULL REFERENCES orders(id),
			style TEXT NOT NULL,
			idx INT NOT NULL,
			storage_key TEXT NOT NULL,
			url TEXT NOT NULL,
			job_provider_id TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (order_id, style, idx)
		);`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("db: ensure schema: %w", err)
		}
	}
	return nil
}
