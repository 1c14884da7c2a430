package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"headshots/internal/domain"
)

// AssetRepositoryPG implements domain.AssetRepository using PostgreSQL.
type AssetRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewAssetRepository constructs a new asset repository instance.
func NewAssetRepository(pool *pgxpool.Pool) *AssetRepositoryPG {
	return &AssetRepositoryPG{pool: pool}
}

// Save persists one generated asset. Identity is (order_id, style, idx); a
// redelivered webhook overwrites the existing row instead of duplicating it.
func (r *AssetRepositoryPG) Save(ctx context.Context, asset *domain.Asset) error {
	query := `
INSERT INTO generated_assets (id, order_id, style, idx, storage_key, url, job_provider_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (order_id, style, idx) DO UPDATE
SET storage_key = EXCLUDED.storage_key,
    url = EXCLUDED.url,
    job_provider_id = EXCLUDED.job_provider_id;
`
	_, err := r.pool.Exec(ctx, query,
		asset.ID,
		asset.OrderID,
		asset.Style,
		asset.Idx,
		asset.StorageKey,
		asset.URL,
		asset.JobProviderID,
	)
	return err
}

// ListByOrderID returns all assets belonging to the order.
func (r *AssetRepositoryPG) ListByOrderID(ctx context.Context, orderID string) ([]domain.Asset, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, order_id, style, idx, storage_key, url, job_provider_id, created_at
FROM generated_assets
WHERE order_id = $1
ORDER BY style ASC, idx ASC;
`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []domain.Asset
	for rows.Next() {
		var asset domain.Asset
		if err := rows.Scan(&asset.ID, &asset.OrderID, &asset.Style, &asset.Idx, &asset.StorageKey, &asset.URL, &asset.JobProviderID, &asset.CreatedAt); err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assets, nil
}
