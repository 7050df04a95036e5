package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fourpaws/backend/internal/services/media"
)

type MediaRepo struct {
	pool *pgxpool.Pool
}

func NewMediaRepo(pool *pgxpool.Pool) *MediaRepo {
	return &MediaRepo{pool: pool}
}

func (r *MediaRepo) Insert(ctx context.Context, asset media.Asset) (media.Asset, error) {
	if r.pool == nil {
		return media.Asset{}, fmt.Errorf("postgres pool is nil")
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO media_assets (memorial_id, title, alt_text, caption, media_type, file_key, sort_order)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, memorial_id, title, alt_text, caption, media_type, file_key, sort_order, created_at
`, asset.MemorialID, asset.Title, asset.AltText, asset.Caption, asset.MediaType, asset.FileKey, asset.SortOrder).
		Scan(&asset.ID, &asset.MemorialID, &asset.Title, &asset.AltText, &asset.Caption, &asset.MediaType, &asset.FileKey, &asset.SortOrder, &asset.CreatedAt)
	if err != nil {
		return media.Asset{}, fmt.Errorf("insert media asset: %w", err)
	}

	return asset, nil
}

func (r *MediaRepo) MaxSortOrder(ctx context.Context, memorialID uuid.UUID) (int, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	var max int
	err := r.pool.QueryRow(ctx, `
SELECT COALESCE(MAX(sort_order), 0)
FROM media_assets
WHERE memorial_id = $1
`, memorialID).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max sort order: %w", err)
	}

	return max, nil
}

// UpdateSortOrders applies a reorder batch in one transaction. Items that do
// not belong to the memorial are skipped, not errors.
func (r *MediaRepo) UpdateSortOrders(ctx context.Context, memorialID uuid.UUID, items []media.ReorderItem) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	return WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		for _, item := range items {
			_, err := tx.Exec(ctx, `
UPDATE media_assets
SET sort_order = $3
WHERE id = $1 AND memorial_id = $2
`, item.ID, memorialID, item.SortOrder)
			if err != nil {
				return fmt.Errorf("update sort order: %w", err)
			}
		}
		return nil
	})
}

func (r *MediaRepo) FindOwned(ctx context.Context, ownerID, mediaID uuid.UUID) (media.Asset, error) {
	if r.pool == nil {
		return media.Asset{}, fmt.Errorf("postgres pool is nil")
	}

	var asset media.Asset
	err := r.pool.QueryRow(ctx, `
SELECT a.id, a.memorial_id, a.title, a.alt_text, a.caption, a.media_type, a.file_key, a.sort_order, a.created_at
FROM media_assets a
JOIN memorial_pages m ON m.id = a.memorial_id
JOIN pets p ON p.id = m.pet_id
WHERE a.id = $1 AND p.owner_id = $2
`, mediaID, ownerID).
		Scan(&asset.ID, &asset.MemorialID, &asset.Title, &asset.AltText, &asset.Caption, &asset.MediaType, &asset.FileKey, &asset.SortOrder, &asset.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return media.Asset{}, media.ErrNotFound
		}
		return media.Asset{}, fmt.Errorf("find media asset: %w", err)
	}

	return asset, nil
}

func (r *MediaRepo) Delete(ctx context.Context, mediaID uuid.UUID) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	if _, err := r.pool.Exec(ctx, `DELETE FROM media_assets WHERE id = $1`, mediaID); err != nil {
		return fmt.Errorf("delete media asset: %w", err)
	}
	return nil
}
