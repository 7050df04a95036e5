package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fourpaws/backend/internal/services/memorials"
)

type MemorialRepo struct {
	pool *pgxpool.Pool
}

func NewMemorialRepo(pool *pgxpool.Pool) *MemorialRepo {
	return &MemorialRepo{pool: pool}
}

func (r *MemorialRepo) SlugExists(ctx context.Context, candidate string) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}

	var exists bool
	err := r.pool.QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM memorial_pages WHERE slug = $1)
`, candidate).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}

	return exists, nil
}

func (r *MemorialRepo) Insert(ctx context.Context, m memorials.Memorial) (memorials.Memorial, error) {
	if r.pool == nil {
		return memorials.Memorial{}, fmt.Errorf("postgres pool is nil")
	}

	err := scanMemorial(r.pool.QueryRow(ctx, `
INSERT INTO memorial_pages (pet_id, theme_id, title, subtitle, slug, summary, story, status, published_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, pet_id, theme_id, title, subtitle, slug, summary, story, status, published_at, created_at, updated_at
`, m.PetID, m.ThemeID, m.Title, m.Subtitle, m.Slug, m.Summary, m.Story, m.Status, m.PublishedAt), &m)
	if err != nil {
		return memorials.Memorial{}, fmt.Errorf("insert memorial: %w", err)
	}

	return m, nil
}

func (r *MemorialRepo) FindOwned(ctx context.Context, ownerID, memorialID uuid.UUID) (memorials.Memorial, error) {
	if r.pool == nil {
		return memorials.Memorial{}, fmt.Errorf("postgres pool is nil")
	}

	var m memorials.Memorial
	err := scanMemorial(r.pool.QueryRow(ctx, `
SELECT m.id, m.pet_id, m.theme_id, m.title, m.subtitle, m.slug, m.summary, m.story, m.status, m.published_at, m.created_at, m.updated_at
FROM memorial_pages m
JOIN pets p ON p.id = m.pet_id
WHERE m.id = $1 AND p.owner_id = $2
`, memorialID, ownerID), &m)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return memorials.Memorial{}, memorials.ErrNotFound
		}
		return memorials.Memorial{}, fmt.Errorf("find memorial: %w", err)
	}

	return m, nil
}

func (r *MemorialRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]memorials.ListItem, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT m.id, m.pet_id, m.theme_id, m.title, m.subtitle, m.slug, m.summary, m.story, m.status, m.published_at, m.created_at, m.updated_at,
       p.id, p.name, p.species,
       t.id, t.name
FROM memorial_pages m
JOIN pets p ON p.id = m.pet_id
LEFT JOIN themes t ON t.id = m.theme_id
WHERE p.owner_id = $1
ORDER BY m.updated_at DESC
`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list memorials: %w", err)
	}
	defer rows.Close()

	var (
		items []memorials.ListItem
		ids   []uuid.UUID
		index = make(map[uuid.UUID]int)
	)
	for rows.Next() {
		var (
			item      memorials.ListItem
			themeID   *uuid.UUID
			themeName *string
		)
		err := rows.Scan(
			&item.ID, &item.PetID, &item.ThemeID, &item.Title, &item.Subtitle, &item.Slug,
			&item.Summary, &item.Story, &item.Status, &item.PublishedAt, &item.CreatedAt, &item.UpdatedAt,
			&item.Pet.ID, &item.Pet.Name, &item.Pet.Species,
			&themeID, &themeName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan memorial: %w", err)
		}
		if themeID != nil && themeName != nil {
			item.Theme = &memorials.ThemeInfo{ID: *themeID, Name: *themeName}
		}

		index[item.ID] = len(items)
		ids = append(ids, item.ID)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memorials: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	mediaRows, err := r.pool.Query(ctx, `
SELECT id, memorial_id, title, alt_text, caption, media_type, file_key, sort_order
FROM media_assets
WHERE memorial_id = ANY($1)
ORDER BY sort_order ASC
`, ids)
	if err != nil {
		return nil, fmt.Errorf("list memorial media: %w", err)
	}
	defer mediaRows.Close()

	for mediaRows.Next() {
		var (
			memorialID uuid.UUID
			media      memorials.MediaInfo
		)
		err := mediaRows.Scan(&media.ID, &memorialID, &media.Title, &media.AltText, &media.Caption, &media.MediaType, &media.FileKey, &media.SortOrder)
		if err != nil {
			return nil, fmt.Errorf("scan memorial media: %w", err)
		}
		if i, ok := index[memorialID]; ok {
			items[i].Media = append(items[i].Media, media)
		}
	}
	if err := mediaRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memorial media: %w", err)
	}

	return items, nil
}

func (r *MemorialRepo) Update(ctx context.Context, memorialID uuid.UUID, fields memorials.UpdateFields) (memorials.Memorial, error) {
	if r.pool == nil {
		return memorials.Memorial{}, fmt.Errorf("postgres pool is nil")
	}

	sets := []string{"updated_at = NOW()"}
	args := []any{memorialID}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if fields.ThemeID.Set {
		add("theme_id", fields.ThemeID.Value)
	}
	if fields.Title != nil {
		add("title", *fields.Title)
	}
	if fields.Slug != nil {
		add("slug", *fields.Slug)
	}
	if fields.Subtitle.Set {
		add("subtitle", fields.Subtitle.Value)
	}
	if fields.Summary.Set {
		add("summary", fields.Summary.Value)
	}
	if fields.Story.Set {
		add("story", fields.Story.Value)
	}
	if fields.Status != nil {
		add("status", *fields.Status)
	}
	if fields.PublishedAt.Set {
		add("published_at", fields.PublishedAt.Value)
	}

	var m memorials.Memorial
	err := scanMemorial(r.pool.QueryRow(ctx, fmt.Sprintf(`
UPDATE memorial_pages
SET %s
WHERE id = $1
RETURNING id, pet_id, theme_id, title, subtitle, slug, summary, story, status, published_at, created_at, updated_at
`, strings.Join(sets, ", ")), args...), &m)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return memorials.Memorial{}, memorials.ErrNotFound
		}
		return memorials.Memorial{}, fmt.Errorf("update memorial: %w", err)
	}

	return m, nil
}

// Owns reports whether the memorial's pet belongs to the owner. Media
// operations route their ownership checks through here.
func (r *MemorialRepo) Owns(ctx context.Context, ownerID, memorialID uuid.UUID) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}

	var exists bool
	err := r.pool.QueryRow(ctx, `
SELECT EXISTS (
	SELECT 1
	FROM memorial_pages m
	JOIN pets p ON p.id = m.pet_id
	WHERE m.id = $1 AND p.owner_id = $2
)
`, memorialID, ownerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check memorial ownership: %w", err)
	}

	return exists, nil
}

func scanMemorial(row pgx.Row, m *memorials.Memorial) error {
	return row.Scan(
		&m.ID, &m.PetID, &m.ThemeID, &m.Title, &m.Subtitle, &m.Slug,
		&m.Summary, &m.Story, &m.Status, &m.PublishedAt, &m.CreatedAt, &m.UpdatedAt,
	)
}
