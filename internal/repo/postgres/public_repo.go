package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fourpaws/backend/internal/services/public"
)

type PublicRepo struct {
	pool *pgxpool.Pool
}

func NewPublicRepo(pool *pgxpool.Pool) *PublicRepo {
	return &PublicRepo{pool: pool}
}

func (r *PublicRepo) ListPublished(ctx context.Context) ([]public.ListItem, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT m.id, m.title, m.subtitle, m.slug, m.summary, m.published_at,
       p.name, p.species
FROM memorial_pages m
JOIN pets p ON p.id = m.pet_id
WHERE m.status = 'published'
ORDER BY m.published_at DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list published memorials: %w", err)
	}
	defer rows.Close()

	var out []public.ListItem
	for rows.Next() {
		var item public.ListItem
		err := rows.Scan(
			&item.ID, &item.Title, &item.Subtitle, &item.Slug, &item.Summary, &item.PublishedAt,
			&item.Pet.Name, &item.Pet.Species,
		)
		if err != nil {
			return nil, fmt.Errorf("scan published memorial: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate published memorials: %w", err)
	}

	return out, nil
}

func (r *PublicRepo) FindPublishedBySlug(ctx context.Context, slug string) (public.Memorial, error) {
	if r.pool == nil {
		return public.Memorial{}, fmt.Errorf("postgres pool is nil")
	}

	var (
		m         public.Memorial
		themeID   *uuid.UUID
		themeName *string
		primary   *string
		secondary *string
		accent    *string
		bg        *string
		heading   *string
		body      *string
	)
	err := r.pool.QueryRow(ctx, `
SELECT m.id, m.title, m.subtitle, m.slug, m.summary, m.story, m.published_at,
       p.id, p.name, p.species, p.breed, p.birth_date, p.passing_date,
       t.id, t.name, t.primary_color, t.secondary_color, t.accent_color, t.background_color, t.heading_font, t.body_font
FROM memorial_pages m
JOIN pets p ON p.id = m.pet_id
LEFT JOIN themes t ON t.id = m.theme_id
WHERE m.slug = $1 AND m.status = 'published'
`, slug).Scan(
		&m.ID, &m.Title, &m.Subtitle, &m.Slug, &m.Summary, &m.Story, &m.PublishedAt,
		&m.Pet.ID, &m.Pet.Name, &m.Pet.Species, &m.Pet.Breed, &m.Pet.BirthDate, &m.Pet.PassingDate,
		&themeID, &themeName, &primary, &secondary, &accent, &bg, &heading, &body,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return public.Memorial{}, public.ErrNotFound
		}
		return public.Memorial{}, fmt.Errorf("find published memorial: %w", err)
	}

	if themeID != nil {
		m.Theme = &public.ThemeDetail{
			ID:              *themeID,
			Name:            deref(themeName),
			PrimaryColor:    deref(primary),
			SecondaryColor:  deref(secondary),
			AccentColor:     deref(accent),
			BackgroundColor: deref(bg),
			HeadingFont:     deref(heading),
			BodyFont:        deref(body),
		}
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, title, alt_text, caption, media_type, file_key, sort_order
FROM media_assets
WHERE memorial_id = $1
ORDER BY sort_order ASC
`, m.ID)
	if err != nil {
		return public.Memorial{}, fmt.Errorf("list memorial media: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item public.MediaItem
		err := rows.Scan(&item.ID, &item.Title, &item.AltText, &item.Caption, &item.MediaType, &item.FileKey, &item.SortOrder)
		if err != nil {
			return public.Memorial{}, fmt.Errorf("scan memorial media: %w", err)
		}
		m.Media = append(m.Media, item)
	}
	if err := rows.Err(); err != nil {
		return public.Memorial{}, fmt.Errorf("iterate memorial media: %w", err)
	}

	return m, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
