package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fourpaws/backend/internal/services/themes"
)

type ThemeRepo struct {
	pool *pgxpool.Pool
}

func NewThemeRepo(pool *pgxpool.Pool) *ThemeRepo {
	return &ThemeRepo{pool: pool}
}

func (r *ThemeRepo) List(ctx context.Context) ([]themes.Theme, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, name, description, primary_color, secondary_color, accent_color, background_color, heading_font, body_font, created_at, updated_at
FROM themes
ORDER BY name ASC
`)
	if err != nil {
		return nil, fmt.Errorf("list themes: %w", err)
	}
	defer rows.Close()

	var out []themes.Theme
	for rows.Next() {
		var t themes.Theme
		err := rows.Scan(
			&t.ID, &t.Name, &t.Description, &t.PrimaryColor, &t.SecondaryColor,
			&t.AccentColor, &t.BackgroundColor, &t.HeadingFont, &t.BodyFont, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan theme: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate themes: %w", err)
	}

	return out, nil
}

func (r *ThemeRepo) Insert(ctx context.Context, theme themes.Theme) (themes.Theme, error) {
	if r.pool == nil {
		return themes.Theme{}, fmt.Errorf("postgres pool is nil")
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO themes (name, description, primary_color, secondary_color, accent_color, background_color, heading_font, body_font)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, name, description, primary_color, secondary_color, accent_color, background_color, heading_font, body_font, created_at, updated_at
`, theme.Name, theme.Description, theme.PrimaryColor, theme.SecondaryColor, theme.AccentColor, theme.BackgroundColor, theme.HeadingFont, theme.BodyFont).
		Scan(
			&theme.ID, &theme.Name, &theme.Description, &theme.PrimaryColor, &theme.SecondaryColor,
			&theme.AccentColor, &theme.BackgroundColor, &theme.HeadingFont, &theme.BodyFont, &theme.CreatedAt, &theme.UpdatedAt,
		)
	if err != nil {
		return themes.Theme{}, fmt.Errorf("insert theme: %w", err)
	}

	return theme, nil
}
