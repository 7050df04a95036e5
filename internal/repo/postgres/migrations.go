package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate applies the schema in order. Every statement is idempotent so the
// server can run it on each startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	migrations := []string{
		migrationUsers,
		migrationSessions,
		migrationThemes,
		migrationPets,
		migrationMemorialPages,
		migrationMediaAssets,
	}

	for i, m := range migrations {
		if _, err := pool.Exec(ctx, m); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

const migrationUsers = `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    display_name VARCHAR(120) NOT NULL DEFAULT '',
    is_owner BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

const migrationSessions = `
CREATE TABLE IF NOT EXISTS sessions (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    token_hash TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    expires_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_token_hash ON sessions(token_hash);
CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);
`

const migrationThemes = `
CREATE TABLE IF NOT EXISTS themes (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name VARCHAR(120) NOT NULL,
    description VARCHAR(255),
    primary_color VARCHAR(32) NOT NULL DEFAULT '#1d4ed8',
    secondary_color VARCHAR(32) NOT NULL DEFAULT '#f97316',
    accent_color VARCHAR(32) NOT NULL DEFAULT '#10b981',
    background_color VARCHAR(32) NOT NULL DEFAULT '#ffffff',
    heading_font VARCHAR(80) NOT NULL DEFAULT 'Playfair Display',
    body_font VARCHAR(80) NOT NULL DEFAULT 'Inter',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

const migrationPets = `
CREATE TABLE IF NOT EXISTS pets (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name VARCHAR(120) NOT NULL,
    species VARCHAR(80) NOT NULL,
    breed VARCHAR(120),
    birth_date TIMESTAMP,
    passing_date TIMESTAMP,
    memorialized BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_pets_owner_id ON pets(owner_id);
`

const migrationMemorialPages = `
CREATE TABLE IF NOT EXISTS memorial_pages (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    pet_id UUID NOT NULL REFERENCES pets(id) ON DELETE CASCADE,
    theme_id UUID REFERENCES themes(id) ON DELETE SET NULL,
    title VARCHAR(180) NOT NULL,
    subtitle VARCHAR(255),
    slug VARCHAR(160) UNIQUE NOT NULL,
    summary TEXT,
    story TEXT,
    status VARCHAR(16) NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'published')),
    published_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_memorial_pages_pet_id ON memorial_pages(pet_id);
CREATE INDEX IF NOT EXISTS idx_memorial_pages_status ON memorial_pages(status);
`

const migrationMediaAssets = `
CREATE TABLE IF NOT EXISTS media_assets (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    memorial_id UUID NOT NULL REFERENCES memorial_pages(id) ON DELETE CASCADE,
    title VARCHAR(180),
    alt_text VARCHAR(255),
    caption TEXT,
    media_type VARCHAR(16) NOT NULL DEFAULT 'image' CHECK (media_type IN ('image', 'video')),
    file_key VARCHAR(255) NOT NULL,
    sort_order INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_media_assets_memorial_id ON media_assets(memorial_id);
`
