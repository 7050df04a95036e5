package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fourpaws/backend/internal/services/pets"
)

type PetRepo struct {
	pool *pgxpool.Pool
}

func NewPetRepo(pool *pgxpool.Pool) *PetRepo {
	return &PetRepo{pool: pool}
}

func (r *PetRepo) List(ctx context.Context, ownerID uuid.UUID) ([]pets.Pet, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, owner_id, name, species, breed, birth_date, passing_date, memorialized, created_at, updated_at
FROM pets
WHERE owner_id = $1
ORDER BY created_at ASC
`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list pets: %w", err)
	}
	defer rows.Close()

	var out []pets.Pet
	for rows.Next() {
		var p pets.Pet
		if err := scanPet(rows, &p); err != nil {
			return nil, fmt.Errorf("scan pet: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pets: %w", err)
	}

	return out, nil
}

func (r *PetRepo) Find(ctx context.Context, ownerID, petID uuid.UUID) (pets.PetDetail, error) {
	if r.pool == nil {
		return pets.PetDetail{}, fmt.Errorf("postgres pool is nil")
	}

	var detail pets.PetDetail
	err := scanPet(r.pool.QueryRow(ctx, `
SELECT id, owner_id, name, species, breed, birth_date, passing_date, memorialized, created_at, updated_at
FROM pets
WHERE id = $1 AND owner_id = $2
`, petID, ownerID), &detail.Pet)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pets.PetDetail{}, pets.ErrNotFound
		}
		return pets.PetDetail{}, fmt.Errorf("find pet: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, title, slug, status
FROM memorial_pages
WHERE pet_id = $1
ORDER BY created_at DESC
`, petID)
	if err != nil {
		return pets.PetDetail{}, fmt.Errorf("list pet memorials: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m pets.MemorialSummary
		if err := rows.Scan(&m.ID, &m.Title, &m.Slug, &m.Status); err != nil {
			return pets.PetDetail{}, fmt.Errorf("scan pet memorial: %w", err)
		}
		detail.Memorials = append(detail.Memorials, m)
	}
	if err := rows.Err(); err != nil {
		return pets.PetDetail{}, fmt.Errorf("iterate pet memorials: %w", err)
	}

	return detail, nil
}

func (r *PetRepo) Insert(ctx context.Context, pet pets.Pet) (pets.Pet, error) {
	if r.pool == nil {
		return pets.Pet{}, fmt.Errorf("postgres pool is nil")
	}

	err := scanPet(r.pool.QueryRow(ctx, `
INSERT INTO pets (owner_id, name, species, breed, birth_date, passing_date, memorialized)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, owner_id, name, species, breed, birth_date, passing_date, memorialized, created_at, updated_at
`, pet.OwnerID, pet.Name, pet.Species, pet.Breed, pet.BirthDate, pet.PassingDate, pet.Memorialized), &pet)
	if err != nil {
		return pets.Pet{}, fmt.Errorf("insert pet: %w", err)
	}

	return pet, nil
}

func (r *PetRepo) Update(ctx context.Context, ownerID, petID uuid.UUID, in pets.UpdateInput) (pets.Pet, error) {
	if r.pool == nil {
		return pets.Pet{}, fmt.Errorf("postgres pool is nil")
	}

	sets := []string{"updated_at = NOW()"}
	args := []any{petID, ownerID}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if in.Name != nil {
		add("name", *in.Name)
	}
	if in.Species != nil {
		add("species", *in.Species)
	}
	if in.Breed.Set {
		add("breed", in.Breed.Value)
	}
	if in.BirthDate.Set {
		add("birth_date", in.BirthDate.Value)
	}
	if in.PassingDate.Set {
		add("passing_date", in.PassingDate.Value)
	}
	if in.Memorialized != nil {
		add("memorialized", *in.Memorialized)
	}

	var pet pets.Pet
	err := scanPet(r.pool.QueryRow(ctx, fmt.Sprintf(`
UPDATE pets
SET %s
WHERE id = $1 AND owner_id = $2
RETURNING id, owner_id, name, species, breed, birth_date, passing_date, memorialized, created_at, updated_at
`, strings.Join(sets, ", ")), args...), &pet)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, fmt.Errorf("update pet: %w", err)
	}

	return pet, nil
}

func (r *PetRepo) Delete(ctx context.Context, ownerID, petID uuid.UUID) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM pets WHERE id = $1 AND owner_id = $2`, petID, ownerID)
	if err != nil {
		return fmt.Errorf("delete pet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pets.ErrNotFound
	}

	return nil
}

// Owns reports whether the pet belongs to the owner. Used by memorial
// creation to reject foreign pets.
func (r *PetRepo) Owns(ctx context.Context, ownerID, petID uuid.UUID) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}

	var exists bool
	err := r.pool.QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM pets WHERE id = $1 AND owner_id = $2)
`, petID, ownerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check pet ownership: %w", err)
	}

	return exists, nil
}

func scanPet(row pgx.Row, p *pets.Pet) error {
	return row.Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Species, &p.Breed,
		&p.BirthDate, &p.PassingDate, &p.Memorialized, &p.CreatedAt, &p.UpdatedAt,
	)
}
