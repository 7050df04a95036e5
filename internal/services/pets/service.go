package pets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fourpaws/backend/internal/pkg/validate"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("pet not found")
)

type Pet struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Name         string
	Species      string
	Breed        *string
	BirthDate    *time.Time
	PassingDate  *time.Time
	Memorialized bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type MemorialSummary struct {
	ID     uuid.UUID
	Title  string
	Slug   string
	Status string
}

type PetDetail struct {
	Pet
	Memorials []MemorialSummary
}

type CreateInput struct {
	Name         string
	Species      string
	Breed        *string
	BirthDate    *time.Time
	PassingDate  *time.Time
	Memorialized bool
}

// OptionalString distinguishes "field absent" from "field explicitly null":
// Set=false leaves the column alone, Set=true with a nil value clears it.
type OptionalString struct {
	Set   bool
	Value *string
}

type OptionalTime struct {
	Set   bool
	Value *time.Time
}

type UpdateInput struct {
	Name         *string
	Species      *string
	Breed        OptionalString
	BirthDate    OptionalTime
	PassingDate  OptionalTime
	Memorialized *bool
}

type Store interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]Pet, error)
	Find(ctx context.Context, ownerID, petID uuid.UUID) (PetDetail, error)
	Insert(ctx context.Context, pet Pet) (Pet, error)
	Update(ctx context.Context, ownerID, petID uuid.UUID, in UpdateInput) (Pet, error)
	Delete(ctx context.Context, ownerID, petID uuid.UUID) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]Pet, error) {
	if ownerID == uuid.Nil {
		return nil, ErrValidation
	}

	pets, err := s.store.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list pets: %w", err)
	}
	return pets, nil
}

func (s *Service) Get(ctx context.Context, ownerID, petID uuid.UUID) (PetDetail, error) {
	if ownerID == uuid.Nil || petID == uuid.Nil {
		return PetDetail{}, ErrValidation
	}

	pet, err := s.store.Find(ctx, ownerID, petID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return PetDetail{}, ErrNotFound
		}
		return PetDetail{}, fmt.Errorf("find pet: %w", err)
	}
	return pet, nil
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, in CreateInput) (Pet, error) {
	if ownerID == uuid.Nil {
		return Pet{}, ErrValidation
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Species = strings.TrimSpace(in.Species)
	if !validate.LengthBetween(in.Name, 2, 120) {
		return Pet{}, fmt.Errorf("name must be 2..120 characters: %w", ErrValidation)
	}
	if !validate.LengthBetween(in.Species, 2, 80) {
		return Pet{}, fmt.Errorf("species must be 2..80 characters: %w", ErrValidation)
	}
	if in.Breed != nil && len(*in.Breed) > 120 {
		return Pet{}, fmt.Errorf("breed is too long: %w", ErrValidation)
	}

	pet, err := s.store.Insert(ctx, Pet{
		OwnerID:      ownerID,
		Name:         in.Name,
		Species:      in.Species,
		Breed:        in.Breed,
		BirthDate:    in.BirthDate,
		PassingDate:  in.PassingDate,
		Memorialized: in.Memorialized,
	})
	if err != nil {
		return Pet{}, fmt.Errorf("insert pet: %w", err)
	}

	return pet, nil
}

func (s *Service) Update(ctx context.Context, ownerID, petID uuid.UUID, in UpdateInput) (Pet, error) {
	if ownerID == uuid.Nil || petID == uuid.Nil {
		return Pet{}, ErrValidation
	}

	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		if !validate.LengthBetween(trimmed, 2, 120) {
			return Pet{}, fmt.Errorf("name must be 2..120 characters: %w", ErrValidation)
		}
		in.Name = &trimmed
	}
	if in.Species != nil {
		trimmed := strings.TrimSpace(*in.Species)
		if !validate.LengthBetween(trimmed, 2, 80) {
			return Pet{}, fmt.Errorf("species must be 2..80 characters: %w", ErrValidation)
		}
		in.Species = &trimmed
	}
	if in.Breed.Set && in.Breed.Value != nil && len(*in.Breed.Value) > 120 {
		return Pet{}, fmt.Errorf("breed is too long: %w", ErrValidation)
	}

	pet, err := s.store.Update(ctx, ownerID, petID, in)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Pet{}, ErrNotFound
		}
		return Pet{}, fmt.Errorf("update pet: %w", err)
	}

	return pet, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, petID uuid.UUID) error {
	if ownerID == uuid.Nil || petID == uuid.Nil {
		return ErrValidation
	}

	if err := s.store.Delete(ctx, ownerID, petID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete pet: %w", err)
	}
	return nil
}
