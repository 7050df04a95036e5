package memorials

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fourpaws/backend/internal/pkg/slug"
	"github.com/fourpaws/backend/internal/pkg/validate"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("memorial not found")
	ErrPetForbidden = errors.New("pet does not belong to the current owner")
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

type Memorial struct {
	ID          uuid.UUID
	PetID       uuid.UUID
	ThemeID     *uuid.UUID
	Title       string
	Subtitle    *string
	Slug        string
	Summary     *string
	Story       *string
	Status      string
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type PetInfo struct {
	ID      uuid.UUID
	Name    string
	Species string
}

type ThemeInfo struct {
	ID   uuid.UUID
	Name string
}

type MediaInfo struct {
	ID        uuid.UUID
	Title     *string
	AltText   *string
	Caption   *string
	MediaType string
	FileKey   string
	SortOrder int
}

type ListItem struct {
	Memorial
	Pet   PetInfo
	Theme *ThemeInfo
	Media []MediaInfo
}

type OptionalString struct {
	Set   bool
	Value *string
}

type OptionalUUID struct {
	Set   bool
	Value *uuid.UUID
}

type OptionalTime struct {
	Set   bool
	Value *time.Time
}

type CreateInput struct {
	PetID    uuid.UUID
	ThemeID  *uuid.UUID
	Title    string
	Subtitle *string
	Summary  *string
	Story    *string
	Status   *string
}

type UpdateInput struct {
	ThemeID  OptionalUUID
	Title    *string
	Subtitle OptionalString
	Summary  OptionalString
	Story    OptionalString
	Status   *string
}

type PublishInput struct {
	Publish     bool
	ScheduledAt *time.Time
}

// UpdateFields is the resolved column patch handed to the store: the service
// has already decided slug regeneration and publishedAt transitions.
type UpdateFields struct {
	ThemeID     OptionalUUID
	Title       *string
	Slug        *string
	Subtitle    OptionalString
	Summary     OptionalString
	Story       OptionalString
	Status      *string
	PublishedAt OptionalTime
}

type Store interface {
	SlugExists(ctx context.Context, candidate string) (bool, error)
	Insert(ctx context.Context, memorial Memorial) (Memorial, error)
	FindOwned(ctx context.Context, ownerID, memorialID uuid.UUID) (Memorial, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]ListItem, error)
	Update(ctx context.Context, memorialID uuid.UUID, fields UpdateFields) (Memorial, error)
}

type PetStore interface {
	Owns(ctx context.Context, ownerID, petID uuid.UUID) (bool, error)
}

type Service struct {
	store Store
	pets  PetStore
	now   func() time.Time
}

func NewService(store Store, pets PetStore) *Service {
	return &Service{
		store: store,
		pets:  pets,
		now:   time.Now,
	}
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]ListItem, error) {
	if ownerID == uuid.Nil {
		return nil, ErrValidation
	}

	items, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list memorials: %w", err)
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, ownerID, memorialID uuid.UUID) (Memorial, error) {
	if ownerID == uuid.Nil || memorialID == uuid.Nil {
		return Memorial{}, ErrValidation
	}
	return s.findOwned(ctx, ownerID, memorialID)
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, in CreateInput) (Memorial, error) {
	if ownerID == uuid.Nil || in.PetID == uuid.Nil {
		return Memorial{}, ErrValidation
	}

	in.Title = strings.TrimSpace(in.Title)
	if !validate.LengthBetween(in.Title, 3, 180) {
		return Memorial{}, fmt.Errorf("title must be 3..180 characters: %w", ErrValidation)
	}
	if in.Subtitle != nil && len(*in.Subtitle) > 255 {
		return Memorial{}, fmt.Errorf("subtitle must be at most 255 characters: %w", ErrValidation)
	}

	status := StatusDraft
	if in.Status != nil {
		if !validStatus(*in.Status) {
			return Memorial{}, fmt.Errorf("unknown status %q: %w", *in.Status, ErrValidation)
		}
		status = *in.Status
	}

	owns, err := s.pets.Owns(ctx, ownerID, in.PetID)
	if err != nil {
		return Memorial{}, fmt.Errorf("check pet ownership: %w", err)
	}
	if !owns {
		return Memorial{}, ErrPetForbidden
	}

	resolved, err := s.resolveSlug(ctx, in.Title)
	if err != nil {
		return Memorial{}, err
	}

	memorial := Memorial{
		PetID:    in.PetID,
		ThemeID:  in.ThemeID,
		Title:    in.Title,
		Subtitle: in.Subtitle,
		Slug:     resolved,
		Summary:  in.Summary,
		Story:    in.Story,
		Status:   status,
	}
	if status == StatusPublished {
		now := s.now()
		memorial.PublishedAt = &now
	}

	created, err := s.store.Insert(ctx, memorial)
	if err != nil {
		return Memorial{}, fmt.Errorf("insert memorial: %w", err)
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, ownerID, memorialID uuid.UUID, in UpdateInput) (Memorial, error) {
	if ownerID == uuid.Nil || memorialID == uuid.Nil {
		return Memorial{}, ErrValidation
	}

	existing, err := s.findOwned(ctx, ownerID, memorialID)
	if err != nil {
		return Memorial{}, err
	}

	if in.Subtitle.Set && in.Subtitle.Value != nil && len(*in.Subtitle.Value) > 255 {
		return Memorial{}, fmt.Errorf("subtitle must be at most 255 characters: %w", ErrValidation)
	}

	fields := UpdateFields{
		ThemeID:  in.ThemeID,
		Subtitle: in.Subtitle,
		Summary:  in.Summary,
		Story:    in.Story,
	}

	if in.Title != nil {
		trimmed := strings.TrimSpace(*in.Title)
		if !validate.LengthBetween(trimmed, 3, 180) {
			return Memorial{}, fmt.Errorf("title must be 3..180 characters: %w", ErrValidation)
		}
		fields.Title = &trimmed

		resolved, err := s.resolveSlug(ctx, trimmed)
		if err != nil {
			return Memorial{}, err
		}
		fields.Slug = &resolved
	}

	if in.Status != nil {
		if !validStatus(*in.Status) {
			return Memorial{}, fmt.Errorf("unknown status %q: %w", *in.Status, ErrValidation)
		}
		fields.Status = in.Status

		switch {
		case *in.Status == StatusDraft:
			fields.PublishedAt = OptionalTime{Set: true, Value: nil}
		case existing.PublishedAt == nil:
			now := s.now()
			fields.PublishedAt = OptionalTime{Set: true, Value: &now}
		}
	}

	updated, err := s.store.Update(ctx, memorialID, fields)
	if err != nil {
		return Memorial{}, fmt.Errorf("update memorial: %w", err)
	}
	return updated, nil
}

func (s *Service) Publish(ctx context.Context, ownerID, memorialID uuid.UUID, in PublishInput) (Memorial, error) {
	if ownerID == uuid.Nil || memorialID == uuid.Nil {
		return Memorial{}, ErrValidation
	}

	if _, err := s.findOwned(ctx, ownerID, memorialID); err != nil {
		return Memorial{}, err
	}

	var fields UpdateFields
	if in.Publish {
		publishedAt := s.now()
		if in.ScheduledAt != nil {
			publishedAt = *in.ScheduledAt
		}
		status := StatusPublished
		fields.Status = &status
		fields.PublishedAt = OptionalTime{Set: true, Value: &publishedAt}
	} else {
		status := StatusDraft
		fields.Status = &status
		fields.PublishedAt = OptionalTime{Set: true, Value: nil}
	}

	updated, err := s.store.Update(ctx, memorialID, fields)
	if err != nil {
		return Memorial{}, fmt.Errorf("publish memorial: %w", err)
	}
	return updated, nil
}

func (s *Service) findOwned(ctx context.Context, ownerID, memorialID uuid.UUID) (Memorial, error) {
	memorial, err := s.store.FindOwned(ctx, ownerID, memorialID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Memorial{}, ErrNotFound
		}
		return Memorial{}, fmt.Errorf("find memorial: %w", err)
	}
	return memorial, nil
}

// resolveSlug walks "title", "title-2", "title-3"... until an unused slug
// is found.
func (s *Service) resolveSlug(ctx context.Context, title string) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "memorial"
	}

	exists, err := s.store.SlugExists(ctx, base)
	if err != nil {
		return "", fmt.Errorf("check slug: %w", err)
	}
	if !exists {
		return base, nil
	}

	for suffix := 2; ; suffix++ {
		candidate := slug.WithSuffix(base, suffix)
		exists, err := s.store.SlugExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}
}

func validStatus(status string) bool {
	return status == StatusDraft || status == StatusPublished
}
