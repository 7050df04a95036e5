package public

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("memorial not found")

type PetInfo struct {
	Name    string
	Species string
}

type PetDetail struct {
	ID          uuid.UUID
	Name        string
	Species     string
	Breed       *string
	BirthDate   *time.Time
	PassingDate *time.Time
}

type ThemeDetail struct {
	ID              uuid.UUID
	Name            string
	PrimaryColor    string
	SecondaryColor  string
	AccentColor     string
	BackgroundColor string
	HeadingFont     string
	BodyFont        string
}

type MediaItem struct {
	ID        uuid.UUID
	Title     *string
	AltText   *string
	Caption   *string
	MediaType string
	FileKey   string
	SortOrder int
}

// ListItem is the card shown on the public gallery.
type ListItem struct {
	ID          uuid.UUID
	Title       string
	Subtitle    *string
	Slug        string
	Summary     *string
	PublishedAt *time.Time
	Pet         PetInfo
}

// Memorial is the full public page for one published memorial.
type Memorial struct {
	ID          uuid.UUID
	Title       string
	Subtitle    *string
	Slug        string
	Summary     *string
	Story       *string
	PublishedAt *time.Time
	Pet         PetDetail
	Theme       *ThemeDetail
	Media       []MediaItem
}

type Store interface {
	ListPublished(ctx context.Context) ([]ListItem, error)
	FindPublishedBySlug(ctx context.Context, slug string) (Memorial, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns published memorials newest first. Drafts never appear here.
func (s *Service) List(ctx context.Context) ([]ListItem, error) {
	items, err := s.store.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list published memorials: %w", err)
	}
	return items, nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (Memorial, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Memorial{}, ErrNotFound
	}

	memorial, err := s.store.FindPublishedBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Memorial{}, ErrNotFound
		}
		return Memorial{}, fmt.Errorf("find memorial by slug: %w", err)
	}
	return memorial, nil
}
