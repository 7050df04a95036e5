package themes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fourpaws/backend/internal/pkg/validate"
)

var ErrValidation = errors.New("validation error")

type Theme struct {
	ID              uuid.UUID
	Name            string
	Description     *string
	PrimaryColor    string
	SecondaryColor  string
	AccentColor     string
	BackgroundColor string
	HeadingFont     string
	BodyFont        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type CreateInput struct {
	Name            string
	Description     *string
	PrimaryColor    string
	SecondaryColor  string
	AccentColor     string
	BackgroundColor string
	HeadingFont     string
	BodyFont        string
}

type Store interface {
	List(ctx context.Context) ([]Theme, error)
	Insert(ctx context.Context, theme Theme) (Theme, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns every theme ordered by name. Themes are global, not
// owner-scoped.
func (s *Service) List(ctx context.Context) ([]Theme, error) {
	themes, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list themes: %w", err)
	}
	return themes, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Theme, error) {
	in.Name = strings.TrimSpace(in.Name)
	if !validate.LengthBetween(in.Name, 3, 120) {
		return Theme{}, fmt.Errorf("name must be 3..120 characters: %w", ErrValidation)
	}
	if in.Description != nil && len(*in.Description) > 255 {
		return Theme{}, fmt.Errorf("description is too long: %w", ErrValidation)
	}

	colors := map[string]string{
		"primary_color":    in.PrimaryColor,
		"secondary_color":  in.SecondaryColor,
		"accent_color":     in.AccentColor,
		"background_color": in.BackgroundColor,
	}
	for field, value := range colors {
		if !validate.HexColor(value) {
			return Theme{}, fmt.Errorf("%s must be a hex value: %w", field, ErrValidation)
		}
	}

	if !validate.LengthBetween(in.HeadingFont, 2, 80) {
		return Theme{}, fmt.Errorf("heading_font must be 2..80 characters: %w", ErrValidation)
	}
	if !validate.LengthBetween(in.BodyFont, 2, 80) {
		return Theme{}, fmt.Errorf("body_font must be 2..80 characters: %w", ErrValidation)
	}

	theme, err := s.store.Insert(ctx, Theme{
		Name:            in.Name,
		Description:     in.Description,
		PrimaryColor:    in.PrimaryColor,
		SecondaryColor:  in.SecondaryColor,
		AccentColor:     in.AccentColor,
		BackgroundColor: in.BackgroundColor,
		HeadingFont:     in.HeadingFont,
		BodyFont:        in.BodyFont,
	})
	if err != nil {
		return Theme{}, fmt.Errorf("insert theme: %w", err)
	}
	return theme, nil
}
