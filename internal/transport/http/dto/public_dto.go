package dto

import (
	"time"

	"github.com/google/uuid"
)

type PublicPetSummaryResponse struct {
	Name    string `json:"name"`
	Species string `json:"species"`
}

type PublicMemorialListItemResponse struct {
	ID          uuid.UUID                `json:"id"`
	Title       string                   `json:"title"`
	Subtitle    *string                  `json:"subtitle"`
	Slug        string                   `json:"slug"`
	Summary     *string                  `json:"summary"`
	PublishedAt *time.Time               `json:"publishedAt"`
	Pet         PublicPetSummaryResponse `json:"pet"`
}

type PublicMemorialsResponse struct {
	Memorials []PublicMemorialListItemResponse `json:"memorials"`
}

type PublicPetResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Species     string     `json:"species"`
	Breed       *string    `json:"breed"`
	BirthDate   *time.Time `json:"birthDate"`
	PassingDate *time.Time `json:"passingDate"`
}

type PublicThemeResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	PrimaryColor    string    `json:"primaryColor"`
	SecondaryColor  string    `json:"secondaryColor"`
	AccentColor     string    `json:"accentColor"`
	BackgroundColor string    `json:"backgroundColor"`
	HeadingFont     string    `json:"headingFont"`
	BodyFont        string    `json:"bodyFont"`
}

type PublicMediaResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     *string   `json:"title"`
	AltText   *string   `json:"altText"`
	Caption   *string   `json:"caption"`
	MediaType string    `json:"mediaType"`
	FileKey   string    `json:"fileKey"`
	SortOrder int       `json:"sortOrder"`
}

type PublicMemorialResponse struct {
	ID          uuid.UUID             `json:"id"`
	Title       string                `json:"title"`
	Subtitle    *string               `json:"subtitle"`
	Slug        string                `json:"slug"`
	Summary     *string               `json:"summary"`
	Story       *string               `json:"story"`
	PublishedAt *time.Time            `json:"publishedAt"`
	Pet         PublicPetResponse     `json:"pet"`
	Theme       *PublicThemeResponse  `json:"theme"`
	Media       []PublicMediaResponse `json:"media"`
}
