package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateMemorialRequest struct {
	PetID    uuid.UUID  `json:"petId"`
	ThemeID  *uuid.UUID `json:"themeId"`
	Title    string     `json:"title"`
	Subtitle *string    `json:"subtitle"`
	Summary  *string    `json:"summary"`
	Story    *string    `json:"story"`
	Status   *string    `json:"status"`
}

type UpdateMemorialRequest struct {
	ThemeID  NullableUUID   `json:"themeId"`
	Title    *string        `json:"title"`
	Subtitle NullableString `json:"subtitle"`
	Summary  NullableString `json:"summary"`
	Story    NullableString `json:"story"`
	Status   *string        `json:"status"`
}

type PublishMemorialRequest struct {
	Publish     bool       `json:"publish"`
	ScheduledAt *time.Time `json:"scheduledAt"`
}

type MemorialResponse struct {
	ID          uuid.UUID  `json:"id"`
	PetID       uuid.UUID  `json:"petId"`
	ThemeID     *uuid.UUID `json:"themeId"`
	Title       string     `json:"title"`
	Subtitle    *string    `json:"subtitle"`
	Slug        string     `json:"slug"`
	Summary     *string    `json:"summary"`
	Story       *string    `json:"story"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type MemorialPetResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Species string    `json:"species"`
}

type MemorialThemeResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type MemorialMediaResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     *string   `json:"title"`
	AltText   *string   `json:"altText"`
	Caption   *string   `json:"caption"`
	MediaType string    `json:"mediaType"`
	FileKey   string    `json:"fileKey"`
	SortOrder int       `json:"sortOrder"`
}

type MemorialListItemResponse struct {
	MemorialResponse
	Pet   MemorialPetResponse     `json:"pet"`
	Theme *MemorialThemeResponse  `json:"theme"`
	Media []MemorialMediaResponse `json:"media"`
}

type MemorialsResponse struct {
	Memorials []MemorialListItemResponse `json:"memorials"`
}
