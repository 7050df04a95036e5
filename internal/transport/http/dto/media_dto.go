package dto

import (
	"time"

	"github.com/google/uuid"
)

type AddMediaRequest struct {
	Title      *string `json:"title"`
	AltText    *string `json:"altText"`
	Caption    *string `json:"caption"`
	MediaType  *string `json:"mediaType"`
	FileName   string  `json:"fileName"`
	Base64Data string  `json:"base64Data"`
}

type ReorderMediaItem struct {
	ID        uuid.UUID `json:"id"`
	SortOrder int       `json:"sortOrder"`
}

type ReorderMediaRequest struct {
	Items []ReorderMediaItem `json:"items"`
}

type MediaResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     *string   `json:"title"`
	AltText   *string   `json:"altText"`
	Caption   *string   `json:"caption"`
	MediaType string    `json:"mediaType"`
	FileKey   string    `json:"fileKey"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
}
