package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateThemeRequest struct {
	Name            string  `json:"name"`
	Description     *string `json:"description"`
	PrimaryColor    string  `json:"primaryColor"`
	SecondaryColor  string  `json:"secondaryColor"`
	AccentColor     string  `json:"accentColor"`
	BackgroundColor string  `json:"backgroundColor"`
	HeadingFont     string  `json:"headingFont"`
	BodyFont        string  `json:"bodyFont"`
}

type ThemeResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description"`
	PrimaryColor    string    `json:"primaryColor"`
	SecondaryColor  string    `json:"secondaryColor"`
	AccentColor     string    `json:"accentColor"`
	BackgroundColor string    `json:"backgroundColor"`
	HeadingFont     string    `json:"headingFont"`
	BodyFont        string    `json:"bodyFont"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type ThemesResponse struct {
	Themes []ThemeResponse `json:"themes"`
}
