package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreatePetRequest struct {
	Name         string     `json:"name"`
	Species      string     `json:"species"`
	Breed        *string    `json:"breed"`
	BirthDate    *time.Time `json:"birthDate"`
	PassingDate  *time.Time `json:"passingDate"`
	Memorialized *bool      `json:"memorialized"`
}

type UpdatePetRequest struct {
	Name         *string        `json:"name"`
	Species      *string        `json:"species"`
	Breed        NullableString `json:"breed"`
	BirthDate    NullableTime   `json:"birthDate"`
	PassingDate  NullableTime   `json:"passingDate"`
	Memorialized *bool          `json:"memorialized"`
}

type PetResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Species      string     `json:"species"`
	Breed        *string    `json:"breed"`
	BirthDate    *time.Time `json:"birthDate"`
	PassingDate  *time.Time `json:"passingDate"`
	Memorialized bool       `json:"memorialized"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type PetMemorialResponse struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Slug   string    `json:"slug"`
	Status string    `json:"status"`
}

type PetDetailResponse struct {
	PetResponse
	Memorials []PetMemorialResponse `json:"memorials"`
}

type PetsResponse struct {
	Pets []PetResponse `json:"pets"`
}
