package handlers

import (
	"errors"
	"net/http"
	"time"

	petssvc "github.com/fourpaws/backend/internal/services/pets"
	"github.com/fourpaws/backend/internal/services/rate"
	"github.com/fourpaws/backend/internal/transport/http/dto"
	httperrors "github.com/fourpaws/backend/internal/transport/http/errors"
)

type PetsHandler struct {
	service      *petssvc.Service
	limiter      *rate.Limiter
	createPolicy rate.Policy
}

func NewPetsHandler(service *petssvc.Service, limiter *rate.Limiter, createPolicy rate.Policy) *PetsHandler {
	return &PetsHandler{
		service:      service,
		limiter:      limiter,
		createPolicy: createPolicy,
	}
}

func (h *PetsHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	pets, err := h.service.List(r.Context(), identity.UserID)
	if err != nil {
		handlePetError(w, err)
		return
	}

	res := dto.PetsResponse{Pets: make([]dto.PetResponse, 0, len(pets))}
	for _, p := range pets {
		res.Pets = append(res.Pets, petResponse(p))
	}
	httperrors.Write(w, http.StatusOK, res)
}

func (h *PetsHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	petID, ok := urlUUID(r, "id")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "pet not found")
		return
	}

	detail, err := h.service.Get(r.Context(), identity.UserID, petID)
	if err != nil {
		handlePetError(w, err)
		return
	}

	res := dto.PetDetailResponse{PetResponse: petResponse(detail.Pet)}
	res.Memorials = make([]dto.PetMemorialResponse, 0, len(detail.Memorials))
	for _, m := range detail.Memorials {
		res.Memorials = append(res.Memorials, dto.PetMemorialResponse{
			ID:     m.ID,
			Title:  m.Title,
			Slug:   m.Slug,
			Status: m.Status,
		})
	}
	httperrors.Write(w, http.StatusOK, res)
}

func (h *PetsHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	if h.limiter != nil {
		result, err := h.limiter.Consume(r.Context(), "pet_create:"+identity.UserID.String(), h.createPolicy)
		if err != nil {
			writeInternal(w, "INTERNAL_ERROR", "internal server error")
			return
		}
		if result.Limited {
			writeRateLimited(w, result, time.Now())
			return
		}
	}

	var req dto.CreatePetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	memorialized := false
	if req.Memorialized != nil {
		memorialized = *req.Memorialized
	}

	pet, err := h.service.Create(r.Context(), identity.UserID, petssvc.CreateInput{
		Name:         req.Name,
		Species:      req.Species,
		Breed:        req.Breed,
		BirthDate:    req.BirthDate,
		PassingDate:  req.PassingDate,
		Memorialized: memorialized,
	})
	if err != nil {
		handlePetError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, petResponse(pet))
}

func (h *PetsHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	petID, ok := urlUUID(r, "id")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "pet not found")
		return
	}

	var req dto.UpdatePetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	pet, err := h.service.Update(r.Context(), identity.UserID, petID, petssvc.UpdateInput{
		Name:         req.Name,
		Species:      req.Species,
		Breed:        petssvc.OptionalString{Set: req.Breed.Set, Value: req.Breed.Value},
		BirthDate:    petssvc.OptionalTime{Set: req.BirthDate.Set, Value: req.BirthDate.Value},
		PassingDate:  petssvc.OptionalTime{Set: req.PassingDate.Set, Value: req.PassingDate.Value},
		Memorialized: req.Memorialized,
	})
	if err != nil {
		handlePetError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, petResponse(pet))
}

func (h *PetsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	petID, ok := urlUUID(r, "id")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "pet not found")
		return
	}

	if err := h.service.Delete(r.Context(), identity.UserID, petID); err != nil {
		handlePetError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func handlePetError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, petssvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "request validation failed")
	case errors.Is(err, petssvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", "pet not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}

func petResponse(p petssvc.Pet) dto.PetResponse {
	return dto.PetResponse{
		ID:           p.ID,
		Name:         p.Name,
		Species:      p.Species,
		Breed:        p.Breed,
		BirthDate:    p.BirthDate,
		PassingDate:  p.PassingDate,
		Memorialized: p.Memorialized,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
