package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	publicsvc "github.com/fourpaws/backend/internal/services/public"
	"github.com/fourpaws/backend/internal/transport/http/dto"
	httperrors "github.com/fourpaws/backend/internal/transport/http/errors"
)

type PublicHandler struct {
	service *publicsvc.Service
}

func NewPublicHandler(service *publicsvc.Service) *PublicHandler {
	return &PublicHandler{service: service}
}

func (h *PublicHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
		return
	}

	res := dto.PublicMemorialsResponse{Memorials: make([]dto.PublicMemorialListItemResponse, 0, len(items))}
	for _, item := range items {
		res.Memorials = append(res.Memorials, dto.PublicMemorialListItemResponse{
			ID:          item.ID,
			Title:       item.Title,
			Subtitle:    item.Subtitle,
			Slug:        item.Slug,
			Summary:     item.Summary,
			PublishedAt: item.PublishedAt,
			Pet: dto.PublicPetSummaryResponse{
				Name:    item.Pet.Name,
				Species: item.Pet.Species,
			},
		})
	}
	httperrors.Write(w, http.StatusOK, res)
}

func (h *PublicHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))

	memorial, err := h.service.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, publicsvc.ErrNotFound) {
			writeNotFound(w, "NOT_FOUND", "memorial not found")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
		return
	}

	res := dto.PublicMemorialResponse{
		ID:          memorial.ID,
		Title:       memorial.Title,
		Subtitle:    memorial.Subtitle,
		Slug:        memorial.Slug,
		Summary:     memorial.Summary,
		Story:       memorial.Story,
		PublishedAt: memorial.PublishedAt,
		Pet: dto.PublicPetResponse{
			ID:          memorial.Pet.ID,
			Name:        memorial.Pet.Name,
			Species:     memorial.Pet.Species,
			Breed:       memorial.Pet.Breed,
			BirthDate:   memorial.Pet.BirthDate,
			PassingDate: memorial.Pet.PassingDate,
		},
		Media: make([]dto.PublicMediaResponse, 0, len(memorial.Media)),
	}
	if memorial.Theme != nil {
		res.Theme = &dto.PublicThemeResponse{
			ID:              memorial.Theme.ID,
			Name:            memorial.Theme.Name,
			PrimaryColor:    memorial.Theme.PrimaryColor,
			SecondaryColor:  memorial.Theme.SecondaryColor,
			AccentColor:     memorial.Theme.AccentColor,
			BackgroundColor: memorial.Theme.BackgroundColor,
			HeadingFont:     memorial.Theme.HeadingFont,
			BodyFont:        memorial.Theme.BodyFont,
		}
	}
	for _, m := range memorial.Media {
		res.Media = append(res.Media, dto.PublicMediaResponse{
			ID:        m.ID,
			Title:     m.Title,
			AltText:   m.AltText,
			Caption:   m.Caption,
			MediaType: m.MediaType,
			FileKey:   m.FileKey,
			SortOrder: m.SortOrder,
		})
	}

	httperrors.Write(w, http.StatusOK, res)
}
