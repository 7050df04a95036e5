package handlers

import (
	"errors"
	"net/http"
	"time"

	mediasvc "github.com/fourpaws/backend/internal/services/media"
	memorialsvc "github.com/fourpaws/backend/internal/services/memorials"
	"github.com/fourpaws/backend/internal/services/rate"
	"github.com/fourpaws/backend/internal/transport/http/dto"
	httperrors "github.com/fourpaws/backend/internal/transport/http/errors"
)

type MemorialsHandler struct {
	service      *memorialsvc.Service
	media        *mediasvc.Service
	limiter      *rate.Limiter
	createPolicy rate.Policy
}

func NewMemorialsHandler(service *memorialsvc.Service, media *mediasvc.Service, limiter *rate.Limiter, createPolicy rate.Policy) *MemorialsHandler {
	return &MemorialsHandler{
		service:      service,
		media:        media,
		limiter:      limiter,
		createPolicy: createPolicy,
	}
}

func (h *MemorialsHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	items, err := h.service.List(r.Context(), identity.UserID)
	if err != nil {
		handleMemorialError(w, err)
		return
	}

	res := dto.MemorialsResponse{Memorials: make([]dto.MemorialListItemResponse, 0, len(items))}
	for _, item := range items {
		res.Memorials = append(res.Memorials, memorialListItemResponse(item))
	}
	httperrors.Write(w, http.StatusOK, res)
}

func (h *MemorialsHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	memorialID, ok := urlUUID(r, "id")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "memorial not found")
		return
	}

	memorial, err := h.service.Get(r.Context(), identity.UserID, memorialID)
	if err != nil {
		handleMemorialError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, memorialResponse(memorial))
}

func (h *MemorialsHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	if h.limiter != nil {
		result, err := h.limiter.Consume(r.Context(), "memorial_create:"+identity.UserID.String(), h.createPolicy)
		if err != nil {
			writeInternal(w, "INTERNAL_ERROR", "internal server error")
			return
		}
		if result.Limited {
			writeRateLimited(w, result, time.Now())
			return
		}
	}

	var req dto.CreateMemorialRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	memorial, err := h.service.Create(r.Context(), identity.UserID, memorialsvc.CreateInput{
		PetID:    req.PetID,
		ThemeID:  req.ThemeID,
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Summary:  req.Summary,
		Story:    req.Story,
		Status:   req.Status,
	})
	if err != nil {
		handleMemorialError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, memorialResponse(memorial))
}

func (h *MemorialsHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	memorialID, ok := urlUUID(r, "id")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "memorial not found")
		return
	}

	var req dto.UpdateMemorialRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	memorial, err := h.service.Update(r.Context(), identity.UserID, memorialID, memorialsvc.UpdateInput{
		ThemeID:  memorialsvc.OptionalUUID{Set: req.ThemeID.Set, Value: req.ThemeID.Value},
		Title:    req.Title,
		Subtitle: memorialsvc.OptionalString{Set: req.Subtitle.Set, Value: req.Subtitle.Value},
		Summary:  memorialsvc.OptionalString{Set: req.Summary.Set, Value: req.Summary.Value},
		Story:    memorialsvc.OptionalString{Set: req.Story.Set, Value: req.Story.Value},
		Status:   req.Status,
	})
	if err != nil {
		handleMemorialError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, memorialResponse(memorial))
}

func (h *MemorialsHandler) Publish(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	memorialID, ok := urlUUID(r, "id")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "memorial not found")
		return
	}

	var req dto.PublishMemorialRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	memorial, err := h.service.Publish(r.Context(), identity.UserID, memorialID, memorialsvc.PublishInput{
		Publish:     req.Publish,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		handleMemorialError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, memorialResponse(memorial))
}

func (h *MemorialsHandler) AddMedia(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	memorialID, ok := urlUUID(r, "id")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "memorial not found")
		return
	}
	if h.media == nil {
		writeInternal(w, "MEDIA_SERVICE_UNAVAILABLE", "media service is unavailable")
		return
	}

	var req dto.AddMediaRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	asset, err := h.media.Add(r.Context(), identity.UserID, mediasvc.AddInput{
		MemorialID: memorialID,
		Title:      req.Title,
		AltText:    req.AltText,
		Caption:    req.Caption,
		MediaType:  req.MediaType,
		FileName:   req.FileName,
		Base64Data: req.Base64Data,
	})
	if err != nil {
		handleMediaError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, mediaResponse(asset))
}

func (h *MemorialsHandler) ReorderMedia(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	memorialID, ok := urlUUID(r, "id")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "memorial not found")
		return
	}
	if h.media == nil {
		writeInternal(w, "MEDIA_SERVICE_UNAVAILABLE", "media service is unavailable")
		return
	}

	var req dto.ReorderMediaRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	items := make([]mediasvc.ReorderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, mediasvc.ReorderItem{ID: item.ID, SortOrder: item.SortOrder})
	}

	if err := h.media.Reorder(r.Context(), identity.UserID, memorialID, items); err != nil {
		handleMediaError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func handleMemorialError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, memorialsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "request validation failed")
	case errors.Is(err, memorialsvc.ErrPetForbidden):
		writeForbidden(w, "FORBIDDEN", "pet does not belong to the current owner")
	case errors.Is(err, memorialsvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", "memorial not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}

func memorialResponse(m memorialsvc.Memorial) dto.MemorialResponse {
	return dto.MemorialResponse{
		ID:          m.ID,
		PetID:       m.PetID,
		ThemeID:     m.ThemeID,
		Title:       m.Title,
		Subtitle:    m.Subtitle,
		Slug:        m.Slug,
		Summary:     m.Summary,
		Story:       m.Story,
		Status:      m.Status,
		PublishedAt: m.PublishedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func memorialListItemResponse(item memorialsvc.ListItem) dto.MemorialListItemResponse {
	res := dto.MemorialListItemResponse{
		MemorialResponse: memorialResponse(item.Memorial),
		Pet: dto.MemorialPetResponse{
			ID:      item.Pet.ID,
			Name:    item.Pet.Name,
			Species: item.Pet.Species,
		},
		Media: make([]dto.MemorialMediaResponse, 0, len(item.Media)),
	}
	if item.Theme != nil {
		res.Theme = &dto.MemorialThemeResponse{ID: item.Theme.ID, Name: item.Theme.Name}
	}
	for _, m := range item.Media {
		res.Media = append(res.Media, dto.MemorialMediaResponse{
			ID:        m.ID,
			Title:     m.Title,
			AltText:   m.AltText,
			Caption:   m.Caption,
			MediaType: m.MediaType,
			FileKey:   m.FileKey,
			SortOrder: m.SortOrder,
		})
	}
	return res
}
