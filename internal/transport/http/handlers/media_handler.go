package handlers

import (
	"errors"
	"net/http"

	mediasvc "github.com/fourpaws/backend/internal/services/media"
	"github.com/fourpaws/backend/internal/transport/http/dto"
)

type MediaHandler struct {
	service *mediasvc.Service
}

func NewMediaHandler(service *mediasvc.Service) *MediaHandler {
	return &MediaHandler{service: service}
}

func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	mediaID, ok := urlUUID(r, "id")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "media asset not found")
		return
	}
	if h.service == nil {
		writeInternal(w, "MEDIA_SERVICE_UNAVAILABLE", "media service is unavailable")
		return
	}

	if err := h.service.Remove(r.Context(), identity.UserID, mediaID); err != nil {
		handleMediaError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func handleMediaError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mediasvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "request validation failed")
	case errors.Is(err, mediasvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", "media asset not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}

func mediaResponse(a mediasvc.Asset) dto.MediaResponse {
	return dto.MediaResponse{
		ID:        a.ID,
		Title:     a.Title,
		AltText:   a.AltText,
		Caption:   a.Caption,
		MediaType: a.MediaType,
		FileKey:   a.FileKey,
		SortOrder: a.SortOrder,
		CreatedAt: a.CreatedAt,
	}
}
