package handlers

import (
	"errors"
	"net/http"

	themesvc "github.com/fourpaws/backend/internal/services/themes"
	"github.com/fourpaws/backend/internal/transport/http/dto"
	httperrors "github.com/fourpaws/backend/internal/transport/http/errors"
)

type ThemesHandler struct {
	service *themesvc.Service
}

func NewThemesHandler(service *themesvc.Service) *ThemesHandler {
	return &ThemesHandler{service: service}
}

func (h *ThemesHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireIdentity(w, r); !ok {
		return
	}

	themes, err := h.service.List(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
		return
	}

	res := dto.ThemesResponse{Themes: make([]dto.ThemeResponse, 0, len(themes))}
	for _, t := range themes {
		res.Themes = append(res.Themes, themeResponse(t))
	}
	httperrors.Write(w, http.StatusOK, res)
}

func (h *ThemesHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireIdentity(w, r); !ok {
		return
	}

	var req dto.CreateThemeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	theme, err := h.service.Create(r.Context(), themesvc.CreateInput{
		Name:            req.Name,
		Description:     req.Description,
		PrimaryColor:    req.PrimaryColor,
		SecondaryColor:  req.SecondaryColor,
		AccentColor:     req.AccentColor,
		BackgroundColor: req.BackgroundColor,
		HeadingFont:     req.HeadingFont,
		BodyFont:        req.BodyFont,
	})
	if err != nil {
		if errors.Is(err, themesvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "request validation failed")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
		return
	}

	httperrors.Write(w, http.StatusCreated, themeResponse(theme))
}

func themeResponse(t themesvc.Theme) dto.ThemeResponse {
	return dto.ThemeResponse{
		ID:              t.ID,
		Name:            t.Name,
		Description:     t.Description,
		PrimaryColor:    t.PrimaryColor,
		SecondaryColor:  t.SecondaryColor,
		AccentColor:     t.AccentColor,
		BackgroundColor: t.BackgroundColor,
		HeadingFont:     t.HeadingFont,
		BodyFont:        t.BodyFont,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}
