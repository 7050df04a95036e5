package handlers

import (
	"errors"
	"net"
	"net/http"
	"time"

	authsvc "github.com/fourpaws/backend/internal/services/auth"
	"github.com/fourpaws/backend/internal/services/rate"
	"github.com/fourpaws/backend/internal/transport/http/dto"
	httperrors "github.com/fourpaws/backend/internal/transport/http/errors"
)

type AuthHandler struct {
	service     *authsvc.Service
	limiter     *rate.Limiter
	loginPolicy rate.Policy
}

func NewAuthHandler(service *authsvc.Service, limiter *rate.Limiter, loginPolicy rate.Policy) *AuthHandler {
	return &AuthHandler{
		service:     service,
		limiter:     limiter,
		loginPolicy: loginPolicy,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}

	if h.limiter != nil {
		result, err := h.limiter.Consume(r.Context(), "login:"+clientIP(r), h.loginPolicy)
		if err != nil {
			writeInternal(w, "INTERNAL_ERROR", "internal server error")
			return
		}
		if result.Limited {
			writeRateLimited(w, result, time.Now())
			return
		}
	}

	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	res, err := h.service.Authenticate(r.Context(), authsvc.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrInvalidInput):
			writeBadRequest(w, "VALIDATION_ERROR", "request validation failed")
		case errors.Is(err, authsvc.ErrInvalidCredentials):
			writeUnauthorized(w, "INVALID_CREDENTIALS", "invalid email or password")
		default:
			writeInternal(w, "INTERNAL_ERROR", "internal server error")
		}
		return
	}

	w.Header().Set("Set-Cookie", res.Cookie)
	httperrors.Write(w, http.StatusOK, dto.LoginResponse{
		User: dto.AuthUserResponse{ID: res.User.ID, Email: res.User.Email},
	})
}

// Logout always succeeds: the destroy cookie goes out even when no valid
// session was attached to the request.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}

	destroy, _ := h.service.SignOut(r.Context(), r.Header.Get("Cookie"))
	w.Header().Set("Set-Cookie", destroy)
	httperrors.Write(w, http.StatusOK, dto.LogoutResponse{OK: true})
}

func (h *AuthHandler) Rotate(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}

	res, err := h.service.RotateSession(r.Context(), r.Header.Get("Cookie"))
	if err != nil {
		if errors.Is(err, authsvc.ErrUnauthorized) {
			writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
		return
	}

	w.Header().Set("Set-Cookie", res.Cookie)
	httperrors.Write(w, http.StatusOK, dto.LoginResponse{
		User: dto.AuthUserResponse{ID: res.User.ID, Email: res.User.Email},
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
