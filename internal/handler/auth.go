package handler

import (
	"context"
	"net/http"

	"github.com/forgo/roster/internal/middleware"
	"github.com/forgo/roster/internal/model"
	"github.com/forgo/roster/pkg/jwt"
)

// AuthService issues tokens and describes the caller
type AuthService interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	Me(ctx context.Context, claims *jwt.Claims) (*model.MeResponse, error)
	UpdateProfile(ctx context.Context, claims *jwt.Claims, req *model.UpdateProfileRequest) (*model.Account, error)
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	WriteData(w, http.StatusOK, resp, map[string]string{
		"me": "/v1/auth/me",
	})
}

// Me handles GET /v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	me, err := h.authService.Me(r.Context(), claims)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteData(w, http.StatusOK, me, nil)
}

// UpdateMe handles PATCH /v1/auth/me. Only the display name can change.
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.UpdateProfileRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	account, err := h.authService.UpdateProfile(r.Context(), claims, &req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteVersioned(w, http.StatusOK, account, account.Version, map[string]string{
		"me": "/v1/auth/me",
	})
}
