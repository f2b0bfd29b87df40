package handlers

import (
	"net/http"

	"primariaPortal/internal/auth"
	"primariaPortal/internal/models"
	"primariaPortal/internal/validation"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

type UserResponse struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  models.Role `json:"role"`
}

func toUserResponse(user *models.User) UserResponse {
	return UserResponse{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role}
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	// check method
	if r.Method != http.MethodPost {
		WriteError(w, "Metodă nepermisă", http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteAppError(w, r, err)
		return
	}

	if err := validation.Struct(h.Validate, req); err != nil {
		WriteAppError(w, r, err)
		return
	}

	user, token, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	WriteSuccess(w, LoginResponse{Success: true, Token: token, User: toUserResponse(user)}, http.StatusOK)
}

// Me returns the account behind the presented token.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Metodă nepermisă", http.StatusMethodNotAllowed)
		return
	}

	caller, _ := auth.FromContext(r.Context())
	user, err := h.AuthService.Me(r.Context(), caller)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	WriteSuccess(w, toUserResponse(user), http.StatusOK)
}
