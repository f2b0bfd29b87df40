package handlers

import (
	"net/http"

	"primariaPortal/internal/auth"
	"primariaPortal/internal/models"
)

type UpdateRoleRequest struct {
	Role models.Role `json:"role"`
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Metodă nepermisă", http.StatusMethodNotAllowed)
		return
	}

	caller, _ := auth.FromContext(r.Context())
	users, err := h.UserService.ListUsers(r.Context(), caller)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	response := make([]UserResponse, 0, len(users))
	for i := range users {
		response = append(response, toUserResponse(&users[i]))
	}

	WriteSuccess(w, response, http.StatusOK)
}

func (h *Handlers) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch && r.Method != http.MethodPut {
		WriteError(w, "Metodă nepermisă", http.StatusMethodNotAllowed)
		return
	}

	var req UpdateRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteAppError(w, r, err)
		return
	}

	caller, _ := auth.FromContext(r.Context())
	user, err := h.UserService.UpdateRole(r.Context(), caller, pathID(r), req.Role)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	WriteResult(w, "Rol actualizat", toUserResponse(user), http.StatusOK)
}
