package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/trimline/seatcase/internal/service"
	"github.com/trimline/seatcase/internal/store"
	"github.com/trimline/seatcase/pkg/httpx"
	"github.com/trimline/seatcase/pkg/slogx"
)

type ChangePasswordHandler struct {
	AuthService *service.AuthService
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ServeHTTP handles POST /api/admin/change-password for the authenticated
// user's own credential.
func (h *ChangePasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Missing fields")
		return
	}

	err := h.AuthService.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "Current password is incorrect")
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "User not found")
	case err != nil:
		log.Error("change password failed", "user_id", userID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal error")
	default:
		httpx.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}
