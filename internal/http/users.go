package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/trimline/seatcase/internal/domain"
	"github.com/trimline/seatcase/internal/service"
	"github.com/trimline/seatcase/internal/store"
	"github.com/trimline/seatcase/pkg/httpx"
	"github.com/trimline/seatcase/pkg/slogx"
)

type UsersHandler struct {
	UserService *service.UserService
	AuthService *service.AuthService
}

// userView never exposes the password hash.
type userView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserView(u domain.User) userView {
	return userView{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// List handles GET /api/admin/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.UserService.ListUsers(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("list users failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"users": views})
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Create handles POST /api/admin/users.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "username/password required")
		return
	}

	user, err := h.UserService.CreateUser(ctx, username, req.Password, domain.ParseRole(req.Role))
	switch {
	case errors.Is(err, store.ErrAlreadyExists):
		httpx.WriteError(w, http.StatusConflict, "Username already exists")
	case err != nil:
		log.Error("create user failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal error")
	default:
		httpx.WriteJSON(w, http.StatusCreated, map[string]any{"ok": true, "user": toUserView(user)})
	}
}

type setPasswordRequest struct {
	Password string `json:"password"`
}

// SetPassword handles PUT /api/admin/users/{id}/password, an admin reset of
// another account's credential.
func (h *UsersHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := r.PathValue("id")
	if userID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "user id required")
		return
	}

	var req setPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "password required")
		return
	}

	err := h.AuthService.SetPassword(ctx, userID, req.Password)
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "User not found")
	case err != nil:
		slogx.FromContext(ctx).Error("set password failed", "user_id", userID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal error")
	default:
		httpx.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}
