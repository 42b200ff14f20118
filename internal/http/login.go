package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/trimline/seatcase/internal/service"
	"github.com/trimline/seatcase/pkg/httpx"
	"github.com/trimline/seatcase/pkg/slogx"
)

type LoginHandler struct {
	AuthService *service.AuthService
	Cookie      httpx.SessionCookie
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	OK   bool   `json:"ok"`
	Role string `json:"role"`
}

// ServeHTTP handles POST /api/auth/login. A failed login is a uniform 401
// with no hint whether the username or the password was wrong.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	token, role, err := h.AuthService.Login(ctx, username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		log.Error("login failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	h.Cookie.Attach(w, token)
	httpx.WriteJSON(w, http.StatusOK, loginResponse{OK: true, Role: role.String()})
}

type LogoutHandler struct {
	Cookie httpx.SessionCookie
}

// ServeHTTP handles POST /api/auth/logout. Clearing the cookie is the only
// way to end a session early; tokens are stateless and carry their own
// expiry.
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Cookie.Clear(w)
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
