package http

import (
	"errors"
	"net/http"

	"github.com/trimline/seatcase/internal/service"
	"github.com/trimline/seatcase/internal/store"
	"github.com/trimline/seatcase/pkg/httpx"
	"github.com/trimline/seatcase/pkg/slogx"
)

// PublicCasesHandler serves the unauthenticated catalogue. Only published
// cases are visible here.
type PublicCasesHandler struct {
	CaseService *service.CaseService
}

// List handles GET /api/cases.
func (h *PublicCasesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cases, err := h.CaseService.ListPublished(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("list published cases failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "cases": toCaseViews(cases)})
}

// Get handles GET /api/cases/{id}.
func (h *PublicCasesHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	c, err := h.CaseService.GetPublished(ctx, r.PathValue("id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "Case not found")
	case err != nil:
		slogx.FromContext(ctx).Error("get case failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal error")
	default:
		httpx.WriteJSON(w, http.StatusOK, toCaseView(c))
	}
}
