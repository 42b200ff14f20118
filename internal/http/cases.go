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

type AdminCasesHandler struct {
	CaseService *service.CaseService
}

type mediaView struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Type      string `json:"type"`
	URL       string `json:"url"`
	PosterURL string `json:"posterUrl,omitempty"`
	SortOrder int    `json:"sortOrder"`
}

type caseView struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Brand     string      `json:"brand"`
	Model     string      `json:"model"`
	YearStart int         `json:"yearStart"`
	YearEnd   int         `json:"yearEnd"`
	SKU       string      `json:"sku,omitempty"`
	Published bool        `json:"published"`
	Media     []mediaView `json:"media"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

func toCaseView(c domain.Case) caseView {
	media := make([]mediaView, 0, len(c.Media))
	for _, m := range c.Media {
		media = append(media, mediaView{
			ID:        m.ID,
			Kind:      string(m.Kind),
			Type:      string(m.Type),
			URL:       m.URL,
			PosterURL: m.PosterURL,
			SortOrder: m.SortOrder,
		})
	}
	return caseView{
		ID:        c.ID,
		Title:     c.Title,
		Brand:     c.Brand,
		Model:     c.Model,
		YearStart: c.YearStart,
		YearEnd:   c.YearEnd,
		SKU:       c.SKU,
		Published: c.Published,
		Media:     media,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toCaseViews(cases []domain.Case) []caseView {
	views := make([]caseView, 0, len(cases))
	for _, c := range cases {
		views = append(views, toCaseView(c))
	}
	return views
}

type mediaInput struct {
	Kind      string `json:"kind"`
	Type      string `json:"type"`
	URL       string `json:"url"`
	PosterURL string `json:"posterUrl"`
	SortOrder int    `json:"sortOrder"`
}

func toDomainMedia(in []mediaInput) []domain.Media {
	out := make([]domain.Media, 0, len(in))
	for _, m := range in {
		out = append(out, domain.Media{
			Kind:      domain.MediaKind(strings.ToUpper(m.Kind)),
			Type:      domain.MediaType(strings.ToUpper(m.Type)),
			URL:       m.URL,
			PosterURL: m.PosterURL,
			SortOrder: m.SortOrder,
		})
	}
	return out
}

// List handles GET /api/admin/cases, drafts included.
func (h *AdminCasesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cases, err := h.CaseService.ListAll(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("list cases failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "cases": toCaseViews(cases)})
}

type createCaseRequest struct {
	Title     string       `json:"title"`
	Brand     string       `json:"brand"`
	Model     string       `json:"model"`
	YearStart int          `json:"yearStart"`
	YearEnd   int          `json:"yearEnd"`
	SKU       string       `json:"sku"`
	Published bool         `json:"published"`
	Media     []mediaInput `json:"media"`
}

// Create handles POST /api/admin/cases.
func (h *AdminCasesHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	title := strings.TrimSpace(req.Title)
	brand := strings.TrimSpace(req.Brand)
	model := strings.TrimSpace(req.Model)
	if title == "" || brand == "" || model == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Missing fields")
		return
	}

	created, err := h.CaseService.Create(ctx, domain.Case{
		Title:     title,
		Brand:     brand,
		Model:     model,
		YearStart: req.YearStart,
		YearEnd:   req.YearEnd,
		SKU:       req.SKU,
		Published: req.Published,
		Media:     toDomainMedia(req.Media),
	})
	if err != nil {
		slogx.FromContext(ctx).Error("create case failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]any{"ok": true, "case": toCaseView(created)})
}

type patchCaseRequest struct {
	Title     *string       `json:"title"`
	Brand     *string       `json:"brand"`
	Model     *string       `json:"model"`
	YearStart *int          `json:"yearStart"`
	YearEnd   *int          `json:"yearEnd"`
	SKU       *string       `json:"sku"`
	Published *bool         `json:"published"`
	Media     *[]mediaInput `json:"media"`
}

// Patch handles PATCH /api/admin/cases/{id}. Absent fields are unchanged; a
// present media array replaces the case's media set.
func (h *AdminCasesHandler) Patch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := r.PathValue("id")
	var req patchCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	patch := domain.CasePatch{
		Title:     req.Title,
		Brand:     req.Brand,
		Model:     req.Model,
		YearStart: req.YearStart,
		YearEnd:   req.YearEnd,
		SKU:       req.SKU,
		Published: req.Published,
	}
	if req.Media != nil {
		patch.HasMedia = true
		patch.Media = toDomainMedia(*req.Media)
	}

	updated, err := h.CaseService.Update(ctx, id, patch)
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "Case not found")
	case err != nil:
		slogx.FromContext(ctx).Error("update case failed", "case_id", id, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal error")
	default:
		httpx.WriteJSON(w, http.StatusOK, toCaseView(updated))
	}
}

// Delete handles DELETE /api/admin/cases/{id}.
func (h *AdminCasesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := r.PathValue("id")
	err := h.CaseService.Delete(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "Case not found")
	case err != nil:
		slogx.FromContext(ctx).Error("delete case failed", "case_id", id, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal error")
	default:
		httpx.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}
