package http

import (
	"net/http"

	"github.com/trimline/seatcase/internal/service"
	"github.com/trimline/seatcase/pkg/httpx"
	"github.com/trimline/seatcase/pkg/slogx"
)

// maxUploadBytes bounds a single multipart upload.
const maxUploadBytes = 100 << 20

type MediaHandler struct {
	MediaService *service.MediaService
}

// Upload handles POST /api/admin/upload (multipart form, field "file").
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	mime := header.Header.Get("Content-Type")
	if mime == "" {
		mime = "application/octet-stream"
	}

	result, err := h.MediaService.SaveUpload(ctx, header.Filename, mime, header.Size, file)
	if err != nil {
		log.Error("upload failed", "filename", header.Filename, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, result)
}

// Library handles GET /api/admin/media, listing everything under the upload
// tree newest first.
func (h *MediaHandler) Library(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.MediaService.ListLibrary(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("media library scan failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, items)
}
