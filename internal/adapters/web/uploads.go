package web

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"

	"arthavidhi/internal/app"
	"arthavidhi/internal/storage"
)

// allowedMIMETypes is the whitelist for uploaded images.
var allowedMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// attachReceipt handles POST /api/expenses/{id}/receipt (multipart field "file").
func (h *Handler) attachReceipt(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	h.withUpload(w, r, func(ctx context.Context, img io.Reader) (*app.Result, error) {
		return h.svc.AttachReceipt(ctx, userID(r), id, img)
	})
}

// uploadLogo handles POST /api/profile/logo (multipart field "file").
func (h *Handler) uploadLogo(w http.ResponseWriter, r *http.Request) {
	h.withUpload(w, r, func(ctx context.Context, img io.Reader) (*app.Result, error) {
		return h.svc.UploadLogo(ctx, userID(r), img)
	})
}

// withUpload extracts the single "file" part of a multipart request, checks its
// sniffed type and hands the stream to save.
func (h *Handler) withUpload(w http.ResponseWriter, r *http.Request, save func(context.Context, io.Reader) (*app.Result, error)) {
	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxUploadBytes+(64<<10))
	if err := r.ParseMultipartForm(storage.MaxUploadBytes); err != nil {
		writeError(w, r, fmt.Sprintf("request too large or malformed (max %d MB)", storage.MaxUploadBytes>>20),
			"BAD_REQUEST", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	f, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, "no file provided", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, 512)
	head, _ := br.Peek(512)
	if mimeType := http.DetectContentType(head); !allowedMIMETypes[mimeType] {
		writeError(w, r, fmt.Sprintf("file type %q not allowed; accepted: jpeg, png, gif", mimeType),
			"UNSUPPORTED_TYPE", http.StatusUnsupportedMediaType)
		return
	}

	res, err := save(r.Context(), br)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
