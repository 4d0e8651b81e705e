package handler

import (
	"errors"
	"fmt"
	"net/http"

	"folio/internal/observability"
	"folio/internal/storage"
)

// Uploads larger than this are rejected before touching the bucket.
const maxUploadBytes = 10 << 20

// UploadHandler handles image uploads into the posts bucket
type UploadHandler struct {
	bucket storage.Bucket
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(bucket storage.Bucket) *UploadHandler {
	return &UploadHandler{bucket: bucket}
}

// Upload accepts a multipart file and returns its public URL
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		observability.UploadsTotal.WithLabelValues("rejected").Inc()
		http.Error(w, `{"error":"No file provided"}`, http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		observability.UploadsTotal.WithLabelValues("rejected").Inc()
		http.Error(w, `{"error":"No file provided"}`, http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	key := storage.ObjectKey(header.Filename, contentType)

	url, err := h.bucket.Put(r.Context(), key, contentType, file)
	if err != nil {
		observability.UploadsTotal.WithLabelValues("error").Inc()
		observability.FromContext(r.Context()).Error("upload failed",
			"key", key, "error", err.Error())

		message := "Failed to upload image"
		if errors.Is(err, storage.ErrBucketNotFound) {
			// Actionable hint: the most common misconfiguration is a
			// bucket that was never created.
			message = fmt.Sprintf(
				"Storage bucket %q not found. Create it or set POSTS_BUCKET.",
				h.bucket.Name(),
			)
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": message})
		return
	}

	observability.UploadsTotal.WithLabelValues("ok").Inc()
	observability.UploadBytes.Add(float64(header.Size))

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
