package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"folio/internal/domain"
	"folio/internal/observability"
	"folio/internal/service"

	"github.com/go-chi/chi/v5"
)

// PostHandler handles public and admin post endpoints
type PostHandler struct {
	postService *service.PostService
}

// NewPostHandler creates a new post handler
func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

// ListPublished returns published posts, newest first. A store error
// degrades to an empty array so a backend outage never breaks public
// page rendering.
func (h *PostHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.ListPublished(r.Context())
	if err != nil {
		observability.FromContext(r.Context()).Error("failed to list published posts",
			"error", err.Error())
		posts = []*domain.Post{}
	}

	writeJSON(w, http.StatusOK, posts)
}

// GetBySlug returns a single published post
func (h *PostHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.postService.GetPublishedBySlug(r.Context(), slug)
	if errors.Is(err, domain.ErrPostNotFound) {
		http.Error(w, `{"error":"Post not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		observability.FromContext(r.Context()).Error("failed to get post by slug",
			"slug", slug, "error", err.Error())
		http.Error(w, `{"error":"Failed to fetch post"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// ListAll returns every post including drafts for the admin surface
func (h *PostHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.ListAll(r.Context())
	if err != nil {
		observability.FromContext(r.Context()).Error("failed to list posts",
			"error", err.Error())
		posts = []*domain.Post{}
	}

	writeJSON(w, http.StatusOK, posts)
}

// Create validates and stores a new post
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.PostInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}

	post, err := h.postService.Create(r.Context(), in)
	if err != nil {
		h.writePostError(w, r, err, "Failed to create post")
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// GetByID returns a post regardless of published state
func (h *PostHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	post, err := h.postService.GetByID(r.Context(), id)
	if errors.Is(err, domain.ErrPostNotFound) {
		http.Error(w, `{"error":"Post not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		observability.FromContext(r.Context()).Error("failed to get post",
			"id", id, "error", err.Error())
		http.Error(w, `{"error":"Failed to fetch post"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// Update validates and replaces a post
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in service.PostInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}

	post, err := h.postService.Update(r.Context(), id, in)
	if err != nil {
		h.writePostError(w, r, err, "Failed to update post")
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// Delete removes a post
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.postService.Delete(r.Context(), id); err != nil {
		observability.FromContext(r.Context()).Error("failed to delete post",
			"id", id, "error", err.Error())
		http.Error(w, `{"error":"Failed to delete post"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// writePostError maps service errors onto status codes for write paths:
// validation failures are 400, everything else is a 500 with a generic
// message and the detail logged.
func (h *PostHandler) writePostError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if errors.Is(err, service.ErrMissingFields) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Title, slug, and content are required",
		})
		return
	}
	if errors.Is(err, domain.ErrSlugExists) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
		return
	}

	observability.FromContext(r.Context()).Error("post write failed", "error", err.Error())
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": fallback})
}

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
