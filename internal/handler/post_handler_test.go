package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"folio/internal/domain"
	"folio/internal/service"
	"folio/internal/testutil"

	"github.com/go-chi/chi/v5"
)

func newPostRouter(repo *testutil.MockPostRepository) chi.Router {
	h := NewPostHandler(service.NewPostService(repo))

	r := chi.NewRouter()
	r.Get("/api/posts", h.ListPublished)
	r.Get("/api/posts/slug/{slug}", h.GetBySlug)
	r.Get("/api/admin/posts", h.ListAll)
	r.Post("/api/admin/posts", h.Create)
	r.Get("/api/admin/posts/{id}", h.GetByID)
	r.Put("/api/admin/posts/{id}", h.Update)
	r.Delete("/api/admin/posts/{id}", h.Delete)
	return r
}

func TestListPublished_DegradesToEmptyArrayOnStoreError(t *testing.T) {
	repo := testutil.NewMockPostRepository()
	repo.ListPublishedFunc = func(ctx context.Context) ([]*domain.Post, error) {
		return nil, testutil.ErrMockStore
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	newPostRouter(repo).ServeHTTP(w, r)

	testutil.AssertStatusCode(t, w, http.StatusOK)
	testutil.AssertEqual(t, w.Body.String(), "[]\n")
}

func TestGetBySlug_NotFound(t *testing.T) {
	repo := testutil.NewMockPostRepository()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/posts/slug/does-not-exist", nil)
	newPostRouter(repo).ServeHTTP(w, r)

	testutil.AssertStatusCode(t, w, http.StatusNotFound)
	testutil.AssertContains(t, w.Body.String(), "Post not found")
}

func TestCreate_PublishesImmediately(t *testing.T) {
	repo := testutil.NewMockPostRepository()
	before := time.Now()

	body, _ := json.Marshal(map[string]string{
		"title":   "Hello",
		"slug":    "hello",
		"content": "World",
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/admin/posts", bytes.NewReader(body))
	newPostRouter(repo).ServeHTTP(w, r)

	testutil.AssertStatusCode(t, w, http.StatusCreated)

	resp := testutil.DecodeJSON(t, w)
	testutil.AssertEqual(t, resp["slug"].(string), "hello")
	testutil.AssertEqual(t, resp["published"], true)

	publishedAt, err := time.Parse(time.RFC3339Nano, resp["published_at"].(string))
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, !publishedAt.Before(before.Truncate(time.Second)),
		"published_at should be the request time")

	testutil.AssertEqual(t, len(repo.Posts), 1)
}

func TestCreate_MissingContent_DoesNotCreate(t *testing.T) {
	repo := testutil.NewMockPostRepository()

	body, _ := json.Marshal(map[string]string{
		"title": "Hello",
		"slug":  "hello",
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/admin/posts", bytes.NewReader(body))
	newPostRouter(repo).ServeHTTP(w, r)

	testutil.AssertStatusCode(t, w, http.StatusBadRequest)
	testutil.AssertContains(t, w.Body.String(), "Title, slug, and content are required")
	testutil.AssertEqual(t, len(repo.Posts), 0)
}

func TestUpdate_ReplacesPost(t *testing.T) {
	repo := testutil.NewMockPostRepository()
	post := testutil.NewTestPost(testutil.WithSlug("original"))
	repo.Posts = append(repo.Posts, post)

	body, _ := json.Marshal(map[string]string{
		"title":   "Updated Title",
		"slug":    "Updated Slug!",
		"content": "new content",
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPut, "/api/admin/posts/"+post.ID, bytes.NewReader(body))
	newPostRouter(repo).ServeHTTP(w, r)

	testutil.AssertStatusCode(t, w, http.StatusOK)

	resp := testutil.DecodeJSON(t, w)
	testutil.AssertEqual(t, resp["title"].(string), "Updated Title")
	testutil.AssertEqual(t, resp["slug"].(string), "updated-slug")
}

func TestDelete_ReturnsSuccessFlag(t *testing.T) {
	repo := testutil.NewMockPostRepository()
	post := testutil.NewTestPost()
	repo.Posts = append(repo.Posts, post)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodDelete, "/api/admin/posts/"+post.ID, nil)
	newPostRouter(repo).ServeHTTP(w, r)

	testutil.AssertStatusCode(t, w, http.StatusOK)

	resp := testutil.DecodeJSON(t, w)
	testutil.AssertEqual(t, resp["success"], true)
	testutil.AssertEqual(t, len(repo.Posts), 0)
}
