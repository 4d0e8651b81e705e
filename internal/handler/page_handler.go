package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"folio/internal/domain"
	"folio/internal/middleware"
	"folio/internal/observability"
	"folio/internal/service"
	"folio/internal/web"

	"github.com/go-chi/chi/v5"
)

// PageHandler renders the server-side HTML pages
type PageHandler struct {
	postService *service.PostService
	renderer    *web.Renderer
}

// NewPageHandler creates a new page handler
func NewPageHandler(postService *service.PostService, renderer *web.Renderer) *PageHandler {
	return &PageHandler{
		postService: postService,
		renderer:    renderer,
	}
}

// pageData is the common payload every page template receives.
type pageData struct {
	Title       string
	Description string
	Canonical   string
	SignedIn    bool
	Year        int
	Query       string
	Posts       []*domain.Post
	Post        *domain.Post
	View        *web.PostView
}

func (h *PageHandler) base(r *http.Request, title string) pageData {
	_, signedIn := middleware.GetSession(r.Context())
	return pageData{
		Title:    title,
		SignedIn: signedIn,
		Year:     time.Now().Year(),
	}
}

// Home renders the landing page with the most recent published posts
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := h.base(r, "folio")
	data.Description = "Portfolio and writing of a software engineer."

	posts, err := h.postService.ListPublished(r.Context())
	if err != nil {
		observability.FromContext(r.Context()).Error("home: failed to list posts",
			"error", err.Error())
		posts = nil
	}
	if len(posts) > 3 {
		posts = posts[:3]
	}
	data.Posts = posts

	h.render(w, r, "home.html", data)
}

// Blog renders the post index. The search box is display-only; the
// query is echoed back but never filters the listing.
func (h *PageHandler) Blog(w http.ResponseWriter, r *http.Request) {
	data := h.base(r, "Blog")
	data.Query = strings.TrimSpace(r.URL.Query().Get("q"))

	posts, err := h.postService.ListPublished(r.Context())
	if err != nil {
		observability.FromContext(r.Context()).Error("blog: failed to list posts",
			"error", err.Error())
		posts = []*domain.Post{}
	}
	data.Posts = posts

	h.render(w, r, "blog.html", data)
}

// Post renders a single published post with its markdown body converted
// to HTML, the estimated reading time, and a canonical URL.
func (h *PageHandler) Post(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.postService.GetPublishedBySlug(r.Context(), slug)
	if errors.Is(err, domain.ErrPostNotFound) {
		h.NotFound(w, r)
		return
	}
	if err != nil {
		observability.FromContext(r.Context()).Error("post page: failed to load",
			"slug", slug, "error", err.Error())
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	body, err := h.renderer.RenderMarkdown(post.Content)
	if err != nil {
		observability.FromContext(r.Context()).Error("post page: markdown failed",
			"slug", slug, "error", err.Error())
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := h.base(r, post.Title)
	data.Description = post.Excerpt
	data.Canonical = h.renderer.CanonicalURL(post.Slug)
	data.View = &web.PostView{
		Post:         post,
		Body:         body,
		ReadingTime:  service.ReadingTime(post.Content),
		CanonicalURL: data.Canonical,
	}

	h.render(w, r, "post.html", data)
}

// Login renders the sign-in form
func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login.html", h.base(r, "Sign in"))
}

// Dashboard renders the admin post table
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := h.base(r, "Dashboard")

	posts, err := h.postService.ListAll(r.Context())
	if err != nil {
		observability.FromContext(r.Context()).Error("dashboard: failed to list posts",
			"error", err.Error())
		posts = []*domain.Post{}
	}
	data.Posts = posts

	h.render(w, r, "dashboard.html", data)
}

// NewPost renders an empty editor
func (h *PageHandler) NewPost(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "editor.html", h.base(r, "New post"))
}

// EditPost renders the editor preloaded with an existing post
func (h *PageHandler) EditPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	post, err := h.postService.GetByID(r.Context(), id)
	if errors.Is(err, domain.ErrPostNotFound) {
		h.NotFound(w, r)
		return
	}
	if err != nil {
		observability.FromContext(r.Context()).Error("editor: failed to load post",
			"id", id, "error", err.Error())
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := h.base(r, "Edit post")
	data.Post = post
	h.render(w, r, "editor.html", data)
}

// NotFound renders the 404 page
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	data := h.base(r, "Not found")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if err := h.renderer.Render(w, "notfound.html", data); err != nil {
		observability.FromContext(r.Context()).Error("failed to render 404",
			"error", err.Error())
	}
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Render(w, name, data); err != nil {
		observability.FromContext(r.Context()).Error("failed to render page",
			"template", name, "error", err.Error())
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
