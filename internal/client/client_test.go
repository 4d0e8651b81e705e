package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"folio/internal/cookie"
	"folio/internal/domain"
	"folio/internal/service"
)

func testServer(t *testing.T) (*httptest.Server, *Client) {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		if req.Password != "password123" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid email or password"})
			return
		}

		http.SetCookie(w, &http.Cookie{Name: cookie.AccessTokenName, Value: "access", Path: "/"})
		http.SetCookie(w, &http.Cookie{Name: cookie.RefreshTokenName, Value: "refresh", Path: "/"})
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"user":    map[string]string{"id": "user-1", "email": req.Email},
			"session": &domain.Session{
				AccessToken:  "access",
				RefreshToken: "refresh",
				ExpiresAt:    time.Now().Add(time.Hour),
				UserID:       "user-1",
				Email:        req.Email,
			},
		})
	})

	mux.HandleFunc("GET /api/admin/posts", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(cookie.AccessTokenName); err != nil || c.Value == "" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Not authenticated"})
			return
		}
		json.NewEncoder(w).Encode([]*domain.Post{{ID: "post-1", Title: "Hello", Slug: "hello"}})
	})

	mux.HandleFunc("POST /api/admin/posts", func(w http.ResponseWriter, r *http.Request) {
		var in service.PostInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(&domain.Post{ID: "post-2", Title: in.Title, Slug: in.Slug})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	return srv, c
}

func TestClient_SignIn_JarsCookies(t *testing.T) {
	_, c := testServer(t)

	session, user, err := c.SignIn(t.Context(), "admin@example.com", "password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.AccessToken != "access" {
		t.Errorf("access token = %q", session.AccessToken)
	}
	if user.Email != "admin@example.com" {
		t.Errorf("user email = %q", user.Email)
	}

	// The jarred cookies authenticate the next call.
	posts, err := c.ListAll(t.Context())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts) != 1 || posts[0].Slug != "hello" {
		t.Errorf("posts = %+v", posts)
	}
}

func TestClient_SignIn_DecodesErrorBody(t *testing.T) {
	_, c := testServer(t)

	_, _, err := c.SignIn(t.Context(), "admin@example.com", "wrong")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if apiErr.Error() != "invalid email or password" {
		t.Errorf("message = %q", apiErr.Error())
	}
}

func TestClient_ListAll_Unauthenticated(t *testing.T) {
	_, c := testServer(t)

	_, err := c.ListAll(t.Context())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
}

func TestClient_AdoptSession(t *testing.T) {
	_, c := testServer(t)

	err := c.AdoptSession(&domain.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.ListAll(t.Context()); err != nil {
		t.Fatalf("adopted session should authenticate: %v", err)
	}
}

func TestClient_CreatePost(t *testing.T) {
	_, c := testServer(t)

	post, err := c.CreatePost(t.Context(), service.PostInput{Title: "Hi", Slug: "hi", Content: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.ID != "post-2" || post.Slug != "hi" {
		t.Errorf("post = %+v", post)
	}
}
