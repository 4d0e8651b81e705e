package handler

import (
	"encoding/json"
	"net/http"

	"folio/internal/cookie"
	"folio/internal/domain"
	"folio/internal/middleware"
	"folio/internal/observability"
	"folio/internal/service"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the minimal identity payload
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// LoginResponse represents login response
type LoginResponse struct {
	Success bool            `json:"success"`
	User    UserResponse    `json:"user"`
	Session *domain.Session `json:"session"`
}

// Login verifies credentials, sets the session cookie pair, and returns
// the token bundle so remote clients can hold it in memory. The error
// message for rejected credentials is passed through unmodified.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}

	session, user, err := h.authService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return
	}

	cookie.WriteSession(w, session)

	writeJSON(w, http.StatusOK, LoginResponse{
		Success: true,
		User:    UserResponse{ID: user.ID, Email: user.Email},
		Session: session,
	})
}

// Logout invalidates the session and clears cookies. Invalidation
// failures clear the cookies anyway; a client must never keep a session
// the auth service may already have dropped.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	_, refreshToken := cookie.ReadSession(r)

	if err := h.authService.SignOut(r.Context(), refreshToken); err != nil {
		observability.FromContext(r.Context()).Warn("sign-out invalidation failed",
			"error", err.Error())
	}

	cookie.ClearSession(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Me returns the identity derived from the request's session
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		http.Error(w, `{"error":"Not authenticated"}`, http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Success: true,
		User:    UserResponse{ID: session.UserID, Email: session.Email},
		Session: session,
	})
}
