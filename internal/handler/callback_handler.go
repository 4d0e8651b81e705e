package handler

import (
	"encoding/json"
	"net/http"

	"folio/internal/cookie"
	"folio/internal/domain"
	"folio/internal/observability"
	"folio/internal/service"
)

// CallbackHandler mirrors client-side auth state changes into server
// cookies. Browser code holds the session in memory; this endpoint is
// how that state reaches requests that never go through the holder,
// like full page navigations hitting the gate.
type CallbackHandler struct {
	authService *service.AuthService
}

// NewCallbackHandler creates a new auth callback handler
func NewCallbackHandler(authService *service.AuthService) *CallbackHandler {
	return &CallbackHandler{
		authService: authService,
	}
}

// Sync applies an auth event to the cookie jar. Sign-in style events
// carrying a session write the cookie pair; sign-out invalidates the
// server session and expires the cookies. The response is always
// 200 success: a failed sync must not break the client flow that
// triggered it, so failures are only logged.
func (h *CallbackHandler) Sync(w http.ResponseWriter, r *http.Request) {
	log := observability.FromContext(r.Context())

	var event domain.AuthEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		log.Warn("auth sync: undecodable event body", "error", err.Error())
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
		return
	}

	observability.AuthSyncEventsTotal.WithLabelValues(string(event.Kind)).Inc()

	if err := event.Valid(); err != nil {
		log.Warn("auth sync: rejected event", "error", err.Error())
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
		return
	}

	switch {
	case event.Kind == domain.EventSignedOut:
		_, refreshToken := cookie.ReadSession(r)
		if err := h.authService.SignOut(r.Context(), refreshToken); err != nil {
			log.Warn("auth sync: sign-out invalidation failed", "error", err.Error())
		}
		cookie.ClearSession(w)

	case event.CarriesSession():
		// Validate the tokens instead of trusting the payload. A
		// rotation here is fine, the fresh pair is what gets written.
		session, _, err := h.authService.SessionFromTokens(
			r.Context(), event.Session.AccessToken, event.Session.RefreshToken)
		if err != nil {
			log.Warn("auth sync: rejected session payload",
				"event", string(event.Kind), "error", err.Error())
			break
		}
		cookie.WriteSession(w, session)
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
