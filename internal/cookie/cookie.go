// Package cookie maps session token bundles onto the HTTP cookies that
// carry them between the browser and the server.
package cookie

import (
	"net/http"
	"time"

	"folio/internal/domain"
)

const (
	AccessTokenName  = "folio-access-token"
	RefreshTokenName = "folio-refresh-token"

	// Refresh cookies outlive the access token so an expired access
	// token can still rotate.
	refreshMaxAge = 7 * 24 * time.Hour
)

// WriteSession emits the cookie pair for a session onto the response.
func WriteSession(w http.ResponseWriter, session *domain.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenName,
		Value:    session.AccessToken,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenName,
		Value:    session.RefreshToken,
		Path:     "/",
		Expires:  time.Now().Add(refreshMaxAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSession expires both cookies on the response.
func ClearSession(w http.ResponseWriter) {
	for _, name := range []string{AccessTokenName, RefreshTokenName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// ReadSession extracts the token pair from a request. Missing cookies
// yield empty strings; the auth service decides what that means.
func ReadSession(r *http.Request) (accessToken, refreshToken string) {
	if c, err := r.Cookie(AccessTokenName); err == nil {
		accessToken = c.Value
	}
	if c, err := r.Cookie(RefreshTokenName); err == nil {
		refreshToken = c.Value
	}
	return accessToken, refreshToken
}
