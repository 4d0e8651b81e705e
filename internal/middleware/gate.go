package middleware

import (
	"net/http"
	"strings"

	"folio/internal/cookie"
	"folio/internal/observability"
	"folio/internal/service"
)

const (
	loginPath     = "/login"
	adminPrefix   = "/admin"
	dashboardPath = "/admin/dashboard"
)

// Gate is the route-protection gate: the sole enforcement point for page
// navigation. It matches only the admin area and the login page; every
// other path passes through untouched. The session is re-derived from
// cookies on every request, never cached, and any tokens rotated during
// derivation are emitted on the outgoing response, redirect or not, so a
// freshly refreshed session is never lost to a bounce.
//
// The gate does not cover /api: API handlers re-verify the session
// themselves (see Auth).
func Gate(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if !strings.HasPrefix(path, adminPrefix) && path != loginPath {
				next.ServeHTTP(w, r)
				return
			}

			// Derivation failure of any kind (no cookies, malformed
			// token, unknown refresh token) means "no valid session".
			accessToken, refreshToken := cookie.ReadSession(r)
			session, refreshed, err := auth.SessionFromTokens(r.Context(), accessToken, refreshToken)
			if err != nil {
				session = nil
			}
			if refreshed {
				cookie.WriteSession(w, session)
			}

			if strings.HasPrefix(path, adminPrefix) && session == nil {
				observability.GateDecisionsTotal.WithLabelValues("redirect_login").Inc()
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}

			if path == loginPath && session != nil {
				observability.GateDecisionsTotal.WithLabelValues("redirect_dashboard").Inc()
				http.Redirect(w, r, dashboardPath, http.StatusFound)
				return
			}

			observability.GateDecisionsTotal.WithLabelValues("pass").Inc()
			if session != nil {
				next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
