package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"folio/internal/cookie"
	"folio/internal/domain"
	"folio/internal/middleware"
	"folio/internal/testutil"
)

func postEvent(t *testing.T, h *CallbackHandler, event domain.AuthEvent, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(event)
	testutil.AssertNoError(t, err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/auth/callback", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		r.AddCookie(c)
	}

	h.Sync(w, r)
	return w
}

func TestCallback_SignedIn_WritesCookies(t *testing.T) {
	auth, _, session := newTestAuth(t)
	h := NewCallbackHandler(auth)

	w := postEvent(t, h, domain.AuthEvent{Kind: domain.EventSignedIn, Session: session})

	testutil.AssertStatusCode(t, w, http.StatusOK)
	body := testutil.DecodeJSON(t, w)
	testutil.AssertEqual(t, body["success"], true)

	access := testutil.Cookie(w, cookie.AccessTokenName)
	refresh := testutil.Cookie(w, cookie.RefreshTokenName)
	if access == nil || refresh == nil {
		t.Fatal("expected session cookie pair on the response")
	}
	testutil.AssertEqual(t, access.Value, session.AccessToken)
}

func TestCallback_SignedOut_ClearsCookiesAndSession(t *testing.T) {
	auth, _, session := newTestAuth(t)
	h := NewCallbackHandler(auth)

	w := postEvent(t, h, domain.AuthEvent{Kind: domain.EventSignedOut},
		&http.Cookie{Name: cookie.RefreshTokenName, Value: session.RefreshToken})

	testutil.AssertStatusCode(t, w, http.StatusOK)

	refresh := testutil.Cookie(w, cookie.RefreshTokenName)
	if refresh == nil {
		t.Fatal("expected an expiring refresh cookie")
	}
	testutil.AssertEqual(t, refresh.Value, "")
	testutil.AssertEqual(t, refresh.MaxAge, -1)

	// The server-side session is gone; the tokens no longer derive one.
	_, _, err := auth.SessionFromTokens(t.Context(), "", session.RefreshToken)
	testutil.AssertErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestCallback_RejectedSessionPayload_StillSucceeds(t *testing.T) {
	auth, _, _ := newTestAuth(t)
	h := NewCallbackHandler(auth)

	w := postEvent(t, h, domain.AuthEvent{
		Kind: domain.EventSignedIn,
		Session: &domain.Session{
			AccessToken:  "forged",
			RefreshToken: "forged",
		},
	})

	// Errors are swallowed: the client's local state update must not be
	// blocked by a failed sync.
	testutil.AssertStatusCode(t, w, http.StatusOK)
	body := testutil.DecodeJSON(t, w)
	testutil.AssertEqual(t, body["success"], true)

	if testutil.Cookie(w, cookie.AccessTokenName) != nil {
		t.Fatal("a forged session must not produce cookies")
	}
}

func TestCallback_MalformedEvent_StillSucceeds(t *testing.T) {
	auth, _, session := newTestAuth(t)
	h := NewCallbackHandler(auth)

	events := []domain.AuthEvent{
		{Kind: "UNKNOWN_KIND", Session: session},
		{Kind: domain.EventSignedIn}, // session-carrying kind without a session
	}
	for _, event := range events {
		w := postEvent(t, h, event)

		testutil.AssertStatusCode(t, w, http.StatusOK)
		body := testutil.DecodeJSON(t, w)
		testutil.AssertEqual(t, body["success"], true)

		if testutil.Cookie(w, cookie.AccessTokenName) != nil {
			t.Fatalf("event %+v must not produce cookies", event)
		}
	}
}

func TestCallback_UndecodableBody_StillSucceeds(t *testing.T) {
	auth, _, _ := newTestAuth(t)
	h := NewCallbackHandler(auth)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/auth/callback",
		bytes.NewReader([]byte("{not json")))
	h.Sync(w, r)

	testutil.AssertStatusCode(t, w, http.StatusOK)
}

// A SIGNED_IN event posted to the sync endpoint must yield cookies the
// route-protection gate accepts on the next request.
func TestCallback_ThenGateRecognizesSession(t *testing.T) {
	auth, _, session := newTestAuth(t)
	h := NewCallbackHandler(auth)

	synced := postEvent(t, h, domain.AuthEvent{Kind: domain.EventSignedIn, Session: session})
	testutil.AssertStatusCode(t, synced, http.StatusOK)

	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	for _, c := range synced.Result().Cookies() {
		r.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}

	middleware.Gate(auth)(next).ServeHTTP(w, r)

	testutil.AssertStatusCode(t, w, http.StatusOK)
	testutil.AssertTrue(t, called, "gate must admit the synced session")
}
