package domain

import "fmt"

// AuthEventKind tags an auth state transition observed by a client.
type AuthEventKind string

const (
	EventSignedIn       AuthEventKind = "SIGNED_IN"
	EventSignedOut      AuthEventKind = "SIGNED_OUT"
	EventTokenRefreshed AuthEventKind = "TOKEN_REFRESHED"
	EventUserUpdated    AuthEventKind = "USER_UPDATED"
)

// AuthEvent is a transient transition notification. A Session is carried
// only for kinds that establish or update a session; SIGNED_OUT carries
// none. AuthEvents are never persisted, they exist to drive the session
// sync endpoint.
type AuthEvent struct {
	Kind    AuthEventKind `json:"event"`
	Session *Session      `json:"session,omitempty"`
}

// Valid checks that the kind is known and the payload matches it.
func (e AuthEvent) Valid() error {
	switch e.Kind {
	case EventSignedIn, EventTokenRefreshed, EventUserUpdated:
		if e.Session == nil {
			return fmt.Errorf("event %s requires a session", e.Kind)
		}
		return nil
	case EventSignedOut:
		return nil
	default:
		return fmt.Errorf("unknown auth event %q", e.Kind)
	}
}

// CarriesSession reports whether this event kind establishes a session
// server-side.
func (e AuthEvent) CarriesSession() bool {
	switch e.Kind {
	case EventSignedIn, EventTokenRefreshed, EventUserUpdated:
		return e.Session != nil
	}
	return false
}
