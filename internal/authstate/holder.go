// Package authstate holds the client side of a signed-in session: one
// Holder per running client, tracking who is logged in, brokering
// sign-in and sign-out, and mirroring every transition to the server's
// session sync endpoint so cookie-backed requests agree with it.
package authstate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"folio/internal/domain"
)

// Provider is the auth backend the holder delegates to. The HTTP API
// client implements it; tests substitute fakes.
type Provider interface {
	// SignIn verifies credentials and returns the new session and the
	// identity behind it. The returned error message is shown to the
	// user unmodified.
	SignIn(ctx context.Context, email, password string) (*domain.Session, *domain.User, error)

	// SignOut invalidates the provider-side session.
	SignOut(ctx context.Context) error

	// CurrentSession resolves whatever session the provider already
	// holds, or ErrSessionNotFound.
	CurrentSession(ctx context.Context) (*domain.Session, *domain.User, error)
}

// State is a snapshot of the holder, safe to use after the holder moves
// on.
type State struct {
	Session *domain.Session
	User    *domain.User

	// Loading is true until the initial session check resolves, so
	// consumers can avoid flashing a signed-out view at startup.
	Loading bool
}

// SignedIn reports whether the snapshot carries a live session.
func (s State) SignedIn() bool {
	return s.Session != nil && !s.Session.Expired()
}

// Holder is the single source of truth for auth state on the client.
// All transitions go through it; each one is forwarded to the session
// sync endpoint by a single background worker, so events arrive in the
// order the transitions happened without blocking the caller.
type Holder struct {
	provider Provider
	syncURL  string
	client   *http.Client
	logger   *slog.Logger

	// navigate is invoked after sign-out to send the user to the
	// public landing page.
	navigate func(path string)

	mu        sync.RWMutex
	state     State
	listeners []func(State)

	events chan domain.AuthEvent
	done   chan struct{}
}

// Option configures a Holder.
type Option func(*Holder)

// WithHTTPClient overrides the client used for sync POSTs.
func WithHTTPClient(c *http.Client) Option {
	return func(h *Holder) { h.client = c }
}

// WithNavigate sets the navigation callback fired on sign-out.
func WithNavigate(fn func(path string)) Option {
	return func(h *Holder) { h.navigate = fn }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Holder) { h.logger = l }
}

// New creates a Holder and starts its sync worker. Call Start to run
// the initial session check and Close to drain pending emissions.
func New(provider Provider, syncURL string, opts ...Option) *Holder {
	h := &Holder{
		provider: provider,
		syncURL:  syncURL,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   slog.Default(),
		navigate: func(string) {},
		state:    State{Loading: true},
		events:   make(chan domain.AuthEvent, 16),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	go h.syncLoop()
	return h
}

// Start resolves the initial session. A provider failure here means
// "not signed in", never a startup error. The loading flag drops once
// the check resolves, whatever the outcome.
func (h *Holder) Start(ctx context.Context) {
	session, user, err := h.provider.CurrentSession(ctx)
	if err != nil {
		h.logger.Debug("no existing session", "error", err.Error())
		session, user = nil, nil
	}

	h.setState(State{Session: session, User: user, Loading: false})

	if session != nil {
		h.emit(domain.AuthEvent{Kind: domain.EventSignedIn, Session: session})
	}
}

// SignIn authenticates and adopts the resulting session. The provider's
// error is returned verbatim so callers can surface its message.
func (h *Holder) SignIn(ctx context.Context, email, password string) error {
	session, user, err := h.provider.SignIn(ctx, email, password)
	if err != nil {
		return err
	}

	h.setState(State{Session: session, User: user})
	h.emit(domain.AuthEvent{Kind: domain.EventSignedIn, Session: session})
	return nil
}

// SignOut clears held state and navigates to the landing page. The
// provider invalidation may fail; local state is cleared regardless,
// because local state must never outlive a session the provider may
// already have dropped.
func (h *Holder) SignOut(ctx context.Context) {
	if err := h.provider.SignOut(ctx); err != nil {
		h.logger.Warn("sign-out invalidation failed", "error", err.Error())
	}

	h.setState(State{})
	h.emit(domain.AuthEvent{Kind: domain.EventSignedOut})
	h.navigate("/")
}

// Refresh adopts a rotated session, for callers that refresh tokens
// out-of-band.
func (h *Holder) Refresh(session *domain.Session, user *domain.User) {
	h.setState(State{Session: session, User: user})
	h.emit(domain.AuthEvent{Kind: domain.EventTokenRefreshed, Session: session})
}

// Current returns a snapshot of the held state.
func (h *Holder) Current() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// Subscribe registers a callback invoked on every state change. The
// callback runs on the mutating goroutine and must not call back into
// the holder.
func (h *Holder) Subscribe(fn func(State)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}

// Close stops the sync worker after draining pending emissions. No
// transition may be made on the holder after Close.
func (h *Holder) Close() {
	close(h.events)
	<-h.done
}

func (h *Holder) setState(s State) {
	h.mu.Lock()
	h.state = s
	listeners := make([]func(State), len(h.listeners))
	copy(listeners, h.listeners)
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(s)
	}
}

// emit queues an auth event for the sync worker. Fire-and-forget: the
// UI state is already updated by the time the POST happens, and a sync
// failure is logged, never retried, never surfaced. Events go through
// one worker so a SIGNED_OUT can never overtake the SIGNED_IN that
// preceded it; if the queue is ever full the event is dropped rather
// than blocking a transition.
func (h *Holder) emit(event domain.AuthEvent) {
	if h.syncURL == "" {
		return
	}

	select {
	case h.events <- event:
	default:
		h.logger.Warn("auth sync queue full, dropping event",
			"event", string(event.Kind))
	}
}

func (h *Holder) syncLoop() {
	defer close(h.done)
	for event := range h.events {
		if err := h.postEvent(event); err != nil {
			h.logger.Warn("auth sync emission failed",
				"event", string(event.Kind), "error", err.Error())
		}
	}
}

func (h *Holder) postEvent(event domain.AuthEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode auth event: %w", err)
	}

	resp, err := h.client.Post(h.syncURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to post auth event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sync endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
