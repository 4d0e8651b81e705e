package service

import (
	"context"
	"testing"
	"time"

	"folio/internal/domain"
	"folio/internal/testutil"

	"golang.org/x/crypto/bcrypt"
)

var testSignKey = []byte("test-signing-key")

func newTestAuthService(t *testing.T, password string) (*AuthService, *testutil.MockUserRepository, *testutil.MockSessionRepository, *domain.User) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	users := testutil.NewMockUserRepository()
	user := testutil.NewTestUser(
		testutil.WithEmail("admin@example.com"),
		testutil.WithPasswordHash(string(hash)),
	)
	users.Users[user.ID] = user

	sessions := testutil.NewMockSessionRepository()
	return NewAuthService(users, sessions, testSignKey), users, sessions, user
}

func TestAuthService_SignIn_Success(t *testing.T) {
	svc, _, sessions, want := newTestAuthService(t, "password123")

	session, user, err := svc.SignIn(context.Background(), "admin@example.com", "password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.ID != want.ID {
		t.Errorf("expected user %q, got %q", want.ID, user.ID)
	}
	if session.AccessToken == "" || session.RefreshToken == "" {
		t.Error("expected a full token bundle")
	}
	if !session.ExpiresAt.After(time.Now()) {
		t.Error("expected a future expiry")
	}
	if _, ok := sessions.Records[session.RefreshToken]; !ok {
		t.Error("expected refresh token record to be persisted")
	}
	if session.Email != "admin@example.com" {
		t.Errorf("expected session email, got %q", session.Email)
	}
}

func TestAuthService_SignIn_BadCredentials(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t, "password123")

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong_password", "admin@example.com", "wrong"},
		{"unknown_email", "nobody@example.com", "password123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.SignIn(context.Background(), tt.email, tt.password)
			testutil.AssertErrorIs(t, err, domain.ErrInvalidCredentials)
		})
	}
}

func TestAuthService_SessionFromTokens_ValidAccess(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t, "password123")

	issued, _, err := svc.SignIn(context.Background(), "admin@example.com", "password123")
	testutil.AssertNoError(t, err)

	session, refreshed, err := svc.SessionFromTokens(context.Background(), issued.AccessToken, issued.RefreshToken)
	testutil.AssertNoError(t, err)
	testutil.AssertFalse(t, refreshed, "valid access token should not trigger rotation")
	testutil.AssertEqual(t, session.UserID, issued.UserID)
	testutil.AssertEqual(t, session.Email, "admin@example.com")
}

func TestAuthService_SessionFromTokens_RefreshFallback(t *testing.T) {
	svc, _, sessions, _ := newTestAuthService(t, "password123")
	// Expire the access token immediately so derivation must use the
	// refresh token.
	svc.accessTTL = -time.Minute

	issued, _, err := svc.SignIn(context.Background(), "admin@example.com", "password123")
	testutil.AssertNoError(t, err)

	svc.accessTTL = time.Hour
	session, refreshed, err := svc.SessionFromTokens(context.Background(), issued.AccessToken, issued.RefreshToken)
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, refreshed, "expired access token should rotate via refresh token")

	if session.RefreshToken == issued.RefreshToken {
		t.Error("refresh token should rotate")
	}
	if _, ok := sessions.Records[issued.RefreshToken]; ok {
		t.Error("old refresh token should be invalidated")
	}
	if _, ok := sessions.Records[session.RefreshToken]; !ok {
		t.Error("new refresh token should be persisted")
	}

	// The stale pair now derives nothing.
	_, _, err = svc.SessionFromTokens(context.Background(), "", issued.RefreshToken)
	testutil.AssertErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestAuthService_SessionFromTokens_NoTokens(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t, "password123")

	_, _, err := svc.SessionFromTokens(context.Background(), "", "")
	testutil.AssertErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestAuthService_SessionFromTokens_GarbageTokens(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t, "password123")

	_, _, err := svc.SessionFromTokens(context.Background(), "not-a-jwt", "not-a-refresh-token")
	testutil.AssertErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestAuthService_SignOut(t *testing.T) {
	svc, _, sessions, _ := newTestAuthService(t, "password123")

	issued, _, err := svc.SignIn(context.Background(), "admin@example.com", "password123")
	testutil.AssertNoError(t, err)

	testutil.AssertNoError(t, svc.SignOut(context.Background(), issued.RefreshToken))
	if _, ok := sessions.Records[issued.RefreshToken]; ok {
		t.Error("expected session record to be removed")
	}

	// Idempotent: a second sign-out and an empty token are both no-ops.
	testutil.AssertNoError(t, svc.SignOut(context.Background(), issued.RefreshToken))
	testutil.AssertNoError(t, svc.SignOut(context.Background(), ""))
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t, "password123")

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"bad_email", "not-an-email", "password123"},
		{"short_password", "new@example.com", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.email, tt.password)
			testutil.AssertErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}
