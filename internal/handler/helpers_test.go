package handler

import (
	"testing"

	"folio/internal/domain"
	"folio/internal/service"
	"folio/internal/testutil"

	"golang.org/x/crypto/bcrypt"
)

const testPassword = "password123"

// newTestAuth builds an auth service over in-memory repositories with
// one signed-in user, returning the service, the user, and the session.
func newTestAuth(t *testing.T) (*service.AuthService, *domain.User, *domain.Session) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	testutil.AssertNoError(t, err)

	users := testutil.NewMockUserRepository()
	user := testutil.NewTestUser(testutil.WithPasswordHash(string(hash)))
	users.Users[user.ID] = user

	auth := service.NewAuthService(users, testutil.NewMockSessionRepository(), []byte("test-secret"))

	session, _, err := auth.SignIn(t.Context(), user.Email, testPassword)
	testutil.AssertNoError(t, err)
	return auth, user, session
}
