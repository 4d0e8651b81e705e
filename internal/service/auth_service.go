package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"folio/internal/domain"
	"folio/internal/observability"
	"folio/internal/security"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const (
	defaultAccessTTL  = 1 * time.Hour
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// AuthService is the auth provider: it verifies credentials, issues session
// token bundles, and re-derives sessions from presented tokens. It is the
// sole arbiter of session validity.
type AuthService struct {
	users      domain.UserRepository
	sessions   domain.SessionRepository
	signKey    []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewAuthService constructs an AuthService signing access tokens with signKey.
func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository, signKey []byte) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		signKey:    signKey,
		accessTTL:  defaultAccessTTL,
		refreshTTL: defaultRefreshTTL,
	}
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Register creates a user account. The site has a single administrator, so
// this is only reachable from startup seeding and operator tooling.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if !emailRegex.MatchString(email) || len(email) > 255 {
		return nil, domain.ErrInvalidInput
	}
	if len(password) < 8 || len(password) > 100 {
		return nil, domain.ErrInvalidInput
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// SignIn verifies credentials and issues a fresh session. The error for a
// rejected credential pair is always ErrInvalidCredentials regardless of
// whether the account exists.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.Session, *domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(user.PasswordHash), []byte(password),
	); err != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	session, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return session, user, nil
}

// SignOut invalidates the refresh token record. Unknown tokens are not an
// error; sign-out is idempotent.
func (s *AuthService) SignOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.sessions.Delete(ctx, refreshToken)
}

// SessionFromTokens derives a session from a presented token pair. A valid
// access token wins; an expired or malformed one falls back to the refresh
// token, which rotates and yields a new bundle. The returned bool reports
// whether rotation happened, so callers can re-emit cookies. Any failure
// maps to ErrSessionNotFound: to the rest of the system there is no
// distinction between "no session" and "broken session".
func (s *AuthService) SessionFromTokens(ctx context.Context, accessToken, refreshToken string) (*domain.Session, bool, error) {
	if accessToken != "" {
		claims, err := s.parseAccessToken(accessToken)
		if err == nil {
			return &domain.Session{
				AccessToken:  accessToken,
				RefreshToken: refreshToken,
				ExpiresAt:    claims.ExpiresAt.Time,
				UserID:       claims.Subject,
				Email:        claims.Email,
			}, false, nil
		}
	}

	if refreshToken == "" {
		return nil, false, domain.ErrSessionNotFound
	}

	session, err := s.refresh(ctx, refreshToken)
	if err != nil {
		return nil, false, domain.ErrSessionNotFound
	}

	observability.SessionRefreshesTotal.Inc()
	return session, true, nil
}

// UserFromSession derives the minimal identity record from a session.
func (s *AuthService) UserFromSession(ctx context.Context, session *domain.Session) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// refresh rotates the refresh token and issues a new access token.
func (s *AuthService) refresh(ctx context.Context, refreshToken string) (*domain.Session, error) {
	record, err := s.sessions.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, record.UserID)
	if err != nil {
		return nil, err
	}

	newToken, err := security.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Rotate(ctx, refreshToken, newToken, time.Now().Add(s.refreshTTL)); err != nil {
		return nil, err
	}

	access, expiresAt, err := s.issueAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &domain.Session{
		AccessToken:  access,
		RefreshToken: newToken,
		ExpiresAt:    expiresAt,
		UserID:       user.ID,
		Email:        user.Email,
	}, nil
}

func (s *AuthService) issueSession(ctx context.Context, user *domain.User) (*domain.Session, error) {
	access, expiresAt, err := s.issueAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := security.NewRefreshToken()
	if err != nil {
		return nil, err
	}

	record := &domain.SessionRecord{
		UserID:       user.ID,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(s.refreshTTL),
	}
	if err := s.sessions.Create(ctx, record); err != nil {
		return nil, err
	}

	return &domain.Session{
		AccessToken:  access,
		RefreshToken: record.RefreshToken,
		ExpiresAt:    expiresAt,
		UserID:       user.ID,
		Email:        user.Email,
	}, nil
}

// issueAccessToken creates a signed HS256 JWT for the given user.
func (s *AuthService) issueAccessToken(user *domain.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.accessTTL)
	claims := sessionClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *AuthService) parseAccessToken(token string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.signKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, domain.ErrSessionExpired
	}
	return claims, nil
}
