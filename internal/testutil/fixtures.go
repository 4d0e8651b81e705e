package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"folio/internal/domain"
)

// Counter for generating unique IDs
var idCounter atomic.Int64

// nextID generates a unique ID for test fixtures
func nextID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, idCounter.Add(1))
}

// UserOptions allows customizing user fixture creation
type UserOptions struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// NewTestUser creates a test user with sensible defaults
func NewTestUser(opts ...func(*UserOptions)) *domain.User {
	o := &UserOptions{
		ID:           nextID("user"),
		PasswordHash: "$2a$10$test.hash.for.testing.purposes.only", // bcrypt hash placeholder
		CreatedAt:    time.Now(),
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.Email == "" {
		o.Email = o.ID + "@example.com"
	}

	return &domain.User{
		ID:           o.ID,
		Email:        o.Email,
		PasswordHash: o.PasswordHash,
		CreatedAt:    o.CreatedAt,
	}
}

// WithUserID sets the user ID
func WithUserID(id string) func(*UserOptions) {
	return func(o *UserOptions) {
		o.ID = id
	}
}

// WithEmail sets the email
func WithEmail(email string) func(*UserOptions) {
	return func(o *UserOptions) {
		o.Email = email
	}
}

// WithPasswordHash sets the password hash
func WithPasswordHash(hash string) func(*UserOptions) {
	return func(o *UserOptions) {
		o.PasswordHash = hash
	}
}

// SessionRecordOptions allows customizing session record fixture creation
type SessionRecordOptions struct {
	ID           string
	UserID       string
	RefreshToken string
	ExpiresAt    time.Time
}

// NewTestSessionRecord creates a persisted session record with sensible defaults
func NewTestSessionRecord(opts ...func(*SessionRecordOptions)) *domain.SessionRecord {
	o := &SessionRecordOptions{
		ID:           nextID("session"),
		UserID:       nextID("user"),
		RefreshToken: nextID("refresh"),
		ExpiresAt:    time.Now().Add(7 * 24 * time.Hour),
	}

	for _, opt := range opts {
		opt(o)
	}

	return &domain.SessionRecord{
		ID:           o.ID,
		UserID:       o.UserID,
		RefreshToken: o.RefreshToken,
		ExpiresAt:    o.ExpiresAt,
		CreatedAt:    time.Now(),
	}
}

// WithRefreshToken sets the refresh token
func WithRefreshToken(token string) func(*SessionRecordOptions) {
	return func(o *SessionRecordOptions) {
		o.RefreshToken = token
	}
}

// WithSessionUserID sets the owning user ID
func WithSessionUserID(userID string) func(*SessionRecordOptions) {
	return func(o *SessionRecordOptions) {
		o.UserID = userID
	}
}

// WithSessionExpiresAt sets the expiry
func WithSessionExpiresAt(t time.Time) func(*SessionRecordOptions) {
	return func(o *SessionRecordOptions) {
		o.ExpiresAt = t
	}
}

// PostOptions allows customizing post fixture creation
type PostOptions struct {
	ID          string
	Title       string
	Slug        string
	Content     string
	Excerpt     string
	Published   bool
	PublishedAt *time.Time
}

// NewTestPost creates a published test post with sensible defaults
func NewTestPost(opts ...func(*PostOptions)) *domain.Post {
	now := time.Now()
	o := &PostOptions{
		ID:          nextID("post"),
		Title:       "Test Post",
		Content:     "Some test content for the post body.",
		Published:   true,
		PublishedAt: &now,
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.Slug == "" {
		o.Slug = o.ID
	}

	return &domain.Post{
		ID:          o.ID,
		Title:       o.Title,
		Slug:        o.Slug,
		Content:     o.Content,
		Excerpt:     o.Excerpt,
		Published:   o.Published,
		CreatedAt:   now,
		UpdatedAt:   now,
		PublishedAt: o.PublishedAt,
	}
}

// WithPostID sets the post ID
func WithPostID(id string) func(*PostOptions) {
	return func(o *PostOptions) {
		o.ID = id
	}
}

// WithSlug sets the slug
func WithSlug(slug string) func(*PostOptions) {
	return func(o *PostOptions) {
		o.Slug = slug
	}
}

// WithTitle sets the title
func WithTitle(title string) func(*PostOptions) {
	return func(o *PostOptions) {
		o.Title = title
	}
}

// WithContent sets the content
func WithContent(content string) func(*PostOptions) {
	return func(o *PostOptions) {
		o.Content = content
	}
}

// Unpublished marks the post as a draft
func Unpublished() func(*PostOptions) {
	return func(o *PostOptions) {
		o.Published = false
		o.PublishedAt = nil
	}
}
