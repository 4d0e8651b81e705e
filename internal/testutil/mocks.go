// Package testutil provides shared test utilities, mocks, and fixtures
// for testing the folio application.
package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"folio/internal/domain"
)

// Common test errors
var (
	ErrMockNotImplemented = errors.New("mock function not implemented")
	ErrMockStore          = errors.New("mock: store failure")
)

// MockUserRepository implements domain.UserRepository for testing
type MockUserRepository struct {
	mu sync.RWMutex

	// Function overrides - set these to customize behavior
	CreateFunc     func(ctx context.Context, user *domain.User) error
	GetByIDFunc    func(ctx context.Context, id string) (*domain.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*domain.User, error)

	// In-memory storage for simple tests
	Users map[string]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository with initialized maps
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.Users {
		if u.Email == user.Email {
			return domain.ErrEmailExists
		}
	}

	if user.ID == "" {
		user.ID = "user-" + user.Email
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	m.Users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if user, ok := m.Users[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.Users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// MockSessionRepository implements domain.SessionRepository for testing
type MockSessionRepository struct {
	mu sync.RWMutex

	CreateFunc            func(ctx context.Context, record *domain.SessionRecord) error
	GetByRefreshTokenFunc func(ctx context.Context, token string) (*domain.SessionRecord, error)
	RotateFunc            func(ctx context.Context, oldToken, newToken string, expiresAt time.Time) error
	DeleteFunc            func(ctx context.Context, token string) error
	DeleteExpiredFunc     func(ctx context.Context) (int64, error)

	// Records keyed by refresh token
	Records map[string]*domain.SessionRecord
}

// NewMockSessionRepository creates a new MockSessionRepository with initialized maps
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{
		Records: make(map[string]*domain.SessionRecord),
	}
}

func (m *MockSessionRepository) Create(ctx context.Context, record *domain.SessionRecord) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if record.ID == "" {
		record.ID = "session-" + record.RefreshToken
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	m.Records[record.RefreshToken] = record
	return nil
}

func (m *MockSessionRepository) GetByRefreshToken(ctx context.Context, token string) (*domain.SessionRecord, error) {
	if m.GetByRefreshTokenFunc != nil {
		return m.GetByRefreshTokenFunc(ctx, token)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.Records[token]
	if !ok || !record.ExpiresAt.After(time.Now()) {
		return nil, domain.ErrSessionNotFound
	}
	return record, nil
}

func (m *MockSessionRepository) Rotate(ctx context.Context, oldToken, newToken string, expiresAt time.Time) error {
	if m.RotateFunc != nil {
		return m.RotateFunc(ctx, oldToken, newToken, expiresAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.Records[oldToken]
	if !ok {
		return domain.ErrSessionNotFound
	}
	delete(m.Records, oldToken)
	record.RefreshToken = newToken
	record.ExpiresAt = expiresAt
	m.Records[newToken] = record
	return nil
}

func (m *MockSessionRepository) Delete(ctx context.Context, token string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.Records, token)
	return nil
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for token, record := range m.Records {
		if !record.ExpiresAt.After(time.Now()) {
			delete(m.Records, token)
			count++
		}
	}
	return count, nil
}

// MockPostRepository implements domain.PostRepository for testing
type MockPostRepository struct {
	mu sync.RWMutex

	CreateFunc        func(ctx context.Context, post *domain.Post) error
	GetByIDFunc       func(ctx context.Context, id string) (*domain.Post, error)
	GetBySlugFunc     func(ctx context.Context, slug string) (*domain.Post, error)
	ListPublishedFunc func(ctx context.Context) ([]*domain.Post, error)
	ListAllFunc       func(ctx context.Context) ([]*domain.Post, error)
	UpdateFunc        func(ctx context.Context, post *domain.Post) error
	DeleteFunc        func(ctx context.Context, id string) error

	// Posts in insertion order
	Posts []*domain.Post
}

// NewMockPostRepository creates a new MockPostRepository
func NewMockPostRepository() *MockPostRepository {
	return &MockPostRepository{}
}

func (m *MockPostRepository) Create(ctx context.Context, post *domain.Post) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, post)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.Posts {
		if p.Slug == post.Slug {
			return domain.ErrSlugExists
		}
	}

	if post.ID == "" {
		post.ID = "post-" + post.Slug
	}
	now := time.Now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now
	m.Posts = append(m.Posts, post)
	return nil
}

func (m *MockPostRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.Posts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, domain.ErrPostNotFound
}

func (m *MockPostRepository) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	if m.GetBySlugFunc != nil {
		return m.GetBySlugFunc(ctx, slug)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.Posts {
		if p.Slug == slug && p.Published {
			return p, nil
		}
	}
	return nil, domain.ErrPostNotFound
}

func (m *MockPostRepository) ListPublished(ctx context.Context) ([]*domain.Post, error) {
	if m.ListPublishedFunc != nil {
		return m.ListPublishedFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	published := make([]*domain.Post, 0)
	for i := len(m.Posts) - 1; i >= 0; i-- {
		if m.Posts[i].Published {
			published = append(published, m.Posts[i])
		}
	}
	return published, nil
}

func (m *MockPostRepository) ListAll(ctx context.Context) ([]*domain.Post, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]*domain.Post, 0, len(m.Posts))
	for i := len(m.Posts) - 1; i >= 0; i-- {
		all = append(all, m.Posts[i])
	}
	return all, nil
}

func (m *MockPostRepository) Update(ctx context.Context, post *domain.Post) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, post)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, p := range m.Posts {
		if p.ID == post.ID {
			post.CreatedAt = p.CreatedAt
			post.UpdatedAt = time.Now()
			m.Posts[i] = post
			return nil
		}
	}
	return domain.ErrPostNotFound
}

func (m *MockPostRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, p := range m.Posts {
		if p.ID == id {
			m.Posts = append(m.Posts[:i], m.Posts[i+1:]...)
			return nil
		}
	}
	return domain.ErrPostNotFound
}
