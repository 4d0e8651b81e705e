package service

import (
	"context"
	"errors"
	"time"

	"folio/internal/domain"
)

// ErrMissingFields is surfaced verbatim as the 400 body for post writes.
var ErrMissingFields = errors.New("title, slug, and content are required")

// PostInput carries the writable fields of a post.
type PostInput struct {
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content"`
	Excerpt       string     `json:"excerpt"`
	FeaturedImage *string    `json:"featured_image"`
	PublishedAt   *time.Time `json:"published_at"`

	// Published defaults to true when omitted; posts go live on create
	// unless the caller explicitly asks for a draft.
	Published *bool `json:"published"`
}

func (in PostInput) published() bool {
	return in.Published == nil || *in.Published
}

// PostService validates post writes and forwards them to the table store.
type PostService struct {
	posts domain.PostRepository
}

// NewPostService creates a new post service
func NewPostService(posts domain.PostRepository) *PostService {
	return &PostService{posts: posts}
}

// Create validates required fields and stores a new post. Unless the
// input asks for a draft, posts go live immediately with published_at
// set to the request time.
func (s *PostService) Create(ctx context.Context, in PostInput) (*domain.Post, error) {
	if in.Title == "" || in.Slug == "" || in.Content == "" {
		return nil, ErrMissingFields
	}

	post := &domain.Post{
		Title:         in.Title,
		Slug:          Slugify(in.Slug),
		Content:       in.Content,
		Excerpt:       in.Excerpt,
		FeaturedImage: in.FeaturedImage,
		Published:     in.published(),
	}
	if post.Published {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Update validates required fields and replaces a post. A caller-supplied
// published_at is preserved; otherwise it resets to now.
func (s *PostService) Update(ctx context.Context, id string, in PostInput) (*domain.Post, error) {
	if in.Title == "" || in.Slug == "" || in.Content == "" {
		return nil, ErrMissingFields
	}

	published := in.published()
	publishedAt := in.PublishedAt
	if published && publishedAt == nil {
		now := time.Now()
		publishedAt = &now
	}
	if !published {
		publishedAt = nil
	}

	post := &domain.Post{
		ID:            id,
		Title:         in.Title,
		Slug:          Slugify(in.Slug),
		Content:       in.Content,
		Excerpt:       in.Excerpt,
		FeaturedImage: in.FeaturedImage,
		Published:     published,
		PublishedAt:   publishedAt,
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListPublished returns published posts, newest first
func (s *PostService) ListPublished(ctx context.Context) ([]*domain.Post, error) {
	return s.posts.ListPublished(ctx)
}

// GetPublishedBySlug returns a single published post
func (s *PostService) GetPublishedBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	return s.posts.GetBySlug(ctx, slug)
}

// ListAll returns every post for the admin surface
func (s *PostService) ListAll(ctx context.Context) ([]*domain.Post, error) {
	return s.posts.ListAll(ctx)
}

// GetByID returns a post regardless of published state
func (s *PostService) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	return s.posts.GetByID(ctx, id)
}

// Delete removes a post
func (s *PostService) Delete(ctx context.Context, id string) error {
	return s.posts.Delete(ctx, id)
}
