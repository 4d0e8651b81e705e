package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"folio/internal/domain"
	"folio/internal/observability"
)

const postColumns = `id, title, slug, content, excerpt, featured_image, published, created_at, updated_at, published_at`

// PostRepository implements domain.PostRepository for PostgreSQL
type PostRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create inserts a new post
func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	defer observeQuery("insert", "posts")()

	query := `
		INSERT INTO posts (title, slug, content, excerpt, featured_image, published, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		post.Title,
		post.Slug,
		post.Content,
		post.Excerpt,
		post.FeaturedImage,
		post.Published,
		post.PublishedAt,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)

	if err != nil {
		if IsUniqueViolation(err, "posts_slug_key") {
			return domain.ErrSlugExists
		}
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetByID retrieves a post by ID regardless of published state
func (r *PostRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	defer observeQuery("select", "posts")()

	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetBySlug retrieves a published post by slug
func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	defer observeQuery("select", "posts")()

	query := `SELECT ` + postColumns + ` FROM posts WHERE slug = $1 AND published = TRUE`
	return r.scanOne(r.db.QueryRowContext(ctx, query, slug))
}

// ListPublished returns published posts, newest first
func (r *PostRepository) ListPublished(ctx context.Context) ([]*domain.Post, error) {
	defer observeQuery("select", "posts")()

	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE published = TRUE
		ORDER BY published_at DESC NULLS LAST, created_at DESC
	`
	return r.list(ctx, query)
}

// ListAll returns every post for the admin surface, newest first
func (r *PostRepository) ListAll(ctx context.Context) ([]*domain.Post, error) {
	defer observeQuery("select", "posts")()

	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC`
	return r.list(ctx, query)
}

// Update replaces the mutable columns of a post
func (r *PostRepository) Update(ctx context.Context, post *domain.Post) error {
	defer observeQuery("update", "posts")()

	query := `
		UPDATE posts
		SET title = $2, slug = $3, content = $4, excerpt = $5,
		    featured_image = $6, published = $7, published_at = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		post.ID,
		post.Title,
		post.Slug,
		post.Content,
		post.Excerpt,
		post.FeaturedImage,
		post.Published,
		post.PublishedAt,
	).Scan(&post.CreatedAt, &post.UpdatedAt)

	if err == sql.ErrNoRows {
		return domain.ErrPostNotFound
	}
	if err != nil {
		if IsUniqueViolation(err, "posts_slug_key") {
			return domain.ErrSlugExists
		}
		return fmt.Errorf("failed to update post: %w", err)
	}
	return nil
}

// Delete removes a post by ID
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	defer observeQuery("delete", "posts")()

	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*domain.Post, 0)
	for rows.Next() {
		post := &domain.Post{}
		if err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Slug,
			&post.Content,
			&post.Excerpt,
			&post.FeaturedImage,
			&post.Published,
			&post.CreatedAt,
			&post.UpdatedAt,
			&post.PublishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *PostRepository) scanOne(row *sql.Row) (*domain.Post, error) {
	post := &domain.Post{}
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Slug,
		&post.Content,
		&post.Excerpt,
		&post.FeaturedImage,
		&post.Published,
		&post.CreatedAt,
		&post.UpdatedAt,
		&post.PublishedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// observeQuery records query latency under the given labels.
func observeQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		observability.DBQueryDuration.WithLabelValues(operation, table).
			Observe(time.Since(start).Seconds())
	}
}
