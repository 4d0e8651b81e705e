package client

import (
	"context"
	"net/http"

	"folio/internal/domain"
	"folio/internal/service"
)

// ListPublished fetches the public post feed, newest first.
func (c *Client) ListPublished(ctx context.Context) ([]*domain.Post, error) {
	var posts []*domain.Post
	err := c.executeRequest(ctx, outboundRequest{
		method:  http.MethodGet,
		path:    "/api/posts",
		respObj: &posts,
	})
	return posts, err
}

// GetBySlug fetches one published post.
func (c *Client) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	var post domain.Post
	err := c.executeRequest(ctx, outboundRequest{
		method:  http.MethodGet,
		path:    "/api/posts/slug/" + slug,
		respObj: &post,
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListAll fetches every post including drafts. Requires a session.
func (c *Client) ListAll(ctx context.Context) ([]*domain.Post, error) {
	var posts []*domain.Post
	err := c.executeRequest(ctx, outboundRequest{
		method:  http.MethodGet,
		path:    "/api/admin/posts",
		respObj: &posts,
	})
	return posts, err
}

// CreatePost creates a post. Requires a session.
func (c *Client) CreatePost(ctx context.Context, in service.PostInput) (*domain.Post, error) {
	var post domain.Post
	err := c.executeRequest(ctx, outboundRequest{
		method:      http.MethodPost,
		path:        "/api/admin/posts",
		reqBodyObj:  in,
		successCode: http.StatusCreated,
		respObj:     &post,
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost replaces a post. Requires a session.
func (c *Client) UpdatePost(ctx context.Context, id string, in service.PostInput) (*domain.Post, error) {
	var post domain.Post
	err := c.executeRequest(ctx, outboundRequest{
		method:     http.MethodPut,
		path:       "/api/admin/posts/" + id,
		reqBodyObj: in,
		respObj:    &post,
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes a post. Requires a session.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.executeRequest(ctx, outboundRequest{
		method: http.MethodDelete,
		path:   "/api/admin/posts/" + id,
	})
}
