package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"folio/internal/cookie"
	"folio/internal/domain"
)

// authResponse mirrors the server's auth payload shape.
type authResponse struct {
	Success bool `json:"success"`
	User    struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	Session *domain.Session `json:"session"`
}

func (r authResponse) user() *domain.User {
	return &domain.User{ID: r.User.ID, Email: r.User.Email}
}

// SignIn authenticates with the server. On success the session cookies
// land in the jar and the token bundle is returned for in-memory state.
func (c *Client) SignIn(ctx context.Context, email, password string) (*domain.Session, *domain.User, error) {
	var resp authResponse
	err := c.executeRequest(ctx, outboundRequest{
		method: http.MethodPost,
		path:   "/api/auth/login",
		reqBodyObj: map[string]string{
			"email":    email,
			"password": password,
		},
		respObj: &resp,
	})
	if err != nil {
		return nil, nil, err
	}
	return resp.Session, resp.user(), nil
}

// SignOut invalidates the server session and drops the cookies the
// server expires.
func (c *Client) SignOut(ctx context.Context) error {
	return c.executeRequest(ctx, outboundRequest{
		method: http.MethodPost,
		path:   "/api/auth/logout",
	})
}

// CurrentSession asks the server who the jarred cookies belong to.
func (c *Client) CurrentSession(ctx context.Context) (*domain.Session, *domain.User, error) {
	var resp authResponse
	err := c.executeRequest(ctx, outboundRequest{
		method:  http.MethodGet,
		path:    "/api/auth/me",
		respObj: &resp,
	})
	if err != nil {
		return nil, nil, err
	}
	return resp.Session, resp.user(), nil
}

// AdoptSession seeds the cookie jar with a previously saved session, so
// a new process can resume where an earlier sign-in left off.
func (c *Client) AdoptSession(session *domain.Session) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.baseURL, err)
	}

	c.httpClient.Jar.SetCookies(u, []*http.Cookie{
		{Name: cookie.AccessTokenName, Value: session.AccessToken, Path: "/"},
		{Name: cookie.RefreshTokenName, Value: session.RefreshToken, Path: "/"},
	})
	return nil
}
