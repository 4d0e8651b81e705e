// Package client is the HTTP client for the folio API. The admin CLI
// drives it, and it backs the authstate Provider so the holder never
// touches the wire directly.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// APIError is a decoded error body from the server.
type APIError struct {
	StatusCode int
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// Client talks to a folio server. Session cookies issued by the server
// live in the client's cookie jar, so every call after a sign-in is
// authenticated automatically.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for the server at baseURL.
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
	}, nil
}

// BaseURL returns the server address this client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// outboundRequest describes one API call.
type outboundRequest struct {
	method      string
	path        string
	reqBodyObj  interface{}
	contentType string
	rawBody     io.Reader
	successCode int
	respObj     interface{}
}

// executeRequest submits the request and decodes a successful response
// into respObj. Any other status decodes the server's error body into
// an APIError.
func (c *Client) executeRequest(ctx context.Context, req outboundRequest) error {
	var bodyReader io.Reader
	contentType := req.contentType

	switch {
	case req.rawBody != nil:
		bodyReader = req.rawBody
	case req.reqBodyObj != nil:
		encoded, err := json.Marshal(req.reqBodyObj)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	r, err := http.NewRequestWithContext(
		ctx, req.method, c.baseURL+req.path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request %s %s: %w",
			req.method, req.path, err)
	}
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(r)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	wantCode := req.successCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	if resp.StatusCode != wantCode {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		// A body that fails to decode still yields a status-only error.
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}

	if req.respObj != nil {
		if err := json.NewDecoder(resp.Body).Decode(req.respObj); err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}
	}
	return nil
}
