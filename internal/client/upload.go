package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// UploadImage sends a local file to the image upload endpoint and
// returns its public URL. Requires a session.
func (c *Client) UploadImage(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	var resp struct {
		URL string `json:"url"`
	}
	err = c.executeRequest(ctx, outboundRequest{
		method:      http.MethodPost,
		path:        "/api/admin/posts/upload",
		rawBody:     &buf,
		contentType: mw.FormDataContentType(),
		respObj:     &resp,
	})
	if err != nil {
		return "", err
	}
	return resp.URL, nil
}
