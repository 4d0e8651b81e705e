// Package storage provides the object-storage bucket that holds uploaded
// post images and hands out public URLs for them.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"
)

// ErrBucketNotFound indicates the configured bucket does not exist. The
// upload handler turns this into an actionable hint for the operator.
var ErrBucketNotFound = errors.New("bucket not found")

// Bucket stores objects under string keys and resolves public URLs.
type Bucket interface {
	// Put writes an object and returns its public URL.
	Put(ctx context.Context, key, contentType string, r io.Reader) (string, error)
	// PublicURL resolves the public URL for an existing key.
	PublicURL(key string) string
	// Name returns the bucket identifier, used in error messages.
	Name() string
}

const keyAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// ObjectKey builds an upload key in the posts/ prefix:
// posts/{timestamp}-{random-suffix}.{extension}.
func ObjectKey(filename, contentType string) string {
	ext := extensionFor(filename, contentType)

	suffix := make([]byte, 10)
	for i := range suffix {
		suffix[i] = keyAlphabet[rand.Intn(len(keyAlphabet))]
	}

	return fmt.Sprintf("posts/%d-%s.%s", time.Now().UnixMilli(), suffix, ext)
}

// extensionFor prefers the filename extension, falls back to the MIME
// subtype, then to png.
func extensionFor(filename, contentType string) string {
	if i := strings.LastIndex(filename, "."); i >= 0 && i < len(filename)-1 {
		return strings.ToLower(filename[i+1:])
	}
	if i := strings.LastIndex(contentType, "/"); i >= 0 && i < len(contentType)-1 {
		return strings.ToLower(contentType[i+1:])
	}
	return "png"
}
