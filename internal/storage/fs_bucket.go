package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FSBucket is a filesystem-backed Bucket. Objects live under
// {root}/{bucket}/ and are served publicly at {siteURL}/uploads/{bucket}/.
// The bucket directory must be provisioned out of band, mirroring hosted
// object stores where a missing bucket is a configuration error rather
// than something to create on demand.
type FSBucket struct {
	root    string
	bucket  string
	siteURL string
}

// NewFSBucket creates a bucket handle. The bucket directory is checked
// on each Put, not here, so a handle can outlive a bucket that is
// created or dropped while the server runs.
func NewFSBucket(root, bucket, siteURL string) *FSBucket {
	return &FSBucket{
		root:    root,
		bucket:  bucket,
		siteURL: strings.TrimRight(siteURL, "/"),
	}
}

// Put writes an object and returns its public URL. Parent directories
// inside the bucket (the posts/ prefix) are created as needed; a missing
// bucket directory is ErrBucketNotFound.
func (b *FSBucket) Put(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	info, err := os.Stat(filepath.Join(b.root, b.bucket))
	if os.IsNotExist(err) || (err == nil && !info.IsDir()) {
		return "", fmt.Errorf("bucket %q: %w", b.bucket, ErrBucketNotFound)
	}
	if err != nil {
		return "", err
	}

	path := filepath.Join(b.root, b.bucket, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create object directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create object: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write object: %w", err)
	}

	return b.PublicURL(key), nil
}

// PublicURL resolves the public URL for a key.
func (b *FSBucket) PublicURL(key string) string {
	return fmt.Sprintf("%s/uploads/%s/%s", b.siteURL, b.bucket, key)
}

// Name returns the bucket identifier.
func (b *FSBucket) Name() string {
	return b.bucket
}

// Dir returns the directory to mount as the public /uploads file server.
func (b *FSBucket) Dir() string {
	return filepath.Join(b.root, b.bucket)
}
