package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestFSBucket_Put_MissingBucket(t *testing.T) {
	root := t.TempDir()

	bucket := NewFSBucket(root, "post-images", "http://localhost:8080")
	_, err := bucket.Put(context.Background(), "posts/1-a.png", "image/png",
		strings.NewReader("x"))
	if !errors.Is(err, ErrBucketNotFound) {
		t.Fatalf("expected ErrBucketNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "post-images") {
		t.Errorf("error should name the bucket: %v", err)
	}
}

func TestFSBucket_Put(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "post-images"), 0o755); err != nil {
		t.Fatal(err)
	}

	bucket := NewFSBucket(root, "post-images", "https://example.com/")

	url, err := bucket.Put(context.Background(), "posts/123-abc.png", "image/png",
		strings.NewReader("fake image bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "https://example.com/uploads/post-images/posts/123-abc.png"
	if url != want {
		t.Errorf("public URL = %q, want %q", url, want)
	}

	data, err := os.ReadFile(filepath.Join(root, "post-images", "posts", "123-abc.png"))
	if err != nil {
		t.Fatalf("object not written: %v", err)
	}
	if string(data) != "fake image bytes" {
		t.Errorf("object content mismatch: %q", data)
	}
}

func TestObjectKey(t *testing.T) {
	keyPattern := regexp.MustCompile(`^posts/\d+-[a-z0-9]+\.[a-z0-9]+$`)

	tests := []struct {
		name        string
		filename    string
		contentType string
		wantExt     string
	}{
		{"extension_from_name", "photo.JPG", "image/png", ".jpg"},
		{"extension_from_type", "photo", "image/webp", ".webp"},
		{"default_extension", "photo", "", ".png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := ObjectKey(tt.filename, tt.contentType)
			if !keyPattern.MatchString(key) {
				t.Errorf("key %q does not match expected shape", key)
			}
			if !strings.HasSuffix(key, tt.wantExt) {
				t.Errorf("key %q should end with %q", key, tt.wantExt)
			}
		})
	}

	if ObjectKey("a.png", "image/png") == ObjectKey("a.png", "image/png") {
		t.Error("expected random suffixes to differ")
	}
}
