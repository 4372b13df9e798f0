package adapter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/storage/port"
)

// LocalDiskStore satisfies port.BlobStore on the local filesystem. It stands
// in for the managed object store in development and tests; URLs are rooted at
// /uploads and served statically.
type LocalDiskStore struct {
	dir string
}

// NewLocalDiskStoreFromEnv constructs a store rooted at UPLOAD_DIR, falling
// back to ./uploads when unset.
func NewLocalDiskStoreFromEnv() (*LocalDiskStore, error) {
	dir := strings.TrimSpace(os.Getenv("UPLOAD_DIR"))
	if dir == "" {
		dir = "uploads"
	}
	return NewLocalDiskStore(dir)
}

func NewLocalDiskStore(dir string) (*LocalDiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create upload dir: %w", err)
	}
	return &LocalDiskStore{dir: dir}, nil
}

var _ port.BlobStore = (*LocalDiskStore)(nil)

// Dir returns the root directory blobs are written to, for static serving.
func (s *LocalDiskStore) Dir() string {
	return s.dir
}

func (s *LocalDiskStore) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := uuid.NewString() + "_" + sanitize(filename)
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("storage: create: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("storage: write: %w", err)
	}
	return "/uploads/" + name, nil
}

func (s *LocalDiskStore) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := path.Base(url)
	if name == "." || name == "/" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: delete: %w", err)
	}
	return nil
}

// sanitize strips path separators so a client-supplied filename cannot escape
// the upload directory.
func sanitize(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		return "file"
	}
	return base
}
