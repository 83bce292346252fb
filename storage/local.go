package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore keeps blobs in a flat directory on disk.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create file storage dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Put(ctx context.Context, name, srcPath string) error {
	dst := filepath.Join(s.dir, name)
	if err := os.Rename(srcPath, dst); err == nil {
		return nil
	}
	// Rename fails across filesystems; fall back to a copy.
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create blob: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("copy blob: %w", err)
	}
	os.Remove(srcPath)
	return nil
}

func (s *LocalStore) Get(ctx context.Context, name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.dir, name))
}
