package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStore keeps blobs as flat files under a base directory. Object names
// are random; the original filename only contributes its extension.
type LocalStore struct {
	baseDir string
}

// NewLocalStore ensures the base directory exists and returns the store.
func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

// Save writes r to a new file. The file is synced before returning so a
// metadata record never references bytes that are not durable. On any
// failure the partial file is removed.
func (s *LocalStore) Save(ctx context.Context, r io.Reader, originalName string) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	name := uuid.NewString() + filepath.Ext(originalName)
	path := filepath.Join(s.baseDir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("create blob: %w", err)
	}

	size, err := io.Copy(f, r)
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("write blob: %w", err)
	}
	return path, size, nil
}

// Open returns a reader over the stored blob.
func (s *LocalStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrBlobNotFound
		}
		return nil, err
	}
	return f, nil
}

// Remove deletes the stored blob.
func (s *LocalStore) Remove(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrBlobNotFound
		}
		return err
	}
	return nil
}
