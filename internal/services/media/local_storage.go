package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot marks a file key that resolves outside the storage root.
var ErrOutsideRoot = errors.New("file key resolves outside storage root")

type LocalStorage struct {
	root string
}

func NewLocalStorage(root string) (*LocalStorage, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("storage root is empty")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}

	return &LocalStorage{root: abs}, nil
}

func (l *LocalStorage) Save(_ context.Context, fileKey string, data []byte, _ string) error {
	abs, err := l.ResolvePath(fileKey)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("create object directory: %w", err)
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return fmt.Errorf("write object: %w", err)
	}
	return nil
}

func (l *LocalStorage) Remove(_ context.Context, fileKey string) error {
	abs, err := l.ResolvePath(fileKey)
	if err != nil {
		return err
	}

	if err := os.Remove(abs); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}

// ResolvePath maps a file key to an absolute path under the storage root.
// Keys that escape the root via ".." or absolute segments are rejected.
func (l *LocalStorage) ResolvePath(fileKey string) (string, error) {
	if strings.TrimSpace(fileKey) == "" {
		return "", ErrOutsideRoot
	}

	abs := filepath.Join(l.root, filepath.FromSlash(fileKey))
	if abs != l.root && !strings.HasPrefix(abs, l.root+string(filepath.Separator)) {
		return "", ErrOutsideRoot
	}
	if abs == l.root {
		return "", ErrOutsideRoot
	}
	return abs, nil
}
