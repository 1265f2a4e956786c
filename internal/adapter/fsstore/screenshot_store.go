// Package fsstore persists screenshot images on the local filesystem.
package fsstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ScreenshotStoreImpl writes PNG images into a single flat directory.
type ScreenshotStoreImpl struct {
	dir string
}

// NewScreenshotStore creates the directory if needed and returns the store.
func NewScreenshotStore(dir string) (*ScreenshotStoreImpl, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create screenshots dir: %w", err)
	}
	return &ScreenshotStoreImpl{dir: dir}, nil
}

// Dir returns the backing directory, used to mount the static file route.
func (s *ScreenshotStoreImpl) Dir() string {
	return s.dir
}

func (s *ScreenshotStoreImpl) Save(ctx context.Context, name string, png []byte) error {
	if strings.ContainsAny(name, `/\`) || name == "" {
		return fmt.Errorf("invalid screenshot name %q", name)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), png, 0o644); err != nil {
		return fmt.Errorf("write screenshot %s: %w", name, err)
	}
	return nil
}
