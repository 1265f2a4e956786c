package repository

import "context"

// ScreenshotStore persists screenshot images under opaque names. The
// name doubles as the stored reference on the ad record; callers never
// see a filesystem path.
type ScreenshotStore interface {
	Save(ctx context.Context, name string, png []byte) error
}
