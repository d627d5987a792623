package platform

import (
	"context"
	"image"

	"github.com/mj1618/rigi-cli/internal/model"
)

// TreeReader reads a snapshot of the host UI tree.
type TreeReader interface {
	// ReadTree returns the current tree. It returns ErrNoTarget when there is
	// no window or screen to capture.
	ReadTree(ctx context.Context) (*model.Snapshot, error)
}

// Screenshotter renders the visible UI into a bitmap.
type Screenshotter interface {
	// Capture returns a bitmap of the given screen bounds.
	Capture(ctx context.Context, bounds model.Rect) (image.Image, error)
}

// Store is the small file system surface the capture pipeline writes through.
type Store interface {
	// ListDir returns the names of the entries in dir.
	ListDir(dir string) ([]string, error)
	// Remove deletes path and anything below it.
	Remove(path string) error
	MkdirAll(dir string) error
	WriteFile(path string, data []byte) error
}
