package snapshotfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/mj1618/rigi-cli/internal/model"
	"github.com/mj1618/rigi-cli/internal/platform"
)

// Reader implements platform.TreeReader. The file is re-read on every call
// so a watcher sees edits.
type Reader struct {
	path string
}

// NewReader returns a reader for the snapshot file at path.
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// ReadTree loads the snapshot. A missing file or an empty root is reported
// as platform.ErrNoTarget.
func (r *Reader) ReadTree(ctx context.Context) (*model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, err := Load(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s does not exist", platform.ErrNoTarget, r.path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tree %s: %w", r.path, err)
	}
	return snap, nil
}
