package snapshotfile

import (
	"github.com/mj1618/rigi-cli/internal/platform"
	"github.com/mj1618/rigi-cli/internal/platform/osfs"
)

func init() {
	platform.NewProviderFunc = func(opts platform.ProviderOptions) (*platform.Provider, error) {
		reader := NewReader(opts.TreePath)
		return &platform.Provider{
			Reader:        reader,
			Screenshotter: NewScreenshotter(opts.ImagePath, opts.PixelScale(), reader),
			Store:         osfs.New(),
		}, nil
	}
}
