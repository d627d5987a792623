package platform

import (
	"fmt"
	"path/filepath"
	"strings"
)

// TreeFormat is the encoding of a tree snapshot file.
type TreeFormat int

const (
	TreeYAML TreeFormat = iota
	TreeJSON
)

// DetectTreeFormat picks the encoding from the file extension.
func DetectTreeFormat(path string) (TreeFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return TreeYAML, nil
	case ".json":
		return TreeJSON, nil
	default:
		return TreeYAML, fmt.Errorf("unknown tree file extension %q (expected .yaml, .yml or .json)", filepath.Ext(path))
	}
}

// ProviderOptions selects where snapshots come from.
type ProviderOptions struct {
	TreePath  string  // YAML or JSON tree snapshot
	ImagePath string  // PNG or JPEG bitmap of the same screen (empty = blank canvas)
	Scale     float64 // Bitmap pixels per point (0 = 1)
}

// Validate checks the options before a provider is built.
func (o ProviderOptions) Validate() error {
	if o.TreePath == "" {
		return fmt.Errorf("a tree snapshot file is required (--tree)")
	}
	if _, err := DetectTreeFormat(o.TreePath); err != nil {
		return err
	}
	if o.Scale < 0 || o.Scale > 4 {
		return fmt.Errorf("invalid scale %v: must be between 0 and 4", o.Scale)
	}
	return nil
}

// PixelScale returns Scale with the zero value mapped to 1.
func (o ProviderOptions) PixelScale() float64 {
	if o.Scale == 0 {
		return 1
	}
	return o.Scale
}
