// Package snapshotfile is a platform backend that reads UI tree snapshots
// from YAML or JSON files and bitmaps from image files. Importing it for
// side effects registers it as the platform provider.
package snapshotfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mj1618/rigi-cli/internal/model"
	"github.com/mj1618/rigi-cli/internal/platform"
	"gopkg.in/yaml.v3"
)

// Load reads and links a tree snapshot. The encoding is chosen by file
// extension.
func Load(path string) (*model.Snapshot, error) {
	format, err := platform.DetectTreeFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, format)
}

// Decode parses and links a tree snapshot.
func Decode(data []byte, format platform.TreeFormat) (*model.Snapshot, error) {
	var snap model.Snapshot
	switch format {
	case platform.TreeJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&snap); err != nil {
			return nil, fmt.Errorf("failed to decode JSON tree: %w", err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&snap); err != nil {
			return nil, fmt.Errorf("failed to decode YAML tree: %w", err)
		}
	}
	if snap.Root == nil {
		return nil, platform.ErrNoTarget
	}
	snap.Link()
	return &snap, nil
}
