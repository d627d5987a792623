package platform

import (
	"errors"
)

// Provider bundles the backends the capture pipeline needs.
type Provider struct {
	Reader        TreeReader
	Screenshotter Screenshotter
	Store         Store
}

// ErrUnsupported is returned when no backend has registered itself.
var ErrUnsupported = errors.New("rigi-cli has no UI tree backend registered")

// ErrNoTarget is returned by TreeReader when there is nothing to capture.
var ErrNoTarget = errors.New("no UI tree to capture")

// NewProviderFunc is set by backend packages via init().
// See internal/platform/snapshotfile for the file-backed registration.
var NewProviderFunc func(opts ProviderOptions) (*Provider, error)

// NewProvider returns a Provider for the given options.
func NewProvider(opts ProviderOptions) (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return NewProviderFunc(opts)
}
