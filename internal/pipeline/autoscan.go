package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/mj1618/rigi-cli/internal/model"
	"github.com/mj1618/rigi-cli/internal/platform"
	"go.uber.org/zap"
)

// AutoScanner triggers captures on a timer. Every Interval it asks
// ShouldCapture; when that agrees it waits Delay for the UI to settle and
// then calls Capture. Ticks run one at a time, so at most one capture is in
// flight.
type AutoScanner struct {
	Interval      time.Duration
	Delay         time.Duration
	ShouldCapture func(ctx context.Context) bool
	Capture       func(ctx context.Context) error
	Logger        *zap.Logger
}

// NeverCapture is the default guard. It always declines.
func NeverCapture(context.Context) bool { return false }

// BoundaryChanged returns a guard that agrees whenever the active boundary
// differs from the one seen on the previous tick. The first tick with a
// boundary counts as a change.
func BoundaryChanged(reader platform.TreeReader, allow []string) func(context.Context) bool {
	var last string
	return func(ctx context.Context) bool {
		snap, err := reader.ReadTree(ctx)
		if err != nil || snap == nil || snap.Root == nil {
			return false
		}
		fp := model.BoundaryFingerprint(model.FindActiveBoundary(snap.Root, allow))
		if fp == "" || fp == last {
			return false
		}
		last = fp
		return true
	}
}

// Validate checks the timings and callbacks.
func (a *AutoScanner) Validate() error {
	if a.Capture == nil {
		return fmt.Errorf("auto scanner has no capture function")
	}
	if a.Interval <= 0 {
		return fmt.Errorf("auto scan interval must be positive, got %v", a.Interval)
	}
	if a.Delay < 0 || a.Interval <= a.Delay {
		return fmt.Errorf("auto scan interval (%v) must be greater than the capture delay (%v)", a.Interval, a.Delay)
	}
	return nil
}

// Run ticks until ctx is done. It returns nil on cancellation and an error
// only for an invalid configuration. Capture errors are logged and the loop
// continues.
func (a *AutoScanner) Run(ctx context.Context) error {
	if err := a.Validate(); err != nil {
		return err
	}
	guard := a.ShouldCapture
	if guard == nil {
		guard = NeverCapture
	}
	logger := a.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("autoscan")

	ticker := time.NewTicker(a.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if !guard(ctx) {
			continue
		}
		logger.Debug("change detected, waiting before capture", zap.Duration("delay", a.Delay))

		delay := time.NewTimer(a.Delay)
		select {
		case <-ctx.Done():
			delay.Stop()
			return nil
		case <-delay.C:
		}

		if err := a.Capture(ctx); err != nil {
			logger.Warn("auto capture failed", zap.Error(err))
		}
	}
}
