// Package pipeline turns a UI tree snapshot into a numbered screenshot and
// HTML annotation pair.
//
// A Pipeline owns the output directory and the sequence counter. Callers
// must not run two captures on the same Pipeline at once.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mj1618/rigi-cli/internal/artifact"
	"github.com/mj1618/rigi-cli/internal/config"
	"github.com/mj1618/rigi-cli/internal/geometry"
	"github.com/mj1618/rigi-cli/internal/marker"
	"github.com/mj1618/rigi-cli/internal/model"
	"github.com/mj1618/rigi-cli/internal/platform"
	"go.uber.org/zap"
)

// ErrMissingCaptureTarget is returned when there is no UI tree to capture.
// No files are written in that case.
var ErrMissingCaptureTarget = errors.New("missing capture target")

// IoFailure is a non-fatal write problem. The capture carries on and the
// failure is reported on Artifact.Warnings.
type IoFailure struct {
	Op   string // clear, mkdir, encode, write, render
	Path string
	Err  error
}

func (f *IoFailure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Op, f.Path, f.Err)
}

func (f *IoFailure) Unwrap() error { return f.Err }

// MarshalText lets warnings print as plain strings in YAML and JSON output.
func (f *IoFailure) MarshalText() ([]byte, error) {
	return []byte(f.Error()), nil
}

// Settings are the pipeline tunables.
type Settings struct {
	OutputDir          string
	FileTimestamps     bool
	OnlyActiveBoundary bool
	ExtraBoundaries    []string
	AutoClearInputs    bool
	Preview            bool
	Geometry           geometry.Options
	Style              artifact.Style
}

// SettingsFromConfig extracts the pipeline settings from the loaded config.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		OutputDir:          cfg.Capture.OutputDir,
		FileTimestamps:     cfg.Capture.FileTimestamps,
		OnlyActiveBoundary: cfg.Capture.OnlyActiveBoundary,
		ExtraBoundaries:    cfg.Capture.ExtraBoundaries,
		AutoClearInputs:    cfg.Capture.AutoClearInputs,
		Preview:            cfg.Capture.Preview,
		Geometry:           cfg.GeometryOptions(),
		Style:              cfg.Style(),
	}
}

// Artifact describes one finished capture.
type Artifact struct {
	Sequence       int                    `yaml:"seq"                       json:"seq"`
	BaseName       string                 `yaml:"base_name"                 json:"base_name"`
	HTMLPath       string                 `yaml:"html"                      json:"html"`
	ImagePath      string                 `yaml:"image"                     json:"image"`
	PreviewPath    string                 `yaml:"preview,omitempty"         json:"preview,omitempty"`
	CreatedAt      time.Time              `yaml:"created_at"                json:"created_at"`
	GUID           string                 `yaml:"guid"                      json:"guid"`
	ActiveBoundary string                 `yaml:"active_boundary,omitempty" json:"active_boundary,omitempty"`
	Labels         []model.LabelCandidate `yaml:"labels"                    json:"labels"`
	Warnings       []*IoFailure           `yaml:"warnings,omitempty"        json:"warnings,omitempty"`
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(p *Pipeline) { p.clock = clock }
}

// WithGUID replaces the artifact id generator.
func WithGUID(gen func() string) Option {
	return func(p *Pipeline) { p.newGUID = gen }
}

// Pipeline runs captures against a platform provider.
type Pipeline struct {
	reader   platform.TreeReader
	shooter  platform.Screenshotter
	store    platform.Store
	settings Settings
	logger   *zap.Logger

	seq     int
	clock   func() time.Time
	newGUID func() string
}

// New returns a pipeline whose first artifact is number 1.
func New(provider *platform.Provider, settings Settings, logger *zap.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pipeline{
		reader:   provider.Reader,
		shooter:  provider.Screenshotter,
		store:    provider.Store,
		settings: settings,
		logger:   logger.Named("pipeline"),
		seq:      1,
		clock:    time.Now,
		newGUID:  func() string { return strings.ToUpper(uuid.NewString()) },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Sequence returns the number the next artifact will get.
func (p *Pipeline) Sequence() int { return p.seq }

// ResetSequence restarts numbering at 1. The next capture clears the output
// directory again.
func (p *Pipeline) ResetSequence() {
	p.seq = 1
}

// Scan returns the label candidates of snap in walk order. It performs no I/O.
func (p *Pipeline) Scan(snap *model.Snapshot) []model.LabelCandidate {
	labels, _ := p.scan(snap)
	return labels
}

// ActiveBoundary returns the boundary that limits the scan, or nil when
// scanning is not restricted to the active screen.
func (p *Pipeline) ActiveBoundary(snap *model.Snapshot) *model.Node {
	if !p.settings.OnlyActiveBoundary || snap == nil || snap.Root == nil {
		return nil
	}
	return model.FindActiveBoundary(snap.Root, p.settings.ExtraBoundaries)
}

func (p *Pipeline) scan(snap *model.Snapshot) ([]model.LabelCandidate, *model.Node) {
	if snap == nil || snap.Root == nil {
		return nil, nil
	}

	active := p.ActiveBoundary(snap)
	var boundary *model.Rect
	if active != nil {
		b := active.Bounds()
		boundary = &b
	}

	gate := model.NewBoundaryGate(active)
	var paths model.PathTracker
	labels := []model.LabelCandidate{}

	model.Walk(snap.Root, func(n *model.Node, depth int) {
		path := paths.Visit(n, depth)
		if !gate.Admit(n) || n.Kind != model.KindText {
			return
		}

		text := n.Text
		if p.settings.AutoClearInputs && n.Input {
			text = n.Placeholder
		}
		if !marker.Detect(text) {
			return
		}
		m, ok := marker.ExtractKey(text)
		if !ok {
			p.logger.Debug("marker without key", zap.String("path", path))
			return
		}

		res, ok := geometry.Resolve(geometry.Input{
			Element:  n.Frame,
			Control:  n.Control,
			Screen:   snap.Screen,
			Boundary: boundary,
		}, p.settings.Geometry)
		p.logger.Debug("found label",
			zap.String("key", m.Key),
			zap.Stringer("rect", res.Subject),
			zap.Stringer("clip", res.Clip),
			zap.Stringer("visible", res.Visible),
			zap.Float64("onscreen_x", res.RatioH),
			zap.Float64("onscreen_y", res.RatioV),
		)
		if !ok {
			p.logger.Debug("skip label", zap.String("key", m.Key))
			return
		}
		p.logger.Debug("add label", zap.String("key", m.Key))

		labels = append(labels, model.LabelCandidate{
			Key:            m.Key,
			Text:           m.Text,
			Rect:           res.Rect,
			Color:          n.Color,
			Font:           n.Font,
			Align:          n.Align,
			IsControlLabel: n.IsControlLabel(),
			Path:           path,
		})
	})
	return labels, active
}

// Capture reads the tree, scans it, captures the bitmap and writes the
// numbered artifact pair. Write failures are collected on the returned
// artifact; only a missing tree or a failed bitmap capture abort.
func (p *Pipeline) Capture(ctx context.Context) (*Artifact, error) {
	snap, err := p.reader.ReadTree(ctx)
	if errors.Is(err, platform.ErrNoTarget) {
		return nil, fmt.Errorf("%w: %w", ErrMissingCaptureTarget, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tree: %w", err)
	}
	if snap == nil || snap.Root == nil {
		return nil, ErrMissingCaptureTarget
	}

	now := p.clock()
	labels, active := p.scan(snap)

	img, err := p.shooter.Capture(ctx, snap.Screen)
	if err != nil {
		return nil, fmt.Errorf("failed to capture bitmap: %w", err)
	}

	out := p.settings.OutputDir
	art := &Artifact{
		Sequence:  p.seq,
		BaseName:  artifact.BaseName(p.seq, now, p.settings.FileTimestamps),
		CreatedAt: now,
		GUID:      p.newGUID(),
		Labels:    labels,
	}
	if active != nil {
		art.ActiveBoundary = active.Name
	}
	art.HTMLPath = artifact.HTMLPath(out, art.BaseName)
	art.ImagePath = artifact.ImagePath(out, art.BaseName)

	if p.seq == 1 {
		p.clearOutput(art)
	}

	p.writeImage(art, art.ImagePath, img)
	if p.settings.Preview {
		art.PreviewPath = artifact.PreviewPath(out, art.BaseName)
		p.writeImage(art, art.PreviewPath, artifact.DrawPreview(img, labels, snap.Screen))
	}

	html, err := artifact.Render(artifact.Document{
		BaseName:    art.BaseName,
		CreatedAt:   now,
		GUID:        art.GUID,
		Size:        model.Size{Width: int(snap.Screen.Width), Height: int(snap.Screen.Height)},
		HasTopNotch: snap.HasTopNotch(),
		Labels:      labels,
	}, p.settings.Style)
	if err != nil {
		p.warn(art, &IoFailure{Op: "render", Path: art.HTMLPath, Err: err})
	} else {
		p.write(art, art.HTMLPath, []byte(html))
	}

	p.seq++
	p.logger.Info("artifact written",
		zap.String("base_name", art.BaseName),
		zap.Int("labels", len(labels)),
		zap.Int("warnings", len(art.Warnings)),
	)
	return art, nil
}

// clearOutput removes everything inside the output directory. A missing
// directory has nothing to clear.
func (p *Pipeline) clearOutput(art *Artifact) {
	dir := p.settings.OutputDir
	names, err := p.store.ListDir(dir)
	if err != nil {
		p.warn(art, &IoFailure{Op: "clear", Path: dir, Err: err})
		return
	}
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := p.store.Remove(path); err != nil {
			p.warn(art, &IoFailure{Op: "clear", Path: path, Err: err})
		}
	}
	p.logger.Debug("cleared output directory", zap.String("dir", dir), zap.Int("entries", len(names)))
}

func (p *Pipeline) writeImage(art *Artifact, path string, img image.Image) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		p.warn(art, &IoFailure{Op: "encode", Path: path, Err: err})
		return
	}
	p.write(art, path, buf.Bytes())
}

// write creates the parent directory before every write so a directory
// removed between captures is recreated.
func (p *Pipeline) write(art *Artifact, path string, data []byte) {
	dir := filepath.Dir(path)
	if err := p.store.MkdirAll(dir); err != nil {
		p.warn(art, &IoFailure{Op: "mkdir", Path: dir, Err: err})
		return
	}
	if err := p.store.WriteFile(path, data); err != nil {
		p.warn(art, &IoFailure{Op: "write", Path: path, Err: err})
		return
	}
	p.logger.Debug("saved file", zap.String("path", path), zap.Int("bytes", len(data)))
}

func (p *Pipeline) warn(art *Artifact, f *IoFailure) {
	art.Warnings = append(art.Warnings, f)
	p.logger.Error("artifact write failed", zap.String("op", f.Op), zap.String("path", f.Path), zap.Error(f.Err))
}
