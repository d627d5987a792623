package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/mj1618/rigi-cli/internal/artifact"
	"github.com/mj1618/rigi-cli/internal/config"
	"github.com/mj1618/rigi-cli/internal/geometry"
	"github.com/mj1618/rigi-cli/internal/marker"
	"github.com/mj1618/rigi-cli/internal/model"
	"github.com/mj1618/rigi-cli/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var out = filepath.Join(string(filepath.Separator), "out")

func keys(labels []model.LabelCandidate) []string {
	ks := make([]string, len(labels))
	for i, l := range labels {
		ks[i] = l.Key
	}
	return ks
}

func TestScan_HomeScreen(t *testing.T) {
	p := newTestPipeline(nil, nil, nil, testSettings(out))
	labels := p.Scan(homeSnapshot())

	require.Equal(t, []string{"home.title", "home.search", "auth.signin"}, keys(labels))

	title := labels[0]
	assert.Equal(t, "Welcome\nback", title.Text, "display text has the marker removed")
	assert.Equal(t, model.R(20, 60, 200, 30), title.Rect)
	assert.Equal(t, "#112233", title.Color.Hex())
	assert.Equal(t, ".SFUI-Regular", title.Font.Name)
	assert.False(t, title.IsControlLabel)
	assert.Contains(t, title.Path, "boundary:HomeViewController")

	assert.Equal(t, "Search", labels[1].Text)
	assert.True(t, labels[2].IsControlLabel)
	assert.Equal(t, model.AlignCenter, labels[2].Align)
}

func TestScan_WithoutAutoClearInputs(t *testing.T) {
	settings := testSettings(out)
	settings.AutoClearInputs = false
	labels := newTestPipeline(nil, nil, nil, settings).Scan(homeSnapshot())
	assert.Equal(t, []string{"home.title", "auth.signin"}, keys(labels))
}

func TestScan_ModalHidesScreenBehind(t *testing.T) {
	p := newTestPipeline(nil, nil, nil, testSettings(out))
	labels := p.Scan(withModal(homeSnapshot()))

	// Texts behind the alert are skipped; the overflowing text is clipped
	// away by the alert frame.
	assert.Equal(t, []string{"alert.message"}, keys(labels))
}

func TestScan_UnrestrictedScansEverything(t *testing.T) {
	settings := testSettings(out)
	settings.OnlyActiveBoundary = false
	labels := newTestPipeline(nil, nil, nil, settings).Scan(withModal(homeSnapshot()))

	// No active boundary: clipping falls back to the full screen.
	assert.Equal(t, []string{"home.title", "home.search", "auth.signin", "alert.message", "alert.outside"}, keys(labels))
}

func TestScan_ExpandToControl(t *testing.T) {
	settings := testSettings(out)
	settings.Geometry.ExpandToControl = true
	labels := newTestPipeline(nil, nil, nil, settings).Scan(homeSnapshot())

	require.Len(t, labels, 3)
	assert.Equal(t, model.R(20, 700, 350, 50), labels[2].Rect)
	assert.Equal(t, model.R(20, 60, 200, 30), labels[0].Rect, "plain texts keep their own frame")
}

func TestScan_FullScreenClip(t *testing.T) {
	settings := testSettings(out)
	settings.Geometry.ClipStyle = geometry.ClipFullScreen
	labels := newTestPipeline(nil, nil, nil, settings).Scan(withModal(homeSnapshot()))
	assert.Equal(t, []string{"alert.message", "alert.outside"}, keys(labels))
}

func TestScan_SingleBoundary(t *testing.T) {
	build := func(frame model.Rect) *model.Snapshot {
		view := withBoundary(container("greeting-screen", screen,
			textNode("greeting", marked("greeting", "Hello"), frame)), "GreetingViewController", false)
		snap := &model.Snapshot{Screen: screen, Root: container("window", screen, view)}
		snap.Link()
		return snap
	}
	p := newTestPipeline(&fakeReader{}, &fakeShooter{}, newMemStore(), testSettings(out))

	labels := p.Scan(build(model.R(10, 10, 100, 20)))
	require.Len(t, labels, 1)
	assert.Equal(t, "greeting", labels[0].Key)
	assert.Equal(t, "Hello", labels[0].Text)
	assert.Equal(t, model.R(10, 10, 100, 20), labels[0].Rect)

	assert.Empty(t, p.Scan(build(model.R(390, 10, 100, 20))), "10% visible must be rejected")
}

func TestScan_EmptyTree(t *testing.T) {
	p := newTestPipeline(nil, nil, nil, testSettings(out))
	assert.Empty(t, p.Scan(nil))
	assert.Empty(t, p.Scan(&model.Snapshot{Screen: screen}))
}

func TestScan_LogsDecisions(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	provider := &platform.Provider{}
	p := New(provider, testSettings(out), zap.New(core))

	p.Scan(homeSnapshot())

	assert.Equal(t, 4, logs.FilterMessage("found label").Len())
	assert.Equal(t, 3, logs.FilterMessage("add label").Len())
	skipped := logs.FilterMessage("skip label").All()
	require.Len(t, skipped, 1)
	assert.Equal(t, "home.offscreen", skipped[0].ContextMap()["key"])
}

func TestCapture_WritesNumberedPair(t *testing.T) {
	store := newMemStore()
	store.dirs[out] = true
	store.files[filepath.Join(out, "stale.html")] = []byte("old")
	shooter := &fakeShooter{}
	p := newTestPipeline(&fakeReader{snaps: []*model.Snapshot{homeSnapshot()}}, shooter, store, testSettings(out))

	art, err := p.Capture(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, art.Sequence)
	assert.Equal(t, "1700000000_screen_001", art.BaseName)
	assert.Equal(t, "HomeViewController", art.ActiveBoundary)
	assert.Empty(t, art.Warnings)
	assert.Equal(t, 2, p.Sequence())
	assert.Equal(t, []model.Rect{screen}, shooter.bounds, "bitmap covers the full screen")

	assert.Equal(t, []string{
		filepath.Join(out, "1700000000_screen_001.html"),
		filepath.Join(out, "resources", "img", "1700000000_screen_001.png"),
	}, store.names(), "stale files are cleared on the first capture")

	h, err := artifact.ParseHeader(string(store.files[art.HTMLPath]))
	require.NoError(t, err)
	assert.Equal(t, keys(art.Labels), h.Keys())
	assert.Equal(t, marker.HeaderText("home.title"), h.Texts[0])
	assert.Equal(t, []string{"resources/img/1700000000_screen_001.png"}, h.Dependencies)
	assert.Equal(t, "1700000000", h.DateCreated)
	assert.Equal(t, fixedGUID(), h.GUID)
}

func TestCapture_ClearsOnlyOnce(t *testing.T) {
	store := newMemStore()
	p := newTestPipeline(&fakeReader{snaps: []*model.Snapshot{homeSnapshot()}}, &fakeShooter{}, store, testSettings(out))

	first, err := p.Capture(context.Background())
	require.NoError(t, err)
	keep := filepath.Join(out, "notes.txt")
	store.files[keep] = []byte("keep me")

	second, err := p.Capture(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "1700000000_screen_001", first.BaseName)
	assert.Equal(t, "1700000000_screen_002", second.BaseName)
	assert.Contains(t, store.files, keep, "second capture must not clear")
	assert.Contains(t, store.files, first.HTMLPath)
	assert.Contains(t, store.files, second.HTMLPath)
}

func TestCapture_SameTreeTwice(t *testing.T) {
	store := newMemStore()
	p := newTestPipeline(&fakeReader{snaps: []*model.Snapshot{homeSnapshot()}}, &fakeShooter{}, store, testSettings(out))

	first, err := p.Capture(context.Background())
	require.NoError(t, err)
	second, err := p.Capture(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Labels, second.Labels)
	assert.Equal(t, 1, second.Sequence-first.Sequence)
	assert.NotEmpty(t, first.Labels)
}

func TestCapture_EmptyTreeTwice(t *testing.T) {
	snap := &model.Snapshot{Screen: screen, Root: container("window", screen)}
	snap.Link()
	store := newMemStore()
	settings := testSettings(out)
	settings.FileTimestamps = false
	p := newTestPipeline(&fakeReader{snaps: []*model.Snapshot{snap}}, &fakeShooter{}, store, settings)

	stale := filepath.Join(out, "stale.html")
	store.files[stale] = []byte("old")

	first, err := p.Capture(context.Background())
	require.NoError(t, err)
	later := filepath.Join(out, "later.txt")
	store.files[later] = []byte("new")
	second, err := p.Capture(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "rigi_screen_001", first.BaseName)
	assert.Equal(t, "rigi_screen_002", second.BaseName)
	assert.Empty(t, first.Labels)
	assert.Empty(t, second.Labels)
	assert.NotContains(t, store.files, stale, "first capture clears")
	assert.Contains(t, store.files, later, "second capture must not clear")
	assert.Equal(t, []string{stale}, store.removed)
	assert.Contains(t, store.files, second.HTMLPath)
	assert.Contains(t, store.files, second.ImagePath)
}

func TestCapture_ResetSequence(t *testing.T) {
	store := newMemStore()
	settings := testSettings(out)
	settings.FileTimestamps = false
	p := newTestPipeline(&fakeReader{snaps: []*model.Snapshot{homeSnapshot()}}, &fakeShooter{}, store, settings)

	for i := 0; i < 3; i++ {
		_, err := p.Capture(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 4, p.Sequence())

	p.ResetSequence()
	art, err := p.Capture(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "rigi_screen_001", art.BaseName)
	assert.NotContains(t, store.files, filepath.Join(out, "rigi_screen_003.html"), "reset clears again")
	assert.Len(t, store.files, 2)
}

func TestCapture_MissingTarget(t *testing.T) {
	store := newMemStore()
	shooter := &fakeShooter{}
	p := newTestPipeline(&fakeReader{}, shooter, store, testSettings(out))

	art, err := p.Capture(context.Background())

	assert.Nil(t, art)
	assert.ErrorIs(t, err, ErrMissingCaptureTarget)
	assert.ErrorIs(t, err, platform.ErrNoTarget)
	assert.Empty(t, store.files)
	assert.Empty(t, shooter.bounds)
	assert.Equal(t, 1, p.Sequence())
}

func TestCapture_ReadError(t *testing.T) {
	boom := errors.New("adapter crashed")
	p := newTestPipeline(&fakeReader{err: boom}, &fakeShooter{}, newMemStore(), testSettings(out))

	_, err := p.Capture(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrMissingCaptureTarget)
}

func TestCapture_BitmapFailureAborts(t *testing.T) {
	store := newMemStore()
	store.files[filepath.Join(out, "stale.html")] = []byte("old")
	p := newTestPipeline(&fakeReader{snaps: []*model.Snapshot{homeSnapshot()}}, &fakeShooter{err: errors.New("no display")}, store, testSettings(out))

	art, err := p.Capture(context.Background())

	assert.Nil(t, art)
	assert.Error(t, err)
	assert.Equal(t, []string{filepath.Join(out, "stale.html")}, store.names(), "nothing cleared or written")
	assert.Equal(t, 1, p.Sequence())
}

func TestCapture_WriteFailureIsWarning(t *testing.T) {
	store := newMemStore()
	diskFull := errors.New("disk full")
	store.failWrite[filepath.Join(out, "1700000000_screen_001.html")] = diskFull
	p := newTestPipeline(&fakeReader{snaps: []*model.Snapshot{homeSnapshot()}}, &fakeShooter{}, store, testSettings(out))

	art, err := p.Capture(context.Background())
	require.NoError(t, err)

	require.Len(t, art.Warnings, 1)
	w := art.Warnings[0]
	assert.Equal(t, "write", w.Op)
	assert.ErrorIs(t, w, diskFull)
	assert.Contains(t, store.files, art.ImagePath, "image is kept, no rollback")
	assert.Equal(t, 2, p.Sequence(), "sequence advances even when a write fails")

	text, err := w.MarshalText()
	require.NoError(t, err)
	assert.Contains(t, string(text), "disk full")
}

func TestCapture_ClearFailureIsWarning(t *testing.T) {
	store := newMemStore()
	store.failList = errors.New("permission denied")
	p := newTestPipeline(&fakeReader{snaps: []*model.Snapshot{homeSnapshot()}}, &fakeShooter{}, store, testSettings(out))

	art, err := p.Capture(context.Background())
	require.NoError(t, err)
	require.Len(t, art.Warnings, 1)
	assert.Equal(t, "clear", art.Warnings[0].Op)
	assert.Contains(t, store.files, art.HTMLPath)
}

func TestCapture_NoLabelsStillWritesArtifact(t *testing.T) {
	snap := &model.Snapshot{Screen: screen, Root: container("window", screen, textNode("plain", "hello", model.R(0, 0, 10, 10)))}
	snap.Link()
	store := newMemStore()
	p := newTestPipeline(&fakeReader{snaps: []*model.Snapshot{snap}}, &fakeShooter{}, store, testSettings(out))

	art, err := p.Capture(context.Background())
	require.NoError(t, err)
	assert.Empty(t, art.Labels)

	h, err := artifact.ParseHeader(string(store.files[art.HTMLPath]))
	require.NoError(t, err)
	assert.Empty(t, h.Texts)
}

func TestCapture_Preview(t *testing.T) {
	store := newMemStore()
	settings := testSettings(out)
	settings.Preview = true
	p := newTestPipeline(&fakeReader{snaps: []*model.Snapshot{homeSnapshot()}}, &fakeShooter{}, store, settings)

	art, err := p.Capture(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "resources", "img", "1700000000_screen_001_preview.png"), art.PreviewPath)
	assert.Contains(t, store.files, art.PreviewPath)
}

func TestNew_DefaultGUID(t *testing.T) {
	store := newMemStore()
	p := New(&platform.Provider{
		Reader:        &fakeReader{snaps: []*model.Snapshot{homeSnapshot()}},
		Screenshotter: &fakeShooter{},
		Store:         store,
	}, testSettings(out), nil)

	art, err := p.Capture(context.Background())
	require.NoError(t, err)
	_, err = uuid.Parse(art.GUID)
	assert.NoError(t, err)
	assert.Regexp(t, `^[0-9A-F-]{36}$`, art.GUID)
}

func TestSettingsFromConfig(t *testing.T) {
	cfg := config.NewDefaultConfig()
	s := SettingsFromConfig(cfg)

	assert.Equal(t, "rigi", s.OutputDir)
	assert.True(t, s.OnlyActiveBoundary)
	assert.Equal(t, geometry.ClipActiveBoundary, s.Geometry.ClipStyle)
	assert.Equal(t, 0.8, s.Geometry.MinOnscreenHorizontal)
	assert.Equal(t, "#0a3679", s.Style.LabelBorderColor)
}
