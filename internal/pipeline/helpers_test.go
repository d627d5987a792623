package pipeline

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mj1618/rigi-cli/internal/artifact"
	"github.com/mj1618/rigi-cli/internal/geometry"
	"github.com/mj1618/rigi-cli/internal/marker"
	"github.com/mj1618/rigi-cli/internal/model"
	"github.com/mj1618/rigi-cli/internal/platform"
)

var screen = model.R(0, 0, 400, 800)

func marked(key, display string) string {
	s, err := marker.Encode(key, display)
	if err != nil {
		panic(err)
	}
	return s
}

func textNode(name, text string, frame model.Rect) *model.Node {
	return &model.Node{
		Kind:  model.KindText,
		Name:  name,
		Frame: frame,
		Text:  text,
		Color: model.Color{R: 0x11, G: 0x22, B: 0x33, A: 0xff},
		Font:  model.Font{Name: ".SFUI-Regular", PointSize: 17},
		Align: model.AlignNatural,
	}
}

func container(name string, frame model.Rect, children ...*model.Node) *model.Node {
	return &model.Node{Kind: model.KindContainer, Name: name, Frame: frame, Children: children}
}

func withBoundary(n *model.Node, name string, embedded bool) *model.Node {
	n.Boundary = &model.Node{Name: name, Embedded: embedded}
	return n
}

// homeSnapshot is a navigation stack showing a home screen:
//
//	window
//	  nav (NavController)
//	    home (HomeViewController)
//	      title       marked, fully visible
//	      plain       unmarked
//	      offscreen   marked, 10% visible
//	      search      input with marked placeholder
//	      promo       hidden, holds a marked text
//	      signin      button holding a marked label
func homeSnapshot() *model.Snapshot {
	search := textNode("search", "typed by user", model.R(20, 180, 350, 36))
	search.Input = true
	search.Placeholder = marked("home.search", "Search")

	label := textNode("signin-label", marked("auth.signin", "Sign in"), model.R(150, 712, 90, 26))
	control := model.R(20, 700, 350, 50)
	label.Control = &control
	label.Align = model.AlignCenter

	promo := container("promo", model.R(20, 300, 350, 200),
		textNode("promo-text", marked("home.promo", "Hidden promo"), model.R(30, 310, 300, 20)))
	promo.Hidden = true

	home := withBoundary(container("home", screen,
		textNode("title", marked("home.title", "Welcome\nback"), model.R(20, 60, 200, 30)),
		textNode("plain", "Not localized", model.R(20, 100, 200, 20)),
		textNode("offscreen", marked("home.offscreen", "Truncated"), model.R(380, 140, 200, 20)),
		search,
		promo,
		container("signin", control, label),
	), "HomeViewController", false)

	nav := withBoundary(container("nav", screen, home), "NavController", false)
	snap := &model.Snapshot{Screen: screen, Root: container("window", screen, nav)}
	snap.Link()
	return snap
}

// withModal presents an alert on top of the home screen.
func withModal(snap *model.Snapshot) *model.Snapshot {
	frame := model.R(50, 300, 300, 200)
	modal := withBoundary(container("modal", frame,
		textNode("message", marked("alert.message", "Are you sure?"), model.R(70, 320, 260, 40)),
		textNode("outside", marked("alert.outside", "Overflow"), model.R(70, 600, 260, 40)),
	), "AlertViewController", false)
	snap.Root.Children = append(snap.Root.Children, modal)
	snap.Link()
	return snap
}

func testSettings(out string) Settings {
	return Settings{
		OutputDir:          out,
		FileTimestamps:     true,
		OnlyActiveBoundary: true,
		ExtraBoundaries:    []string{"SE_MenuViewController"},
		AutoClearInputs:    true,
		Geometry: geometry.Options{
			ClipStyle:             geometry.ClipActiveBoundary,
			ClipOffscreen:         true,
			MinOnscreenHorizontal: 0.8,
			MinOnscreenVertical:   0.8,
		},
		Style: artifact.DefaultStyle(),
	}
}

type fakeReader struct {
	mu    sync.Mutex
	snaps []*model.Snapshot // returned in order, the last one repeats
	err   error
	calls int
}

func (r *fakeReader) ReadTree(context.Context) (*model.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	if len(r.snaps) == 0 {
		return nil, platform.ErrNoTarget
	}
	s := r.snaps[0]
	if len(r.snaps) > 1 {
		r.snaps = r.snaps[1:]
	}
	return s, nil
}

type fakeShooter struct {
	err    error
	bounds []model.Rect
}

func (s *fakeShooter) Capture(_ context.Context, bounds model.Rect) (image.Image, error) {
	s.bounds = append(s.bounds, bounds)
	if s.err != nil {
		return nil, s.err
	}
	return image.NewRGBA(image.Rect(0, 0, int(bounds.Width), int(bounds.Height))), nil
}

// memStore is an in-memory platform.Store with injectable failures.
type memStore struct {
	files     map[string][]byte
	dirs      map[string]bool
	failWrite map[string]error
	failList  error
	removed   []string
}

func newMemStore() *memStore {
	return &memStore{files: map[string][]byte{}, dirs: map[string]bool{}, failWrite: map[string]error{}}
}

func (s *memStore) ListDir(dir string) ([]string, error) {
	if s.failList != nil {
		return nil, s.failList
	}
	seen := map[string]bool{}
	prefix := dir + string(filepath.Separator)
	for path := range s.files {
		if rest, ok := strings.CutPrefix(path, prefix); ok {
			seen[strings.SplitN(rest, string(filepath.Separator), 2)[0]] = true
		}
	}
	for path := range s.dirs {
		if rest, ok := strings.CutPrefix(path, prefix); ok {
			seen[strings.SplitN(rest, string(filepath.Separator), 2)[0]] = true
		}
	}
	var names []string
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *memStore) Remove(path string) error {
	s.removed = append(s.removed, path)
	for p := range s.files {
		if p == path || strings.HasPrefix(p, path+string(filepath.Separator)) {
			delete(s.files, p)
		}
	}
	for p := range s.dirs {
		if p == path || strings.HasPrefix(p, path+string(filepath.Separator)) {
			delete(s.dirs, p)
		}
	}
	return nil
}

func (s *memStore) MkdirAll(dir string) error {
	for d := dir; d != "." && d != string(filepath.Separator); d = filepath.Dir(d) {
		s.dirs[d] = true
	}
	return nil
}

func (s *memStore) WriteFile(path string, data []byte) error {
	if err := s.failWrite[path]; err != nil {
		return err
	}
	if !s.dirs[filepath.Dir(path)] {
		return errors.New("no such directory")
	}
	s.files[path] = data
	return nil
}

func (s *memStore) names() []string {
	var names []string
	for p := range s.files {
		names = append(names, p)
	}
	sort.Strings(names)
	return names
}

func fixedClock() time.Time { return time.Unix(1700000000, 0) }

func fixedGUID() string { return "00000000-0000-4000-8000-000000000001" }

func newTestPipeline(reader platform.TreeReader, shooter platform.Screenshotter, store platform.Store, settings Settings, opts ...Option) *Pipeline {
	provider := &platform.Provider{Reader: reader, Screenshotter: shooter, Store: store}
	opts = append([]Option{WithClock(fixedClock), WithGUID(fixedGUID)}, opts...)
	return New(provider, settings, nil, opts...)
}
