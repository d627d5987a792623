package server

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mj1618/rigi-cli/internal/config"
	"github.com/mj1618/rigi-cli/internal/output"
	"github.com/mj1618/rigi-cli/internal/pipeline"
	"github.com/mj1618/rigi-cli/internal/platform"
	"github.com/mj1618/rigi-cli/internal/platform/osfs"
	"github.com/mj1618/rigi-cli/internal/platform/snapshotfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const fixture = "../platform/snapshotfile/testdata/home.yaml"

func newTestServer(t *testing.T, treePath string) (*Server, string) {
	t.Helper()
	out := filepath.Join(t.TempDir(), "rigi")
	reader := snapshotfile.NewReader(treePath)
	provider := &platform.Provider{
		Reader:        reader,
		Screenshotter: snapshotfile.NewScreenshotter("", 1, reader),
		Store:         osfs.New(),
	}
	settings := pipeline.SettingsFromConfig(config.NewDefaultConfig())
	settings.OutputDir = out
	settings.FileTimestamps = false

	s := New(provider, settings, Config{CacheTTL: time.Minute}, nil)
	s.clock = func() time.Time { return time.Unix(1700000000, 0) }
	return s, out
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return text.Text, res.IsError
}

func TestHandleScan(t *testing.T) {
	s, out := newTestServer(t, fixture)

	text, isErr := call(t, s.handleScan, nil)
	require.False(t, isErr, text)

	var result output.ScanResult
	require.NoError(t, yaml.Unmarshal([]byte(text), &result))
	assert.Equal(t, "HomeViewController", result.ActiveBoundary)
	assert.Equal(t, int64(1700000000), result.TS)

	var keys []string
	for _, l := range result.Labels {
		keys = append(keys, l.Key)
	}
	assert.Equal(t, []string{"home.title", "home.search", "auth.signin"}, keys)

	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err), "scan must not write files")
}

func TestHandleTree_BoundaryOnly(t *testing.T) {
	s, _ := newTestServer(t, fixture)

	full, isErr := call(t, s.handleTree, nil)
	require.False(t, isErr, full)
	scoped, isErr := call(t, s.handleTree, map[string]any{"boundary_only": true})
	require.False(t, isErr, scoped)

	var fullResult, scopedResult output.TreeResult
	require.NoError(t, yaml.Unmarshal([]byte(full), &fullResult))
	require.NoError(t, yaml.Unmarshal([]byte(scoped), &scopedResult))
	assert.Less(t, len(scopedResult.Nodes), len(fullResult.Nodes))
	assert.Equal(t, "boundary:HomeViewController", scopedResult.Nodes[0].Path)
}

func TestHandleCapture_WritesNumberedPairs(t *testing.T) {
	s, out := newTestServer(t, fixture)

	text, isErr := call(t, s.handleCapture, map[string]any{"count": float64(2)})
	require.False(t, isErr, text)
	assert.Contains(t, text, "rigi_screen_001")
	assert.Contains(t, text, "rigi_screen_002")

	for _, name := range []string{
		"rigi_screen_001.html",
		"rigi_screen_002.html",
		"resources/img/rigi_screen_001.png",
		"resources/img/rigi_screen_002.png",
	} {
		assert.FileExists(t, filepath.Join(out, name))
	}
	assert.Equal(t, 3, s.pipeline.Sequence())
}

func TestHandleCapture_BadCount(t *testing.T) {
	s, _ := newTestServer(t, fixture)

	text, isErr := call(t, s.handleCapture, map[string]any{"count": float64(0)})
	assert.True(t, isErr)
	assert.Contains(t, text, "count must be between")
}

func TestHandleCapture_MissingTree(t *testing.T) {
	s, out := newTestServer(t, filepath.Join(t.TempDir(), "missing.yaml"))

	text, isErr := call(t, s.handleCapture, nil)
	assert.True(t, isErr)
	assert.Contains(t, text, "nothing to capture")
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, 1, s.pipeline.Sequence())
}

func TestHandleReset(t *testing.T) {
	s, _ := newTestServer(t, fixture)

	_, isErr := call(t, s.handleCapture, nil)
	require.False(t, isErr)
	require.Equal(t, 2, s.pipeline.Sequence())

	text, isErr := call(t, s.handleReset, nil)
	require.False(t, isErr)
	assert.Equal(t, "next: 1\n", text)
	assert.Equal(t, 1, s.pipeline.Sequence())
}

func TestHandleMarkers(t *testing.T) {
	s, _ := newTestServer(t, fixture)

	text, isErr := call(t, s.handleEncode, map[string]any{"key": "home.title", "text": "Welcome"})
	require.False(t, isErr, text)
	var encoded output.MarkerResult
	require.NoError(t, yaml.Unmarshal([]byte(text), &encoded))
	assert.True(t, encoded.Marked)
	assert.Equal(t, "home.title", encoded.Key)

	text, isErr = call(t, s.handleDecode, map[string]any{"text": encoded.Encoded})
	require.False(t, isErr, text)
	var decoded output.MarkerResult
	require.NoError(t, yaml.Unmarshal([]byte(text), &decoded))
	assert.Equal(t, "home.title", decoded.Key)
	assert.Equal(t, "Welcome", decoded.Text)

	text, isErr = call(t, s.handleEncode, map[string]any{"key": ""})
	assert.True(t, isErr)
	assert.Contains(t, text, "visible character")
}

func TestServe_UnknownTransport(t *testing.T) {
	s, _ := newTestServer(t, fixture)
	err := s.Serve(Config{Transport: "carrier-pigeon"})
	assert.ErrorContains(t, err, "unsupported transport")
}
