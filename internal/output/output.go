package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mj1618/rigi-cli/internal/artifact"
	"github.com/mj1618/rigi-cli/internal/marker"
	"github.com/mj1618/rigi-cli/internal/model"
	"github.com/mj1618/rigi-cli/internal/pipeline"
	"gopkg.in/yaml.v3"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatYAML, FormatJSON:
		return Format(s), nil
	}
	return FormatYAML, fmt.Errorf("unsupported format: %s (use yaml or json)", s)
}

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// ScanResult is the output of the `scan` command.
type ScanResult struct {
	TS             int64                  `yaml:"ts"                        json:"ts"`
	Screen         model.Rect             `yaml:"screen"                    json:"screen"`
	ActiveBoundary string                 `yaml:"active_boundary,omitempty" json:"active_boundary,omitempty"`
	Labels         []model.LabelCandidate `yaml:"labels"                    json:"labels"`
}

// TreeResult is the output of the `tree` command.
type TreeResult struct {
	TS             int64            `yaml:"ts"                        json:"ts"`
	ActiveBoundary string           `yaml:"active_boundary,omitempty" json:"active_boundary,omitempty"`
	Nodes          []model.FlatNode `yaml:"nodes"                     json:"nodes"`
}

// CaptureResult is the output of the `capture` and `watch` commands.
type CaptureResult struct {
	OutputDir string               `yaml:"output_dir" json:"output_dir"`
	Artifacts []*pipeline.Artifact `yaml:"artifacts"  json:"artifacts"`
}

// MarkerResult is the output of the `marker` subcommands.
type MarkerResult struct {
	Key     string `yaml:"key,omitempty"     json:"key,omitempty"`
	Text    string `yaml:"text"              json:"text"`
	Encoded string `yaml:"encoded,omitempty" json:"encoded,omitempty"`
	Escaped string `yaml:"escaped"           json:"escaped"`
	Marked  bool   `yaml:"marked"            json:"marked"`
}

// InspectResult is the output of the `inspect` command.
type InspectResult struct {
	File   string           `yaml:"file"   json:"file"`
	Keys   []string         `yaml:"keys"   json:"keys"`
	Header *artifact.Header `yaml:"header" json:"header"`
}

// NewScanResult assembles the scan output for one snapshot.
func NewScanResult(now time.Time, snap *model.Snapshot, active *model.Node, labels []model.LabelCandidate) ScanResult {
	r := ScanResult{TS: now.Unix(), Screen: snap.Screen, Labels: labels}
	if active != nil {
		r.ActiveBoundary = active.Name
	}
	if r.Labels == nil {
		r.Labels = []model.LabelCandidate{}
	}
	return r
}

// NewTreeResult flattens the snapshot. With boundaryOnly set and an active
// boundary present, only the boundary's subtree is listed.
func NewTreeResult(now time.Time, snap *model.Snapshot, active *model.Node, boundaryOnly bool) TreeResult {
	r := TreeResult{TS: now.Unix()}
	root := snap.Root
	if active != nil {
		r.ActiveBoundary = active.Name
		if boundaryOnly {
			root = active
		}
	}
	r.Nodes = model.FlattenTree(root)
	if r.Nodes == nil {
		r.Nodes = []model.FlatNode{}
	}
	return r
}

// NewMarkerResult decodes text and reports its key and visible part.
func NewMarkerResult(text string) MarkerResult {
	r := MarkerResult{Text: text, Escaped: marker.ToXMLHex(text)}
	if m, ok := marker.ExtractKey(text); ok {
		r.Key = m.Key
		r.Text = m.Text
		r.Marked = true
	}
	return r
}

// Fprint serializes v to w in the current output format.
func Fprint(w io.Writer, v any) error {
	switch OutputFormat {
	case FormatJSON:
		return FprintJSON(w, v, PrettyOutput)
	case FormatYAML:
		return FprintYAML(w, v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// FprintJSON serializes v as single-line JSON, or indented when pretty.
func FprintJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// FprintYAML serializes v as YAML.
func FprintYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
