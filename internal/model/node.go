package model

// Kind identifies which variant a Node is.
type Kind string

const (
	// KindContainer has ordered children, a visibility flag and a frame.
	KindContainer Kind = "container"
	// KindBoundary marks a logical screen/region root (a screen or modal).
	// It owns exactly one container: its View.
	KindBoundary Kind = "boundary"
	// KindText is a leaf carrying display text.
	KindText Kind = "text"
)

// Node is one element of a read-only UI tree snapshot.
//
// A container whose identity corresponds to a logical region root carries
// that region in Boundary. The walker emits the Boundary in place of the
// container and then descends into the container through Boundary.View.
type Node struct {
	Kind     Kind    `yaml:"kind"               json:"kind"`
	Name     string  `yaml:"name,omitempty"     json:"name,omitempty"`
	Hidden   bool    `yaml:"hidden,omitempty"   json:"hidden,omitempty"`
	Frame    Rect    `yaml:"frame"              json:"frame"`
	Children []*Node `yaml:"children,omitempty" json:"children,omitempty"`

	// Container only.
	Boundary *Node `yaml:"boundary,omitempty" json:"boundary,omitempty"`

	// Boundary only. Embedded boundaries are children of another boundary
	// (not of a navigation/tab/split host).
	Embedded bool  `yaml:"embedded,omitempty" json:"embedded,omitempty"`
	View     *Node `yaml:"-"                  json:"-"`

	// Text only.
	Text        string    `yaml:"text,omitempty"        json:"text,omitempty"`
	Color       Color     `yaml:"color,omitempty"       json:"color,omitempty"`
	Font        Font      `yaml:"font,omitempty"        json:"font,omitempty"`
	Align       TextAlign `yaml:"align,omitempty"       json:"align,omitempty"`
	Control     *Rect     `yaml:"control,omitempty"     json:"control,omitempty"` // frame of the owning actionable control
	Input       bool      `yaml:"input,omitempty"       json:"input,omitempty"`
	Placeholder string    `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
}

// IsControlLabel reports whether the text is the label of an actionable control.
func (n *Node) IsControlLabel() bool {
	return n.Kind == KindText && n.Control != nil
}

// Bounds returns the node's frame. A boundary has no frame of its own and
// reports the frame of its view.
func (n *Node) Bounds() Rect {
	if n.Kind == KindBoundary && n.View != nil {
		return n.View.Frame
	}
	return n.Frame
}
