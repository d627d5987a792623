package model

import (
	"crypto/sha256"
	"fmt"
)

// Snapshot is one conceptual capture of the host UI tree. Frames are in the
// coordinate space of the root window.
type Snapshot struct {
	Screen      Rect    `yaml:"screen"                  json:"screen"`
	SafeAreaTop float64 `yaml:"safe_area_top,omitempty" json:"safe_area_top,omitempty"`
	Root        *Node   `yaml:"root"                    json:"root"`
}

// HasTopNotch reports whether the device has a notch, judged by a safe-area
// top inset larger than a plain status bar.
func (s *Snapshot) HasTopNotch() bool {
	return s.SafeAreaTop > 20
}

// Link wires every boundary to the container that declares it and fills in
// inferred kinds. It must be called after decoding a snapshot and before
// walking it. A missing screen rect defaults to the root frame.
func (s *Snapshot) Link() {
	if s.Root == nil {
		return
	}
	if s.Screen.IsEmpty() {
		s.Screen = s.Root.Frame
	}
	link(s.Root)
}

func link(n *Node) {
	if n.Kind == "" {
		if n.Text != "" || n.Placeholder != "" {
			n.Kind = KindText
		} else {
			n.Kind = KindContainer
		}
	}
	if n.Boundary != nil {
		n.Boundary.Kind = KindBoundary
		n.Boundary.View = n
	}
	if n.Kind == KindBoundary {
		// A boundary written as a node owns its children through a view
		// container with the same frame.
		if n.View == nil {
			n.View = &Node{Kind: KindContainer, Name: n.Name, Frame: n.Frame, Children: n.Children}
			n.Children = nil
		}
		if n.View.Boundary == nil {
			link(n.View)
		}
		return
	}
	for _, c := range n.Children {
		if c != nil {
			link(c)
		}
	}
}

// BoundaryFingerprint computes a stable identity hash for a boundary based
// on its name, embedding and frame. Two reads of the same screen produce the
// same fingerprint; nil yields the empty string.
func BoundaryFingerprint(b *Node) string {
	if b == nil {
		return ""
	}
	h := sha256.New()
	fmt.Fprintf(h, "%s|%v|%v", b.Name, b.Embedded, b.Bounds().Ints())
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}
