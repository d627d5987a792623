// Package geometry decides whether a marked text element is visible enough
// to annotate and computes the rectangle drawn for it.
package geometry

import (
	"fmt"
	"strings"

	"github.com/mj1618/rigi-cli/internal/model"
)

// ClipStyle selects the clipping bounds.
type ClipStyle int

const (
	// ClipFullScreen clips against the whole screen.
	ClipFullScreen ClipStyle = iota
	// ClipActiveBoundary clips against the frame of the active boundary,
	// falling back to the screen when there is none.
	ClipActiveBoundary
)

func (c ClipStyle) String() string {
	if c == ClipActiveBoundary {
		return "active-boundary"
	}
	return "full-screen"
}

// ParseClipStyle converts a config value to a ClipStyle.
func ParseClipStyle(s string) (ClipStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full-screen", "fullscreen", "screen":
		return ClipFullScreen, nil
	case "active-boundary", "boundary", "upper-view-controller":
		return ClipActiveBoundary, nil
	default:
		return ClipFullScreen, fmt.Errorf("unknown clip style: %q (expected full-screen or active-boundary)", s)
	}
}

// Options are the tunables of Resolve.
type Options struct {
	ClipStyle             ClipStyle
	ClipOffscreen         bool    // draw only the visible part
	MinOnscreenHorizontal float64 // visible width ratio must be strictly greater
	MinOnscreenVertical   float64 // visible height ratio must be strictly greater
	ExpandToControl       bool    // use the owning control's frame for control labels
}

// Input describes one element in root coordinates.
type Input struct {
	Element  model.Rect
	Control  *model.Rect // frame of the owning actionable control, if any
	Screen   model.Rect
	Boundary *model.Rect // frame of the active boundary, if any
}

// Result is the outcome of Resolve, filled in even when rejected so callers
// can log why.
type Result struct {
	Subject model.Rect
	Clip    model.Rect
	Visible model.Rect
	RatioH  float64
	RatioV  float64
	Rect    model.Rect // rectangle to draw
}

// Resolve computes the annotation rectangle for one element and reports
// whether it qualifies. Elements exactly at a threshold are rejected.
func Resolve(in Input, opts Options) (Result, bool) {
	var res Result

	res.Subject = in.Element
	if opts.ExpandToControl && in.Control != nil {
		res.Subject = *in.Control
	}

	res.Clip = in.Screen
	if opts.ClipStyle == ClipActiveBoundary && in.Boundary != nil {
		res.Clip = *in.Boundary
	}

	res.Visible = res.Subject.Intersect(res.Clip)
	res.RatioH = ratio(res.Visible.Width, res.Subject.Width)
	res.RatioV = ratio(res.Visible.Height, res.Subject.Height)

	res.Rect = res.Subject
	if opts.ClipOffscreen {
		res.Rect = res.Visible
	}

	if !res.Rect.IsFinite() {
		return res, false
	}
	// Nothing on screen never qualifies, whatever the thresholds.
	if res.Visible.IsEmpty() {
		return res, false
	}
	if !(res.RatioH > opts.MinOnscreenHorizontal) || !(res.RatioV > opts.MinOnscreenVertical) {
		return res, false
	}
	return res, true
}

// ratio divides visible by total, treating an empty or non-finite total as 0.
func ratio(visible, total float64) float64 {
	if !(total > 0) {
		return 0
	}
	r := visible / total
	if r != r {
		return 0
	}
	return r
}
