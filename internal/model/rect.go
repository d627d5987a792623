package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Rect is an axis-aligned rectangle in root (screen point) coordinates.
// It encodes as a compact [x, y, width, height] array.
type Rect struct {
	X, Y, Width, Height float64
}

// R is shorthand for building a Rect.
func R(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// IsEmpty reports whether the rectangle covers no area.
func (r Rect) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// IsFinite reports whether every component is a finite number.
func (r Rect) IsFinite() bool {
	for _, v := range [4]float64{r.X, r.Y, r.Width, r.Height} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// Intersect returns the overlapping area of r and o. Disjoint rectangles
// yield a zero-size rectangle.
func (r Rect) Intersect(o Rect) Rect {
	x1 := math.Max(r.X, o.X)
	y1 := math.Max(r.Y, o.Y)
	x2 := math.Min(r.MaxX(), o.MaxX())
	y2 := math.Min(r.MaxY(), o.MaxY())
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Intersects checks if two rectangles overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.MaxX() && r.MaxX() > o.X && r.Y < o.MaxY() && r.MaxY() > o.Y
}

// Contains reports whether o lies fully inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.MaxX() <= r.MaxX() && o.MaxY() <= r.MaxY()
}

// Ints truncates the rectangle to integer pixels.
func (r Rect) Ints() [4]int {
	return [4]int{int(r.X), int(r.Y), int(r.Width), int(r.Height)}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g,%g,%g)", r.X, r.Y, r.Width, r.Height)
}

// MarshalJSON encodes the rectangle as [x, y, w, h].
func (r Rect) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{r.X, r.Y, r.Width, r.Height})
}

// UnmarshalJSON decodes a [x, y, w, h] array.
func (r *Rect) UnmarshalJSON(data []byte) error {
	var v [4]float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("rect: %w", err)
	}
	*r = Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}
	return nil
}

// MarshalYAML encodes the rectangle as a flow-style [x, y, w, h] sequence.
func (r Rect) MarshalYAML() (interface{}, error) {
	return []float64{r.X, r.Y, r.Width, r.Height}, nil
}

// UnmarshalYAML decodes a [x, y, w, h] sequence.
func (r *Rect) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var v []float64
	if err := unmarshal(&v); err != nil {
		return fmt.Errorf("rect: %w", err)
	}
	if len(v) != 4 {
		return fmt.Errorf("rect: expected [x, y, w, h], got %d values", len(v))
	}
	*r = Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}
	return nil
}

// ParseRect parses a "x,y,w,h" string into a Rect.
func ParseRect(s string) (Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Rect{}, fmt.Errorf("invalid rect %q: expected x,y,w,h", s)
	}
	var vals [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Rect{}, fmt.Errorf("invalid rect %q: %w", s, err)
		}
		vals[i] = v
	}
	return Rect{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}

// Size is an image size in pixels.
type Size struct {
	Width  int `yaml:"w" json:"w"`
	Height int `yaml:"h" json:"h"`
}
