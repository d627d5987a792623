package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an 8-bit RGBA color. It round-trips through text as "#rrggbb"
// or "#rrggbbaa".
type Color struct {
	R, G, B, A uint8
}

// Black is the fallback text color.
var Black = Color{A: 0xff}

// Hex returns the lowercase #rrggbb form. Alpha is dropped.
func (c Color) Hex() string {
	rgb := int(c.R)<<16 | int(c.G)<<8 | int(c.B)
	return fmt.Sprintf("#%06x", rgb)
}

// RGBA implements image/color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	a = uint32(c.A)
	a |= a << 8
	return r, g, b, a
}

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// MarshalText encodes the color as #rrggbbaa, or #rrggbb when opaque.
func (c Color) MarshalText() ([]byte, error) {
	if c.A == 0xff {
		return []byte(c.Hex()), nil
	}
	return []byte(fmt.Sprintf("%s%02x", c.Hex(), c.A)), nil
}

// UnmarshalText decodes any form accepted by ParseColor.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Font describes the typeface of a text element.
type Font struct {
	Name      string  `yaml:"name,omitempty" json:"name,omitempty"`
	PointSize float64 `yaml:"size,omitempty" json:"size,omitempty"`
}

// TextAlign is the horizontal alignment of a text element.
type TextAlign string

const (
	AlignNatural   TextAlign = "natural"
	AlignLeft      TextAlign = "left"
	AlignRight     TextAlign = "right"
	AlignCenter    TextAlign = "center"
	AlignJustified TextAlign = "justified"
)

// CSS maps the alignment to a CSS text-align value.
func (a TextAlign) CSS() string {
	switch a {
	case AlignRight:
		return "right"
	case AlignCenter:
		return "center"
	case AlignJustified:
		return "justify"
	default:
		return "left"
	}
}
