package thicket

import (
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/colornames"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when a backend converts vertices for drawing.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default shape color.
var ColorWhite = Color{1, 1, 1, 1}

// ColorFromRGBA converts any image/color value to a Color.
func ColorFromRGBA(c color.Color) Color {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return Color{}
	}
	// RGBA() is premultiplied 16-bit; undo the premultiplication.
	fa := float64(a)
	return Color{
		R: float64(r) / fa,
		G: float64(g) / fa,
		B: float64(b) / fa,
		A: fa / 0xffff,
	}
}

// ColorFromName looks up an SVG 1.1 color name such as "cornflowerblue".
// The lookup is case-insensitive.
func ColorFromName(name string) (Color, bool) {
	c, ok := colornames.Map[strings.ToLower(name)]
	if !ok {
		return Color{}, false
	}
	return ColorFromRGBA(c), true
}

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector used for positions, offsets, sizes, and directions
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Rect is an axis-aligned rectangle. In world space Y increases upward, so
// (X, Y) is the bottom-left corner; in window space it is the top-left.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// PoolKind selects which batch pool a primitive is routed into.
type PoolKind uint8

const (
	PoolDynamic PoolKind = iota // rebuilt every frame, flushed on overflow
	PoolStatic                  // retained across frames until ClearStatic
)

func (k PoolKind) String() string {
	switch k {
	case PoolDynamic:
		return "dynamic"
	case PoolStatic:
		return "static"
	default:
		return "unknown"
	}
}

// TexturePolicy controls how a batch allocates texture slots.
type TexturePolicy uint8

const (
	// TextureDedup reuses the slot of a texture already bound in the batch.
	TextureDedup TexturePolicy = iota
	// TexturePerPrimitive gives every textured primitive its own slot, so a
	// batch holds at most as many sprites as there are texture slots.
	TexturePerPrimitive
)

func (p TexturePolicy) String() string {
	switch p {
	case TextureDedup:
		return "dedup"
	case TexturePerPrimitive:
		return "per-primitive"
	default:
		return "unknown"
	}
}

// MarshalText encodes the policy for config files.
func (p TexturePolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText accepts "dedup" or "per-primitive".
func (p *TexturePolicy) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "dedup", "":
		*p = TextureDedup
	case "per-primitive", "perprimitive":
		*p = TexturePerPrimitive
	default:
		return fmt.Errorf("thicket: texture policy %q: %w", text, ErrInvalidConfig)
	}
	return nil
}

// ColorMode selects how per-primitive colors reach the renderer.
type ColorMode uint8

const (
	ColorVertex  ColorMode = iota // color written into every vertex
	ColorPalette                  // one palette entry per primitive, vertices carry the index
)

func (m ColorMode) String() string {
	switch m {
	case ColorVertex:
		return "vertex"
	case ColorPalette:
		return "palette"
	default:
		return "unknown"
	}
}

// MarshalText encodes the mode for config files.
func (m ColorMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText accepts "vertex" or "palette".
func (m *ColorMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "vertex", "":
		*m = ColorVertex
	case "palette":
		*m = ColorPalette
	default:
		return fmt.Errorf("thicket: color mode %q: %w", text, ErrInvalidConfig)
	}
	return nil
}
