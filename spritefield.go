package spritefield

import (
	"fmt"
	"strings"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication happens inside the surface adapters at submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the neutral tint used for normalized vector assets.
var ColorWhite = Color{1, 1, 1, 1}

// ColorBlack is the background used by the black-background override.
var ColorBlack = Color{0, 0, 0, 1}

// Vec2 is a 2D vector used for positions, offsets and sizes.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	minX := min(r.X, other.X)
	minY := min(r.Y, other.Y)
	maxX := max(r.X+r.Width, other.X+other.Width)
	maxY := max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Range is a closed min/max range used for clamping state fields.
type Range struct {
	Min, Max float64
}

// Clamp returns v limited to [r.Min, r.Max].
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// BlendMode selects a compositing operation for a tile. Surface adapters map
// each mode onto their backend; modes a backend cannot express fall back to
// BlendNormal.
type BlendMode uint8

const (
	BlendNormal     BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                         // additive / lighter
	BlendMultiply                    // multiply (only darkens)
	BlendScreen                      // screen (only brightens)
	BlendOverlay                     // multiply or screen depending on destination
	BlendDarken                      // per-channel minimum
	BlendLighten                     // per-channel maximum
	BlendDifference                  // absolute difference
)

var blendModeNames = [...]string{
	BlendNormal:     "normal",
	BlendAdd:        "add",
	BlendMultiply:   "multiply",
	BlendScreen:     "screen",
	BlendOverlay:    "overlay",
	BlendDarken:     "darken",
	BlendLighten:    "lighten",
	BlendDifference: "difference",
}

// autoBlendModes is the pool auto-blend draws from. Darken and difference
// are excluded because they tend to erase tiles on dark backgrounds.
var autoBlendModes = []BlendMode{BlendNormal, BlendAdd, BlendMultiply, BlendScreen, BlendOverlay, BlendLighten}

func (b BlendMode) String() string {
	return enumString(blendModeNames[:], int(b), "BlendMode")
}

// MarshalText implements encoding.TextMarshaler.
func (b BlendMode) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names decode to
// BlendNormal rather than failing.
func (b *BlendMode) UnmarshalText(text []byte) error {
	*b = BlendMode(parseEnum(blendModeNames[:], text, int(BlendNormal)))
	return nil
}

func (b BlendMode) valid() bool {
	return int(b) < len(blendModeNames)
}

// parseEnum is the shared lookup behind the enum UnmarshalText methods.
func parseEnum(names []string, text []byte, fallback int) int {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return fallback
}

func enumString(names []string, v int, kind string) string {
	if v >= 0 && v < len(names) {
		return names[v]
	}
	return fmt.Sprintf("%s(%d)", kind, v)
}
