package spritefield

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// HSL is a color in hue (degrees, [0,360)), saturation and lightness ([0,1]).
type HSL struct {
	H, S, L float64
}

// ToHSL converts c to HSL, dropping alpha.
func (c Color) ToHSL() HSL {
	h, s, l := colorful.Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return HSL{H: h, S: s, L: l}
}

// FromHSL converts h to an RGB color with the given alpha.
func FromHSL(h HSL, alpha float64) Color {
	c := colorful.Hsl(wrapHue(h.H), clamp01(h.S), clamp01(h.L)).Clamped()
	return Color{R: c.R, G: c.G, B: c.B, A: alpha}
}

// ParseHexColor parses "#rrggbb" (the leading # is optional).
func ParseHexColor(s string) (Color, error) {
	if len(s) > 0 && s[0] != '#' {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: 1}, nil
}

// Hex formats the color as "#rrggbb", ignoring alpha.
func (c Color) Hex() string {
	return colorful.Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}.Hex()
}

// MarshalText implements encoding.TextMarshaler so palettes serialize as hex.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseHexColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ShiftHue rotates the hue of c by deg degrees.
func ShiftHue(c Color, deg float64) Color {
	if deg == 0 {
		return c
	}
	h := c.ToHSL()
	h.H += deg
	return FromHSL(h, c.A)
}

// Jitter perturbs hue, saturation and lightness independently. Each channel
// draws once from rng, scaled by variance in [0,1].
func Jitter(c Color, variance float64, rng *Stream) Color {
	dh := (rng.Float64()*2 - 1) * variance * 30
	ds := (rng.Float64()*2 - 1) * variance * 0.2
	dl := (rng.Float64()*2 - 1) * variance * 0.15
	if variance <= 0 {
		return c
	}
	h := c.ToHSL()
	h.H += dh
	h.S = clamp01(h.S + ds)
	h.L = clamp01(h.L + dl)
	return FromHSL(h, c.A)
}

// ApplyBrightness scales lightness by pct/100: below 100 darkens toward
// black, above 100 lightens toward white. pct is clamped to [0, 200].
func ApplyBrightness(c Color, pct float64) Color {
	f := Range{0, 200}.Clamp(pct) / 100
	if f == 1 {
		return c
	}
	h := c.ToHSL()
	if f < 1 {
		h.L *= f
	} else {
		h.L += (1 - h.L) * (f - 1)
	}
	return FromHSL(h, c.A)
}

// InterpolateColor blends a toward b in HSL space. Hue follows the shortest
// arc; t is clamped to [0,1].
func InterpolateColor(a, b Color, t float64) Color {
	t = clamp01(t)
	if t == 0 {
		return a
	}
	if t == 1 {
		return b
	}
	ha, hb := a.ToHSL(), b.ToHSL()
	// Achromatic endpoints carry no meaningful hue; borrow the other side's.
	if ha.S == 0 {
		ha.H = hb.H
	}
	if hb.S == 0 {
		hb.H = ha.H
	}
	return FromHSL(HSL{
		H: lerpHue(ha.H, hb.H, t),
		S: lerp(ha.S, hb.S, t),
		L: lerp(ha.L, hb.L, t),
	}, lerp(a.A, b.A, t))
}

// InterpolatePalette pairs colors by index modulo each palette's length and
// blends every pair. The result has the longer palette's length.
func InterpolatePalette(a, b []Color, t float64) []Color {
	if len(a) == 0 {
		return append([]Color(nil), b...)
	}
	if len(b) == 0 {
		return append([]Color(nil), a...)
	}
	n := max(len(a), len(b))
	out := make([]Color, n)
	for i := range out {
		out[i] = InterpolateColor(a[i%len(a)], b[i%len(b)], t)
	}
	return out
}

// BlendedPaletteID is the palette id reported while blending from a to b:
// a discrete switch at the midpoint.
func BlendedPaletteID(a, b string, t float64) string {
	if t < 0.5 {
		return a
	}
	return b
}

// hueDelta returns the signed shortest angular distance from a to b in
// [-180, 180].
func hueDelta(a, b float64) float64 {
	d := math.Mod(b-a, 360)
	if d > 180 {
		d -= 360
	} else if d < -180 {
		d += 360
	}
	return d
}

func lerpHue(a, b, t float64) float64 {
	return wrapHue(a + hueDelta(a, b)*t)
}

func wrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
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
