package spritefield

import (
	"math"
	"testing"
)

// hueDistance is the unsigned angular distance between two hues.
func hueDistance(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	return math.Min(d, 360-d)
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("ff8000")
	if err != nil {
		t.Fatal(err)
	}
	assertNear(t, "R", c.R, 1)
	assertWithin(t, "G", c.G, 128.0/255, 1e-9)
	assertNear(t, "B", c.B, 0)
	assertNear(t, "A", c.A, 1)
	if got := c.Hex(); got != "#ff8000" {
		t.Errorf("Hex() = %q", got)
	}

	if _, err := ParseHexColor("#zzzzzz"); err == nil {
		t.Error("expected error for invalid hex")
	}
}

func TestShiftHueWraps(t *testing.T) {
	c := FromHSL(HSL{H: 350, S: 1, L: 0.5}, 1)
	got := ShiftHue(c, 20).ToHSL()
	if d := hueDistance(got.H, 10); d > 0.5 {
		t.Errorf("hue = %v, want ~10", got.H)
	}

	back := ShiftHue(c, -360).ToHSL()
	if d := hueDistance(back.H, 350); d > 0.5 {
		t.Errorf("full turn hue = %v, want ~350", back.H)
	}
}

func TestShiftHueZeroIsIdentity(t *testing.T) {
	c := Color{0.2, 0.4, 0.6, 0.8}
	if ShiftHue(c, 0) != c {
		t.Error("ShiftHue(c, 0) changed the color")
	}
}

func TestShiftHuePreservesAlpha(t *testing.T) {
	c := Color{1, 0, 0, 0.25}
	assertNear(t, "alpha", ShiftHue(c, 90).A, 0.25)
}

func TestJitterZeroVariance(t *testing.T) {
	c := Color{0.3, 0.5, 0.7, 1}
	if got := Jitter(c, 0, NewStream(1)); got != c {
		t.Errorf("Jitter with zero variance = %v, want %v", got, c)
	}
}

func TestJitterBounded(t *testing.T) {
	c := FromHSL(HSL{H: 200, S: 0.5, L: 0.5}, 1)
	r := NewStream(9)
	for i := 0; i < 200; i++ {
		h := Jitter(c, 1, r).ToHSL()
		if d := hueDistance(h.H, 200); d > 30.5 {
			t.Fatalf("hue drift %v exceeds 30", d)
		}
		if math.Abs(h.S-0.5) > 0.2+1e-6 || math.Abs(h.L-0.5) > 0.15+1e-6 {
			t.Fatalf("saturation/lightness drift too large: %+v", h)
		}
	}
}

func TestApplyBrightness(t *testing.T) {
	c := FromHSL(HSL{H: 120, S: 0.6, L: 0.4}, 1)
	if ApplyBrightness(c, 100) != c {
		t.Error("100% brightness changed the color")
	}
	black := ApplyBrightness(c, 0)
	assertNear(t, "black L", black.ToHSL().L, 0)

	white := ApplyBrightness(c, 200)
	assertWithin(t, "white L", white.ToHSL().L, 1, 1e-9)

	dim := ApplyBrightness(c, 50).ToHSL()
	assertWithin(t, "dim L", dim.L, 0.2, 1e-6)
}

func TestInterpolateColorEndpoints(t *testing.T) {
	a := Color{1, 0, 0, 1}
	b := Color{0, 0, 1, 0.5}
	if InterpolateColor(a, b, 0) != a {
		t.Error("t=0 should return a")
	}
	if InterpolateColor(a, b, 1) != b {
		t.Error("t=1 should return b")
	}
	if InterpolateColor(a, b, -3) != a || InterpolateColor(a, b, 7) != b {
		t.Error("t is not clamped")
	}
	assertWithin(t, "mid alpha", InterpolateColor(a, b, 0.5).A, 0.75, 1e-9)
}

func TestInterpolateColorShortestArc(t *testing.T) {
	a := FromHSL(HSL{H: 350, S: 1, L: 0.5}, 1)
	b := FromHSL(HSL{H: 10, S: 1, L: 0.5}, 1)
	mid := InterpolateColor(a, b, 0.5).ToHSL()
	if d := hueDistance(mid.H, 0); d > 0.5 {
		t.Errorf("mid hue = %v, want ~0 (through red, not cyan)", mid.H)
	}
}

func TestInterpolatePalette(t *testing.T) {
	a := []Color{{1, 0, 0, 1}, {0, 1, 0, 1}}
	b := []Color{{0, 0, 1, 1}, {1, 1, 1, 1}, {0, 0, 0, 1}}

	start := InterpolatePalette(a, b, 0)
	if len(start) != 3 {
		t.Fatalf("len = %d, want 3", len(start))
	}
	// Shorter palettes repeat by index.
	want := []Color{a[0], a[1], a[0]}
	for i := range want {
		if start[i] != want[i] {
			t.Errorf("t=0 [%d] = %v, want %v", i, start[i], want[i])
		}
	}
	end := InterpolatePalette(a, b, 1)
	for i := range b {
		if end[i] != b[i] {
			t.Errorf("t=1 [%d] = %v, want %v", i, end[i], b[i])
		}
	}

	if got := InterpolatePalette(nil, b, 0.5); len(got) != len(b) {
		t.Errorf("empty a: len = %d", len(got))
	}
}

func TestBlendedPaletteID(t *testing.T) {
	if got := BlendedPaletteID("aurora", "ember", 0.49); got != "aurora" {
		t.Errorf("t=0.49: %q", got)
	}
	if got := BlendedPaletteID("aurora", "ember", 0.5); got != "ember" {
		t.Errorf("t=0.5: %q", got)
	}
}

func TestBuiltinPalettes(t *testing.T) {
	ids := PaletteIDs()
	if len(ids) < 8 {
		t.Fatalf("got %d palettes", len(ids))
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Errorf("ids not sorted: %v", ids)
		}
	}
	for _, id := range ids {
		p, ok := Palette(id)
		if !ok || len(p) == 0 {
			t.Errorf("palette %q empty", id)
		}
	}
	if _, ok := Palette("no-such-palette"); ok {
		t.Error("unknown palette reported as found")
	}
	def, _ := Palette(DefaultPaletteID)
	if got := ResolvePalette("no-such-palette"); len(got) != len(def) {
		t.Error("ResolvePalette should fall back to the default palette")
	}
}
