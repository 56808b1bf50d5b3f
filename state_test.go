package spritefield

import (
	"fmt"
	"math"
	"reflect"
	"testing"
)

func TestDefaultStateIsNormalized(t *testing.T) {
	s := DefaultState()
	if !reflect.DeepEqual(s, s.Normalized()) {
		t.Errorf("DefaultState changes when normalized:\n%+v\n%+v", s, s.Normalized())
	}
}

func TestFieldClamp(t *testing.T) {
	tests := []struct {
		f    Field
		in   float64
		want float64
	}{
		{FieldScale, -5, 10},
		{FieldScale, 1000, 300},
		{FieldScale, 150, 150},
		{FieldRotationAmount, 999, 180},
		{FieldHueShift, -500, -180},
		{FieldStrokeWidth, 0, 0.5},
		{FieldDensity, math.NaN(), 0},
		{FieldDensity, math.Inf(1), 100},
		{FieldSeed, 42, 42}, // non-numeric: unchanged
	}
	for _, tt := range tests {
		assertNear(t, fmt.Sprintf("field %d clamp(%v)", tt.f, tt.in), tt.f.Clamp(tt.in), tt.want)
	}
}

func TestFieldRange(t *testing.T) {
	r, ok := FieldMotionSpeed.Range()
	if !ok || r.Min != 0 || r.Max != 200 {
		t.Errorf("MotionSpeed range = %+v, %v", r, ok)
	}
	if _, ok := FieldSprites.Range(); ok {
		t.Error("Sprites should not have a numeric range")
	}
}

func TestRequiresRecompose(t *testing.T) {
	for _, f := range []Field{FieldSeed, FieldDensity, FieldScale, FieldSprites, FieldOutlineMixed, FieldAspectRatio} {
		if !f.RequiresRecompose() {
			t.Errorf("%v should require recompose", f)
		}
	}
	for _, f := range []Field{FieldMotionSpeed, FieldMovementMode, FieldBlendMode, FieldLayerOpacity, FieldOutlineEnabled, FieldDepthOfField} {
		if f.RequiresRecompose() {
			t.Errorf("%v should be render-time only", f)
		}
	}
}

func TestNeedsRecompose(t *testing.T) {
	a := DefaultState()

	b := a.Clone()
	b.MotionSpeed = 180
	b.BlendMode = BlendScreen
	if NeedsRecompose(a, b) {
		t.Error("render-time changes flagged for recompose")
	}

	c := a.Clone()
	c.Sprites = append(c.Sprites, "shape:star")
	if !NeedsRecompose(a, c) {
		t.Error("sprite change not flagged for recompose")
	}
}

func TestNormalizedRepairs(t *testing.T) {
	s := DefaultState()
	s.Scale = -5
	s.RotationAmount = 999
	s.PaletteID = "missing"
	s.MovementMode = MovementMode(200)
	s.BlendMode = BlendMode(200)
	s.Sprites = []string{"  ", "shape:star", "shape:star", " icons/leaf.svg "}
	s.CustomPalette = []Color{{R: 2, G: -1, B: 0.5, A: 0}}

	n := s.Normalized()
	assertNear(t, "Scale", n.Scale, 10)
	assertNear(t, "RotationAmount", n.RotationAmount, 180)
	if n.PaletteID != DefaultPaletteID {
		t.Errorf("PaletteID = %q", n.PaletteID)
	}
	if n.MovementMode != MovementDrift {
		t.Errorf("MovementMode = %v", n.MovementMode)
	}
	if n.BlendMode != BlendNormal {
		t.Errorf("BlendMode = %v", n.BlendMode)
	}
	if want := []string{"shape:star", "icons/leaf.svg"}; !reflect.DeepEqual(n.Sprites, want) {
		t.Errorf("Sprites = %v, want %v", n.Sprites, want)
	}
	if want := (Color{R: 1, G: 0, B: 0.5, A: 1}); n.CustomPalette[0] != want {
		t.Errorf("CustomPalette[0] = %v, want %v", n.CustomPalette[0], want)
	}

	// The input is not modified.
	if s.Scale != -5 || len(s.Sprites) != 4 {
		t.Error("Normalized mutated its receiver")
	}
}

func TestNormalizedEmptySprites(t *testing.T) {
	s := DefaultState()
	s.Sprites = nil
	n := s.Normalized()
	if len(n.Sprites) != 1 || n.Sprites[0] != ShapeID(ShapeCircle) {
		t.Errorf("Sprites = %v, want [%s]", n.Sprites, ShapeID(ShapeCircle))
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := DefaultState()
	s.CustomPalette = []Color{ColorWhite}
	c := s.Clone()
	c.Sprites[0] = "shape:star"
	c.CustomPalette[0] = ColorBlack
	if s.Sprites[0] == "shape:star" || s.CustomPalette[0] == ColorBlack {
		t.Error("Clone shares slices with the original")
	}
}

func TestCanvasAspect(t *testing.T) {
	s := DefaultState()
	tests := []struct {
		aspect   AspectRatio
		fallback float64
		want     float64
	}{
		{AspectFree, 2, 2},
		{AspectFree, 0, 1},
		{AspectFree, math.NaN(), 1},
		{AspectSquare, 2, 1},
		{AspectLandscape, 1, 16.0 / 9.0},
		{AspectPortrait, 1, 9.0 / 16.0},
		{AspectClassic, 1, 4.0 / 3.0},
		{AspectCustom, 1, 1920.0 / 1080.0},
	}
	for _, tt := range tests {
		s.AspectRatio = tt.aspect
		assertNear(t, tt.aspect.String(), s.CanvasAspect(tt.fallback), tt.want)
	}
}

func TestOutlineMode(t *testing.T) {
	s := DefaultState()
	if s.OutlineMode() != OutlineOff {
		t.Errorf("default = %v", s.OutlineMode())
	}
	s.OutlineEnabled = true
	if s.OutlineMode() != OutlineOn {
		t.Errorf("enabled = %v", s.OutlineMode())
	}
	s.OutlineMixed = true
	if s.OutlineMode() != OutlineMixed {
		t.Errorf("mixed = %v", s.OutlineMode())
	}
	s.OutlineEnabled = false
	if s.OutlineMode() != OutlineOff {
		t.Errorf("mixed without enabled = %v", s.OutlineMode())
	}
}

func TestEnumText(t *testing.T) {
	var m MovementMode
	if err := m.UnmarshalText([]byte("spiral")); err != nil || m != MovementSpiral {
		t.Errorf("spiral: %v, %v", m, err)
	}
	if err := m.UnmarshalText([]byte("bogus")); err != nil || m != MovementDrift {
		t.Errorf("bogus: %v, %v", m, err)
	}

	var b BlendMode
	if err := b.UnmarshalText([]byte("screen")); err != nil || b != BlendScreen {
		t.Errorf("screen: %v, %v", b, err)
	}
	text, _ := BlendMultiply.MarshalText()
	if string(text) != "multiply" {
		t.Errorf("MarshalText = %q", text)
	}

	var a AspectRatio
	_ = a.UnmarshalText([]byte("portrait"))
	if a != AspectPortrait {
		t.Errorf("portrait: %v", a)
	}
}
