package spritefield

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertWithin(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %v, want %v ± %v", name, got, want, tol)
	}
}

func assertMatrix(t *testing.T, name string, got, want Affine) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

func TestMultiplyIdentity(t *testing.T) {
	m := Affine{2, 0.5, -1, 3, 10, 20}
	assertMatrix(t, "I*m", Identity.Multiply(m), m)
	assertMatrix(t, "m*I", m.Multiply(Identity), m)
}

func TestMultiplyOrder(t *testing.T) {
	// Scale first, then translate.
	m := Translation(10, 20).Multiply(Scaling(2, 2))
	x, y := m.Apply(1, 1)
	assertNear(t, "x", x, 12)
	assertNear(t, "y", y, 22)
}

func TestRotation90(t *testing.T) {
	got := Rotation(math.Pi / 2)
	// cos(90)=0, sin(90)=1 → a=0, b=1, c=-1, d=0
	assertMatrix(t, "rot90", got, Affine{0, 1, -1, 0, 0, 0})
	x, y := got.Apply(1, 0)
	assertNear(t, "x", x, 0)
	assertNear(t, "y", y, 1)
}

func TestInvertRoundTrip(t *testing.T) {
	m := Translation(5, -3).Multiply(Rotation(0.7)).Multiply(Scaling(2, 4))
	assertMatrix(t, "m*inv", m.Multiply(m.Invert()), Identity)
}

func TestInvertSingular(t *testing.T) {
	assertMatrix(t, "singular", Scaling(0, 1).Invert(), Identity)
}

func TestMeanScale(t *testing.T) {
	assertNear(t, "uniform", Scaling(3, 3).MeanScale(), 3)
	assertNear(t, "rotated", Rotation(1.2).Multiply(Scaling(2, 2)).MeanScale(), 2)
	assertNear(t, "anisotropic", Scaling(2, 8).MeanScale(), 4)
}

func TestTileTransformMatchesComposition(t *testing.T) {
	want := Translation(40, 60).Multiply(Rotation(0.3)).Multiply(Scaling(25, 25))
	assertMatrix(t, "tile", tileTransform(40, 60, 25, 25, 0.3), want)
}

func TestTransformStackZeroValue(t *testing.T) {
	var s TransformStack
	assertMatrix(t, "matrix", s.Matrix(), Identity)
	assertNear(t, "alpha", s.Alpha(), 1)
	if s.BlendMode() != BlendNormal {
		t.Errorf("blend = %v, want normal", s.BlendMode())
	}
}

func TestTransformStackSaveRestore(t *testing.T) {
	var s TransformStack
	s.Save()
	s.Translate(10, 0)
	s.Scale(2, 2)
	s.SetAlpha(0.5)
	s.SetBlendMode(BlendScreen)
	s.SetBlur(3)

	x, y := s.Matrix().Apply(1, 1)
	assertNear(t, "x", x, 12)
	assertNear(t, "y", y, 2)
	assertNear(t, "alpha", s.Alpha(), 0.5)
	assertNear(t, "blur", s.Blur(), 3)

	s.Restore()
	assertMatrix(t, "restored", s.Matrix(), Identity)
	assertNear(t, "alpha", s.Alpha(), 1)
	assertNear(t, "blur", s.Blur(), 0)
	if s.BlendMode() != BlendNormal {
		t.Errorf("blend = %v, want normal", s.BlendMode())
	}
}

func TestTransformStackRestoreEmpty(t *testing.T) {
	var s TransformStack
	s.Translate(5, 5)
	s.Restore()
	x, _ := s.Matrix().Apply(0, 0)
	assertNear(t, "x", x, 5)
}

func TestTransformStackClamps(t *testing.T) {
	var s TransformStack
	s.SetAlpha(3)
	assertNear(t, "alpha", s.Alpha(), 1)
	s.SetBlur(-2)
	assertNear(t, "blur", s.Blur(), 0)
}

func TestParseTransform(t *testing.T) {
	tests := []struct {
		in           string
		x, y         float64
		wantX, wantY float64
	}{
		{"translate(10,20) scale(2)", 1, 1, 12, 22},
		{"translate(5)", 1, 1, 6, 1},
		{"scale(2 3)", 1, 1, 2, 3},
		{"rotate(90)", 1, 0, 0, 1},
		{"rotate(180 5 5)", 0, 0, 10, 10},
		{"matrix(1 0 0 1 7 8)", 0, 0, 7, 8},
	}
	for _, tt := range tests {
		m, err := ParseTransform(tt.in)
		if err != nil {
			t.Fatalf("ParseTransform(%q): %v", tt.in, err)
		}
		x, y := m.Apply(tt.x, tt.y)
		assertNear(t, tt.in+" x", x, tt.wantX)
		assertNear(t, tt.in+" y", y, tt.wantY)
	}
}

func TestParseTransformErrors(t *testing.T) {
	for _, in := range []string{"rotate(abc)", "wobble(1)", "scale(1,2,3)", "translate(1"} {
		if _, err := ParseTransform(in); err == nil {
			t.Errorf("ParseTransform(%q) succeeded, want error", in)
		}
	}
}
