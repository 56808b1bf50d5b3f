package spritefield

import (
	"math"
	"testing"
)

func TestMovementNoneIsStatic(t *testing.T) {
	for _, tm := range []float64{0, 0.7, 13, 1e4} {
		off := OffsetsFor(MovementNone, MotionParams{
			Time: tm, Phase: 21, MotionScale: 1, LayerIndex: 2, BaseUnit: 500, LayerTileSize: 60,
		})
		if off != (MotionOffset{Scale: 1}) {
			t.Errorf("t=%v: %+v, want no offset", tm, off)
		}
	}
}

func TestMovementZeroIntensity(t *testing.T) {
	for _, m := range MovementModes() {
		off := OffsetsFor(m, MotionParams{Time: 3.3, Phase: 14, BaseUnit: 500, LayerTileSize: 60})
		assertNear(t, m.String()+" X", off.X, 0)
		assertNear(t, m.String()+" Y", off.Y, 0)
		assertNear(t, m.String()+" Scale", off.Scale, 1)
	}
}

func TestMovementScaleFloor(t *testing.T) {
	for _, m := range MovementModes() {
		for i := 0; i < 400; i++ {
			off := OffsetsFor(m, MotionParams{
				Time: float64(i) * 0.05, Phase: TilePhase(i % 7), MotionScale: 1,
				LayerIndex: i % 3, BaseUnit: 800, LayerTileSize: 80,
			})
			if off.Scale < minMotionScale {
				t.Fatalf("%v: scale %v below floor", m, off.Scale)
			}
			if math.IsNaN(off.X) || math.IsNaN(off.Y) {
				t.Fatalf("%v: NaN offset", m)
			}
		}
	}
}

func TestMovementDeterministic(t *testing.T) {
	p := MotionParams{Time: 4.2, Phase: 35, MotionScale: 0.6, LayerIndex: 1, BaseUnit: 720, LayerTileSize: 90}
	for _, m := range MovementModes() {
		if OffsetsFor(m, p) != OffsetsFor(m, p) {
			t.Errorf("%v is not a pure function of its inputs", m)
		}
	}
}

func TestMovementAmplitudeScalesWithIntensity(t *testing.T) {
	half := OffsetsFor(MovementDrift, MotionParams{Time: 1, Phase: 7, MotionScale: 0.5, BaseUnit: 600})
	full := OffsetsFor(MovementDrift, MotionParams{Time: 1, Phase: 7, MotionScale: 1, BaseUnit: 600})
	assertNear(t, "X", full.X, 2*half.X)
	assertNear(t, "Y", full.Y, 2*half.Y)
}

func TestDirectionalParallax(t *testing.T) {
	p := MotionParams{Time: 0.3, Phase: 0, MotionScale: 1, BaseUnit: 100}

	p.LayerTileSize = 1 // far below 20% of the base unit: clamped to 0.3
	small := OffsetsFor(MovementLinear, p)
	p.LayerTileSize = 50 // above 20%: clamped to 1
	large := OffsetsFor(MovementLinear, p)

	if large.X == 0 {
		t.Fatal("expected horizontal travel")
	}
	assertNear(t, "small X", small.X, large.X*0.3)
	assertNear(t, "Y", large.Y, 0)
}

func TestDirectionalAngles(t *testing.T) {
	// Phase selects the travel axis; linear phase 1 moves vertically.
	off := OffsetsFor(MovementLinear, MotionParams{Time: 0.5, Phase: 1, MotionScale: 1, BaseUnit: 100, LayerTileSize: 50})
	if math.Abs(off.X) > 1e-9 || off.Y == 0 {
		t.Errorf("phase 1 offset = %+v, want vertical", off)
	}
}

func TestModeProfileFallback(t *testing.T) {
	if ModeProfile(MovementMode(99)) != ModeProfile(MovementDrift) {
		t.Error("unknown mode should use drift's profile")
	}
	if ModeProfile(MovementSpiral).ScaleCompensation <= 1 {
		t.Error("spiral should compensate scale")
	}
}

func TestTilePhase(t *testing.T) {
	assertNear(t, "phase 3", TilePhase(3), 21)
}

func TestTriangleWave(t *testing.T) {
	for _, tt := range []struct{ x, want float64 }{
		{0, -1}, {0.5, 0}, {1, 1}, {1.5, 0}, {2, -1}, {-1, 1},
	} {
		assertNear(t, "triangleWave", triangleWave(tt.x), tt.want)
	}
}
