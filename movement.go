package spritefield

import "math"

// MovementMode names one of the closed-form motion functions applied to
// tiles at draw time.
type MovementMode uint8

const (
	MovementNone MovementMode = iota // static tiles
	MovementPulse
	MovementDrift
	MovementRipple
	MovementZigzag
	MovementCascade
	MovementSpiral
	MovementComet
	MovementLinear
	MovementIsometric
	MovementTriangular

	movementModeCount
)

var movementModeNames = []string{
	"none", "pulse", "drift", "ripple", "zigzag", "cascade",
	"spiral", "comet", "linear", "isometric", "triangular",
}

func (m MovementMode) String() string {
	return enumString(movementModeNames, int(m), "MovementMode")
}

// MarshalText implements encoding.TextMarshaler.
func (m MovementMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names decode to
// MovementDrift.
func (m *MovementMode) UnmarshalText(text []byte) error {
	*m = MovementMode(parseEnum(movementModeNames, text, int(MovementDrift)))
	return nil
}

func (m MovementMode) valid() bool { return m < movementModeCount }

// MovementModes returns every mode in declaration order.
func MovementModes() []MovementMode {
	out := make([]MovementMode, movementModeCount)
	for i := range out {
		out[i] = MovementMode(i)
	}
	return out
}

// MovementProfile holds the per-mode calibration constants.
type MovementProfile struct {
	// Speed normalizes time so 100% speed feels alike across modes.
	Speed float64
	// ScaleCompensation enlarges tiles in modes with wide excursions.
	ScaleCompensation float64
	// TileCount multiplies the per-layer tile budget.
	TileCount float64
}

var movementProfiles = [movementModeCount]MovementProfile{
	MovementNone:       {Speed: 0, ScaleCompensation: 1, TileCount: 1},
	MovementPulse:      {Speed: 1.6, ScaleCompensation: 1, TileCount: 1},
	MovementDrift:      {Speed: 0.55, ScaleCompensation: 1, TileCount: 1},
	MovementRipple:     {Speed: 1.2, ScaleCompensation: 1, TileCount: 1.1},
	MovementZigzag:     {Speed: 0.9, ScaleCompensation: 1, TileCount: 1},
	MovementCascade:    {Speed: 0.4, ScaleCompensation: 1.05, TileCount: 1.15},
	MovementSpiral:     {Speed: 0.7, ScaleCompensation: 1.3, TileCount: 1.25},
	MovementComet:      {Speed: 0.65, ScaleCompensation: 1.15, TileCount: 1.2},
	MovementLinear:     {Speed: 0.8, ScaleCompensation: 1, TileCount: 1.1},
	MovementIsometric:  {Speed: 0.8, ScaleCompensation: 1, TileCount: 1.1},
	MovementTriangular: {Speed: 0.8, ScaleCompensation: 1, TileCount: 1.1},
}

// ModeProfile returns the calibration for m. Unknown modes use drift's.
func ModeProfile(m MovementMode) MovementProfile {
	if !m.valid() {
		m = MovementDrift
	}
	return movementProfiles[m]
}

// Allowed travel directions for the directional modes, in radians.
var (
	linearAngles     = []float64{0, math.Pi / 2}
	isometricAngles  = []float64{math.Pi / 6, 5 * math.Pi / 6, math.Pi / 2}
	triangularAngles = []float64{0, 2 * math.Pi / 3, 4 * math.Pi / 3}
)

// minMotionScale keeps pulsing tiles from collapsing to zero size.
const minMotionScale = 0.35

// MotionParams are the inputs of a single tile's motion sample.
type MotionParams struct {
	Time          float64 // seconds, already scaled by speed and tile jitter
	Phase         float64 // per-tile phase, see TilePhase
	MotionScale   float64 // intensity in [0,1]
	LayerIndex    int
	BaseUnit      float64 // canvas-relative pixel unit (min canvas side)
	LayerTileSize float64 // rendered pixel size of the tile
}

// MotionOffset is the positional and scale displacement of one tile.
type MotionOffset struct {
	X, Y  float64
	Scale float64
}

// TilePhase returns the phase for the index-th tile of a layer.
func TilePhase(index int) float64 {
	return float64(index) * 7
}

// OffsetsFor evaluates mode m for the given parameters. It is a pure
// function of its inputs.
func OffsetsFor(m MovementMode, p MotionParams) MotionOffset {
	prof := ModeProfile(m)
	t := p.Time*prof.Speed + p.Phase
	amp := p.BaseUnit * p.MotionScale * 0.12
	layer := float64(p.LayerIndex)
	out := MotionOffset{Scale: 1}

	switch m {
	case MovementNone:
	case MovementPulse:
		out.Scale = 1 + 0.45*p.MotionScale*math.Sin(t)
	case MovementDrift:
		out.X = math.Sin(t*0.7+layer) * amp
		out.Y = math.Cos(t*0.5+layer*1.3) * amp * 0.8
	case MovementRipple:
		// Radial breathing along a direction fixed by the phase.
		r := math.Sin(t) * amp
		out.X = math.Cos(p.Phase) * r
		out.Y = math.Sin(p.Phase) * r
		out.Scale = 1 + 0.15*p.MotionScale*math.Cos(t)
	case MovementZigzag:
		out.X = triangleWave(t/math.Pi) * amp
		out.Y = math.Sin(2*t) * amp * 0.35
	case MovementCascade:
		// Sawtooth fall with a gentle sideways sway.
		fall := math.Mod(t/(2*math.Pi), 1)
		if fall < 0 {
			fall++
		}
		out.Y = (fall*2 - 1) * amp * 1.5
		out.X = math.Sin(t*1.5) * amp * 0.25
		out.Scale = 1 - 0.2*p.MotionScale*math.Abs(fall*2-1)
	case MovementSpiral:
		radius := amp * (1.2 + 0.8*math.Sin(t*0.35))
		out.X = math.Cos(t) * radius
		out.Y = math.Sin(t) * radius
	case MovementComet:
		out.X = math.Cos(t) * amp * 1.8
		out.Y = math.Sin(t) * amp * 0.6
		out.Scale = 1 + 0.2*p.MotionScale*math.Cos(t)
	case MovementLinear:
		out.X, out.Y = directional(linearAngles, t, amp, p)
	case MovementIsometric:
		out.X, out.Y = directional(isometricAngles, t, amp, p)
	case MovementTriangular:
		out.X, out.Y = directional(triangularAngles, t, amp, p)
	}

	if out.Scale < minMotionScale {
		out.Scale = minMotionScale
	}
	return out
}

// directional picks an allowed angle from the phase and oscillates along it.
// Smaller tiles travel proportionally less (parallax).
func directional(angles []float64, t, amp float64, p MotionParams) (float64, float64) {
	idx := int(math.Abs(p.Phase)) % len(angles)
	parallax := 1.0
	if p.BaseUnit > 0 {
		parallax = Range{0.3, 1}.Clamp(p.LayerTileSize / (p.BaseUnit * 0.2))
	}
	dist := math.Sin(t) * amp * 1.5 * parallax
	sin, cos := math.Sincos(angles[idx])
	return cos * dist, sin * dist
}

// triangleWave maps x to a symmetric triangle wave in [-1, 1] with period 2.
func triangleWave(x float64) float64 {
	f := math.Mod(x, 2)
	if f < 0 {
		f += 2
	}
	if f < 1 {
		return f*2 - 1
	}
	return 3 - f*2
}
