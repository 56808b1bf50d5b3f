package spritefield

import (
	"slices"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TransitionKind selects how ApplyState moves to a new state.
type TransitionKind uint8

const (
	// TransitionInstant swaps the state and recomposes immediately.
	TransitionInstant TransitionKind = iota
	// TransitionFade crossfades the old and new compositions through a
	// frame alpha that dips to zero at the midpoint.
	TransitionFade
	// TransitionSmooth recomposes every frame from the interpolated state.
	TransitionSmooth
)

// Default transition durations.
const (
	DefaultFadeDuration   = time.Second
	DefaultSmoothDuration = 2500 * time.Millisecond
)

var transitionKindNames = []string{"instant", "fade", "smooth"}

func (k TransitionKind) String() string {
	return enumString(transitionKindNames, int(k), "TransitionKind")
}

// MarshalText implements encoding.TextMarshaler.
func (k TransitionKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names decode
// to TransitionInstant.
func (k *TransitionKind) UnmarshalText(text []byte) error {
	*k = TransitionKind(parseEnum(transitionKindNames, text, int(TransitionInstant)))
	return nil
}

// DefaultDuration returns the standard duration for k.
func (k TransitionKind) DefaultDuration() time.Duration {
	switch k {
	case TransitionFade:
		return DefaultFadeDuration
	case TransitionSmooth:
		return DefaultSmoothDuration
	}
	return 0
}

// InterpolateOptions controls Interpolate.
type InterpolateOptions struct {
	// Ease passes t through a symmetric ease-in-out curve.
	Ease bool
	// InterpolatePalettes cross-blends differing palettes instead of
	// switching at the midpoint.
	InterpolatePalettes bool
	// InterpolateDiscreteValues switches discrete fields at t=0.5. When
	// false they take the target value immediately.
	InterpolateDiscreteValues bool
}

// EaseInOutQuad is t<0.5 ? 2t² : -1+(4-2t)t for t in [0,1].
func EaseInOutQuad(t float64) float64 {
	return float64(ease.InOutQuad(float32(clamp01(t)), 0, 1, 1))
}

// Interpolate returns the state between from and to at t in [0,1].
// Continuous fields are lerped on the (optionally eased) t. Hue fields and
// the hue shift take the shortest arc.
func Interpolate(from, to GeneratorState, t float64, opts InterpolateOptions) GeneratorState {
	t = clamp01(t)
	e := t
	if opts.Ease {
		e = EaseInOutQuad(t)
	}

	out := to.Clone()
	for f := Field(0); f < fieldCount; f++ {
		dst := out.floatField(f)
		if dst == nil {
			continue
		}
		a, b := *from.floatField(f), *to.floatField(f)
		switch {
		case a == b:
			*dst = a
		case f == FieldBackgroundHue:
			*dst = lerpHue(a, b, e)
		case f == FieldHueShift:
			*dst = lerpHueShift(a, b, e)
		default:
			*dst = lerp(a, b, e)
		}
	}

	if opts.InterpolateDiscreteValues && t < 0.5 {
		copyDiscrete(&out, from)
	}

	pa, pb := from.Palette(), to.Palette()
	switch {
	case opts.InterpolatePalettes && !slices.Equal(pa, pb):
		out.PaletteID = BlendedPaletteID(from.PaletteID, to.PaletteID, t)
		out.CustomPalette = InterpolatePalette(pa, pb, e)
	case t < 0.5:
		out.PaletteID = from.PaletteID
		out.CustomPalette = slices.Clone(from.CustomPalette)
	default:
		out.PaletteID = to.PaletteID
		out.CustomPalette = slices.Clone(to.CustomPalette)
	}
	return out
}

// lerpHueShift interpolates a signed hue offset along the shortest arc and
// keeps the result in [-180, 180].
func lerpHueShift(a, b, t float64) float64 {
	h := a + hueDelta(a, b)*t
	if h > 180 {
		h -= 360
	} else if h < -180 {
		h += 360
	}
	return h
}

// copyDiscrete copies every non-numeric field except the palette from src.
func copyDiscrete(dst *GeneratorState, src GeneratorState) {
	dst.Seed = src.Seed
	dst.MovementMode = src.MovementMode
	dst.RotationEnabled = src.RotationEnabled
	dst.RotationAnimated = src.RotationAnimated
	dst.BlendMode = src.BlendMode
	dst.BlendAuto = src.BlendAuto
	dst.Sprites = slices.Clone(src.Sprites)
	dst.RandomSprites = src.RandomSprites
	dst.BackgroundMode = src.BackgroundMode
	dst.BackgroundGradient = src.BackgroundGradient
	dst.FillMode = src.FillMode
	dst.FillGradientRandom = src.FillGradientRandom
	dst.DepthOfField = src.DepthOfField
	dst.OutlineEnabled = src.OutlineEnabled
	dst.OutlineMixed = src.OutlineMixed
	dst.HueRotation = src.HueRotation
	dst.PaletteCycling = src.PaletteCycling
	dst.BackgroundHueRotation = src.BackgroundHueRotation
	dst.AspectRatio = src.AspectRatio
}

// Progress returns elapsed/duration clamped to [0,1]. A non-positive
// duration is already complete.
func Progress(elapsed, duration time.Duration) float64 {
	if duration <= 0 {
		return 1
	}
	return clamp01(float64(elapsed) / float64(duration))
}

// FadeAlpha is the frame alpha of a fade at progress p: 1→0 over the first
// half and 0→1 over the second.
func FadeAlpha(p float64) float64 {
	p = clamp01(p)
	if p < 0.5 {
		v, _ := gween.New(1, 0, 0.5, ease.Linear).Set(float32(p))
		return float64(v)
	}
	v, _ := gween.New(0, 1, 0.5, ease.Linear).Set(float32(p - 0.5))
	return float64(v)
}

// Transition is an in-progress move from one state to another. Times are on
// the controller's animation clock.
type Transition struct {
	Active   bool
	From, To GeneratorState
	Start    time.Duration
	Duration time.Duration
	Kind     TransitionKind
}

// Progress returns the transition's progress at now.
func (tr *Transition) Progress(now time.Duration) float64 {
	return Progress(now-tr.Start, tr.Duration)
}

// options returns the interpolation policy for the transition kind.
func (tr *Transition) options() InterpolateOptions {
	if tr.Kind == TransitionSmooth {
		return InterpolateOptions{Ease: true, InterpolatePalettes: true, InterpolateDiscreteValues: true}
	}
	return InterpolateOptions{Ease: true}
}

// State returns the interpolated state at progress p.
func (tr *Transition) State(p float64) GeneratorState {
	return Interpolate(tr.From, tr.To, p, tr.options())
}
