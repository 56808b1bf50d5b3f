package spritefield

import (
	"math"
	"slices"
	"strings"
)

// BackgroundMode selects how the canvas background color is derived.
type BackgroundMode uint8

const (
	BackgroundAuto    BackgroundMode = iota // darkened first palette color
	BackgroundSolid                         // BackgroundHue at BackgroundBrightness
	BackgroundPalette                       // last palette color at BackgroundBrightness
	BackgroundBlack                         // always black
)

var backgroundModeNames = []string{"auto", "solid", "palette", "black"}

func (m BackgroundMode) String() string {
	return enumString(backgroundModeNames, int(m), "BackgroundMode")
}

// MarshalText implements encoding.TextMarshaler.
func (m BackgroundMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names decode to
// BackgroundAuto.
func (m *BackgroundMode) UnmarshalText(text []byte) error {
	*m = BackgroundMode(parseEnum(backgroundModeNames, text, int(BackgroundAuto)))
	return nil
}

// FillMode selects solid or gradient tile fills.
type FillMode uint8

const (
	FillSolid FillMode = iota
	FillGradient
)

var fillModeNames = []string{"solid", "gradient"}

func (m FillMode) String() string { return enumString(fillModeNames, int(m), "FillMode") }

// MarshalText implements encoding.TextMarshaler.
func (m FillMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *FillMode) UnmarshalText(text []byte) error {
	*m = FillMode(parseEnum(fillModeNames, text, int(FillSolid)))
	return nil
}

// OutlineMode is the effective outline treatment, derived from the
// OutlineEnabled and OutlineMixed state flags.
type OutlineMode uint8

const (
	OutlineOff OutlineMode = iota
	OutlineOn
	OutlineMixed
)

var outlineModeNames = []string{"off", "on", "mixed"}

func (m OutlineMode) String() string { return enumString(outlineModeNames, int(m), "OutlineMode") }

// AspectRatio selects the canvas proportions.
type AspectRatio uint8

const (
	AspectFree      AspectRatio = iota // follow the surface
	AspectSquare                       // 1:1
	AspectLandscape                    // 16:9
	AspectPortrait                     // 9:16
	AspectClassic                      // 4:3
	AspectCustom                       // CustomWidth:CustomHeight
)

var aspectRatioNames = []string{"free", "square", "landscape", "portrait", "classic", "custom"}

func (a AspectRatio) String() string { return enumString(aspectRatioNames, int(a), "AspectRatio") }

// MarshalText implements encoding.TextMarshaler.
func (a AspectRatio) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AspectRatio) UnmarshalText(text []byte) error {
	*a = AspectRatio(parseEnum(aspectRatioNames, text, int(AspectFree)))
	return nil
}

// GeneratorState is the complete, serializable configuration of a
// composition. Treat values as immutable: copy, modify, and hand the copy to
// Controller.ApplyState. Numeric fields are clamped when written through the
// Controller or Normalized, never when read.
type GeneratorState struct {
	Seed string `yaml:"seed"`

	PaletteID       string  `yaml:"palette"`
	CustomPalette   []Color `yaml:"customPalette,omitempty"`
	PaletteVariance float64 `yaml:"paletteVariance"`
	HueShift        float64 `yaml:"hueShift"`

	Density     float64 `yaml:"density"`
	Scale       float64 `yaml:"scale"`
	ScaleSpread float64 `yaml:"scaleSpread"`

	MotionIntensity float64      `yaml:"motionIntensity"`
	MotionSpeed     float64      `yaml:"motionSpeed"`
	MovementMode    MovementMode `yaml:"movementMode"`

	RotationEnabled  bool    `yaml:"rotationEnabled"`
	RotationAmount   float64 `yaml:"rotationAmount"`
	RotationSpeed    float64 `yaml:"rotationSpeed"`
	RotationAnimated bool    `yaml:"rotationAnimated"`

	BlendMode    BlendMode `yaml:"blendMode"`
	BlendAuto    bool      `yaml:"blendAuto"`
	LayerOpacity float64   `yaml:"layerOpacity"`

	Sprites       []string `yaml:"sprites"`
	RandomSprites bool     `yaml:"randomSprites"`

	BackgroundMode          BackgroundMode `yaml:"backgroundMode"`
	BackgroundHue           float64        `yaml:"backgroundHue"`
	BackgroundBrightness    float64        `yaml:"backgroundBrightness"`
	BackgroundGradient      bool           `yaml:"backgroundGradient"`
	BackgroundGradientAngle float64        `yaml:"backgroundGradientAngle"`

	FillMode           FillMode `yaml:"fillMode"`
	FillGradientAngle  float64  `yaml:"fillGradientAngle"`
	FillGradientRandom bool     `yaml:"fillGradientRandom"`

	DepthOfField  bool    `yaml:"depthOfField"`
	DepthFocus    float64 `yaml:"depthFocus"`
	DepthStrength float64 `yaml:"depthStrength"`

	OutlineEnabled bool    `yaml:"outlineEnabled"`
	OutlineMixed   bool    `yaml:"outlineMixed"`
	OutlineOpacity float64 `yaml:"outlineOpacity"`
	FillOpacity    float64 `yaml:"fillOpacity"`
	StrokeWidth    float64 `yaml:"strokeWidth"`

	HueRotation                bool    `yaml:"hueRotation"`
	HueRotationSpeed           float64 `yaml:"hueRotationSpeed"`
	PaletteCycling             bool    `yaml:"paletteCycling"`
	PaletteCyclingSpeed        float64 `yaml:"paletteCyclingSpeed"`
	BackgroundHueRotation      bool    `yaml:"backgroundHueRotation"`
	BackgroundHueRotationSpeed float64 `yaml:"backgroundHueRotationSpeed"`

	AspectRatio  AspectRatio `yaml:"aspectRatio"`
	CustomWidth  float64     `yaml:"customWidth"`
	CustomHeight float64     `yaml:"customHeight"`
}

// DefaultState returns the configuration a fresh controller starts with.
func DefaultState() GeneratorState {
	return GeneratorState{
		Seed:                       "spritefield",
		PaletteID:                  DefaultPaletteID,
		PaletteVariance:            20,
		Density:                    45,
		Scale:                      100,
		ScaleSpread:                40,
		MotionIntensity:            50,
		MotionSpeed:                100,
		MovementMode:               MovementDrift,
		RotationEnabled:            true,
		RotationAmount:             45,
		RotationSpeed:              25,
		BlendMode:                  BlendNormal,
		LayerOpacity:               90,
		Sprites:                    []string{"shape:circle"},
		BackgroundMode:             BackgroundAuto,
		BackgroundHue:              230,
		BackgroundBrightness:       15,
		BackgroundGradientAngle:    90,
		FillGradientAngle:          45,
		DepthFocus:                 50,
		DepthStrength:              50,
		OutlineOpacity:             100,
		FillOpacity:                100,
		StrokeWidth:                2,
		HueRotationSpeed:           50,
		PaletteCyclingSpeed:        50,
		BackgroundHueRotationSpeed: 50,
		AspectRatio:                AspectFree,
		CustomWidth:                1920,
		CustomHeight:               1080,
	}
}

// OutlineMode returns the effective outline treatment.
func (s GeneratorState) OutlineMode() OutlineMode {
	switch {
	case !s.OutlineEnabled:
		return OutlineOff
	case s.OutlineMixed:
		return OutlineMixed
	default:
		return OutlineOn
	}
}

// CanvasAspect returns width/height for the configured aspect ratio. Free
// returns fallback (the surface's aspect, or 1 when unknown).
func (s GeneratorState) CanvasAspect(fallback float64) float64 {
	switch s.AspectRatio {
	case AspectSquare:
		return 1
	case AspectLandscape:
		return 16.0 / 9.0
	case AspectPortrait:
		return 9.0 / 16.0
	case AspectClassic:
		return 4.0 / 3.0
	case AspectCustom:
		if s.CustomWidth > 0 && s.CustomHeight > 0 {
			return s.CustomWidth / s.CustomHeight
		}
	}
	if fallback <= 0 || math.IsNaN(fallback) || math.IsInf(fallback, 0) {
		return 1
	}
	return fallback
}

// Palette returns the colors the state composes with: CustomPalette when
// set, otherwise the built-in palette for PaletteID.
func (s GeneratorState) Palette() []Color {
	if len(s.CustomPalette) > 0 {
		return append([]Color(nil), s.CustomPalette...)
	}
	return ResolvePalette(s.PaletteID)
}

// Clone returns a deep copy of s.
func (s GeneratorState) Clone() GeneratorState {
	s.CustomPalette = slices.Clone(s.CustomPalette)
	s.Sprites = slices.Clone(s.Sprites)
	return s
}

// Normalized returns a copy with every numeric field clamped to its range,
// unknown enum values replaced by safe defaults, and empty selections
// filled in.
func (s GeneratorState) Normalized() GeneratorState {
	s = s.Clone()
	for f := Field(0); f < fieldCount; f++ {
		if p := s.floatField(f); p != nil {
			*p = f.Clamp(*p)
		}
	}
	if _, ok := Palette(s.PaletteID); !ok {
		s.PaletteID = DefaultPaletteID
	}
	for i, c := range s.CustomPalette {
		c.R, c.G, c.B, c.A = clamp01(c.R), clamp01(c.G), clamp01(c.B), clamp01(c.A)
		if c.A == 0 {
			c.A = 1
		}
		s.CustomPalette[i] = c
	}
	if !s.MovementMode.valid() {
		s.MovementMode = MovementDrift
	}
	if !s.BlendMode.valid() {
		s.BlendMode = BlendNormal
	}
	if int(s.BackgroundMode) >= len(backgroundModeNames) {
		s.BackgroundMode = BackgroundAuto
	}
	if int(s.FillMode) >= len(fillModeNames) {
		s.FillMode = FillSolid
	}
	if int(s.AspectRatio) >= len(aspectRatioNames) {
		s.AspectRatio = AspectFree
	}
	s.Sprites = normalizeSprites(s.Sprites)
	return s
}

func normalizeSprites(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	if len(out) == 0 {
		out = append(out, ShapeID(ShapeCircle))
	}
	return out
}

// Field identifies one GeneratorState field for clamping and for the
// recompose partition.
type Field uint8

const (
	FieldSeed Field = iota
	FieldPaletteID
	FieldCustomPalette
	FieldPaletteVariance
	FieldHueShift
	FieldDensity
	FieldScale
	FieldScaleSpread
	FieldMotionIntensity
	FieldMotionSpeed
	FieldMovementMode
	FieldRotationEnabled
	FieldRotationAmount
	FieldRotationSpeed
	FieldRotationAnimated
	FieldBlendMode
	FieldBlendAuto
	FieldLayerOpacity
	FieldSprites
	FieldRandomSprites
	FieldBackgroundMode
	FieldBackgroundHue
	FieldBackgroundBrightness
	FieldBackgroundGradient
	FieldBackgroundGradientAngle
	FieldFillMode
	FieldFillGradientAngle
	FieldFillGradientRandom
	FieldDepthOfField
	FieldDepthFocus
	FieldDepthStrength
	FieldOutlineEnabled
	FieldOutlineMixed
	FieldOutlineOpacity
	FieldFillOpacity
	FieldStrokeWidth
	FieldHueRotation
	FieldHueRotationSpeed
	FieldPaletteCycling
	FieldPaletteCyclingSpeed
	FieldBackgroundHueRotation
	FieldBackgroundHueRotationSpeed
	FieldAspectRatio
	FieldCustomWidth
	FieldCustomHeight

	fieldCount
)

// fieldRanges holds the closed clamp range of every numeric field.
var fieldRanges = map[Field]Range{
	FieldPaletteVariance:            {0, 100},
	FieldHueShift:                   {-180, 180},
	FieldDensity:                    {0, 100},
	FieldScale:                      {10, 300},
	FieldScaleSpread:                {0, 100},
	FieldMotionIntensity:            {0, 100},
	FieldMotionSpeed:                {0, 200},
	FieldRotationAmount:             {0, 180},
	FieldRotationSpeed:              {0, 100},
	FieldLayerOpacity:               {0, 100},
	FieldBackgroundHue:              {0, 360},
	FieldBackgroundBrightness:       {0, 100},
	FieldBackgroundGradientAngle:    {0, 360},
	FieldFillGradientAngle:          {0, 360},
	FieldDepthFocus:                 {0, 100},
	FieldDepthStrength:              {0, 100},
	FieldOutlineOpacity:             {0, 100},
	FieldFillOpacity:                {0, 100},
	FieldStrokeWidth:                {0.5, 12},
	FieldHueRotationSpeed:           {0, 100},
	FieldPaletteCyclingSpeed:        {0, 100},
	FieldBackgroundHueRotationSpeed: {0, 100},
	FieldCustomWidth:                {1, 8192},
	FieldCustomHeight:               {1, 8192},
}

// recomposeFields invalidate the cached PreparedScene when they change.
// Every other field is applied at draw time.
var recomposeFields = map[Field]bool{
	FieldSeed:               true,
	FieldPaletteID:          true,
	FieldCustomPalette:      true,
	FieldPaletteVariance:    true,
	FieldHueShift:           true,
	FieldDensity:            true,
	FieldScale:              true,
	FieldScaleSpread:        true,
	FieldRotationAmount:     true,
	FieldFillGradientRandom: true,
	FieldSprites:            true,
	FieldRandomSprites:      true,
	FieldOutlineMixed:       true,
	FieldAspectRatio:        true,
	FieldCustomWidth:        true,
	FieldCustomHeight:       true,
}

// RequiresRecompose reports whether changing f invalidates the composed scene.
func (f Field) RequiresRecompose() bool {
	return recomposeFields[f]
}

// Range returns the clamp range of a numeric field. ok is false for
// non-numeric fields.
func (f Field) Range() (r Range, ok bool) {
	r, ok = fieldRanges[f]
	return r, ok
}

// Clamp limits v to the field's range. NaN maps to the range minimum.
// Non-numeric fields return v unchanged.
func (f Field) Clamp(v float64) float64 {
	r, ok := fieldRanges[f]
	if !ok {
		return v
	}
	if math.IsNaN(v) {
		return r.Min
	}
	return r.Clamp(v)
}

// floatField returns a pointer to the numeric field f, or nil.
func (s *GeneratorState) floatField(f Field) *float64 {
	switch f {
	case FieldPaletteVariance:
		return &s.PaletteVariance
	case FieldHueShift:
		return &s.HueShift
	case FieldDensity:
		return &s.Density
	case FieldScale:
		return &s.Scale
	case FieldScaleSpread:
		return &s.ScaleSpread
	case FieldMotionIntensity:
		return &s.MotionIntensity
	case FieldMotionSpeed:
		return &s.MotionSpeed
	case FieldRotationAmount:
		return &s.RotationAmount
	case FieldRotationSpeed:
		return &s.RotationSpeed
	case FieldLayerOpacity:
		return &s.LayerOpacity
	case FieldBackgroundHue:
		return &s.BackgroundHue
	case FieldBackgroundBrightness:
		return &s.BackgroundBrightness
	case FieldBackgroundGradientAngle:
		return &s.BackgroundGradientAngle
	case FieldFillGradientAngle:
		return &s.FillGradientAngle
	case FieldDepthFocus:
		return &s.DepthFocus
	case FieldDepthStrength:
		return &s.DepthStrength
	case FieldOutlineOpacity:
		return &s.OutlineOpacity
	case FieldFillOpacity:
		return &s.FillOpacity
	case FieldStrokeWidth:
		return &s.StrokeWidth
	case FieldHueRotationSpeed:
		return &s.HueRotationSpeed
	case FieldPaletteCyclingSpeed:
		return &s.PaletteCyclingSpeed
	case FieldBackgroundHueRotationSpeed:
		return &s.BackgroundHueRotationSpeed
	case FieldCustomWidth:
		return &s.CustomWidth
	case FieldCustomHeight:
		return &s.CustomHeight
	}
	return nil
}

// NeedsRecompose reports whether moving from a to b changes any
// recompose-required field.
func NeedsRecompose(a, b GeneratorState) bool {
	return a.Seed != b.Seed ||
		a.PaletteID != b.PaletteID ||
		!slices.Equal(a.CustomPalette, b.CustomPalette) ||
		a.PaletteVariance != b.PaletteVariance ||
		a.HueShift != b.HueShift ||
		a.Density != b.Density ||
		a.Scale != b.Scale ||
		a.ScaleSpread != b.ScaleSpread ||
		a.RotationAmount != b.RotationAmount ||
		a.FillGradientRandom != b.FillGradientRandom ||
		!slices.Equal(a.Sprites, b.Sprites) ||
		a.RandomSprites != b.RandomSprites ||
		a.OutlineMixed != b.OutlineMixed ||
		a.AspectRatio != b.AspectRatio ||
		a.CustomWidth != b.CustomWidth ||
		a.CustomHeight != b.CustomHeight
}
