package spritefield

import "math"

// LayerKind reports what a layer's tiles draw.
type LayerKind uint8

const (
	// LayerShapes layers draw only built-in shapes.
	LayerShapes LayerKind = iota
	// LayerVectors layers draw at least one vector asset.
	LayerVectors
)

func (k LayerKind) String() string {
	if k == LayerVectors {
		return "vectors"
	}
	return "shapes"
}

// maxLayers is the number of density-gated layers.
const maxLayers = 3

// Per-layer composition constants, back to front.
var (
	layerThresholds = [maxLayers]float64{0, 0.38, 0.7}
	layerMaxTiles   = [maxLayers]float64{28, 20, 14}
	layerSizeRatios = [maxLayers]float64{0.22, 0.15, 0.1}
	layerOpacities  = [maxLayers]float64{1, 0.85, 0.7}
)

const (
	gridJitter       = 0.45
	gridJitterNarrow = 0.2 // single row or column
	dofTileDiscount  = 0.75
	tileTimeJitter   = 0.15
	minScaleFactor   = 0.1
)

// Tile is one positioned, scaled and tinted sprite instance.
type Tile struct {
	Sprite TileSprite

	U, V  float64 // canvas-relative position in [0,1]
	Scale float64 // multiplier on the layer's base size

	Tint         Color
	PaletteIndex int // source palette color, kept for re-tinting
	BlendMode    BlendMode

	RotationBase      float64 // degrees
	RotationDirection float64 // -1 or +1
	RotationSpeed     float64 // per-tile speed multiplier
	TimeScale         float64 // animation time multiplier, 1±0.15

	Outlined      bool    // mixed outline draws this tile as an outline
	GradientAngle float64 // degrees, used when gradient angles are random
	Phase         float64 // motion phase, see TilePhase
}

// Layer is a set of tiles sharing a blend mode, opacity and base size.
type Layer struct {
	Index         int
	Tiles         []Tile
	BlendMode     BlendMode
	Opacity       float64 // depth opacity, multiplied with the state's layer opacity
	Kind          LayerKind
	BaseSizeRatio float64 // tile size relative to the canvas base unit
}

// TileCount returns the number of tiles in the layer.
func (l *Layer) TileCount() int { return len(l.Tiles) }

// Background is a resolved canvas background.
type Background struct {
	Color    Color
	Gradient bool
	To       Color   // second stop when Gradient is set
	Angle    float64 // gradient direction in degrees
}

// PreparedScene is the full output of one composition. It is replaced
// wholesale on recomposition; only ReshuffleBlendModes and ReassignShapes
// mutate it in place.
type PreparedScene struct {
	Seed       string
	PaletteID  string
	Palette    []Color // hue-shifted and jittered
	Background Background
	Aspect     float64
	Layers     []Layer
}

// TileCount returns the number of tiles across all layers.
func (ps *PreparedScene) TileCount() int {
	n := 0
	for i := range ps.Layers {
		n += len(ps.Layers[i].Tiles)
	}
	return n
}

// VectorPaths returns the distinct asset paths the scene's tiles reference,
// in first-use order.
func (ps *PreparedScene) VectorPaths() []string {
	var out []string
	seen := make(map[string]bool)
	for i := range ps.Layers {
		for j := range ps.Layers[i].Tiles {
			if v, ok := ps.Layers[i].Tiles[j].Sprite.(VectorSprite); ok && !seen[v.Path] {
				seen[v.Path] = true
				out = append(out, v.Path)
			}
		}
	}
	return out
}

// ComposeOptions adjusts a composition.
type ComposeOptions struct {
	// PaletteOverride replaces the state's palette when non-empty.
	PaletteOverride []Color
	// CanvasAspect is the surface aspect used when the state's aspect ratio
	// is free. Zero means 1.
	CanvasAspect float64
}

// Compose deterministically builds a scene from s. Identical inputs yield
// deeply equal scenes.
func Compose(s GeneratorState, opts ComposeOptions) *PreparedScene {
	s = s.Normalized()

	base := opts.PaletteOverride
	if len(base) == 0 {
		base = s.Palette()
	}
	colorRng := DeriveStream(s.Seed, StreamColor)
	variance := s.PaletteVariance / 100
	palette := make([]Color, len(base))
	for i, c := range base {
		palette[i] = Jitter(ShiftHue(c, s.HueShift), variance, colorRng)
	}

	aspect := s.CanvasAspect(opts.CanvasAspect)
	scene := &PreparedScene{
		Seed:       s.Seed,
		PaletteID:  s.PaletteID,
		Palette:    palette,
		Background: ResolveBackground(s, palette),
		Aspect:     aspect,
	}

	posRng := DeriveStream(s.Seed, StreamPosition)
	shapeRng := DeriveStream(s.Seed, StreamShape)
	blendRng := DeriveStream(s.Seed, StreamBlend)

	kind := layerKindFor(s.Sprites)
	prof := ModeProfile(s.MovementMode)
	dof := 1.0
	if s.DepthOfField {
		dof = dofTileDiscount
	}

	scaleBase := s.Scale / 100
	spread := s.ScaleSpread / 100
	minScale := max(minScaleFactor, scaleBase*(1-spread))
	maxScale := max(minScale, scaleBase*(1+spread))
	scaleRange := Range{minScale, maxScale}

	density := s.Density / 100
	spriteIdx := 0
	for li := 0; li < maxLayers; li++ {
		thr := layerThresholds[li]
		if li > 0 && density < thr {
			break
		}
		layerDensity := clamp01((density - thr) / (1 - thr))
		maxTiles := layerMaxTiles[li] * prof.TileCount * dof * math.Sqrt(aspect)
		budget := tileBudget(layerDensity, maxTiles)

		layer := Layer{
			Index:         li,
			Tiles:         make([]Tile, 0, budget),
			BlendMode:     pickAutoBlend(blendRng),
			Opacity:       layerOpacities[li],
			Kind:          kind,
			BaseSizeRatio: layerSizeRatios[li],
		}

		cols, rows := gridDims(budget, aspect)
		jitter := gridJitter
		if cols == 1 || rows == 1 {
			jitter = gridJitterNarrow
		}
		cells := cols * rows
		for ti := 0; ti < budget; ti++ {
			cell := ti * cells / budget
			col, row := cell%cols, cell/cols
			u := clamp01((float64(col) + 0.5 + posRng.Range(-jitter, jitter)) / float64(cols))
			v := clamp01((float64(row) + 0.5 + posRng.Range(-jitter, jitter)) / float64(rows))

			scale := scaleRange.Clamp(lerp(minScale, maxScale, posRng.Float64()))
			rotBase := posRng.Range(-1, 1) * s.RotationAmount
			rotDir := posRng.Sign()
			rotSpeed := posRng.Range(0.5, 1.5)
			timeScale := posRng.Range(1-tileTimeJitter, 1+tileTimeJitter)
			outlineCoin := posRng.Bool(0.5)
			gradAngle := posRng.Range(0, 360)

			var id string
			if s.RandomSprites {
				id = s.Sprites[shapeRng.IntN(len(s.Sprites))]
			} else {
				id = s.Sprites[spriteIdx%len(s.Sprites)]
			}
			spriteIdx++

			palIdx := colorRng.IntN(len(palette))
			layer.Tiles = append(layer.Tiles, Tile{
				Sprite:            spriteFromID(id),
				U:                 u,
				V:                 v,
				Scale:             scale,
				Tint:              tileTint(palette, palIdx, variance, s.Seed, u, v),
				PaletteIndex:      palIdx,
				BlendMode:         pickAutoBlend(blendRng),
				RotationBase:      rotBase,
				RotationDirection: rotDir,
				RotationSpeed:     rotSpeed,
				TimeScale:         timeScale,
				Outlined:          s.OutlineMixed && outlineCoin,
				GradientAngle:     gradAngle,
				Phase:             TilePhase(ti),
			})
		}
		scene.Layers = append(scene.Layers, layer)
	}
	return scene
}

// tileBudget is 1 + d*(maxTiles-1), rounded, never below one.
func tileBudget(layerDensity, maxTiles float64) int {
	n := int(math.Round(1 + layerDensity*(maxTiles-1)))
	return max(n, 1)
}

// gridDims picks a column/row count holding n cells whose shape follows
// aspect (width/height).
func gridDims(n int, aspect float64) (cols, rows int) {
	cols = max(1, int(math.Round(math.Sqrt(float64(n)*aspect))))
	cols = min(cols, n)
	rows = max(1, (n+cols-1)/cols)
	return cols, rows
}

func layerKindFor(sprites []string) LayerKind {
	for _, id := range sprites {
		if !IsShapeID(id) {
			return LayerVectors
		}
	}
	return LayerShapes
}

func pickAutoBlend(rng *Stream) BlendMode {
	return autoBlendModes[rng.IntN(len(autoBlendModes))]
}

// tileTint derives a tile's color from a palette entry. The jitter stream is
// keyed by the tile position, so re-tinting against a new palette is
// reproducible without the original composition.
func tileTint(palette []Color, idx int, variance float64, seed string, u, v float64) Color {
	if len(palette) == 0 {
		return ColorWhite
	}
	c := palette[idx%len(palette)]
	return Jitter(c, variance*0.5, tintStream(seed, u, v))
}

// ResolveBackground derives the background for s from a composed palette.
func ResolveBackground(s GeneratorState, palette []Color) Background {
	bright := s.BackgroundBrightness / 100
	var c Color
	switch s.BackgroundMode {
	case BackgroundSolid:
		c = FromHSL(HSL{H: s.BackgroundHue, S: 0.5, L: bright}, 1)
	case BackgroundPalette:
		if len(palette) > 0 {
			c = ApplyBrightness(palette[len(palette)-1], bright*100)
		} else {
			c = ColorBlack
		}
	case BackgroundBlack:
		c = ColorBlack
	default:
		// Auto: a dark, desaturated take on the first palette color.
		c = ColorBlack
		if len(palette) > 0 {
			h := palette[0].ToHSL()
			jitter := DeriveStream(s.Seed, StreamBackground).Range(-15, 15)
			c = FromHSL(HSL{H: h.H + jitter, S: h.S * 0.6, L: 0.04 + 0.3*bright}, 1)
		}
	}
	c.A = 1
	bg := Background{Color: c, Angle: s.BackgroundGradientAngle}
	if s.BackgroundGradient && s.BackgroundMode != BackgroundBlack {
		bg.Gradient = true
		bg.To = ApplyBrightness(ShiftHue(c, 40), 60)
	}
	return bg
}

// ReshuffleBlendModes redraws every layer and tile blend mode from rng. It
// is the auto-blend reshuffle and mutates the scene in place.
func (ps *PreparedScene) ReshuffleBlendModes(rng *Stream) {
	for i := range ps.Layers {
		l := &ps.Layers[i]
		l.BlendMode = pickAutoBlend(rng)
		for j := range l.Tiles {
			l.Tiles[j].BlendMode = pickAutoBlend(rng)
		}
	}
}

// ReassignShapes gives every tile a sprite sampled uniformly from sprites
// and updates layer kinds. Positions, scales and tints are untouched.
func (ps *PreparedScene) ReassignShapes(sprites []string, rng *Stream) {
	sprites = normalizeSprites(sprites)
	kind := layerKindFor(sprites)
	for i := range ps.Layers {
		l := &ps.Layers[i]
		l.Kind = kind
		for j := range l.Tiles {
			l.Tiles[j].Sprite = spriteFromID(sprites[rng.IntN(len(sprites))])
		}
	}
}
