package spritefield

import (
	"reflect"
	"testing"
)

func composeState(seed string, density float64) GeneratorState {
	s := DefaultState()
	s.Seed = seed
	s.Density = density
	return s
}

func TestComposeDeterministic(t *testing.T) {
	s := composeState("DEADBEEF", 80)
	s.BlendAuto = true
	s.OutlineMixed = true
	a := Compose(s, ComposeOptions{CanvasAspect: 16.0 / 9.0})
	b := Compose(s, ComposeOptions{CanvasAspect: 16.0 / 9.0})
	if !reflect.DeepEqual(a, b) {
		t.Fatal("identical inputs produced different scenes")
	}
}

func TestComposeSeedMatters(t *testing.T) {
	a := Compose(composeState("alpha", 60), ComposeOptions{})
	b := Compose(composeState("beta", 60), ComposeOptions{})
	if reflect.DeepEqual(a.Layers, b.Layers) {
		t.Error("different seeds produced identical layers")
	}
}

func TestComposeZeroDensity(t *testing.T) {
	scene := Compose(composeState("DEADBEEF", 0), ComposeOptions{})
	if len(scene.Layers) != 1 {
		t.Fatalf("layers = %d, want 1", len(scene.Layers))
	}
	if scene.TileCount() < 1 {
		t.Fatalf("tiles = %d, want at least 1", scene.TileCount())
	}
}

func TestComposeLayerThresholds(t *testing.T) {
	tests := []struct {
		density float64
		layers  int
	}{
		{0, 1}, {37, 1}, {38, 2}, {69, 2}, {70, 3}, {100, 3},
	}
	for _, tt := range tests {
		scene := Compose(composeState("layers", tt.density), ComposeOptions{})
		if len(scene.Layers) != tt.layers {
			t.Errorf("density %v: %d layers, want %d", tt.density, len(scene.Layers), tt.layers)
		}
	}
}

func TestComposeDensityAddsTiles(t *testing.T) {
	sparse := Compose(composeState("count", 10), ComposeOptions{})
	dense := Compose(composeState("count", 90), ComposeOptions{})
	if dense.TileCount() <= sparse.TileCount() {
		t.Errorf("dense %d tiles <= sparse %d", dense.TileCount(), sparse.TileCount())
	}
}

func TestComposeTileInvariants(t *testing.T) {
	s := composeState("invariants", 100)
	s.ScaleSpread = 100
	s.RotationAmount = 90
	scene := Compose(s, ComposeOptions{CanvasAspect: 2})

	for li, l := range scene.Layers {
		if l.Index != li {
			t.Errorf("layer %d has index %d", li, l.Index)
		}
		for i, tile := range l.Tiles {
			if tile.U < 0 || tile.U > 1 || tile.V < 0 || tile.V > 1 {
				t.Errorf("layer %d tile %d at (%v, %v) outside the canvas", li, i, tile.U, tile.V)
			}
			if tile.Scale < minScaleFactor {
				t.Errorf("layer %d tile %d scale %v", li, i, tile.Scale)
			}
			if tile.RotationBase < -90 || tile.RotationBase > 90 {
				t.Errorf("layer %d tile %d rotation %v", li, i, tile.RotationBase)
			}
			if tile.RotationDirection != 1 && tile.RotationDirection != -1 {
				t.Errorf("layer %d tile %d direction %v", li, i, tile.RotationDirection)
			}
			if tile.TimeScale < 1-tileTimeJitter || tile.TimeScale > 1+tileTimeJitter {
				t.Errorf("layer %d tile %d time scale %v", li, i, tile.TimeScale)
			}
			if tile.PaletteIndex < 0 || tile.PaletteIndex >= len(scene.Palette) {
				t.Errorf("layer %d tile %d palette index %d", li, i, tile.PaletteIndex)
			}
			if tile.Phase != TilePhase(i) {
				t.Errorf("layer %d tile %d phase %v", li, i, tile.Phase)
			}
		}
	}
}

func TestComposeOutlineFlagsOnlyWhenMixed(t *testing.T) {
	s := composeState("outline", 100)
	for _, l := range Compose(s, ComposeOptions{}).Layers {
		for _, tile := range l.Tiles {
			if tile.Outlined {
				t.Fatal("tile outlined without mixed outline mode")
			}
		}
	}

	s.OutlineMixed = true
	outlined := 0
	for _, l := range Compose(s, ComposeOptions{}).Layers {
		for _, tile := range l.Tiles {
			if tile.Outlined {
				outlined++
			}
		}
	}
	if outlined == 0 {
		t.Error("mixed outline mode outlined no tiles")
	}
}

func TestComposeIgnoresRenderTimeFields(t *testing.T) {
	a := composeState("render-time", 50)
	b := a.Clone()
	b.MotionSpeed = 10
	b.MotionIntensity = 90
	b.BlendMode = BlendScreen
	b.LayerOpacity = 20
	b.FillOpacity = 30
	if !reflect.DeepEqual(Compose(a, ComposeOptions{}), Compose(b, ComposeOptions{})) {
		t.Error("render-time fields changed the composition")
	}
}

func TestComposeSpriteCycle(t *testing.T) {
	s := composeState("sprites", 50)
	s.Sprites = []string{"shape:star", "icons/leaf.svg"}
	scene := Compose(s, ComposeOptions{})

	if got := scene.VectorPaths(); !reflect.DeepEqual(got, []string{"icons/leaf.svg"}) {
		t.Errorf("VectorPaths = %v", got)
	}
	tiles := scene.Layers[0].Tiles
	if len(tiles) < 2 {
		t.Fatalf("only %d tiles", len(tiles))
	}
	if _, ok := tiles[0].Sprite.(ShapeSprite); !ok {
		t.Errorf("tile 0 sprite = %#v, want shape", tiles[0].Sprite)
	}
	if v, ok := tiles[1].Sprite.(VectorSprite); !ok || v.Path != "icons/leaf.svg" {
		t.Errorf("tile 1 sprite = %#v, want vector", tiles[1].Sprite)
	}
	if scene.Layers[0].Kind != LayerVectors {
		t.Errorf("layer kind = %v, want vectors", scene.Layers[0].Kind)
	}
}

func TestComposePaletteOverride(t *testing.T) {
	s := composeState("override", 40)
	s.PaletteVariance = 0
	override := []Color{{1, 0, 0, 1}}
	scene := Compose(s, ComposeOptions{PaletteOverride: override})
	if len(scene.Palette) != 1 || scene.Palette[0] != override[0] {
		t.Errorf("palette = %v, want %v", scene.Palette, override)
	}
}

func TestComposeFixedAspectIgnoresCanvas(t *testing.T) {
	s := composeState("aspect", 60)
	s.AspectRatio = AspectSquare
	a := Compose(s, ComposeOptions{CanvasAspect: 3})
	b := Compose(s, ComposeOptions{CanvasAspect: 0.5})
	if !reflect.DeepEqual(a, b) {
		t.Error("fixed aspect composition depends on the surface aspect")
	}
	assertNear(t, "aspect", a.Aspect, 1)
}

func TestResolveBackground(t *testing.T) {
	palette := ResolvePalette("ember")

	s := DefaultState()
	s.BackgroundMode = BackgroundBlack
	s.BackgroundGradient = true
	bg := ResolveBackground(s, palette)
	if bg.Color != ColorBlack || bg.Gradient {
		t.Errorf("black background = %+v", bg)
	}

	s.BackgroundMode = BackgroundSolid
	s.BackgroundHue = 120
	s.BackgroundBrightness = 30
	bg = ResolveBackground(s, palette)
	h := bg.Color.ToHSL()
	if hueDistance(h.H, 120) > 0.5 {
		t.Errorf("solid hue = %v, want 120", h.H)
	}
	assertWithin(t, "solid L", h.L, 0.3, 1e-6)
	if !bg.Gradient {
		t.Error("gradient flag dropped")
	}

	s.BackgroundMode = BackgroundAuto
	s.BackgroundGradient = false
	bg = ResolveBackground(s, palette)
	if bg.Color.ToHSL().L > 0.35 {
		t.Errorf("auto background too bright: %+v", bg.Color)
	}
	if bg != ResolveBackground(s, palette) {
		t.Error("auto background is not deterministic")
	}
}

func TestReshuffleBlendModes(t *testing.T) {
	s := composeState("reshuffle", 100)
	scene := Compose(s, ComposeOptions{})
	before := Compose(s, ComposeOptions{})

	scene.ReshuffleBlendModes(NewStream(99))
	changed := false
	for li := range scene.Layers {
		for i, tile := range scene.Layers[li].Tiles {
			old := before.Layers[li].Tiles[i]
			if tile.U != old.U || tile.V != old.V || tile.Tint != old.Tint {
				t.Fatal("reshuffle moved or recolored a tile")
			}
			if tile.BlendMode != old.BlendMode {
				changed = true
			}
		}
	}
	if !changed {
		t.Error("no blend mode changed")
	}
}

func TestReassignShapes(t *testing.T) {
	s := composeState("reassign", 60)
	scene := Compose(s, ComposeOptions{})
	before := Compose(s, ComposeOptions{})

	scene.ReassignShapes([]string{"shape:hexagon"}, NewStream(5))
	for li := range scene.Layers {
		for i, tile := range scene.Layers[li].Tiles {
			old := before.Layers[li].Tiles[i]
			if tile.U != old.U || tile.V != old.V || tile.Scale != old.Scale || tile.Tint != old.Tint {
				t.Fatal("reassign changed tile placement or color")
			}
			if tile.Sprite != (ShapeSprite{Kind: ShapeHexagon}) {
				t.Fatalf("sprite = %#v", tile.Sprite)
			}
		}
	}
}

func TestGridDims(t *testing.T) {
	tests := []struct {
		n          int
		aspect     float64
		cols, rows int
	}{
		{1, 1, 1, 1},
		{4, 1, 2, 2},
		{8, 2, 4, 2},
		{3, 0.1, 1, 3},
	}
	for _, tt := range tests {
		cols, rows := gridDims(tt.n, tt.aspect)
		if cols != tt.cols || rows != tt.rows {
			t.Errorf("gridDims(%d, %v) = %d×%d, want %d×%d", tt.n, tt.aspect, cols, rows, tt.cols, tt.rows)
		}
		if cols*rows < tt.n {
			t.Errorf("gridDims(%d, %v) holds only %d cells", tt.n, tt.aspect, cols*rows)
		}
	}
}

func TestTileBudget(t *testing.T) {
	if got := tileBudget(0, 28); got != 1 {
		t.Errorf("tileBudget(0) = %d", got)
	}
	if got := tileBudget(1, 28); got != 28 {
		t.Errorf("tileBudget(1) = %d", got)
	}
	if got := tileBudget(1, 0.2); got != 1 {
		t.Errorf("tileBudget below one = %d", got)
	}
}
