package spritefield

import (
	"math"
	"time"
)

// CommandType identifies the kind of draw command.
type CommandType uint8

const (
	CommandFill   CommandType = iota // FillPath
	CommandStroke                    // StrokePath
)

// DrawCommand is a single tile draw emitted during a frame. Commands are
// collected into a reused buffer, post-processed (depth of field), then
// submitted to the surface in order.
type DrawCommand struct {
	Type     CommandType
	Geometry *Path // unit geometry centered on the origin

	X, Y     float64 // device position of the tile center
	Rotation float64 // radians
	Size     float64 // rendered pixel size, also the depth key

	Paint       Paint
	StrokeWidth float64 // device pixels, stroke commands only
	Alpha       float64
	BlendMode   BlendMode
	Blur        float64 // pixels
	Layer       int
}

// Rotation speed in degrees per second at 100% speed.
const rotationDegreesPerSecond = 90

// Depth of field tuning: the maximum blur is this fraction of the base
// unit at full strength; blurs below the cutoff share of it are skipped.
const (
	dofMaxBlurRatio = 0.02
	dofCutoff       = 0.1
)

// gradientHueOffset is the hue distance between a tile gradient's stops.
const gradientHueOffset = 35

// frameStats holds per-frame timing and command metrics for debug logging.
type frameStats struct {
	emitTime     time.Duration
	submitTime   time.Duration
	commandCount int
	skipped      int // vector tiles waiting on their asset
	blurred      int
}

// canvasRect returns the area of a w×h surface the composition occupies:
// the whole surface for a free aspect, otherwise the largest centered rect
// with the state's aspect.
func canvasRect(s *GeneratorState, w, h int) Rect {
	full := Rect{Width: float64(w), Height: float64(h)}
	if s.AspectRatio == AspectFree || w <= 0 || h <= 0 {
		return full
	}
	aspect := s.CanvasAspect(full.Width / full.Height)
	if full.Width/full.Height > aspect {
		cw := full.Height * aspect
		return Rect{X: (full.Width - cw) / 2, Width: cw, Height: full.Height}
	}
	ch := full.Width / aspect
	return Rect{Y: (full.Height - ch) / 2, Width: full.Width, Height: ch}
}

// emitScene appends the draw commands for one frame of scene to c.commands.
func (c *Controller) emitScene(scene *PreparedScene, s *GeneratorState, area Rect, frameAlpha float64, stats *frameStats) {
	if scene == nil || frameAlpha <= 0 {
		return
	}
	baseUnit := min(area.Width, area.Height)
	if baseUnit <= 0 {
		return
	}
	prof := ModeProfile(s.MovementMode)
	motionScale := s.MotionIntensity / 100
	outline := s.OutlineMode()
	tints := c.resolveTints(scene, s)

	ti := 0
	for li := range scene.Layers {
		layer := &scene.Layers[li]
		layerAlpha := frameAlpha * (s.LayerOpacity / 100) * layer.Opacity
		for i := range layer.Tiles {
			tile := &layer.Tiles[i]
			tint := tints[ti]
			ti++

			var geom *Path
			switch sp := tile.Sprite.(type) {
			case ShapeSprite:
				geom = ShapePath(sp.Kind)
			case VectorSprite:
				asset, ok := c.vectorAsset(sp.Path)
				if !ok {
					stats.skipped++
					continue
				}
				geom = asset.Unit
			}

			size := tile.Scale * layer.BaseSizeRatio * baseUnit * prof.ScaleCompensation
			off := OffsetsFor(s.MovementMode, MotionParams{
				Time:          c.motionTime * tile.TimeScale,
				Phase:         tile.Phase,
				MotionScale:   motionScale,
				LayerIndex:    layer.Index,
				BaseUnit:      baseUnit,
				LayerTileSize: size,
			})
			size *= off.Scale

			rot := 0.0
			if s.RotationEnabled {
				rot = tile.RotationBase
				if s.RotationAnimated {
					rot += rotationDegreesPerSecond * (s.RotationSpeed / 100) *
						tile.RotationSpeed * tile.RotationDirection * c.rotationTime
				}
			}

			blend := s.BlendMode
			if s.BlendAuto {
				blend = tile.BlendMode
			}

			cmd := DrawCommand{
				Type:      CommandFill,
				Geometry:  geom,
				X:         area.X + tile.U*area.Width + off.X,
				Y:         area.Y + tile.V*area.Height + off.Y,
				Rotation:  rot * math.Pi / 180,
				Size:      size,
				BlendMode: blend,
				Layer:     layer.Index,
			}
			stroked := outline == OutlineOn || (outline == OutlineMixed && tile.Outlined)
			if stroked {
				cmd.Type = CommandStroke
				cmd.StrokeWidth = s.StrokeWidth
				cmd.Alpha = layerAlpha * s.OutlineOpacity / 100
			} else {
				cmd.Alpha = layerAlpha * s.FillOpacity / 100
			}
			cmd.Paint = tilePaint(tint, s, tile)
			c.commands = append(c.commands, cmd)
		}
	}
}

// tilePaint builds the fill for a tile in its unit coordinates.
func tilePaint(tint Color, s *GeneratorState, tile *Tile) Paint {
	if s.FillMode != FillGradient {
		return SolidPaint(tint)
	}
	angle := s.FillGradientAngle
	if s.FillGradientRandom {
		angle = tile.GradientAngle
	}
	start, end := gradientLine(Rect{X: -0.5, Y: -0.5, Width: 1, Height: 1}, angle)
	to := ApplyBrightness(ShiftHue(tint, gradientHueOffset), 130)
	return LinearPaint(tint, to, start, end)
}

// resolveTints returns one tint per tile in scene order. Tints are recomputed
// only when the active palette or the sprite hue offset changed since the
// last frame.
func (c *Controller) resolveTints(scene *PreparedScene, s *GeneratorState) []Color {
	active := scene.Palette
	if s.PaletteCycling {
		c.cycled = cyclePalette(c.cycled, scene.Palette, c.clocks.paletteCycle.phase)
		active = c.cycled
	}
	hue := 0.0
	if s.HueRotation {
		hue = c.clocks.spriteHue.degrees()
	}
	n := scene.TileCount()
	if c.tintScene == scene && c.tintHue == hue && len(c.tints) == n && colorsEqual(c.tintPalette, active) {
		return c.tints
	}

	paletteChanged := !colorsEqual(active, scene.Palette)
	variance := s.PaletteVariance / 100
	c.tints = c.tints[:0]
	for li := range scene.Layers {
		for i := range scene.Layers[li].Tiles {
			t := &scene.Layers[li].Tiles[i]
			tint := t.Tint
			if paletteChanged {
				tint = tileTint(active, t.PaletteIndex, variance, scene.Seed, t.U, t.V)
			}
			c.tints = append(c.tints, ShiftHue(tint, hue))
		}
	}
	c.tintScene = scene
	c.tintHue = hue
	c.tintPalette = append(c.tintPalette[:0], active...)
	return c.tints
}

func colorsEqual(a, b []Color) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// applyDepthOfField assigns blur radii using each command's rendered size
// as its depth: sizes are normalized across the frame, compared with the
// focus depth, and blurred with a quadratic falloff.
func applyDepthOfField(cmds []DrawCommand, s *GeneratorState, baseUnit float64) int {
	if !s.DepthOfField || len(cmds) == 0 {
		return 0
	}
	maxBlur := s.DepthStrength / 100 * baseUnit * dofMaxBlurRatio
	if maxBlur <= 0 {
		return 0
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range cmds {
		lo = min(lo, cmds[i].Size)
		hi = max(hi, cmds[i].Size)
	}
	span := hi - lo
	focus := s.DepthFocus / 100
	blurred := 0
	for i := range cmds {
		z := 0.5
		if span > 0 {
			z = (cmds[i].Size - lo) / span
		}
		d := math.Abs(z - focus)
		r := d * d * maxBlur
		if r < dofCutoff*maxBlur {
			r = 0
		} else {
			blurred++
		}
		cmds[i].Blur = r
	}
	return blurred
}

// submitCommands draws cmds in order. Each tile is placed with
// Translate -> Rotate -> Scale around its center.
func submitCommands(surface Surface, cmds []DrawCommand) {
	for i := range cmds {
		cmd := &cmds[i]
		if cmd.Geometry == nil || cmd.Size <= 0 || cmd.Alpha <= 0 {
			continue
		}
		surface.Save()
		surface.SetBlendMode(cmd.BlendMode)
		surface.SetAlpha(cmd.Alpha)
		surface.SetBlur(cmd.Blur)
		surface.Translate(cmd.X, cmd.Y)
		if cmd.Rotation != 0 {
			surface.Rotate(cmd.Rotation)
		}
		surface.Scale(cmd.Size, cmd.Size)
		switch cmd.Type {
		case CommandFill:
			surface.FillPath(cmd.Geometry, cmd.Paint)
		case CommandStroke:
			surface.StrokePath(cmd.Geometry, cmd.Paint, cmd.StrokeWidth/cmd.Size)
		}
		surface.Restore()
	}
}

// debugLog writes frame stats through the package logger.
func (c *Controller) debugLog(stats frameStats) {
	if !c.debug {
		return
	}
	Logger().Debug("frame",
		"emit", stats.emitTime,
		"submit", stats.submitTime,
		"commands", stats.commandCount,
		"skipped", stats.skipped,
		"blurred", stats.blurred,
	)
}
