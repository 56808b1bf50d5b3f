package spritefield

import (
	"fmt"
	"slices"
)

// The randomize family draws from a per-controller stream derived from the
// initial seed, so a session's sequence of randomizations is reproducible.

// commit applies a multi-field change, recomposing only when a
// recompose-required field changed.
func (c *Controller) commit(next GeneratorState) {
	if c.destroyed {
		return
	}
	next = next.Normalized()
	if kind := c.cfg.RandomizeTransition; kind != TransitionInstant && NeedsRecompose(c.state, next) {
		c.ApplyState(next, kind)
		return
	}
	c.endTransition(true)
	recompose := NeedsRecompose(c.state, next)
	c.state, c.view = next, next
	if recompose {
		c.recompose()
	}
	c.notify()
}

// RandomizeAll rerolls the seed and every visual parameter.
func (c *Controller) RandomizeAll() {
	r := c.randomRng
	next := c.state.Clone()
	next.Seed = fmt.Sprintf("%08X", r.Uint32())
	randomizeColors(&next, r)
	randomizeScale(&next, r)
	randomizeMotion(&next, r)
	next.RotationEnabled = r.Bool(0.7)
	next.RotationAmount = r.Range(0, 180)
	next.RotationAnimated = r.Bool(0.5)
	next.RotationSpeed = r.Range(5, 60)
	next.BlendAuto = r.Bool(0.3)
	next.BlendMode = pickAutoBlend(r)
	next.Sprites = randomShapeSet(r)
	c.commit(next)
}

// RandomizeColors rerolls the palette, variance, hue shift and background.
func (c *Controller) RandomizeColors() {
	next := c.state.Clone()
	randomizeColors(&next, c.randomRng)
	c.commit(next)
}

// RandomizeScale rerolls density, scale and spread.
func (c *Controller) RandomizeScale() {
	next := c.state.Clone()
	randomizeScale(&next, c.randomRng)
	c.commit(next)
}

// RandomizeMotion rerolls the movement mode, intensity and speed. These are
// render-time fields, so the scene is kept.
func (c *Controller) RandomizeMotion() {
	next := c.state.Clone()
	randomizeMotion(&next, c.randomRng)
	c.commit(next)
}

// RandomizeBlendMode reshuffles the per-tile blend modes in place when auto
// blend is on, otherwise picks a new fixed mode.
func (c *Controller) RandomizeBlendMode() {
	if c.destroyed {
		return
	}
	if c.state.BlendAuto {
		c.endTransition(true)
		c.scene.ReshuffleBlendModes(c.randomRng)
		c.notify()
		return
	}
	next := c.state.Clone()
	next.BlendMode = pickAutoBlend(c.randomRng)
	c.commit(next)
}

// RandomizeShapes picks a new set of built-in shapes and reassigns tile
// sprites in place. Tile positions and colors are kept.
func (c *Controller) RandomizeShapes() {
	if c.destroyed {
		return
	}
	c.endTransition(true)
	sprites := randomShapeSet(c.randomRng)
	c.state.Sprites = sprites
	c.view = c.state.Clone()
	c.scene.ReassignShapes(sprites, c.randomRng)
	c.notify()
}

func randomizeColors(s *GeneratorState, r *Stream) {
	ids := PaletteIDs()
	s.PaletteID = ids[r.IntN(len(ids))]
	s.CustomPalette = nil
	s.PaletteVariance = r.Range(0, 60)
	s.HueShift = r.Range(-180, 180)
	s.BackgroundHue = r.Range(0, 360)
	s.BackgroundBrightness = r.Range(5, 35)
}

func randomizeScale(s *GeneratorState, r *Stream) {
	s.Density = r.Range(15, 90)
	s.Scale = r.Range(50, 180)
	s.ScaleSpread = r.Range(0, 80)
}

func randomizeMotion(s *GeneratorState, r *Stream) {
	modes := MovementModes()[1:] // never pick static
	s.MovementMode = modes[r.IntN(len(modes))]
	s.MotionIntensity = r.Range(20, 90)
	s.MotionSpeed = r.Range(40, 160)
}

// randomShapeSet returns one to three distinct built-in shape ids.
func randomShapeSet(r *Stream) []string {
	kinds := ShapeKinds()
	n := 1 + r.IntN(3)
	out := make([]string, 0, n)
	for len(out) < n {
		id := ShapeID(kinds[r.IntN(len(kinds))])
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
