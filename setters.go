package spritefield

import "slices"

// set commits a single-field mutation. Fields outside the recompose set are
// applied at draw time and leave the scene untouched.
func (c *Controller) set(f Field, mutate func(s *GeneratorState)) {
	if c.destroyed {
		return
	}
	c.endTransition(true)
	next := c.state.Clone()
	mutate(&next)
	next = next.Normalized()
	c.state, c.view = next, next
	if f.RequiresRecompose() {
		c.recompose()
	}
	c.notify()
}

// SetField sets a numeric field by identifier. Non-numeric fields are
// ignored.
func (c *Controller) SetField(f Field, v float64) {
	if _, ok := f.Range(); !ok {
		return
	}
	c.set(f, func(s *GeneratorState) { *s.floatField(f) = v })
}

// SetOutlineMode sets both outline flags. The scene is recomposed only when
// the mixed flag changes.
func (c *Controller) SetOutlineMode(m OutlineMode) {
	f := FieldOutlineEnabled
	if (m == OutlineMixed) != c.state.OutlineMixed {
		f = FieldOutlineMixed
	}
	c.set(f, func(s *GeneratorState) {
		s.OutlineEnabled = m != OutlineOff
		s.OutlineMixed = m == OutlineMixed
	})
}

// SetCustomAspect selects a custom width:height canvas.
func (c *Controller) SetCustomAspect(w, h float64) {
	c.set(FieldAspectRatio, func(s *GeneratorState) {
		s.AspectRatio = AspectCustom
		s.CustomWidth, s.CustomHeight = w, h
	})
}

// SetSeed changes the seed and recomposes.
func (c *Controller) SetSeed(v string) {
	c.set(FieldSeed, func(s *GeneratorState) {
		s.Seed = v
	})
}

// SetPalette selects a built-in palette and clears any custom palette.
func (c *Controller) SetPalette(v string) {
	c.set(FieldPaletteID, func(s *GeneratorState) {
		s.PaletteID = v
		s.CustomPalette = nil
	})
}

func (c *Controller) SetCustomPalette(v []Color) {
	c.set(FieldCustomPalette, func(s *GeneratorState) {
		s.CustomPalette = slices.Clone(v)
	})
}

func (c *Controller) SetPaletteVariance(v float64) {
	c.set(FieldPaletteVariance, func(s *GeneratorState) {
		s.PaletteVariance = v
	})
}

func (c *Controller) SetHueShift(v float64) {
	c.set(FieldHueShift, func(s *GeneratorState) {
		s.HueShift = v
	})
}

func (c *Controller) SetDensity(v float64) {
	c.set(FieldDensity, func(s *GeneratorState) {
		s.Density = v
	})
}

// SetScale sets the tile scale percentage, clamped to [10, 300].
func (c *Controller) SetScale(v float64) {
	c.set(FieldScale, func(s *GeneratorState) {
		s.Scale = v
	})
}

func (c *Controller) SetScaleSpread(v float64) {
	c.set(FieldScaleSpread, func(s *GeneratorState) {
		s.ScaleSpread = v
	})
}

func (c *Controller) SetMotionIntensity(v float64) {
	c.set(FieldMotionIntensity, func(s *GeneratorState) {
		s.MotionIntensity = v
	})
}

func (c *Controller) SetMotionSpeed(v float64) {
	c.set(FieldMotionSpeed, func(s *GeneratorState) {
		s.MotionSpeed = v
	})
}

// SetMovementMode changes the motion function. The mode's tile-count
// multiplier applies from the next composition.
func (c *Controller) SetMovementMode(v MovementMode) {
	c.set(FieldMovementMode, func(s *GeneratorState) {
		s.MovementMode = v
	})
}

func (c *Controller) SetRotationEnabled(v bool) {
	c.set(FieldRotationEnabled, func(s *GeneratorState) {
		s.RotationEnabled = v
	})
}

// SetRotationAmount sets the maximum base rotation in degrees, clamped to
// [0, 180].
func (c *Controller) SetRotationAmount(v float64) {
	c.set(FieldRotationAmount, func(s *GeneratorState) {
		s.RotationAmount = v
	})
}

func (c *Controller) SetRotationSpeed(v float64) {
	c.set(FieldRotationSpeed, func(s *GeneratorState) {
		s.RotationSpeed = v
	})
}

func (c *Controller) SetRotationAnimated(v bool) {
	c.set(FieldRotationAnimated, func(s *GeneratorState) {
		s.RotationAnimated = v
	})
}

func (c *Controller) SetBlendMode(v BlendMode) {
	c.set(FieldBlendMode, func(s *GeneratorState) {
		s.BlendMode = v
	})
}

// SetBlendAuto switches between the fixed blend mode and the per-tile modes
// drawn at composition.
func (c *Controller) SetBlendAuto(v bool) {
	c.set(FieldBlendAuto, func(s *GeneratorState) {
		s.BlendAuto = v
	})
}

func (c *Controller) SetLayerOpacity(v float64) {
	c.set(FieldLayerOpacity, func(s *GeneratorState) {
		s.LayerOpacity = v
	})
}

// SetSprites replaces the sprite selection. Ids are shape tags or asset
// paths.
func (c *Controller) SetSprites(v []string) {
	c.set(FieldSprites, func(s *GeneratorState) {
		s.Sprites = slices.Clone(v)
	})
}

func (c *Controller) SetRandomSprites(v bool) {
	c.set(FieldRandomSprites, func(s *GeneratorState) {
		s.RandomSprites = v
	})
}

func (c *Controller) SetBackgroundMode(v BackgroundMode) {
	c.set(FieldBackgroundMode, func(s *GeneratorState) {
		s.BackgroundMode = v
	})
}

func (c *Controller) SetBackgroundHue(v float64) {
	c.set(FieldBackgroundHue, func(s *GeneratorState) {
		s.BackgroundHue = v
	})
}

func (c *Controller) SetBackgroundBrightness(v float64) {
	c.set(FieldBackgroundBrightness, func(s *GeneratorState) {
		s.BackgroundBrightness = v
	})
}

func (c *Controller) SetBackgroundGradient(v bool) {
	c.set(FieldBackgroundGradient, func(s *GeneratorState) {
		s.BackgroundGradient = v
	})
}

func (c *Controller) SetBackgroundGradientAngle(v float64) {
	c.set(FieldBackgroundGradientAngle, func(s *GeneratorState) {
		s.BackgroundGradientAngle = v
	})
}

func (c *Controller) SetFillMode(v FillMode) {
	c.set(FieldFillMode, func(s *GeneratorState) {
		s.FillMode = v
	})
}

func (c *Controller) SetFillGradientAngle(v float64) {
	c.set(FieldFillGradientAngle, func(s *GeneratorState) {
		s.FillGradientAngle = v
	})
}

func (c *Controller) SetFillGradientRandom(v bool) {
	c.set(FieldFillGradientRandom, func(s *GeneratorState) {
		s.FillGradientRandom = v
	})
}

// SetDepthOfField toggles depth of field blur. The tile budget discount
// applies from the next composition.
func (c *Controller) SetDepthOfField(v bool) {
	c.set(FieldDepthOfField, func(s *GeneratorState) {
		s.DepthOfField = v
	})
}

func (c *Controller) SetDepthFocus(v float64) {
	c.set(FieldDepthFocus, func(s *GeneratorState) {
		s.DepthFocus = v
	})
}

func (c *Controller) SetDepthStrength(v float64) {
	c.set(FieldDepthStrength, func(s *GeneratorState) {
		s.DepthStrength = v
	})
}

func (c *Controller) SetOutlineEnabled(v bool) {
	c.set(FieldOutlineEnabled, func(s *GeneratorState) {
		s.OutlineEnabled = v
	})
}

// SetOutlineMixed toggles per-tile outline/fill selection.
func (c *Controller) SetOutlineMixed(v bool) {
	c.set(FieldOutlineMixed, func(s *GeneratorState) {
		s.OutlineMixed = v
	})
}

func (c *Controller) SetOutlineOpacity(v float64) {
	c.set(FieldOutlineOpacity, func(s *GeneratorState) {
		s.OutlineOpacity = v
	})
}

func (c *Controller) SetFillOpacity(v float64) {
	c.set(FieldFillOpacity, func(s *GeneratorState) {
		s.FillOpacity = v
	})
}

func (c *Controller) SetStrokeWidth(v float64) {
	c.set(FieldStrokeWidth, func(s *GeneratorState) {
		s.StrokeWidth = v
	})
}

func (c *Controller) SetHueRotation(v bool) {
	c.set(FieldHueRotation, func(s *GeneratorState) {
		s.HueRotation = v
	})
}

func (c *Controller) SetHueRotationSpeed(v float64) {
	c.set(FieldHueRotationSpeed, func(s *GeneratorState) {
		s.HueRotationSpeed = v
	})
}

func (c *Controller) SetPaletteCycling(v bool) {
	c.set(FieldPaletteCycling, func(s *GeneratorState) {
		s.PaletteCycling = v
	})
}

func (c *Controller) SetPaletteCyclingSpeed(v float64) {
	c.set(FieldPaletteCyclingSpeed, func(s *GeneratorState) {
		s.PaletteCyclingSpeed = v
	})
}

func (c *Controller) SetBackgroundHueRotation(v bool) {
	c.set(FieldBackgroundHueRotation, func(s *GeneratorState) {
		s.BackgroundHueRotation = v
	})
}

func (c *Controller) SetBackgroundHueRotationSpeed(v float64) {
	c.set(FieldBackgroundHueRotationSpeed, func(s *GeneratorState) {
		s.BackgroundHueRotationSpeed = v
	})
}

func (c *Controller) SetAspectRatio(v AspectRatio) {
	c.set(FieldAspectRatio, func(s *GeneratorState) {
		s.AspectRatio = v
	})
}
