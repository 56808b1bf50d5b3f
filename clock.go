package spritefield

import (
	"math"
	"time"
)

// Nominal periods of the color animations at the default speed (50).
const (
	spriteHuePeriod    = 10 * time.Second
	paletteCyclePeriod = 30 * time.Second
	canvasHuePeriod    = 12 * time.Second
)

// minAnimationSpeed keeps an enabled animation visibly moving even when its
// speed is set to zero.
const minAnimationSpeed = 0.05

// animClock is a looping phase in [0,1) advanced by scaled frame time.
type animClock struct {
	period time.Duration
	phase  float64
}

// advance moves the clock by dt at speed (0..100, 50 is nominal).
func (c *animClock) advance(dt time.Duration, speed float64) {
	if c.period <= 0 || dt <= 0 {
		return
	}
	mult := max(speed/50, minAnimationSpeed)
	c.phase += dt.Seconds() / c.period.Seconds() * mult
	c.phase -= math.Floor(c.phase)
}

// degrees returns the phase as a hue offset.
func (c *animClock) degrees() float64 { return c.phase * 360 }

// animationClocks holds the independent color animations.
type animationClocks struct {
	spriteHue    animClock
	paletteCycle animClock
	canvasHue    animClock
}

func newAnimationClocks() animationClocks {
	return animationClocks{
		spriteHue:    animClock{period: spriteHuePeriod},
		paletteCycle: animClock{period: paletteCyclePeriod},
		canvasHue:    animClock{period: canvasHuePeriod},
	}
}

// advance moves only the clocks whose animation is enabled in s.
func (a *animationClocks) advance(dt time.Duration, s *GeneratorState) {
	if s.HueRotation {
		a.spriteHue.advance(dt, s.HueRotationSpeed)
	}
	if s.PaletteCycling {
		a.paletteCycle.advance(dt, s.PaletteCyclingSpeed)
	}
	if s.BackgroundHueRotation {
		a.canvasHue.advance(dt, s.BackgroundHueRotationSpeed)
	}
}

// cyclePalette rotates palette by phase (one full turn per cycle), blending
// neighbors so the rotation is continuous. dst is reused when large enough.
func cyclePalette(dst, palette []Color, phase float64) []Color {
	n := len(palette)
	dst = dst[:0]
	if n == 0 {
		return dst
	}
	pos := phase * float64(n)
	shift := int(math.Floor(pos))
	frac := pos - float64(shift)
	for i := 0; i < n; i++ {
		a := palette[(i+shift)%n]
		b := palette[(i+shift+1)%n]
		dst = append(dst, InterpolateColor(a, b, frac))
	}
	return dst
}
