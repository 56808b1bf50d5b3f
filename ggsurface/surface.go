// Package ggsurface renders spritefield frames on the CPU with gogpu/gg,
// for headless PNG output and golden-image tests.
package ggsurface

import (
	"fmt"
	"image"
	"io"
	"math"

	"github.com/gogpu/gg"

	"github.com/phanxgames/spritefield"
)

// blurTaps is the number of offset copies used to approximate a blur.
const blurTaps = 8

// Surface implements spritefield.Surface on a gg.Context. Geometry is
// transformed on the CPU and the context's own matrix stays at identity.
type Surface struct {
	spritefield.TransformStack
	dc *gg.Context
}

var _ spritefield.Surface = (*Surface)(nil)

// New returns a w×h surface.
func New(w, h int) *Surface {
	s := &Surface{dc: gg.NewContext(max(w, 1), max(h, 1))}
	s.dc.SetFillRule(gg.FillRuleNonZero)
	s.dc.SetLineJoin(gg.LineJoinRound)
	s.Reset()
	return s
}

// Context returns the underlying gg context.
func (s *Surface) Context() *gg.Context { return s.dc }

// Resize reallocates the pixel buffer when the size changes.
func (s *Surface) Resize(w, h int) {
	if err := s.dc.Resize(max(w, 1), max(h, 1)); err != nil {
		spritefield.Logger().Warn("ggsurface: resize", "err", err)
	}
}

// Size returns the pixel size.
func (s *Surface) Size() (int, int) { return s.dc.Width(), s.dc.Height() }

// Clear clears to transparent black and resets the transform stack.
func (s *Surface) Clear() {
	s.Reset()
	s.dc.ClearWithColor(gg.Transparent)
}

// FillRect fills r in current coordinates.
func (s *Surface) FillRect(r spritefield.Rect, paint spritefield.Paint) {
	var p spritefield.Path
	p.MoveTo(r.X, r.Y)
	p.LineTo(r.X+r.Width, r.Y)
	p.LineTo(r.X+r.Width, r.Y+r.Height)
	p.LineTo(r.X, r.Y+r.Height)
	p.Close()
	s.draw(&p, paint, 0)
}

// FillPath fills p with paint.
func (s *Surface) FillPath(p *spritefield.Path, paint spritefield.Paint) {
	s.draw(p, paint, 0)
}

// StrokePath strokes p with width in current coordinates.
func (s *Surface) StrokePath(p *spritefield.Path, paint spritefield.Paint, width float64) {
	if width <= 0 {
		return
	}
	s.draw(p, paint, width)
}

// Present is a no-op; the frame is complete once drawn.
func (s *Surface) Present() error { return nil }

// Image returns the rendered frame.
func (s *Surface) Image() image.Image { return s.dc.Image() }

// EncodePNG writes the frame as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	if err := s.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("ggsurface: encode png: %w", err)
	}
	return nil
}

// SavePNG writes the frame to a PNG file.
func (s *Surface) SavePNG(path string) error {
	if err := s.dc.SavePNG(path); err != nil {
		return fmt.Errorf("ggsurface: save %s: %w", path, err)
	}
	return nil
}

// Close releases the context.
func (s *Surface) Close() error { return s.dc.Close() }

// draw fills (width 0) or strokes p. Source-over primitives draw directly
// with alpha folded into the paint. Other blend modes and blurred
// primitives go through a layer composited with the stack's alpha.
func (s *Surface) draw(p *spritefield.Path, paint spritefield.Paint, width float64) {
	alpha := s.Alpha()
	if p.Empty() || alpha <= 0 {
		return
	}
	m := s.Matrix()
	dev := p.Transform(m).Finite()
	if dev.Empty() {
		return
	}
	lineWidth := width * m.MeanScale()
	blur := s.Blur()

	mode, layered := ggBlend(s.BlendMode())
	if blur >= 1 {
		layered = true
	}
	if !layered {
		s.setPaint(paint, m, alpha)
		s.emit(dev, 0, 0, lineWidth)
		return
	}

	s.dc.PushLayer(mode, alpha)
	if blur < 1 {
		s.setPaint(paint, m, 1)
		s.emit(dev, 0, 0, lineWidth)
	} else {
		// Offset copies on a ring approximate a blur of the given radius.
		s.setPaint(paint, m, 1.0/(blurTaps/2+1))
		s.emit(dev, 0, 0, lineWidth)
		for i := 0; i < blurTaps; i++ {
			a := 2 * math.Pi * float64(i) / blurTaps
			s.emit(dev, blur*math.Cos(a), blur*math.Sin(a), lineWidth)
		}
	}
	s.dc.PopLayer()
}

// emit replays dev into the context offset by (dx, dy) and fills or
// strokes it.
func (s *Surface) emit(dev *spritefield.Path, dx, dy, lineWidth float64) {
	for _, seg := range dev.Segments {
		pt := seg.Pts
		switch seg.Verb {
		case spritefield.VerbMoveTo:
			s.dc.MoveTo(pt[0].X+dx, pt[0].Y+dy)
		case spritefield.VerbLineTo:
			s.dc.LineTo(pt[0].X+dx, pt[0].Y+dy)
		case spritefield.VerbQuadTo:
			s.dc.QuadraticTo(pt[0].X+dx, pt[0].Y+dy, pt[1].X+dx, pt[1].Y+dy)
		case spritefield.VerbCubicTo:
			s.dc.CubicTo(pt[0].X+dx, pt[0].Y+dy, pt[1].X+dx, pt[1].Y+dy, pt[2].X+dx, pt[2].Y+dy)
		case spritefield.VerbClose:
			s.dc.ClosePath()
		}
	}
	var err error
	if lineWidth > 0 {
		s.dc.SetLineWidth(lineWidth)
		err = s.dc.Stroke()
	} else {
		err = s.dc.Fill()
	}
	if err != nil {
		spritefield.Logger().Debug("ggsurface: draw", "err", err)
	}
}

// setPaint installs paint as the context brush. Gradient endpoints are
// mapped to device space; the tile transforms are conformal, so the
// gradient stays linear.
func (s *Surface) setPaint(paint spritefield.Paint, m spritefield.Affine, alpha float64) {
	if paint.Kind != spritefield.PaintLinear {
		c := paint.Color
		s.dc.SetRGBA(c.R, c.G, c.B, c.A*alpha)
		return
	}
	x0, y0 := m.Apply(paint.Start.X, paint.Start.Y)
	x1, y1 := m.Apply(paint.End.X, paint.End.Y)
	s.dc.SetFillBrush(gg.NewLinearGradientBrush(x0, y0, x1, y1).
		AddColorStop(0, ggColor(paint.Color, alpha)).
		AddColorStop(1, ggColor(paint.To, alpha)))
}

func ggColor(c spritefield.Color, alpha float64) gg.RGBA {
	return gg.RGBA{R: c.R, G: c.G, B: c.B, A: c.A * alpha}
}

// ggBlend maps a tile blend mode onto the layer modes gg supports. layered
// is false for source-over. Additive, darken, lighten and difference have
// no gg equivalent: additive and lighten draw as screen, the rest as
// normal layers.
func ggBlend(b spritefield.BlendMode) (mode gg.BlendMode, layered bool) {
	switch b {
	case spritefield.BlendMultiply:
		return gg.BlendMultiply, true
	case spritefield.BlendScreen, spritefield.BlendAdd, spritefield.BlendLighten:
		return gg.BlendScreen, true
	case spritefield.BlendOverlay:
		return gg.BlendOverlay, true
	default:
		return gg.BlendNormal, false
	}
}
