package spritefield

import (
	"image"
	"math"

	"golang.org/x/image/vector"
)

// RasterizePath fills p, mapped through m, into a new w×h white coverage
// image. Pixels are premultiplied, so every channel equals the coverage.
// Subpaths with non-finite coordinates are skipped.
func RasterizePath(p *Path, m Affine, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	if p.Empty() {
		return dst
	}
	p = p.Transform(m).Finite()
	if p.Empty() {
		return dst
	}
	r := vector.NewRasterizer(dst.Bounds().Dx(), dst.Bounds().Dy())
	pt := func(v Vec2) (float32, float32) {
		return float32(v.X), float32(v.Y)
	}
	var start Vec2
	open := false
	for _, s := range p.Segments {
		if s.Verb != VerbMoveTo && s.Verb != VerbClose && !open {
			// Drawing continues after Close from the subpath start.
			r.MoveTo(pt(start))
			open = true
		}
		switch s.Verb {
		case VerbMoveTo:
			if open {
				r.ClosePath()
			}
			r.MoveTo(pt(s.Pts[0]))
			start, open = s.Pts[0], true
		case VerbLineTo:
			r.LineTo(pt(s.Pts[0]))
		case VerbQuadTo:
			x0, y0 := pt(s.Pts[0])
			x1, y1 := pt(s.Pts[1])
			r.QuadTo(x0, y0, x1, y1)
		case VerbCubicTo:
			x0, y0 := pt(s.Pts[0])
			x1, y1 := pt(s.Pts[1])
			x2, y2 := pt(s.Pts[2])
			r.CubeTo(x0, y0, x1, y1, x2, y2)
		case VerbClose:
			if open {
				r.ClosePath()
				open = false
			}
		}
	}
	if open {
		r.ClosePath()
	}
	r.Draw(dst, dst.Bounds(), image.White, image.Point{})
	return dst
}

// joinSides is the polygon resolution of round stroke joins.
const joinSides = 12

// StrokeOutline returns fill geometry covering a stroke of p with the given
// width and round joins. Every contour winds the same way, so the outline
// fills correctly under either fill rule of a saturating rasterizer.
func StrokeOutline(p *Path, width, tol float64) *Path {
	out := &Path{}
	hw := width / 2
	if p.Empty() || hw <= 0 {
		return out
	}
	p.Finite().Flatten(tol, func(pts []Vec2, closed bool) {
		n := len(pts)
		segs := n - 1
		if closed {
			segs = n
		}
		for i := 0; i < segs; i++ {
			a, b := pts[i], pts[(i+1)%n]
			dx, dy := b.X-a.X, b.Y-a.Y
			l := math.Hypot(dx, dy)
			if l == 0 {
				continue
			}
			nx, ny := -dy/l*hw, dx/l*hw
			out.MoveTo(a.X+nx, a.Y+ny)
			out.LineTo(b.X+nx, b.Y+ny)
			out.LineTo(b.X-nx, b.Y-ny)
			out.LineTo(a.X-nx, a.Y-ny)
			out.Close()
		}
		for _, v := range pts {
			joinDisc(out, v, hw)
		}
	})
	return out
}

// joinDisc adds a disc polygon wound like the segment quads.
func joinDisc(out *Path, c Vec2, r float64) {
	for k := 0; k < joinSides; k++ {
		a := -2 * math.Pi * float64(k) / joinSides
		x, y := c.X+r*math.Cos(a), c.Y+r*math.Sin(a)
		if k == 0 {
			out.MoveTo(x, y)
		} else {
			out.LineTo(x, y)
		}
	}
	out.Close()
}
