package spritefield

import (
	"math"
	"strconv"
	"strings"
)

// PathVerb is the kind of a path segment.
type PathVerb uint8

const (
	VerbMoveTo PathVerb = iota
	VerbLineTo
	VerbQuadTo
	VerbCubicTo
	VerbClose
)

// PathSegment is one verb with up to three points. MoveTo and LineTo use
// Pts[0]; QuadTo uses Pts[0..1]; CubicTo uses Pts[0..2].
type PathSegment struct {
	Verb PathVerb
	Pts  [3]Vec2
}

// Path is resolution-independent fill geometry in absolute coordinates.
type Path struct {
	Segments []PathSegment
}

// MoveTo starts a new subpath.
func (p *Path) MoveTo(x, y float64) {
	p.Segments = append(p.Segments, PathSegment{Verb: VerbMoveTo, Pts: [3]Vec2{{x, y}}})
}

// LineTo adds a straight segment.
func (p *Path) LineTo(x, y float64) {
	p.Segments = append(p.Segments, PathSegment{Verb: VerbLineTo, Pts: [3]Vec2{{x, y}}})
}

// QuadTo adds a quadratic Bézier segment.
func (p *Path) QuadTo(cx, cy, x, y float64) {
	p.Segments = append(p.Segments, PathSegment{Verb: VerbQuadTo, Pts: [3]Vec2{{cx, cy}, {x, y}}})
}

// CubicTo adds a cubic Bézier segment.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.Segments = append(p.Segments, PathSegment{Verb: VerbCubicTo, Pts: [3]Vec2{{c1x, c1y}, {c2x, c2y}, {x, y}}})
}

// Close closes the current subpath.
func (p *Path) Close() {
	p.Segments = append(p.Segments, PathSegment{Verb: VerbClose})
}

// Empty reports whether the path draws nothing.
func (p *Path) Empty() bool {
	if p == nil {
		return true
	}
	for _, s := range p.Segments {
		if s.Verb != VerbMoveTo && s.Verb != VerbClose {
			return false
		}
	}
	return true
}

// Append adds all segments of other to p.
func (p *Path) Append(other *Path) {
	if other == nil {
		return
	}
	p.Segments = append(p.Segments, other.Segments...)
}

// Transform returns a copy of p with every point mapped through m.
func (p *Path) Transform(m Affine) *Path {
	out := &Path{Segments: make([]PathSegment, len(p.Segments))}
	for i, s := range p.Segments {
		n := pointCount(s.Verb)
		for j := 0; j < n; j++ {
			s.Pts[j].X, s.Pts[j].Y = m.Apply(s.Pts[j].X, s.Pts[j].Y)
		}
		out.Segments[i] = s
	}
	return out
}

// Bounds returns the tight bounding box of the path. Curves are bounded by
// their extrema, not their control hulls. ok is false for an empty path or
// when any coordinate is not finite.
func (p *Path) Bounds() (r Rect, ok bool) {
	if p == nil {
		return Rect{}, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	add := func(x, y float64) {
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}
	var cur, start Vec2
	drawn := false
	for _, s := range p.Segments {
		switch s.Verb {
		case VerbMoveTo:
			cur, start = s.Pts[0], s.Pts[0]
		case VerbLineTo:
			add(cur.X, cur.Y)
			add(s.Pts[0].X, s.Pts[0].Y)
			cur = s.Pts[0]
			drawn = true
		case VerbQuadTo:
			// Elevate to cubic to share the extrema solver.
			c1 := Vec2{cur.X + 2.0/3*(s.Pts[0].X-cur.X), cur.Y + 2.0/3*(s.Pts[0].Y-cur.Y)}
			c2 := Vec2{s.Pts[1].X + 2.0/3*(s.Pts[0].X-s.Pts[1].X), s.Pts[1].Y + 2.0/3*(s.Pts[0].Y-s.Pts[1].Y)}
			cubicExtrema(cur, c1, c2, s.Pts[1], add)
			cur = s.Pts[1]
			drawn = true
		case VerbCubicTo:
			cubicExtrema(cur, s.Pts[0], s.Pts[1], s.Pts[2], add)
			cur = s.Pts[2]
			drawn = true
		case VerbClose:
			cur = start
		}
	}
	if !drawn {
		return Rect{}, false
	}
	for _, v := range [4]float64{minX, minY, maxX, maxY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Rect{}, false
		}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// cubicExtrema reports the endpoints and interior axis extrema of a cubic.
func cubicExtrema(p0, p1, p2, p3 Vec2, add func(x, y float64)) {
	add(p0.X, p0.Y)
	add(p3.X, p3.Y)
	eval := func(t float64) {
		mt := 1 - t
		a, b, c, d := mt*mt*mt, 3*mt*mt*t, 3*mt*t*t, t*t*t
		add(a*p0.X+b*p1.X+c*p2.X+d*p3.X, a*p0.Y+b*p1.Y+c*p2.Y+d*p3.Y)
	}
	for axis := 0; axis < 2; axis++ {
		var v0, v1, v2, v3 float64
		if axis == 0 {
			v0, v1, v2, v3 = p0.X, p1.X, p2.X, p3.X
		} else {
			v0, v1, v2, v3 = p0.Y, p1.Y, p2.Y, p3.Y
		}
		// Derivative coefficients: a t² + b t + c.
		a := -v0 + 3*v1 - 3*v2 + v3
		b := 2 * (v0 - 2*v1 + v2)
		c := v1 - v0
		for _, t := range quadRoots(a, b, c) {
			if t > 0 && t < 1 {
				eval(t)
			}
		}
	}
}

func quadRoots(a, b, c float64) []float64 {
	const eps = 1e-12
	if math.Abs(a) < eps {
		if math.Abs(b) < eps {
			return nil
		}
		return []float64{-c / b}
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return nil
	}
	sq := math.Sqrt(disc)
	return []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
}

// SVGData formats the path as SVG path data with absolute commands.
func (p *Path) SVGData() string {
	var b strings.Builder
	for i, s := range p.Segments {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch s.Verb {
		case VerbMoveTo:
			b.WriteByte('M')
		case VerbLineTo:
			b.WriteByte('L')
		case VerbQuadTo:
			b.WriteByte('Q')
		case VerbCubicTo:
			b.WriteByte('C')
		case VerbClose:
			b.WriteByte('Z')
			continue
		}
		for j := 0; j < pointCount(s.Verb); j++ {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(formatCoord(s.Pts[j].X))
			b.WriteByte(',')
			b.WriteString(formatCoord(s.Pts[j].Y))
		}
	}
	return b.String()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}

func pointCount(v PathVerb) int {
	switch v {
	case VerbMoveTo, VerbLineTo:
		return 1
	case VerbQuadTo:
		return 2
	case VerbCubicTo:
		return 3
	}
	return 0
}

func segmentFinite(s PathSegment) bool {
	for j := 0; j < pointCount(s.Verb); j++ {
		x, y := s.Pts[j].X, s.Pts[j].Y
		if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
			return false
		}
	}
	return true
}

// Finite returns p without the subpaths that hold a non-finite coordinate.
// p itself is returned when every point is finite.
func (p *Path) Finite() *Path {
	if p == nil {
		return nil
	}
	clean := true
	for _, s := range p.Segments {
		if !segmentFinite(s) {
			clean = false
			break
		}
	}
	if clean {
		return p
	}
	out := &Path{}
	var sub []PathSegment
	ok := true
	flush := func() {
		if ok {
			out.Segments = append(out.Segments, sub...)
		}
		sub, ok = sub[:0], true
	}
	for _, s := range p.Segments {
		if s.Verb == VerbMoveTo {
			flush()
		}
		sub = append(sub, s)
		ok = ok && segmentFinite(s)
	}
	flush()
	return out
}

// Flatten calls emit for every subpath as a polyline, approximating curves
// with tol as the maximum chord length in path units. closed reports whether
// the subpath ended with Close. pts is reused and only valid during the call.
func (p *Path) Flatten(tol float64, emit func(pts []Vec2, closed bool)) {
	if tol <= 0 {
		tol = 0.5
	}
	var pts []Vec2
	var cur Vec2
	flush := func(closed bool) {
		if len(pts) > 1 {
			emit(pts, closed)
		}
		pts = pts[:0]
	}
	for _, s := range p.Segments {
		switch s.Verb {
		case VerbMoveTo:
			flush(false)
			cur = s.Pts[0]
			pts = append(pts, cur)
		case VerbLineTo:
			if len(pts) == 0 {
				pts = append(pts, cur)
			}
			cur = s.Pts[0]
			pts = append(pts, cur)
		case VerbQuadTo:
			if len(pts) == 0 {
				pts = append(pts, cur)
			}
			n := curveSteps(tol, cur, s.Pts[0], s.Pts[1])
			for i := 1; i <= n; i++ {
				t := float64(i) / float64(n)
				mt := 1 - t
				pts = append(pts, Vec2{
					mt*mt*cur.X + 2*mt*t*s.Pts[0].X + t*t*s.Pts[1].X,
					mt*mt*cur.Y + 2*mt*t*s.Pts[0].Y + t*t*s.Pts[1].Y,
				})
			}
			cur = s.Pts[1]
		case VerbCubicTo:
			if len(pts) == 0 {
				pts = append(pts, cur)
			}
			n := curveSteps(tol, cur, s.Pts[0], s.Pts[1], s.Pts[2])
			for i := 1; i <= n; i++ {
				t := float64(i) / float64(n)
				mt := 1 - t
				a, b, c, d := mt*mt*mt, 3*mt*mt*t, 3*mt*t*t, t*t*t
				pts = append(pts, Vec2{
					a*cur.X + b*s.Pts[0].X + c*s.Pts[1].X + d*s.Pts[2].X,
					a*cur.Y + b*s.Pts[0].Y + c*s.Pts[1].Y + d*s.Pts[2].Y,
				})
			}
			cur = s.Pts[2]
		case VerbClose:
			if len(pts) > 0 {
				cur = pts[0]
			}
			flush(true)
		}
	}
	flush(false)
}

// curveSteps estimates a segment count from the control polygon length.
func curveSteps(tol float64, pts ...Vec2) int {
	var length float64
	for i := 1; i < len(pts); i++ {
		length += math.Hypot(pts[i].X-pts[i-1].X, pts[i].Y-pts[i-1].Y)
	}
	n := int(math.Ceil(length / tol))
	return max(2, min(n, 64))
}
