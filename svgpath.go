package spritefield

import (
	"fmt"
	"math"
	"strconv"
)

// ParsePathData parses SVG path data ("d" attribute) into absolute path
// geometry. Arcs are converted to cubic Béziers. On a syntax error the
// geometry parsed so far is returned together with the error, matching the
// SVG rule that rendering stops at the first bad command.
func ParsePathData(d string) (*Path, error) {
	p := &Path{}
	sc := pathScanner{s: d}
	var (
		cmd        byte
		cur, start Vec2
		lastCtrl   Vec2
		lastVerb   byte
	)
	for {
		sc.skipSeparators()
		if sc.done() {
			break
		}
		if c := sc.peek(); isPathCommand(c) {
			cmd = c
			sc.pos++
		} else if cmd == 0 {
			return p, fmt.Errorf("path data: expected command at offset %d", sc.pos)
		} else if cmd == 'M' {
			cmd = 'L' // implicit lineto after moveto
		} else if cmd == 'm' {
			cmd = 'l'
		}

		rel := cmd >= 'a' && cmd <= 'z'
		base := Vec2{}
		if rel {
			base = cur
		}
		upper := cmd
		if rel {
			upper = cmd - 'a' + 'A'
		}

		switch upper {
		case 'Z':
			p.Close()
			cur = start
			lastVerb = 'Z'
			cmd = 0
			continue
		case 'M':
			pt, err := sc.point()
			if err != nil {
				return p, err
			}
			cur = Vec2{base.X + pt.X, base.Y + pt.Y}
			start = cur
			p.MoveTo(cur.X, cur.Y)
		case 'L':
			pt, err := sc.point()
			if err != nil {
				return p, err
			}
			cur = Vec2{base.X + pt.X, base.Y + pt.Y}
			p.LineTo(cur.X, cur.Y)
		case 'H':
			x, err := sc.number()
			if err != nil {
				return p, err
			}
			cur.X = base.X + x
			p.LineTo(cur.X, cur.Y)
		case 'V':
			y, err := sc.number()
			if err != nil {
				return p, err
			}
			cur.Y = base.Y + y
			p.LineTo(cur.X, cur.Y)
		case 'C':
			pts, err := sc.points(3)
			if err != nil {
				return p, err
			}
			c1 := Vec2{base.X + pts[0].X, base.Y + pts[0].Y}
			c2 := Vec2{base.X + pts[1].X, base.Y + pts[1].Y}
			cur = Vec2{base.X + pts[2].X, base.Y + pts[2].Y}
			p.CubicTo(c1.X, c1.Y, c2.X, c2.Y, cur.X, cur.Y)
			lastCtrl = c2
		case 'S':
			pts, err := sc.points(2)
			if err != nil {
				return p, err
			}
			c1 := cur
			if lastVerb == 'C' || lastVerb == 'S' {
				c1 = Vec2{2*cur.X - lastCtrl.X, 2*cur.Y - lastCtrl.Y}
			}
			c2 := Vec2{base.X + pts[0].X, base.Y + pts[0].Y}
			cur = Vec2{base.X + pts[1].X, base.Y + pts[1].Y}
			p.CubicTo(c1.X, c1.Y, c2.X, c2.Y, cur.X, cur.Y)
			lastCtrl = c2
		case 'Q':
			pts, err := sc.points(2)
			if err != nil {
				return p, err
			}
			c := Vec2{base.X + pts[0].X, base.Y + pts[0].Y}
			cur = Vec2{base.X + pts[1].X, base.Y + pts[1].Y}
			p.QuadTo(c.X, c.Y, cur.X, cur.Y)
			lastCtrl = c
		case 'T':
			pt, err := sc.point()
			if err != nil {
				return p, err
			}
			c := cur
			if lastVerb == 'Q' || lastVerb == 'T' {
				c = Vec2{2*cur.X - lastCtrl.X, 2*cur.Y - lastCtrl.Y}
			}
			cur = Vec2{base.X + pt.X, base.Y + pt.Y}
			p.QuadTo(c.X, c.Y, cur.X, cur.Y)
			lastCtrl = c
		case 'A':
			rx, err := sc.number()
			if err != nil {
				return p, err
			}
			ry, err := sc.number()
			if err != nil {
				return p, err
			}
			rot, err := sc.number()
			if err != nil {
				return p, err
			}
			large, err := sc.flag()
			if err != nil {
				return p, err
			}
			sweep, err := sc.flag()
			if err != nil {
				return p, err
			}
			pt, err := sc.point()
			if err != nil {
				return p, err
			}
			end := Vec2{base.X + pt.X, base.Y + pt.Y}
			arcToCubics(p, cur, end, rx, ry, rot, large, sweep)
			cur = end
		default:
			return p, fmt.Errorf("path data: unknown command %q", cmd)
		}
		lastVerb = upper
	}
	return p, nil
}

func isPathCommand(c byte) bool {
	switch c {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'C', 'c', 'S', 's',
		'Q', 'q', 'T', 't', 'A', 'a', 'Z', 'z':
		return true
	}
	return false
}

// arcToCubics appends an SVG elliptical arc as cubic segments using the
// endpoint-to-center conversion from the SVG implementation notes (F.6).
func arcToCubics(p *Path, from, to Vec2, rx, ry, rotDeg float64, large, sweep bool) {
	if from == to {
		return
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		p.LineTo(to.X, to.Y)
		return
	}
	phi := rotDeg * math.Pi / 180
	sinPhi, cosPhi := math.Sincos(phi)

	dx2, dy2 := (from.X-to.X)/2, (from.Y-to.Y)/2
	x1p := cosPhi*dx2 + sinPhi*dy2
	y1p := -sinPhi*dx2 + cosPhi*dy2

	// Scale radii up when they cannot span the endpoints.
	lambda := (x1p*x1p)/(rx*rx) + (y1p*y1p)/(ry*ry)
	if lambda > 1 {
		s := math.Sqrt(lambda)
		rx, ry = rx*s, ry*s
	}

	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	coef := 0.0
	if den != 0 && num > 0 {
		coef = math.Sqrt(num / den)
	}
	if large == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx

	cx := cosPhi*cxp - sinPhi*cyp + (from.X+to.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (from.Y+to.Y)/2

	theta1 := vecAngle(1, 0, (x1p-cxp)/rx, (y1p-cyp)/ry)
	dtheta := vecAngle((x1p-cxp)/rx, (y1p-cyp)/ry, (-x1p-cxp)/rx, (-y1p-cyp)/ry)
	if !sweep && dtheta > 0 {
		dtheta -= 2 * math.Pi
	} else if sweep && dtheta < 0 {
		dtheta += 2 * math.Pi
	}

	segs := int(math.Ceil(math.Abs(dtheta) / (math.Pi / 2)))
	segs = max(segs, 1)
	delta := dtheta / float64(segs)
	k := 4.0 / 3.0 * math.Tan(delta/4)

	point := func(theta float64) (x, y, dx, dy float64) {
		sin, cos := math.Sincos(theta)
		ex, ey := rx*cos, ry*sin
		x = cosPhi*ex - sinPhi*ey + cx
		y = sinPhi*ex + cosPhi*ey + cy
		tx, ty := -rx*sin, ry*cos
		dx = cosPhi*tx - sinPhi*ty
		dy = sinPhi*tx + cosPhi*ty
		return
	}

	theta := theta1
	x0, y0, dx0, dy0 := point(theta)
	for i := 0; i < segs; i++ {
		next := theta + delta
		x1, y1, dx1, dy1 := point(next)
		if i == segs-1 {
			x1, y1 = to.X, to.Y
		}
		p.CubicTo(x0+k*dx0, y0+k*dy0, x1-k*dx1, y1-k*dy1, x1, y1)
		theta = next
		x0, y0, dx0, dy0 = x1, y1, dx1, dy1
	}
}

func vecAngle(ux, uy, vx, vy float64) float64 {
	return math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
}

// pathScanner tokenizes SVG path data and number lists.
type pathScanner struct {
	s   string
	pos int
}

func (sc *pathScanner) done() bool { return sc.pos >= len(sc.s) }

func (sc *pathScanner) peek() byte { return sc.s[sc.pos] }

func (sc *pathScanner) skipSeparators() {
	for sc.pos < len(sc.s) {
		switch sc.s[sc.pos] {
		case ' ', '\t', '\n', '\r', '\f', ',':
			sc.pos++
		default:
			return
		}
	}
}

// number reads one number. SVG allows "1.5.5" (two numbers) and "1-2".
func (sc *pathScanner) number() (float64, error) {
	sc.skipSeparators()
	start := sc.pos
	i := sc.pos
	if i < len(sc.s) && (sc.s[i] == '+' || sc.s[i] == '-') {
		i++
	}
	digits, dot := false, false
	for i < len(sc.s) {
		c := sc.s[i]
		if c >= '0' && c <= '9' {
			digits = true
			i++
		} else if c == '.' && !dot {
			dot = true
			i++
		} else {
			break
		}
	}
	if digits && i < len(sc.s) && (sc.s[i] == 'e' || sc.s[i] == 'E') {
		j := i + 1
		if j < len(sc.s) && (sc.s[j] == '+' || sc.s[j] == '-') {
			j++
		}
		if j < len(sc.s) && sc.s[j] >= '0' && sc.s[j] <= '9' {
			for j < len(sc.s) && sc.s[j] >= '0' && sc.s[j] <= '9' {
				j++
			}
			i = j
		}
	}
	if !digits {
		return 0, fmt.Errorf("path data: expected number at offset %d", start)
	}
	v, err := strconv.ParseFloat(sc.s[start:i], 64)
	if err != nil {
		return 0, fmt.Errorf("path data: %w", err)
	}
	sc.pos = i
	return v, nil
}

// flag reads an arc flag, which may be packed without separators ("011").
func (sc *pathScanner) flag() (bool, error) {
	sc.skipSeparators()
	if sc.done() {
		return false, fmt.Errorf("path data: expected flag at end of input")
	}
	switch sc.peek() {
	case '0':
		sc.pos++
		return false, nil
	case '1':
		sc.pos++
		return true, nil
	}
	return false, fmt.Errorf("path data: expected flag at offset %d", sc.pos)
}

func (sc *pathScanner) point() (Vec2, error) {
	x, err := sc.number()
	if err != nil {
		return Vec2{}, err
	}
	y, err := sc.number()
	if err != nil {
		return Vec2{}, err
	}
	return Vec2{x, y}, nil
}

func (sc *pathScanner) points(n int) ([3]Vec2, error) {
	var out [3]Vec2
	for i := 0; i < n; i++ {
		pt, err := sc.point()
		if err != nil {
			return out, err
		}
		out[i] = pt
	}
	return out, nil
}

// parseNumberList parses a whitespace/comma separated list of numbers, as
// used by polygon points and viewBox.
func parseNumberList(s string) ([]float64, error) {
	sc := pathScanner{s: s}
	var out []float64
	for {
		sc.skipSeparators()
		if sc.done() {
			return out, nil
		}
		v, err := sc.number()
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
}
