package spritefield

import (
	"math"
	"strings"
)

// ShapeKind is a built-in procedural sprite.
type ShapeKind uint8

const (
	ShapeCircle ShapeKind = iota
	ShapeSquare
	ShapeTriangle
	ShapeDiamond
	ShapePentagon
	ShapeHexagon
	ShapeStar
	ShapeCross
	ShapeBlob

	shapeKindCount
)

var shapeKindNames = []string{
	"circle", "square", "triangle", "diamond", "pentagon",
	"hexagon", "star", "cross", "blob",
}

// shapePrefix marks sprite ids that name a built-in shape.
const shapePrefix = "shape:"

func (k ShapeKind) String() string { return enumString(shapeKindNames, int(k), "ShapeKind") }

// MarshalText implements encoding.TextMarshaler.
func (k ShapeKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names decode
// to ShapeCircle.
func (k *ShapeKind) UnmarshalText(text []byte) error {
	*k = ShapeKind(parseEnum(shapeKindNames, text, int(ShapeCircle)))
	return nil
}

// ShapeKinds returns every built-in shape.
func ShapeKinds() []ShapeKind {
	out := make([]ShapeKind, shapeKindCount)
	for i := range out {
		out[i] = ShapeKind(i)
	}
	return out
}

// ShapeID returns the sprite id for a built-in shape.
func ShapeID(k ShapeKind) string {
	return shapePrefix + k.String()
}

// IsShapeID reports whether id is a shape tag rather than an asset path.
func IsShapeID(id string) bool {
	return strings.HasPrefix(id, shapePrefix)
}

// ParseSpriteID splits a sprite id into a shape or an asset path. Unknown
// shape names resolve to ShapeCircle.
func ParseSpriteID(id string) (kind ShapeKind, assetPath string, isShape bool) {
	if !IsShapeID(id) {
		return 0, id, false
	}
	var k ShapeKind
	_ = k.UnmarshalText([]byte(strings.TrimPrefix(id, shapePrefix)))
	return k, "", true
}

// shapePaths holds the unit geometry of every shape: centered on the origin
// and spanning [-0.5, 0.5] on the longest axis.
var shapePaths = func() [shapeKindCount]*Path {
	var out [shapeKindCount]*Path
	out[ShapeCircle] = ellipsePath(0, 0, 0.5, 0.5)
	out[ShapeSquare] = polygonPath(4, 0.5*math.Sqrt2, -math.Pi/4)
	out[ShapeTriangle] = polygonPath(3, 0.5, -math.Pi/2)
	out[ShapeDiamond] = polygonPath(4, 0.5, -math.Pi/2)
	out[ShapePentagon] = polygonPath(5, 0.5, -math.Pi/2)
	out[ShapeHexagon] = polygonPath(6, 0.5, 0)
	out[ShapeStar] = starPath(5, 0.5, 0.2)
	out[ShapeCross] = crossPath(0.5, 0.17)
	out[ShapeBlob] = blobPath()
	return out
}()

// ShapePath returns the unit path for k. The returned path is shared and
// must not be modified.
func ShapePath(k ShapeKind) *Path {
	if k >= shapeKindCount {
		k = ShapeCircle
	}
	return shapePaths[k]
}

func polygonPath(sides int, radius, start float64) *Path {
	p := &Path{}
	for i := 0; i < sides; i++ {
		a := start + float64(i)*2*math.Pi/float64(sides)
		x, y := math.Cos(a)*radius, math.Sin(a)*radius
		if i == 0 {
			p.MoveTo(x, y)
		} else {
			p.LineTo(x, y)
		}
	}
	p.Close()
	return p
}

func starPath(points int, outer, inner float64) *Path {
	p := &Path{}
	for i := 0; i < points*2; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := -math.Pi/2 + float64(i)*math.Pi/float64(points)
		x, y := math.Cos(a)*r, math.Sin(a)*r
		if i == 0 {
			p.MoveTo(x, y)
		} else {
			p.LineTo(x, y)
		}
	}
	p.Close()
	return p
}

func crossPath(half, arm float64) *Path {
	p := &Path{}
	pts := [...]Vec2{
		{-arm, -half}, {arm, -half}, {arm, -arm}, {half, -arm},
		{half, arm}, {arm, arm}, {arm, half}, {-arm, half},
		{-arm, arm}, {-half, arm}, {-half, -arm}, {-arm, -arm},
	}
	for i, v := range pts {
		if i == 0 {
			p.MoveTo(v.X, v.Y)
		} else {
			p.LineTo(v.X, v.Y)
		}
	}
	p.Close()
	return p
}

// blobPath is a fixed organic outline: six lobes with radii chosen by hand,
// joined with smooth cubics.
func blobPath() *Path {
	radii := [...]float64{0.5, 0.41, 0.47, 0.38, 0.46, 0.42}
	n := len(radii)
	pts := make([]Vec2, n)
	for i, r := range radii {
		a := float64(i) * 2 * math.Pi / float64(n)
		pts[i] = Vec2{math.Cos(a) * r, math.Sin(a) * r}
	}
	// Catmull-Rom through the lobe points, converted to Bézier segments.
	p := &Path{}
	p.MoveTo(pts[0].X, pts[0].Y)
	for i := 0; i < n; i++ {
		p0 := pts[(i-1+n)%n]
		p1 := pts[i]
		p2 := pts[(i+1)%n]
		p3 := pts[(i+2)%n]
		p.CubicTo(
			p1.X+(p2.X-p0.X)/6, p1.Y+(p2.Y-p0.Y)/6,
			p2.X-(p3.X-p1.X)/6, p2.Y-(p3.Y-p1.Y)/6,
			p2.X, p2.Y,
		)
	}
	p.Close()
	return p
}
