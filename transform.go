package spritefield

import "math"

// Affine is a 2D affine matrix stored as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Affine [6]float64

// Identity is the identity affine matrix.
var Identity = Affine{1, 0, 0, 1, 0, 0}

// Multiply returns p * c (c is applied first).
func (p Affine) Multiply(c Affine) Affine {
	return Affine{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// Invert returns the inverse matrix, or Identity if m is singular.
func (m Affine) Invert() Affine {
	det := m.Det()
	if det > -1e-12 && det < 1e-12 {
		return Identity
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Affine{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// Det returns the determinant of the linear part.
func (m Affine) Det() float64 {
	return m[0]*m[3] - m[2]*m[1]
}

// Apply transforms the point (x, y).
func (m Affine) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// MeanScale is the geometric mean scale factor, used to scale stroke widths
// and blur radii into device space.
func (m Affine) MeanScale() float64 {
	return math.Sqrt(math.Abs(m.Det()))
}

// Translation returns a translation matrix.
func Translation(x, y float64) Affine { return Affine{1, 0, 0, 1, x, y} }

// Scaling returns a scale matrix.
func Scaling(sx, sy float64) Affine { return Affine{sx, 0, 0, sy, 0, 0} }

// Rotation returns a rotation matrix for angle radians.
func Rotation(angle float64) Affine {
	sin, cos := math.Sincos(angle)
	return Affine{cos, sin, -sin, cos, 0, 0}
}

// Skewing returns a skew matrix for the given angles in radians.
func Skewing(ax, ay float64) Affine {
	return Affine{1, math.Tan(ay), math.Tan(ax), 1, 0, 0}
}

// tileTransform builds the placement matrix for a tile. Composition order:
//
//	Scale(size) -> Rotate -> Translate(x, y)
//
// Tile geometry is centered on the origin, so no pivot step is needed.
func tileTransform(x, y, sizeX, sizeY, rotation float64) Affine {
	sin, cos := math.Sincos(rotation)
	return Affine{cos * sizeX, sin * sizeX, -sin * sizeY, cos * sizeY, x, y}
}

// TransformStack tracks the current transform with save/restore semantics.
// Surface adapters embed it to implement Save, Restore, Translate, Rotate and
// Scale identically.
type TransformStack struct {
	init    bool
	current Affine
	saved   []stackEntry
	alpha   float64
	blend   BlendMode
	blur    float64
}

type stackEntry struct {
	m     Affine
	alpha float64
	blend BlendMode
	blur  float64
}

// Reset clears the stack back to the identity with full alpha.
func (t *TransformStack) Reset() {
	t.init = true
	t.current = Identity
	t.saved = t.saved[:0]
	t.alpha = 1
	t.blend = BlendNormal
	t.blur = 0
}

// Save pushes the current state.
func (t *TransformStack) Save() {
	t.ensure()
	t.saved = append(t.saved, stackEntry{t.current, t.alpha, t.blend, t.blur})
}

// Restore pops the most recently saved state. No-op on an empty stack.
func (t *TransformStack) Restore() {
	if len(t.saved) == 0 {
		return
	}
	e := t.saved[len(t.saved)-1]
	t.saved = t.saved[:len(t.saved)-1]
	t.current, t.alpha, t.blend, t.blur = e.m, e.alpha, e.blend, e.blur
}

// Translate post-multiplies a translation.
func (t *TransformStack) Translate(x, y float64) {
	t.ensure()
	t.current = t.current.Multiply(Translation(x, y))
}

// Rotate post-multiplies a rotation in radians.
func (t *TransformStack) Rotate(angle float64) {
	t.ensure()
	t.current = t.current.Multiply(Rotation(angle))
}

// Scale post-multiplies a scale.
func (t *TransformStack) Scale(sx, sy float64) {
	t.ensure()
	t.current = t.current.Multiply(Scaling(sx, sy))
}

// SetAlpha sets the alpha multiplier for subsequent primitives.
func (t *TransformStack) SetAlpha(a float64) {
	t.ensure()
	t.alpha = clamp01(a)
}

// SetBlendMode sets the blend mode for subsequent primitives.
func (t *TransformStack) SetBlendMode(b BlendMode) {
	t.ensure()
	t.blend = b
}

// SetBlur sets the blur radius (pixels) for subsequent primitives.
func (t *TransformStack) SetBlur(radius float64) {
	t.ensure()
	t.blur = max(radius, 0)
}

// Matrix returns the current transform.
func (t *TransformStack) Matrix() Affine {
	t.ensure()
	return t.current
}

// Alpha returns the current alpha multiplier.
func (t *TransformStack) Alpha() float64 {
	t.ensure()
	return t.alpha
}

// BlendMode returns the current blend mode.
func (t *TransformStack) BlendMode() BlendMode { return t.blend }

// Blur returns the current blur radius.
func (t *TransformStack) Blur() float64 { return t.blur }

// ensure lazily initializes a zero-value stack.
func (t *TransformStack) ensure() {
	if !t.init {
		t.Reset()
	}
}
