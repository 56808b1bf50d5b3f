package spritefield

import "math"

// Surface is an immediate-mode 2D drawing target. Adapters embed a
// TransformStack for Save, Restore, Translate, Rotate, Scale, SetAlpha,
// SetBlendMode and SetBlur, and map everything else onto their backend.
type Surface interface {
	// Resize changes the pixel size of the drawing area.
	Resize(w, h int)
	// Size returns the pixel size of the drawing area.
	Size() (w, h int)
	// Clear fills the whole surface with transparent black.
	Clear()

	Save()
	Restore()
	Translate(x, y float64)
	Rotate(angle float64)
	Scale(sx, sy float64)
	SetBlendMode(mode BlendMode)
	SetAlpha(alpha float64)
	// SetBlur sets a gaussian-like blur radius in pixels applied to
	// subsequent primitives. Zero disables blurring.
	SetBlur(radius float64)

	// FillRect fills r, in current coordinates, with paint.
	FillRect(r Rect, paint Paint)
	// FillPath fills p (nonzero winding) with paint.
	FillPath(p *Path, paint Paint)
	// StrokePath strokes p with the given width in current coordinates.
	StrokePath(p *Path, paint Paint, width float64)

	// Present finishes the frame.
	Present() error
}

// PaintKind selects solid or gradient paint.
type PaintKind uint8

const (
	PaintSolid PaintKind = iota
	PaintLinear
)

// Paint is a solid color or a two-stop linear gradient. Gradient endpoints
// are in the coordinates of the primitive being drawn.
type Paint struct {
	Kind       PaintKind
	Color      Color // solid color, or the gradient's first stop
	To         Color // gradient's second stop
	Start, End Vec2
}

// SolidPaint returns a solid paint.
func SolidPaint(c Color) Paint {
	return Paint{Kind: PaintSolid, Color: c}
}

// LinearPaint returns a gradient from one color at start to another at end.
func LinearPaint(from, to Color, start, end Vec2) Paint {
	return Paint{Kind: PaintLinear, Color: from, To: to, Start: start, End: end}
}

// ColorAt evaluates the paint at (x, y).
func (p Paint) ColorAt(x, y float64) Color {
	if p.Kind != PaintLinear {
		return p.Color
	}
	dx, dy := p.End.X-p.Start.X, p.End.Y-p.Start.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return p.Color
	}
	t := clamp01(((x-p.Start.X)*dx + (y-p.Start.Y)*dy) / l2)
	return Color{
		R: lerp(p.Color.R, p.To.R, t),
		G: lerp(p.Color.G, p.To.G, t),
		B: lerp(p.Color.B, p.To.B, t),
		A: lerp(p.Color.A, p.To.A, t),
	}
}

// gradientLine returns endpoints spanning r along angle (degrees, 0 points
// right, 90 points down).
func gradientLine(r Rect, angle float64) (Vec2, Vec2) {
	sin, cos := math.Sincos(angle * math.Pi / 180)
	cx, cy := r.X+r.Width/2, r.Y+r.Height/2
	half := (math.Abs(r.Width*cos) + math.Abs(r.Height*sin)) / 2
	return Vec2{cx - cos*half, cy - sin*half}, Vec2{cx + cos*half, cy + sin*half}
}

// BackgroundPaint returns the paint that fills r with bg.
func BackgroundPaint(bg Background, r Rect) Paint {
	if !bg.Gradient {
		return SolidPaint(bg.Color)
	}
	start, end := gradientLine(r, bg.Angle)
	return LinearPaint(bg.Color, bg.To, start, end)
}
