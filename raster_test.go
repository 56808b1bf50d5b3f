package spritefield

import (
	"math"
	"testing"
)

func squarePath(x0, y0, x1, y1 float64) *Path {
	p := &Path{}
	p.MoveTo(x0, y0)
	p.LineTo(x1, y0)
	p.LineTo(x1, y1)
	p.LineTo(x0, y1)
	p.Close()
	return p
}

func coverage(t *testing.T, p *Path, m Affine, w, h int, x, y int) uint8 {
	t.Helper()
	return RasterizePath(p, m, w, h).RGBAAt(x, y).A
}

func TestRasterizePathSquare(t *testing.T) {
	sq := squarePath(2, 2, 8, 8)
	img := RasterizePath(sq, Identity, 10, 10)

	if got := img.RGBAAt(5, 5).A; got != 255 {
		t.Errorf("inside coverage = %d, want 255", got)
	}
	if got := img.RGBAAt(0, 0).A; got != 0 {
		t.Errorf("outside coverage = %d, want 0", got)
	}
	if got := img.RGBAAt(9, 5).A; got != 0 {
		t.Errorf("right of square coverage = %d, want 0", got)
	}
	// Premultiplied white: every channel carries the coverage.
	if c := img.RGBAAt(5, 5); c.R != c.A || c.G != c.A || c.B != c.A {
		t.Errorf("pixel = %+v", c)
	}
}

func TestRasterizePathTransform(t *testing.T) {
	unit := squarePath(0, 0, 1, 1)
	m := Translation(10, 10).Multiply(Scaling(5, 5))
	if got := coverage(t, unit, m, 20, 20, 12, 12); got != 255 {
		t.Errorf("mapped square coverage = %d, want 255", got)
	}
	if got := coverage(t, unit, m, 20, 20, 2, 2); got != 0 {
		t.Errorf("origin coverage = %d, want 0", got)
	}
}

func TestRasterizePathEmpty(t *testing.T) {
	img := RasterizePath(&Path{}, Identity, 4, 4)
	for _, v := range img.Pix {
		if v != 0 {
			t.Fatal("empty path drew pixels")
		}
	}
	if img := RasterizePath(nil, Identity, 0, 0); img.Bounds().Dx() != 1 {
		t.Errorf("zero size image = %v", img.Bounds())
	}
}

func TestRasterizePathSkipsNonFinite(t *testing.T) {
	p := squarePath(2, 2, 8, 8)
	p.MoveTo(1, 1)
	p.LineTo(math.Inf(1), 1)
	p.LineTo(5, math.NaN())
	p.Close()

	finite := p.Finite()
	if len(finite.Segments) != 5 {
		t.Fatalf("finite segments = %d, want 5", len(finite.Segments))
	}
	if sq := squarePath(0, 0, 1, 1); sq.Finite() != sq {
		t.Error("finite path should be returned as is")
	}

	img := RasterizePath(p, Identity, 10, 10)
	if got := img.RGBAAt(5, 5).A; got != 255 {
		t.Errorf("inside coverage = %d, want 255", got)
	}
	if got := img.RGBAAt(9, 1).A; got != 0 {
		t.Errorf("non-finite subpath drew coverage %d", got)
	}
}

func TestStrokeOutline(t *testing.T) {
	line := &Path{}
	line.MoveTo(2, 5)
	line.LineTo(10, 5)

	outline := StrokeOutline(line, 2, 0.5)
	b, ok := outline.Bounds()
	if !ok {
		t.Fatal("outline has no bounds")
	}
	assertWithin(t, "top", b.Y, 4, 1e-9)
	assertWithin(t, "height", b.Height, 2, 1e-9)

	img := RasterizePath(outline, Identity, 12, 12)
	if got := img.RGBAAt(5, 5).A; got != 255 {
		t.Errorf("stroke coverage at (5,5) = %d, want 255", got)
	}
	if got := img.RGBAAt(5, 1).A; got != 0 {
		t.Errorf("coverage at (5,1) = %d, want 0", got)
	}
}

func TestStrokeOutlineDegenerate(t *testing.T) {
	line := &Path{}
	line.MoveTo(0, 0)
	line.LineTo(10, 0)
	if !StrokeOutline(line, 0, 0.5).Empty() {
		t.Error("zero width stroke produced geometry")
	}
	if !StrokeOutline(&Path{}, 3, 0.5).Empty() {
		t.Error("empty path produced geometry")
	}
}

func TestStrokeOutlineClosedShape(t *testing.T) {
	outline := StrokeOutline(squarePath(4, 4, 16, 16), 2, 0.5)
	img := RasterizePath(outline, Identity, 20, 20)
	if got := img.RGBAAt(4, 10).A; got == 0 {
		t.Error("closing edge not stroked")
	}
	if got := img.RGBAAt(10, 10).A; got != 0 {
		t.Errorf("stroke filled the interior: %d", got)
	}
}
