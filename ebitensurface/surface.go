// Package ebitensurface draws spritefield frames with Ebitengine.
//
// Tile geometry is rasterized once per shape into a white coverage mask and
// drawn as a textured quad through DrawTriangles, tinted per vertex. Linear
// gradients are affine in the tile's unit space, so interpolating the paint
// across the quad corners reproduces them exactly.
package ebitensurface

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/spritefield"
)

// DefaultMaskResolution is the pixel size of a unit-square tile mask.
const DefaultMaskResolution = 256

// maxMasks bounds the mask cache; it is flushed when exceeded.
const maxMasks = 512

// maskIdleFrames is how many presented frames a mask may go unused before
// it is evicted. Reloaded assets get new paths, so their old masks age out.
const maskIdleFrames = 120

type maskKey struct {
	geom   *spritefield.Path
	stroke int // stroke width in mask pixels, 0 for fills
}

type mask struct {
	img      *ebiten.Image
	extent   float64 // unit half-size the image covers
	lastUsed uint64  // frame of the most recent draw
}

// Surface implements spritefield.Surface on an ebiten.Image. The zero value
// is not usable; call New or NewForTarget.
type Surface struct {
	spritefield.TransformStack

	target *ebiten.Image
	owned  bool

	// MaskResolution is the pixel size of one tile unit in cached masks.
	MaskResolution int
	// ScreenshotDir receives PNGs queued with Screenshot.
	ScreenshotDir string

	masks map[maskKey]*mask
	frame uint64
	pool  texturePool
	blur  kawaseBlur
	white *ebiten.Image
	verts [4]ebiten.Vertex
	inds  [6]uint16
	triOp ebiten.DrawTrianglesOptions
	imgOp ebiten.DrawImageOptions
	shots []string
}

var _ spritefield.Surface = (*Surface)(nil)

// New returns a surface that owns a w×h offscreen image.
func New(w, h int) *Surface {
	s := newSurface()
	s.Resize(w, h)
	return s
}

// NewForTarget returns a surface that draws into target, typically the
// screen passed to ebiten.Game.Draw.
func NewForTarget(target *ebiten.Image) *Surface {
	s := newSurface()
	s.SetTarget(target)
	return s
}

func newSurface() *Surface {
	s := &Surface{
		MaskResolution: DefaultMaskResolution,
		ScreenshotDir:  "screenshots",
		masks:          make(map[maskKey]*mask),
		inds:           [6]uint16{0, 1, 2, 0, 2, 3},
	}
	s.white = ebiten.NewImage(1, 1)
	s.white.Fill(color.White)
	s.Reset()
	return s
}

// SetTarget redirects drawing to target. A previously owned image is
// deallocated.
func (s *Surface) SetTarget(target *ebiten.Image) {
	if s.target == target {
		return
	}
	if s.owned && s.target != nil {
		s.target.Deallocate()
	}
	s.target, s.owned = target, false
}

// Target returns the image being drawn into.
func (s *Surface) Target() *ebiten.Image { return s.target }

// Resize reallocates an owned image. A surface drawing into an external
// target follows that target's size and ignores Resize.
func (s *Surface) Resize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	if s.target != nil && !s.owned {
		return
	}
	if s.target != nil {
		b := s.target.Bounds()
		if b.Dx() == w && b.Dy() == h {
			return
		}
		s.target.Deallocate()
	}
	s.target = ebiten.NewImage(w, h)
	s.owned = true
}

// Size returns the target's pixel size.
func (s *Surface) Size() (int, int) {
	if s.target == nil {
		return 0, 0
	}
	b := s.target.Bounds()
	return b.Dx(), b.Dy()
}

// Clear clears the target and resets the transform stack.
func (s *Surface) Clear() {
	s.Reset()
	if s.target != nil {
		s.target.Clear()
	}
}

// FillRect fills r in current coordinates.
func (s *Surface) FillRect(r spritefield.Rect, paint spritefield.Paint) {
	quad := [4]spritefield.Vec2{
		{X: r.X, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y + r.Height},
		{X: r.X, Y: r.Y + r.Height},
	}
	src := [4]spritefield.Vec2{{X: 0.5, Y: 0.5}, {X: 0.5, Y: 0.5}, {X: 0.5, Y: 0.5}, {X: 0.5, Y: 0.5}}
	s.drawQuad(s.white, quad, src, paint)
}

// FillPath fills p with paint.
func (s *Surface) FillPath(p *spritefield.Path, paint spritefield.Paint) {
	s.drawMask(p, 0, paint)
}

// StrokePath strokes p with width in current coordinates.
func (s *Surface) StrokePath(p *spritefield.Path, paint spritefield.Paint, width float64) {
	if width <= 0 {
		return
	}
	s.drawMask(p, width, paint)
}

// Present writes any queued screenshots and evicts idle masks. Ebitengine
// presents the screen itself when Draw returns.
func (s *Surface) Present() error {
	s.flushScreenshots()
	s.frame++
	for _, k := range idleMasks(s.masks, s.frame) {
		s.masks[k].img.Deallocate()
		delete(s.masks, k)
	}
	return nil
}

func idleMasks(masks map[maskKey]*mask, frame uint64) []maskKey {
	var idle []maskKey
	for k, m := range masks {
		if frame > m.lastUsed+maskIdleFrames {
			idle = append(idle, k)
		}
	}
	return idle
}

// Dispose releases every GPU resource the surface owns.
func (s *Surface) Dispose() {
	for k, m := range s.masks {
		m.img.Deallocate()
		delete(s.masks, k)
	}
	s.pool.Dispose()
	s.blur.Dispose()
	if s.owned && s.target != nil {
		s.target.Deallocate()
		s.target = nil
	}
}

// drawMask draws the cached coverage mask of p over the unit square the
// tile occupies.
func (s *Surface) drawMask(p *spritefield.Path, width float64, paint spritefield.Paint) {
	if p.Empty() || s.target == nil {
		return
	}
	m := s.maskFor(p, width)
	e := m.extent
	quad := [4]spritefield.Vec2{{X: -e, Y: -e}, {X: e, Y: -e}, {X: e, Y: e}, {X: -e, Y: e}}
	b := m.img.Bounds()
	fw, fh := float64(b.Dx()), float64(b.Dy())
	src := [4]spritefield.Vec2{{X: 0, Y: 0}, {X: fw, Y: 0}, {X: fw, Y: fh}, {X: 0, Y: fh}}
	s.drawQuad(m.img, quad, src, paint)
}

// maskFor returns the mask for a fill (width 0) or a stroke of p. Stroke
// widths are snapped to whole mask pixels so animated tiles share masks.
func (s *Surface) maskFor(p *spritefield.Path, width float64) *mask {
	res := float64(max(s.MaskResolution, 16))
	key := maskKey{geom: p}
	if width > 0 {
		key.stroke = max(1, int(math.Round(width*res)))
	}
	if m, ok := s.masks[key]; ok {
		m.lastUsed = s.frame
		return m
	}
	if len(s.masks) >= maxMasks {
		for k, m := range s.masks {
			m.img.Deallocate()
			delete(s.masks, k)
		}
	}

	geom := p
	extent := 0.5
	if key.stroke > 0 {
		w := float64(key.stroke) / res
		geom = spritefield.StrokeOutline(p, w, 1/res)
		extent += w / 2
	}
	if b, ok := geom.Bounds(); ok {
		extent = max(extent, -b.X, -b.Y, b.X+b.Width, b.Y+b.Height)
	}
	extent += 1 / res
	px := int(math.Ceil(2 * extent * res))
	scale := float64(px) / (2 * extent)
	rgba := spritefield.RasterizePath(geom,
		spritefield.Scaling(scale, scale).Multiply(spritefield.Translation(extent, extent)), px, px)

	m := &mask{img: ebiten.NewImageFromImage(rgba), extent: extent, lastUsed: s.frame}
	s.masks[key] = m
	return m
}

// drawQuad draws the src region of img onto quad (current coordinates) with
// colors taken from paint at each corner.
func (s *Surface) drawQuad(img *ebiten.Image, quad, src [4]spritefield.Vec2, paint spritefield.Paint) {
	alpha := s.Alpha()
	if alpha <= 0 {
		return
	}
	mat := s.Matrix()
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i, q := range quad {
		x, y := mat.Apply(q.X, q.Y)
		c := paint.ColorAt(q.X, q.Y)
		a := c.A * alpha
		s.verts[i] = ebiten.Vertex{
			DstX: float32(x), DstY: float32(y),
			SrcX: float32(src[i].X), SrcY: float32(src[i].Y),
			ColorR: float32(c.R * a), ColorG: float32(c.G * a), ColorB: float32(c.B * a), ColorA: float32(a),
		}
		minX, minY = min(minX, x), min(minY, y)
		maxX, maxY = max(maxX, x), max(maxY, y)
	}

	blend := ebitenBlend(s.BlendMode())
	radius := s.Blur()
	if radius < 1 {
		s.triOp.Blend = blend
		s.triOp.Filter = ebiten.FilterLinear
		s.target.DrawTriangles(s.verts[:], s.inds[:], img, &s.triOp)
		return
	}

	// Blurred primitives render offscreen, padded by the blur reach, then
	// composite with the requested blend.
	pad := math.Ceil(radius * 2)
	ox, oy := math.Floor(minX-pad), math.Floor(minY-pad)
	w := int(math.Ceil(maxX+pad) - ox)
	h := int(math.Ceil(maxY+pad) - oy)
	if w <= 0 || h <= 0 {
		return
	}
	for i := range s.verts {
		s.verts[i].DstX -= float32(ox)
		s.verts[i].DstY -= float32(oy)
	}
	region := image.Rect(0, 0, w, h)
	a := s.pool.Acquire(w, h)
	b := s.pool.Acquire(w, h)
	sharp := a.SubImage(region).(*ebiten.Image)
	soft := b.SubImage(region).(*ebiten.Image)

	s.triOp.Blend = ebiten.BlendSourceOver
	s.triOp.Filter = ebiten.FilterLinear
	sharp.DrawTriangles(s.verts[:], s.inds[:], img, &s.triOp)
	s.blur.Apply(sharp, soft, radius)

	s.imgOp.GeoM.Reset()
	s.imgOp.GeoM.Translate(ox, oy)
	s.imgOp.ColorScale.Reset()
	s.imgOp.Blend = blend
	s.imgOp.Filter = ebiten.FilterNearest
	s.target.DrawImage(soft, &s.imgOp)

	s.pool.Release(a)
	s.pool.Release(b)
}
