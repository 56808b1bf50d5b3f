package ebitensurface

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// texturePool manages reusable offscreen images keyed by power-of-two
// dimensions. After warmup, Acquire/Release are zero-alloc.
type texturePool struct {
	buckets map[uint64][]*ebiten.Image
}

func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// Acquire returns a cleared offscreen image with at least (w, h) pixels.
func (p *texturePool) Acquire(w, h int) *ebiten.Image {
	pw, ph := nextPowerOfTwo(w), nextPowerOfTwo(h)
	key := poolKey(pw, ph)
	if stack := p.buckets[key]; len(stack) > 0 {
		img := stack[len(stack)-1]
		p.buckets[key] = stack[:len(stack)-1]
		img.Clear()
		return img
	}
	return ebiten.NewImageWithOptions(
		image.Rect(0, 0, pw, ph),
		&ebiten.NewImageOptions{Unmanaged: true},
	)
}

// Release returns an image to the pool. It is cleared on the next Acquire.
func (p *texturePool) Release(img *ebiten.Image) {
	if img == nil {
		return
	}
	b := img.Bounds()
	if p.buckets == nil {
		p.buckets = make(map[uint64][]*ebiten.Image)
	}
	key := poolKey(b.Dx(), b.Dy())
	p.buckets[key] = append(p.buckets[key], img)
}

// Dispose deallocates every pooled image.
func (p *texturePool) Dispose() {
	for k, stack := range p.buckets {
		for _, img := range stack {
			img.Deallocate()
		}
		delete(p.buckets, k)
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}

// kawaseBlur blurs with iterative downscale/upscale passes. Bilinear
// filtering during DrawImage does the work, so no shader is needed.
type kawaseBlur struct {
	temps []*ebiten.Image
	imgOp ebiten.DrawImageOptions
}

// kawasePasses is log2(radius), at least one.
func kawasePasses(radius float64) int {
	return max(1, int(math.Ceil(math.Log2(radius))))
}

// Apply renders a blur of src into dst. Both are drawn at their full
// bounds, so callers pass matching sub-images.
func (f *kawaseBlur) Apply(src, dst *ebiten.Image, radius float64) {
	op := &f.imgOp
	if radius < 1 {
		op.GeoM.Reset()
		op.ColorScale.Reset()
		op.Filter = ebiten.FilterNearest
		dst.DrawImage(src, op)
		return
	}
	passes := kawasePasses(radius)
	for len(f.temps) < passes {
		f.temps = append(f.temps, nil)
	}

	sb := src.Bounds()
	w, h := sb.Dx(), sb.Dy()
	current := src
	for i := 0; i < passes; i++ {
		w, h = max(w/2, 1), max(h/2, 1)
		if f.temps[i] == nil || f.temps[i].Bounds().Dx() != w || f.temps[i].Bounds().Dy() != h {
			if f.temps[i] != nil {
				f.temps[i].Deallocate()
			}
			f.temps[i] = ebiten.NewImage(w, h)
		} else {
			f.temps[i].Clear()
		}
		f.scaleInto(current, f.temps[i])
		current = f.temps[i]
	}
	for i := passes - 2; i >= 0; i-- {
		f.temps[i].Clear()
		f.scaleInto(current, f.temps[i])
		current = f.temps[i]
	}
	f.scaleInto(current, dst)
}

func (f *kawaseBlur) scaleInto(src, dst *ebiten.Image) {
	op := &f.imgOp
	op.GeoM.Reset()
	op.ColorScale.Reset()
	sb, db := src.Bounds(), dst.Bounds()
	op.GeoM.Scale(float64(db.Dx())/float64(sb.Dx()), float64(db.Dy())/float64(sb.Dy()))
	op.GeoM.Translate(float64(db.Min.X), float64(db.Min.Y))
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(src, op)
}

// Dispose deallocates the intermediate images.
func (f *kawaseBlur) Dispose() {
	for i, img := range f.temps {
		if img != nil {
			img.Deallocate()
		}
		f.temps[i] = nil
	}
	f.temps = f.temps[:0]
}
