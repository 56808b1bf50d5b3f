package ggsurface

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/gogpu/gg"

	"github.com/phanxgames/spritefield"
)

func TestGGBlend(t *testing.T) {
	tests := []struct {
		in      spritefield.BlendMode
		mode    gg.BlendMode
		layered bool
	}{
		{spritefield.BlendNormal, gg.BlendNormal, false},
		{spritefield.BlendMultiply, gg.BlendMultiply, true},
		{spritefield.BlendScreen, gg.BlendScreen, true},
		{spritefield.BlendAdd, gg.BlendScreen, true},
		{spritefield.BlendLighten, gg.BlendScreen, true},
		{spritefield.BlendOverlay, gg.BlendOverlay, true},
		{spritefield.BlendDarken, gg.BlendNormal, false},
		{spritefield.BlendDifference, gg.BlendNormal, false},
	}
	for _, tt := range tests {
		mode, layered := ggBlend(tt.in)
		if mode != tt.mode || layered != tt.layered {
			t.Errorf("ggBlend(%v) = (%v, %v), want (%v, %v)", tt.in, mode, layered, tt.mode, tt.layered)
		}
	}
}

func TestFillRect(t *testing.T) {
	s := New(16, 16)
	defer func() { _ = s.Close() }()

	s.Clear()
	s.FillRect(spritefield.Rect{X: 0, Y: 0, Width: 8, Height: 16}, spritefield.SolidPaint(spritefield.Color{R: 1, A: 1}))
	if err := s.Present(); err != nil {
		t.Fatal(err)
	}
	img := s.Image()
	r, _, _, a := img.At(4, 8).RGBA()
	if r < 0xf000 || a < 0xf000 {
		t.Errorf("filled pixel = %v", img.At(4, 8))
	}
	if _, _, _, a := img.At(12, 8).RGBA(); a != 0 {
		t.Errorf("unfilled pixel alpha = %d", a)
	}
}

func TestTransformAndAlpha(t *testing.T) {
	s := New(16, 16)
	defer func() { _ = s.Close() }()
	s.Clear()

	s.Save()
	s.Translate(8, 0)
	s.SetAlpha(0)
	s.FillRect(spritefield.Rect{Width: 8, Height: 16}, spritefield.SolidPaint(spritefield.ColorWhite))
	s.Restore()

	if _, _, _, a := s.Image().At(12, 8).RGBA(); a != 0 {
		t.Errorf("zero alpha drew pixels: %d", a)
	}
}

func TestRenderFrame(t *testing.T) {
	st := spritefield.DefaultState()
	st.Seed = "golden"
	ctrl := spritefield.NewController(spritefield.Config{State: &st, Width: 64, Height: 48})
	defer ctrl.Destroy()

	s := New(64, 48)
	defer func() { _ = s.Close() }()
	if err := ctrl.Draw(s); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 48 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	// The background covers the whole frame.
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0xffff {
		t.Errorf("corner alpha = %d, want opaque", a)
	}
}
