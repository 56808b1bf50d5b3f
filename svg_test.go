package spritefield

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertRect(t *testing.T, got, want Rect) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-6, "X")
	assert.InDelta(t, want.Y, got.Y, 1e-6, "Y")
	assert.InDelta(t, want.Width, got.Width, 1e-6, "Width")
	assert.InDelta(t, want.Height, got.Height, 1e-6, "Height")
}

func TestNormalizeSVGRemovesFrame(t *testing.T) {
	raw := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
  <rect x="0" y="0" width="100" height="100" fill="#fff"/>
  <circle cx="50" cy="50" r="10"/>
</svg>`
	a, err := NormalizeSVG([]byte(raw))
	require.NoError(t, err)
	assert.True(t, a.Normalized)
	assertRect(t, a.ViewBox, Rect{39.6, 39.6, 20.8, 20.8})
	assert.InDelta(t, 1, a.Aspect, 1e-9)
	assert.InDelta(t, rasterSize, a.Raster.Bounds().Dx(), 1)

	b, ok := a.Unit.Bounds()
	require.True(t, ok)
	assert.InDelta(t, 20/20.8, b.Width, 1e-6)
	assert.InDelta(t, 0, b.X+b.Width/2, 1e-6, "unit geometry is centered")
}

func TestNormalizeSVGAspect(t *testing.T) {
	raw := `<svg viewBox="0 0 100 100"><rect x="10" y="40" width="80" height="20"/></svg>`
	a, err := NormalizeSVG([]byte(raw))
	require.NoError(t, err)
	assert.InDelta(t, 4, a.Aspect, 1e-9)
	assert.InDelta(t, rasterSize, a.Raster.Bounds().Dx(), 1)
	assert.InDelta(t, rasterSize/4, a.Raster.Bounds().Dy(), 1)
}

func TestNormalizeSVGCleanup(t *testing.T) {
	raw := `<svg xmlns="http://www.w3.org/2000/svg"
     xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape"
     viewBox="0 0 100 100">
  <metadata><rect x="0" y="0" width="5" height="5"/></metadata>
  <title>leaf</title>
  <rect x="70" y="70" width="20" height="20" style="display:none"/>
  <rect x="70" y="10" width="20" height="20" opacity="0"/>
  <g inkscape:label="Layer 1"><g></g></g>
  <circle cx="50" cy="50" r="10" stroke="red" stroke-width="4" style="fill:#000;stroke-linecap:round"/>
  <path d=""/>
</svg>`
	a, err := NormalizeSVG([]byte(raw))
	require.NoError(t, err)
	assert.True(t, a.Normalized)
	assertRect(t, a.ViewBox, Rect{39.6, 39.6, 20.8, 20.8})

	markup := string(a.Markup)
	assert.NotContains(t, markup, "stroke")
	assert.NotContains(t, markup, "inkscape")
	assert.Equal(t, 1, strings.Count(markup, "<path "))
}

func TestNormalizeSVGTransforms(t *testing.T) {
	raw := `<svg viewBox="0 0 100 100">
  <g transform="translate(10 0)"><rect x="0" y="0" width="10" height="10"/></g>
</svg>`
	a, err := NormalizeSVG([]byte(raw))
	require.NoError(t, err)
	assertRect(t, a.ViewBox, Rect{9.8, -0.2, 10.4, 10.4})
}

func TestNormalizeSVGNoCanvas(t *testing.T) {
	raw := `<svg><polygon points="0,0 30,0 15,10"/></svg>`
	a, err := NormalizeSVG([]byte(raw))
	require.NoError(t, err)
	assert.InDelta(t, 3, a.Aspect, 1e-9)
}

func TestNormalizeSVGErrors(t *testing.T) {
	_, err := NormalizeSVG([]byte(`<html><body><p>hello</p></body></html>`))
	assert.ErrorIs(t, err, ErrNoSVGRoot)

	_, err = NormalizeSVG([]byte(`<svg viewBox="0 0 10 10"></svg>`))
	assert.Error(t, err)

	_, err = NormalizeSVG([]byte(`<svg viewBox="0 0 10 10"><rect width="0" height="4"/></svg>`))
	assert.Error(t, err)
}

func TestNormalizeSVGFallback(t *testing.T) {
	raw := []byte(`<svg viewBox="0 0 100 100">
  <rect x="10" y="10" width="30" height="30"/>
  <circle cx="50" cy="50" r="oops"/>
</svg>`)
	a, err := NormalizeSVG(raw)
	require.NoError(t, err)
	assert.False(t, a.Normalized)
	assert.True(t, bytes.Equal(raw, a.Markup), "fallback keeps the raw markup")
	assertRect(t, a.ViewBox, Rect{9.4, 9.4, 31.2, 31.2})
}

func TestNormalizeSVGBadTransformFallsBack(t *testing.T) {
	raw := `<svg viewBox="0 0 100 100">
  <rect x="20" y="20" width="10" height="10" transform="wobble(3)"/>
</svg>`
	a, err := NormalizeSVG([]byte(raw))
	require.NoError(t, err)
	assert.False(t, a.Normalized)
	assertRect(t, a.ViewBox, Rect{19.8, 19.8, 10.4, 10.4})
}

func TestNormalizeSVGUnboundedPathKept(t *testing.T) {
	raw := `<svg viewBox="0 0 100 100">
  <rect x="10" y="10" width="20" height="20"/>
  <rect x="10" y="10" width="10" height="10" transform="scale(1e308)"/>
</svg>`
	a, err := NormalizeSVG([]byte(raw))
	require.NoError(t, err)
	assert.True(t, a.Normalized)
	assertRect(t, a.ViewBox, Rect{9.6, 9.6, 20.8, 20.8})

	_, ok := a.Geometry.Bounds()
	assert.False(t, ok, "overflowing path stays in the geometry")
	finite := a.Geometry.Finite()
	assert.Less(t, len(finite.Segments), len(a.Geometry.Segments))
	b, ok := finite.Bounds()
	require.True(t, ok)
	assertRect(t, b, Rect{10, 10, 20, 20})

	assert.Equal(t, uint8(255), a.Raster.RGBAAt(128, 128).A)
}

func TestNormalizeSVGEmbeddedInHTML(t *testing.T) {
	raw := `<html><body><svg viewBox="0 0 10 10"><circle cx="5" cy="5" r="3"/></svg></body></html>`
	a, err := NormalizeSVG([]byte(raw))
	require.NoError(t, err)
	assert.True(t, a.Normalized)
	assert.InDelta(t, 1, a.Aspect, 1e-9)
}

func TestStripStrokeStyle(t *testing.T) {
	got := stripStrokeStyle("fill: red; stroke:blue;stroke-width:2; opacity:.5")
	assert.Equal(t, "fill: red;opacity:.5", got)
}

func TestDuplicateIDsDropped(t *testing.T) {
	root, err := parseSVGTree([]byte(`<svg><path id="a" d="M0 0 L1 1"/><path id="a" d="M1 1 L2 2"/></svg>`))
	require.NoError(t, err)
	require.NoError(t, cleanNode(root, map[string]bool{}, 0))
	require.Len(t, root.children, 2)
	_, first := root.children[0].attr("id")
	_, second := root.children[1].attr("id")
	assert.True(t, first)
	assert.False(t, second)
}

func TestParseLength(t *testing.T) {
	v, err := parseLength("12px")
	require.NoError(t, err)
	assert.InDelta(t, 12, v, 1e-9)

	v, err = parseLength("3pt")
	require.NoError(t, err)
	assert.InDelta(t, 4, v, 1e-9)

	_, err = parseLength("50%")
	assert.Error(t, err)
}
