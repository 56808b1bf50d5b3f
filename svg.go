package spritefield

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"strconv"
	"strings"
)

// ErrNoSVGRoot is returned when markup contains no <svg> element.
var ErrNoSVGRoot = errors.New("spritefield: no svg root element")

// rasterSize is the longest side, in pixels, of the fallback raster.
const rasterSize = 256

// frameCoverage is the fraction of the canvas a rect or path must cover on
// both axes, with its min corner near the origin, to be treated as a frame.
const frameCoverage = 0.9

// contentPadding is added to each side of the content bounds.
const contentPadding = 0.02

// maxSVGDepth bounds element nesting during cleanup.
const maxSVGDepth = 64

// VectorAsset is a normalized vector sprite: white fill geometry whose
// coordinate frame hugs its visible content.
type VectorAsset struct {
	Source string // cache key the asset was loaded from

	// Geometry is the fill geometry in ViewBox coordinates.
	Geometry *Path
	// Unit is Geometry mapped so its longest side spans 1, centered on the
	// origin. Tiles draw this directly.
	Unit *Path

	ViewBox Rect
	Aspect  float64 // ViewBox width / height

	// Markup is the re-emitted SVG document, or the raw input when cleanup
	// failed and the raw tree was used instead.
	Markup []byte
	// Normalized is false when the cleanup pass failed.
	Normalized bool

	// Raster is a white-on-transparent rendering of Geometry.
	Raster *image.RGBA
}

// svgNode is one element of the parsed document.
type svgNode struct {
	name     xml.Name
	attrs    []xml.Attr
	children []*svgNode
}

func (n *svgNode) attr(local string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name.Local == local && a.Name.Space == "" {
			return a.Value, true
		}
	}
	return "", false
}

func (n *svgNode) removeAttrs(drop func(xml.Attr) bool) {
	kept := n.attrs[:0]
	for _, a := range n.attrs {
		if !drop(a) {
			kept = append(kept, a)
		}
	}
	n.attrs = kept
}

// NormalizeSVG turns arbitrary SVG markup into a VectorAsset. Metadata,
// hidden and empty elements, frame rectangles and strokes are removed,
// primitives become paths, and the view box is recomputed from the content.
// If the cleanup pass fails the geometry is extracted from the raw tree
// instead; only unparseable markup or a document without drawable geometry
// is an error.
func NormalizeSVG(raw []byte) (*VectorAsset, error) {
	root, err := parseSVGTree(raw)
	if err != nil {
		return nil, err
	}
	canvas, hasCanvas := intrinsicCanvas(root)

	asset := &VectorAsset{Normalized: true}
	paths, err := cleanSVG(root, canvas, hasCanvas)
	if err != nil {
		Logger().Warn("svg cleanup failed, using raw markup", "err", err)
		// The cleanup pass may have mutated the tree.
		root, err = parseSVGTree(raw)
		if err != nil {
			return nil, err
		}
		paths = collectPaths(root, Identity, false)
		asset.Normalized = false
	}

	geom := &Path{}
	var bounds Rect
	haveBounds := false
	for _, p := range paths {
		geom.Append(p)
		b, ok := p.Bounds()
		if !ok {
			continue
		}
		if haveBounds {
			bounds = bounds.Union(b)
		} else {
			bounds, haveBounds = b, true
		}
	}
	if geom.Empty() {
		return nil, fmt.Errorf("normalize svg: no drawable geometry")
	}
	if !haveBounds {
		if !hasCanvas {
			return nil, fmt.Errorf("normalize svg: content has no bounds")
		}
		bounds = canvas
	}
	if bounds.Width <= 0 {
		bounds.Width = max(bounds.Height, 1)
	}
	if bounds.Height <= 0 {
		bounds.Height = max(bounds.Width, 1)
	}

	padX, padY := bounds.Width*contentPadding, bounds.Height*contentPadding
	asset.ViewBox = Rect{
		X:      bounds.X - padX,
		Y:      bounds.Y - padY,
		Width:  bounds.Width + 2*padX,
		Height: bounds.Height + 2*padY,
	}
	asset.Aspect = asset.ViewBox.Width / asset.ViewBox.Height
	asset.Geometry = geom

	vb := asset.ViewBox
	side := max(vb.Width, vb.Height)
	asset.Unit = geom.Transform(Scaling(1/side, 1/side).Multiply(
		Translation(-(vb.X + vb.Width/2), -(vb.Y + vb.Height/2))))

	if asset.Normalized {
		asset.Markup = emitSVG(asset.ViewBox, paths)
	} else {
		asset.Markup = bytes.Clone(raw)
	}
	asset.Raster = rasterizeAsset(geom, vb)
	return asset, nil
}

// parseSVGTree decodes markup into an element tree rooted at the first svg
// element. Comments, processing instructions and character data are
// dropped.
func parseSVGTree(raw []byte) (*svgNode, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	var root *svgNode
	var stack []*svgNode
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			if root != nil {
				// Keep what was read; truncated documents are common.
				break
			}
			return nil, fmt.Errorf("parse svg: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &svgNode{name: t.Name, attrs: append([]xml.Attr(nil), t.Attr...)}
			if len(stack) == 0 {
				if t.Name.Local != "svg" {
					// Skip wrappers (e.g. an HTML document) until the svg root.
					continue
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 0 && stack[len(stack)-1].name.Local == t.Name.Local {
				stack = stack[:len(stack)-1]
				if len(stack) == 0 && root != nil {
					return root, nil
				}
			}
		}
	}
	if root == nil {
		return nil, ErrNoSVGRoot
	}
	return root, nil
}

// intrinsicCanvas returns the document's viewBox, or its width/height when
// no viewBox is given.
func intrinsicCanvas(root *svgNode) (Rect, bool) {
	if v, ok := root.attr("viewBox"); ok {
		nums, err := parseNumberList(v)
		if err == nil && len(nums) == 4 && nums[2] > 0 && nums[3] > 0 {
			return Rect{nums[0], nums[1], nums[2], nums[3]}, true
		}
	}
	w, okW := lengthAttr(root, "width")
	h, okH := lengthAttr(root, "height")
	if okW && okH && w > 0 && h > 0 {
		return Rect{0, 0, w, h}, true
	}
	return Rect{}, false
}

// nonRendered elements never contribute geometry directly.
var nonRendered = map[string]bool{
	"defs": true, "clipPath": true, "mask": true, "symbol": true,
	"pattern": true, "marker": true, "linearGradient": true,
	"radialGradient": true, "filter": true, "style": true, "script": true,
	"foreignObject": true, "text": true,
}

// metadataElements are removed outright by cleanup.
var metadataElements = map[string]bool{
	"metadata": true, "title": true, "desc": true,
}

func isEditorNamespace(space string) bool {
	s := strings.ToLower(space)
	return strings.Contains(s, "sodipodi") ||
		strings.Contains(s, "inkscape") ||
		strings.Contains(s, "sketch")
}

// cleanSVG runs the structural cleanup, frame removal and stroke strip over
// root, then returns the remaining fill geometry in root coordinates. Any
// malformed geometry or transform attribute fails the whole pass.
func cleanSVG(root *svgNode, canvas Rect, hasCanvas bool) ([]*Path, error) {
	seen := make(map[string]bool)
	if err := cleanNode(root, seen, 0); err != nil {
		return nil, err
	}
	if hasCanvas {
		if err := removeFrames(root, Identity, canvas); err != nil {
			return nil, err
		}
	}
	var paths []*Path
	err := walkGeometry(root, Identity, true, func(p *Path) { paths = append(paths, p) })
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// cleanNode removes metadata, editor cruft, hidden and empty elements from
// n's subtree, strips strokes and drops duplicate ids.
func cleanNode(n *svgNode, seen map[string]bool, depth int) error {
	if depth > maxSVGDepth {
		return fmt.Errorf("svg cleanup: nesting deeper than %d", maxSVGDepth)
	}
	n.removeAttrs(func(a xml.Attr) bool {
		if isEditorNamespace(a.Name.Space) || isStrokeProperty(a.Name.Local) {
			return true
		}
		if a.Name.Local == "id" && a.Name.Space == "" {
			if seen[a.Value] {
				return true
			}
			seen[a.Value] = true
		}
		return false
	})
	if style, ok := n.attr("style"); ok {
		setAttr(n, "style", stripStrokeStyle(style))
	}

	kept := n.children[:0]
	for _, c := range n.children {
		if metadataElements[c.name.Local] || isEditorNamespace(c.name.Space) {
			continue
		}
		if isHidden(c) {
			continue
		}
		empty, err := isEmptyElement(c)
		if err != nil {
			return err
		}
		if empty {
			continue
		}
		if err := cleanNode(c, seen, depth+1); err != nil {
			return err
		}
		if (c.name.Local == "g" || c.name.Local == "a") && len(c.children) == 0 {
			continue
		}
		kept = append(kept, c)
	}
	n.children = kept
	return nil
}

func isStrokeProperty(name string) bool {
	return name == "stroke" || strings.HasPrefix(name, "stroke-")
}

func stripStrokeStyle(style string) string {
	parts := strings.Split(style, ";")
	kept := parts[:0]
	for _, p := range parts {
		k, _, _ := strings.Cut(p, ":")
		k = strings.TrimSpace(k)
		if k == "" || isStrokeProperty(k) {
			continue
		}
		kept = append(kept, strings.TrimSpace(p))
	}
	return strings.Join(kept, ";")
}

func setAttr(n *svgNode, local, value string) {
	for i, a := range n.attrs {
		if a.Name.Local == local && a.Name.Space == "" {
			n.attrs[i].Value = value
			return
		}
	}
	n.attrs = append(n.attrs, xml.Attr{Name: xml.Name{Local: local}, Value: value})
}

// property returns a presentation property from the style attribute, falling
// back to the attribute of the same name.
func property(n *svgNode, name string) (string, bool) {
	if style, ok := n.attr("style"); ok {
		for _, decl := range strings.Split(style, ";") {
			k, v, found := strings.Cut(decl, ":")
			if found && strings.TrimSpace(k) == name {
				return strings.TrimSpace(v), true
			}
		}
	}
	v, ok := n.attr(name)
	return strings.TrimSpace(v), ok
}

func isHidden(n *svgNode) bool {
	if v, ok := property(n, "display"); ok && v == "none" {
		return true
	}
	if v, ok := property(n, "visibility"); ok && (v == "hidden" || v == "collapse") {
		return true
	}
	if v, ok := property(n, "opacity"); ok {
		if f, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64); err == nil && f == 0 {
			return true
		}
	}
	return false
}

// isEmptyElement reports elements that would draw nothing.
func isEmptyElement(n *svgNode) (bool, error) {
	switch n.name.Local {
	case "path":
		d, ok := n.attr("d")
		return !ok || strings.TrimSpace(d) == "", nil
	case "rect":
		w, err := optionalLength(n, "width")
		if err != nil {
			return false, err
		}
		h, err := optionalLength(n, "height")
		if err != nil {
			return false, err
		}
		return w <= 0 || h <= 0, nil
	case "circle":
		r, err := optionalLength(n, "r")
		if err != nil {
			return false, err
		}
		return r <= 0, nil
	case "ellipse":
		rx, err := optionalLength(n, "rx")
		if err != nil {
			return false, err
		}
		ry, err := optionalLength(n, "ry")
		if err != nil {
			return false, err
		}
		return rx <= 0 || ry <= 0, nil
	case "polygon", "polyline":
		pts, ok := n.attr("points")
		return !ok || strings.TrimSpace(pts) == "", nil
	}
	return false, nil
}

// removeFrames drops rect and path elements that cover nearly the whole
// canvas from its origin: backgrounds and borders exported by editors.
func removeFrames(n *svgNode, ctm Affine, canvas Rect) error {
	kept := n.children[:0]
	for _, c := range n.children {
		m, err := nodeTransform(c, ctm, true)
		if err != nil {
			return err
		}
		if c.name.Local == "rect" || c.name.Local == "path" {
			p, err := elementPath(c, true)
			if err != nil {
				return err
			}
			if p != nil {
				if b, ok := p.Transform(m).Bounds(); ok && isFrame(b, canvas) {
					Logger().Debug("svg frame removed", "element", c.name.Local)
					continue
				}
			}
		}
		if err := removeFrames(c, m, canvas); err != nil {
			return err
		}
		kept = append(kept, c)
	}
	n.children = kept
	return nil
}

func isFrame(b, canvas Rect) bool {
	return b.Width >= canvas.Width*frameCoverage &&
		b.Height >= canvas.Height*frameCoverage &&
		math.Abs(b.X-canvas.X) <= 1 &&
		math.Abs(b.Y-canvas.Y) <= 1
}

// collectPaths extracts geometry leniently, skipping broken elements.
func collectPaths(root *svgNode, ctm Affine, strict bool) []*Path {
	var paths []*Path
	_ = walkGeometry(root, ctm, strict, func(p *Path) { paths = append(paths, p) })
	return paths
}

// walkGeometry visits every rendered shape element under n with its
// geometry mapped into root coordinates. In strict mode the first malformed
// element aborts the walk; otherwise malformed elements are skipped.
func walkGeometry(n *svgNode, ctm Affine, strict bool, visit func(*Path)) error {
	for _, c := range n.children {
		if nonRendered[c.name.Local] {
			continue
		}
		m, err := nodeTransform(c, ctm, strict)
		if err != nil {
			return err
		}
		p, err := elementPath(c, strict)
		if err != nil {
			if strict {
				return err
			}
			Logger().Debug("svg element skipped", "element", c.name.Local, "err", err)
		}
		if p != nil && !p.Empty() {
			visit(p.Transform(m))
		}
		if err := walkGeometry(c, m, strict, visit); err != nil {
			return err
		}
	}
	return nil
}

func nodeTransform(n *svgNode, ctm Affine, strict bool) (Affine, error) {
	v, ok := n.attr("transform")
	if !ok {
		return ctm, nil
	}
	t, err := ParseTransform(v)
	if err != nil {
		if strict {
			return ctm, err
		}
		return ctm, nil
	}
	return ctm.Multiply(t), nil
}

// elementPath converts a shape element to path geometry in its own user
// space. Non-shape elements return nil.
func elementPath(n *svgNode, strict bool) (*Path, error) {
	switch n.name.Local {
	case "path":
		d, _ := n.attr("d")
		p, err := ParsePathData(d)
		if err != nil && strict {
			return nil, err
		}
		return p, nil
	case "rect":
		return rectPath(n)
	case "circle":
		cx, cy, err := centerAttrs(n)
		if err != nil {
			return nil, err
		}
		r, err := optionalLength(n, "r")
		if err != nil {
			return nil, err
		}
		return ellipsePath(cx, cy, r, r), nil
	case "ellipse":
		cx, cy, err := centerAttrs(n)
		if err != nil {
			return nil, err
		}
		rx, err := optionalLength(n, "rx")
		if err != nil {
			return nil, err
		}
		ry, err := optionalLength(n, "ry")
		if err != nil {
			return nil, err
		}
		return ellipsePath(cx, cy, rx, ry), nil
	case "line":
		var v [4]float64
		for i, name := range [4]string{"x1", "y1", "x2", "y2"} {
			f, err := optionalLength(n, name)
			if err != nil {
				return nil, err
			}
			v[i] = f
		}
		p := &Path{}
		p.MoveTo(v[0], v[1])
		p.LineTo(v[2], v[3])
		return p, nil
	case "polygon", "polyline":
		s, _ := n.attr("points")
		nums, err := parseNumberList(s)
		if err != nil && strict {
			return nil, fmt.Errorf("%s points: %w", n.name.Local, err)
		}
		p := &Path{}
		for i := 0; i+1 < len(nums); i += 2 {
			if i == 0 {
				p.MoveTo(nums[i], nums[i+1])
			} else {
				p.LineTo(nums[i], nums[i+1])
			}
		}
		if n.name.Local == "polygon" && len(nums) >= 4 {
			p.Close()
		}
		return p, nil
	}
	return nil, nil
}

func rectPath(n *svgNode) (*Path, error) {
	x, err := optionalLength(n, "x")
	if err != nil {
		return nil, err
	}
	y, err := optionalLength(n, "y")
	if err != nil {
		return nil, err
	}
	w, err := optionalLength(n, "width")
	if err != nil {
		return nil, err
	}
	h, err := optionalLength(n, "height")
	if err != nil {
		return nil, err
	}
	rx, okX := lengthAttr(n, "rx")
	ry, okY := lengthAttr(n, "ry")
	switch {
	case okX && !okY:
		ry = rx
	case okY && !okX:
		rx = ry
	}
	rx = Range{0, w / 2}.Clamp(rx)
	ry = Range{0, h / 2}.Clamp(ry)

	p := &Path{}
	if rx == 0 || ry == 0 {
		p.MoveTo(x, y)
		p.LineTo(x+w, y)
		p.LineTo(x+w, y+h)
		p.LineTo(x, y+h)
		p.Close()
		return p, nil
	}
	// Rounded corners as quarter-ellipse cubics.
	const k = 0.5522847498
	kx, ky := rx*k, ry*k
	p.MoveTo(x+rx, y)
	p.LineTo(x+w-rx, y)
	p.CubicTo(x+w-rx+kx, y, x+w, y+ry-ky, x+w, y+ry)
	p.LineTo(x+w, y+h-ry)
	p.CubicTo(x+w, y+h-ry+ky, x+w-rx+kx, y+h, x+w-rx, y+h)
	p.LineTo(x+rx, y+h)
	p.CubicTo(x+rx-kx, y+h, x, y+h-ry+ky, x, y+h-ry)
	p.LineTo(x, y+ry)
	p.CubicTo(x, y+ry-ky, x+rx-kx, y, x+rx, y)
	p.Close()
	return p, nil
}

// ellipsePath approximates an ellipse with four cubic arcs.
func ellipsePath(cx, cy, rx, ry float64) *Path {
	const k = 0.5522847498
	kx, ky := rx*k, ry*k
	p := &Path{}
	p.MoveTo(cx+rx, cy)
	p.CubicTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	p.CubicTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	p.CubicTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	p.CubicTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	p.Close()
	return p
}

func centerAttrs(n *svgNode) (float64, float64, error) {
	cx, err := optionalLength(n, "cx")
	if err != nil {
		return 0, 0, err
	}
	cy, err := optionalLength(n, "cy")
	if err != nil {
		return 0, 0, err
	}
	return cx, cy, nil
}

// parseLength parses a number with an optional px/pt suffix. Percentages
// and other relative units are rejected.
func parseLength(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "px")
	if strings.HasSuffix(s, "pt") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "pt"), 64)
		return v * 4 / 3, err
	}
	return strconv.ParseFloat(s, 64)
}

func lengthAttr(n *svgNode, name string) (float64, bool) {
	v, ok := n.attr(name)
	if !ok {
		return 0, false
	}
	f, err := parseLength(v)
	if err != nil {
		return 0, false
	}
	return f, true
}

func optionalLength(n *svgNode, name string) (float64, error) {
	v, ok := n.attr(name)
	if !ok {
		return 0, nil
	}
	f, err := parseLength(v)
	if err != nil {
		return 0, fmt.Errorf("%s %s=%q: %w", n.name.Local, name, v, err)
	}
	return f, nil
}

// ParseTransform parses an SVG transform list. Transforms compose left to
// right, so the rightmost is applied to points first.
func ParseTransform(s string) (Affine, error) {
	m := Identity
	rest := strings.TrimSpace(s)
	for rest != "" {
		open := strings.IndexByte(rest, '(')
		closeIdx := strings.IndexByte(rest, ')')
		if open < 0 || closeIdx < open {
			return Identity, fmt.Errorf("transform %q: malformed", s)
		}
		name := strings.TrimSpace(rest[:open])
		args, err := parseNumberList(rest[open+1 : closeIdx])
		if err != nil {
			return Identity, fmt.Errorf("transform %q: %w", s, err)
		}
		t, err := transformFunc(name, args)
		if err != nil {
			return Identity, fmt.Errorf("transform %q: %w", s, err)
		}
		m = m.Multiply(t)
		rest = strings.TrimLeft(rest[closeIdx+1:], " \t\n\r,")
	}
	return m, nil
}

func transformFunc(name string, a []float64) (Affine, error) {
	switch name {
	case "matrix":
		if len(a) == 6 {
			return Affine{a[0], a[1], a[2], a[3], a[4], a[5]}, nil
		}
	case "translate":
		switch len(a) {
		case 1:
			return Translation(a[0], 0), nil
		case 2:
			return Translation(a[0], a[1]), nil
		}
	case "scale":
		switch len(a) {
		case 1:
			return Scaling(a[0], a[0]), nil
		case 2:
			return Scaling(a[0], a[1]), nil
		}
	case "rotate":
		rad := func(deg float64) float64 { return deg * math.Pi / 180 }
		switch len(a) {
		case 1:
			return Rotation(rad(a[0])), nil
		case 3:
			return Translation(a[1], a[2]).
				Multiply(Rotation(rad(a[0]))).
				Multiply(Translation(-a[1], -a[2])), nil
		}
	case "skewX":
		if len(a) == 1 {
			return Skewing(a[0]*math.Pi/180, 0), nil
		}
	case "skewY":
		if len(a) == 1 {
			return Skewing(0, a[0]*math.Pi/180), nil
		}
	default:
		return Identity, fmt.Errorf("unknown function %q", name)
	}
	return Identity, fmt.Errorf("%s: bad argument count %d", name, len(a))
}

// emitSVG writes the normalized document: one white path per element.
func emitSVG(vb Rect, paths []*Path) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s">`,
		formatCoord(vb.X), formatCoord(vb.Y), formatCoord(vb.Width), formatCoord(vb.Height))
	for _, p := range paths {
		if p.Empty() {
			continue
		}
		b.WriteString(`<path fill="#ffffff" d="`)
		b.WriteString(p.SVGData())
		b.WriteString(`"/>`)
	}
	b.WriteString(`</svg>`)
	return b.Bytes()
}

// rasterizeAsset renders geometry white on transparent, with the longest
// side of vb mapped to rasterSize pixels.
func rasterizeAsset(geom *Path, vb Rect) *image.RGBA {
	scale := rasterSize / max(vb.Width, vb.Height)
	w := max(1, int(math.Ceil(vb.Width*scale)))
	h := max(1, int(math.Ceil(vb.Height*scale)))
	return RasterizePath(geom, Scaling(scale, scale).Multiply(Translation(-vb.X, -vb.Y)), w, h)
}
