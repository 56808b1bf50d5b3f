package spritefield

import "testing"

func TestShapePathsFitUnitBox(t *testing.T) {
	for _, k := range ShapeKinds() {
		p := ShapePath(k)
		if p.Empty() {
			t.Errorf("%v: empty path", k)
			continue
		}
		b, ok := p.Bounds()
		if !ok {
			t.Errorf("%v: no bounds", k)
			continue
		}
		if b.X < -0.55 || b.Y < -0.55 || b.X+b.Width > 0.55 || b.Y+b.Height > 0.55 {
			t.Errorf("%v: bounds %+v leave the unit box", k, b)
		}
		if max(b.Width, b.Height) < 0.8 {
			t.Errorf("%v: longest side %v, want close to 1", k, max(b.Width, b.Height))
		}
	}
}

func TestShapePathUnknownKind(t *testing.T) {
	if ShapePath(ShapeKind(200)) != ShapePath(ShapeCircle) {
		t.Error("unknown kind should draw a circle")
	}
}

func TestParseSpriteID(t *testing.T) {
	tests := []struct {
		id      string
		kind    ShapeKind
		path    string
		isShape bool
	}{
		{"shape:star", ShapeStar, "", true},
		{"shape:HEXAGON", ShapeHexagon, "", true},
		{"shape:sprocket", ShapeCircle, "", true},
		{"icons/leaf.svg", 0, "icons/leaf.svg", false},
	}
	for _, tt := range tests {
		kind, path, isShape := ParseSpriteID(tt.id)
		if kind != tt.kind || path != tt.path || isShape != tt.isShape {
			t.Errorf("ParseSpriteID(%q) = (%v, %q, %v)", tt.id, kind, path, isShape)
		}
	}
}

func TestSpriteFromID(t *testing.T) {
	if s := spriteFromID(ShapeID(ShapeCross)); s != (ShapeSprite{Kind: ShapeCross}) {
		t.Errorf("shape sprite = %#v", s)
	}
	if s := spriteFromID("a.svg"); s != (VectorSprite{Path: "a.svg"}) {
		t.Errorf("vector sprite = %#v", s)
	}
	if got := spriteFromID("shape:star").SpriteID(); got != "shape:star" {
		t.Errorf("SpriteID = %q", got)
	}
}
