package spritefield

import (
	"reflect"
	"testing"
)

func verbs(p *Path) []PathVerb {
	out := make([]PathVerb, len(p.Segments))
	for i, s := range p.Segments {
		out[i] = s.Verb
	}
	return out
}

func mustBounds(t *testing.T, p *Path) Rect {
	t.Helper()
	b, ok := p.Bounds()
	if !ok {
		t.Fatal("path has no bounds")
	}
	return b
}

func TestParsePathDataVerbs(t *testing.T) {
	p, err := ParsePathData("M0 0 L10 0 L10 10 Z")
	if err != nil {
		t.Fatal(err)
	}
	want := []PathVerb{VerbMoveTo, VerbLineTo, VerbLineTo, VerbClose}
	if got := verbs(p); !reflect.DeepEqual(got, want) {
		t.Errorf("verbs = %v, want %v", got, want)
	}
}

func TestParsePathDataRelative(t *testing.T) {
	p, err := ParsePathData("m5 5 h10 v20 h-10 z")
	if err != nil {
		t.Fatal(err)
	}
	b := mustBounds(t, p)
	assertNear(t, "X", b.X, 5)
	assertNear(t, "Y", b.Y, 5)
	assertNear(t, "Width", b.Width, 10)
	assertNear(t, "Height", b.Height, 20)
}

func TestParsePathDataImplicitLineTo(t *testing.T) {
	p, err := ParsePathData("M0,0 10,0 10-10")
	if err != nil {
		t.Fatal(err)
	}
	want := []PathVerb{VerbMoveTo, VerbLineTo, VerbLineTo}
	if got := verbs(p); !reflect.DeepEqual(got, want) {
		t.Fatalf("verbs = %v, want %v", got, want)
	}
	end := p.Segments[2].Pts[0]
	assertNear(t, "end X", end.X, 10)
	assertNear(t, "end Y", end.Y, -10)
}

func TestParsePathDataCompactNumbers(t *testing.T) {
	p, err := ParsePathData("M.5.5L1e1-2")
	if err != nil {
		t.Fatal(err)
	}
	start, end := p.Segments[0].Pts[0], p.Segments[1].Pts[0]
	assertNear(t, "start X", start.X, 0.5)
	assertNear(t, "start Y", start.Y, 0.5)
	assertNear(t, "end X", end.X, 10)
	assertNear(t, "end Y", end.Y, -2)
}

func TestParsePathDataSmoothCurves(t *testing.T) {
	p, err := ParsePathData("M0 0 C0 10 10 10 10 0 S20 -10 20 0")
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Segments) != 3 || p.Segments[2].Verb != VerbCubicTo {
		t.Fatalf("segments = %v", verbs(p))
	}
	// The first control point of S reflects the previous second control point.
	c1 := p.Segments[2].Pts[0]
	assertNear(t, "reflected X", c1.X, 10)
	assertNear(t, "reflected Y", c1.Y, -10)

	q, err := ParsePathData("M0 0 Q5 10 10 0 T20 0")
	if err != nil {
		t.Fatal(err)
	}
	ctrl := q.Segments[2].Pts[0]
	assertNear(t, "T control X", ctrl.X, 15)
	assertNear(t, "T control Y", ctrl.Y, -10)
}

func TestParsePathDataArc(t *testing.T) {
	p, err := ParsePathData("M0 0 A5 5 0 0 1 10 0")
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range p.Segments[1:] {
		if s.Verb != VerbCubicTo {
			t.Fatalf("arc produced %v", verbs(p))
		}
	}
	b := mustBounds(t, p)
	assertWithin(t, "arc width", b.Width, 10, 1e-2)
	assertWithin(t, "arc height", b.Height, 5, 1e-2)
}

func TestParsePathDataArcFlagsPacked(t *testing.T) {
	a, err := ParsePathData("M0 0 A5 5 0 1 1 10 0")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParsePathData("M0 0 A5 5 0 11 10 0")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("packed flags parsed differently")
	}
}

func TestParsePathDataErrors(t *testing.T) {
	tests := []struct {
		d         string
		wantVerbs int
	}{
		{"10 10", 0},
		{"M0 0 L10 x", 1},
		{"M0 0 L10 0 A5 5 0 2 1 10 0", 2},
		{"M0 0 L10 0 B4", 2},
	}
	for _, tt := range tests {
		p, err := ParsePathData(tt.d)
		if err == nil {
			t.Errorf("ParsePathData(%q) returned no error", tt.d)
			continue
		}
		if p == nil || len(p.Segments) != tt.wantVerbs {
			t.Errorf("ParsePathData(%q) kept %v, want %d segments", tt.d, p, tt.wantVerbs)
		}
	}
}

func TestParseNumberList(t *testing.T) {
	got, err := parseNumberList("0 0, 100 50.5")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []float64{0, 0, 100, 50.5}) {
		t.Errorf("got %v", got)
	}
	if _, err := parseNumberList("1 two"); err == nil {
		t.Error("expected error")
	}
}

func TestPathSVGDataRoundTrip(t *testing.T) {
	p, err := ParsePathData("M0 0 L10 0 Q15 5 10 10 C5 15 0 15 0 10 Z")
	if err != nil {
		t.Fatal(err)
	}
	again, err := ParsePathData(p.SVGData())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(verbs(p), verbs(again)) {
		t.Errorf("verbs changed: %v -> %v", verbs(p), verbs(again))
	}
	a, b := mustBounds(t, p), mustBounds(t, again)
	assertWithin(t, "width", b.Width, a.Width, 1e-3)
	assertWithin(t, "height", b.Height, a.Height, 1e-3)
}
