package outline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func on(x, y int) Point  { return Point{X: x, Y: y, OnCurve: true} }
func off(x, y int) Point { return Point{X: x, Y: y} }
func imp(x, y int) Point { return Point{X: x, Y: y, OnCurve: true, Implied: true} }

func TestTwoOffCurveSynthesis(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	c := Contour{on(0, 0), off(1, 1), off(3, 3), on(4, 4)}
	norm := Normalize(c)
	want := Contour{on(0, 0), off(1, 1), imp(2, 2), off(3, 3), on(4, 4)}
	if diff := cmp.Diff(want, norm); diff != "" {
		t.Fatalf("normalized contour mismatch (-want +got):\n%s", diff)
	}
	segs := Segments(c)
	wantSegs := []Segment{
		{From: on(0, 0), Ctrl: off(1, 1), To: imp(2, 2), Curved: true},
		{From: imp(2, 2), Ctrl: off(3, 3), To: on(4, 4), Curved: true},
		{From: on(4, 4), To: on(0, 0)},
	}
	if diff := cmp.Diff(wantSegs, segs); diff != "" {
		t.Errorf("segments mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(c, Compact(norm, CompactImplied)); diff != "" {
		t.Errorf("compact did not restore the original contour:\n%s", diff)
	}
	if diff := cmp.Diff(norm, FromSegments(segs)); diff != "" {
		t.Errorf("FromSegments mismatch:\n%s", diff)
	}
}

func TestAllOffCurve(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	c := Contour{off(0, 0), off(10, 0), off(10, 10), off(0, 10)}
	norm := Normalize(c)
	want := Contour{off(0, 0), imp(5, 0), off(10, 0), imp(10, 5), off(10, 10), imp(5, 10), off(0, 10), imp(0, 5)}
	if diff := cmp.Diff(want, norm); diff != "" {
		t.Fatalf("normalized contour mismatch (-want +got):\n%s", diff)
	}
	if !IsNormalized(norm) || IsNormalized(c) {
		t.Errorf("IsNormalized is wrong")
	}
	segs := Segments(c)
	if len(segs) != 4 || segs[0].From != imp(5, 0) || !segs[3].Curved || segs[3].To != imp(5, 0) {
		t.Errorf("unexpected segments %v", segs)
	}
	if diff := cmp.Diff(c, Compact(norm, CompactImplied)); diff != "" {
		t.Errorf("compact did not restore the original contour:\n%s", diff)
	}
	single := Contour{off(7, 7)}
	if diff := cmp.Diff(single, Compact(Normalize(single), CompactImplied)); diff != "" {
		t.Errorf("single off-curve point did not round trip:\n%s", diff)
	}
}

func TestMidpointRounding(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	tests := []struct{ a, b, want Point }{
		{off(0, 0), off(3, 1), imp(2, 1)},
		{off(-3, 0), off(0, -1), imp(-1, 0)},
		{off(-4, 10), off(0, 20), imp(-2, 15)},
	}
	for _, tt := range tests {
		if m := Midpoint(tt.a, tt.b); m != tt.want {
			t.Errorf("Midpoint(%v, %v) = %v, want %v", tt.a, tt.b, m, tt.want)
		}
	}
	// an implied point with a rounded midpoint must still be recognized
	c := Contour{on(0, 0), off(0, 1), off(3, 2), off(5, 5)}
	norm := Normalize(c)
	if len(norm) != 6 || norm[2] != imp(2, 2) || norm[4] != imp(4, 4) {
		t.Fatalf("expected 2 implied points, have %v", norm)
	}
	if diff := cmp.Diff(c, Compact(norm, CompactImplied)); diff != "" {
		t.Errorf("rounded midpoints did not round trip:\n%s", diff)
	}
}

func TestCompactModes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	c := Contour{off(0, 0), on(2, 2), off(4, 4), on(8, 0)}
	if diff := cmp.Diff(c, Compact(c, CompactImplied)); diff != "" {
		t.Errorf("explicit on-curve point must be kept:\n%s", diff)
	}
	want := Contour{off(0, 0), off(4, 4), on(8, 0)}
	if diff := cmp.Diff(want, Compact(c, CompactAll)); diff != "" {
		t.Errorf("midpoint should have been omitted:\n%s", diff)
	}
	// an edited implied point is no longer a midpoint
	moved := Normalize(Contour{on(0, 0), off(1, 1), off(3, 3), on(4, 4)})
	moved[2].X = 5
	if len(Compact(moved, CompactImplied)) != 5 {
		t.Errorf("moved implied point must be kept")
	}
}

func TestBounds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	r := Bounds([]Contour{{on(10, 20), off(-5, 40)}, {on(100, -3)}})
	if r != (Rect{XMin: -5, YMin: -3, XMax: 100, YMax: 40}) {
		t.Errorf("unexpected bounds %+v", r)
	}
	if Bounds(nil) != (Rect{}) {
		t.Errorf("expected empty bounds")
	}
}
