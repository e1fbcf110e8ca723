// ABOUTME: Tests for distance primitives
// ABOUTME: Covers the zero-length segment degenerate case

package geometry

import (
	"math"
	"testing"
)

func TestDist(t *testing.T) {
	d := Dist(Point{X: 0, Y: 0}, Point{X: 3, Y: 4})
	if d != 5 {
		t.Errorf("Expected distance 5, got %v", d)
	}

	if Dist(Point{X: 2, Y: 7}, Point{X: 2, Y: 7}) != 0 {
		t.Error("Expected zero distance for identical points")
	}
}

func TestPerpendicularDist(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 10, Y: 0}

	d := PerpendicularDist(Point{X: 5, Y: 3}, a, b)
	if math.Abs(d-3) > 1e-9 {
		t.Errorf("Expected perpendicular distance 3, got %v", d)
	}

	// Point on the segment line itself.
	d = PerpendicularDist(Point{X: 7, Y: 0}, a, b)
	if math.Abs(d) > 1e-9 {
		t.Errorf("Expected zero distance for collinear point, got %v", d)
	}
}

func TestPerpendicularDistZeroLengthSegment(t *testing.T) {
	a := Point{X: 2, Y: 2}

	d := PerpendicularDist(Point{X: 5, Y: 6}, a, a)
	if d != 5 {
		t.Errorf("Expected point distance 5 for degenerate segment, got %v", d)
	}
}

func TestIsFinite(t *testing.T) {
	if !(Point{X: 1, Y: -2}).IsFinite() {
		t.Error("Expected finite point")
	}

	bad := []Point{
		{X: math.NaN(), Y: 0},
		{X: 0, Y: math.NaN()},
		{X: math.Inf(1), Y: 0},
		{X: 0, Y: math.Inf(-1)},
	}
	for _, p := range bad {
		if p.IsFinite() {
			t.Errorf("Expected %v to be non-finite", p)
		}
	}
}
