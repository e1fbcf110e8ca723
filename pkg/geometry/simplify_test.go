// ABOUTME: Tests for Douglas-Peucker simplification
// ABOUTME: Verifies endpoint preservation, subsequence output and deviation bound

package geometry

import (
	"math"
	"testing"
)

func TestSimplifyCollinear(t *testing.T) {
	points := []Point{}
	for i := 0; i <= 10; i++ {
		points = append(points, Point{X: float64(i), Y: 0})
	}

	out := Simplify(points, MinPointDistance)
	if len(out) != 2 {
		t.Fatalf("Expected collinear run to collapse to 2 points, got %d", len(out))
	}
	if out[0] != points[0] || out[1] != points[len(points)-1] {
		t.Errorf("Expected endpoints preserved, got %v and %v", out[0], out[1])
	}
}

func TestSimplifyKeepsCorner(t *testing.T) {
	points := []Point{
		{X: 0, Y: 0},
		{X: 10, Y: 0},
		{X: 10, Y: 10},
	}

	out := Simplify(points, 2.0)
	if len(out) != 3 {
		t.Fatalf("Expected corner to survive, got %d points", len(out))
	}
}

func TestSimplifyShortInputsUnchanged(t *testing.T) {
	points := []Point{{X: 0, Y: 0}, {X: 1, Y: 1}}
	out := Simplify(points, 2.0)
	if len(out) != 2 {
		t.Errorf("Expected 2-point input unchanged, got %d", len(out))
	}
}

// maxDeviation returns the largest distance from any original point to
// the simplified polyline.
func maxDeviation(original, simplified []Point) float64 {
	worst := 0.0
	for _, p := range original {
		best := math.Inf(1)
		for i := 1; i < len(simplified); i++ {
			d := PerpendicularDist(p, simplified[i-1], simplified[i])
			if d < best {
				best = d
			}
		}
		if best > worst {
			worst = best
		}
	}
	return worst
}

func TestSimplifyDeviationBound(t *testing.T) {
	// A noisy sine wave longer than the simplification threshold.
	points := make([]Point, 0, 200)
	for i := 0; i < 200; i++ {
		x := float64(i)
		points = append(points, Point{X: x, Y: 40*math.Sin(x/15) + math.Mod(x*7, 3)})
	}

	out := Simplify(points, MinPointDistance)

	if len(out) > len(points) {
		t.Fatalf("Simplified output longer than input: %d > %d", len(out), len(points))
	}
	if out[0] != points[0] {
		t.Errorf("First point not preserved: %v", out[0])
	}
	if out[len(out)-1] != points[len(points)-1] {
		t.Errorf("Last point not preserved: %v", out[len(out)-1])
	}

	if dev := maxDeviation(points, out); dev > MinPointDistance {
		t.Errorf("Deviation %v exceeds tolerance %v", dev, MinPointDistance)
	}

	// Output must be a subsequence of the input.
	j := 0
	for _, p := range out {
		for j < len(points) && points[j] != p {
			j++
		}
		if j == len(points) {
			t.Fatalf("Point %v is not part of the input sequence", p)
		}
		j++
	}
}
