// ABOUTME: Point and segment distance math in document space
// ABOUTME: Shared primitives for stroke capture and simplification

package geometry

import "math"

// Point is a location in document space (unzoomed, unpanned).
// Points are immutable once recorded into a stroke.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the Euclidean distance between two points.
func Dist(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// PerpendicularDist returns the distance from p to the segment ab.
// A zero-length segment degenerates to point distance from a.
func PerpendicularDist(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y

	segLen := math.Sqrt(dx*dx + dy*dy)
	if segLen == 0 {
		return Dist(p, a)
	}

	// Area of the parallelogram over the segment length.
	return math.Abs(dy*p.X-dx*p.Y+b.X*a.Y-b.Y*a.X) / segLen
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}
