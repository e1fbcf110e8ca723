// ABOUTME: Recursive line simplification (Douglas-Peucker)
// ABOUTME: Bounds stroke point growth without visible distortion

package geometry

const (
	// SimplificationThreshold is the point count above which a
	// completed stroke is simplified before being committed.
	SimplificationThreshold = 100

	// MinPointDistance is the default simplification tolerance in
	// document-space units.
	MinPointDistance = 2.0
)

// Simplify reduces points to a subsequence whose maximum perpendicular
// deviation from the original polyline stays within tolerance. The
// first and last points are always preserved and no new points are
// interpolated. Inputs of fewer than 3 points are returned as-is.
func Simplify(points []Point, tolerance float64) []Point {
	if len(points) < 3 {
		return points
	}

	first := points[0]
	last := points[len(points)-1]

	maxDist := 0.0
	maxIdx := 0
	for i := 1; i < len(points)-1; i++ {
		d := PerpendicularDist(points[i], first, last)
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}

	if maxDist <= tolerance {
		return []Point{first, last}
	}

	left := Simplify(points[:maxIdx+1], tolerance)
	right := Simplify(points[maxIdx:], tolerance)

	// Drop the joint point duplicated by the two halves.
	out := make([]Point, 0, len(left)+len(right)-1)
	out = append(out, left...)
	out = append(out, right[1:]...)
	return out
}
