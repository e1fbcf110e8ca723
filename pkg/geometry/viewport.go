// ABOUTME: Screen-space to document-space coordinate mapping
// ABOUTME: Strokes are stored in document space, invariant under zoom/pan

package geometry

import "fmt"

// Viewport describes the current transform between screen coordinates
// and document coordinates: the canvas container origin on screen, the
// zoom factor and the pan offset in screen units.
type Viewport struct {
	Origin Point
	Zoom   float64
	Pan    Point
}

// ToDocument maps a screen coordinate into document space. A malformed
// transform (zero zoom, non-finite input) yields an error rather than
// letting NaN or Inf propagate into stored stroke data.
func (v Viewport) ToDocument(screenX, screenY float64) (Point, error) {
	if v.Zoom == 0 {
		return Point{}, fmt.Errorf("viewport: zero zoom factor")
	}

	p := Point{
		X: (screenX-v.Origin.X)/v.Zoom - v.Pan.X/v.Zoom,
		Y: (screenY-v.Origin.Y)/v.Zoom - v.Pan.Y/v.Zoom,
	}
	if !p.IsFinite() {
		return Point{}, fmt.Errorf("viewport: non-finite document coordinate from screen (%v, %v)", screenX, screenY)
	}
	return p, nil
}

// ToScreen maps a document-space point back to screen coordinates.
// Used only by the rendering pass.
func (v Viewport) ToScreen(p Point) (float64, float64) {
	return p.X*v.Zoom + v.Pan.X + v.Origin.X,
		p.Y*v.Zoom + v.Pan.Y + v.Origin.Y
}
