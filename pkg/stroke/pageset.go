// ABOUTME: Per-page ordered stroke set with a capacity cap
// ABOUTME: Drop-oldest-on-overflow policy, owned by one capture session at a time

package stroke

import "github.com/pagemark/inkstore/pkg/geometry"

// MaxStrokesPerPage caps the committed strokes held for one page.
// Overflow truncates the oldest strokes first.
const MaxStrokesPerPage = 1000

// PageSet holds the committed strokes for one (document, page) pair in
// insertion order; later strokes render over earlier ones. It is owned
// exclusively by the active capture session, so it carries no locking.
type PageSet struct {
	strokes []Stroke
}

// NewPageSet returns an empty page annotation set.
func NewPageSet() *PageSet {
	return &PageSet{}
}

// Append adds a committed stroke, enforcing the capacity cap by
// dropping the oldest strokes.
func (ps *PageSet) Append(s Stroke) {
	ps.strokes = append(ps.strokes, s)
	if len(ps.strokes) > MaxStrokesPerPage {
		ps.strokes = ps.strokes[len(ps.strokes)-MaxStrokesPerPage:]
	}
}

// Replace swaps in a whole stroke sequence, e.g. after a load from
// persistence. The cap applies: only the most recent strokes survive.
func (ps *PageSet) Replace(strokes []Stroke) {
	if len(strokes) > MaxStrokesPerPage {
		strokes = strokes[len(strokes)-MaxStrokesPerPage:]
	}
	ps.strokes = append([]Stroke(nil), strokes...)
}

// Clear empties the set.
func (ps *PageSet) Clear() {
	ps.strokes = nil
}

// Len returns the committed stroke count.
func (ps *PageSet) Len() int {
	return len(ps.strokes)
}

// Strokes returns a copy of the committed strokes in insertion order.
func (ps *PageSet) Strokes() []Stroke {
	return append([]Stroke(nil), ps.strokes...)
}

// RemoveNear deletes every stroke having at least one point within
// radius of center and reports how many were removed. This is the
// stroke-filtering eraser model; deletions flow into the next persisted
// snapshot.
func (ps *PageSet) RemoveNear(center geometry.Point, radius float64) int {
	kept := ps.strokes[:0]
	removed := 0
	for _, s := range ps.strokes {
		if strokeHit(s, center, radius) {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	ps.strokes = kept
	return removed
}

func strokeHit(s Stroke, center geometry.Point, radius float64) bool {
	for _, p := range s.Points {
		if geometry.Dist(p, center) <= radius {
			return true
		}
	}
	return false
}
