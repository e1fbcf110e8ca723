// ABOUTME: Stroke data model for freehand annotations
// ABOUTME: Defines Tool, Stroke and the JSON wire format used by persistence

package stroke

import (
	"time"

	"github.com/google/uuid"

	"github.com/pagemark/inkstore/pkg/geometry"
)

// Tool identifies the drawing tool that produced a stroke. The eraser
// is a valid tool selection but never appears in stored data.
type Tool string

const (
	ToolPen         Tool = "pen"
	ToolHighlighter Tool = "highlighter"
	ToolEraser      Tool = "eraser"
)

// Stroke is one continuous pen or highlighter drag: an immutable
// ordered point sequence plus tool metadata. Consecutive point pairs
// form the rendered segments.
type Stroke struct {
	ID        string           `json:"id"`
	Tool      Tool             `json:"tool"`
	Color     string           `json:"color"`
	Width     float64          `json:"strokeWidth"`
	Points    []geometry.Point `json:"points"`
	Timestamp int64            `json:"timestamp"`
}

// New constructs a committed stroke with a fresh ID and the current
// epoch-ms timestamp. Callers must supply at least 2 points.
func New(tool Tool, color string, width float64, points []geometry.Point) Stroke {
	return Stroke{
		ID:        uuid.NewString(),
		Tool:      tool,
		Color:     color,
		Width:     width,
		Points:    points,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Valid reports whether a stroke satisfies the structural invariants
// required of stored data. Used to sanity-check deserialized records.
func (s Stroke) Valid() bool {
	if s.ID == "" || len(s.Points) < 2 {
		return false
	}
	if s.Tool != ToolPen && s.Tool != ToolHighlighter {
		return false
	}
	for _, p := range s.Points {
		if !p.IsFinite() {
			return false
		}
	}
	return true
}
