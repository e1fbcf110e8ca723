// ABOUTME: Ports the capture controller talks to: canvas, toasts
// ABOUTME: Per-tool stroke rendering parameters

package capture

import (
	"github.com/pagemark/inkstore/pkg/geometry"
	"github.com/pagemark/inkstore/pkg/stroke"
)

// Style carries the rendering parameters for one stroke segment.
// Opacity is 0..1; coordinates handed to the canvas are in document
// space and the host applies the current viewport transform.
type Style struct {
	Color   string
	Width   float64
	Opacity float64
}

// Canvas is the drawing surface supplied by the host embedding layer.
// It must be resized to the rasterizer's page dimensions before any
// point is captured or coordinates will misalign.
type Canvas interface {
	Resize(width, height float64)
	Clear()
	DrawSegment(a, b geometry.Point, style Style)
}

// Notifier receives fire-and-forget human-readable warnings, e.g. a
// toast service. Implementations must not block.
type Notifier interface {
	Notify(level NoticeLevel, message string)
}

// NoticeLevel classifies a user-facing notification
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
)

// highlighterWidthFactor scales the configured width for highlighter
// strokes; highlighterOpacity is their compositing alpha.
const (
	highlighterWidthFactor = 3.0
	highlighterOpacity     = 0.30
)

// styleFor maps a tool selection to its rendering parameters
func styleFor(tool stroke.Tool, color string, width float64) Style {
	if tool == stroke.ToolHighlighter {
		return Style{Color: color, Width: width * highlighterWidthFactor, Opacity: highlighterOpacity}
	}
	return Style{Color: color, Width: width, Opacity: 1.0}
}

// styleForStroke derives the rendering style of a committed stroke
func styleForStroke(s stroke.Stroke) Style {
	return styleFor(s.Tool, s.Color, s.Width)
}
