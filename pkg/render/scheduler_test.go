// ABOUTME: Tests for redraw coalescing
// ABOUTME: Verifies the one-paint-per-frame budget and flush behavior

package render

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestFirstRequestPaintsImmediately(t *testing.T) {
	var paints atomic.Int64
	s := NewScheduler(func() { paints.Add(1) }, nil)

	s.Request()
	if got := paints.Load(); got != 1 {
		t.Fatalf("Expected 1 immediate paint, got %d", got)
	}
}

func TestRequestsInsideWindowCoalesce(t *testing.T) {
	var paints atomic.Int64
	s := NewScheduler(func() { paints.Add(1) }, nil)

	s.Request()
	for i := 0; i < 10; i++ {
		s.Request()
	}

	if got := paints.Load(); got != 1 {
		t.Fatalf("Expected burst to coalesce into 1 paint, got %d", got)
	}

	// The coalesced paint lands on the next frame boundary.
	deadline := time.Now().Add(500 * time.Millisecond)
	for paints.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if got := paints.Load(); got != 2 {
		t.Fatalf("Expected exactly 2 paints after the window, got %d", got)
	}
}

func TestFlushRunsPendingPaint(t *testing.T) {
	var paints atomic.Int64
	s := NewScheduler(func() { paints.Add(1) }, nil)

	s.Request()
	s.Request() // pending
	s.Flush()

	if got := paints.Load(); got != 2 {
		t.Fatalf("Expected flush to run the pending paint, got %d paints", got)
	}

	// Flushing with nothing pending is a no-op.
	s.Flush()
	if got := paints.Load(); got != 2 {
		t.Fatalf("Expected no paint from empty flush, got %d", got)
	}
}

func TestStopCancelsPendingPaint(t *testing.T) {
	var paints atomic.Int64
	s := NewScheduler(func() { paints.Add(1) }, nil)

	s.Request()
	s.Request() // pending
	s.Stop()

	time.Sleep(3 * FrameInterval)
	if got := paints.Load(); got != 1 {
		t.Fatalf("Expected pending paint cancelled, got %d paints", got)
	}
}
