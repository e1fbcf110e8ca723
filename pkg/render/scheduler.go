// ABOUTME: Frame-budget throttling for full-canvas repaints
// ABOUTME: Requests inside one frame window coalesce into a single paint

package render

import (
	"sync"
	"time"

	"github.com/pagemark/inkstore/internal/metrics"
)

// FrameInterval is the minimum spacing between full repaints, a 60fps
// budget.
const FrameInterval = 16 * time.Millisecond

// Scheduler throttles full-canvas repaints. The first request outside
// the frame window paints immediately; requests arriving inside the
// window are merged into one paint scheduled for the next frame
// boundary.
type Scheduler struct {
	mu        sync.Mutex
	paint     func()
	interval  time.Duration
	metrics   *metrics.Metrics
	lastPaint time.Time
	pending   *time.Timer
}

// NewScheduler creates a scheduler driving the given paint callback.
// The metrics argument may be nil.
func NewScheduler(paint func(), m *metrics.Metrics) *Scheduler {
	return &Scheduler{
		paint:    paint,
		interval: FrameInterval,
		metrics:  m,
	}
}

// Request asks for a full repaint, coalescing with any repaint already
// scheduled for the current frame window.
func (s *Scheduler) Request() {
	s.mu.Lock()

	if s.pending != nil {
		s.mu.Unlock()
		if s.metrics != nil {
			s.metrics.RedrawsCoalescedTotal.Inc()
		}
		return
	}

	elapsed := time.Since(s.lastPaint)
	if elapsed >= s.interval {
		s.lastPaint = time.Now()
		s.mu.Unlock()
		s.runPaint()
		return
	}

	s.pending = time.AfterFunc(s.interval-elapsed, func() {
		s.mu.Lock()
		s.pending = nil
		s.lastPaint = time.Now()
		s.mu.Unlock()
		s.runPaint()
	})
	s.mu.Unlock()
}

// Flush executes any pending repaint immediately. Intended for page
// teardown and tests, where waiting out the frame budget is pointless.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	if s.pending == nil {
		s.mu.Unlock()
		return
	}
	s.pending.Stop()
	s.pending = nil
	s.lastPaint = time.Now()
	s.mu.Unlock()
	s.runPaint()
}

// Stop cancels any scheduled repaint without executing it
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

func (s *Scheduler) runPaint() {
	start := time.Now()
	s.paint()
	if s.metrics != nil {
		s.metrics.ObserveRedraw(time.Since(start))
	}
}
