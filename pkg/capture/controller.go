// ABOUTME: Interactive drawing session: pointer capture, batching, commit
// ABOUTME: Owns the active page's stroke set and hands it off on page switch

package capture

import (
	"fmt"
	"sync"

	"github.com/pagemark/inkstore/internal/logger"
	"github.com/pagemark/inkstore/internal/metrics"
	"github.com/pagemark/inkstore/pkg/geometry"
	"github.com/pagemark/inkstore/pkg/persist"
	"github.com/pagemark/inkstore/pkg/render"
	"github.com/pagemark/inkstore/pkg/stroke"
)

const (
	// BatchSize is the pointer-move buffer length flushed into the
	// stroke's point buffer at once.
	BatchSize = 5

	// FlatEraseRadius is the fixed eraser hit radius in document
	// units when flat-erase mode is configured. Otherwise the radius
	// is eraseWidthFactor times the configured stroke width.
	FlatEraseRadius  = 20.0
	eraseWidthFactor = 3.0

	// strokeLimitWarnMargin is how close to the page cap the stroke
	// count gets before the user is warned.
	strokeLimitWarnMargin = 50
)

// Config assembles a capture controller
type Config struct {
	Canvas    Canvas
	Store     *persist.Store
	Notifier  Notifier
	Logger    *logger.Logger
	Metrics   *metrics.Metrics
	FlatErase bool

	// OnAnnotationsChange fires after every commit, erase or clear
	// with the page's full current stroke list.
	OnAnnotationsChange func(page int, strokes []stroke.Stroke)
}

// Controller runs one interactive drawing session over the currently
// displayed page. It is driven from a single event goroutine; pointer
// events are processed strictly in arrival order. The mutex exists for
// one reader only: a coalesced repaint fires on a timer goroutine, and
// it must never observe the session state mid-mutation. Entry points
// release the mutex before requesting a repaint, since an immediate
// repaint runs synchronously on the calling goroutine.
type Controller struct {
	mu        sync.Mutex
	canvas    Canvas
	store     *persist.Store
	notifier  Notifier
	log       *logger.Logger
	metrics   *metrics.Metrics
	onChange  func(int, []stroke.Stroke)
	scheduler *render.Scheduler
	flatErase bool

	documentID string
	page       int
	viewport   geometry.Viewport
	pageSet    *stroke.PageSet

	tool  stroke.Tool
	color string
	width float64

	capturing bool
	erasing   bool
	points    []geometry.Point // committed-on-flush point buffer
	batch     []geometry.Point // pending pointer-move batch
	last      geometry.Point   // last live-drawn point

	viewOnly    bool
	limitWarned bool
}

// NewController creates a controller for the given ports. A nil canvas
// degrades the session to view-only mode: the document still displays
// but no annotations can be captured.
func NewController(cfg Config) *Controller {
	log := cfg.Logger
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	c := &Controller{
		canvas:    cfg.Canvas,
		store:     cfg.Store,
		notifier:  cfg.Notifier,
		log:       log,
		metrics:   cfg.Metrics,
		onChange:  cfg.OnAnnotationsChange,
		flatErase: cfg.FlatErase,
		pageSet:   stroke.NewPageSet(),
		viewport:  geometry.Viewport{Zoom: 1},
		tool:      stroke.ToolPen,
		color:     "#000000",
		width:     2,
	}
	c.scheduler = render.NewScheduler(c.repaint, cfg.Metrics)

	if c.canvas == nil {
		c.viewOnly = true
		c.log.Warn("Canvas unavailable, session is view-only").Msg("Capture degraded")
		c.notify(NoticeWarning, "Drawing is unavailable; the document is shown read-only.")
	}
	return c
}

// SetTool selects the active drawing tool
func (c *Controller) SetTool(tool stroke.Tool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tool = tool
}

// SetColor selects the stroke color
func (c *Controller) SetColor(color string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.color = color
}

// SetWidth selects the configured stroke width
func (c *Controller) SetWidth(width float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.width = width
}

// Page returns the active (documentId, pageNumber) pair
func (c *Controller) Page() (string, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.documentID, c.page
}

// Strokes returns the committed strokes of the active page
func (c *Controller) Strokes() []stroke.Stroke {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageSet.Strokes()
}

// SetPage switches the session to a new (document, page) pair. The
// canvas is resized to the rasterizer's dimensions, any in-progress
// stroke is abandoned so it can never commit under the wrong key, and
// the page's persisted strokes replace the set wholesale.
func (c *Controller) SetPage(documentID string, page int, pageWidth, pageHeight float64) {
	c.mu.Lock()
	c.abandonCapture()

	c.documentID = documentID
	c.page = page
	c.limitWarned = false

	if !c.viewOnly {
		c.canvas.Resize(pageWidth, pageHeight)
	}

	var loaded []stroke.Stroke
	if c.store != nil {
		loaded = c.store.Load(documentID, page)
	}
	c.pageSet.Replace(loaded)

	c.log.CaptureLogger(documentID, page).Debug("Page activated").
		Int("stroke_count", len(loaded)).
		Msg("Annotation set loaded")
	c.mu.Unlock()

	c.scheduler.Request()
}

// SetViewport applies a new zoom/pan transform and the matching page
// pixel dimensions, then schedules a full repaint.
func (c *Controller) SetViewport(v geometry.Viewport, pageWidth, pageHeight float64) {
	c.mu.Lock()
	c.viewport = v
	if !c.viewOnly {
		c.canvas.Resize(pageWidth, pageHeight)
	}
	c.mu.Unlock()

	c.scheduler.Request()
}

// PointerDown begins a capture or an erase pass at a screen position
func (c *Controller) PointerDown(screenX, screenY float64) {
	c.mu.Lock()
	if c.viewOnly {
		c.mu.Unlock()
		return
	}

	doc, err := c.viewport.ToDocument(screenX, screenY)
	if err != nil {
		c.dropMalformed(err)
		c.mu.Unlock()
		return
	}

	if c.tool == stroke.ToolEraser {
		c.erasing = true
		erased := c.eraseAt(doc)
		c.mu.Unlock()
		if erased {
			c.scheduler.Request()
		}
		return
	}

	c.capturing = true
	c.points = []geometry.Point{doc}
	c.batch = nil
	c.last = doc
	if c.metrics != nil {
		c.metrics.PointsCapturedTotal.Inc()
	}
	c.mu.Unlock()
}

// PointerMove extends the in-progress stroke or erase pass. Incoming
// points accumulate in a small batch; each segment is still drawn
// immediately for low-latency feedback, and batching never alters the
// stored stroke, which keeps every captured point.
func (c *Controller) PointerMove(screenX, screenY float64) {
	c.mu.Lock()
	if c.viewOnly {
		c.mu.Unlock()
		return
	}

	doc, err := c.viewport.ToDocument(screenX, screenY)
	if err != nil {
		c.dropMalformed(err)
		c.mu.Unlock()
		return
	}

	if c.erasing {
		erased := c.eraseAt(doc)
		c.mu.Unlock()
		if erased {
			c.scheduler.Request()
		}
		return
	}
	if !c.capturing {
		c.mu.Unlock()
		return
	}

	c.canvas.DrawSegment(c.last, doc, styleFor(c.tool, c.color, c.width))
	c.last = doc

	c.batch = append(c.batch, doc)
	if len(c.batch) >= BatchSize {
		c.flushBatch()
	}
	if c.metrics != nil {
		c.metrics.PointsCapturedTotal.Inc()
	}
	c.mu.Unlock()
}

// PointerUp ends the capture or erase pass, committing the stroke when
// it has at least two points.
func (c *Controller) PointerUp() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.erasing {
		c.erasing = false
		return
	}
	if !c.capturing {
		return
	}

	c.flushBatch()
	points := c.points
	c.capturing = false
	c.points = nil

	if len(points) < 2 {
		if c.metrics != nil {
			c.metrics.StrokesDiscardedTotal.Inc()
		}
		return
	}

	c.commit(points)
}

// PointerLeave is treated like a pointer-up: leaving the canvas ends
// the stroke.
func (c *Controller) PointerLeave() { c.PointerUp() }

// ClearPage replaces the page's annotation set with an empty sequence,
// writes through to storage and schedules a full redraw.
func (c *Controller) ClearPage() {
	c.mu.Lock()
	c.abandonCapture()
	c.pageSet.Clear()

	if c.store != nil {
		c.store.ClearPage(c.documentID, c.page)
	}
	c.limitWarned = false
	c.fireChange()
	c.mu.Unlock()

	c.scheduler.Request()
}

// SaveNow persists the current page's strokes immediately
func (c *Controller) SaveNow() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.persistPage()
}

// Flush forces any pending repaint to run now
func (c *Controller) Flush() { c.scheduler.Flush() }

// Close cancels pending repaints and abandons any in-progress stroke
func (c *Controller) Close() {
	c.mu.Lock()
	c.abandonCapture()
	c.mu.Unlock()
	c.scheduler.Stop()
}

func (c *Controller) commit(points []geometry.Point) {
	captured := len(points)
	if captured > geometry.SimplificationThreshold {
		points = geometry.Simplify(points, geometry.MinPointDistance)
		if c.metrics != nil {
			c.metrics.PointsSimplifiedAway.Add(float64(captured - len(points)))
		}
	}

	s := stroke.New(c.tool, c.color, c.width, points)
	c.pageSet.Append(s)
	if c.metrics != nil {
		c.metrics.StrokesCommittedTotal.Inc()
	}

	c.warnNearLimit()
	c.persistPage()
	c.fireChange()
}

// eraseAt filters strokes near center out of the page set and persists
// the shrunken set immediately. Reports whether anything was removed
// so the caller can schedule a repaint after releasing the mutex.
func (c *Controller) eraseAt(center geometry.Point) bool {
	radius := c.width * eraseWidthFactor
	if c.flatErase {
		radius = FlatEraseRadius
	}

	if c.metrics != nil {
		c.metrics.ErasureStepsTotal.Inc()
	}

	removed := c.pageSet.RemoveNear(center, radius)
	if removed == 0 {
		return false
	}

	c.log.CaptureLogger(c.documentID, c.page).Debug("Strokes erased").
		Int("removed", removed).
		Float64("radius", radius).
		Msg("Eraser step")

	c.persistPage()
	c.fireChange()
	return true
}

// repaint is the scheduler's paint callback: clear and redraw every
// committed stroke in insertion order. It may run on the scheduler's
// timer goroutine, so it takes the session mutex.
func (c *Controller) repaint() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.viewOnly {
		return
	}

	strokes := c.pageSet.Strokes()
	if len(strokes) > stroke.MaxStrokesPerPage {
		// The page set enforces the cap, so this indicates a bug
		// upstream; render the most recent cap and say so.
		c.log.Error("Stroke set exceeds page cap at render time").
			Str("document_id", c.documentID).
			Int("page", c.page).
			Int("stroke_count", len(strokes)).
			Msg("Render cap enforced")
		strokes = strokes[len(strokes)-stroke.MaxStrokesPerPage:]
	}

	c.canvas.Clear()
	for _, s := range strokes {
		style := styleForStroke(s)
		for i := 1; i < len(s.Points); i++ {
			c.canvas.DrawSegment(s.Points[i-1], s.Points[i], style)
		}
	}
}

func (c *Controller) flushBatch() {
	c.points = append(c.points, c.batch...)
	c.batch = nil
}

func (c *Controller) abandonCapture() {
	if c.capturing {
		c.log.CaptureLogger(c.documentID, c.page).Debug("In-progress stroke abandoned").
			Int("points", len(c.points)+len(c.batch)).
			Msg("Capture cancelled")
	}
	c.capturing = false
	c.erasing = false
	c.points = nil
	c.batch = nil
}

func (c *Controller) persistPage() bool {
	if c.store == nil {
		return true
	}
	if !c.store.Save(c.documentID, c.page, c.pageSet.Strokes()) {
		c.notify(NoticeWarning, "Annotation storage is full; recent marks may not be saved.")
		return false
	}
	return true
}

func (c *Controller) warnNearLimit() {
	if c.limitWarned || c.pageSet.Len() < stroke.MaxStrokesPerPage-strokeLimitWarnMargin {
		return
	}
	c.limitWarned = true
	c.notify(NoticeWarning, fmt.Sprintf(
		"This page is close to the %d-stroke limit; oldest marks will be dropped beyond it.",
		stroke.MaxStrokesPerPage))
}

func (c *Controller) dropMalformed(err error) {
	c.log.Warn("Dropping malformed pointer coordinate").
		Str("document_id", c.documentID).
		Int("page", c.page).
		Err(err).
		Msg("Coordinate transform failed")
}

func (c *Controller) fireChange() {
	if c.onChange != nil {
		c.onChange(c.page, c.pageSet.Strokes())
	}
}

func (c *Controller) notify(level NoticeLevel, message string) {
	if c.notifier != nil {
		c.notifier.Notify(level, message)
	}
}
