// Package transform owns the live view state of one image inside one
// fixed-size viewport: a multiplicative zoom factor and a pixel offset of
// the image center relative to the viewport center, driven by drag, pinch
// and wheel input.
package transform

import "sync"

const (
	// MinScale and MaxScale bound the zoom factor. All clamps are
	// inclusive.
	MinScale = 0.2
	MaxScale = 6.0

	// WheelScaleStep converts one unit of wheel delta into scale change.
	WheelScaleStep = 0.001
)

// Offset is a pixel translation of the image center relative to the
// viewport center.
type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Snapshot is an immutable read of the engine state at one instant.
// DisplayedWidth/DisplayedHeight are the image's base (scale=1) on-screen
// footprint; they are fixed once the source image loads and only Scale and
// Offset change as the user pans and zooms.
type Snapshot struct {
	Scale           float64 `json:"scale"`
	Offset          Offset  `json:"offset"`
	DisplayedWidth  float64 `json:"displayed_width"`
	DisplayedHeight float64 `json:"displayed_height"`
	BaseScale       float64 `json:"base_scale"`
	ViewportWidth   float64 `json:"viewport_width"`
	ViewportHeight  float64 `json:"viewport_height"`
}

// Engine maintains scale and offset for a single viewport. It is owned by
// one session but guarded by a mutex because HTTP requests driving it may
// overlap. There is no persistence here; the state is discarded when the
// editor is recreated and its last snapshot is copied into the order.
type Engine struct {
	mu sync.Mutex

	viewportW float64
	viewportH float64

	scale  float64
	offset Offset

	displayedW float64
	displayedH float64
	baseScale  float64

	dragActive bool

	pinchActive bool
	scale0      float64
	offset0     Offset
	distance0   float64
	midpoint0   Offset

	nextListener int
	listeners    map[int]func(Snapshot)
}

// New creates an engine for a viewport of the given on-screen size.
func New(viewportW, viewportH float64) *Engine {
	return &Engine{
		viewportW: viewportW,
		viewportH: viewportH,
		scale:     1,
		scale0:    1,
		listeners: map[int]func(Snapshot){},
	}
}

// SetImage computes the cover-fit base scale and displayed dimensions from
// the image's natural size. It must run before gestures are meaningful.
// Zero or negative dimensions leave the transform at defaults.
func (e *Engine) SetImage(naturalW, naturalH float64) {
	e.mu.Lock()
	if naturalW <= 0 || naturalH <= 0 || e.viewportW <= 0 || e.viewportH <= 0 {
		e.mu.Unlock()
		return
	}
	base := e.viewportW / naturalW
	if h := e.viewportH / naturalH; h > base {
		base = h
	}
	e.baseScale = base
	e.displayedW = naturalW * base
	e.displayedH = naturalH * base
	e.notifyLocked()
}

// BeginDrag starts a single-pointer pan. Drag deltas received before
// BeginDrag are ignored.
func (e *Engine) BeginDrag() {
	e.mu.Lock()
	e.dragActive = true
	e.mu.Unlock()
}

// Drag pans the image by the given pointer deltas. Scale is untouched.
func (e *Engine) Drag(dx, dy float64) {
	e.mu.Lock()
	if !e.dragActive {
		e.mu.Unlock()
		return
	}
	e.offset.X += dx
	e.offset.Y += dy
	e.notifyLocked()
}

// EndDrag releases input capture. No snapping or inertia.
func (e *Engine) EndDrag() {
	e.mu.Lock()
	e.dragActive = false
	e.mu.Unlock()
}

// BeginPinch snapshots the gesture baseline: current scale and offset,
// starting contact distance and midpoint (relative to the viewport center).
func (e *Engine) BeginPinch(distance float64, midpoint Offset) {
	e.mu.Lock()
	e.pinchActive = true
	e.scale0 = e.scale
	e.offset0 = e.offset
	e.distance0 = distance
	e.midpoint0 = midpoint
	e.mu.Unlock()
}

// MovePinch applies a pinch-zoom step. The scale follows the ratio of the
// current contact distance to the starting distance, and the offset is
// corrected so the content under the pinch midpoint stays visually fixed
// while the scale changes. A move with no active pinch is a no-op.
func (e *Engine) MovePinch(distance float64, midpoint Offset) {
	e.mu.Lock()
	if !e.pinchActive || e.distance0 <= 0 || e.scale0 <= 0 {
		e.mu.Unlock()
		return
	}
	factor := distance / e.distance0
	newScale := clampScale(e.scale0 * factor)
	deltaFactor := 1 - newScale/e.scale0
	e.scale = newScale
	e.offset = Offset{
		X: e.offset0.X + deltaFactor*midpoint.X,
		Y: e.offset0.Y + deltaFactor*midpoint.Y,
	}
	e.notifyLocked()
}

// EndPinch re-baselines the gesture state so the next pinch starts fresh
// from the current scale and offset.
func (e *Engine) EndPinch() {
	e.mu.Lock()
	e.pinchActive = false
	e.scale0 = e.scale
	e.offset0 = e.offset
	e.mu.Unlock()
}

// Wheel zooms about the viewport center. No offset correction.
func (e *Engine) Wheel(deltaY float64) {
	e.mu.Lock()
	e.scale = clampScale(e.scale + (-deltaY * WheelScaleStep))
	e.notifyLocked()
}

// SetScale is an out-of-band scale override (e.g. a slider). The offset is
// untouched.
func (e *Engine) SetScale(v float64) {
	e.mu.Lock()
	v = clampScale(v)
	if v == e.scale {
		e.mu.Unlock()
		return
	}
	e.scale = v
	e.notifyLocked()
}

// Snapshot returns the current transform. Pure read, no side effects.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Subscribe registers a listener invoked with the latest snapshot after
// every mutation. The returned function cancels the subscription.
func (e *Engine) Subscribe(fn func(Snapshot)) func() {
	e.mu.Lock()
	id := e.nextListener
	e.nextListener++
	e.listeners[id] = fn
	e.mu.Unlock()
	return func() {
		e.mu.Lock()
		delete(e.listeners, id)
		e.mu.Unlock()
	}
}

func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		Scale:           e.scale,
		Offset:          e.offset,
		DisplayedWidth:  e.displayedW,
		DisplayedHeight: e.displayedH,
		BaseScale:       e.baseScale,
		ViewportWidth:   e.viewportW,
		ViewportHeight:  e.viewportH,
	}
}

// notifyLocked releases the lock and delivers the snapshot to listeners.
// Callers must hold the lock and must not touch state afterwards.
func (e *Engine) notifyLocked() {
	snap := e.snapshotLocked()
	fns := make([]func(Snapshot), 0, len(e.listeners))
	for _, fn := range e.listeners {
		fns = append(fns, fn)
	}
	e.mu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

func clampScale(v float64) float64 {
	if v < MinScale {
		return MinScale
	}
	if v > MaxScale {
		return MaxScale
	}
	return v
}
