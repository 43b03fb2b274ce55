// Package engine is the per-frame entry point to the bullet simulation.
// It owns one bullet store, the viewport used for culling and a frame
// counter, and otherwise delegates to the store.
package engine

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-bullethell/internal/bullets"
)

// Engine drives one bullet store. It is not safe for concurrent use.
type Engine struct {
	store      *bullets.Store
	frameCount uint64
	width      float32
	height     float32
	logger     *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an engine for up to maxBullets bullets culled against a
// viewportW x viewportH field. The viewport is fixed for the engine's lifetime.
func New(maxBullets int, viewportW, viewportH float32, opts ...Option) (*Engine, error) {
	store, err := bullets.New(maxBullets)
	if err != nil {
		return nil, fmt.Errorf("engine: cannot create bullet store: %w", err)
	}

	e := &Engine{
		store:  store,
		width:  viewportW,
		height: viewportH,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.logger.Debug("engine created", "capacity", maxBullets, "width", viewportW, "height", viewportH)
	return e, nil
}

// Update advances every bullet by dt seconds and counts one frame.
func (e *Engine) Update(dt float32) {
	e.store.Advance(dt, e.width, e.height)
	e.frameCount++
}

// SpawnBullet adds one bullet. It is dropped when the engine is full.
func (e *Engine) SpawnBullet(x, y, vx, vy, radius float32, color uint32) {
	e.store.Spawn(x, y, vx, vy, radius, color)
}

// SpawnCirclePattern fires count bullets outward from (x, y) at even angles.
func (e *Engine) SpawnCirclePattern(x, y float32, count int, speed, radius float32, color uint32) {
	e.store.SpawnCircle(x, y, count, speed, radius, color)
}

// SpawnRingPattern is SpawnCirclePattern rotated by offset radians.
func (e *Engine) SpawnRingPattern(x, y float32, count int, speed, radius float32, color uint32, offset float64) {
	e.store.SpawnRing(x, y, count, speed, radius, color, offset)
}

// CheckCollision reports whether any live bullet overlaps the given circle.
func (e *Engine) CheckCollision(x, y, radius float32) bool {
	return e.store.CollidesWith(x, y, radius)
}

// ClearBullets kills every bullet.
func (e *Engine) ClearBullets() {
	e.logger.Debug("clearing bullets", "live", e.store.Count(), "frame", e.frameCount)
	e.store.Clear()
}

// LiveCount returns the number of live bullets.
func (e *Engine) LiveCount() int {
	return e.store.Count()
}

// Capacity returns the maximum number of bullets.
func (e *Engine) Capacity() int {
	return e.store.Capacity()
}

// FrameCount returns the number of Update calls so far.
func (e *Engine) FrameCount() uint64 {
	return e.frameCount
}

// Viewport returns the culling field dimensions.
func (e *Engine) Viewport() (width, height float32) {
	return e.width, e.height
}

// X returns a view of bullet x positions.
func (e *Engine) X() bullets.View[float32] { return e.store.X() }

// Y returns a view of bullet y positions.
func (e *Engine) Y() bullets.View[float32] { return e.store.Y() }

// Radii returns a view of bullet radii.
func (e *Engine) Radii() bullets.View[float32] { return e.store.Radii() }

// Colors returns a view of packed bullet colors.
func (e *Engine) Colors() bullets.View[uint32] { return e.store.Colors() }

// Alive returns a view of liveness flags.
func (e *Engine) Alive() bullets.View[bool] { return e.store.Alive() }

// CopyTo snapshots the renderable buffers into f.
func (e *Engine) CopyTo(f *bullets.Frame) { e.store.CopyTo(f) }
