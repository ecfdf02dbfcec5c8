// Package overlay schedules and composites floating drawables, such as
// popups, onto a shared drawing surface.
//
// Drawables are registered by identity with a Scheduler. On every frame the
// scheduler clears the surface, invokes each drawable in ascending priority
// order and collects the hit regions they return. Pointer events are routed
// to the first region containing the pointer.
package overlay

import (
	"time"

	"github.com/dshills/codepad/internal/renderer/backend"
	"github.com/dshills/codepad/internal/renderer/core"
)

// Priority orders drawables. Lower priorities are drawn first, so higher
// priorities end up on top.
type Priority int

const (
	PriorityLow      Priority = 50
	PriorityNormal   Priority = 100
	PriorityHigh     Priority = 150
	PriorityCritical Priority = 200
)

// Frame is passed to each drawable when a frame is composed.
type Frame struct {
	Surface backend.Surface
	Width   int
	Height  int
	Time    time.Time
	Seq     uint64
}

// Bounds returns the full surface rectangle.
func (f Frame) Bounds() core.Rect {
	return core.RectFromSize(0, 0, f.Width, f.Height)
}

// HitRegion is an interactive rectangle produced by a drawable.
type HitRegion struct {
	Rect     core.Rect
	OnHover  func()
	OnSelect func()
}

// Drawable is anything the scheduler can draw.
type Drawable interface {
	// Priority returns the drawing order of the drawable.
	Priority() Priority

	// WantsPointer reports whether the drawable's hit regions take part
	// in pointer routing.
	WantsPointer() bool

	// Draw paints the drawable and returns its hit regions.
	Draw(f Frame) []HitRegion
}

// DrawFunc adapts a function to the Drawable interface.
type DrawFunc struct {
	Prio    Priority
	Pointer bool
	Fn      func(f Frame) []HitRegion
}

// Priority returns the configured priority.
func (d DrawFunc) Priority() Priority { return d.Prio }

// WantsPointer reports whether pointer routing is enabled.
func (d DrawFunc) WantsPointer() bool { return d.Pointer }

// Draw calls the wrapped function.
func (d DrawFunc) Draw(f Frame) []HitRegion {
	if d.Fn == nil {
		return nil
	}
	return d.Fn(f)
}

// SurfaceFactory creates the backing surface on first registration.
type SurfaceFactory func(width, height int) (backend.Surface, error)

// Logger is the logging capability the scheduler needs.
type Logger interface {
	Warn(msg string, args ...any)
}

// Config holds scheduler timing.
type Config struct {
	// FrameInterval is the delay between a frame request and its tick.
	FrameInterval time.Duration

	// ErrorLogInterval limits how often failures of one drawable are logged.
	ErrorLogInterval time.Duration

	// Continuous keeps ticking every FrameInterval while drawables are
	// registered. When false, frames are only drawn on request.
	Continuous bool
}

// DefaultConfig returns the default scheduler configuration.
func DefaultConfig() Config {
	return Config{
		FrameInterval:    16 * time.Millisecond,
		ErrorLogInterval: time.Second,
		Continuous:       true,
	}
}
