package overlay

import (
	"errors"
	"sort"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dshills/codepad/internal/clock"
	"github.com/dshills/codepad/internal/renderer/backend"
)

// ErrClosed is returned when registering with a closed scheduler.
var ErrClosed = errors.New("overlay: scheduler closed")

// entry is one registered drawable.
type entry struct {
	id       string
	drawable Drawable
	seq      uint64
}

// Scheduler owns the drawable registry, the backing surface and the hit
// regions of the most recent frame.
type Scheduler struct {
	mu sync.Mutex

	config  Config
	clock   clock.Clock
	factory SurfaceFactory
	logger  Logger

	// entries contains all registered drawables, keyed by ID.
	entries map[string]*entry
	seq     uint64

	surface       backend.Surface
	width, height int

	hits    []HitRegion
	hovered int

	timer  clock.Timer
	frames uint64
	closed bool

	// failures holds the clock time of each drawable's last logged panic.
	failures *gocache.Cache
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock sets the clock that drives frames.
func WithClock(c clock.Clock) Option {
	return func(s *Scheduler) {
		s.clock = c
	}
}

// WithLogger sets the logger for drawable failures.
func WithLogger(l Logger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// NewScheduler creates a scheduler for a viewport of the given size.
func NewScheduler(config Config, width, height int, factory SurfaceFactory, opts ...Option) *Scheduler {
	def := DefaultConfig()
	if config.FrameInterval <= 0 {
		config.FrameInterval = def.FrameInterval
	}
	if config.ErrorLogInterval <= 0 {
		config.ErrorLogInterval = def.ErrorLogInterval
	}

	s := &Scheduler{
		config:   config,
		clock:    clock.Real{},
		factory:  factory,
		entries:  make(map[string]*entry),
		width:    width,
		height:   height,
		hovered:  -1,
		failures: gocache.New(gocache.NoExpiration, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetDrawable registers d under id, replacing any previous drawable with
// that id. A nil drawable removes the registration.
func (s *Scheduler) SetDrawable(id string, d Drawable) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	if d == nil {
		if _, ok := s.entries[id]; !ok {
			return nil
		}
		delete(s.entries, id)
		s.failures.Delete(id)
		if len(s.entries) == 0 {
			s.releaseLocked()
			return nil
		}
		s.requestLocked()
		return nil
	}

	if e, ok := s.entries[id]; ok {
		// Replacement keeps the original registration order.
		e.drawable = d
	} else {
		s.seq++
		s.entries[id] = &entry{id: id, drawable: d, seq: s.seq}
	}

	if s.surface == nil {
		s.createSurfaceLocked()
	}
	s.requestLocked()
	return nil
}

// Count returns the number of registered drawables.
func (s *Scheduler) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Has reports whether id is registered.
func (s *Scheduler) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[id]
	return ok
}

// Surface returns the backing surface, or nil when none is live.
func (s *Scheduler) Surface() backend.Surface {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface
}

// Size returns the viewport size.
func (s *Scheduler) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Frames returns the number of frames drawn.
func (s *Scheduler) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Resize changes the viewport size and redraws.
func (s *Scheduler) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if width == s.width && height == s.height {
		return
	}
	s.width, s.height = width, height
	if s.surface != nil {
		s.surface.Resize(width, height)
	}
	s.requestLocked()
}

// RequestFrame schedules a frame. Requests made before the pending frame
// runs are coalesced into it.
func (s *Scheduler) RequestFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestLocked()
}

func (s *Scheduler) requestLocked() {
	if s.closed || s.timer != nil || len(s.entries) == 0 {
		return
	}
	s.timer = s.clock.AfterFunc(s.config.FrameInterval, s.fire)
}

// fire is the timer callback.
func (s *Scheduler) fire() {
	s.mu.Lock()
	s.timer = nil
	s.mu.Unlock()

	defer func() {
		if s.config.Continuous {
			s.RequestFrame()
		}
	}()
	s.Tick()
}

// Tick draws one frame immediately.
//
// Drawables are snapshotted under the lock and drawn outside it, so a
// drawable may call back into the scheduler.
func (s *Scheduler) Tick() {
	s.mu.Lock()
	if s.closed || len(s.entries) == 0 {
		s.mu.Unlock()
		return
	}
	if s.surface == nil && !s.createSurfaceLocked() {
		s.mu.Unlock()
		return
	}

	entries := s.sortedLocked()
	s.frames++
	frame := Frame{
		Surface: s.surface,
		Width:   s.width,
		Height:  s.height,
		Time:    s.clock.Now(),
		Seq:     s.frames,
	}
	s.mu.Unlock()

	frame.Surface.Clear()
	var hits []HitRegion
	for _, e := range entries {
		hits = append(hits, s.drawOne(e, frame)...)
	}
	frame.Surface.Flush()

	s.mu.Lock()
	s.hits = hits
	s.mu.Unlock()
}

// sortedLocked returns the entries in ascending priority, ties broken by
// registration order.
func (s *Scheduler) sortedLocked() []entry {
	result := make([]entry, 0, len(s.entries))
	for _, e := range s.entries {
		result = append(result, *e)
	}
	sort.SliceStable(result, func(i, j int) bool {
		pi, pj := result[i].drawable.Priority(), result[j].drawable.Priority()
		if pi != pj {
			return pi < pj
		}
		return result[i].seq < result[j].seq
	})
	return result
}

// drawOne invokes a single drawable, isolating its failures.
func (s *Scheduler) drawOne(e entry, f Frame) (regions []HitRegion) {
	defer func() {
		if r := recover(); r != nil {
			s.reportFailure(e.id, r)
			regions = nil
		}
	}()

	regions = e.drawable.Draw(f)
	if !e.drawable.WantsPointer() {
		return nil
	}
	return regions
}

// reportFailure logs a drawable panic at most once per ErrorLogInterval
// per drawable.
func (s *Scheduler) reportFailure(id string, r any) {
	if s.logger == nil {
		return
	}
	now := s.clock.Now()
	if v, ok := s.failures.Get(id); ok {
		if last, ok := v.(time.Time); ok && now.Sub(last) < s.config.ErrorLogInterval {
			return
		}
	}
	s.failures.Set(id, now, gocache.NoExpiration)
	s.logger.Warn("overlay: drawable %q failed: %v", id, r)
}

// PointerMove routes a pointer position to the hit regions of the last
// frame. Hover fires only when the matched region changes.
func (s *Scheduler) PointerMove(x, y int) {
	s.mu.Lock()
	idx := s.hitTestLocked(x, y)
	if idx == s.hovered {
		s.mu.Unlock()
		return
	}
	s.hovered = idx
	var hover func()
	if idx >= 0 {
		hover = s.hits[idx].OnHover
	}
	s.mu.Unlock()

	if hover != nil {
		hover()
	}
}

// PointerPress routes a press. It returns true when a region handled it,
// in which case the host must skip its own handling.
func (s *Scheduler) PointerPress(x, y int) bool {
	s.mu.Lock()
	idx := s.hitTestLocked(x, y)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	sel := s.hits[idx].OnSelect
	s.mu.Unlock()

	if sel != nil {
		sel()
	}
	return true
}

// WantsPointer reports whether any registered drawable takes pointer input.
func (s *Scheduler) WantsPointer() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.drawable.WantsPointer() {
			return true
		}
	}
	return false
}

// HitRegions returns a copy of the hit regions of the last frame.
func (s *Scheduler) HitRegions() []HitRegion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]HitRegion(nil), s.hits...)
}

func (s *Scheduler) hitTestLocked(x, y int) int {
	for i, h := range s.hits {
		if x >= h.Rect.Left && x < h.Rect.Right && y >= h.Rect.Top && y < h.Rect.Bottom {
			return i
		}
	}
	return -1
}

func (s *Scheduler) createSurfaceLocked() bool {
	if s.factory == nil {
		return false
	}
	surface, err := s.factory(s.width, s.height)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("overlay: create surface: %v", err)
		}
		return false
	}
	s.surface = surface
	return true
}

// releaseLocked tears down per-registry state once the last drawable is gone.
func (s *Scheduler) releaseLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.surface != nil {
		s.surface.Close()
		s.surface = nil
	}
	s.hits = nil
	s.hovered = -1
}

// Close removes every drawable and releases the surface.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.entries = make(map[string]*entry)
	s.releaseLocked()
	s.failures.Flush()
	s.closed = true
}
