package history

import (
	"sync"
	"time"

	"github.com/dshills/codepad/internal/clock"
)

// Defaults for New.
const (
	DefaultCapacity = 1000
	DefaultDebounce = 500 * time.Millisecond
)

// Entry is one recorded edit.
type Entry struct {
	Before    Snapshot
	After     Snapshot
	Timestamp time.Time
}

// History manages undo/redo state for one editor.
type History struct {
	mu sync.Mutex

	undoStack []Entry
	redoStack []Entry

	// initial is the first snapshot ever recorded; Undo falls back to it
	// once the undo stack is exhausted.
	initial *Snapshot

	// pending is the before snapshot of an immediate operation.
	pending *Snapshot

	// Debounced burst state.
	burstBefore *Snapshot
	burstAfter  *Snapshot
	timer       clock.Timer
	gen         uint64

	clock    clock.Clock
	debounce time.Duration
	capacity int
	onCommit func(Entry)
}

// Option configures a History.
type Option func(*History)

// WithClock sets the clock used for the debounce timer.
func WithClock(c clock.Clock) Option {
	return func(h *History) {
		h.clock = c
	}
}

// WithDebounce sets the debounce delay.
func WithDebounce(d time.Duration) Option {
	return func(h *History) {
		if d > 0 {
			h.debounce = d
		}
	}
}

// WithOnCommit sets a callback run after every committed entry.
func WithOnCommit(fn func(Entry)) Option {
	return func(h *History) {
		h.onCommit = fn
	}
}

// New creates a history holding at most capacity undo entries.
func New(capacity int, opts ...Option) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	h := &History{
		clock:    clock.Real{},
		debounce: DefaultDebounce,
		capacity: capacity,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SaveBefore records the state before an immediate operation. A pending
// debounced burst is committed first.
func (h *History) SaveBefore(s Snapshot) {
	h.Flush()

	h.mu.Lock()
	defer h.mu.Unlock()

	snap := s.Clone()
	h.pending = &snap
	h.noteInitialLocked(snap)
}

// SaveAfter completes an immediate operation started with SaveBefore.
// Nothing is recorded when the state did not change.
func (h *History) SaveAfter(s Snapshot) {
	h.mu.Lock()
	if h.pending == nil {
		h.mu.Unlock()
		return
	}
	before := *h.pending
	h.pending = nil
	entry, ok := h.commitLocked(before, s.Clone())
	onCommit := h.onCommit
	h.mu.Unlock()

	if ok && onCommit != nil {
		onCommit(entry)
	}
}

// SaveDebouncedBefore records the state before a keystroke. Only the
// first call of a burst is kept.
func (h *History) SaveDebouncedBefore(s Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.burstBefore != nil {
		return
	}
	snap := s.Clone()
	h.burstBefore = &snap
	h.noteInitialLocked(snap)
}

// SaveDebouncedAfter records the state after a keystroke and restarts the
// debounce timer. The burst is committed when the timer fires.
func (h *History) SaveDebouncedAfter(s Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.burstBefore == nil {
		return
	}
	snap := s.Clone()
	h.burstAfter = &snap

	h.stopTimerLocked()
	h.gen++
	gen := h.gen
	h.timer = h.clock.AfterFunc(h.debounce, func() { h.fire(gen) })
}

// fire commits the burst unless the timer was re-armed or cancelled.
func (h *History) fire(gen uint64) {
	h.mu.Lock()
	if gen != h.gen {
		h.mu.Unlock()
		return
	}
	h.timer = nil
	entry, ok := h.commitBurstLocked()
	onCommit := h.onCommit
	h.mu.Unlock()

	if ok && onCommit != nil {
		onCommit(entry)
	}
}

// Flush commits a pending debounced burst immediately.
func (h *History) Flush() {
	h.mu.Lock()
	h.stopTimerLocked()
	entry, ok := h.commitBurstLocked()
	onCommit := h.onCommit
	h.mu.Unlock()

	if ok && onCommit != nil {
		onCommit(entry)
	}
}

// Pending reports whether a debounced burst is waiting to be committed.
func (h *History) Pending() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.burstBefore != nil
}

// Undo pops the most recent entry and returns the state before it. With
// an empty undo stack it returns the initial snapshot, if one was ever
// recorded.
func (h *History) Undo() (Snapshot, bool) {
	h.Flush()

	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		if h.initial == nil {
			return Snapshot{}, false
		}
		return h.initial.Clone(), true
	}

	entry := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, entry)
	return entry.Before.Clone(), true
}

// Redo re-applies the most recently undone entry and returns the state
// after it.
func (h *History) Redo() (Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return Snapshot{}, false
	}

	entry := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, entry)
	return entry.After.Clone(), true
}

// CanUndo returns true if undo is available. A pending burst counts only
// once it has changed something.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undoStack) > 0 {
		return true
	}
	return h.burstBefore != nil && h.burstAfter != nil && !h.burstBefore.Equal(*h.burstAfter)
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of committed undo entries.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo entries.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// PeekUndo returns the next undo entry without removing it.
func (h *History) PeekUndo() (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return Entry{}, false
	}
	return h.undoStack[len(h.undoStack)-1], true
}

// Clear removes all history and cancels any pending burst.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.stopTimerLocked()
	h.undoStack = nil
	h.redoStack = nil
	h.initial = nil
	h.pending = nil
	h.burstBefore = nil
	h.burstAfter = nil
}

// SetCapacity changes the maximum number of undo entries.
// If the current stack is larger, oldest entries are removed.
func (h *History) SetCapacity(capacity int) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.capacity = capacity
	h.trimLocked()
}

// Capacity returns the maximum number of undo entries.
func (h *History) Capacity() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.capacity
}

func (h *History) noteInitialLocked(s Snapshot) {
	if h.initial == nil {
		snap := s.Clone()
		h.initial = &snap
	}
}

func (h *History) stopTimerLocked() {
	h.gen++
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
}

func (h *History) commitBurstLocked() (Entry, bool) {
	if h.burstBefore == nil {
		return Entry{}, false
	}
	before, after := h.burstBefore, h.burstAfter
	h.burstBefore, h.burstAfter = nil, nil
	if after == nil {
		return Entry{}, false
	}
	return h.commitLocked(*before, *after)
}

// commitLocked pushes an entry when before and after differ. Committing
// clears the redo stack.
func (h *History) commitLocked(before, after Snapshot) (Entry, bool) {
	if before.Equal(after) {
		return Entry{}, false
	}
	entry := Entry{Before: before, After: after, Timestamp: h.clock.Now()}
	h.undoStack = append(h.undoStack, entry)
	h.redoStack = nil
	h.trimLocked()
	return entry, true
}

func (h *History) trimLocked() {
	if len(h.undoStack) > h.capacity {
		excess := len(h.undoStack) - h.capacity
		h.undoStack = append([]Entry(nil), h.undoStack[excess:]...)
	}
}
