package history

import (
	"testing"
	"time"

	"github.com/dshills/codepad/internal/clock"
)

func snap(text string, line, col int) Snapshot {
	return Snapshot{
		Lines: []string{text},
		Caret: &Caret{Line: line, Column: col, ColumnIntent: col},
	}
}

func newTestHistory(capacity int) (*History, *clock.Manual) {
	clk := clock.NewManual(time.Unix(0, 0))
	return New(capacity, WithClock(clk), WithDebounce(100*time.Millisecond)), clk
}

// Snapshot Tests

func TestSnapshotEqual(t *testing.T) {
	sel := &Selection{Start: Position{0, 1}, End: Position{0, 3}}
	tests := []struct {
		name string
		a, b Snapshot
		want bool
	}{
		{"identical", snap("abc", 0, 1), snap("abc", 0, 1), true},
		{"text differs", snap("abc", 0, 1), snap("abd", 0, 1), false},
		{"caret differs", snap("abc", 0, 1), snap("abc", 0, 2), false},
		{"caret nil", Snapshot{Lines: []string{"abc"}}, snap("abc", 0, 1), false},
		{"both nil carets", Snapshot{Lines: []string{"abc"}}, Snapshot{Lines: []string{"abc"}}, true},
		{"selection differs", Snapshot{Lines: []string{"a"}, Selection: sel}, Snapshot{Lines: []string{"a"}}, false},
		{"same selection", Snapshot{Lines: []string{"a"}, Selection: sel}, Snapshot{Lines: []string{"a"}, Selection: &Selection{Start: Position{0, 1}, End: Position{0, 3}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSnapshotCloneIsDeep(t *testing.T) {
	orig := snap("abc", 0, 1)
	clone := orig.Clone()

	orig.Lines[0] = "changed"
	orig.Caret.Column = 9

	if clone.Lines[0] != "abc" || clone.Caret.Column != 1 {
		t.Errorf("clone shares state with original: %+v", clone)
	}
}

func TestSnapshotText(t *testing.T) {
	s := Snapshot{Lines: []string{"a", "", "b"}}
	if got := s.Text(); got != "a\n\nb" {
		t.Errorf("Text() = %q", got)
	}
}

// Immediate Mode Tests

func TestImmediateUndoRedo(t *testing.T) {
	h, _ := newTestHistory(10)

	h.SaveBefore(snap("a", 0, 1))
	h.SaveAfter(snap("ab", 0, 2))

	if h.UndoCount() != 1 {
		t.Fatalf("expected 1 undo entry, got %d", h.UndoCount())
	}

	got, ok := h.Undo()
	if !ok || !got.Equal(snap("a", 0, 1)) {
		t.Errorf("Undo() = %+v, %v", got, ok)
	}
	if !h.CanRedo() {
		t.Error("should be able to redo")
	}

	got, ok = h.Redo()
	if !ok || !got.Equal(snap("ab", 0, 2)) {
		t.Errorf("Redo() = %+v, %v", got, ok)
	}
	if h.CanRedo() {
		t.Error("redo stack should be empty")
	}
}

func TestImmediateNoChangeIsNotRecorded(t *testing.T) {
	h, _ := newTestHistory(10)

	h.SaveBefore(snap("a", 0, 1))
	h.SaveAfter(snap("a", 0, 1))

	if h.UndoCount() != 0 {
		t.Errorf("identical snapshots should not be recorded, got %d entries", h.UndoCount())
	}
}

func TestSaveAfterWithoutBefore(t *testing.T) {
	h, _ := newTestHistory(10)
	h.SaveAfter(snap("a", 0, 1))

	if h.UndoCount() != 0 {
		t.Error("SaveAfter without SaveBefore should be ignored")
	}
}

func TestCommitClearsRedo(t *testing.T) {
	h, _ := newTestHistory(10)

	h.SaveBefore(snap("a", 0, 1))
	h.SaveAfter(snap("ab", 0, 2))
	h.Undo()

	h.SaveBefore(snap("a", 0, 1))
	h.SaveAfter(snap("ax", 0, 2))

	if h.CanRedo() {
		t.Error("a new commit should clear redo")
	}
}

func TestCapacityDropsOldest(t *testing.T) {
	h, _ := newTestHistory(2)

	texts := []string{"a", "ab", "abc", "abcd"}
	for i := 0; i+1 < len(texts); i++ {
		h.SaveBefore(snap(texts[i], 0, i))
		h.SaveAfter(snap(texts[i+1], 0, i+1))
	}

	if h.UndoCount() != 2 {
		t.Fatalf("expected 2 entries, got %d", h.UndoCount())
	}

	h.Undo()
	got, _ := h.Undo()
	if got.Lines[0] != "ab" {
		t.Errorf("oldest entry should have been dropped, got %q", got.Lines[0])
	}
}

func TestSetCapacityTrims(t *testing.T) {
	h, _ := newTestHistory(10)
	for i := 0; i < 5; i++ {
		h.SaveBefore(snap("x", 0, i))
		h.SaveAfter(snap("x", 0, i+1))
	}

	h.SetCapacity(3)
	if h.UndoCount() != 3 {
		t.Errorf("expected 3 entries after trim, got %d", h.UndoCount())
	}

	h.SetCapacity(0)
	if h.Capacity() != DefaultCapacity {
		t.Errorf("non-positive capacity should reset to default, got %d", h.Capacity())
	}
}

func TestUndoFallsBackToInitial(t *testing.T) {
	h, _ := newTestHistory(10)

	if _, ok := h.Undo(); ok {
		t.Error("undo with no history should fail")
	}

	h.SaveBefore(snap("start", 0, 0))
	h.SaveAfter(snap("start!", 0, 6))
	h.Undo()

	got, ok := h.Undo()
	if !ok || !got.Equal(snap("start", 0, 0)) {
		t.Errorf("empty stack should return the initial snapshot, got %+v, %v", got, ok)
	}
}

func TestRedoEmpty(t *testing.T) {
	h, _ := newTestHistory(10)
	if _, ok := h.Redo(); ok {
		t.Error("redo with empty stack should fail")
	}
}

// Debounced Mode Tests

func TestDebouncedBurstCommitsOnce(t *testing.T) {
	h, clk := newTestHistory(10)

	h.SaveDebouncedBefore(snap("", 0, 0))
	h.SaveDebouncedAfter(snap("h", 0, 1))
	clk.Advance(50 * time.Millisecond)

	h.SaveDebouncedBefore(snap("h", 0, 1)) // ignored: burst already open
	h.SaveDebouncedAfter(snap("hi", 0, 2))
	clk.Advance(50 * time.Millisecond)

	if h.UndoCount() != 0 {
		t.Fatal("re-armed timer should not have fired yet")
	}
	if clk.Pending() != 1 {
		t.Errorf("expected exactly one live timer, got %d", clk.Pending())
	}

	clk.Advance(50 * time.Millisecond)
	if h.UndoCount() != 1 {
		t.Fatalf("expected burst to commit, got %d entries", h.UndoCount())
	}

	entry, _ := h.PeekUndo()
	if !entry.Before.Equal(snap("", 0, 0)) || !entry.After.Equal(snap("hi", 0, 2)) {
		t.Errorf("unexpected entry %+v", entry)
	}
	if h.Pending() {
		t.Error("burst should be closed after commit")
	}
}

func TestFlushCommitsImmediately(t *testing.T) {
	h, clk := newTestHistory(10)

	h.SaveDebouncedBefore(snap("", 0, 0))
	h.SaveDebouncedAfter(snap("x", 0, 1))
	h.Flush()

	if h.UndoCount() != 1 {
		t.Fatalf("Flush should commit, got %d entries", h.UndoCount())
	}

	clk.Advance(time.Second)
	if h.UndoCount() != 1 {
		t.Error("cancelled timer must not commit again")
	}
}

func TestUndoFlushesPendingBurst(t *testing.T) {
	h, _ := newTestHistory(10)

	h.SaveDebouncedBefore(snap("", 0, 0))
	h.SaveDebouncedAfter(snap("typed", 0, 5))

	if !h.CanUndo() {
		t.Error("a pending burst is undoable")
	}

	got, ok := h.Undo()
	if !ok || !got.Equal(snap("", 0, 0)) {
		t.Errorf("Undo() = %+v, %v", got, ok)
	}
	if h.RedoCount() != 1 {
		t.Errorf("expected 1 redo entry, got %d", h.RedoCount())
	}
}

func TestCanUndoIgnoresEmptyBurst(t *testing.T) {
	h, _ := newTestHistory(10)

	h.SaveDebouncedBefore(snap("", 0, 0))
	if h.CanUndo() {
		t.Error("a burst without an after state is not undoable")
	}

	h.SaveDebouncedAfter(snap("", 0, 0))
	if h.CanUndo() {
		t.Error("a burst that changed nothing is not undoable")
	}

	h.SaveDebouncedAfter(snap("x", 0, 1))
	if !h.CanUndo() {
		t.Error("a burst with a change is undoable")
	}
}

func TestImmediateInterruptsBurst(t *testing.T) {
	h, _ := newTestHistory(10)

	h.SaveDebouncedBefore(snap("", 0, 0))
	h.SaveDebouncedAfter(snap("ab", 0, 2))

	h.SaveBefore(snap("ab", 0, 2))
	h.SaveAfter(snap("", 0, 0))

	if h.UndoCount() != 2 {
		t.Errorf("expected burst and operation as separate entries, got %d", h.UndoCount())
	}
}

func TestClearCancelsBurst(t *testing.T) {
	h, clk := newTestHistory(10)

	h.SaveDebouncedBefore(snap("", 0, 0))
	h.SaveDebouncedAfter(snap("x", 0, 1))
	h.Clear()
	clk.Advance(time.Second)

	if h.UndoCount() != 0 || h.CanUndo() {
		t.Error("Clear should cancel the pending commit")
	}
	if _, ok := h.Undo(); ok {
		t.Error("Clear should forget the initial snapshot")
	}
}

func TestOnCommit(t *testing.T) {
	var entries []Entry
	clk := clock.NewManual(time.Unix(100, 0))
	h := New(10, WithClock(clk), WithOnCommit(func(e Entry) { entries = append(entries, e) }))

	h.SaveBefore(snap("a", 0, 0))
	h.SaveAfter(snap("b", 0, 0))
	h.SaveDebouncedBefore(snap("b", 0, 0))
	h.SaveDebouncedAfter(snap("bc", 0, 1))
	clk.Advance(DefaultDebounce)

	if len(entries) != 2 {
		t.Fatalf("expected 2 commits, got %d", len(entries))
	}
	if !entries[1].Timestamp.Equal(time.Unix(100, 0).Add(DefaultDebounce)) {
		t.Errorf("unexpected timestamp %v", entries[1].Timestamp)
	}
}

func TestCallerMutationDoesNotLeak(t *testing.T) {
	h, _ := newTestHistory(10)

	before := snap("a", 0, 0)
	h.SaveBefore(before)
	before.Lines[0] = "mutated"
	h.SaveAfter(snap("b", 0, 0))

	got, _ := h.Undo()
	if got.Lines[0] != "a" {
		t.Errorf("history captured caller's slice, got %q", got.Lines[0])
	}
}
