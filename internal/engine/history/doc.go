// Package history provides snapshot-based undo/redo for the editor.
//
// History records pairs of snapshots (before and after an edit) on a
// bounded undo stack. There are two ways to record:
//
// # Immediate
//
// Discrete operations are bracketed explicitly:
//
//	h.SaveBefore(snap)
//	// ... apply the edit ...
//	h.SaveAfter(snap)
//
// An entry is pushed only when the two snapshots differ.
//
// # Debounced
//
// Continuous typing is grouped into one entry per burst:
//
//	h.SaveDebouncedBefore(snap) // first call of a burst wins
//	// ... apply the keystroke ...
//	h.SaveDebouncedAfter(snap)  // re-arms the debounce timer
//
// The entry is committed once the timer fires without being re-armed, or
// earlier through Flush. Undo flushes a pending burst before popping.
//
// Any committed entry clears the redo stack. When the undo stack is full
// the oldest entry is dropped.
package history
