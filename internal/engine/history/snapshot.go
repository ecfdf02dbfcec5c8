package history

import (
	"slices"
	"strings"
)

// Position is a line and UTF-16 column.
type Position struct {
	Line   int
	Column int
}

// Caret is the caret state of a snapshot. ColumnIntent is the column the
// caret tries to return to when moving vertically.
type Caret struct {
	Line         int
	Column       int
	ColumnIntent int
}

// Selection is an anchored selection range.
type Selection struct {
	Start Position
	End   Position
}

// Snapshot is the editor state captured around an edit.
type Snapshot struct {
	Lines     []string
	Caret     *Caret
	Selection *Selection
}

// Equal reports whether two snapshots have the same text, caret and
// selection.
func (s Snapshot) Equal(other Snapshot) bool {
	if !slices.Equal(s.Lines, other.Lines) {
		return false
	}
	if (s.Caret == nil) != (other.Caret == nil) {
		return false
	}
	if s.Caret != nil && *s.Caret != *other.Caret {
		return false
	}
	if (s.Selection == nil) != (other.Selection == nil) {
		return false
	}
	if s.Selection != nil && *s.Selection != *other.Selection {
		return false
	}
	return true
}

// Clone returns a deep copy, so later changes to the caller's slices do
// not leak into recorded history.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{Lines: slices.Clone(s.Lines)}
	if s.Caret != nil {
		c := *s.Caret
		out.Caret = &c
	}
	if s.Selection != nil {
		sel := *s.Selection
		out.Selection = &sel
	}
	return out
}

// Text joins the snapshot lines with newlines.
func (s Snapshot) Text() string {
	return strings.Join(s.Lines, "\n")
}
