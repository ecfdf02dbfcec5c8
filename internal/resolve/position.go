// Package resolve maps caret positions to structural context: the bracket
// pair enclosing the caret and the call expression the caret sits in.
//
// Columns are UTF-16 code-unit offsets into a line's raw text. All queries
// are pure and return nil when there is no result.
package resolve

import (
	"unicode/utf16"
)

// Position is a zero-based line and UTF-16 column.
type Position struct {
	Line   int
	Column int
}

// Before reports whether p comes before other.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

// Compare returns -1 if p < other, 0 if equal, 1 if p > other.
func (p Position) Compare(other Position) int {
	switch {
	case p.Before(other):
		return -1
	case other.Before(p):
		return 1
	}
	return 0
}

// offsetIndex converts between positions and global offsets in text made of
// lines joined by single newlines.
type offsetIndex struct {
	starts  []int
	lengths []int
}

func newOffsetIndex(lineLengths []int) offsetIndex {
	idx := offsetIndex{
		starts:  make([]int, len(lineLengths)),
		lengths: lineLengths,
	}
	off := 0
	for i, n := range lineLengths {
		idx.starts[i] = off
		off += n + 1
	}
	return idx
}

// offset returns the global offset of a position, or false if the position
// lies outside the text.
func (idx offsetIndex) offset(line, column int) (int, bool) {
	if line < 0 || line >= len(idx.starts) || column < 0 || column > idx.lengths[line] {
		return 0, false
	}
	return idx.starts[line] + column, true
}

// position converts a global offset back to a line and column.
func (idx offsetIndex) position(offset int) Position {
	lo, hi := 0, len(idx.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if idx.starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return Position{Line: lo, Column: offset - idx.starts[lo]}
}

// RuneToUTF16 converts a rune offset within s to a UTF-16 offset.
func RuneToUTF16(s string, runeOff int) int {
	if runeOff <= 0 {
		return 0
	}
	n, count := 0, 0
	for _, r := range s {
		if count >= runeOff {
			break
		}
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
		count++
	}
	return n
}

// UTF16ToRune converts a UTF-16 offset within s to a rune offset. An offset
// that falls inside a surrogate pair resolves to the rune that starts it.
func UTF16ToRune(s string, utf16Off int) int {
	if utf16Off <= 0 {
		return 0
	}
	n, runes := 0, 0
	for _, r := range s {
		width := 1
		if r >= 0x10000 {
			width = 2
		}
		if n+width > utf16Off {
			break
		}
		n += width
		runes++
	}
	return runes
}

// encode returns the UTF-16 code units of s.
func encode(s string) []uint16 {
	return utf16.Encode([]rune(s))
}
