package resolve

import (
	"github.com/dshills/codepad/internal/renderer/highlight"
)

// BraceRecord is a bracket token found while scanning highlighted lines.
type BraceRecord struct {
	Char       rune
	Line       int
	TokenIndex int
	Column     int

	offset int
}

// Position returns the record's line and column.
func (b BraceRecord) Position() Position {
	return Position{Line: b.Line, Column: b.Column}
}

// MatchedPair is an opening bracket and its matching closer.
type MatchedPair struct {
	Open  BraceRecord
	Close BraceRecord
}

// span is the global distance between the two brackets.
func (p MatchedPair) span() int {
	return p.Close.offset - p.Open.offset
}

// MatchBraces returns the innermost bracket pair enclosing the caret, or
// nil. The caret is inside a pair when it is strictly after the opener and
// at or before the closer. Unmatched brackets never form pairs.
func MatchBraces(lines []highlight.HighlightedLine, caretLine, caretColumn int) *MatchedPair {
	lengths := make([]int, len(lines))
	for i, line := range lines {
		lengths[i] = highlight.UTF16Len(line.Text)
	}
	idx := newOffsetIndex(lengths)
	caret, ok := idx.offset(caretLine, caretColumn)
	if !ok {
		return nil
	}

	var (
		stack []BraceRecord
		best  *MatchedPair
	)
	for li, line := range lines {
		col := 0
		for ti, tok := range line.Tokens {
			r, isBrace := braceChar(tok)
			if isBrace {
				rec := BraceRecord{Char: r, Line: li, TokenIndex: ti, Column: col, offset: idx.starts[li] + col}
				switch {
				case isOpener(r):
					stack = append(stack, rec)
				case len(stack) > 0 && stack[len(stack)-1].Char == highlight.OpenerFor(r):
					pair := MatchedPair{Open: stack[len(stack)-1], Close: rec}
					stack = stack[:len(stack)-1]
					if pair.Open.offset < caret && caret <= pair.Close.offset &&
						(best == nil || pair.span() < best.span()) {
						best = &pair
					}
				}
			}
			col += tok.Length
		}
	}
	return best
}

// braceChar returns the bracket a token holds if it was tagged as a brace.
func braceChar(tok highlight.Token) (rune, bool) {
	if !tok.Tag.IsBrace() || len(tok.Content) != 1 {
		return 0, false
	}
	r := rune(tok.Content[0])
	if !isOpener(r) && highlight.OpenerFor(r) == 0 {
		return 0, false
	}
	return r, true
}

func isOpener(r rune) bool {
	return r == '(' || r == '[' || r == '{'
}
