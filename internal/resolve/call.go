package resolve

import (
	"strings"
	"unicode/utf16"

	"github.com/dshills/codepad/internal/renderer/highlight"
)

// CallContext describes the call expression enclosing a caret.
type CallContext struct {
	FunctionName         string
	CurrentArgumentIndex int
	OpenParenPosition    Position
}

// FindCallContext returns the innermost call whose argument list contains
// the caret, or nil.
//
// Closed parenthesis pairs are considered first; the smallest one that
// contains the caret and is preceded by an identifier wins. An unclosed
// opener before the caret replaces it only when its distance to the caret
// is strictly smaller. Raw text is scanned, so this works before any
// highlighting exists.
func FindCallContext(lines []string, caretLine, caretColumn int) *CallContext {
	lengths := make([]int, len(lines))
	for i, line := range lines {
		lengths[i] = highlight.UTF16Len(line)
	}
	idx := newOffsetIndex(lengths)
	caret, ok := idx.offset(caretLine, caretColumn)
	if !ok {
		return nil
	}
	text := encode(strings.Join(lines, "\n"))

	bestOpen, bestSpan := -1, -1
	var bestName string

	var stack []int
	for i, c := range text {
		switch c {
		case '(':
			stack = append(stack, i)
		case ')':
			if len(stack) == 0 {
				continue
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if open >= caret || caret > i {
				continue
			}
			span := i - open
			if bestSpan >= 0 && span >= bestSpan {
				continue
			}
			if name := identifierBefore(text, open); name != "" {
				bestOpen, bestSpan, bestName = open, span, name
			}
		}
	}

	// Unclosed openers, nearest to the caret first.
	for i := len(stack) - 1; i >= 0; i-- {
		open := stack[i]
		if open >= caret {
			continue
		}
		span := caret - open
		if bestSpan >= 0 && span >= bestSpan {
			break
		}
		if name := identifierBefore(text, open); name != "" {
			bestOpen, bestSpan, bestName = open, span, name
			break
		}
	}

	if bestOpen < 0 {
		return nil
	}
	return &CallContext{
		FunctionName:         bestName,
		CurrentArgumentIndex: argumentIndex(text[bestOpen+1 : caret]),
		OpenParenPosition:    idx.position(bestOpen),
	}
}

// identifierBefore returns the trailing identifier of the text before pos
// after trailing whitespace is dropped. Identifiers start with a letter,
// '_' or '$' and may continue with digits and dots.
func identifierBefore(text []uint16, pos int) string {
	end := pos
	for end > 0 && isSpaceUnit(text[end-1]) {
		end--
	}
	start := end
	for start > 0 && isIdentUnit(text[start-1]) {
		start--
	}
	for start < end && !isIdentStartUnit(text[start]) {
		start++
	}
	if start == end {
		return ""
	}
	return string(utf16.Decode(text[start:end]))
}

// argumentIndex counts the top-level commas in the text between an opening
// parenthesis and the caret. Commas nested in brackets or inside string
// literals do not count.
func argumentIndex(args []uint16) int {
	var (
		depth   int
		commas  int
		quote   uint16
		escaped bool
	)
	for _, c := range args {
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				commas++
			}
		}
	}
	return commas
}

func isSpaceUnit(c uint16) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isIdentStartUnit(c uint16) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '$'
}

func isIdentUnit(c uint16) bool {
	return isIdentStartUnit(c) || (c >= '0' && c <= '9') || c == '.'
}
