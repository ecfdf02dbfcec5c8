// Package highlight tokenizes source lines and tracks bracket structure for
// rainbow colorization and brace matching.
package highlight

import (
	"strconv"
	"strings"
	"unicode/utf16"
)

// Tag is the semantic classification of a token.
// The vocabulary is open: tokenizers may emit tags not listed here and
// themes fall back to the default color for them.
type Tag string

// Built-in tags.
const (
	TagDefault     Tag = "default"
	TagKeyword     Tag = "keyword"
	TagString      Tag = "string"
	TagNumber      Tag = "number"
	TagComment     Tag = "comment"
	TagOperator    Tag = "operator"
	TagPunctuation Tag = "punctuation"
	TagIdentifier  Tag = "identifier"
	TagFunction    Tag = "function"
	TagType        Tag = "type"
	TagConstant    Tag = "constant"
	TagMeta        Tag = "meta"

	// TagBraceUnmatched marks a closing bracket with no matching opener.
	TagBraceUnmatched Tag = "brace-unmatched"
)

const (
	braceOpenPrefix  = "brace-open-"
	braceClosePrefix = "brace-close-"
)

// BraceOpenTag returns the rainbow tag for an opening bracket at depth.
func BraceOpenTag(depth int) Tag {
	return Tag(braceOpenPrefix + strconv.Itoa(depth))
}

// BraceCloseTag returns the rainbow tag for a closing bracket at depth.
func BraceCloseTag(depth int) Tag {
	return Tag(braceClosePrefix + strconv.Itoa(depth))
}

// IsBrace reports whether the tag was assigned by the rainbow pass.
func (t Tag) IsBrace() bool {
	return t == TagBraceUnmatched ||
		strings.HasPrefix(string(t), braceOpenPrefix) ||
		strings.HasPrefix(string(t), braceClosePrefix)
}

// BraceDepth returns the rainbow depth encoded in a brace tag.
func (t Tag) BraceDepth() (int, bool) {
	s := string(t)
	switch {
	case strings.HasPrefix(s, braceOpenPrefix):
		s = s[len(braceOpenPrefix):]
	case strings.HasPrefix(s, braceClosePrefix):
		s = s[len(braceClosePrefix):]
	default:
		return 0, false
	}
	d, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return d, true
}

// isOpaque reports whether brackets inside tokens of this tag are literal text.
func (t Tag) isOpaque() bool {
	return t == TagString || t == TagComment
}

// Token is a classified contiguous run of text within one line.
type Token struct {
	Tag     Tag
	Content string
	// Length is the UTF-16 length of Content, kept for column arithmetic.
	Length int
}

// NewToken creates a token and computes its length.
func NewToken(tag Tag, content string) Token {
	return Token{Tag: tag, Content: content, Length: UTF16Len(content)}
}

// HighlightedLine is the token segmentation of one source line.
// The contents of Tokens concatenate to Text.
type HighlightedLine struct {
	Tokens []Token
	Text   string
}

// Length returns the UTF-16 length of the line.
func (l HighlightedLine) Length() int {
	n := 0
	for _, tok := range l.Tokens {
		n += tok.Length
	}
	return n
}

// TokenAt returns the index of the token covering the UTF-16 column, or -1.
func (l HighlightedLine) TokenAt(col int) int {
	pos := 0
	for i, tok := range l.Tokens {
		if col >= pos && col < pos+tok.Length {
			return i
		}
		pos += tok.Length
	}
	return -1
}

// LexerState represents the lexer's state for continuation across lines.
type LexerState uint32

// Common lexer states.
const (
	LexerStateNormal LexerState = iota
	LexerStateBlockComment
	LexerStateStringDouble
	LexerStateStringSingle
	LexerStateStringBacktick
)

// UTF16Len returns the number of UTF-16 code units needed to encode s.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

// concat joins token contents.
func concat(tokens []Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteString(tok.Content)
	}
	return sb.String()
}
