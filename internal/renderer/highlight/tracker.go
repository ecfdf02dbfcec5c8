package highlight

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultRainbowDepths is the default rainbow palette size.
const DefaultRainbowDepths = 6

// errNotLossless is raised when tokens do not reproduce their line.
var errNotLossless = errors.New("tokens do not reproduce line text")

// Logger is the logging capability the tracker needs.
type Logger interface {
	Warn(msg string, args ...any)
}

// Tracker wraps a Tokenizer and assigns rainbow-bracket tags across lines.
// A Tracker holds no state between calls to Highlight.
type Tracker struct {
	tokenizer Tokenizer
	depths    int
	logger    Logger
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithRainbowDepths sets the palette size used for brace depth tags.
func WithRainbowDepths(n int) TrackerOption {
	return func(t *Tracker) {
		if n > 0 {
			t.depths = n
		}
	}
}

// WithLogger sets the logger for degraded highlighting passes.
func WithLogger(l Logger) TrackerOption {
	return func(t *Tracker) {
		t.logger = l
	}
}

// NewTracker creates a tracker around a tokenizer.
func NewTracker(tokenizer Tokenizer, opts ...TrackerOption) *Tracker {
	if tokenizer == nil {
		tokenizer = NewRuleTokenizer("plain", nil)
	}
	t := &Tracker{tokenizer: tokenizer, depths: DefaultRainbowDepths}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tokenizer returns the wrapped tokenizer.
func (t *Tracker) Tokenizer() Tokenizer {
	return t.tokenizer
}

// RainbowDepths returns the palette size.
func (t *Tracker) RainbowDepths() int {
	return t.depths
}

// braceEntry is an opener awaiting its closer.
type braceEntry struct {
	char  rune
	depth int
}

// rainbow carries bracket depth across the lines of one Highlight call.
type rainbow struct {
	depths int
	depth  int
	stack  []braceEntry
}

// SplitLines splits code on \r\n, \n and \r.
func SplitLines(code string) []string {
	code = strings.ReplaceAll(code, "\r\n", "\n")
	code = strings.ReplaceAll(code, "\r", "\n")
	return strings.Split(code, "\n")
}

// Highlight tokenizes code and returns one HighlightedLine per source line.
// If tokenization fails anywhere, every line degrades to a single default
// token.
func (t *Tracker) Highlight(code string) []HighlightedLine {
	lines := SplitLines(code)

	result, err := t.highlight(lines)
	if err != nil {
		if t.logger != nil {
			t.logger.Warn("highlight degraded to plain text: %v", err)
		}
		return Plain(lines)
	}
	return result
}

// Plain returns the untokenized form of lines.
func Plain(lines []string) []HighlightedLine {
	out := make([]HighlightedLine, len(lines))
	for i, line := range lines {
		out[i] = HighlightedLine{Tokens: []Token{NewToken(TagDefault, line)}, Text: line}
	}
	return out
}

func (t *Tracker) highlight(lines []string) (result []HighlightedLine, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("tokenizer panic: %v", r)
		}
	}()

	rb := &rainbow{depths: t.depths}
	state := LexerStateNormal
	result = make([]HighlightedLine, len(lines))

	for i, line := range lines {
		if line == "" {
			result[i] = HighlightedLine{Tokens: []Token{NewToken(TagDefault, "")}, Text: ""}
			continue
		}

		tokens, next, terr := t.tokenizer.TokenizeLine(line, state)
		if terr != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, terr)
		}
		if concat(tokens) != line {
			return nil, fmt.Errorf("line %d: %w", i+1, errNotLossless)
		}
		state = next

		tokens = splitBrackets(tokens)
		rb.assign(tokens)
		result[i] = HighlightedLine{Tokens: tokens, Text: line}
	}
	return result, nil
}

// splitBrackets isolates every bracket character outside strings and
// comments into its own punctuation token.
func splitBrackets(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Tag.isOpaque() || !strings.ContainsAny(tok.Content, "()[]{}") {
			out = append(out, tok)
			continue
		}
		if len(tok.Content) == 1 {
			out = append(out, NewToken(TagPunctuation, tok.Content))
			continue
		}
		start := 0
		for i, r := range tok.Content {
			if !isBracket(r) {
				continue
			}
			if i > start {
				out = append(out, NewToken(tok.Tag, tok.Content[start:i]))
			}
			out = append(out, NewToken(TagPunctuation, string(r)))
			start = i + 1
		}
		if start < len(tok.Content) {
			out = append(out, NewToken(tok.Tag, tok.Content[start:]))
		}
	}
	return out
}

// assign tags bracket tokens in place.
func (rb *rainbow) assign(tokens []Token) {
	for i := range tokens {
		tok := &tokens[i]
		if tok.Tag.isOpaque() || len(tok.Content) != 1 {
			continue
		}
		r := rune(tok.Content[0])
		switch {
		case isOpenBracket(r):
			rb.stack = append(rb.stack, braceEntry{char: r, depth: rb.depth})
			tok.Tag = BraceOpenTag(rb.depth % rb.depths)
			rb.depth++
		case isCloseBracket(r):
			n := len(rb.stack)
			if n == 0 || rb.stack[n-1].char != OpenerFor(r) {
				tok.Tag = TagBraceUnmatched
				continue
			}
			top := rb.stack[n-1]
			rb.stack = rb.stack[:n-1]
			tok.Tag = BraceCloseTag(top.depth % rb.depths)
			rb.depth = top.depth
		}
	}
}

func isBracket(r rune) bool {
	return isOpenBracket(r) || isCloseBracket(r)
}

func isOpenBracket(r rune) bool {
	return r == '(' || r == '[' || r == '{'
}

func isCloseBracket(r rune) bool {
	return r == ')' || r == ']' || r == '}'
}

// OpenerFor returns the opening bracket matching a closing one, or 0.
func OpenerFor(r rune) rune {
	switch r {
	case ')':
		return '('
	case ']':
		return '['
	case '}':
		return '{'
	}
	return 0
}
