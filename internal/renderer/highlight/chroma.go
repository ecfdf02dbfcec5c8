package highlight

import (
	"errors"
	"fmt"
	"strings"

	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// ErrNoLexer is returned when chroma has no lexer for a language or file.
var ErrNoLexer = errors.New("no chroma lexer")

// ChromaTokenizer adapts a chroma lexer to the Tokenizer interface.
// Chroma lexes each line independently, so the lexer state is passed
// through unchanged.
type ChromaTokenizer struct {
	lexer chroma.Lexer
	name  string
}

// NewChromaTokenizer looks up a chroma lexer by language name or alias.
func NewChromaTokenizer(language string) (*ChromaTokenizer, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		return nil, fmt.Errorf("%w for language %q", ErrNoLexer, language)
	}
	return newChromaTokenizer(lexer), nil
}

// NewChromaTokenizerForFile looks up a chroma lexer by file name.
func NewChromaTokenizerForFile(filename string) (*ChromaTokenizer, error) {
	lexer := lexers.Match(filename)
	if lexer == nil {
		return nil, fmt.Errorf("%w for file %q", ErrNoLexer, filename)
	}
	return newChromaTokenizer(lexer), nil
}

func newChromaTokenizer(lexer chroma.Lexer) *ChromaTokenizer {
	name := "chroma"
	if cfg := lexer.Config(); cfg != nil {
		name = strings.ToLower(cfg.Name)
	}
	return &ChromaTokenizer{lexer: chroma.Coalesce(lexer), name: name}
}

// Language returns the chroma lexer name.
func (c *ChromaTokenizer) Language() string {
	return c.name
}

// TokenizeLine lexes a single line with chroma and maps token types to tags.
func (c *ChromaTokenizer) TokenizeLine(line string, state LexerState) ([]Token, LexerState, error) {
	it, err := c.lexer.Tokenise(nil, line)
	if err != nil {
		return nil, state, fmt.Errorf("chroma %s: %w", c.name, err)
	}

	tokens := make([]Token, 0, 8)
	remaining := line
	for tok := it(); tok != chroma.EOF; tok = it() {
		if tok.Value == "" {
			continue
		}
		value := tok.Value
		// Lexers configured with EnsureNL append a newline the line never had.
		if len(value) > len(remaining) || !strings.HasPrefix(remaining, value) {
			trimmed := strings.TrimSuffix(value, "\n")
			if !strings.HasPrefix(remaining, trimmed) {
				return nil, state, fmt.Errorf("chroma %s: token %q does not match source", c.name, value)
			}
			value = trimmed
		}
		if value == "" {
			continue
		}
		tokens = append(tokens, NewToken(chromaTag(tok.Type), value))
		remaining = remaining[len(value):]
	}
	if remaining != "" {
		tokens = append(tokens, NewToken(TagDefault, remaining))
	}
	return tokens, state, nil
}

// chromaTag maps a chroma token type onto the tag vocabulary.
func chromaTag(tt chroma.TokenType) Tag {
	switch {
	case tt.InCategory(chroma.Comment):
		return TagComment
	case tt.InSubCategory(chroma.LiteralString):
		return TagString
	case tt.InSubCategory(chroma.LiteralNumber):
		return TagNumber
	case tt == chroma.KeywordType:
		return TagType
	case tt == chroma.KeywordConstant:
		return TagConstant
	case tt.InCategory(chroma.Keyword):
		return TagKeyword
	case tt.InCategory(chroma.Operator):
		return TagOperator
	case tt.InCategory(chroma.Punctuation):
		return TagPunctuation
	case tt == chroma.NameFunction || tt == chroma.NameBuiltin:
		return TagFunction
	case tt == chroma.NameClass:
		return TagType
	case tt == chroma.NameDecorator:
		return TagMeta
	case tt.InCategory(chroma.Name):
		return TagIdentifier
	default:
		return TagDefault
	}
}
