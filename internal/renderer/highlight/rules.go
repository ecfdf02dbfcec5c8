package highlight

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenizer turns one line of source into a lossless token segmentation.
type Tokenizer interface {
	// TokenizeLine tokenizes a single line.
	// state is the lexer state at the end of the previous line (for
	// multi-line constructs). Returns the tokens and the state at the end
	// of the line.
	TokenizeLine(line string, state LexerState) ([]Token, LexerState, error)

	// Language returns the language this tokenizer supports.
	Language() string
}

// Rule defines a single-line highlighting rule.
type Rule struct {
	// Pattern is the regex pattern to match.
	Pattern *regexp.Regexp

	// Tag is assigned to matches.
	Tag Tag
}

// multiLineRule defines rules for constructs that may span lines.
type multiLineRule struct {
	start string
	end   string
	tag   Tag
	state LexerState
}

// RuleTokenizer is a regex and keyword based tokenizer.
// Text not claimed by a rule is split into identifiers, whitespace,
// operators and punctuation so the output always covers the whole line.
type RuleTokenizer struct {
	language   string
	extensions []string
	rules      []Rule
	keywords   map[string]Tag
	multiLine  []multiLineRule
}

// NewRuleTokenizer creates an empty rule tokenizer.
func NewRuleTokenizer(language string, extensions []string) *RuleTokenizer {
	return &RuleTokenizer{
		language:   language,
		extensions: extensions,
		keywords:   make(map[string]Tag),
	}
}

// AddRule adds a highlighting rule. Earlier rules win ties.
func (h *RuleTokenizer) AddRule(pattern string, tag Tag) *RuleTokenizer {
	h.rules = append(h.rules, Rule{Pattern: regexp.MustCompile(pattern), Tag: tag})
	return h
}

// AddKeywords assigns a tag to a set of words.
func (h *RuleTokenizer) AddKeywords(tag Tag, keywords ...string) *RuleTokenizer {
	for _, kw := range keywords {
		h.keywords[kw] = tag
	}
	return h
}

// AddMultiLine adds a construct delimited by start and end that may span lines.
func (h *RuleTokenizer) AddMultiLine(start, end string, tag Tag, state LexerState) *RuleTokenizer {
	h.multiLine = append(h.multiLine, multiLineRule{start: start, end: end, tag: tag, state: state})
	return h
}

// Language returns the language name.
func (h *RuleTokenizer) Language() string {
	return h.language
}

// FileExtensions returns the supported file extensions.
func (h *RuleTokenizer) FileExtensions() []string {
	return h.extensions
}

type span struct {
	start, end int
	tag        Tag
}

// TokenizeLine tokenizes a single line.
func (h *RuleTokenizer) TokenizeLine(line string, state LexerState) ([]Token, LexerState, error) {
	if line == "" {
		return nil, state, nil
	}

	var spans []span
	pos := 0

	// Continuation of a multi-line construct
	if state != LexerStateNormal {
		rule, ok := h.ruleForState(state)
		if !ok {
			state = LexerStateNormal
		} else {
			idx := strings.Index(line, rule.end)
			if idx < 0 {
				return []Token{NewToken(rule.tag, line)}, state, nil
			}
			pos = idx + len(rule.end)
			spans = append(spans, span{0, pos, rule.tag})
			state = LexerStateNormal
		}
	}

	rest, endState := h.scan(line, pos)
	spans = append(spans, rest...)
	return h.fill(line, spans), endState, nil
}

// scan finds rule matches left to right starting at pos.
func (h *RuleTokenizer) scan(line string, pos int) ([]span, LexerState) {
	matches := make([][][]int, len(h.rules))
	cursor := make([]int, len(h.rules))
	for i, rule := range h.rules {
		matches[i] = rule.Pattern.FindAllStringIndex(line, -1)
	}

	var spans []span
	for pos < len(line) {
		bestStart, bestEnd := -1, -1
		var bestTag Tag
		var bestML *multiLineRule

		for i := range h.multiLine {
			ml := &h.multiLine[i]
			idx := strings.Index(line[pos:], ml.start)
			if idx < 0 {
				continue
			}
			if bestStart < 0 || pos+idx < bestStart {
				bestStart = pos + idx
				bestML = ml
			}
		}

		for i, rule := range h.rules {
			for cursor[i] < len(matches[i]) && matches[i][cursor[i]][0] < pos {
				cursor[i]++
			}
			if cursor[i] >= len(matches[i]) {
				continue
			}
			m := matches[i][cursor[i]]
			if m[1] <= m[0] {
				continue
			}
			if bestStart < 0 || m[0] < bestStart {
				bestStart, bestEnd, bestTag = m[0], m[1], rule.Tag
				bestML = nil
			}
		}

		if bestStart < 0 {
			break
		}

		if bestML != nil {
			bodyStart := bestStart + len(bestML.start)
			idx := strings.Index(line[bodyStart:], bestML.end)
			if idx < 0 {
				spans = append(spans, span{bestStart, len(line), bestML.tag})
				return spans, bestML.state
			}
			end := bodyStart + idx + len(bestML.end)
			spans = append(spans, span{bestStart, end, bestML.tag})
			pos = end
			continue
		}

		spans = append(spans, span{bestStart, bestEnd, bestTag})
		pos = bestEnd
	}

	return spans, LexerStateNormal
}

// fill converts sorted, non-overlapping spans into a full segmentation.
func (h *RuleTokenizer) fill(line string, spans []span) []Token {
	tokens := make([]Token, 0, len(spans)*2+1)
	pos := 0
	for _, sp := range spans {
		if sp.start > pos {
			tokens = h.appendGap(tokens, line, pos, sp.start)
		}
		tokens = append(tokens, NewToken(sp.tag, line[sp.start:sp.end]))
		pos = sp.end
	}
	if pos < len(line) {
		tokens = h.appendGap(tokens, line, pos, len(line))
	}
	return tokens
}

// appendGap classifies text no rule claimed.
func (h *RuleTokenizer) appendGap(tokens []Token, line string, start, end int) []Token {
	i := start
	for i < end {
		r, size := utf8.DecodeRuneInString(line[i:])
		j := i + size

		switch {
		case isIdentStart(r):
			for j < end {
				r2, s2 := utf8.DecodeRuneInString(line[j:])
				if !isIdentPart(r2) {
					break
				}
				j += s2
			}
			word := line[i:j]
			tag := TagIdentifier
			if kw, ok := h.keywords[word]; ok {
				tag = kw
			} else if nextNonSpace(line, j) == '(' {
				tag = TagFunction
			}
			tokens = append(tokens, NewToken(tag, word))

		case unicode.IsDigit(r):
			for j < end {
				r2, s2 := utf8.DecodeRuneInString(line[j:])
				if !unicode.IsDigit(r2) && r2 != '.' && r2 != '_' {
					break
				}
				j += s2
			}
			tokens = append(tokens, NewToken(TagNumber, line[i:j]))

		case unicode.IsSpace(r):
			for j < end {
				r2, s2 := utf8.DecodeRuneInString(line[j:])
				if !unicode.IsSpace(r2) {
					break
				}
				j += s2
			}
			tokens = append(tokens, NewToken(TagDefault, line[i:j]))

		case isOperator(r):
			for j < end {
				r2, s2 := utf8.DecodeRuneInString(line[j:])
				if !isOperator(r2) {
					break
				}
				j += s2
			}
			tokens = append(tokens, NewToken(TagOperator, line[i:j]))

		case isPunctuation(r):
			tokens = append(tokens, NewToken(TagPunctuation, line[i:j]))

		default:
			tokens = append(tokens, NewToken(TagDefault, line[i:j]))
		}
		i = j
	}
	return tokens
}

func (h *RuleTokenizer) ruleForState(state LexerState) (multiLineRule, bool) {
	for _, rule := range h.multiLine {
		if rule.state == state {
			return rule, true
		}
	}
	return multiLineRule{}, false
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '$'
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func isOperator(r rune) bool {
	return strings.ContainsRune("+-*/%=<>!&|^~?:", r)
}

func isPunctuation(r rune) bool {
	return strings.ContainsRune("()[]{},;.@#", r)
}

func nextNonSpace(line string, i int) rune {
	for _, r := range line[i:] {
		if r != ' ' && r != '\t' {
			return r
		}
	}
	return 0
}

// GoTokenizer returns a tokenizer for Go.
func GoTokenizer() *RuleTokenizer {
	h := NewRuleTokenizer("go", []string{".go"})

	h.AddMultiLine("/*", "*/", TagComment, LexerStateBlockComment)
	h.AddMultiLine("`", "`", TagString, LexerStateStringBacktick)

	h.AddRule(`//.*$`, TagComment)
	h.AddRule(`"(?:[^"\\]|\\.)*"`, TagString)
	h.AddRule(`'(?:[^'\\]|\\.)+'`, TagString)
	h.AddRule(`\b0[xX][0-9a-fA-F_]+\b`, TagNumber)
	h.AddRule(`\b0[oO][0-7_]+\b`, TagNumber)
	h.AddRule(`\b0[bB][01_]+\b`, TagNumber)
	h.AddRule(`\b\d+\.?\d*(?:[eE][+-]?\d+)?\b`, TagNumber)

	h.AddKeywords(TagKeyword,
		"if", "else", "for", "range", "switch", "case", "default",
		"break", "continue", "return", "goto", "fallthrough", "select",
		"func", "var", "const", "type", "struct", "interface", "map", "chan",
		"package", "import", "defer", "go")
	h.AddKeywords(TagConstant, "true", "false", "nil", "iota")
	h.AddKeywords(TagType,
		"int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
		"float32", "float64", "complex64", "complex128",
		"bool", "byte", "rune", "string", "error", "any")

	return h
}

// JavaScriptTokenizer returns a tokenizer for JavaScript/TypeScript.
func JavaScriptTokenizer() *RuleTokenizer {
	h := NewRuleTokenizer("javascript", []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"})

	h.AddMultiLine("/*", "*/", TagComment, LexerStateBlockComment)
	h.AddMultiLine("`", "`", TagString, LexerStateStringBacktick)

	h.AddRule(`//.*$`, TagComment)
	h.AddRule(`"(?:[^"\\]|\\.)*"`, TagString)
	h.AddRule(`'(?:[^'\\]|\\.)*'`, TagString)
	h.AddRule(`\b0[xX][0-9a-fA-F]+\b`, TagNumber)
	h.AddRule(`\b0[oO][0-7]+\b`, TagNumber)
	h.AddRule(`\b0[bB][01]+\b`, TagNumber)
	h.AddRule(`\b\d+\.?\d*(?:[eE][+-]?\d+)?\b`, TagNumber)

	h.AddKeywords(TagKeyword,
		"if", "else", "for", "while", "do", "switch", "case", "default",
		"break", "continue", "return", "throw", "try", "catch", "finally",
		"function", "var", "let", "const", "class", "extends", "async", "await",
		"type", "interface", "enum", "namespace", "module", "declare",
		"import", "export", "from", "as", "new", "delete",
		"typeof", "instanceof", "in", "of", "this", "super", "static",
		"get", "set", "yield", "debugger", "with",
		"public", "private", "protected", "readonly", "abstract", "override")
	h.AddKeywords(TagConstant, "true", "false", "null", "undefined", "NaN", "Infinity")

	return h
}

// PythonTokenizer returns a tokenizer for Python.
func PythonTokenizer() *RuleTokenizer {
	h := NewRuleTokenizer("python", []string{".py", ".pyw", ".pyi"})

	h.AddMultiLine(`"""`, `"""`, TagString, LexerStateStringDouble)
	h.AddMultiLine(`'''`, `'''`, TagString, LexerStateStringSingle)

	h.AddRule(`#.*$`, TagComment)
	h.AddRule(`"(?:[^"\\]|\\.)*"`, TagString)
	h.AddRule(`'(?:[^'\\]|\\.)*'`, TagString)
	h.AddRule(`\b0[xX][0-9a-fA-F]+\b`, TagNumber)
	h.AddRule(`\b\d+\.?\d*(?:[eE][+-]?\d+)?j?\b`, TagNumber)
	h.AddRule(`@\w+`, TagMeta)

	h.AddKeywords(TagKeyword,
		"if", "elif", "else", "for", "while", "break", "continue",
		"return", "try", "except", "finally", "raise", "with", "as",
		"match", "case", "def", "class", "lambda", "async", "await",
		"import", "from", "global", "nonlocal", "pass", "yield",
		"assert", "del", "in", "is", "not", "and", "or")
	h.AddKeywords(TagConstant, "True", "False", "None")
	h.AddKeywords(TagType,
		"int", "float", "str", "bool", "list", "dict", "set", "tuple",
		"bytes", "bytearray", "complex", "frozenset", "object")

	return h
}

// RustTokenizer returns a tokenizer for Rust.
func RustTokenizer() *RuleTokenizer {
	h := NewRuleTokenizer("rust", []string{".rs"})

	h.AddMultiLine("/*", "*/", TagComment, LexerStateBlockComment)

	h.AddRule(`//.*$`, TagComment)
	h.AddRule(`"(?:[^"\\]|\\.)*"`, TagString)
	h.AddRule(`'(?:[^'\\]|\\.)'`, TagString)
	h.AddRule(`\b0[xX][0-9a-fA-F_]+\b`, TagNumber)
	h.AddRule(`\b\d[\d_]*\.?[\d_]*(?:[eE][+-]?[\d_]+)?(?:f32|f64|i\d+|u\d+|isize|usize)?\b`, TagNumber)
	h.AddRule(`#!?\[.*?\]`, TagMeta)

	h.AddKeywords(TagKeyword,
		"if", "else", "match", "for", "while", "loop", "break", "continue",
		"return", "yield", "fn", "let", "mut", "const", "static", "struct",
		"enum", "trait", "impl", "type", "mod", "use", "crate", "super",
		"self", "Self", "pub", "where", "as", "async", "await", "dyn",
		"move", "ref", "unsafe", "extern")
	h.AddKeywords(TagConstant, "true", "false", "None", "Some", "Ok", "Err")
	h.AddKeywords(TagType,
		"i8", "i16", "i32", "i64", "i128", "isize",
		"u8", "u16", "u32", "u64", "u128", "usize",
		"f32", "f64", "bool", "char", "str", "String",
		"Vec", "Box", "Option", "Result")

	return h
}

// builtinTokenizers lists the rule tokenizers by language name.
var builtinTokenizers = map[string]func() *RuleTokenizer{
	"go":         GoTokenizer,
	"javascript": JavaScriptTokenizer,
	"typescript": JavaScriptTokenizer,
	"python":     PythonTokenizer,
	"rust":       RustTokenizer,
}

// TokenizerFor returns the built-in rule tokenizer for a language, falling
// back to a chroma lexer, and finally to a plain tokenizer that only
// separates identifiers, operators and punctuation.
func TokenizerFor(language string) Tokenizer {
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "js" || lang == "ts" {
		lang = "javascript"
	}
	if ctor, ok := builtinTokenizers[lang]; ok {
		return ctor()
	}
	if ct, err := NewChromaTokenizer(lang); err == nil {
		return ct
	}
	return NewRuleTokenizer("plain", nil)
}

// TokenizerForFile picks a tokenizer from a file name's extension.
func TokenizerForFile(filename string) Tokenizer {
	for _, ctor := range builtinTokenizers {
		h := ctor()
		for _, ext := range h.extensions {
			if strings.HasSuffix(filename, ext) {
				return h
			}
		}
	}
	if ct, err := NewChromaTokenizerForFile(filename); err == nil {
		return ct
	}
	return NewRuleTokenizer("plain", nil)
}
