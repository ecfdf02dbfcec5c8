package highlight

import (
	"testing"

	"pgregory.net/rapid"
)

type wantToken struct {
	tag     Tag
	content string
}

func assertTokens(t *testing.T, got []Token, want []wantToken) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i].Tag != want[i].tag || got[i].Content != want[i].content {
			t.Errorf("token[%d] = {%s %q}, want {%s %q}", i, got[i].Tag, got[i].Content, want[i].tag, want[i].content)
		}
	}
}

func TestNewRuleTokenizer(t *testing.T) {
	h := NewRuleTokenizer("test", []string{".test", ".tst"})

	if h.Language() != "test" {
		t.Errorf("Language() = %q, want 'test'", h.Language())
	}
	if exts := h.FileExtensions(); len(exts) != 2 {
		t.Errorf("FileExtensions() length = %d, want 2", len(exts))
	}
}

func TestRuleTokenizerRulesAndGaps(t *testing.T) {
	tokens, state, err := GoTokenizer().TokenizeLine("x := 42 // hi", LexerStateNormal)
	if err != nil {
		t.Fatalf("TokenizeLine: %v", err)
	}
	if state != LexerStateNormal {
		t.Errorf("state = %d, want normal", state)
	}
	assertTokens(t, tokens, []wantToken{
		{TagIdentifier, "x"},
		{TagDefault, " "},
		{TagOperator, ":="},
		{TagDefault, " "},
		{TagNumber, "42"},
		{TagDefault, " "},
		{TagComment, "// hi"},
	})
}

func TestRuleTokenizerKeywordsAndFunctions(t *testing.T) {
	tokens, _, err := GoTokenizer().TokenizeLine("func main() {", LexerStateNormal)
	if err != nil {
		t.Fatalf("TokenizeLine: %v", err)
	}
	assertTokens(t, tokens, []wantToken{
		{TagKeyword, "func"},
		{TagDefault, " "},
		{TagFunction, "main"},
		{TagPunctuation, "("},
		{TagPunctuation, ")"},
		{TagDefault, " "},
		{TagPunctuation, "{"},
	})
}

func TestRuleTokenizerStringHidesBrackets(t *testing.T) {
	tokens, _, err := GoTokenizer().TokenizeLine(`fmt.Println("(x)")`, LexerStateNormal)
	if err != nil {
		t.Fatalf("TokenizeLine: %v", err)
	}
	assertTokens(t, tokens, []wantToken{
		{TagIdentifier, "fmt"},
		{TagPunctuation, "."},
		{TagFunction, "Println"},
		{TagPunctuation, "("},
		{TagString, `"(x)"`},
		{TagPunctuation, ")"},
	})
}

func TestRuleTokenizerMultiLineComment(t *testing.T) {
	h := GoTokenizer()

	tokens, state, err := h.TokenizeLine("a /* start", LexerStateNormal)
	if err != nil {
		t.Fatalf("TokenizeLine: %v", err)
	}
	if state != LexerStateBlockComment {
		t.Fatalf("state = %d, want block comment", state)
	}
	assertTokens(t, tokens, []wantToken{
		{TagIdentifier, "a"},
		{TagDefault, " "},
		{TagComment, "/* start"},
	})

	tokens, state, err = h.TokenizeLine("still inside", state)
	if err != nil {
		t.Fatalf("TokenizeLine: %v", err)
	}
	if state != LexerStateBlockComment {
		t.Errorf("state = %d, want block comment", state)
	}
	assertTokens(t, tokens, []wantToken{{TagComment, "still inside"}})

	tokens, state, err = h.TokenizeLine("end */ b", state)
	if err != nil {
		t.Fatalf("TokenizeLine: %v", err)
	}
	if state != LexerStateNormal {
		t.Errorf("state = %d, want normal", state)
	}
	assertTokens(t, tokens, []wantToken{
		{TagComment, "end */"},
		{TagDefault, " "},
		{TagIdentifier, "b"},
	})
}

func TestRuleTokenizerUnknownStateResets(t *testing.T) {
	tokens, state, err := PythonTokenizer().TokenizeLine("x", LexerStateBlockComment)
	if err != nil {
		t.Fatalf("TokenizeLine: %v", err)
	}
	if state != LexerStateNormal {
		t.Errorf("state = %d, want normal", state)
	}
	assertTokens(t, tokens, []wantToken{{TagIdentifier, "x"}})
}

func TestTokenizerFor(t *testing.T) {
	tests := []struct {
		language string
		want     string
	}{
		{"go", "go"},
		{"Go", "go"},
		{"js", "javascript"},
		{"typescript", "javascript"},
		{"python", "python"},
		{"rust", "rust"},
		{"definitely-not-a-language", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.language, func(t *testing.T) {
			if got := TokenizerFor(tt.language).Language(); got != tt.want {
				t.Errorf("TokenizerFor(%q).Language() = %q, want %q", tt.language, got, tt.want)
			}
		})
	}
}

func TestTokenizerForFile(t *testing.T) {
	if got := TokenizerForFile("main.go").Language(); got != "go" {
		t.Errorf("main.go language = %q, want go", got)
	}
	if got := TokenizerForFile("app.tsx").Language(); got != "javascript" {
		t.Errorf("app.tsx language = %q, want javascript", got)
	}
	if got := TokenizerForFile("noext").Language(); got != "plain" {
		t.Errorf("noext language = %q, want plain", got)
	}
}

func TestRuleTokenizersAreLossless(t *testing.T) {
	tokenizers := []*RuleTokenizer{
		GoTokenizer(), JavaScriptTokenizer(), PythonTokenizer(), RustTokenizer(),
		NewRuleTokenizer("plain", nil),
	}
	rapid.Check(t, func(rt *rapid.T) {
		h := tokenizers[rapid.IntRange(0, len(tokenizers)-1).Draw(rt, "tokenizer")]
		line := rapid.StringMatching(`[a-z0-9 _"'/*#()\[\]{}.,;:=+<>\x60\\-]{0,40}`).Draw(rt, "line")
		state := LexerState(rapid.IntRange(0, 4).Draw(rt, "state"))

		tokens, _, err := h.TokenizeLine(line, state)
		if err != nil {
			rt.Fatalf("TokenizeLine(%q): %v", line, err)
		}
		if got := concat(tokens); got != line {
			rt.Fatalf("%s: tokens concatenate to %q, want %q", h.Language(), got, line)
		}
		for _, tok := range tokens {
			if tok.Content == "" {
				rt.Fatalf("%s: empty token in %q", h.Language(), line)
			}
		}
	})
}
