package app

import (
	"sort"
	"unicode"

	"github.com/dshills/codepad/internal/renderer/highlight"
	"github.com/dshills/codepad/internal/renderer/popup"
	"github.com/dshills/codepad/internal/resolve"
)

// WordPrefix returns the identifier fragment ending at the caret.
func (a *Application) WordPrefix() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.wordPrefixLocked()
}

func (a *Application) wordPrefixLocked() string {
	runes := []rune(a.lines[a.caret.Line])
	end := resolve.UTF16ToRune(a.lines[a.caret.Line], a.caret.Column)
	start := end
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	return string(runes[start:end])
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// WordCompletions offers the document's identifiers that extend the word
// before the caret, sorted, at most limit of them. Keywords and the prefix
// itself are not offered.
func (a *Application) WordCompletions(limit int) []popup.CompletionItem {
	a.mu.Lock()
	defer a.mu.Unlock()

	prefix := a.wordPrefixLocked()
	kinds := make(map[string]highlight.Tag)
	for _, line := range a.highlightedLocked() {
		for _, tok := range line.Tokens {
			switch tok.Tag {
			case highlight.TagIdentifier, highlight.TagFunction, highlight.TagType, highlight.TagConstant:
			default:
				continue
			}
			if tok.Content == prefix || len(tok.Content) < len(prefix) || tok.Content[:len(prefix)] != prefix {
				continue
			}
			if _, seen := kinds[tok.Content]; !seen || tok.Tag != highlight.TagIdentifier {
				kinds[tok.Content] = tok.Tag
			}
		}
	}

	words := make([]string, 0, len(kinds))
	for w := range kinds {
		words = append(words, w)
	}
	sort.Strings(words)
	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}

	items := make([]popup.CompletionItem, len(words))
	for i, w := range words {
		items[i] = popup.CompletionItem{Label: w, Detail: string(kinds[w])}
	}
	return items
}
