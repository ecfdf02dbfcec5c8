package app

import (
	"regexp"
	"strings"

	"github.com/dshills/codepad/internal/renderer/popup"
)

// declPatterns match the start of a function declaration up to and
// including its opening parenthesis. Group 1 is the name.
var declPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\s*func\s+(?:\([^)]*\)\s*)?([A-Za-z_]\w*)\s*(?:\[[^\]]*\]\s*)?\(`),
	regexp.MustCompile(`^\s*(?:async\s+)?def\s+([A-Za-z_]\w*)\s*\(`),
	regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?(?:async\s+)?(?:unsafe\s+)?fn\s+([A-Za-z_]\w*)\s*(?:<[^>]*>\s*)?\(`),
	regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*([A-Za-z_$][\w$]*)\s*\(`),
}

// commentPrefixes mark doc comment lines directly above a declaration.
var commentPrefixes = []string{"///", "//", "#"}

// ScanSignatures finds function declarations in source lines. Only
// parameter lists that close on the declaring line are recognised. The
// comment block directly above a declaration becomes its doc. When a name
// is declared twice the first declaration wins.
func ScanSignatures(lines []string) map[string]popup.SignatureInfo {
	sigs := make(map[string]popup.SignatureInfo)
	for i, line := range lines {
		info, ok := parseDecl(line)
		if !ok {
			continue
		}
		if _, dup := sigs[info.Name]; dup {
			continue
		}
		info.Doc = docAbove(lines, i)
		sigs[info.Name] = info
	}
	return sigs
}

// SignaturesLookup returns a lookup over a fixed signature table.
func SignaturesLookup(sigs map[string]popup.SignatureInfo) popup.SignatureLookup {
	return func(name string) (popup.SignatureInfo, bool) {
		info, ok := sigs[name]
		return info, ok
	}
}

func parseDecl(line string) (popup.SignatureInfo, bool) {
	for _, re := range declPatterns {
		m := re.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		name := line[m[2]:m[3]]
		open := m[1] - 1
		closeIdx := matchingParen(line, open)
		if closeIdx < 0 {
			return popup.SignatureInfo{}, false
		}
		return popup.SignatureInfo{
			Name:   name,
			Params: splitParams(line[open+1 : closeIdx]),
			Result: resultText(line[closeIdx+1:]),
		}, true
	}
	return popup.SignatureInfo{}, false
}

// matchingParen returns the index of the parenthesis closing the one at
// open, or -1.
func matchingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitParams splits a parameter list on top-level commas.
func splitParams(s string) []string {
	var (
		params []string
		depth  int
		start  int
	)
	add := func(p string) {
		if p = strings.TrimSpace(p); p != "" {
			params = append(params, p)
		}
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}', '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				add(s[start:i])
				start = i + 1
			}
		}
	}
	add(s[start:])
	return params
}

// resultText extracts a return type from the text after a parameter list.
func resultText(tail string) string {
	tail = strings.TrimSpace(tail)
	tail = strings.TrimSuffix(tail, "{}")
	tail = strings.TrimSuffix(strings.TrimSpace(tail), "{")
	tail = strings.TrimSuffix(strings.TrimSpace(tail), ":")
	tail = strings.TrimSpace(tail)
	if idx := strings.Index(tail, " where "); idx >= 0 {
		tail = tail[:idx]
	}
	tail = strings.TrimPrefix(tail, "->")
	tail = strings.TrimPrefix(tail, ":")
	return strings.TrimSpace(tail)
}

// docAbove joins the comment lines directly above line i.
func docAbove(lines []string, i int) string {
	var doc []string
	for j := i - 1; j >= 0; j-- {
		text, ok := commentText(lines[j])
		if !ok {
			break
		}
		doc = append([]string{text}, doc...)
	}
	return strings.Join(doc, " ")
}

func commentText(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	for _, prefix := range commentPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, prefix)), true
		}
	}
	return "", false
}
