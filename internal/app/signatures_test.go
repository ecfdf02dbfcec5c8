package app

import (
	"reflect"
	"testing"

	"github.com/dshills/codepad/internal/renderer/popup"
)

func TestScanSignatures(t *testing.T) {
	tests := []struct {
		name string
		line string
		want popup.SignatureInfo
	}{
		{
			name: "go function",
			line: "func add(a int, b int) int {",
			want: popup.SignatureInfo{Name: "add", Params: []string{"a int", "b int"}, Result: "int"},
		},
		{
			name: "go method with multiple results",
			line: "func (s *Server) Serve(ctx context.Context, fn func(int) error) (int, error) {",
			want: popup.SignatureInfo{Name: "Serve", Params: []string{"ctx context.Context", "fn func(int) error"}, Result: "(int, error)"},
		},
		{
			name: "go generic",
			line: "func Map[T any](xs []T, f func(T) T) []T {",
			want: popup.SignatureInfo{Name: "Map", Params: []string{"xs []T", "f func(T) T"}, Result: "[]T"},
		},
		{
			name: "python",
			line: "    def area(self, w, h=2) -> float:",
			want: popup.SignatureInfo{Name: "area", Params: []string{"self", "w", "h=2"}, Result: "float"},
		},
		{
			name: "python no result",
			line: "async def fetch(url):",
			want: popup.SignatureInfo{Name: "fetch", Params: []string{"url"}},
		},
		{
			name: "rust",
			line: "pub fn parse<T>(input: &str, map: HashMap<K, V>) -> Result<T, Error> {",
			want: popup.SignatureInfo{Name: "parse", Params: []string{"input: &str", "map: HashMap<K, V>"}, Result: "Result<T, Error>"},
		},
		{
			name: "rust where clause",
			line: "fn run<F>(f: F) -> u32 where F: Fn() {",
			want: popup.SignatureInfo{Name: "run", Params: []string{"f: F"}, Result: "u32"},
		},
		{
			name: "javascript",
			line: "export async function load(path, opts = {}) {",
			want: popup.SignatureInfo{Name: "load", Params: []string{"path", "opts = {}"}},
		},
		{
			name: "typescript result",
			line: "function greet(name: string): string {",
			want: popup.SignatureInfo{Name: "greet", Params: []string{"name: string"}, Result: "string"},
		},
		{
			name: "no params",
			line: "func main() {",
			want: popup.SignatureInfo{Name: "main"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sigs := ScanSignatures([]string{tt.line})
			got, ok := sigs[tt.want.Name]
			if !ok {
				t.Fatalf("no signature for %q in %v", tt.want.Name, sigs)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestScanSignatures_Rejects(t *testing.T) {
	lines := []string{
		"x := add(1, 2)",
		"func broken(a int,",
		"// func commented(a int)",
		"define(x)",
	}
	if sigs := ScanSignatures(lines); len(sigs) != 0 {
		t.Errorf("expected no signatures, got %v", sigs)
	}
}

func TestScanSignatures_Doc(t *testing.T) {
	lines := []string{
		"package x",
		"",
		"// Open opens a file.",
		"// It never blocks.",
		"func Open(path string) error {",
		"}",
		"# helper",
		"def helper():",
		"/// Doc for rust.",
		"fn r() {}",
		"func Bare() {}",
	}
	sigs := ScanSignatures(lines)

	tests := map[string]string{
		"Open":   "Open opens a file. It never blocks.",
		"helper": "helper",
		"r":      "Doc for rust.",
		"Bare":   "",
	}
	for name, doc := range tests {
		if got := sigs[name].Doc; got != doc {
			t.Errorf("%s doc = %q, want %q", name, got, doc)
		}
	}
}

func TestScanSignatures_FirstDeclarationWins(t *testing.T) {
	sigs := ScanSignatures([]string{
		"func f(a int) {}",
		"func f(b string) {}",
	})
	if got := sigs["f"].Params; !reflect.DeepEqual(got, []string{"a int"}) {
		t.Errorf("params = %v", got)
	}
}

func TestSignaturesLookup(t *testing.T) {
	lookup := SignaturesLookup(map[string]popup.SignatureInfo{"f": {Name: "f"}})

	if _, ok := lookup("f"); !ok {
		t.Error("expected f to resolve")
	}
	if _, ok := lookup("g"); ok {
		t.Error("expected g to be unknown")
	}
}
