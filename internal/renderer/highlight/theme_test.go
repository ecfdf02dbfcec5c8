package highlight

import (
	"testing"

	"github.com/dshills/codepad/internal/renderer/core"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	if theme.Name != "Default Dark" {
		t.Errorf("DefaultTheme().Name = %q, want %q", theme.Name, "Default Dark")
	}
	if theme.Background.IsDefault() {
		t.Error("DefaultTheme().Background should not be default")
	}
	if len(theme.Rainbow) != DefaultRainbowDepths {
		t.Errorf("len(Rainbow) = %d, want %d", len(theme.Rainbow), DefaultRainbowDepths)
	}
	for _, kind := range []string{PopupSignature, PopupCompletion, PopupDiagnostic} {
		if _, ok := theme.Popups[kind]; !ok {
			t.Errorf("DefaultTheme() missing popup colors for %q", kind)
		}
	}
}

func TestThemeStyleForTag(t *testing.T) {
	theme := DefaultTheme()

	tests := []struct {
		tag  Tag
		want core.Color
	}{
		{TagKeyword, theme.Keyword},
		{TagString, theme.String},
		{TagComment, theme.Comment},
		{TagFunction, theme.Function},
		{TagBraceUnmatched, theme.Unmatched},
		{BraceOpenTag(1), theme.Rainbow[1]},
		{BraceCloseTag(7), theme.Rainbow[7%len(theme.Rainbow)]},
		{Tag("custom-tag"), theme.Default},
	}

	for _, tt := range tests {
		t.Run(string(tt.tag), func(t *testing.T) {
			got := theme.StyleForTag(tt.tag)
			if !got.Foreground.Equals(tt.want) {
				t.Errorf("StyleForTag(%s).Foreground = %v, want %v", tt.tag, got.Foreground, tt.want)
			}
		})
	}

	if !theme.StyleForTag(TagKeyword).Attributes.Has(core.AttrBold) {
		t.Error("keywords should be bold")
	}
	if !theme.StyleForTag(TagBraceUnmatched).Attributes.Has(core.AttrUnderline) {
		t.Error("unmatched braces should be underlined")
	}
}

func TestThemePopupColorsFallback(t *testing.T) {
	theme := LightTheme()

	got := theme.PopupColorsFor("hover")
	want := theme.Popups[PopupSignature]
	if got != want {
		t.Errorf("PopupColorsFor(unknown) = %+v, want signature colors %+v", got, want)
	}
}

func TestThemeSetColor(t *testing.T) {
	theme := DefaultTheme().Clone()

	tests := []struct {
		key     string
		hex     string
		wantErr bool
	}{
		{"keyword", "#ff0000", false},
		{"rainbow.8", "#00ff00", false},
		{"popup.completion.selected", "#0000ff", false},
		{"popup.hover.border", "#123456", false},
		{"popup.completion.shadow", "#000000", true},
		{"rainbow.x", "#000000", true},
		{"bogus", "#000000", true},
		{"keyword", "not-a-color", true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := theme.SetColor(tt.key, tt.hex)
			if (err != nil) != tt.wantErr {
				t.Errorf("SetColor(%q, %q) error = %v, wantErr %v", tt.key, tt.hex, err, tt.wantErr)
			}
		})
	}

	if !theme.Keyword.Equals(core.MustHex("#ff0000")) {
		t.Errorf("Keyword = %v after override", theme.Keyword)
	}
	if len(theme.Rainbow) != 9 || !theme.Rainbow[8].Equals(core.MustHex("#00ff00")) {
		t.Errorf("Rainbow = %v after override", theme.Rainbow)
	}
	if !theme.Popups[PopupCompletion].Selected.Equals(core.MustHex("#0000ff")) {
		t.Errorf("completion selected = %v after override", theme.Popups[PopupCompletion].Selected)
	}
	if _, ok := theme.Popups["hover"]; !ok {
		t.Error("popup override should create the hover kind")
	}

	original := DefaultTheme()
	if original.Keyword.Equals(theme.Keyword) {
		t.Error("Clone should not share state with the original")
	}
}

func TestThemeByName(t *testing.T) {
	for _, name := range []string{"", "dark", "light"} {
		if _, err := ThemeByName(name); err != nil {
			t.Errorf("ThemeByName(%q) error = %v", name, err)
		}
	}

	theme, err := ThemeByName("monokai")
	if err != nil {
		t.Fatalf("ThemeByName(monokai) error = %v", err)
	}
	if theme.Name != "monokai" {
		t.Errorf("Name = %q, want monokai", theme.Name)
	}
	if len(theme.Popups) != 3 {
		t.Errorf("chroma theme popups = %d, want 3", len(theme.Popups))
	}

	if _, err := ThemeByName("no-such-theme"); err == nil {
		t.Error("ThemeByName(unknown) should fail")
	}
}
