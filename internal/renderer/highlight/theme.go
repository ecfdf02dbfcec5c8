package highlight

import (
	"fmt"
	"strconv"
	"strings"

	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/dshills/codepad/internal/renderer/core"
)

// Popup kinds recognized by the theme.
const (
	PopupSignature  = "signature"
	PopupCompletion = "completion"
	PopupDiagnostic = "diagnostic"
)

// PopupColors are the colors of one popup kind.
type PopupColors struct {
	Background core.Color
	Border     core.Color
	Text       core.Color
	Accent     core.Color
	Selected   core.Color
}

// Theme defines colors for syntax highlighting and popups.
type Theme struct {
	// Name is the display name of the theme.
	Name string

	Background  core.Color
	Default     core.Color
	Keyword     core.Color
	String      core.Color
	Number      core.Color
	Comment     core.Color
	Operator    core.Color
	Punctuation core.Color
	Identifier  core.Color
	Function    core.Color
	Type        core.Color
	Constant    core.Color
	Unmatched   core.Color

	// Rainbow is the bracket palette, indexed by depth mod len(Rainbow).
	Rainbow []core.Color

	// Popups maps popup kinds to their colors.
	Popups map[string]PopupColors
}

// StyleForTag returns the style for a token tag.
func (t *Theme) StyleForTag(tag Tag) core.Style {
	switch tag {
	case TagKeyword:
		return core.NewStyle(t.Keyword).Bold()
	case TagString:
		return core.NewStyle(t.String)
	case TagNumber:
		return core.NewStyle(t.Number)
	case TagComment:
		return core.NewStyle(t.Comment).Italic()
	case TagOperator:
		return core.NewStyle(t.Operator)
	case TagPunctuation:
		return core.NewStyle(t.Punctuation)
	case TagIdentifier:
		return core.NewStyle(t.Identifier)
	case TagFunction:
		return core.NewStyle(t.Function)
	case TagType:
		return core.NewStyle(t.Type)
	case TagConstant:
		return core.NewStyle(t.Constant)
	case TagBraceUnmatched:
		return core.NewStyle(t.Unmatched).Underline()
	}
	if depth, ok := tag.BraceDepth(); ok && len(t.Rainbow) > 0 {
		return core.NewStyle(t.Rainbow[depth%len(t.Rainbow)])
	}
	return core.NewStyle(t.Default)
}

// PopupColorsFor returns the colors for a popup kind, falling back to the
// signature colors for unknown kinds.
func (t *Theme) PopupColorsFor(kind string) PopupColors {
	if pc, ok := t.Popups[kind]; ok {
		return pc
	}
	return t.Popups[PopupSignature]
}

// Clone returns a deep copy of the theme.
func (t *Theme) Clone() *Theme {
	c := *t
	c.Rainbow = append([]core.Color(nil), t.Rainbow...)
	c.Popups = make(map[string]PopupColors, len(t.Popups))
	for k, v := range t.Popups {
		c.Popups[k] = v
	}
	return &c
}

// SetColor assigns a color by key. Recognized keys are the semantic names
// ("keyword", "string", ...), "rainbow.<n>" and "popup.<kind>.<field>".
func (t *Theme) SetColor(key, hex string) error {
	c, err := core.ColorFromHex(hex)
	if err != nil {
		return fmt.Errorf("theme key %q: %w", key, err)
	}

	key = strings.ToLower(strings.TrimSpace(key))
	switch key {
	case "background":
		t.Background = c
	case "default":
		t.Default = c
	case "keyword":
		t.Keyword = c
	case "string":
		t.String = c
	case "number":
		t.Number = c
	case "comment":
		t.Comment = c
	case "operator":
		t.Operator = c
	case "punctuation":
		t.Punctuation = c
	case "identifier":
		t.Identifier = c
	case "function":
		t.Function = c
	case "type":
		t.Type = c
	case "constant":
		t.Constant = c
	case "unmatched":
		t.Unmatched = c
	default:
		return t.setCompound(key, c)
	}
	return nil
}

func (t *Theme) setCompound(key string, c core.Color) error {
	parts := strings.Split(key, ".")
	switch {
	case len(parts) == 2 && parts[0] == "rainbow":
		idx, err := strconv.Atoi(parts[1])
		if err != nil || idx < 0 || idx > 64 {
			return fmt.Errorf("theme key %q: invalid rainbow index", key)
		}
		for len(t.Rainbow) <= idx {
			t.Rainbow = append(t.Rainbow, t.Default)
		}
		t.Rainbow[idx] = c
		return nil
	case len(parts) == 3 && parts[0] == "popup":
		pc := t.PopupColorsFor(parts[1])
		switch parts[2] {
		case "background":
			pc.Background = c
		case "border":
			pc.Border = c
		case "text":
			pc.Text = c
		case "accent":
			pc.Accent = c
		case "selected":
			pc.Selected = c
		default:
			return fmt.Errorf("theme key %q: unknown popup field", key)
		}
		if t.Popups == nil {
			t.Popups = make(map[string]PopupColors)
		}
		t.Popups[parts[1]] = pc
		return nil
	}
	return fmt.Errorf("theme key %q: unknown key", key)
}

// popupSet derives the three popup kinds from a base background.
func popupSet(bg, fg, accent, errColor core.Color) map[string]PopupColors {
	panel := bg.Blend(fg, 0.08)
	border := bg.Blend(fg, 0.35)
	selected := panel.Blend(accent, 0.3)
	return map[string]PopupColors{
		PopupSignature: {
			Background: panel, Border: border, Text: fg, Accent: accent, Selected: selected,
		},
		PopupCompletion: {
			Background: panel, Border: border, Text: fg, Accent: accent, Selected: selected,
		},
		PopupDiagnostic: {
			Background: panel.Blend(errColor, 0.15), Border: errColor, Text: fg, Accent: errColor, Selected: selected,
		},
	}
}

// DefaultTheme returns a sensible default dark theme.
func DefaultTheme() *Theme {
	bg := core.ColorFromRGB(30, 30, 30)
	fg := core.ColorFromRGB(212, 212, 212)
	keyword := core.ColorFromRGB(86, 156, 214)
	red := core.ColorFromRGB(244, 71, 71)
	return &Theme{
		Name:        "Default Dark",
		Background:  bg,
		Default:     fg,
		Keyword:     keyword,
		String:      core.ColorFromRGB(206, 145, 120),
		Number:      core.ColorFromRGB(181, 206, 168),
		Comment:     core.ColorFromRGB(106, 153, 85),
		Operator:    fg,
		Punctuation: core.ColorFromRGB(180, 180, 180),
		Identifier:  core.ColorFromRGB(156, 220, 254),
		Function:    core.ColorFromRGB(220, 220, 170),
		Type:        core.ColorFromRGB(78, 201, 176),
		Constant:    core.ColorFromRGB(79, 193, 255),
		Unmatched:   red,
		Rainbow: []core.Color{
			core.ColorFromRGB(255, 215, 0),
			core.ColorFromRGB(218, 112, 214),
			core.ColorFromRGB(23, 159, 255),
			core.ColorFromRGB(255, 165, 0),
			core.ColorFromRGB(80, 200, 120),
			core.ColorFromRGB(0, 200, 200),
		},
		Popups: popupSet(bg, fg, keyword, red),
	}
}

// LightTheme returns a light theme.
func LightTheme() *Theme {
	bg := core.ColorFromRGB(255, 255, 255)
	fg := core.ColorFromRGB(0, 0, 0)
	keyword := core.ColorFromRGB(0, 0, 255)
	red := core.ColorFromRGB(205, 49, 49)
	return &Theme{
		Name:        "Light",
		Background:  bg,
		Default:     fg,
		Keyword:     keyword,
		String:      core.ColorFromRGB(163, 21, 21),
		Number:      core.ColorFromRGB(9, 134, 88),
		Comment:     core.ColorFromRGB(0, 128, 0),
		Operator:    fg,
		Punctuation: core.ColorFromRGB(60, 60, 60),
		Identifier:  core.ColorFromRGB(0, 16, 128),
		Function:    core.ColorFromRGB(121, 94, 38),
		Type:        core.ColorFromRGB(38, 127, 153),
		Constant:    core.ColorFromRGB(0, 112, 193),
		Unmatched:   red,
		Rainbow: []core.Color{
			core.ColorFromRGB(4, 49, 250),
			core.ColorFromRGB(49, 147, 49),
			core.ColorFromRGB(123, 56, 20),
		},
		Popups: popupSet(bg.Darken(0.04), fg, keyword, red),
	}
}

// ThemeFromChroma derives a theme from a chroma style, e.g. "monokai".
func ThemeFromChroma(name string) (*Theme, error) {
	lookup := strings.ToLower(strings.TrimSpace(name))
	found := false
	for _, n := range styles.Names() {
		if n == lookup {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("unknown theme %q", name)
	}
	style := styles.Get(lookup)

	base := DefaultTheme()
	pick := func(fallback core.Color, types ...chroma.TokenType) core.Color {
		for _, tt := range types {
			entry := style.Get(tt)
			if !entry.Colour.IsSet() {
				continue
			}
			if c, err := core.ColorFromHex(entry.Colour.String()); err == nil {
				return c
			}
		}
		return fallback
	}
	bg := base.Background
	if entry := style.Get(chroma.Background); entry.Background.IsSet() {
		if c, err := core.ColorFromHex(entry.Background.String()); err == nil {
			bg = c
		}
	}

	t := &Theme{
		Name:        lookup,
		Background:  bg,
		Default:     pick(base.Default, chroma.Text, chroma.Background),
		Keyword:     pick(base.Keyword, chroma.Keyword),
		String:      pick(base.String, chroma.LiteralString),
		Number:      pick(base.Number, chroma.LiteralNumber),
		Comment:     pick(base.Comment, chroma.Comment),
		Operator:    pick(base.Operator, chroma.Operator),
		Punctuation: pick(base.Punctuation, chroma.Punctuation, chroma.Operator),
		Identifier:  pick(base.Identifier, chroma.NameVariable, chroma.Name),
		Function:    pick(base.Function, chroma.NameFunction, chroma.Name),
		Type:        pick(base.Type, chroma.KeywordType, chroma.NameClass),
		Constant:    pick(base.Constant, chroma.KeywordConstant, chroma.NameConstant),
		Unmatched:   pick(base.Unmatched, chroma.Error),
		Rainbow:     append([]core.Color(nil), base.Rainbow...),
	}
	t.Popups = popupSet(bg, t.Default, t.Keyword, t.Unmatched)
	return t, nil
}

// ThemeByName returns a built-in theme or a chroma-derived one.
func ThemeByName(name string) (*Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "dark", "default", "default-dark":
		return DefaultTheme(), nil
	case "light":
		return LightTheme(), nil
	}
	return ThemeFromChroma(name)
}
