package popup

import (
	"github.com/dshills/codepad/internal/renderer/core"
	"github.com/dshills/codepad/internal/renderer/highlight"
	"github.com/dshills/codepad/internal/renderer/layout"
	"github.com/dshills/codepad/internal/renderer/overlay"
)

// SignatureInfo describes a callable.
type SignatureInfo struct {
	Name   string
	Params []string
	Result string
	Doc    string
}

// SignatureLookup resolves a function name to its signature.
type SignatureLookup func(name string) (SignatureInfo, bool)

// Signature shows a function signature with the active parameter
// highlighted.
type Signature struct {
	Info   SignatureInfo
	Active int
}

// Kind implements Content.
func (s *Signature) Kind() string {
	return highlight.PopupSignature
}

// Runs implements Content.
func (s *Signature) Runs(colors highlight.PopupColors, font core.Font) []layout.Run {
	text := core.NewStyle(colors.Text)
	nameFont := font
	nameFont.Bold = true

	runs := []layout.Run{
		{Text: s.Info.Name, Font: nameFont, Style: core.NewStyle(colors.Accent)},
		{Text: "(", Font: font, Style: text},
	}
	for i, param := range s.Info.Params {
		if i > 0 {
			runs = append(runs, layout.Run{Text: ", ", Font: font, Style: text})
		}
		style := text
		if i == s.Active {
			style = core.NewStyle(colors.Accent).Bold().Underline()
		}
		runs = append(runs, layout.Run{Text: param, Font: font, Style: style})
	}
	runs = append(runs, layout.Run{Text: ")", Font: font, Style: text})

	if s.Info.Result != "" {
		runs = append(runs, layout.Run{Text: " " + s.Info.Result, Font: font, Style: text})
	}
	if s.Info.Doc != "" {
		docFont := font
		docFont.Italic = true
		runs = append(runs, layout.Run{
			Text:  "\n" + s.Info.Doc,
			Font:  docFont,
			Style: core.NewStyle(colors.Text.Blend(colors.Background, 0.3)),
		})
	}
	return runs
}

// Regions implements Content. Signatures are not interactive.
func (s *Signature) Regions(layout.Result, core.Point, core.Rect) []overlay.HitRegion {
	return nil
}
