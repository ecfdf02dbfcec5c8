package popup

import (
	"github.com/dshills/codepad/internal/renderer/core"
	"github.com/dshills/codepad/internal/renderer/highlight"
	"github.com/dshills/codepad/internal/renderer/layout"
	"github.com/dshills/codepad/internal/renderer/overlay"
)

// Severity represents the severity of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityHint
)

// String returns the severity label.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// ParseSeverity parses a severity label. Unknown labels map to info.
func ParseSeverity(s string) Severity {
	switch s {
	case "error":
		return SeverityError
	case "warning", "warn":
		return SeverityWarning
	case "hint":
		return SeverityHint
	default:
		return SeverityInfo
	}
}

// Diagnostic shows a message attached to a position.
type Diagnostic struct {
	Severity Severity
	Message  string
	Source   string
}

// Kind implements Content.
func (d *Diagnostic) Kind() string {
	return highlight.PopupDiagnostic
}

// Runs implements Content.
func (d *Diagnostic) Runs(colors highlight.PopupColors, font core.Font) []layout.Run {
	label := font
	label.Bold = true

	accent := colors.Accent
	if d.Severity != SeverityError {
		accent = colors.Text.Blend(colors.Accent, 0.5)
	}

	runs := []layout.Run{
		{Text: d.Severity.String() + ": ", Font: label, Style: core.NewStyle(accent)},
		{Text: d.Message, Font: font, Style: core.NewStyle(colors.Text)},
	}
	if d.Source != "" {
		dim := font
		dim.Italic = true
		runs = append(runs, layout.Run{
			Text:  " [" + d.Source + "]",
			Font:  dim,
			Style: core.NewStyle(colors.Text.Blend(colors.Background, 0.4)),
		})
	}
	return runs
}

// Regions implements Content. Diagnostics are not interactive.
func (d *Diagnostic) Regions(layout.Result, core.Point, core.Rect) []overlay.HitRegion {
	return nil
}
