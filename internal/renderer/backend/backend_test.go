package backend

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/codepad/internal/renderer/core"
)

var (
	_ Surface = (*Memory)(nil)
	_ Surface = (*Terminal)(nil)
)

func TestMemorySurfaceLifecycle(t *testing.T) {
	m := NewMemory(10, 2)

	m.DrawText(0, 0, "hello", core.MonoFont, core.DefaultStyle())
	m.PushClip(core.RectFromSize(0, 0, 2, 2), 0)
	m.Flush()

	if got := m.String(); got != "hello\n" {
		t.Errorf("unexpected contents %q", got)
	}
	if m.Flushes() != 1 {
		t.Errorf("expected 1 flush, got %d", m.Flushes())
	}

	m.Clear()
	if got := m.String(); got != "\n" {
		t.Errorf("clear should blank the surface, got %q", got)
	}
	if m.ClipDepth() != 0 {
		t.Error("clear should reset clips")
	}

	m.Resize(3, 1)
	if w, h := m.Size(); w != 3 || h != 1 {
		t.Errorf("expected size (3, 1), got (%d, %d)", w, h)
	}

	m.Close()
	if !m.Closed() {
		t.Error("expected surface to be closed")
	}
}

func newSimTerminal(t *testing.T, width, height int) (*Terminal, tcell.SimulationScreen) {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	term := NewTerminalWithScreen(screen)
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	screen.SetSize(width, height)
	t.Cleanup(term.Shutdown)
	return term, screen
}

func TestTerminalDrawText(t *testing.T) {
	term, _ := newSimTerminal(t, 20, 5)

	fg := core.MustHex("#ff8000")
	term.DrawText(2, 1, "go", core.MonoFont, core.NewStyle(fg).Bold())
	term.Flush()

	c := term.Cell(2, 1)
	if c.Rune != 'g' {
		t.Errorf("expected 'g', got %q", c.Rune)
	}
	if !c.Style.Foreground.Equals(fg) {
		t.Errorf("expected foreground %v, got %v", fg, c.Style.Foreground)
	}
	if !c.Style.Attributes.Has(core.AttrBold) {
		t.Error("expected bold attribute")
	}
	if got := term.Cell(3, 1).Rune; got != 'o' {
		t.Errorf("expected 'o', got %q", got)
	}
}

func TestTerminalClearBlanksScreen(t *testing.T) {
	term, _ := newSimTerminal(t, 10, 2)

	term.DrawText(0, 1, "popup", core.MonoFont, core.DefaultStyle())
	if got := term.Cell(0, 1).Rune; got != 'p' {
		t.Fatalf("expected 'p' before Clear, got %q", got)
	}
	term.PushClip(core.RectFromSize(0, 0, 1, 1), 0)
	term.Clear()

	if got := term.Cell(0, 1).Rune; got != ' ' {
		t.Errorf("expected a blank cell after Clear, got %q", got)
	}

	term.DrawText(0, 1, "code", core.MonoFont, core.DefaultStyle())
	if got := term.Cell(0, 1).Rune; got != 'c' {
		t.Errorf("expected clips to be reset by Clear, got %q", got)
	}
}

func TestTerminalClipAndStroke(t *testing.T) {
	term, _ := newSimTerminal(t, 10, 4)

	term.PushClip(core.RectFromSize(0, 0, 4, 3), 1)
	term.StrokeRect(core.RectFromSize(0, 0, 6, 3), 1, core.DefaultStyle())
	term.PopClip()

	if got := term.Cell(0, 0).Rune; got != '╭' {
		t.Errorf("expected rounded corner, got %q", got)
	}
	if got := term.Cell(5, 0).Rune; got == '╮' {
		t.Error("clipped corner should not be drawn")
	}
}

func TestConvertStyleRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		style core.Style
	}{
		{"default", core.DefaultStyle()},
		{"colors", core.DefaultStyle().WithForeground(core.MustHex("#112233")).WithBackground(core.MustHex("#445566"))},
		{"attributes", core.Style{Attributes: core.AttrItalic | core.AttrUnderline | core.AttrStrikethrough}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := convertTcellStyle(convertStyle(tt.style))
			if !got.Equals(tt.style) {
				t.Errorf("round trip: got %+v, want %+v", got, tt.style)
			}
		})
	}
}

func TestConvertKey(t *testing.T) {
	tests := []struct {
		in   tcell.Key
		want Key
	}{
		{tcell.KeyRune, KeyRune},
		{tcell.KeyEscape, KeyEscape},
		{tcell.KeyBackspace2, KeyBackspace},
		{tcell.KeyCtrlZ, KeyCtrlZ},
		{tcell.KeyF12, KeyNone},
	}

	for _, tt := range tests {
		if got := convertKey(tt.in); got != tt.want {
			t.Errorf("convertKey(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConvertMouseEvent(t *testing.T) {
	term, _ := newSimTerminal(t, 10, 4)

	ev := term.convertEvent(tcell.NewEventMouse(3, 2, tcell.Button1, tcell.ModShift))
	if ev.Type != EventMouse || ev.MouseX != 3 || ev.MouseY != 2 {
		t.Errorf("unexpected event %+v", ev)
	}
	if ev.MouseButton != MouseLeft || !ev.Mod.Has(ModShift) {
		t.Errorf("unexpected button state %+v", ev)
	}
}
