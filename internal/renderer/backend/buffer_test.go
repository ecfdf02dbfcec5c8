package backend

import (
	"testing"

	"github.com/dshills/codepad/internal/renderer/core"
)

func TestNewGrid(t *testing.T) {
	g := NewGrid(10, 3)

	w, h := g.Size()
	if w != 10 || h != 3 {
		t.Errorf("expected size (10, 3), got (%d, %d)", w, h)
	}
	if got := g.Cell(4, 1); got.Rune != ' ' || got.Width != 1 {
		t.Errorf("expected empty cell, got %+v", got)
	}
}

func TestGridSetCellOutOfBounds(t *testing.T) {
	g := NewGrid(4, 2)
	cell := Cell{Rune: 'X', Width: 1}

	g.SetCell(-1, 0, cell)
	g.SetCell(4, 0, cell)
	g.SetCell(0, 2, cell)

	if g.String() != "\n" {
		t.Errorf("out of bounds writes should be ignored, got %q", g.String())
	}
	if got := g.Cell(100, 100); got.Rune != ' ' {
		t.Errorf("out of bounds read should be empty, got %+v", got)
	}
}

func TestGridResizePreservesContent(t *testing.T) {
	g := NewGrid(4, 2)
	g.SetCell(1, 1, Cell{Rune: 'a', Width: 1})
	g.SetCell(3, 0, Cell{Rune: 'b', Width: 1})

	g.Resize(2, 3)

	if got := g.Cell(1, 1).Rune; got != 'a' {
		t.Errorf("expected preserved 'a', got %q", got)
	}
	if got := g.Row(0); got != "  " {
		t.Errorf("truncated column should be gone, got %q", got)
	}
	if _, h := g.Size(); h != 3 {
		t.Errorf("expected height 3, got %d", h)
	}
}

func TestGridClear(t *testing.T) {
	g := NewGrid(3, 1)
	g.SetCell(0, 0, Cell{Rune: 'x', Width: 1})
	g.Clear()

	if got := g.Row(0); got != "   " {
		t.Errorf("expected blank row, got %q", got)
	}
}

func TestCanvasDrawTextWide(t *testing.T) {
	m := NewMemory(8, 1)
	m.DrawText(0, 0, "a日b", core.MonoFont, core.DefaultStyle())

	if got := m.Row(0); got != "a日b    " {
		t.Errorf("unexpected row %q", got)
	}
	if c := m.Cell(1, 0); c.Width != 2 {
		t.Errorf("wide cell should have width 2, got %d", c.Width)
	}
	if c := m.Cell(2, 0); c.Width != 0 {
		t.Errorf("continuation cell should have width 0, got %d", c.Width)
	}
	if c := m.Cell(3, 0); c.Rune != 'b' {
		t.Errorf("expected 'b' after wide cell, got %q", c.Rune)
	}
}

func TestCanvasDrawTextCombining(t *testing.T) {
	m := NewMemory(4, 1)
	m.DrawText(0, 0, "éx", core.MonoFont, core.DefaultStyle())

	c := m.Cell(0, 0)
	if c.Rune != 'e' || len(c.Combo) != 1 || c.Combo[0] != '\u0301' {
		t.Errorf("combining mark should ride on its base, got %+v", c)
	}
	if got := m.Cell(1, 0).Rune; got != 'x' {
		t.Errorf("expected 'x' in second cell, got %q", got)
	}
}

func TestCanvasDrawTextExpandsTabs(t *testing.T) {
	m := NewMemory(8, 1)
	m.DrawText(0, 0, "\tx", core.MonoFont, core.DefaultStyle())

	if got := m.Cell(4, 0).Rune; got != 'x' {
		t.Errorf("expected 'x' after tab, got %q", got)
	}
}

func TestCanvasFontAttributes(t *testing.T) {
	m := NewMemory(4, 1)
	font := core.MonoFont
	font.Bold = true
	font.Italic = true
	m.DrawText(0, 0, "b", font, core.DefaultStyle())

	attrs := m.Cell(0, 0).Style.Attributes
	if !attrs.Has(core.AttrBold) || !attrs.Has(core.AttrItalic) {
		t.Errorf("expected bold italic, got %v", attrs)
	}
}

func TestCanvasTextInheritsBackground(t *testing.T) {
	bg := core.MustHex("#202020")
	m := NewMemory(4, 1)
	m.FillRect(core.RectFromSize(0, 0, 4, 1), 0, core.DefaultStyle().WithBackground(bg))
	m.DrawText(1, 0, "x", core.MonoFont, core.NewStyle(core.MustHex("#ffffff")))

	if got := m.Cell(1, 0).Style.Background; !got.Equals(bg) {
		t.Errorf("text should keep fill background, got %v", got)
	}
}

func TestCanvasFillRounded(t *testing.T) {
	bg := core.MustHex("#303030")
	m := NewMemory(6, 6)
	m.FillRect(core.RectFromSize(0, 0, 6, 6), 2, core.DefaultStyle().WithBackground(bg))

	if !m.Cell(0, 0).Style.Background.IsDefault() {
		t.Error("rounded corner should stay unfilled")
	}
	if !m.Cell(2, 2).Style.Background.Equals(bg) {
		t.Error("interior should be filled")
	}
	if !m.Cell(0, 3).Style.Background.Equals(bg) {
		t.Error("edge midpoint should be filled")
	}
}

func TestCanvasStrokeRect(t *testing.T) {
	tests := []struct {
		name   string
		radius int
		want   string
	}{
		{"square", 0, "┌──┐\n│  │\n└──┘"},
		{"rounded", 1, "╭──╮\n│  │\n╰──╯"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMemory(4, 3)
			m.StrokeRect(core.RectFromSize(0, 0, 4, 3), tt.radius, core.DefaultStyle())
			if got := m.String(); got != tt.want {
				t.Errorf("got\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestCanvasStrokeTooSmall(t *testing.T) {
	m := NewMemory(4, 3)
	m.StrokeRect(core.RectFromSize(0, 0, 1, 3), 0, core.DefaultStyle())

	if got := m.String(); got != "\n\n" {
		t.Errorf("degenerate rect should draw nothing, got %q", got)
	}
}

func TestCanvasClipStack(t *testing.T) {
	m := NewMemory(6, 1)
	m.PushClip(core.RectFromSize(1, 0, 4, 1), 0)
	m.PushClip(core.RectFromSize(2, 0, 4, 1), 0)
	m.DrawText(0, 0, "abcdef", core.MonoFont, core.DefaultStyle())

	if got := m.Row(0); got != "  cd  " {
		t.Errorf("nested clips should intersect, got %q", got)
	}

	m.PopClip()
	m.DrawText(0, 0, "ABCDEF", core.MonoFont, core.DefaultStyle())
	if got := m.Row(0); got != " BCDE " {
		t.Errorf("popped clip should widen region, got %q", got)
	}

	m.PopClip()
	m.PopClip() // extra pops are ignored
	if m.ClipDepth() != 0 {
		t.Errorf("expected empty clip stack, got %d", m.ClipDepth())
	}
}
