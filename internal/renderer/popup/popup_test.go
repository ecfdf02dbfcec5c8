package popup

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/codepad/internal/clock"
	"github.com/dshills/codepad/internal/renderer/backend"
	"github.com/dshills/codepad/internal/renderer/core"
	"github.com/dshills/codepad/internal/renderer/highlight"
	"github.com/dshills/codepad/internal/renderer/layout"
	"github.com/dshills/codepad/internal/renderer/overlay"
)

func frameFor(m *backend.Memory) overlay.Frame {
	w, h := m.Size()
	return overlay.Frame{Surface: m, Width: w, Height: h}
}

func TestSignaturePopupDraw(t *testing.T) {
	m := backend.NewMemory(40, 12)
	sig := &Signature{
		Info:   SignatureInfo{Name: "add", Params: []string{"a int", "b int"}, Result: "int"},
		Active: 1,
	}
	p := New(sig, NewSolver(DefaultSolverConfig(), layout.CellMeasure), nil, Anchor{X: 2, LineTop: 0, LineBottom: 1})

	regions := p.Draw(frameFor(m))
	assert.Empty(t, regions)
	assert.False(t, p.WantsPointer())

	place, ok := p.Placement()
	require.True(t, ok)
	assert.Equal(t, core.RectFromSize(2, 1, 25, 3), place.Rect)

	assert.Equal(t, '╭', m.Cell(2, 1).Rune)
	assert.Equal(t, '╯', m.Cell(26, 3).Rune)
	assert.Contains(t, m.Row(2), "│ add(a int, b int) int │")

	active := m.Cell(15, 2)
	assert.Equal(t, 'b', active.Rune)
	assert.True(t, active.Style.Attributes.Has(core.AttrUnderline), "active parameter is underlined")
	assert.False(t, m.Cell(8, 2).Style.Attributes.Has(core.AttrUnderline))

	colors := highlight.DefaultTheme().PopupColorsFor(highlight.PopupSignature)
	assert.True(t, m.Cell(5, 2).Style.Background.Equals(colors.Background))
	assert.Equal(t, 0, m.ClipDepth(), "clip is popped after drawing")
}

func TestPopupReportsSizeChangesOnly(t *testing.T) {
	m := backend.NewMemory(40, 12)
	sig := &Signature{Info: SignatureInfo{Name: "f", Params: []string{"x"}}}

	var sizes [][2]int
	p := New(sig, NewSolver(DefaultSolverConfig(), layout.CellMeasure), nil, Anchor{X: 0, LineTop: 0, LineBottom: 1},
		WithResizeHandler(func(w, h int) { sizes = append(sizes, [2]int{w, h}) }))

	p.Draw(frameFor(m))
	p.Draw(frameFor(m))
	sig.Active = 0
	p.Draw(frameFor(m))
	require.Len(t, sizes, 1)

	sig.Info.Name = "longer"
	p.Draw(frameFor(m))
	require.Len(t, sizes, 2)
	assert.Greater(t, sizes[1][0], sizes[0][0])
}

func TestPopupViewport(t *testing.T) {
	sig := &Signature{Info: SignatureInfo{Name: "f", Params: []string{"x"}}}
	anchor := Anchor{X: 2, LineTop: 3, LineBottom: 4}

	full := New(sig, NewSolver(DefaultSolverConfig(), layout.CellMeasure), nil, anchor)
	full.Draw(frameFor(backend.NewMemory(40, 7)))
	place, ok := full.Placement()
	require.True(t, ok)
	assert.Equal(t, 4, place.Rect.Top, "below the caret line on the whole frame")

	reserved := New(sig, NewSolver(DefaultSolverConfig(), layout.CellMeasure), nil, anchor,
		WithViewport(func(f overlay.Frame) core.Rect {
			return core.RectFromSize(0, 0, f.Width, f.Height-1)
		}))
	reserved.Draw(frameFor(backend.NewMemory(40, 7)))
	place, ok = reserved.Placement()
	require.True(t, ok)
	assert.Equal(t, 0, place.Rect.Top, "moves above when the bottom row is reserved")
	assert.Equal(t, 0, place.Overflow)
}

func TestPopupIDsAreUnique(t *testing.T) {
	s := NewSolver(DefaultSolverConfig(), nil)
	a := New(&Diagnostic{Message: "x"}, s, nil, Anchor{})
	b := New(&Diagnostic{Message: "x"}, s, nil, Anchor{})

	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestPopupPriorities(t *testing.T) {
	s := NewSolver(DefaultSolverConfig(), nil)

	assert.Equal(t, overlay.PriorityNormal, New(&Diagnostic{}, s, nil, Anchor{}).Priority())
	assert.Equal(t, overlay.PriorityHigh, New(&Signature{}, s, nil, Anchor{}).Priority())
	assert.Equal(t, overlay.PriorityCritical, New(NewCompletion(nil, nil, nil), s, nil, Anchor{}).Priority())
	assert.Equal(t, overlay.PriorityLow, New(&Diagnostic{}, s, nil, Anchor{}, WithPriority(overlay.PriorityLow)).Priority())
}

func TestDiagnosticRuns(t *testing.T) {
	d := &Diagnostic{Severity: SeverityWarning, Message: "unused variable", Source: "vet"}
	colors := highlight.DefaultTheme().PopupColorsFor(highlight.PopupDiagnostic)

	var sb strings.Builder
	for _, r := range d.Runs(colors, core.MonoFont) {
		sb.WriteString(r.Text)
	}
	assert.Equal(t, "warning: unused variable [vet]", sb.String())
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want Severity
	}{
		{"error", SeverityError},
		{"warn", SeverityWarning},
		{"warning", SeverityWarning},
		{"hint", SeverityHint},
		{"whatever", SeverityInfo},
	}
	for _, tt := range tests {
		if got := ParseSeverity(tt.in); got != tt.want {
			t.Errorf("ParseSeverity(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCompletionSelection(t *testing.T) {
	changes := 0
	var accepted []string
	c := NewCompletion(
		[]CompletionItem{{Label: "alpha"}, {Label: "beta"}, {Label: "gamma"}},
		func(item CompletionItem) { accepted = append(accepted, item.Label) },
		func() { changes++ },
	)

	assert.Equal(t, 0, c.Selected())
	c.Prev()
	assert.Equal(t, 2, c.Selected(), "prev wraps to the end")
	c.Next()
	assert.Equal(t, 0, c.Selected())
	c.Select(10)
	assert.Equal(t, 2, c.Selected())
	c.Select(2)
	assert.Equal(t, 3, changes, "reselecting the same item is not a change")

	require.True(t, c.Accept())
	assert.Equal(t, []string{"gamma"}, accepted)

	empty := NewCompletion(nil, nil, nil)
	assert.Equal(t, -1, empty.Selected())
	assert.False(t, empty.Accept())
}

func TestCompletionThroughScheduler(t *testing.T) {
	clk := clock.NewManual(time.Unix(0, 0))
	var surface *backend.Memory
	sched := overlay.NewScheduler(overlay.Config{Continuous: false}, 40, 12,
		func(w, h int) (backend.Surface, error) {
			surface = backend.NewMemory(w, h)
			return surface, nil
		}, overlay.WithClock(clk))
	defer sched.Close()

	var accepted string
	completion := NewCompletion(
		[]CompletionItem{{Label: "alpha"}, {Label: "beta"}, {Label: "gamma"}},
		func(item CompletionItem) { accepted = item.Label },
		sched.RequestFrame,
	)
	p := New(completion, NewSolver(DefaultSolverConfig(), layout.CellMeasure), nil, Anchor{X: 0, LineTop: 0, LineBottom: 1})
	require.NoError(t, sched.SetDrawable(p.ID(), p))
	clk.Advance(time.Second)

	place, ok := p.Placement()
	require.True(t, ok)
	assert.Equal(t, core.RectFromSize(0, 1, 9, 5), place.Rect)

	regions := sched.HitRegions()
	require.Len(t, regions, 3)
	assert.Equal(t, core.Rect{Left: 2, Top: 3, Right: 7, Bottom: 4}, regions[1].Rect)

	sched.PointerMove(3, 3)
	assert.Equal(t, 1, completion.Selected())
	assert.Equal(t, 1, clk.Pending(), "selection change requests a frame")

	clk.Advance(time.Second)
	selected := highlight.DefaultTheme().PopupColorsFor(highlight.PopupCompletion).Selected
	assert.True(t, surface.Cell(2, 3).Style.Background.Equals(selected))

	assert.True(t, sched.PointerPress(4, 4))
	assert.Equal(t, "gamma", accepted)
	assert.False(t, sched.PointerPress(30, 10))
}
