// Package popup places and draws floating popups next to the caret.
//
// The Solver tries every quadrant around the caret at several width
// budgets and picks the tightest placement that stays on screen and clear
// of the caret's line. Popup adapts a piece of Content to the overlay
// scheduler.
package popup

import (
	"sort"

	"github.com/dshills/codepad/internal/renderer/core"
	"github.com/dshills/codepad/internal/renderer/layout"
)

// Anchor is the caret position a popup attaches to: the caret's x and the
// vertical band [LineTop, LineBottom) of its line.
type Anchor struct {
	X          int
	LineTop    int
	LineBottom int
}

// Band returns the caret line band across the viewport.
func (a Anchor) Band(viewport core.Rect) core.Rect {
	return core.Rect{Left: viewport.Left, Top: a.LineTop, Right: viewport.Right, Bottom: a.LineBottom}
}

// Quadrant is a placement region relative to the anchor.
type Quadrant uint8

const (
	BottomRight Quadrant = iota
	BottomLeft
	TopRight
	TopLeft
)

// String returns the quadrant name.
func (q Quadrant) String() string {
	switch q {
	case BottomRight:
		return "bottom-right"
	case BottomLeft:
		return "bottom-left"
	case TopRight:
		return "top-right"
	case TopLeft:
		return "top-left"
	default:
		return "unknown"
	}
}

// Right reports whether the quadrant extends right of the anchor.
func (q Quadrant) Right() bool { return q == BottomRight || q == TopRight }

// Below reports whether the quadrant lies below the caret line.
func (q Quadrant) Below() bool { return q == BottomRight || q == BottomLeft }

var quadrants = []Quadrant{BottomRight, BottomLeft, TopRight, TopLeft}

// Candidate is one possible popup placement.
type Candidate struct {
	Quadrant Quadrant
	Budget   float64

	// Rect is the outer popup rectangle, padding included.
	Rect core.Rect

	// Content is the layout of the runs inside the padding.
	Content layout.Result

	// Overflow is the number of units of Rect outside the viewport.
	Overflow int
}

// Origin returns where the content is painted.
func (c Candidate) Origin(padX, padY int) core.Point {
	return core.Point{X: c.Rect.Left + padX, Y: c.Rect.Top + padY}
}

// SolverConfig configures placement.
type SolverConfig struct {
	// Budgets are the fractions of a quadrant's width tried per quadrant.
	Budgets []float64

	// PadX and PadY are the space between the popup edge and its content.
	PadX int
	PadY int

	// Gap separates the popup from the caret line.
	Gap int

	// CacheSize bounds the text measurement cache.
	CacheSize int
}

// DefaultSolverConfig returns the default placement configuration.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		Budgets:   []float64{0.25, 0.5, 0.75, 1},
		PadX:      2,
		PadY:      1,
		Gap:       0,
		CacheSize: 4096,
	}
}

// Solver computes popup placements.
type Solver struct {
	config  SolverConfig
	cache   *layout.MeasureCache
	measure layout.MeasureFunc
}

// NewSolver creates a solver. Measurements are cached.
func NewSolver(config SolverConfig, measure layout.MeasureFunc) *Solver {
	if len(config.Budgets) == 0 {
		config.Budgets = DefaultSolverConfig().Budgets
	}
	if measure == nil {
		measure = layout.CellMeasure
	}
	cache := layout.NewMeasureCache(measure, config.CacheSize)
	return &Solver{config: config, cache: cache, measure: cache.Func()}
}

// Config returns the solver configuration.
func (s *Solver) Config() SolverConfig {
	return s.config
}

// Measure returns the cached measuring function.
func (s *Solver) Measure() layout.MeasureFunc {
	return s.measure
}

// CacheStats returns measurement cache statistics.
func (s *Solver) CacheStats() layout.CacheStats {
	return s.cache.Stats()
}

// Candidates returns every placement that keeps clear of the caret line,
// best first.
func (s *Solver) Candidates(anchor Anchor, viewport core.Rect, runs []layout.Run) []Candidate {
	band := anchor.Band(viewport)

	var result []Candidate
	for _, q := range quadrants {
		for _, budget := range s.config.Budgets {
			c := s.place(anchor, viewport, runs, q, budget, true)
			if c.Rect.Intersects(band) {
				continue
			}
			result = append(result, c)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return better(result[i], result[j])
	})
	return result
}

// Solve returns the best placement. The boolean is false when the runs
// have no content to show.
//
// When every candidate collides with the caret line, the full-width
// bottom-right placement is returned as is.
func (s *Solver) Solve(anchor Anchor, viewport core.Rect, runs []layout.Run) (Candidate, bool) {
	if !hasText(runs) {
		return Candidate{}, false
	}
	if cands := s.Candidates(anchor, viewport, runs); len(cands) > 0 {
		return cands[0], true
	}
	return s.place(anchor, viewport, runs, BottomRight, 1, false), true
}

// place lays out runs for one quadrant and width budget.
func (s *Solver) place(anchor Anchor, viewport core.Rect, runs []layout.Run, q Quadrant, budget float64, slide bool) Candidate {
	padX, padY := max(0, s.config.PadX), max(0, s.config.PadY)

	var avail int
	if q.Right() {
		avail = viewport.Right - anchor.X
	} else {
		avail = anchor.X - viewport.Left
	}
	avail = max(0, avail)

	contentWidth := max(1, int(float64(avail)*budget)-2*padX)

	// Dry run at the budget, then again at the width actually used, which
	// gives the tightest box for that row count.
	dry := layout.Layout(runs, contentWidth, s.measure)
	content := layout.Layout(runs, max(1, dry.Width), s.measure)

	width := content.Width + 2*padX
	height := content.Height + 2*padY

	left := anchor.X
	if !q.Right() {
		left = anchor.X - width
	}
	if slide {
		if left+width > viewport.Right {
			left = viewport.Right - width
		}
		if left < viewport.Left {
			left = viewport.Left
		}
	}

	var top int
	if q.Below() {
		top = anchor.LineBottom + s.config.Gap
	} else {
		top = anchor.LineTop - s.config.Gap - height
	}

	rect := core.RectFromSize(left, top, width, height)
	return Candidate{
		Quadrant: q,
		Budget:   budget,
		Rect:     rect,
		Content:  content,
		Overflow: rect.Overflow(viewport),
	}
}

// better reports whether a should be preferred over b.
func better(a, b Candidate) bool {
	aFits, bFits := a.Overflow == 0, b.Overflow == 0
	if aFits != bFits {
		return aFits
	}
	if !aFits && a.Overflow != b.Overflow {
		return a.Overflow < b.Overflow
	}
	if a.Rect.Height() != b.Rect.Height() {
		return a.Rect.Height() < b.Rect.Height()
	}
	if a.Quadrant.Right() != b.Quadrant.Right() {
		return a.Quadrant.Right()
	}
	if a.Rect.Width() != b.Rect.Width() {
		return a.Rect.Width() < b.Rect.Width()
	}
	if a.Budget != b.Budget {
		return a.Budget < b.Budget
	}
	if a.Quadrant.Below() != b.Quadrant.Below() {
		return a.Quadrant.Below()
	}
	return false
}

func hasText(runs []layout.Run) bool {
	for _, r := range runs {
		if r.Text != "" {
			return true
		}
	}
	return false
}
