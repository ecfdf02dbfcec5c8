package popup

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/codepad/internal/renderer/core"
	"github.com/dshills/codepad/internal/renderer/highlight"
	"github.com/dshills/codepad/internal/renderer/layout"
	"github.com/dshills/codepad/internal/renderer/overlay"
)

// Content is what a popup shows.
type Content interface {
	// Kind returns the theme popup kind used for colors.
	Kind() string

	// Runs returns the text to lay out.
	Runs(colors highlight.PopupColors, font core.Font) []layout.Run

	// Regions returns interactive regions for a laid out popup whose
	// content starts at origin and whose outer rectangle is bounds.
	Regions(res layout.Result, origin core.Point, bounds core.Rect) []overlay.HitRegion
}

// Interactive is implemented by content that takes pointer input.
type Interactive interface {
	Interactive() bool
}

// Popup draws Content in a rounded, bordered box placed by a Solver.
// It implements overlay.Drawable.
type Popup struct {
	mu sync.Mutex

	id       string
	content  Content
	solver   *Solver
	theme    *highlight.Theme
	font     core.Font
	radius   int
	priority overlay.Priority
	anchor   Anchor
	viewport func(f overlay.Frame) core.Rect

	onResize  func(width, height int)
	lastW     int
	lastH     int
	lastPlace Candidate
	placed    bool
}

// Option configures a Popup.
type Option func(*Popup)

// WithFont sets the content font.
func WithFont(f core.Font) Option {
	return func(p *Popup) {
		p.font = f
	}
}

// WithRadius sets the corner radius.
func WithRadius(r int) Option {
	return func(p *Popup) {
		p.radius = r
	}
}

// WithPriority overrides the drawing priority.
func WithPriority(prio overlay.Priority) Option {
	return func(p *Popup) {
		p.priority = prio
	}
}

// WithViewport sets the area a popup is placed in. The default is the
// whole frame.
func WithViewport(fn func(f overlay.Frame) core.Rect) Option {
	return func(p *Popup) {
		p.viewport = fn
	}
}

// WithResizeHandler sets the callback told about size changes.
func WithResizeHandler(fn func(width, height int)) Option {
	return func(p *Popup) {
		p.onResize = fn
	}
}

// New creates a popup for content anchored at anchor.
func New(content Content, solver *Solver, theme *highlight.Theme, anchor Anchor, opts ...Option) *Popup {
	if theme == nil {
		theme = highlight.DefaultTheme()
	}
	p := &Popup{
		id:       uuid.NewString(),
		content:  content,
		solver:   solver,
		theme:    theme,
		font:     core.MonoFont,
		radius:   1,
		priority: defaultPriority(content.Kind()),
		anchor:   anchor,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func defaultPriority(kind string) overlay.Priority {
	switch kind {
	case highlight.PopupCompletion:
		return overlay.PriorityCritical
	case highlight.PopupSignature:
		return overlay.PriorityHigh
	default:
		return overlay.PriorityNormal
	}
}

// ID returns the popup's unique identity.
func (p *Popup) ID() string {
	return p.id
}

// Content returns the popup content.
func (p *Popup) Content() Content {
	return p.content
}

// SetAnchor moves the popup.
func (p *Popup) SetAnchor(a Anchor) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.anchor = a
}

// Anchor returns the current anchor.
func (p *Popup) Anchor() Anchor {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.anchor
}

// Placement returns the most recent placement.
func (p *Popup) Placement() (Candidate, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastPlace, p.placed
}

// Priority implements overlay.Drawable.
func (p *Popup) Priority() overlay.Priority {
	return p.priority
}

// WantsPointer implements overlay.Drawable.
func (p *Popup) WantsPointer() bool {
	if in, ok := p.content.(Interactive); ok {
		return in.Interactive()
	}
	return false
}

// Draw implements overlay.Drawable.
func (p *Popup) Draw(f overlay.Frame) []overlay.HitRegion {
	p.mu.Lock()
	anchor := p.anchor
	p.mu.Unlock()

	colors := p.theme.PopupColorsFor(p.content.Kind())
	runs := p.content.Runs(colors, p.font)

	viewport := f.Bounds()
	if p.viewport != nil {
		viewport = p.viewport(f)
	}
	place, ok := p.solver.Solve(anchor, viewport, runs)
	if !ok {
		return nil
	}
	p.paint(f, place, colors)

	cfg := p.solver.Config()
	origin := place.Origin(cfg.PadX, cfg.PadY)
	regions := p.content.Regions(place.Content, origin, place.Rect)

	p.report(place)
	return regions
}

func (p *Popup) paint(f overlay.Frame, place Candidate, colors highlight.PopupColors) {
	s := f.Surface
	r := place.Rect

	s.PushClip(r, p.radius)
	defer s.PopClip()

	s.FillRect(r, p.radius, core.DefaultStyle().WithBackground(colors.Background))
	s.StrokeRect(r, p.radius, core.NewStyle(colors.Border).WithBackground(colors.Background))

	cfg := p.solver.Config()
	layout.PaintResult(s, place.Origin(cfg.PadX, cfg.PadY), place.Content)
}

// report records the placement and notifies the resize handler when the
// size differs from the last one reported.
func (p *Popup) report(place Candidate) {
	p.mu.Lock()
	w, h := place.Rect.Width(), place.Rect.Height()
	changed := !p.placed || w != p.lastW || h != p.lastH
	p.lastPlace, p.placed = place, true
	p.lastW, p.lastH = w, h
	handler := p.onResize
	p.mu.Unlock()

	if changed && handler != nil {
		handler(w, h)
	}
}
