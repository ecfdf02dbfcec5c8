// Package app wires the highlighting, resolution, history and popup
// packages into a single editing session.
//
// An Application owns all of its state explicitly: one document, one
// caret, one tracker, one history and one overlay scheduler. Nothing is
// global, so several applications can coexist in one process.
package app

import (
	"sort"
	"strings"
	"sync"

	"github.com/dshills/codepad/internal/clock"
	"github.com/dshills/codepad/internal/config"
	"github.com/dshills/codepad/internal/engine/history"
	"github.com/dshills/codepad/internal/renderer/backend"
	"github.com/dshills/codepad/internal/renderer/core"
	"github.com/dshills/codepad/internal/renderer/gutter"
	"github.com/dshills/codepad/internal/renderer/highlight"
	"github.com/dshills/codepad/internal/renderer/layout"
	"github.com/dshills/codepad/internal/renderer/overlay"
	"github.com/dshills/codepad/internal/renderer/popup"
	"github.com/dshills/codepad/internal/renderer/statusline"
	"github.com/dshills/codepad/internal/resolve"
)

// CodeViewID is the scheduler id of the code view drawable.
const CodeViewID = "codepad.code"

// StatusLineID is the scheduler id of the status bar drawable.
const StatusLineID = "codepad.status"

// The code view and status bar draw below every popup.
const (
	codeViewPriority   overlay.Priority = 0
	statusLinePriority overlay.Priority = 1
)

// Application is one editing session.
type Application struct {
	mu sync.Mutex

	cfg      config.Config
	logger   *Logger
	clock    clock.Clock
	measure  layout.MeasureFunc
	factory  overlay.SurfaceFactory
	lookup   popup.SignatureLookup
	origin   core.Point
	fileName string
	codeView bool
	withBar  bool

	theme     *highlight.Theme
	tracker   *highlight.Tracker
	tabs      *layout.TabExpander
	gutter    *gutter.Gutter
	status    *statusline.StatusLine
	history   *history.History
	solver    *popup.Solver
	scheduler *overlay.Scheduler

	lines       []string
	highlighted []highlight.HighlightedLine
	caret       history.Caret
	selection   *history.Selection
	top         int

	popups     map[string]*popup.Popup
	diagnostic *popup.Diagnostic
	closed     bool
}

// Option configures an Application.
type Option func(*Application)

// WithClock sets the clock shared by the history and the scheduler.
func WithClock(c clock.Clock) Option {
	return func(a *Application) {
		a.clock = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *Logger) Option {
	return func(a *Application) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMeasure sets the text measurement used for popup layout.
func WithMeasure(m layout.MeasureFunc) Option {
	return func(a *Application) {
		a.measure = m
	}
}

// WithSurfaceFactory sets how the overlay surface is created.
func WithSurfaceFactory(f overlay.SurfaceFactory) Option {
	return func(a *Application) {
		a.factory = f
	}
}

// WithSignatureLookup sets how callee names resolve to signatures. By
// default declarations in the current document are used. The lookup runs
// with the application locked and must not call back into it.
func WithSignatureLookup(fn popup.SignatureLookup) Option {
	return func(a *Application) {
		a.lookup = fn
	}
}

// WithTextOrigin sets where the first text cell sits on the surface. The
// columns left of it hold line numbers.
func WithTextOrigin(p core.Point) Option {
	return func(a *Application) {
		a.origin = p
	}
}

// WithFileName sets the document's file name, used to pick a tokenizer
// when the configuration names no language.
func WithFileName(name string) Option {
	return func(a *Application) {
		a.fileName = name
	}
}

// WithCodeView registers a drawable that paints the highlighted document
// beneath the popups.
func WithCodeView() Option {
	return func(a *Application) {
		a.codeView = true
	}
}

// WithStatusLine reserves the bottom row for a status bar showing the
// file, caret position and the current diagnostic.
func WithStatusLine() Option {
	return func(a *Application) {
		a.withBar = true
	}
}

// New creates an application for a width by height surface.
func New(cfg config.Config, width, height int, opts ...Option) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Application{
		cfg:     cfg,
		logger:  NullLogger,
		clock:   clock.Real{},
		factory: memorySurface,
		lines:   []string{""},
		popups:  make(map[string]*popup.Popup),
	}
	for _, opt := range opts {
		opt(a)
	}

	theme, err := buildTheme(cfg.Theme)
	if err != nil {
		return nil, err
	}
	a.theme = theme
	a.tracker = a.buildTracker(cfg.Editor)
	a.tabs = layout.NewTabExpander(cfg.Editor.TabWidth)
	a.gutter = newGutter(cfg.Editor)
	a.solver = popup.NewSolver(solverConfig(cfg.Popup), a.measure)

	histLog := a.logger.WithComponent("history")
	a.history = history.New(cfg.History.Capacity,
		history.WithClock(a.clock),
		history.WithDebounce(cfg.History.Debounce()),
		history.WithOnCommit(func(e history.Entry) {
			histLog.Debug("committed edit (%d -> %d lines)", len(e.Before.Lines), len(e.After.Lines))
		}),
	)

	a.scheduler = overlay.NewScheduler(overlay.Config{
		FrameInterval:    cfg.Scheduler.FrameInterval(),
		ErrorLogInterval: cfg.Scheduler.ErrorLogInterval(),
		Continuous:       cfg.Scheduler.Continuous,
	}, width, height, a.factory,
		overlay.WithClock(a.clock),
		overlay.WithLogger(a.logger.WithComponent("overlay")),
	)

	if a.codeView {
		view := overlay.DrawFunc{Prio: codeViewPriority, Fn: a.drawCode}
		if err := a.scheduler.SetDrawable(CodeViewID, view); err != nil {
			return nil, NewOperationError("register code view", CodeViewID, err)
		}
	}
	if a.withBar {
		a.status = statusline.New(statusStyles(a.theme))
		a.status.SetFilename(a.fileName)
		bar := overlay.DrawFunc{Prio: statusLinePriority, Fn: a.drawStatus}
		if err := a.scheduler.SetDrawable(StatusLineID, bar); err != nil {
			return nil, NewOperationError("register status line", StatusLineID, err)
		}
	}
	return a, nil
}

func memorySurface(width, height int) (backend.Surface, error) {
	return backend.NewMemory(width, height), nil
}

// buildTheme resolves the named theme and applies color overrides in key
// order.
func buildTheme(tc config.ThemeConfig) (*highlight.Theme, error) {
	theme, err := highlight.ThemeByName(tc.Name)
	if err != nil {
		return nil, NewOperationError("load theme", tc.Name, err)
	}
	keys := make([]string, 0, len(tc.Colors))
	for k := range tc.Colors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := theme.SetColor(k, tc.Colors[k]); err != nil {
			return nil, NewOperationError("set theme color", k, err)
		}
	}
	return theme, nil
}

func (a *Application) buildTracker(ec config.EditorConfig) *highlight.Tracker {
	var tok highlight.Tokenizer
	if ec.Language == "" && a.fileName != "" {
		tok = highlight.TokenizerForFile(a.fileName)
	} else {
		tok = highlight.TokenizerFor(ec.Language)
	}
	depths := ec.RainbowDepths
	if depths <= 0 {
		depths = len(a.theme.Rainbow)
	}
	return highlight.NewTracker(tok,
		highlight.WithRainbowDepths(depths),
		highlight.WithLogger(a.logger.WithComponent("highlight")),
	)
}

func solverConfig(pc config.PopupConfig) popup.SolverConfig {
	return popup.SolverConfig{
		Budgets:   append([]float64(nil), pc.Budgets...),
		PadX:      pc.PadX,
		PadY:      pc.PadY,
		Gap:       pc.Gap,
		CacheSize: pc.MeasureCacheSize,
	}
}

// Reconfigure applies a new configuration to the running session. Frame
// timing is fixed when the scheduler is created and is not changed.
func (a *Application) Reconfigure(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	theme, err := buildTheme(cfg.Theme)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}

	if cfg.Scheduler != a.cfg.Scheduler {
		a.logger.Info("scheduler settings take effect after restart")
	}
	a.cfg = cfg
	a.theme = theme
	a.tracker = a.buildTracker(cfg.Editor)
	a.tabs = layout.NewTabExpander(cfg.Editor.TabWidth)
	a.gutter = newGutter(cfg.Editor)
	a.solver = popup.NewSolver(solverConfig(cfg.Popup), a.measure)
	a.highlighted = nil
	a.history.SetCapacity(cfg.History.Capacity)
	if a.status != nil {
		a.status.SetStyles(statusStyles(theme))
	}

	diagnostic := a.diagnostic
	for _, kind := range a.popupKindsLocked() {
		if err := a.showLocked(a.popups[kind].Content()); err != nil {
			return err
		}
	}
	a.diagnostic = diagnostic
	a.scheduler.RequestFrame()
	return nil
}

// Config returns the active configuration.
func (a *Application) Config() config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

// Theme returns the active theme.
func (a *Application) Theme() *highlight.Theme {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.theme
}

// Tracker returns the active tracker.
func (a *Application) Tracker() *highlight.Tracker {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tracker
}

// History returns the undo history.
func (a *Application) History() *history.History {
	return a.history
}

// Solver returns the active popup solver.
func (a *Application) Solver() *popup.Solver {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.solver
}

// Scheduler returns the overlay scheduler.
func (a *Application) Scheduler() *overlay.Scheduler {
	return a.scheduler
}

// SetText replaces the document and forgets its history. The caret is
// clamped into the new text.
func (a *Application) SetText(text string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}

	a.setLinesLocked(highlight.SplitLines(text))
	a.history.Clear()
	a.clampCaretLocked()
	a.syncViewLocked()
	return nil
}

// Text returns the document.
func (a *Application) Text() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return strings.Join(a.lines, "\n")
}

// Lines returns a copy of the document lines.
func (a *Application) Lines() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.lines...)
}

// Caret returns the caret.
func (a *Application) Caret() history.Caret {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.caret
}

// SetCaret moves the caret to a UTF-16 position, clamped into the
// document.
func (a *Application) SetCaret(line, column int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.caret = history.Caret{Line: line, Column: column, ColumnIntent: column}
	a.clampCaretLocked()
	a.caret.ColumnIntent = a.caret.Column
	a.syncViewLocked()
}

// MoveCaret moves the caret by whole lines and by characters. Vertical
// moves keep the column the caret was last placed at; horizontal moves
// wrap across line ends.
func (a *Application) MoveCaret(lines, chars int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	c := a.caret
	if lines != 0 {
		c.Line = max(0, min(c.Line+lines, len(a.lines)-1))
		c.Column = min(c.ColumnIntent, highlight.UTF16Len(a.lines[c.Line]))
	}
	for ; chars > 0; chars-- {
		text := a.lines[c.Line]
		if c.Column < highlight.UTF16Len(text) {
			c.Column = resolve.RuneToUTF16(text, resolve.UTF16ToRune(text, c.Column)+1)
		} else if c.Line < len(a.lines)-1 {
			c.Line, c.Column = c.Line+1, 0
		}
		c.ColumnIntent = c.Column
	}
	for ; chars < 0; chars++ {
		text := a.lines[c.Line]
		if c.Column > 0 {
			c.Column = resolve.RuneToUTF16(text, resolve.UTF16ToRune(text, c.Column)-1)
		} else if c.Line > 0 {
			c.Line--
			c.Column = highlight.UTF16Len(a.lines[c.Line])
		}
		c.ColumnIntent = c.Column
	}
	a.caret = c
	a.syncViewLocked()
}

// Top returns the first document line shown.
func (a *Application) Top() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.top
}

// Resize changes the surface size and keeps the caret visible.
func (a *Application) Resize(width, height int) {
	a.scheduler.Resize(width, height)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.syncViewLocked()
}

// Highlighted returns the highlighted document. The result is cached
// until the text or configuration changes.
func (a *Application) Highlighted() []highlight.HighlightedLine {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.highlightedLocked()
}

func (a *Application) highlightedLocked() []highlight.HighlightedLine {
	if a.highlighted == nil {
		a.highlighted = a.tracker.Highlight(strings.Join(a.lines, "\n"))
	}
	return a.highlighted
}

// BracePair returns the innermost bracket pair around the caret, or nil.
func (a *Application) BracePair() *resolve.MatchedPair {
	a.mu.Lock()
	defer a.mu.Unlock()
	return resolve.MatchBraces(a.highlightedLocked(), a.caret.Line, a.caret.Column)
}

// CallContext returns the call whose arguments enclose the caret, or nil.
func (a *Application) CallContext() *resolve.CallContext {
	a.mu.Lock()
	defer a.mu.Unlock()
	return resolve.FindCallContext(a.lines, a.caret.Line, a.caret.Column)
}

// Anchor returns the popup anchor for the caret.
func (a *Application) Anchor() popup.Anchor {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.anchorLocked()
}

func (a *Application) anchorLocked() popup.Anchor {
	x := a.origin.X + a.tabs.DisplayColumn(a.lines[a.caret.Line], a.caret.Column)
	y := a.origin.Y + a.caret.Line - a.top
	return popup.Anchor{X: x, LineTop: y, LineBottom: y + core.MonoFont.Height()}
}

// ShowSignature shows the signature of the call around the caret. The
// signature popup is hidden when there is no call or no known signature.
func (a *Application) ShowSignature() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}

	ctx := resolve.FindCallContext(a.lines, a.caret.Line, a.caret.Column)
	if ctx == nil {
		a.hideLocked(highlight.PopupSignature)
		return ErrNoCallContext
	}

	lookup := a.lookup
	if lookup == nil {
		lookup = SignaturesLookup(ScanSignatures(a.lines))
	}
	info, ok := lookup(ctx.FunctionName)
	if !ok {
		a.hideLocked(highlight.PopupSignature)
		return NewOperationError("show signature", ctx.FunctionName, ErrUnknownFunction)
	}
	return a.showLocked(&popup.Signature{Info: info, Active: ctx.CurrentArgumentIndex})
}

// ShowDiagnostic shows a diagnostic at the caret.
func (a *Application) ShowDiagnostic(d popup.Diagnostic) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}
	if err := a.showLocked(&d); err != nil {
		return err
	}
	a.diagnostic = &d
	return nil
}

// ShowCompletions shows a completion list at the caret. Accepting an item
// hides the list and then calls onAccept.
func (a *Application) ShowCompletions(items []popup.CompletionItem, onAccept func(popup.CompletionItem)) (*popup.Completion, error) {
	if len(items) == 0 {
		return nil, ErrNoCompletions
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil, ErrClosed
	}

	var list *popup.Completion
	list = popup.NewCompletion(items, func(item popup.CompletionItem) {
		a.hideContent(list)
		if onAccept != nil {
			onAccept(item)
		}
	}, a.scheduler.RequestFrame)

	if err := a.showLocked(list); err != nil {
		return nil, err
	}
	return list, nil
}

// Completion returns the visible completion list, or nil.
func (a *Application) Completion() *popup.Completion {
	a.mu.Lock()
	defer a.mu.Unlock()
	if p, ok := a.popups[highlight.PopupCompletion]; ok {
		if list, ok := p.Content().(*popup.Completion); ok {
			return list
		}
	}
	return nil
}

// Popup returns the visible popup of a kind.
func (a *Application) Popup(kind string) (*popup.Popup, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	p, ok := a.popups[kind]
	return p, ok
}

// HidePopup hides the popup of a kind. It reports whether one was shown.
func (a *Application) HidePopup(kind string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hideLocked(kind)
}

// HidePopups hides every popup.
func (a *Application) HidePopups() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, kind := range a.popupKindsLocked() {
		a.hideLocked(kind)
	}
}

// hideContent hides the popup showing c, if it is still the one shown
// for its kind.
func (a *Application) hideContent(c popup.Content) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if p, ok := a.popups[c.Kind()]; ok && p.Content() == c {
		a.hideLocked(c.Kind())
	}
}

func (a *Application) showLocked(content popup.Content) error {
	kind := content.Kind()
	a.hideLocked(kind)

	p := popup.New(content, a.solver, a.theme, a.anchorLocked(),
		popup.WithRadius(a.cfg.Popup.Radius),
		popup.WithViewport(a.popupViewport),
		popup.WithResizeHandler(func(w, h int) {
			a.logger.Debug("%s popup is now %dx%d", kind, w, h)
		}),
	)
	if err := a.scheduler.SetDrawable(p.ID(), p); err != nil {
		return NewOperationError("show popup", kind, err)
	}
	a.popups[kind] = p
	return nil
}

func (a *Application) hideLocked(kind string) bool {
	p, ok := a.popups[kind]
	if !ok {
		return false
	}
	delete(a.popups, kind)
	if kind == highlight.PopupDiagnostic {
		a.diagnostic = nil
	}
	if err := a.scheduler.SetDrawable(p.ID(), nil); err != nil {
		a.logger.Debug("hide %s popup: %v", kind, err)
	}
	return true
}

func (a *Application) popupKindsLocked() []string {
	kinds := make([]string, 0, len(a.popups))
	for kind := range a.popups {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// PointerMove routes pointer motion to the popups.
func (a *Application) PointerMove(x, y int) {
	a.scheduler.PointerMove(x, y)
}

// PointerPress routes a press to the popups. It reports whether a popup
// handled it.
func (a *Application) PointerPress(x, y int) bool {
	return a.scheduler.PointerPress(x, y)
}

// Snapshot captures the document, caret and selection.
func (a *Application) Snapshot() history.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

func (a *Application) snapshotLocked() history.Snapshot {
	caret := a.caret
	s := history.Snapshot{Lines: append([]string(nil), a.lines...), Caret: &caret}
	if a.selection != nil {
		sel := *a.selection
		s.Selection = &sel
	}
	return s
}

// Apply replaces the session state with s as one undoable operation.
func (a *Application) Apply(s history.Snapshot) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}

	a.history.SaveBefore(a.snapshotLocked())
	a.restoreLocked(s)
	a.history.SaveAfter(a.snapshotLocked())
	return nil
}

// Edit replaces the session state with s as part of a typing burst. The
// burst becomes one undo entry once edits pause for the debounce period.
func (a *Application) Edit(s history.Snapshot) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}

	a.history.SaveDebouncedBefore(a.snapshotLocked())
	a.restoreLocked(s)
	a.history.SaveDebouncedAfter(a.snapshotLocked())
	return nil
}

// SetSelection sets or, with nil, clears the selection.
func (a *Application) SetSelection(sel *history.Selection) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if sel == nil {
		a.selection = nil
		return
	}
	cp := *sel
	a.selection = &cp
}

// Selection returns the selection, or nil.
func (a *Application) Selection() *history.Selection {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.selection == nil {
		return nil
	}
	sel := *a.selection
	return &sel
}

// Undo restores the state before the most recent edit. It reports false
// when there is nothing to restore.
func (a *Application) Undo() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return false
	}
	s, ok := a.history.Undo()
	if ok {
		a.restoreLocked(s)
	}
	return ok
}

// Redo re-applies the most recently undone edit.
func (a *Application) Redo() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return false
	}
	s, ok := a.history.Redo()
	if ok {
		a.restoreLocked(s)
	}
	return ok
}

func (a *Application) restoreLocked(s history.Snapshot) {
	a.setLinesLocked(s.Lines)
	if s.Caret != nil {
		a.caret = *s.Caret
	}
	a.selection = nil
	if s.Selection != nil {
		sel := *s.Selection
		a.selection = &sel
	}
	a.clampCaretLocked()
	a.syncViewLocked()
}

func (a *Application) setLinesLocked(lines []string) {
	if len(lines) == 0 {
		lines = []string{""}
	}
	a.lines = append([]string(nil), lines...)
	a.highlighted = nil
}

func (a *Application) clampCaretLocked() {
	a.caret.Line = max(0, min(a.caret.Line, len(a.lines)-1))
	a.caret.Column = max(0, min(a.caret.Column, highlight.UTF16Len(a.lines[a.caret.Line])))
}

// syncViewLocked scrolls the caret into view, moves the popups with it
// and requests a frame.
func (a *Application) syncViewLocked() {
	rows := a.viewRowsLocked()
	if a.caret.Line < a.top {
		a.top = a.caret.Line
	} else if a.caret.Line >= a.top+rows {
		a.top = a.caret.Line - rows + 1
	}

	anchor := a.anchorLocked()
	for _, p := range a.popups {
		p.SetAnchor(anchor)
	}
	a.scheduler.RequestFrame()
}

// popupViewport is the frame area above the status bar. The status line
// is fixed at construction, so no lock is needed.
func (a *Application) popupViewport(f overlay.Frame) core.Rect {
	height := f.Height
	if a.status != nil {
		height -= a.status.Height()
	}
	return core.RectFromSize(0, 0, f.Width, max(0, height))
}

// viewRowsLocked returns the number of document rows on screen.
func (a *Application) viewRowsLocked() int {
	_, height := a.scheduler.Size()
	if a.status != nil {
		height -= a.status.Height()
	}
	return max(1, height-a.origin.Y)
}

// drawCode paints the visible document with line numbers, brace match
// and caret.
func (a *Application) drawCode(f overlay.Frame) []overlay.HitRegion {
	a.mu.Lock()
	lines := a.highlightedLocked()
	caret, top, origin := a.caret, a.top, a.origin
	theme, tabs, g := a.theme, a.tabs, a.gutter
	rows := a.viewRowsLocked()
	pair := resolve.MatchBraces(lines, caret.Line, caret.Column)
	g.SetLineCount(len(lines))
	g.SetCurrentLine(caret.Line)
	g.ClearSigns()
	if pair != nil && pair.Open.Line != pair.Close.Line {
		g.SetSign(pair.Open.Line, gutter.SignBrace)
		g.SetSign(pair.Close.Line, gutter.SignBrace)
	}
	if a.diagnostic != nil {
		g.SetSign(caret.Line, severitySign(a.diagnostic.Severity))
	}
	a.mu.Unlock()

	s := f.Surface
	base := core.NewStyle(theme.Default).WithBackground(theme.Background)
	s.FillRect(f.Bounds(), 0, base)

	for row := 0; row < rows && origin.Y+row < f.Height && top+row < len(lines); row++ {
		li, y := top+row, origin.Y+row
		if origin.X >= 2 {
			drawGutterRow(s, theme, g.Line(li, origin.X), y)
		}

		col := 0
		for ti, tok := range lines[li].Tokens {
			text, end := tabs.ExpandAt(tok.Content, col)
			style := theme.StyleForTag(tok.Tag).WithBackground(theme.Background)
			if pair != nil && isPairToken(pair, li, ti) {
				style = style.Bold().Underline()
			}
			s.DrawText(origin.X+col, y, text, core.MonoFont, style)
			col = end
		}
	}

	if caret.Line >= top && caret.Line-top < rows && origin.Y+caret.Line-top < f.Height {
		text := lines[caret.Line].Text
		x := origin.X + tabs.DisplayColumn(text, caret.Column)
		under := " "
		if runes := []rune(text); resolve.UTF16ToRune(text, caret.Column) < len(runes) {
			if r := runes[resolve.UTF16ToRune(text, caret.Column)]; r != '\t' {
				under = string(r)
			}
		}
		cursor := base
		cursor.Attributes |= core.AttrReverse
		s.DrawText(x, origin.Y+caret.Line-top, under, core.MonoFont, cursor)
	}
	return nil
}

// drawStatus paints the status bar on the bottom row.
func (a *Application) drawStatus(f overlay.Frame) []overlay.HitRegion {
	a.mu.Lock()
	bar := a.status
	bar.SetPosition(a.caret.Line+1, a.caret.Column+1)
	bar.SetTotalLines(len(a.lines))
	bar.SetLanguage(a.tracker.Tokenizer().Language())
	if _, ok := a.popups[highlight.PopupCompletion]; ok {
		bar.SetMode("COMPLETE")
	} else {
		bar.SetMode("VIEW")
	}
	if d := a.diagnostic; d != nil {
		bar.SetMessage(d.Severity.String()+": "+d.Message, messageType(d.Severity))
	} else {
		bar.ClearMessage()
	}
	a.mu.Unlock()

	bar.Draw(f.Surface, f.Height-bar.Height(), f.Width)
	return nil
}

func statusStyles(theme *highlight.Theme) statusline.Styles {
	bar := core.NewStyle(theme.Default).WithBackground(theme.Background.Blend(theme.Comment, 0.3))
	accent := theme.Unmatched
	if colors, ok := theme.Popups[highlight.PopupDiagnostic]; ok {
		accent = colors.Accent
	}
	return statusline.Styles{
		Bar:     bar,
		Mode:    core.NewStyle(theme.Background).WithBackground(theme.Keyword).Bold(),
		Warning: bar.WithForeground(accent),
		Error:   bar.WithForeground(theme.Unmatched).Bold(),
	}
}

func messageType(s popup.Severity) statusline.MessageType {
	switch s {
	case popup.SeverityError:
		return statusline.MessageError
	case popup.SeverityWarning:
		return statusline.MessageWarning
	default:
		return statusline.MessageInfo
	}
}

func drawGutterRow(s backend.Surface, theme *highlight.Theme, row gutter.Row, y int) {
	number := core.NewStyle(theme.Comment)
	if row.Current {
		number = core.NewStyle(theme.Default)
	}
	s.DrawText(1, y, row.Number, core.MonoFont, number.WithBackground(theme.Background))

	if row.Sign == gutter.SignNone {
		return
	}
	sign := core.NewStyle(theme.Punctuation)
	if row.Sign != gutter.SignBrace {
		sign = core.NewStyle(theme.Unmatched)
		if colors, ok := theme.Popups[highlight.PopupDiagnostic]; ok {
			sign = core.NewStyle(colors.Accent)
		}
	}
	s.DrawText(0, y, string(row.Sign.Glyph()), core.MonoFont, sign.WithBackground(theme.Background))
}

func newGutter(cfg config.EditorConfig) *gutter.Gutter {
	return gutter.New(gutter.Config{MinDigits: 1, Relative: cfg.RelativeNumbers})
}

func severitySign(s popup.Severity) gutter.SignType {
	switch s {
	case popup.SeverityError:
		return gutter.SignError
	case popup.SeverityWarning:
		return gutter.SignWarning
	case popup.SeverityInfo:
		return gutter.SignInfo
	default:
		return gutter.SignHint
	}
}

func isPairToken(p *resolve.MatchedPair, line, token int) bool {
	return (p.Open.Line == line && p.Open.TokenIndex == token) ||
		(p.Close.Line == line && p.Close.TokenIndex == token)
}

// RequestFrame schedules a redraw.
func (a *Application) RequestFrame() {
	a.scheduler.RequestFrame()
}

// Tick draws a frame immediately.
func (a *Application) Tick() {
	a.scheduler.Tick()
}

// Close commits any pending edit burst and releases the overlay.
func (a *Application) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.history.Flush()
	for _, kind := range a.popupKindsLocked() {
		a.hideLocked(kind)
	}
	a.mu.Unlock()

	a.scheduler.Close()
}
