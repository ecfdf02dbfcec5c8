// Package layout wraps styled text runs into rows for popups and paints them.
//
// All widths come from an injected MeasureFunc, so the wrapping logic is
// independent of the drawing surface.
package layout

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/codepad/internal/renderer/core"
)

// Run is a piece of text drawn in one font and style.
type Run struct {
	Text  string
	Font  core.Font
	Style core.Style

	// Group tags the run for hit testing; fragments of runs sharing a
	// non-empty Group can be located with Result.GroupBounds.
	Group string
}

// Fragment is a placed piece of a run, relative to the layout origin.
type Fragment struct {
	Text   string
	Font   core.Font
	Style  core.Style
	Group  string
	X, Y   int
	Width  int
	Height int

	run int
}

// Row is one line of wrapped output.
type Row struct {
	Y         int
	Height    int
	Width     int
	Fragments []Fragment
}

// Result is the outcome of laying out runs at a maximum width.
type Result struct {
	Width  int
	Height int
	Rows   []Row
}

// GroupBounds returns the rectangle covering all fragments of a group,
// relative to the layout origin. The rectangle spans whole rows.
func (r Result) GroupBounds(group string) (core.Rect, bool) {
	var bounds core.Rect
	found := false
	for _, row := range r.Rows {
		for _, f := range row.Fragments {
			if f.Group != group {
				continue
			}
			rect := core.RectFromSize(f.X, row.Y, f.Width, row.Height)
			if !found {
				bounds = rect
				found = true
				continue
			}
			bounds = bounds.Union(rect)
		}
	}
	return bounds, found
}

// Painter draws text at a position.
type Painter interface {
	DrawText(x, y int, text string, font core.Font, style core.Style)
}

// unitKind classifies the pieces a run is broken into.
type unitKind int

const (
	unitWord unitKind = iota
	unitSpace
	unitBreak
)

// splitUnits breaks text into words, whitespace runs and hard line breaks.
func splitUnits(text string) []string {
	var units []string
	start := 0
	kind := unitKind(-1)
	for i, r := range text {
		k := kindOf(r)
		if k == unitBreak {
			if i > start {
				units = append(units, text[start:i])
			}
			units = append(units, "\n")
			start = i + utf8.RuneLen(r)
			kind = -1
			continue
		}
		if kind >= 0 && k != kind {
			units = append(units, text[start:i])
			start = i
		}
		kind = k
	}
	if start < len(text) {
		units = append(units, text[start:])
	}
	return units
}

func kindOf(r rune) unitKind {
	switch {
	case r == '\n':
		return unitBreak
	case unicode.IsSpace(r):
		return unitSpace
	default:
		return unitWord
	}
}

// flow accumulates rows while laying out.
type flow struct {
	maxWidth int
	measure  MeasureFunc

	rows    []Row
	current Row
	x       int
	// inkX is the row width excluding trailing whitespace.
	inkX    int
	wrapped bool
	y       int
}

// Layout wraps runs to maxWidth. Words that do not fit on a fresh row are
// split between grapheme clusters; every row holds at least one cluster.
// Whitespace at the start of a soft-wrapped row is dropped.
func Layout(runs []Run, maxWidth int, measure MeasureFunc) Result {
	if maxWidth < 1 {
		maxWidth = 1
	}
	if measure == nil {
		measure = CellMeasure
	}
	f := &flow{maxWidth: maxWidth, measure: measure}

	pending := false
	var pendingFont core.Font
	for ri, run := range runs {
		for _, unit := range splitUnits(run.Text) {
			if pending {
				f.breakRow(pendingFont, false)
				pending = false
			}
			if unit == "\n" {
				pending = true
				pendingFont = run.Font
				continue
			}
			if kindOf(firstRune(unit)) == unitSpace {
				f.addSpace(ri, run, unit)
			} else {
				f.addWord(ri, run, unit)
			}
		}
	}
	if len(f.current.Fragments) > 0 || len(f.rows) == 0 && pending {
		f.breakRow(pendingFont, false)
	}

	res := Result{Rows: f.rows}
	for _, row := range f.rows {
		res.Width = max(res.Width, row.Width)
		res.Height = row.Y + row.Height
	}
	return res
}

// Paint lays out runs and draws every fragment relative to origin.
func Paint(p Painter, origin core.Point, runs []Run, maxWidth int, measure MeasureFunc) Result {
	res := Layout(runs, maxWidth, measure)
	PaintResult(p, origin, res)
	return res
}

// PaintResult draws a previously computed layout.
func PaintResult(p Painter, origin core.Point, res Result) {
	for _, row := range res.Rows {
		for _, frag := range row.Fragments {
			if strings.TrimSpace(frag.Text) == "" && frag.Style.Background.IsDefault() {
				continue
			}
			// Align shorter fonts to the row's baseline.
			y := origin.Y + row.Y + row.Height - frag.Height
			p.DrawText(origin.X+frag.X, y, frag.Text, frag.Font, frag.Style)
		}
	}
}

func (f *flow) addSpace(ri int, run Run, unit string) {
	if f.x == 0 && f.wrapped {
		return
	}
	w := f.measure(unit, run.Font)
	if f.x+w > f.maxWidth {
		if f.x == 0 {
			return
		}
		f.breakRow(run.Font, true)
		return
	}
	f.place(ri, run, unit, w)
}

func (f *flow) addWord(ri int, run Run, word string) {
	for word != "" {
		w := f.measure(word, run.Font)
		if f.x+w <= f.maxWidth {
			f.place(ri, run, word, w)
			f.inkX = f.x
			return
		}
		if f.x > 0 {
			f.breakRow(run.Font, true)
			continue
		}
		n := fitPrefix(word, run.Font, f.maxWidth, f.measure)
		head := word[:n]
		f.place(ri, run, head, f.measure(head, run.Font))
		f.inkX = f.x
		word = word[n:]
		if word != "" {
			f.breakRow(run.Font, true)
		}
	}
}

// place appends text to the current row, merging with the previous
// fragment when it came from the same run.
func (f *flow) place(ri int, run Run, text string, width int) {
	frags := f.current.Fragments
	if n := len(frags); n > 0 && frags[n-1].run == ri {
		frags[n-1].Text += text
		frags[n-1].Width += width
	} else {
		f.current.Fragments = append(frags, Fragment{
			Text:   text,
			Font:   run.Font,
			Style:  run.Style,
			Group:  run.Group,
			X:      f.x,
			Height: run.Font.Height(),
			Width:  width,
			run:    ri,
		})
	}
	f.x += width
}

// breakRow finishes the current row. font sizes an empty row.
func (f *flow) breakRow(font core.Font, soft bool) {
	row := f.current
	row.Y = f.y
	row.Width = f.inkX
	for _, frag := range row.Fragments {
		row.Height = max(row.Height, frag.Height)
	}
	if row.Height == 0 {
		row.Height = font.Height()
	}
	for i := range row.Fragments {
		row.Fragments[i].Y = row.Y
	}
	f.rows = append(f.rows, row)
	f.y += row.Height

	f.current = Row{}
	f.x = 0
	f.inkX = 0
	f.wrapped = soft
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}
