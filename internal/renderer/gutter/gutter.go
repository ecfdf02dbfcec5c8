// Package gutter formats the line number column to the left of the code.
//
// A gutter cell row is laid out as a one cell sign column, the line number
// right-aligned, and one separating space.
package gutter

import (
	"strconv"
	"strings"
	"sync"
)

// SignType marks a line in the sign column.
type SignType uint8

const (
	SignNone SignType = iota
	SignBrace
	SignHint
	SignInfo
	SignWarning
	SignError
)

// Glyph returns the rune drawn for the sign.
func (s SignType) Glyph() rune {
	switch s {
	case SignError:
		return 'E'
	case SignWarning:
		return 'W'
	case SignInfo:
		return 'I'
	case SignHint:
		return 'H'
	case SignBrace:
		return '┃'
	default:
		return ' '
	}
}

// Config holds gutter settings.
type Config struct {
	// MinDigits is the narrowest number column.
	MinDigits int

	// Relative numbers lines by distance from the current line. The
	// current line keeps its absolute number.
	Relative bool
}

// DefaultConfig returns the default gutter settings.
func DefaultConfig() Config {
	return Config{MinDigits: 1}
}

// Gutter tracks what the line number column shows.
type Gutter struct {
	mu      sync.RWMutex
	cfg     Config
	lines   int
	current int
	signs   map[int]SignType
}

// New creates a gutter.
func New(cfg Config) *Gutter {
	if cfg.MinDigits < 1 {
		cfg.MinDigits = 1
	}
	return &Gutter{cfg: cfg, lines: 1, signs: make(map[int]SignType)}
}

// Width returns the cells the gutter needs for the current line count.
func (g *Gutter) Width() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.digitsLocked() + 2
}

func (g *Gutter) digitsLocked() int {
	return max(g.cfg.MinDigits, CountDigits(g.lines))
}

// SetLineCount updates the number of document lines.
func (g *Gutter) SetLineCount(n int) {
	g.mu.Lock()
	g.lines = max(n, 1)
	g.mu.Unlock()
}

// SetCurrentLine sets the caret line (0-based).
func (g *Gutter) SetCurrentLine(line int) {
	g.mu.Lock()
	g.current = line
	g.mu.Unlock()
}

// SetSign marks a line. A weaker sign never replaces a stronger one.
func (g *Gutter) SetSign(line int, sign SignType) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if sign > g.signs[line] {
		g.signs[line] = sign
	}
}

// Sign returns the sign on a line.
func (g *Gutter) Sign(line int) SignType {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.signs[line]
}

// ClearSigns removes every sign.
func (g *Gutter) ClearSigns() {
	g.mu.Lock()
	clear(g.signs)
	g.mu.Unlock()
}

// Row is one formatted gutter line.
type Row struct {
	Sign    SignType
	Number  string
	Current bool
}

// String renders the row at its natural width.
func (r Row) String() string {
	return string(r.Sign.Glyph()) + r.Number + " "
}

// Line formats the gutter for a 0-based line, fitting the number column
// to width cells. A width below the sign and separator yields an empty
// number.
func (g *Gutter) Line(line, width int) Row {
	g.mu.RLock()
	defer g.mu.RUnlock()

	row := Row{Sign: g.signs[line], Current: line == g.current}
	digits := width - 2
	if digits <= 0 {
		return row
	}
	n := line + 1
	if g.cfg.Relative && !row.Current {
		n = line - g.current
		if n < 0 {
			n = -n
		}
	}
	row.Number = PadLeft(strconv.Itoa(n), digits)
	return row
}

// CountDigits returns the decimal digits in n.
func CountDigits(n int) int {
	if n < 0 {
		n = -n
	}
	d := 1
	for n >= 10 {
		n /= 10
		d++
	}
	return d
}

// PadLeft right-aligns s in width cells. Longer strings keep their tail.
func PadLeft(s string, width int) string {
	if len(s) >= width {
		return s[len(s)-width:]
	}
	return strings.Repeat(" ", width-len(s)) + s
}
