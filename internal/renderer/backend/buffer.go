package backend

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/dshills/codepad/internal/renderer/core"
	"github.com/dshills/codepad/internal/renderer/layout"
)

// Cell is a single grid position.
type Cell struct {
	Rune  rune
	Combo []rune
	Width int // 1 normal, 2 wide, 0 continuation of a wide cell
	Style core.Style
}

// EmptyCell returns a blank cell in the default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Width: 1, Style: core.DefaultStyle()}
}

// continuationCell fills the second half of a wide character.
func continuationCell(style core.Style) Cell {
	return Cell{Width: 0, Style: style}
}

// Grid is a resizable two-dimensional cell store.
type Grid struct {
	width, height int
	cells         [][]Cell
}

// NewGrid creates a grid filled with empty cells.
func NewGrid(width, height int) *Grid {
	g := &Grid{}
	g.Resize(width, height)
	return g
}

// Size returns the grid dimensions.
func (g *Grid) Size() (width, height int) {
	return g.width, g.height
}

// Resize resizes the grid, preserving content where possible.
func (g *Grid) Resize(width, height int) {
	width, height = max(0, width), max(0, height)
	if width == g.width && height == g.height && g.cells != nil {
		return
	}

	old := g.cells
	cells := make([][]Cell, height)
	for y := range cells {
		cells[y] = make([]Cell, width)
		for x := range cells[y] {
			if y < len(old) && x < len(old[y]) {
				cells[y][x] = old[y][x]
			} else {
				cells[y][x] = EmptyCell()
			}
		}
	}
	g.cells = cells
	g.width, g.height = width, height
}

// Clear resets every cell.
func (g *Grid) Clear() {
	empty := EmptyCell()
	for y := range g.cells {
		for x := range g.cells[y] {
			g.cells[y][x] = empty
		}
	}
}

// SetCell sets a cell. Positions outside the grid are ignored.
func (g *Grid) SetCell(x, y int, cell Cell) {
	if x >= 0 && x < g.width && y >= 0 && y < g.height {
		g.cells[y][x] = cell
	}
}

// Cell returns the cell at a position, or an empty cell outside the grid.
func (g *Grid) Cell(x, y int) Cell {
	if x >= 0 && x < g.width && y >= 0 && y < g.height {
		return g.cells[y][x]
	}
	return EmptyCell()
}

// Row returns the text of row y, skipping wide-cell continuations.
func (g *Grid) Row(y int) string {
	if y < 0 || y >= g.height {
		return ""
	}
	var sb strings.Builder
	for _, c := range g.cells[y] {
		if c.Width == 0 {
			continue
		}
		sb.WriteRune(c.Rune)
		for _, r := range c.Combo {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// String returns the grid contents with trailing spaces trimmed per row.
func (g *Grid) String() string {
	rows := make([]string, g.height)
	for y := range rows {
		rows[y] = strings.TrimRight(g.Row(y), " ")
	}
	return strings.Join(rows, "\n")
}

// clip is one entry of the clip stack.
type clip struct {
	rect   core.Rect
	radius int
}

// canvas implements the drawing half of Surface over a cell setter.
type canvas struct {
	set   func(x, y int, cell Cell)
	get   func(x, y int) Cell
	clips []clip
}

func (c *canvas) resetClips() {
	c.clips = c.clips[:0]
}

func (c *canvas) pushClip(r core.Rect, radius int) {
	c.clips = append(c.clips, clip{rect: r, radius: radius})
}

func (c *canvas) popClip() {
	if len(c.clips) > 0 {
		c.clips = c.clips[:len(c.clips)-1]
	}
}

// visible reports whether a cell passes every clip on the stack.
func (c *canvas) visible(x, y int) bool {
	p := core.Point{X: x, Y: y}
	for _, cl := range c.clips {
		if !core.InRoundedRect(cl.rect, cl.radius, p) {
			return false
		}
	}
	return true
}

func (c *canvas) put(x, y int, cell Cell) {
	if c.visible(x, y) {
		c.set(x, y, cell)
	}
}

func (c *canvas) fillRect(r core.Rect, radius int, style core.Style) {
	for y := r.Top; y < r.Bottom; y++ {
		for x := r.Left; x < r.Right; x++ {
			if !core.InRoundedRect(r, radius, core.Point{X: x, Y: y}) {
				continue
			}
			cell := EmptyCell()
			cell.Style = style
			c.put(x, y, cell)
		}
	}
}

// Box drawing characters for borders.
const (
	boxHorizontal  = '─'
	boxVertical    = '│'
	boxTopLeft     = '┌'
	boxTopRight    = '┐'
	boxBottomLeft  = '└'
	boxBottomRight = '┘'
	arcTopLeft     = '╭'
	arcTopRight    = '╮'
	arcBottomLeft  = '╰'
	arcBottomRight = '╯'
)

func (c *canvas) strokeRect(r core.Rect, radius int, style core.Style) {
	if r.Width() < 2 || r.Height() < 2 {
		return
	}
	tl, tr, bl, br := boxTopLeft, boxTopRight, boxBottomLeft, boxBottomRight
	if radius > 0 {
		tl, tr, bl, br = arcTopLeft, arcTopRight, arcBottomLeft, arcBottomRight
	}

	border := func(x, y int, r rune) {
		// Borders keep the background already under them.
		under := c.get(x, y)
		st := style
		if st.Background.IsDefault() {
			st.Background = under.Style.Background
		}
		c.put(x, y, Cell{Rune: r, Width: 1, Style: st})
	}

	right, bottom := r.Right-1, r.Bottom-1
	for x := r.Left + 1; x < right; x++ {
		border(x, r.Top, boxHorizontal)
		border(x, bottom, boxHorizontal)
	}
	for y := r.Top + 1; y < bottom; y++ {
		border(r.Left, y, boxVertical)
		border(right, y, boxVertical)
	}
	border(r.Left, r.Top, tl)
	border(right, r.Top, tr)
	border(r.Left, bottom, bl)
	border(right, bottom, br)
}

// drawText writes graphemes left to right. Bold and italic fonts add the
// matching attributes; wide clusters occupy two cells.
func (c *canvas) drawText(x, y int, text string, font core.Font, style core.Style) {
	if font.Bold {
		style.Attributes |= core.AttrBold
	}
	if font.Italic {
		style.Attributes |= core.AttrItalic
	}

	state := -1
	for len(text) > 0 {
		var cluster string
		cluster, text, _, state = uniseg.StepString(text, state)

		if cluster == "\t" {
			for i := 0; i < layout.DefaultTabWidth; i++ {
				c.putStyled(x, y, ' ', nil, 1, style)
				x++
			}
			continue
		}

		w := runewidth.StringWidth(cluster)
		if w == 0 {
			continue
		}
		runes := []rune(cluster)
		c.putStyled(x, y, runes[0], runes[1:], w, style)
		if w == 2 {
			c.put(x+1, y, continuationCell(c.mergedStyle(x+1, y, style)))
		}
		x += w
	}
}

// putStyled writes a glyph, inheriting the background beneath it when the
// style leaves it unset.
func (c *canvas) putStyled(x, y int, r rune, combo []rune, width int, style core.Style) {
	if len(combo) == 0 {
		combo = nil
	}
	c.put(x, y, Cell{Rune: r, Combo: combo, Width: width, Style: c.mergedStyle(x, y, style)})
}

func (c *canvas) mergedStyle(x, y int, style core.Style) core.Style {
	if style.Background.IsDefault() {
		style.Background = c.get(x, y).Style.Background
	}
	return style
}
