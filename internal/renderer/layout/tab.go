package layout

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// DefaultTabWidth is the tab width used when none is configured.
const DefaultTabWidth = 4

// TabExpander converts source lines with tabs into display text.
type TabExpander struct {
	tabWidth int
}

// NewTabExpander creates a tab expander with the given tab width.
func NewTabExpander(tabWidth int) *TabExpander {
	if tabWidth < 1 {
		tabWidth = DefaultTabWidth
	}
	return &TabExpander{tabWidth: tabWidth}
}

// TabWidth returns the current tab width.
func (t *TabExpander) TabWidth() int {
	return t.tabWidth
}

// NextTabStop returns the next tab stop column after the given column.
func (t *TabExpander) NextTabStop(col int) int {
	return col + t.tabWidth - (col % t.tabWidth)
}

// ExpandedWidth returns the display width of s with tabs expanded.
func (t *TabExpander) ExpandedWidth(s string) int {
	col := 0
	t.walk(s, 0, func(cluster string, width int) {
		col += width
	})
	return col
}

// ExpandTabs returns s with tabs replaced by spaces up to the next stop.
func (t *TabExpander) ExpandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var sb strings.Builder
	t.walk(s, 0, func(cluster string, width int) {
		if cluster == "\t" {
			sb.WriteString(strings.Repeat(" ", width))
			return
		}
		sb.WriteString(cluster)
	})
	return sb.String()
}

// ExpandAt expands tabs in s as if s started at display column col. It
// returns the expanded text and the column after it.
func (t *TabExpander) ExpandAt(s string, col int) (string, int) {
	var sb strings.Builder
	t.walk(s, col, func(cluster string, width int) {
		if cluster == "\t" {
			sb.WriteString(strings.Repeat(" ", width))
		} else {
			sb.WriteString(cluster)
		}
		col += width
	})
	return sb.String(), col
}

// DisplayColumn converts a UTF-16 column of s into a display column.
func (t *TabExpander) DisplayColumn(s string, utf16Col int) int {
	col, units := 0, 0
	state := -1
	for len(s) > 0 && units < utf16Col {
		var cluster string
		cluster, s, _, state = uniseg.StepString(s, state)
		for _, r := range cluster {
			if r >= 0x10000 {
				units += 2
			} else {
				units++
			}
		}
		if cluster == "\t" {
			col = t.NextTabStop(col)
		} else {
			col += runewidth.StringWidth(cluster)
		}
	}
	return col
}

// walk visits each grapheme cluster of s with its display width.
func (t *TabExpander) walk(s string, col int, visit func(cluster string, width int)) {
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.StepString(s, state)
		w := runewidth.StringWidth(cluster)
		if cluster == "\t" {
			w = t.NextTabStop(col) - col
		}
		visit(cluster, w)
		col += w
	}
}
