package layout

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/dshills/codepad/internal/renderer/core"
)

// MeasureFunc returns the width of text in surface units when drawn in font.
type MeasureFunc func(text string, font core.Font) int

// CellMeasure measures text in terminal cells. Each grapheme cluster counts
// its display width; tabs count as DefaultTabWidth cells. Font size is
// ignored since cells have a fixed size.
func CellMeasure(text string, font core.Font) int {
	width := 0
	state := -1
	for len(text) > 0 {
		var cluster string
		cluster, text, _, state = uniseg.StepString(text, state)
		if cluster == "\t" {
			width += DefaultTabWidth
			continue
		}
		width += runewidth.StringWidth(cluster)
	}
	return width
}

// graphemeBounds returns the byte offsets at which each grapheme cluster of
// s ends.
func graphemeBounds(s string) []int {
	bounds := make([]int, 0, len(s))
	offset := 0
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		offset += len(cluster)
		bounds = append(bounds, offset)
	}
	return bounds
}

// fitPrefix returns the byte length of the longest grapheme prefix of word
// that fits in width, never less than one cluster.
func fitPrefix(word string, font core.Font, width int, measure MeasureFunc) int {
	bounds := graphemeBounds(word)
	if len(bounds) == 0 {
		return 0
	}
	lo, hi := 1, len(bounds)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if measure(word[:bounds[mid-1]], font) <= width {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return bounds[lo-1]
}
