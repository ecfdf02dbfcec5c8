package popup

import (
	"strconv"
	"sync"

	"github.com/dshills/codepad/internal/renderer/core"
	"github.com/dshills/codepad/internal/renderer/highlight"
	"github.com/dshills/codepad/internal/renderer/layout"
	"github.com/dshills/codepad/internal/renderer/overlay"
)

// CompletionItem is one completion entry.
type CompletionItem struct {
	Label  string
	Detail string
}

// Completion is an interactive list of completion items. Hovering an item
// selects it and pressing it accepts it.
type Completion struct {
	mu       sync.Mutex
	items    []CompletionItem
	selected int

	onAccept func(item CompletionItem)
	onChange func()
}

// NewCompletion creates a completion list. onAccept runs when an item is
// accepted; onChange runs when the selection moves and a redraw is due.
func NewCompletion(items []CompletionItem, onAccept func(CompletionItem), onChange func()) *Completion {
	return &Completion{items: items, onAccept: onAccept, onChange: onChange}
}

// Kind implements Content.
func (c *Completion) Kind() string {
	return highlight.PopupCompletion
}

// Interactive implements Interactive.
func (c *Completion) Interactive() bool {
	return true
}

// Items returns the items.
func (c *Completion) Items() []CompletionItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]CompletionItem(nil), c.items...)
}

// Selected returns the selected index, or -1 for an empty list.
func (c *Completion) Selected() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) == 0 {
		return -1
	}
	return c.selected
}

// Select moves the selection to index i, clamped to the list.
func (c *Completion) Select(i int) {
	c.mu.Lock()
	if len(c.items) == 0 {
		c.mu.Unlock()
		return
	}
	i = max(0, min(i, len(c.items)-1))
	changed := i != c.selected
	c.selected = i
	onChange := c.onChange
	c.mu.Unlock()

	if changed && onChange != nil {
		onChange()
	}
}

// Next selects the next item, wrapping around.
func (c *Completion) Next() {
	c.step(1)
}

// Prev selects the previous item, wrapping around.
func (c *Completion) Prev() {
	c.step(-1)
}

func (c *Completion) step(delta int) {
	c.mu.Lock()
	n := len(c.items)
	if n == 0 {
		c.mu.Unlock()
		return
	}
	next := ((c.selected+delta)%n + n) % n
	c.mu.Unlock()
	c.Select(next)
}

// Accept accepts the selected item. It returns false for an empty list.
func (c *Completion) Accept() bool {
	c.mu.Lock()
	if len(c.items) == 0 {
		c.mu.Unlock()
		return false
	}
	item := c.items[c.selected]
	onAccept := c.onAccept
	c.mu.Unlock()

	if onAccept != nil {
		onAccept(item)
	}
	return true
}

// Runs implements Content. Each item is its own layout group.
func (c *Completion) Runs(colors highlight.PopupColors, font core.Font) []layout.Run {
	c.mu.Lock()
	defer c.mu.Unlock()

	detailFont := font
	detailFont.Italic = true

	var runs []layout.Run
	for i, item := range c.items {
		group := strconv.Itoa(i)
		style := core.NewStyle(colors.Text)
		if i == c.selected {
			style = style.WithBackground(colors.Selected)
		}
		text := item.Label
		if i < len(c.items)-1 && item.Detail == "" {
			text += "\n"
		}
		runs = append(runs, layout.Run{Text: text, Font: font, Style: style, Group: group})

		if item.Detail != "" {
			detail := "  " + item.Detail
			if i < len(c.items)-1 {
				detail += "\n"
			}
			ds := core.NewStyle(colors.Accent)
			if i == c.selected {
				ds = ds.WithBackground(colors.Selected)
			}
			runs = append(runs, layout.Run{Text: detail, Font: detailFont, Style: ds, Group: group})
		}
	}
	return runs
}

// Regions implements Content. Every item gets a region spanning the full
// content width.
func (c *Completion) Regions(res layout.Result, origin core.Point, bounds core.Rect) []overlay.HitRegion {
	c.mu.Lock()
	n := len(c.items)
	c.mu.Unlock()

	regions := make([]overlay.HitRegion, 0, n)
	for i := 0; i < n; i++ {
		r, ok := res.GroupBounds(strconv.Itoa(i))
		if !ok {
			continue
		}
		rect := core.Rect{
			Left:   origin.X,
			Top:    origin.Y + r.Top,
			Right:  origin.X + res.Width,
			Bottom: origin.Y + r.Bottom,
		}
		idx := i
		regions = append(regions, overlay.HitRegion{
			Rect:     clampRect(rect, bounds),
			OnHover:  func() { c.Select(idx) },
			OnSelect: func() { c.Select(idx); c.Accept() },
		})
	}
	return regions
}

// clampRect intersects r with bounds.
func clampRect(r, bounds core.Rect) core.Rect {
	return core.Rect{
		Left:   max(r.Left, bounds.Left),
		Top:    max(r.Top, bounds.Top),
		Right:  min(r.Right, bounds.Right),
		Bottom: min(r.Bottom, bounds.Bottom),
	}
}
