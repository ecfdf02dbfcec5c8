// Package core provides shared geometry and styling types for the renderer
// subsystem. This package breaks import cycles between the overlay scheduler,
// the popup solver and the drawing backends.
package core

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Attribute represents text attributes (bold, italic, etc.).
type Attribute uint16

// Text attribute flags.
const (
	AttrNone          Attribute = 0
	AttrBold          Attribute = 1 << iota
	AttrDim                     // Faint/dim text
	AttrItalic                  // Italic text
	AttrUnderline               // Underlined text
	AttrReverse                 // Reverse video (swap fg/bg)
	AttrStrikethrough           // Strikethrough text
)

// Has returns true if the attribute set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// Color represents a color value.
type Color struct {
	R, G, B uint8
	// Default indicates this is the surface's default color.
	Default bool
}

// ColorDefault represents the surface's default color.
var ColorDefault = Color{Default: true}

// ColorFromRGB creates a color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromHex creates a color from a "#RRGGBB" or "#RGB" string.
func ColorFromHex(hex string) (Color, error) {
	hex = strings.TrimSpace(hex)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// MustHex is like ColorFromHex but panics on malformed input.
// It is intended for built-in theme tables.
func MustHex(hex string) Color {
	c, err := ColorFromHex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// IsDefault returns true if this is the default/transparent color.
func (c Color) IsDefault() bool {
	return c.Default
}

// Equals returns true if two colors are equal.
func (c Color) Equals(other Color) bool {
	if c.Default || other.Default {
		return c.Default == other.Default
	}
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// String returns a string representation of the color.
func (c Color) String() string {
	if c.Default {
		return "default"
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

// Blend mixes c towards other in Lab space. amount 0 yields c, 1 yields other.
// Default colors are returned unchanged.
func (c Color) Blend(other Color, amount float64) Color {
	if c.Default || other.Default {
		return c
	}
	return fromColorful(c.colorful().BlendLab(other.colorful(), amount))
}

// Lighten returns a lighter version of the color.
func (c Color) Lighten(amount float64) Color {
	return c.Blend(Color{R: 255, G: 255, B: 255}, amount)
}

// Darken returns a darker version of the color.
func (c Color) Darken(amount float64) Color {
	return c.Blend(Color{}, amount)
}

// Style represents the visual style of painted text or fills.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle returns the default style.
func DefaultStyle() Style {
	return Style{Foreground: ColorDefault, Background: ColorDefault}
}

// NewStyle creates a style with the given foreground color.
func NewStyle(fg Color) Style {
	return Style{Foreground: fg, Background: ColorDefault}
}

// WithForeground returns a new style with the given foreground color.
func (s Style) WithForeground(fg Color) Style {
	s.Foreground = fg
	return s
}

// WithBackground returns a new style with the given background color.
func (s Style) WithBackground(bg Color) Style {
	s.Background = bg
	return s
}

// Bold returns a new style with bold attribute added.
func (s Style) Bold() Style {
	s.Attributes |= AttrBold
	return s
}

// Italic returns a new style with italic attribute added.
func (s Style) Italic() Style {
	s.Attributes |= AttrItalic
	return s
}

// Underline returns a new style with underline attribute added.
func (s Style) Underline() Style {
	s.Attributes |= AttrUnderline
	return s
}

// Merge combines two styles; non-default fields of other win.
func (s Style) Merge(other Style) Style {
	result := s
	if !other.Foreground.IsDefault() {
		result.Foreground = other.Foreground
	}
	if !other.Background.IsDefault() {
		result.Background = other.Background
	}
	result.Attributes |= other.Attributes
	return result
}

// Equals returns true if two styles are identical.
func (s Style) Equals(other Style) bool {
	return s.Foreground.Equals(other.Foreground) &&
		s.Background.Equals(other.Background) &&
		s.Attributes == other.Attributes
}

// Font describes how a run of text is measured and painted.
// Backends that cannot vary font size (terminals) only honor Bold/Italic.
type Font struct {
	Family     string
	Size       int
	Bold       bool
	Italic     bool
	LineHeight int
}

// MonoFont is the font used by cell-based surfaces: one unit per row.
var MonoFont = Font{Family: "monospace", Size: 1, LineHeight: 1}

// Height returns the font's line height, never less than one unit.
func (f Font) Height() int {
	if f.LineHeight <= 0 {
		return 1
	}
	return f.LineHeight
}

// Point is a position on a drawing surface.
type Point struct {
	X, Y int
}

// Rect represents a rectangular region on a surface.
type Rect struct {
	Left   int // First column (inclusive)
	Top    int // First row (inclusive)
	Right  int // Last column (exclusive)
	Bottom int // Last row (exclusive)
}

// RectFromSize creates a rectangle from position and size.
func RectFromSize(left, top, width, height int) Rect {
	return Rect{Left: left, Top: top, Right: left + width, Bottom: top + height}
}

// Width returns the width of the rectangle.
func (r Rect) Width() int {
	if r.Right <= r.Left {
		return 0
	}
	return r.Right - r.Left
}

// Height returns the height of the rectangle.
func (r Rect) Height() int {
	if r.Bottom <= r.Top {
		return 0
	}
	return r.Bottom - r.Top
}

// IsEmpty returns true if the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width() == 0 || r.Height() == 0
}

// Contains returns true if p is within the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Right && p.Y >= r.Top && p.Y < r.Bottom
}

// ContainsRect returns true if other is entirely within r.
func (r Rect) ContainsRect(other Rect) bool {
	return other.Top >= r.Top && other.Bottom <= r.Bottom &&
		other.Left >= r.Left && other.Right <= r.Right
}

// Intersects returns true if two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return !r.IsEmpty() && !other.IsEmpty() &&
		r.Left < other.Right && other.Left < r.Right &&
		r.Top < other.Bottom && other.Top < r.Bottom
}

// Union returns the smallest rectangle containing both.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return Rect{
		Left:   min(r.Left, other.Left),
		Top:    min(r.Top, other.Top),
		Right:  max(r.Right, other.Right),
		Bottom: max(r.Bottom, other.Bottom),
	}
}

// Inset shrinks the rectangle by n on every side.
func (r Rect) Inset(n int) Rect {
	return Rect{Left: r.Left + n, Top: r.Top + n, Right: r.Right - n, Bottom: r.Bottom - n}
}

// Overflow returns how many units of r lie outside bounds, summed per edge.
func (r Rect) Overflow(bounds Rect) int {
	return max(0, bounds.Left-r.Left) +
		max(0, r.Right-bounds.Right) +
		max(0, bounds.Top-r.Top) +
		max(0, r.Bottom-bounds.Bottom)
}

// InRoundedRect reports whether the unit cell at p lies inside r once its
// corners are rounded with the given radius. Cell centers are tested.
func InRoundedRect(r Rect, radius int, p Point) bool {
	if !r.Contains(p) {
		return false
	}
	if radius <= 0 {
		return true
	}
	radius = min(radius, r.Width()/2, r.Height()/2)
	if radius <= 0 {
		return true
	}

	px := float64(p.X) + 0.5
	py := float64(p.Y) + 0.5
	rad := float64(radius)

	var cx, cy float64
	switch {
	case px < float64(r.Left)+rad:
		cx = float64(r.Left) + rad
	case px > float64(r.Right)-rad:
		cx = float64(r.Right) - rad
	default:
		return true
	}
	switch {
	case py < float64(r.Top)+rad:
		cy = float64(r.Top) + rad
	case py > float64(r.Bottom)-rad:
		cy = float64(r.Bottom) - rad
	default:
		return true
	}
	dx, dy := px-cx, py-cy
	return dx*dx+dy*dy <= rad*rad
}
