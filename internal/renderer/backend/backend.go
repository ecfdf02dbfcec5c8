// Package backend provides drawing surfaces for the overlay scheduler.
//
// A Surface is a unit grid: one unit per terminal cell. Two surfaces are
// provided: Memory, an in-process grid used for tests and text dumps, and
// Terminal, which draws onto a tcell screen.
package backend

import "github.com/dshills/codepad/internal/renderer/core"

// Surface is the drawing target shared by all overlay drawables.
type Surface interface {
	// Size returns the surface dimensions.
	Size() (width, height int)

	// Resize changes the surface dimensions.
	Resize(width, height int)

	// Clear resets the surface before a frame is drawn.
	Clear()

	// FillRect fills r with style's background. Corners outside the
	// rounded shape of the given radius are left untouched.
	FillRect(r core.Rect, radius int, style core.Style)

	// StrokeRect draws a one-unit border along the edge of r.
	StrokeRect(r core.Rect, radius int, style core.Style)

	// DrawText draws a single row of text starting at (x, y).
	DrawText(x, y int, text string, font core.Font, style core.Style)

	// PushClip restricts drawing to r, intersected with the current clip.
	PushClip(r core.Rect, radius int)

	// PopClip removes the most recent clip.
	PopClip()

	// Flush presents everything drawn since the last Clear.
	Flush()

	// Close releases the surface.
	Close()
}

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
)

// Event represents a terminal event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune
	Mod  ModMask

	// Mouse event fields
	MouseX, MouseY int
	MouseButton    MouseButton

	// Resize event fields
	Width, Height int
}

// Key represents a keyboard key.
type Key int

// Key constants for the keys the preview handles.
const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyHome
	KeyEnd
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlC
	KeyCtrlY
	KeyCtrlZ
)

// ModMask represents modifier key state.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// MouseButton represents mouse button state.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)
