// Package statusline renders the one row status bar at the bottom of the
// code view.
package statusline

import (
	"strconv"
	"sync"

	"github.com/dshills/codepad/internal/renderer/backend"
	"github.com/dshills/codepad/internal/renderer/core"
)

// MessageType indicates the type of status message.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageWarning
	MessageError
)

// Styles colors the status bar.
type Styles struct {
	Bar     core.Style
	Mode    core.Style
	Warning core.Style
	Error   core.Style
}

// StatusLine holds what the status bar shows.
type StatusLine struct {
	mu sync.Mutex

	mode     string
	filename string
	language string
	line     int
	col      int
	total    int

	message     string
	messageType MessageType

	styles Styles
}

// New creates a status line in VIEW mode.
func New(styles Styles) *StatusLine {
	return &StatusLine{mode: "VIEW", line: 1, col: 1, styles: styles}
}

// Height returns the rows the status line occupies.
func (s *StatusLine) Height() int { return 1 }

// SetStyles replaces the colors.
func (s *StatusLine) SetStyles(styles Styles) {
	s.mu.Lock()
	s.styles = styles
	s.mu.Unlock()
}

// SetMode sets the mode label.
func (s *StatusLine) SetMode(mode string) {
	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()
}

// SetFilename sets the file name. Empty shows [No Name].
func (s *StatusLine) SetFilename(name string) {
	s.mu.Lock()
	s.filename = name
	s.mu.Unlock()
}

// SetLanguage sets the highlighting language label.
func (s *StatusLine) SetLanguage(lang string) {
	s.mu.Lock()
	s.language = lang
	s.mu.Unlock()
}

// SetPosition sets the 1-based caret line and column.
func (s *StatusLine) SetPosition(line, col int) {
	s.mu.Lock()
	s.line, s.col = max(line, 1), max(col, 1)
	s.mu.Unlock()
}

// SetTotalLines sets the document length.
func (s *StatusLine) SetTotalLines(total int) {
	s.mu.Lock()
	s.total = total
	s.mu.Unlock()
}

// SetMessage shows a message in place of the file name.
func (s *StatusLine) SetMessage(msg string, typ MessageType) {
	s.mu.Lock()
	s.message, s.messageType = msg, typ
	s.mu.Unlock()
}

// ClearMessage removes the message.
func (s *StatusLine) ClearMessage() {
	s.SetMessage("", MessageNone)
}

// Segments returns the left and right text of the bar.
func (s *StatusLine) Segments() (left, right string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leftLocked(), s.positionLocked()
}

func (s *StatusLine) leftLocked() string {
	if s.message != "" {
		return s.message
	}
	name := s.filename
	if name == "" {
		name = "[No Name]"
	}
	if s.language != "" {
		name += " [" + s.language + "]"
	}
	return name
}

// positionLocked formats "Ln 12, Col 4 | 40%".
func (s *StatusLine) positionLocked() string {
	pos := "Ln " + strconv.Itoa(s.line) + ", Col " + strconv.Itoa(s.col)
	if s.total <= 1 {
		return pos
	}
	switch {
	case s.line == 1:
		return pos + " | Top"
	case s.line >= s.total:
		return pos + " | Bot"
	default:
		return pos + " | " + strconv.Itoa(s.line*100/s.total) + "%"
	}
}

// Draw paints the bar on a row of the surface.
func (s *StatusLine) Draw(surface backend.Surface, row, width int) {
	s.mu.Lock()
	mode := " " + s.mode + " "
	left, right := s.leftLocked(), s.positionLocked()
	styles, typ := s.styles, s.messageType
	s.mu.Unlock()

	surface.FillRect(core.RectFromSize(0, row, width, 1), 0, styles.Bar)
	surface.DrawText(0, row, mode, core.MonoFont, styles.Mode)

	leftStyle := styles.Bar
	switch typ {
	case MessageWarning:
		leftStyle = styles.Warning
	case MessageError:
		leftStyle = styles.Error
	}

	col := len(mode) + 1
	rightStart := width - len(right) - 1
	if room := rightStart - 1 - col; room > 0 {
		if runes := []rune(left); len(runes) > room {
			left = string(runes[:room])
		}
		surface.DrawText(col, row, left, core.MonoFont, leftStyle)
	}
	if rightStart > len(mode) {
		surface.DrawText(rightStart, row, right, core.MonoFont, styles.Bar)
	}
}
