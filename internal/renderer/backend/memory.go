package backend

import (
	"sync"

	"github.com/dshills/codepad/internal/renderer/core"
)

// Memory is an in-process Surface backed by a Grid.
type Memory struct {
	mu      sync.Mutex
	grid    *Grid
	canvas  canvas
	flushes int
	closed  bool
}

// NewMemory creates a memory surface with the given dimensions.
func NewMemory(width, height int) *Memory {
	m := &Memory{grid: NewGrid(width, height)}
	m.canvas = canvas{set: m.grid.SetCell, get: m.grid.Cell}
	return m
}

func (m *Memory) Size() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.grid.Size()
}

func (m *Memory) Resize(width, height int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grid.Resize(width, height)
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grid.Clear()
	m.canvas.resetClips()
}

func (m *Memory) FillRect(r core.Rect, radius int, style core.Style) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.canvas.fillRect(r, radius, style)
}

func (m *Memory) StrokeRect(r core.Rect, radius int, style core.Style) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.canvas.strokeRect(r, radius, style)
}

func (m *Memory) DrawText(x, y int, text string, font core.Font, style core.Style) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.canvas.drawText(x, y, text, font, style)
}

func (m *Memory) PushClip(r core.Rect, radius int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.canvas.pushClip(r, radius)
}

func (m *Memory) PopClip() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.canvas.popClip()
}

func (m *Memory) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushes++
}

func (m *Memory) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

// Cell returns the cell at a position for inspection.
func (m *Memory) Cell(x, y int) Cell {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.grid.Cell(x, y)
}

// Row returns the text of row y.
func (m *Memory) Row(y int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.grid.Row(y)
}

// String returns the surface contents as text.
func (m *Memory) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.grid.String()
}

// Flushes returns how many times Flush was called.
func (m *Memory) Flushes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flushes
}

// Closed reports whether Close was called.
func (m *Memory) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// ClipDepth returns the number of active clips.
func (m *Memory) ClipDepth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.canvas.clips)
}
