package core

import (
	"testing"
)

func TestColorDefault(t *testing.T) {
	c := ColorDefault
	if !c.IsDefault() {
		t.Error("ColorDefault should be default")
	}
	if !c.Equals(Color{Default: true, R: 9}) {
		t.Error("default colors should compare equal regardless of components")
	}
}

func TestColorFromHex(t *testing.T) {
	tests := []struct {
		hex     string
		r, g, b uint8
		wantErr bool
	}{
		{"#FF8040", 255, 128, 64, false},
		{"#ff8040", 255, 128, 64, false},
		{"FF8040", 255, 128, 64, false},
		{"#FFF", 255, 255, 255, false},
		{"#000", 0, 0, 0, false},
		{"invalid", 0, 0, 0, true},
		{"#GGG", 0, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			c, err := ColorFromHex(tt.hex)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ColorFromHex(%q) expected error", tt.hex)
				}
				return
			}
			if err != nil {
				t.Fatalf("ColorFromHex(%q) error: %v", tt.hex, err)
			}
			if c.R != tt.r || c.G != tt.g || c.B != tt.b {
				t.Errorf("ColorFromHex(%q) = %v, want #%02X%02X%02X", tt.hex, c, tt.r, tt.g, tt.b)
			}
		})
	}
}

func TestColorBlendEndpoints(t *testing.T) {
	a := ColorFromRGB(10, 20, 30)
	b := ColorFromRGB(200, 100, 50)

	if got := a.Blend(b, 0); !near(got, a) {
		t.Errorf("Blend(0) = %v, want %v", got, a)
	}
	if got := a.Blend(b, 1); !near(got, b) {
		t.Errorf("Blend(1) = %v, want %v", got, b)
	}
	if got := ColorDefault.Blend(b, 0.5); !got.IsDefault() {
		t.Error("blending a default color should keep it default")
	}
}

func TestStyleMerge(t *testing.T) {
	base := NewStyle(ColorFromRGB(1, 2, 3)).WithBackground(ColorFromRGB(4, 5, 6))
	over := DefaultStyle().WithForeground(ColorFromRGB(7, 8, 9)).Bold()

	got := base.Merge(over)
	if !got.Foreground.Equals(ColorFromRGB(7, 8, 9)) {
		t.Errorf("foreground = %v", got.Foreground)
	}
	if !got.Background.Equals(ColorFromRGB(4, 5, 6)) {
		t.Errorf("background = %v", got.Background)
	}
	if !got.Attributes.Has(AttrBold) {
		t.Error("merged style lost bold")
	}
}

func TestRectGeometry(t *testing.T) {
	r := RectFromSize(2, 3, 10, 4)

	if r.Width() != 10 || r.Height() != 4 {
		t.Fatalf("size = %dx%d, want 10x4", r.Width(), r.Height())
	}
	if !r.Contains(Point{X: 2, Y: 3}) {
		t.Error("top-left corner should be inside")
	}
	if r.Contains(Point{X: 12, Y: 3}) {
		t.Error("right edge is exclusive")
	}
	if !r.Intersects(RectFromSize(11, 6, 5, 5)) {
		t.Error("overlapping rect should intersect")
	}
	if r.Intersects(RectFromSize(12, 3, 5, 5)) {
		t.Error("touching rect should not intersect")
	}
}

func TestRectOverflow(t *testing.T) {
	bounds := RectFromSize(0, 0, 100, 50)

	tests := []struct {
		name string
		r    Rect
		want int
	}{
		{"inside", RectFromSize(10, 10, 20, 20), 0},
		{"right", RectFromSize(90, 10, 20, 20), 10},
		{"top-left", RectFromSize(-5, -3, 20, 20), 8},
		{"larger than bounds", RectFromSize(-1, -1, 102, 52), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Overflow(bounds); got != tt.want {
				t.Errorf("Overflow() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInRoundedRect(t *testing.T) {
	r := RectFromSize(0, 0, 10, 10)

	if InRoundedRect(r, 3, Point{X: 0, Y: 0}) {
		t.Error("corner cell should be clipped by radius 3")
	}
	if !InRoundedRect(r, 3, Point{X: 5, Y: 0}) {
		t.Error("top edge midpoint should be inside")
	}
	if !InRoundedRect(r, 0, Point{X: 0, Y: 0}) {
		t.Error("radius 0 keeps corners")
	}
	if InRoundedRect(r, 3, Point{X: 10, Y: 5}) {
		t.Error("points outside the rect are never inside")
	}
}

func near(a, b Color) bool {
	d := func(x, y uint8) int {
		if x > y {
			return int(x - y)
		}
		return int(y - x)
	}
	return d(a.R, b.R) <= 1 && d(a.G, b.G) <= 1 && d(a.B, b.B) <= 1
}
