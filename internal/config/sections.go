package config

import "time"

// Config is the complete codepad configuration.
type Config struct {
	Editor    EditorConfig    `toml:"editor" yaml:"editor"`
	History   HistoryConfig   `toml:"history" yaml:"history"`
	Scheduler SchedulerConfig `toml:"scheduler" yaml:"scheduler"`
	Popup     PopupConfig     `toml:"popup" yaml:"popup"`
	Theme     ThemeConfig     `toml:"theme" yaml:"theme"`
	Log       LogConfig       `toml:"log" yaml:"log"`
}

// EditorConfig holds highlighting and text settings.
type EditorConfig struct {
	// Language selects the tokenizer. Empty means detect from the file name.
	Language string `toml:"language" yaml:"language"`

	// TabWidth is the number of cells a tab advances to.
	TabWidth int `toml:"tab_width" yaml:"tab_width"`

	// RainbowDepths is the bracket palette size. Zero uses the theme's palette.
	RainbowDepths int `toml:"rainbow_depths" yaml:"rainbow_depths"`

	// RelativeNumbers numbers lines by distance from the caret line.
	RelativeNumbers bool `toml:"relative_numbers" yaml:"relative_numbers"`
}

// HistoryConfig holds undo/redo settings.
type HistoryConfig struct {
	// Capacity is the maximum number of undo entries.
	Capacity int `toml:"capacity" yaml:"capacity"`

	// DebounceMS is the quiet period that ends a typing burst.
	DebounceMS int `toml:"debounce_ms" yaml:"debounce_ms"`
}

// Debounce returns the debounce period as a duration.
func (h HistoryConfig) Debounce() time.Duration {
	return time.Duration(h.DebounceMS) * time.Millisecond
}

// SchedulerConfig holds overlay frame settings.
type SchedulerConfig struct {
	// FrameIntervalMS is the delay between a redraw request and the frame.
	FrameIntervalMS int `toml:"frame_interval_ms" yaml:"frame_interval_ms"`

	// ErrorLogIntervalMS limits logging of a failing drawable.
	ErrorLogIntervalMS int `toml:"error_log_interval_ms" yaml:"error_log_interval_ms"`

	// Continuous redraws every frame while popups are visible.
	Continuous bool `toml:"continuous" yaml:"continuous"`
}

// FrameInterval returns the frame interval as a duration.
func (s SchedulerConfig) FrameInterval() time.Duration {
	return time.Duration(s.FrameIntervalMS) * time.Millisecond
}

// ErrorLogInterval returns the error log interval as a duration.
func (s SchedulerConfig) ErrorLogInterval() time.Duration {
	return time.Duration(s.ErrorLogIntervalMS) * time.Millisecond
}

// PopupConfig holds popup placement and appearance settings.
type PopupConfig struct {
	// Budgets are the fractions of available width tried per quadrant.
	Budgets []float64 `toml:"budgets" yaml:"budgets"`

	PadX   int `toml:"pad_x" yaml:"pad_x"`
	PadY   int `toml:"pad_y" yaml:"pad_y"`
	Gap    int `toml:"gap" yaml:"gap"`
	Radius int `toml:"radius" yaml:"radius"`

	// MeasureCacheSize bounds the text measurement cache.
	MeasureCacheSize int `toml:"measure_cache_size" yaml:"measure_cache_size"`
}

// ThemeConfig selects and customizes the color theme.
type ThemeConfig struct {
	// Name is a built-in theme ("dark", "light") or a chroma style name.
	Name string `toml:"name" yaml:"name"`

	// Colors overrides individual colors, keyed like "keyword",
	// "rainbow.2" or "popup.completion.selected".
	Colors map[string]string `toml:"colors" yaml:"colors"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `toml:"level" yaml:"level"`

	// File is where logs are appended. Empty leaves the destination to
	// the caller.
	File string `toml:"file" yaml:"file"`
}
