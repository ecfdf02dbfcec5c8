package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a configuration file format.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFor returns the format for a file name.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Editor: EditorConfig{
			TabWidth: 4,
		},
		History: HistoryConfig{
			Capacity:   1000,
			DebounceMS: 500,
		},
		Scheduler: SchedulerConfig{
			FrameIntervalMS:    16,
			ErrorLogIntervalMS: 1000,
			Continuous:         true,
		},
		Popup: PopupConfig{
			Budgets:          []float64{0.25, 0.5, 0.75, 1},
			PadX:             2,
			PadY:             1,
			Gap:              0,
			Radius:           1,
			MeasureCacheSize: 4096,
		},
		Theme: ThemeConfig{
			Name: "dark",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads and validates a configuration file. Keys missing from the
// file keep their defaults.
func Load(path string) (Config, error) {
	format, err := FormatFor(path)
	if err != nil {
		return Default(), err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return Default(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg, err := Parse(path, data, format)
	if err != nil {
		return Default(), err
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data over the defaults. Unknown keys are rejected.
func Parse(source string, data []byte, format Format) (Config, error) {
	cfg := Default()

	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Default(), tomlParseError(source, err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Default(), &ParseError{Path: source, Message: err.Error(), Err: err}
		}
	default:
		return Default(), fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return cfg, nil
}

func tomlParseError(source string, err error) error {
	pe := &ParseError{Path: source, Message: err.Error(), Err: err}

	var decErr *toml.DecodeError
	if errors.As(err, &decErr) {
		pe.Line, pe.Column = decErr.Position()
	}
	return pe
}

// Validate checks every setting and returns all failures joined.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, path, msg string, value any) {
		if !ok {
			errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value})
		}
	}

	check(c.Editor.TabWidth >= 1 && c.Editor.TabWidth <= 16, "editor.tab_width", "must be between 1 and 16", c.Editor.TabWidth)
	check(c.Editor.RainbowDepths >= 0 && c.Editor.RainbowDepths <= 64, "editor.rainbow_depths", "must be between 0 and 64", c.Editor.RainbowDepths)

	check(c.History.Capacity >= 1, "history.capacity", "must be positive", c.History.Capacity)
	check(c.History.DebounceMS >= 1, "history.debounce_ms", "must be positive", c.History.DebounceMS)

	check(c.Scheduler.FrameIntervalMS >= 1, "scheduler.frame_interval_ms", "must be positive", c.Scheduler.FrameIntervalMS)
	check(c.Scheduler.ErrorLogIntervalMS >= 1, "scheduler.error_log_interval_ms", "must be positive", c.Scheduler.ErrorLogIntervalMS)

	check(len(c.Popup.Budgets) > 0, "popup.budgets", "must not be empty", c.Popup.Budgets)
	for i, b := range c.Popup.Budgets {
		check(b > 0 && b <= 1, fmt.Sprintf("popup.budgets[%d]", i), "must be in (0, 1]", b)
	}
	check(c.Popup.PadX >= 0, "popup.pad_x", "must not be negative", c.Popup.PadX)
	check(c.Popup.PadY >= 0, "popup.pad_y", "must not be negative", c.Popup.PadY)
	check(c.Popup.Gap >= 0, "popup.gap", "must not be negative", c.Popup.Gap)
	check(c.Popup.Radius >= 0, "popup.radius", "must not be negative", c.Popup.Radius)
	check(c.Popup.MeasureCacheSize >= 0, "popup.measure_cache_size", "must not be negative", c.Popup.MeasureCacheSize)

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		check(false, "log.level", "must be debug, info, warn or error", c.Log.Level)
	}

	return errors.Join(errs...)
}
