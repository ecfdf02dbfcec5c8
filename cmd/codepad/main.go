// Package main is the entry point for codepad, a terminal code viewer with
// rainbow brackets and caret-anchored popups.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dshills/codepad/internal/app"
	"github.com/dshills/codepad/internal/config"
	"github.com/dshills/codepad/internal/renderer/backend"
	"github.com/dshills/codepad/internal/renderer/core"
	"github.com/dshills/codepad/internal/renderer/gutter"
	"github.com/dshills/codepad/internal/renderer/highlight"
	"github.com/dshills/codepad/internal/renderer/popup"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// options holds the parsed command line.
type options struct {
	configPath string
	language   string
	logLevel   string
	line, col  int
	dump       bool
	width      int
	height     int
	diagnostic string
	file       string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, ok := parseFlags()
	if !ok {
		return 2
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	source, err := readSource(opts.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// The interactive preview owns the terminal, so logs only go to stderr
	// in dump mode.
	var fallback io.Writer = io.Discard
	if opts.dump {
		fallback = os.Stderr
	}
	logger, closer, err := app.OpenLogger(cfg.Log, fallback)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closer.Close()

	if opts.dump {
		err = dump(os.Stdout, cfg, opts, source, logger)
	} else {
		err = preview(cfg, opts, source, logger)
	}
	if err != nil && !errors.Is(err, errQuit) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() (options, bool) {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "Path to a TOML or YAML configuration file")
	flag.StringVar(&opts.language, "lang", "", "Language of the file (default: detect from extension)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.IntVar(&opts.line, "line", 1, "Initial caret line (1-based)")
	flag.IntVar(&opts.col, "col", 1, "Initial caret column (1-based, UTF-16 units)")
	flag.BoolVar(&opts.dump, "dump", false, "Render one frame to stdout instead of opening the terminal")
	flag.IntVar(&opts.width, "width", 80, "Frame width for -dump")
	flag.IntVar(&opts.height, "height", 24, "Frame height for -dump")
	flag.StringVar(&opts.diagnostic, "diag", "", `Diagnostic to show at the caret, as "severity: message"`)
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "codepad - view code with rainbow brackets and signature help\n\n")
		fmt.Fprintf(os.Stderr, "Usage: codepad [options] file\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  arrows     move the caret\n")
		fmt.Fprintf(os.Stderr, "  tab        complete the word before the caret\n")
		fmt.Fprintf(os.Stderr, "  enter      accept the selected completion\n")
		fmt.Fprintf(os.Stderr, "  esc        close popups, or quit\n")
		fmt.Fprintf(os.Stderr, "  q          quit\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("codepad %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		return opts, false
	}
	opts.file = flag.Arg(0)
	return opts, true
}

// loadConfig reads the configuration file, if any, and applies flag
// overrides.
func loadConfig(opts options) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return cfg, err
		}
	}
	if opts.language != "" {
		cfg.Editor.Language = opts.language
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	return cfg, cfg.Validate()
}

func readSource(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// newApplication creates the session shared by both modes and places the
// caret.
func newApplication(cfg config.Config, opts options, source string, width, height int, extra ...app.Option) (*app.Application, error) {
	g := gutter.New(gutter.DefaultConfig())
	g.SetLineCount(strings.Count(source, "\n") + 1)

	appOpts := append([]app.Option{
		app.WithFileName(opts.file),
		app.WithCodeView(),
		app.WithTextOrigin(core.Point{X: g.Width()}),
	}, extra...)

	a, err := app.New(cfg, width, height, appOpts...)
	if err != nil {
		return nil, err
	}
	if err := a.SetText(source); err != nil {
		a.Close()
		return nil, err
	}
	a.SetCaret(opts.line-1, opts.col-1)
	return a, nil
}

// refreshPopups shows the popups that depend on the caret position.
func refreshPopups(a *app.Application, opts options, logger *app.Logger) {
	a.HidePopup(highlight.PopupCompletion)
	if err := a.ShowSignature(); err != nil && !errors.Is(err, app.ErrNoCallContext) {
		logger.Debug("signature: %v", err)
	}
	if opts.diagnostic != "" {
		if err := a.ShowDiagnostic(parseDiagnostic(opts.diagnostic)); err != nil {
			logger.Warn("diagnostic: %v", err)
		}
	}
}

// parseDiagnostic parses "severity: message". Text without a known
// severity prefix is an error message.
func parseDiagnostic(s string) popup.Diagnostic {
	if sev, msg, ok := strings.Cut(s, ":"); ok {
		switch strings.TrimSpace(strings.ToLower(sev)) {
		case "error", "warning", "warn", "info", "hint":
			return popup.Diagnostic{
				Severity: popup.ParseSeverity(strings.TrimSpace(strings.ToLower(sev))),
				Message:  strings.TrimSpace(msg),
				Source:   "codepad",
			}
		}
	}
	return popup.Diagnostic{Severity: popup.SeverityError, Message: strings.TrimSpace(s), Source: "codepad"}
}

// dump renders a single frame into memory and writes it out.
func dump(w io.Writer, cfg config.Config, opts options, source string, logger *app.Logger) error {
	a, err := newApplication(cfg, opts, source, opts.width, opts.height, app.WithLogger(logger))
	if err != nil {
		return err
	}
	defer a.Close()

	refreshPopups(a, opts, logger)
	a.Tick()

	surface, ok := a.Scheduler().Surface().(*backend.Memory)
	if !ok {
		return errors.New("dump surface cannot be printed")
	}
	_, err = io.WriteString(w, surface.String())
	return err
}
