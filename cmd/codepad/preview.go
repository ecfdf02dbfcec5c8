package main

import (
	"errors"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/dshills/codepad/internal/app"
	"github.com/dshills/codepad/internal/config"
	"github.com/dshills/codepad/internal/renderer/backend"
	"github.com/dshills/codepad/internal/renderer/highlight"
	"github.com/dshills/codepad/internal/renderer/popup"
)

// errQuit ends the preview normally.
var errQuit = errors.New("quit")

// completionLimit bounds the completion list.
const completionLimit = 12

// preview runs the interactive terminal view until the user quits.
func preview(cfg config.Config, opts options, source string, logger *app.Logger) error {
	term, err := backend.NewTerminal()
	if err != nil {
		return err
	}
	if err := term.Init(); err != nil {
		return err
	}
	defer term.Shutdown()
	term.HideCursor()

	width, height := term.Size()
	factory := func(int, int) (backend.Surface, error) { return term, nil }
	a, err := newApplication(cfg, opts, source, width, height,
		app.WithSurfaceFactory(factory),
		app.WithStatusLine(),
		app.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer a.Close()

	term.OnResize(a.Resize)

	if opts.configPath != "" {
		w, err := config.Watch(opts.configPath, func(next config.Config, err error) {
			if err != nil {
				logger.Warn("reload %s: %v", opts.configPath, err)
				return
			}
			if err := a.Reconfigure(next); err != nil {
				logger.Warn("apply %s: %v", opts.configPath, err)
				return
			}
			logger.Info("reloaded %s", opts.configPath)
		})
		if err != nil {
			logger.Warn("watch %s: %v", opts.configPath, err)
		} else {
			defer w.Close()
		}
	}

	var quitting atomic.Bool
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	go func() {
		if _, ok := <-signals; ok {
			quitting.Store(true)
			term.Shutdown()
		}
	}()

	refreshPopups(a, opts, logger)
	a.Tick()

	for !quitting.Load() {
		ev := term.PollEvent()
		if ev.Type == backend.EventNone {
			continue
		}
		if err := handleEvent(a, opts, logger, ev); err != nil {
			return err
		}
		a.RequestFrame()
	}
	return errQuit
}

// handleEvent applies one terminal event to the session.
func handleEvent(a *app.Application, opts options, logger *app.Logger, ev backend.Event) error {
	switch ev.Type {
	case backend.EventKey:
		return handleKey(a, opts, logger, ev)

	case backend.EventMouse:
		a.PointerMove(ev.MouseX, ev.MouseY)
		if ev.MouseButton == backend.MouseLeft && !a.PointerPress(ev.MouseX, ev.MouseY) {
			a.HidePopup(highlight.PopupCompletion)
		}
	}
	return nil
}

func handleKey(a *app.Application, opts options, logger *app.Logger, ev backend.Event) error {
	list := a.Completion()

	switch ev.Key {
	case backend.KeyCtrlC:
		return errQuit

	case backend.KeyEscape:
		if list != nil {
			a.HidePopup(highlight.PopupCompletion)
			return nil
		}
		return errQuit

	case backend.KeyRune:
		if ev.Rune == 'q' {
			return errQuit
		}

	case backend.KeyEnter:
		if list != nil {
			list.Accept()
		}

	case backend.KeyTab:
		items := a.WordCompletions(completionLimit)
		if len(items) == 0 {
			return nil
		}
		_, err := a.ShowCompletions(items, func(item popup.CompletionItem) {
			logger.Info("accepted completion %q", item.Label)
		})
		return err

	case backend.KeyUp, backend.KeyDown:
		step := 1
		if ev.Key == backend.KeyUp {
			step = -1
		}
		if list != nil {
			if step > 0 {
				list.Next()
			} else {
				list.Prev()
			}
			return nil
		}
		a.MoveCaret(step, 0)
		refreshPopups(a, opts, logger)

	case backend.KeyLeft:
		a.MoveCaret(0, -1)
		refreshPopups(a, opts, logger)

	case backend.KeyRight:
		a.MoveCaret(0, 1)
		refreshPopups(a, opts, logger)

	case backend.KeyHome:
		a.SetCaret(a.Caret().Line, 0)
		refreshPopups(a, opts, logger)

	case backend.KeyEnd:
		line := a.Caret().Line
		a.SetCaret(line, highlight.UTF16Len(a.Lines()[line]))
		refreshPopups(a, opts, logger)
	}
	return nil
}
