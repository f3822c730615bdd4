package game

import (
	"context"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/renderer"
)

// TerminalHost runs a game on a tcell screen.
type TerminalHost struct {
	*Game
	screen   tcell.Screen
	terminal *renderer.Terminal
	interval time.Duration
}

// NewTerminal creates a game on an initialised tcell screen.
func NewTerminal(screen tcell.Screen, opts Options) (*TerminalHost, error) {
	cfg := config.Cfg()

	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.EnableFocus()
	screen.HideCursor()

	term := renderer.NewTerminal(screen,
		float32(cfg.Terminal.CellWidth),
		float32(cfg.Terminal.CellHeight),
		Color(cfg.Screen.Background),
	)

	g, err := New(term, term, opts)
	if err != nil {
		return nil, err
	}

	interval := time.Duration(cfg.Terminal.FrameMS) * time.Millisecond
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}

	return &TerminalHost{
		Game:     g,
		screen:   screen,
		terminal: term,
		interval: interval,
	}, nil
}

// Run drives frames from a ticker until ctx is cancelled, the user quits or
// the frame limit is reached. Events are read by a separate goroutine and
// applied on this one, between frames.
func (h *TerminalHost) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			h.BeginFrame()
			if quit := h.drainEvents(events); quit {
				h.EndFrame(false)
				return nil
			}
			h.Step()
			h.BeginPresent()
			h.terminal.Present()
			h.EndFrame(true)

			if h.Done() {
				slog.Info("max frames reached", "frame", h.Frame())
				return nil
			}
		}
	}
}

// drainEvents applies every queued event without blocking.
func (h *TerminalHost) drainEvents(events <-chan tcell.Event) bool {
	for {
		select {
		case ev := <-events:
			if h.handleEvent(ev) {
				return true
			}
		default:
			return false
		}
	}
}

// handleEvent applies one terminal event and reports whether to quit.
func (h *TerminalHost) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyRune:
			if ev.Rune() == 'q' {
				return true
			}
		}

	case *tcell.EventResize:
		h.screen.Sync()
		h.Resize()

	case *tcell.EventMouse:
		col, row := ev.Position()
		x, y := h.terminal.ToLogical(col, row)
		h.SetPointer(x, y)

	case *tcell.EventFocus:
		if !ev.Focused {
			h.ClearPointer()
		}

	case *tcell.EventError:
		slog.Error("terminal event", "error", ev)
	}
	return false
}
