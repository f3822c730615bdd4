package window

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/game"
	"github.com/pthm-cable/backdrop/ui"
)

// Host runs a game in the raylib window.
type Host struct {
	*game.Game
	surface *Surface
	panel   *ui.Panel

	// Last observed window geometry
	width, height float32
	dpr           float32
}

// New creates a host on the open window.
func New(opts game.Options) (*Host, error) {
	cfg := config.Cfg()

	s := NewSurface(game.Color(cfg.Screen.Background), float32(cfg.Connections.Width))
	g, err := game.New(s, s, opts)
	if err != nil {
		s.Unload()
		return nil, err
	}

	b := s.Bounds()
	return &Host{
		Game:    g,
		surface: s,
		panel:   ui.NewPanel(ui.StatsPanel, 10, 10),
		width:   b.Width,
		height:  b.Height,
		dpr:     s.PixelRatio(),
	}, nil
}

// Update handles input and runs the field's update-and-draw pass into the
// backing texture. Step closes the pass, so Draw can start the window frame.
func (h *Host) Update() {
	h.BeginFrame()
	h.handleInput()
	h.Step()
}

// Draw presents the frame and any overlays.
func (h *Host) Draw() {
	h.BeginPresent()

	rl.BeginDrawing()
	h.surface.Present()
	if h.panel.Visible() {
		h.panel.Draw(h.statsData())
	}
	rl.EndDrawing()

	h.EndFrame(true)
}

// handleInput processes window, pointer and keyboard input.
func (h *Host) handleInput() {
	h.handleResize()
	h.handlePointer()

	if rl.IsKeyPressed(rl.KeyF1) {
		h.panel.Toggle()
	}

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
}

// handleResize repopulates the field when the window size or its monitor's
// DPI scale changes.
func (h *Host) handleResize() {
	b := h.surface.Bounds()
	dpr := h.surface.PixelRatio()
	if !rl.IsWindowResized() && dpr == h.dpr {
		return
	}
	if b.Width == h.width && b.Height == h.height && dpr == h.dpr {
		return
	}
	h.width = b.Width
	h.height = b.Height
	h.dpr = dpr

	h.Resize()
}

// handlePointer forwards the mouse position, or the sentinel once the
// cursor leaves the window.
func (h *Host) handlePointer() {
	if !rl.IsCursorOnScreen() {
		h.ClearPointer()
		return
	}
	pos := rl.GetMousePosition()
	h.SetPointer(pos.X, pos.Y)
}

func (h *Host) statsData() ui.StatsData {
	perf := h.Perf().Stats()
	f := h.Field()
	vp := f.Viewport()
	last := h.LastFrame()
	p := f.Pointer()

	return ui.StatsData{
		FPS:           float64(rl.GetFPS()),
		FrameMS:       float64(perf.AvgFrameDuration.Microseconds()) / 1000,
		Particles:     f.Len(),
		Links:         last.Links,
		Resets:        last.Resets,
		PointerActive: f.PointerActive(),
		PointerX:      p.X,
		PointerY:      p.Y,
		Width:         vp.Width,
		Height:        vp.Height,
		PixelRatio:    vp.PixelRatio,
	}
}

// Unload frees the backing texture and closes output.
func (h *Host) Unload() {
	h.surface.Unload()
	h.Game.Unload()
}
