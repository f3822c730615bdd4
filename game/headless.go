package game

import (
	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/renderer"
)

// NewHeadless creates a game on a fixed viewport taken from the screen
// config. Nothing is drawn; there is no pointer.
func NewHeadless(opts Options) (*Game, error) {
	cfg := config.Cfg()
	d := renderer.NewDiscard(cfg.Derived.ScreenW32, cfg.Derived.ScreenH32, 1)
	return New(d, d, opts)
}

// UpdateHeadless runs one frame without input or presentation.
func (g *Game) UpdateHeadless() {
	g.BeginFrame()
	g.Step()
	g.EndFrame(false)
}
