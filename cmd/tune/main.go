// Field tuning tool - live preview with sliders.
//
// Usage: go run ./cmd/tune [-config path]
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/field"
	"github.com/pthm-cable/backdrop/game"
	"github.com/pthm-cable/backdrop/window"
)

const (
	windowWidth  = 1200
	windowHeight = 720
	panelWidth   = 320
)

// previewSurface is the window minus the slider panel.
type previewSurface struct {
	*window.Surface
}

func (p previewSurface) Bounds() field.Rect {
	return field.Rect{
		X:      panelWidth,
		Width:  float32(rl.GetScreenWidth() - panelWidth),
		Height: float32(rl.GetScreenHeight()),
	}
}

// slider describes one tunable.
type slider struct {
	label    string
	min, max float32
	format   string
	value    func(p *field.Params) *float32
	repop    bool // change requires a new population
}

var sliders = []slider{
	{"Max radius", 0.5, 6, "%.1f", func(p *field.Params) *float32 { return &p.MaxRadius }, true},
	{"Speed min", 0, 2, "%.2f", func(p *field.Params) *float32 { return &p.SpeedMin }, true},
	{"Speed max", 0, 4, "%.2f", func(p *field.Params) *float32 { return &p.SpeedMax }, true},
	{"Damping", 0.95, 1, "%.4f", func(p *field.Params) *float32 { return &p.Damping }, false},
	{"Repel threshold (d²)", 1000, 40000, "%.0f", func(p *field.Params) *float32 { return &p.RepelThreshold }, false},
	{"Repel strength", 0, 2, "%.2f", func(p *field.Params) *float32 { return &p.RepelStrength }, false},
	{"Link distance", 20, 300, "%.0f", func(p *field.Params) *float32 { return &p.ConnectionDistance }, false},
	{"Link alpha", 0, 0.5, "%.3f", func(p *field.Params) *float32 { return &p.ConnectionAlpha }, false},
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()
	defaults := game.FieldParams(cfg)

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi)
	rl.InitWindow(windowWidth, windowHeight, "Field Tuning")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	surface := previewSurface{window.NewSurface(game.Color(cfg.Screen.Background), float32(cfg.Connections.Width))}
	defer surface.Unload()

	params := defaults
	count := float32(params.Count)
	rng := rand.New(rand.NewSource(1))
	f := field.Mount(surface, params, rng)

	for !rl.WindowShouldClose() {
		if rl.IsWindowResized() {
			f.Resize()
		}
		pos := rl.GetMousePosition()
		if rl.IsCursorOnScreen() && pos.X >= panelWidth {
			f.SetPointer(pos.X, pos.Y)
		} else {
			f.ClearPointer()
		}

		// Frame ends the offscreen pass before the window frame begins
		stats := f.Frame(surface)

		rl.BeginDrawing()
		surface.Present()
		rl.DrawRectangle(0, 0, panelWidth, int32(rl.GetScreenHeight()), rl.RayWhite)

		panelX := float32(10)
		panelY := float32(10)
		rl.DrawText("Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		remount := false
		changed := false

		// Count slider
		rl.DrawText("Count", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newCount := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth - 90, Height: 20},
			"0", "600",
			count, 0, 600,
		)
		rl.DrawText(fmt.Sprintf("%d", int(count)), int32(panelX+panelWidth-80), int32(panelY+2), 16, rl.DarkGray)
		if int(newCount) != int(count) {
			count = newCount
			params.Count = int(count)
			remount = true
		}
		panelY += 35

		for _, s := range sliders {
			v := s.value(&params)
			rl.DrawText(s.label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			nv := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth - 90, Height: 20},
				"", "",
				*v, s.min, s.max,
			)
			rl.DrawText(fmt.Sprintf(s.format, *v), int32(panelX+panelWidth-80), int32(panelY+2), 16, rl.DarkGray)
			if nv != *v {
				*v = nv
				changed = true
				if s.repop {
					remount = true
				}
			}
			panelY += 35
		}
		if params.SpeedMax < params.SpeedMin {
			params.SpeedMax = params.SpeedMin
		}

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 140, Height: 30}, "Respawn") {
			remount = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 150, Y: panelY, Width: 140, Height: 30}, "Reset All") {
			params = defaults
			count = float32(params.Count)
			remount = true
		}
		panelY += 45

		rl.DrawText(fmt.Sprintf("FPS %d  links %d  resets %d", rl.GetFPS(), stats.Links, stats.Resets), int32(panelX), int32(panelY), 14, rl.DarkGray)
		panelY += 25

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 22
		for _, line := range yamlLines(params) {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.EndDrawing()

		switch {
		case remount:
			f = field.Mount(surface, params, rng)
		case changed:
			f.Retune(params)
		}
	}
}

func yamlLines(p field.Params) []string {
	return []string{
		"field:",
		fmt.Sprintf("  count: %d", p.Count),
		fmt.Sprintf("  max_radius: %.1f", p.MaxRadius),
		fmt.Sprintf("  speed_min: %.2f", p.SpeedMin),
		fmt.Sprintf("  speed_max: %.2f", p.SpeedMax),
		fmt.Sprintf("  damping: %.4f", p.Damping),
		"pointer:",
		fmt.Sprintf("  threshold: %.0f", p.RepelThreshold),
		fmt.Sprintf("  strength: %.2f", p.RepelStrength),
		"connections:",
		fmt.Sprintf("  distance: %.0f", p.ConnectionDistance),
		fmt.Sprintf("  max_alpha: %.3f", p.ConnectionAlpha),
	}
}
