package game

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/field"
	"github.com/pthm-cable/backdrop/renderer"
)

func initConfig(t *testing.T) *config.Config {
	t.Helper()
	if err := config.Init(""); err != nil {
		t.Fatalf("config.Init: %v", err)
	}
	return config.Cfg()
}

func TestFieldParamsFromDefaults(t *testing.T) {
	cfg := initConfig(t)
	got := FieldParams(cfg)
	want := field.DefaultParams()

	if got.Count != want.Count {
		t.Errorf("Count = %d, want %d", got.Count, want.Count)
	}
	if got.Sentinel != want.Sentinel {
		t.Errorf("Sentinel = %+v, want %+v", got.Sentinel, want.Sentinel)
	}
	if got.LinkColor.R != want.LinkColor.R || got.LinkColor.G != want.LinkColor.G || got.LinkColor.B != want.LinkColor.B {
		t.Errorf("LinkColor = %+v, want %+v", got.LinkColor, want.LinkColor)
	}

	floats := []struct {
		name      string
		got, want float32
	}{
		{"MaxRadius", got.MaxRadius, want.MaxRadius},
		{"SpeedMin", got.SpeedMin, want.SpeedMin},
		{"SpeedMax", got.SpeedMax, want.SpeedMax},
		{"Damping", got.Damping, want.Damping},
		{"Margin", got.Margin, want.Margin},
		{"RepelThreshold", got.RepelThreshold, want.RepelThreshold},
		{"RepelStrength", got.RepelStrength, want.RepelStrength},
		{"Epsilon", got.Epsilon, want.Epsilon},
		{"ConnectionDistance", got.ConnectionDistance, want.ConnectionDistance},
		{"ConnectionAlpha", got.ConnectionAlpha, want.ConnectionAlpha},
		{"MaxPixelRatio", got.MaxPixelRatio, want.MaxPixelRatio},
	}
	for _, f := range floats {
		if math.Abs(float64(f.got-f.want)) > 1e-6 {
			t.Errorf("%s = %v, want %v", f.name, f.got, f.want)
		}
	}

	if len(got.Palette) != len(want.Palette) {
		t.Fatalf("palette has %d colours, want %d", len(got.Palette), len(want.Palette))
	}
	for i := range got.Palette {
		g, w := got.Palette[i], want.Palette[i]
		if g.R != w.R || g.G != w.G || g.B != w.B || math.Abs(float64(g.A-w.A)) > 1e-6 {
			t.Errorf("palette[%d] = %+v, want %+v", i, g, w)
		}
	}
}

func TestHeadlessRun(t *testing.T) {
	cfg := initConfig(t)
	dir := filepath.Join(t.TempDir(), "out")

	g, err := NewHeadless(Options{Seed: 7, StatsWindow: 10, OutputDir: dir, MaxFrames: 50})
	if err != nil {
		t.Fatalf("NewHeadless: %v", err)
	}

	for !g.Done() {
		g.UpdateHeadless()
	}
	g.Unload()

	if g.Frame() != 50 {
		t.Errorf("Frame = %d, want 50", g.Frame())
	}
	if g.Field().Len() != cfg.Field.Count {
		t.Errorf("Len = %d, want %d", g.Field().Len(), cfg.Field.Count)
	}

	win := g.LastWindow()
	if win.WindowEndFrame != 50 || win.Frames != 10 {
		t.Errorf("last window end %d frames %d, want 50 and 10", win.WindowEndFrame, win.Frames)
	}
	if win.Particles != cfg.Field.Count {
		t.Errorf("window particles = %d, want %d", win.Particles, cfg.Field.Count)
	}
	wantPairs := cfg.Field.Count * (cfg.Field.Count - 1) / 2
	if win.PairsPerFrame != wantPairs {
		t.Errorf("PairsPerFrame = %d, want %d", win.PairsPerFrame, wantPairs)
	}
	if win.PointerActive != 0 {
		t.Errorf("PointerActive = %v, want 0 with no pointer", win.PointerActive)
	}

	data, err := os.ReadFile(filepath.Join(dir, "stats.csv"))
	if err != nil {
		t.Fatalf("reading stats.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 6 {
		t.Errorf("stats.csv has %d lines, want header + 5 windows", len(lines))
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot missing: %v", err)
	}
}

func TestHeadlessSeedIsDeterministic(t *testing.T) {
	initConfig(t)

	run := func() []field.Particle {
		g, err := NewHeadless(Options{Seed: 99})
		if err != nil {
			t.Fatalf("NewHeadless: %v", err)
		}
		defer g.Unload()
		for i := 0; i < 25; i++ {
			g.UpdateHeadless()
		}
		return append([]field.Particle(nil), g.Field().Particles()...)
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("particle %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestStepDrawsEveryParticle(t *testing.T) {
	cfg := initConfig(t)

	g, err := NewHeadless(Options{Seed: 3})
	if err != nil {
		t.Fatalf("NewHeadless: %v", err)
	}
	defer g.Unload()

	d := g.painter.(*renderer.Discard)
	g.BeginFrame()
	stats := g.Step()
	g.EndFrame(false)

	if d.Clears != 1 {
		t.Errorf("Clears = %d, want 1", d.Clears)
	}
	if d.Circles != cfg.Field.Count {
		t.Errorf("Circles = %d, want %d", d.Circles, cfg.Field.Count)
	}
	if d.Passes != 1 {
		t.Errorf("Passes = %d, want 1 per step", d.Passes)
	}
	if d.Lines != stats.Links || g.LastFrame() != stats {
		t.Errorf("Lines = %d, stats %+v, last %+v", d.Lines, stats, g.LastFrame())
	}
}

func TestResizeRepopulates(t *testing.T) {
	initConfig(t)

	g, err := NewHeadless(Options{Seed: 5, StatsWindow: 4})
	if err != nil {
		t.Fatalf("NewHeadless: %v", err)
	}
	defer g.Unload()

	d := g.painter.(*renderer.Discard)
	d.SetBounds(field.Rect{Width: 300, Height: 200})
	g.Resize()

	vp := g.Field().Viewport()
	if vp.Width != 300 || vp.Height != 200 {
		t.Fatalf("viewport = %vx%v, want 300x200", vp.Width, vp.Height)
	}
	for _, p := range g.Field().Particles() {
		if p.X < 0 || p.X >= 300 || p.Y < 0 || p.Y >= 200 {
			t.Fatalf("particle at (%v,%v) outside new viewport", p.X, p.Y)
		}
	}

	for i := 0; i < 4; i++ {
		g.UpdateHeadless()
	}
	win := g.LastWindow()
	if win.Repopulations != 1 {
		t.Errorf("Repopulations = %d, want 1", win.Repopulations)
	}
	if win.ViewportWidth != 300 || win.ViewportHeight != 200 {
		t.Errorf("window viewport = %vx%v, want 300x200", win.ViewportWidth, win.ViewportHeight)
	}
}

func TestPointerForwarding(t *testing.T) {
	initConfig(t)

	g, err := NewHeadless(Options{Seed: 1})
	if err != nil {
		t.Fatalf("NewHeadless: %v", err)
	}
	defer g.Unload()

	g.SetPointer(100, 50)
	if !g.Field().PointerActive() {
		t.Fatal("pointer not active after SetPointer")
	}
	if got := g.Field().Pointer(); got != (field.Point{X: 100, Y: 50}) {
		t.Errorf("Pointer = %+v, want (100,50)", got)
	}

	g.ClearPointer()
	if g.Field().PointerActive() {
		t.Error("pointer still active after ClearPointer")
	}
}
