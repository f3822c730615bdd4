// Package game drives a particle field frame by frame: it owns the field,
// its painter and the telemetry around them. Hosts feed it input between
// frames.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/field"
	"github.com/pthm-cable/backdrop/telemetry"
)

// Game holds the field and everything measured about it.
type Game struct {
	cfg  *config.Config
	rng  *rand.Rand
	seed int64

	field   *field.Field
	painter field.Painter

	// Telemetry
	perfCollector *telemetry.PerfCollector
	collector     *telemetry.Collector
	outputManager *telemetry.OutputManager
	logStats      bool
	lastWindow    telemetry.WindowStats

	// State
	frame     int64
	maxFrames int64
	last      field.FrameStats
}

// New mounts a field on surface and prepares telemetry. config.Init must
// have been called.
func New(surface field.Surface, painter field.Painter, opts Options) (*Game, error) {
	cfg := config.Cfg()

	if cfg.ExceedsSoftLimit() {
		slog.Warn("particle count above soft limit; connection pass is quadratic",
			"count", cfg.Field.Count,
			"soft_limit", cfg.Field.SoftLimit,
			"pairs_per_frame", cfg.Derived.QuadraticPairs,
		)
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindow > 0 {
		statsWindow = opts.StatsWindow
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("setting up output: %w", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	g := &Game{
		cfg:           cfg,
		rng:           rng,
		seed:          opts.Seed,
		painter:       painter,
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector:     telemetry.NewCollector(statsWindow),
		outputManager: om,
		logStats:      opts.LogStats,
		maxFrames:     opts.MaxFrames,
	}
	g.field = field.Mount(surface, FieldParams(cfg), rng)

	slog.Info("field mounted",
		"seed", opts.Seed,
		"particles", g.field.Len(),
		"viewport", viewportAttrs(g.field.Viewport()),
	)

	return g, nil
}

// BeginFrame starts timing a frame. Input handling follows.
func (g *Game) BeginFrame() {
	g.perfCollector.StartFrame()
	g.perfCollector.StartPhase(telemetry.PhaseInput)
}

// Step runs the update-and-draw part of a frame, in the same order as
// field.Frame but timed per phase.
func (g *Game) Step() field.FrameStats {
	g.perfCollector.StartPhase(telemetry.PhaseParticles)
	g.painter.Clear()
	resets := g.field.StepParticles(g.painter)

	g.perfCollector.StartPhase(telemetry.PhaseConnections)
	links, pairs := g.field.DrawConnections(g.painter)
	field.EndPass(g.painter)

	g.last = field.FrameStats{Resets: resets, Links: links, Pairs: pairs}
	g.collector.RecordFrame(g.last, g.field.PointerActive())
	g.frame++
	return g.last
}

// BeginPresent marks the start of presentation.
func (g *Game) BeginPresent() {
	g.perfCollector.StartPhase(telemetry.PhasePresent)
}

// EndFrame flushes telemetry when a window completes and closes the
// frame's timing. presented is false for hosts with no display.
func (g *Game) EndFrame(presented bool) {
	if presented {
		g.perfCollector.RecordPresent()
	}
	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
	g.perfCollector.EndFrame()
}

// Resize re-reads the surface geometry and repopulates the field.
func (g *Game) Resize() {
	g.field.Resize()
	g.collector.RecordRepopulation()
	slog.Debug("resized", "frame", g.frame, "viewport", viewportAttrs(g.field.Viewport()))
}

// SetPointer forwards a host-space pointer position to the field.
func (g *Game) SetPointer(x, y float32) {
	g.field.SetPointer(x, y)
}

// ClearPointer tells the field the pointer has left.
func (g *Game) ClearPointer() {
	g.field.ClearPointer()
}

// Field returns the driven field.
func (g *Game) Field() *field.Field {
	return g.field
}

// Perf returns the frame timing collector.
func (g *Game) Perf() *telemetry.PerfCollector {
	return g.perfCollector
}

// Frame returns the number of frames run.
func (g *Game) Frame() int64 {
	return g.frame
}

// LastFrame returns the stats of the most recent frame.
func (g *Game) LastFrame() field.FrameStats {
	return g.last
}

// LastWindow returns the most recently flushed stats window.
func (g *Game) LastWindow() telemetry.WindowStats {
	return g.lastWindow
}

// Done reports whether the frame limit has been reached.
func (g *Game) Done() bool {
	return g.maxFrames > 0 && g.frame >= g.maxFrames
}

// Unload closes output files.
func (g *Game) Unload() {
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

func viewportAttrs(vp field.Viewport) slog.Value {
	return slog.GroupValue(
		slog.Float64("w", float64(vp.Width)),
		slog.Float64("h", float64(vp.Height)),
		slog.Float64("ratio", float64(vp.PixelRatio)),
		slog.Int("backing_w", int(vp.BackingWidth)),
		slog.Int("backing_h", int(vp.BackingHeight)),
	)
}
