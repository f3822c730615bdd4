package telemetry

import "github.com/pthm-cable/backdrop/field"

// Collector accumulates per-frame results within a window of frames and
// produces WindowStats.
type Collector struct {
	windowFrames int64

	// Current window tracking
	windowStart int64
	frames      int

	// Event counters for current window
	resets        int
	repopulations int
	linksSum      int
	linksMax      int
	pairs         int
	pointerFrames int
}

// NewCollector creates a collector that flushes every windowFrames frames.
func NewCollector(windowFrames int) *Collector {
	if windowFrames < 1 {
		windowFrames = 1
	}
	return &Collector{windowFrames: int64(windowFrames)}
}

// RecordFrame records the outcome of one frame.
func (c *Collector) RecordFrame(fs field.FrameStats, pointerActive bool) {
	c.frames++
	c.resets += fs.Resets
	c.linksSum += fs.Links
	if fs.Links > c.linksMax {
		c.linksMax = fs.Links
	}
	c.pairs = fs.Pairs
	if pointerActive {
		c.pointerFrames++
	}
}

// RecordRepopulation records a full repopulation caused by a resize.
func (c *Collector) RecordRepopulation() {
	c.repopulations++
}

// ShouldFlush returns true if enough frames have passed to flush the window.
func (c *Collector) ShouldFlush(frame int64) bool {
	return frame-c.windowStart >= c.windowFrames
}

// Flush produces a WindowStats from the counters and the field's state at
// window end, then resets counters for the next window.
func (c *Collector) Flush(frame int64, particles []field.Particle, vp field.Viewport) WindowStats {
	speeds := make([]float64, len(particles))
	for i := range particles {
		speeds[i] = float64(particles[i].Speed())
	}
	mean, std, p10, p50, p90 := ComputeSpeedStats(speeds)

	var linksMean, pointerActive float64
	if c.frames > 0 {
		linksMean = float64(c.linksSum) / float64(c.frames)
		pointerActive = float64(c.pointerFrames) / float64(c.frames)
	}

	stats := WindowStats{
		WindowStartFrame: c.windowStart,
		WindowEndFrame:   frame,
		Frames:           c.frames,

		Particles:      len(particles),
		ViewportWidth:  float64(vp.Width),
		ViewportHeight: float64(vp.Height),
		Repopulations:  c.repopulations,

		Resets:        c.resets,
		LinksMean:     linksMean,
		LinksMax:      c.linksMax,
		PairsPerFrame: c.pairs,
		PointerActive: pointerActive,

		SpeedMean: mean,
		SpeedStd:  std,
		SpeedP10:  p10,
		SpeedP50:  p50,
		SpeedP90:  p90,
	}

	// Reset for next window
	c.windowStart = frame
	c.frames = 0
	c.resets = 0
	c.repopulations = 0
	c.linksSum = 0
	c.linksMax = 0
	c.pairs = 0
	c.pointerFrames = 0

	return stats
}

// WindowFrames returns the number of frames per window.
func (c *Collector) WindowFrames() int64 {
	return c.windowFrames
}
