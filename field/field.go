// Package field implements the animated particle background: particles that
// drift, soften away from the pointer and link up with nearby neighbours.
//
// A Field is single-owner state. Pointer, resize and frame calls must all
// come from the same goroutine; hosts serialise input between frames.
package field

import (
	"math/rand"
)

// Surface is the element a field is mounted on. The host owns layout; the
// field only observes the container box and hands back the viewport so the
// surface can size its backing store and drawing transform.
type Surface interface {
	Bounds() Rect
	PixelRatio() float32
	Configure(vp Viewport)
}

// Painter receives draw calls in logical coordinates.
type Painter interface {
	Clear()
	FillCircle(x, y, r float32, c Color)
	StrokeLine(x1, y1, x2, y2 float32, c Color)
}

// PassEnder is implemented by painters that batch a frame's draws into an
// offscreen pass. EndPass closes the pass once the connection pass is done,
// before the host starts presenting.
type PassEnder interface {
	EndPass()
}

// EndPass closes p's drawing pass if it has one.
func EndPass(p Painter) {
	if pe, ok := p.(PassEnder); ok {
		pe.EndPass()
	}
}

// FrameStats summarises one frame.
type FrameStats struct {
	Resets int // particles respawned after leaving the viewport
	Links  int // connection lines drawn
	Pairs  int // pairs examined by the connection pass
}

// Field is the ordered set of particles plus the viewport and pointer they
// react to.
type Field struct {
	params    Params
	rng       *rand.Rand
	surface   Surface
	viewport  Viewport
	pointer   Point
	particles []Particle
}

// Mount creates a field on surface and populates it. A nil surface means the
// feature is absent from this page: Mount returns nil and every method on
// the nil field is a no-op.
func Mount(surface Surface, params Params, rng *rand.Rand) *Field {
	if surface == nil {
		return nil
	}
	f := &Field{
		params:  params,
		rng:     rng,
		surface: surface,
		pointer: params.Sentinel,
	}
	f.Resize()
	return f
}

// Resize re-reads the container box, reconfigures the surface and replaces
// every particle. Call it whenever the container changes size.
func (f *Field) Resize() {
	if f == nil {
		return
	}
	f.viewport = NewViewport(f.surface.Bounds(), f.surface.PixelRatio(), f.params.MaxPixelRatio)
	f.surface.Configure(f.viewport)
	f.InitParticles()
}

// InitParticles discards the collection and creates exactly Count particles
// at uniformly random positions.
func (f *Field) InitParticles() {
	if f == nil {
		return
	}
	f.particles = make([]Particle, f.params.Count)
	for i := range f.particles {
		Spawn(&f.particles[i], f.rng, &f.params, f.viewport.Width, f.viewport.Height)
	}
}

// Retune replaces the tuning and keeps the current particles. Spawn
// parameters take effect as particles respawn.
func (f *Field) Retune(params Params) {
	if f == nil {
		return
	}
	pointerActive := f.PointerActive()
	f.params = params
	if !pointerActive {
		f.pointer = params.Sentinel
	}
}

// SetPointer records a pointer position given in host coordinates.
func (f *Field) SetPointer(x, y float32) {
	if f == nil {
		return
	}
	lx, ly := f.viewport.ToLocal(x, y)
	f.pointer = Point{X: lx, Y: ly}
}

// ClearPointer parks the pointer at the off-screen sentinel.
func (f *Field) ClearPointer() {
	if f == nil {
		return
	}
	f.pointer = f.params.Sentinel
}

// Pointer returns the surface-local pointer position.
func (f *Field) Pointer() Point {
	if f == nil {
		return Point{}
	}
	return f.pointer
}

// PointerActive reports whether a real pointer is over the surface.
func (f *Field) PointerActive() bool {
	if f == nil {
		return false
	}
	return f.pointer != f.params.Sentinel
}

// Frame runs one animation frame: clear, update and draw each particle in
// order, draw the connection pass, then end the painter's pass.
func (f *Field) Frame(p Painter) FrameStats {
	var stats FrameStats
	if f == nil {
		return stats
	}
	if p == nil {
		p = nopPainter{}
	}

	p.Clear()
	stats.Resets = f.StepParticles(p)
	stats.Links, stats.Pairs = f.DrawConnections(p)
	EndPass(p)
	return stats
}

// StepParticles updates every particle and draws it straight after its
// update. It returns the number of particles respawned.
func (f *Field) StepParticles(p Painter) int {
	if f == nil {
		return 0
	}
	if p == nil {
		p = nopPainter{}
	}
	resets := 0
	for i := range f.particles {
		pt := &f.particles[i]
		if Update(pt, f.pointer, f.viewport, &f.params, f.rng) {
			resets++
		}
		p.FillCircle(pt.X, pt.Y, pt.R, pt.Color)
	}
	return resets
}

// DrawConnections strokes a line between every pair closer than the
// connection distance. Every pair is compared, so cost grows with Count².
func (f *Field) DrawConnections(p Painter) (links, pairs int) {
	if f == nil {
		return 0, 0
	}
	if p == nil {
		p = nopPainter{}
	}
	maxDist := f.params.ConnectionDistance
	maxD2 := maxDist * maxDist
	for i := 0; i < len(f.particles); i++ {
		a := &f.particles[i]
		for j := i + 1; j < len(f.particles); j++ {
			b := &f.particles[j]
			pairs++
			dx := a.X - b.X
			dy := a.Y - b.Y
			d2 := dx*dx + dy*dy
			if d2 >= maxD2 {
				continue
			}
			alpha := ConnectionAlpha(d2, maxDist, f.params.ConnectionAlpha)
			p.StrokeLine(a.X, a.Y, b.X, b.Y, f.params.LinkColor.WithAlpha(alpha))
			links++
		}
	}
	return links, pairs
}

// Particles returns the live particle slice. Callers must not retain it
// across a Resize.
func (f *Field) Particles() []Particle {
	if f == nil {
		return nil
	}
	return f.particles
}

// Len returns the particle count.
func (f *Field) Len() int {
	if f == nil {
		return 0
	}
	return len(f.particles)
}

// Viewport returns the current surface geometry.
func (f *Field) Viewport() Viewport {
	if f == nil {
		return Viewport{}
	}
	return f.viewport
}

// Params returns the field tuning.
func (f *Field) Params() Params {
	if f == nil {
		return Params{}
	}
	return f.params
}

type nopPainter struct{}

func (nopPainter) Clear()                                     {}
func (nopPainter) FillCircle(x, y, r float32, c Color)        {}
func (nopPainter) StrokeLine(x1, y1, x2, y2 float32, c Color) {}
