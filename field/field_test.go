package field

import (
	"math"
	"math/rand"
	"testing"
)

// fakeSurface is a container with fixed geometry that records Configure calls.
type fakeSurface struct {
	bounds     Rect
	dpr        float32
	configured []Viewport
}

func (s *fakeSurface) Bounds() Rect          { return s.bounds }
func (s *fakeSurface) PixelRatio() float32   { return s.dpr }
func (s *fakeSurface) Configure(vp Viewport) { s.configured = append(s.configured, vp) }

type drawCall struct {
	kind string
	c    Color
}

// recordingPainter logs every draw call in order.
type recordingPainter struct {
	calls []drawCall
}

func (p *recordingPainter) Clear() { p.calls = append(p.calls, drawCall{kind: "clear"}) }
func (p *recordingPainter) FillCircle(x, y, r float32, c Color) {
	p.calls = append(p.calls, drawCall{kind: "circle", c: c})
}
func (p *recordingPainter) StrokeLine(x1, y1, x2, y2 float32, c Color) {
	p.calls = append(p.calls, drawCall{kind: "line", c: c})
}

// batchingPainter records draws like recordingPainter and also logs when
// its offscreen pass is closed.
type batchingPainter struct {
	recordingPainter
}

func (p *batchingPainter) EndPass() { p.calls = append(p.calls, drawCall{kind: "end"}) }

func newTestField(t *testing.T, w, h float32, seed int64) (*Field, *fakeSurface) {
	t.Helper()
	s := &fakeSurface{bounds: Rect{Width: w, Height: h}, dpr: 1}
	f := Mount(s, DefaultParams(), rand.New(rand.NewSource(seed)))
	if f == nil {
		t.Fatal("Mount returned nil for a present surface")
	}
	return f, s
}

func TestMountNilSurface(t *testing.T) {
	f := Mount(nil, DefaultParams(), rand.New(rand.NewSource(1)))
	if f != nil {
		t.Fatal("expected nil field for a missing surface")
	}

	// Every operation on the inert field is a no-op
	f.Resize()
	f.InitParticles()
	f.SetPointer(10, 10)
	f.ClearPointer()
	stats := f.Frame(&recordingPainter{})
	if stats != (FrameStats{}) {
		t.Errorf("inert field produced stats %+v", stats)
	}
	if f.Len() != 0 || f.Particles() != nil || f.PointerActive() {
		t.Error("inert field should report no particles and no pointer")
	}
}

func TestMountPopulates(t *testing.T) {
	f, s := newTestField(t, 800, 600, 1)

	if f.Len() != 80 {
		t.Fatalf("Len() = %d, want 80", f.Len())
	}
	if len(s.configured) != 1 {
		t.Fatalf("surface configured %d times, want 1", len(s.configured))
	}
	for i, p := range f.Particles() {
		if p.X < 0 || p.X > 800 || p.Y < 0 || p.Y > 600 {
			t.Errorf("particle %d at (%v, %v) outside 800x600", i, p.X, p.Y)
		}
	}
	if f.PointerActive() {
		t.Error("pointer should start at the sentinel")
	}
}

func TestResizeRepopulates(t *testing.T) {
	f, s := newTestField(t, 800, 600, 2)
	before := &f.Particles()[0]

	s.bounds = Rect{Width: 400, Height: 300}
	f.Resize()

	if f.Len() != 80 {
		t.Fatalf("Len() after resize = %d, want 80", f.Len())
	}
	if &f.Particles()[0] == before {
		t.Error("resize should replace the particle collection")
	}
	for i, p := range f.Particles() {
		if p.X < 0 || p.X > 400 || p.Y < 0 || p.Y > 300 {
			t.Errorf("particle %d at (%v, %v) outside 400x300", i, p.X, p.Y)
		}
	}

	vp := f.Viewport()
	if vp.Width != 400 || vp.Height != 300 {
		t.Errorf("viewport = %vx%v, want 400x300", vp.Width, vp.Height)
	}
	if last := s.configured[len(s.configured)-1]; last != vp {
		t.Errorf("surface configured with %+v, want %+v", last, vp)
	}
}

func TestSpawnInvariants(t *testing.T) {
	params := DefaultParams()
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 5000; i++ {
		var p Particle
		Spawn(&p, rng, &params, 800, 600)
		checkParticleInvariants(t, &p, &params)

		speed := p.Speed()
		if speed < params.SpeedMin-1e-5 || speed >= params.SpeedMax+1e-5 {
			t.Fatalf("spawn speed %v outside [%v, %v)", speed, params.SpeedMin, params.SpeedMax)
		}
	}
}

func TestRespawnEdge(t *testing.T) {
	params := DefaultParams()
	rng := rand.New(rand.NewSource(4))

	var left, right int
	for i := 0; i < 2000; i++ {
		var p Particle
		Respawn(&p, rng, &params, 800, 600)
		checkParticleInvariants(t, &p, &params)

		switch p.X {
		case 0:
			left++
		case 800:
			right++
		default:
			t.Fatalf("respawn x = %v, want exactly 0 or 800", p.X)
		}
		if p.Y < 0 || p.Y > 600 {
			t.Fatalf("respawn y = %v outside [0, 600]", p.Y)
		}
	}
	if left == 0 || right == 0 {
		t.Errorf("respawn should use both edges, got left=%d right=%d", left, right)
	}
}

func checkParticleInvariants(t *testing.T, p *Particle, params *Params) {
	t.Helper()
	if p.R < 1 || p.R >= 1+params.MaxRadius {
		t.Fatalf("radius %v outside [1, %v)", p.R, 1+params.MaxRadius)
	}
	for _, c := range params.Palette {
		if c == p.Color {
			return
		}
	}
	t.Fatalf("colour %+v not in palette", p.Color)
}

func TestUniformNeverReachesUpperBound(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 100000; i++ {
		if v := uniform(rng, 1, 3); v < 1 || v >= 3 {
			t.Fatalf("uniform(1, 3) = %v", v)
		}
	}
	if v := uniform(rng, 2, 2); v != 2 {
		t.Errorf("uniform on empty range = %v, want lower bound", v)
	}
}

func TestRepelForce(t *testing.T) {
	const T = 12000
	tests := []struct {
		name string
		d2   float32
		want float32
	}{
		{"at pointer", 0, 1},
		{"half way", T / 2, 0.5},
		{"at threshold", T, 0},
		{"beyond threshold", 2 * T, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RepelForce(tt.d2, T)
			if math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Errorf("RepelForce(%v) = %v, want %v", tt.d2, got, tt.want)
			}
		})
	}

	prev := RepelForce(0, T)
	for d2 := float32(100); d2 <= T; d2 += 100 {
		f := RepelForce(d2, T)
		if f > prev {
			t.Fatalf("force increased from %v to %v at d2=%v", prev, f, d2)
		}
		prev = f
	}
}

func TestConnectionAlpha(t *testing.T) {
	const dist, maxAlpha = 120, 0.08
	tests := []struct {
		name string
		d2   float32
		want float32
	}{
		{"touching", 0, maxAlpha},
		{"half distance", 60 * 60, maxAlpha / 2},
		{"at threshold", dist * dist, 0},
		{"beyond threshold", 200 * 200, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConnectionAlpha(tt.d2, dist, maxAlpha)
			if math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Errorf("ConnectionAlpha(%v) = %v, want %v", tt.d2, got, tt.want)
			}
		})
	}

	prev := ConnectionAlpha(0, dist, maxAlpha)
	for d := float32(1); d <= dist; d++ {
		a := ConnectionAlpha(d*d, dist, maxAlpha)
		if a > prev {
			t.Fatalf("alpha increased from %v to %v at d=%v", prev, a, d)
		}
		prev = a
	}
}

func TestUpdateSentinelPureDamping(t *testing.T) {
	params := DefaultParams()
	vp := NewViewport(Rect{Width: 800, Height: 600}, 1, 2)
	rng := rand.New(rand.NewSource(6))

	p := Particle{X: 400, Y: 300, VX: 0.6, VY: 0.8, R: 2, Color: params.Palette[0]}
	heading := math.Atan2(float64(p.VY), float64(p.VX))
	prevSpeed := p.Speed()

	for i := 0; i < 500; i++ {
		if Update(&p, params.Sentinel, vp, &params, rng) {
			t.Fatalf("unexpected reset at step %d", i)
		}
		speed := p.Speed()
		if speed > prevSpeed {
			t.Fatalf("speed increased from %v to %v at step %d", prevSpeed, speed, i)
		}
		if h := math.Atan2(float64(p.VY), float64(p.VX)); math.Abs(h-heading) > 1e-4 {
			t.Fatalf("heading drifted from %v to %v at step %d", heading, h, i)
		}
		// Position stays on the initial line through (400, 300)
		cross := float64(p.X-400)*math.Sin(heading) - float64(p.Y-300)*math.Cos(heading)
		if math.Abs(cross) > 1e-2 {
			t.Fatalf("particle left its heading line by %v at step %d", cross, i)
		}
		prevSpeed = speed
	}

	if prevSpeed > 0.1 {
		t.Errorf("speed after 500 damped steps = %v, want near zero", prevSpeed)
	}
}

func TestUpdateSentinelAtRest(t *testing.T) {
	params := DefaultParams()
	vp := NewViewport(Rect{Width: 800, Height: 600}, 1, 2)
	rng := rand.New(rand.NewSource(7))

	p := Particle{X: 100, Y: 100, R: 1.5, Color: params.Palette[1]}
	for i := 0; i < 50; i++ {
		Update(&p, params.Sentinel, vp, &params, rng)
	}
	if p.VX != 0 || p.VY != 0 || p.X != 100 || p.Y != 100 {
		t.Errorf("resting particle moved: %+v", p)
	}
}

func TestUpdatePointerImpulse(t *testing.T) {
	params := DefaultParams()
	vp := NewViewport(Rect{Width: 800, Height: 600}, 1, 2)
	rng := rand.New(rand.NewSource(8))

	p := Particle{X: 100, Y: 100, R: 1, Color: params.Palette[0]}
	pointer := Point{X: 70, Y: 100} // 30px to the left, d2 = 900

	Update(&p, pointer, vp, &params, rng)

	force := (params.RepelThreshold - 900) / params.RepelThreshold
	impulse := float64(30/math.Sqrt(900+float64(params.Epsilon))) * float64(force*params.RepelStrength)

	if math.Abs(float64(p.X)-(100+impulse)) > 1e-4 {
		t.Errorf("X = %v, want %v", p.X, 100+impulse)
	}
	if math.Abs(float64(p.VX)-impulse*float64(params.Damping)) > 1e-5 {
		t.Errorf("VX = %v, want %v", p.VX, impulse*float64(params.Damping))
	}
	if p.VY != 0 || p.Y != 100 {
		t.Errorf("impulse should be purely horizontal, got VY=%v Y=%v", p.VY, p.Y)
	}
}

func TestUpdatePointerOnTopOfParticle(t *testing.T) {
	params := DefaultParams()
	vp := NewViewport(Rect{Width: 800, Height: 600}, 1, 2)
	rng := rand.New(rand.NewSource(9))

	p := Particle{X: 50, Y: 50, R: 1, Color: params.Palette[0]}
	Update(&p, Point{X: 50, Y: 50}, vp, &params, rng)

	if math.IsNaN(float64(p.VX)) || math.IsNaN(float64(p.VY)) {
		t.Fatal("zero displacement produced NaN velocity")
	}
	if p.VX != 0 || p.VY != 0 {
		t.Errorf("zero displacement should give zero impulse, got (%v, %v)", p.VX, p.VY)
	}
}

func TestUpdateBoundaryReset(t *testing.T) {
	params := DefaultParams()
	vp := NewViewport(Rect{Width: 800, Height: 600}, 1, 2)

	tests := []struct {
		name   string
		x, vx  float32
		y, vy  float32
		resets bool
	}{
		{"past right margin", 805, 10, 300, 0, true},
		{"past left margin", -5, -10, 300, 0, true},
		{"past bottom margin", 400, 0, 605, 10, true},
		{"past top margin", 400, 0, -5, -10, true},
		{"inside right margin", 805, 0, 300, 0, false},
		{"inside left margin", -9, 0, 300, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := int64(0); seed < 50; seed++ {
				rng := rand.New(rand.NewSource(seed))
				p := Particle{X: tt.x, Y: tt.y, VX: tt.vx, VY: tt.vy, R: 1, Color: params.Palette[0]}

				reset := Update(&p, params.Sentinel, vp, &params, rng)
				if reset != tt.resets {
					t.Fatalf("seed %d: reset = %v, want %v", seed, reset, tt.resets)
				}
				if !tt.resets {
					continue
				}
				if p.X != 0 && p.X != 800 {
					t.Fatalf("seed %d: reset x = %v, want exactly 0 or 800", seed, p.X)
				}
				checkParticleInvariants(t, &p, &params)
			}
		})
	}
}

func TestFrameSingleStepBounded(t *testing.T) {
	f, _ := newTestField(t, 800, 600, 10)

	type snap struct{ x, y, speed float32 }
	before := make([]snap, f.Len())
	for i, p := range f.Particles() {
		before[i] = snap{p.X, p.Y, p.Speed()}
	}

	stats := f.Frame(nil)

	if stats.Resets != 0 {
		t.Errorf("Resets = %d, want 0 on first frame", stats.Resets)
	}
	if stats.Pairs != 80*79/2 {
		t.Errorf("Pairs = %d, want %d", stats.Pairs, 80*79/2)
	}
	if f.Len() != 80 {
		t.Fatalf("Len() = %d, want 80", f.Len())
	}
	for i, p := range f.Particles() {
		dx := float64(p.X - before[i].x)
		dy := float64(p.Y - before[i].y)
		moved := math.Sqrt(dx*dx + dy*dy)
		if moved > float64(before[i].speed)+1e-4 || moved > 1.0+1e-4 {
			t.Errorf("particle %d moved %v, initial speed %v", i, moved, before[i].speed)
		}
	}
}

func TestFrameDrawOrder(t *testing.T) {
	f, _ := newTestField(t, 300, 200, 11)
	rec := &recordingPainter{}

	stats := f.Frame(rec)

	if len(rec.calls) == 0 || rec.calls[0].kind != "clear" {
		t.Fatal("frame must start with a clear")
	}
	circles := rec.calls[1 : 1+f.Len()]
	for i, c := range circles {
		if c.kind != "circle" {
			t.Fatalf("call %d = %s, want circle", i+1, c.kind)
		}
	}
	lines := rec.calls[1+f.Len():]
	if len(lines) != stats.Links {
		t.Errorf("drew %d lines, stats report %d", len(lines), stats.Links)
	}
	// 80 particles in 300x200 are always close enough to link
	if stats.Links == 0 {
		t.Error("expected some links in a crowded field")
	}
	for _, l := range lines {
		if l.kind != "line" {
			t.Fatalf("unexpected %s after connection pass started", l.kind)
		}
		if l.c.A < 0 || l.c.A > 0.08+1e-6 {
			t.Errorf("link alpha %v outside [0, 0.08]", l.c.A)
		}
	}
}

func TestFrameEndsPassAfterConnections(t *testing.T) {
	f, _ := newTestField(t, 300, 200, 11)
	p := &batchingPainter{}

	stats := f.Frame(p)

	ends := 0
	for _, c := range p.calls {
		if c.kind == "end" {
			ends++
		}
	}
	if ends != 1 {
		t.Fatalf("pass ended %d times, want 1", ends)
	}
	if last := p.calls[len(p.calls)-1]; last.kind != "end" {
		t.Errorf("last call = %s, want end after every draw", last.kind)
	}
	if want := 1 + f.Len() + stats.Links + 1; len(p.calls) != want {
		t.Errorf("got %d calls, want %d", len(p.calls), want)
	}

	// Painters without a pass are left alone
	EndPass(&recordingPainter{})
}

func TestFramePointerPushesNeighbours(t *testing.T) {
	f, _ := newTestField(t, 800, 600, 12)
	for i := range f.Particles() {
		p := &f.Particles()[i]
		p.X, p.Y, p.VX, p.VY = 400+float32(i%5), 300, 0, 0
	}

	f.SetPointer(390, 300)
	if !f.PointerActive() {
		t.Fatal("pointer should be active after SetPointer")
	}
	f.Frame(nil)

	for i, p := range f.Particles() {
		if p.VX <= 0 {
			t.Errorf("particle %d VX = %v, want pushed away (positive)", i, p.VX)
		}
	}

	f.ClearPointer()
	if f.PointerActive() {
		t.Error("pointer should be inactive after ClearPointer")
	}
}

func TestPointerUsesSurfaceOrigin(t *testing.T) {
	s := &fakeSurface{bounds: Rect{X: 100, Y: 50, Width: 640, Height: 480}, dpr: 1}
	f := Mount(s, DefaultParams(), rand.New(rand.NewSource(13)))

	f.SetPointer(130, 70)
	if got := f.Pointer(); got != (Point{X: 30, Y: 20}) {
		t.Errorf("Pointer() = %+v, want {30 20}", got)
	}
}

func TestZeroSizeSurfaceSelfCorrects(t *testing.T) {
	s := &fakeSurface{bounds: Rect{}, dpr: 1}
	f := Mount(s, DefaultParams(), rand.New(rand.NewSource(14)))

	resets := 0
	for i := 0; i < 200; i++ {
		resets += f.Frame(nil).Resets
		if f.Len() != 80 {
			t.Fatalf("Len() = %d on zero-size surface", f.Len())
		}
	}
	if resets == 0 {
		t.Error("particles on a zero-area surface should keep recycling")
	}
	for _, p := range f.Particles() {
		if math.IsNaN(float64(p.X)) || math.IsNaN(float64(p.Y)) {
			t.Fatal("NaN position on zero-size surface")
		}
	}

	s.bounds = Rect{Width: 400, Height: 300}
	f.Resize()
	for i, p := range f.Particles() {
		if p.X < 0 || p.X > 400 || p.Y < 0 || p.Y > 300 {
			t.Errorf("particle %d at (%v, %v) after recovery", i, p.X, p.Y)
		}
	}
}

func TestFrameRespawnKeepsCount(t *testing.T) {
	f, _ := newTestField(t, 200, 150, 15)
	total := 0
	for i := 0; i < 2000; i++ {
		total += f.Frame(nil).Resets
		if f.Len() != 80 {
			t.Fatalf("Len() = %d at frame %d", f.Len(), i)
		}
	}
	if total == 0 {
		t.Error("expected particles to drift out of a small viewport")
	}
	params := f.Params()
	for i := range f.Particles() {
		checkParticleInvariants(t, &f.Particles()[i], &params)
	}
}

func TestRetuneKeepsParticles(t *testing.T) {
	f, _ := newTestField(t, 400, 300, 11)
	before := append([]Particle(nil), f.Particles()...)

	params := DefaultParams()
	params.ConnectionDistance = 60
	params.Damping = 0.9
	f.Retune(params)

	if f.Params().ConnectionDistance != 60 || f.Params().Damping != 0.9 {
		t.Errorf("params not replaced: %+v", f.Params())
	}
	for i := range before {
		if f.Particles()[i] != before[i] {
			t.Fatalf("particle %d changed by Retune", i)
		}
	}
	if f.PointerActive() {
		t.Error("inactive pointer became active after Retune")
	}

	// An active pointer survives retuning
	f.SetPointer(50, 50)
	f.Retune(DefaultParams())
	if got := f.Pointer(); got != (Point{X: 50, Y: 50}) {
		t.Errorf("Pointer = %+v after Retune, want (50,50)", got)
	}

	var nilField *Field
	nilField.Retune(params)
}
