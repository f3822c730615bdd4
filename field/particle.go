package field

import (
	"math"
	"math/rand"
)

// Particle is one animated point.
type Particle struct {
	X, Y   float32
	VX, VY float32
	R      float32
	Color  Color
}

// Speed returns the velocity magnitude.
func (p *Particle) Speed() float32 {
	return float32(math.Sqrt(float64(p.VX*p.VX + p.VY*p.VY)))
}

// Spawn initialises p at a uniformly random position inside w×h.
func Spawn(p *Particle, rng *rand.Rand, params *Params, w, h float32) {
	randomize(p, rng, params)
	p.X = rng.Float32() * w
	p.Y = rng.Float32() * h
}

// Respawn initialises p on the left or right edge so it flows back across
// the viewport instead of reappearing in place.
func Respawn(p *Particle, rng *rand.Rand, params *Params, w, h float32) {
	randomize(p, rng, params)
	if rng.Intn(2) == 0 {
		p.X = 0
	} else {
		p.X = w
	}
	p.Y = rng.Float32() * h
}

// randomize draws heading, speed, radius and colour.
func randomize(p *Particle, rng *rand.Rand, params *Params) {
	angle := rng.Float64() * 2 * math.Pi
	speed := uniform(rng, params.SpeedMin, params.SpeedMax)
	p.VX = float32(math.Cos(angle)) * speed
	p.VY = float32(math.Sin(angle)) * speed
	p.R = uniform(rng, 1, 1+params.MaxRadius)
	if n := len(params.Palette); n > 0 {
		p.Color = params.Palette[rng.Intn(n)]
	}
}

// uniform returns a value in [lo, hi). float32 rounding can land exactly on
// hi, so that case is pulled back by one ulp.
func uniform(rng *rand.Rand, lo, hi float32) float32 {
	if hi <= lo {
		return lo
	}
	v := lo + float32(rng.Float64())*(hi-lo)
	if v >= hi {
		v = math.Nextafter32(hi, lo)
	}
	return v
}

// RepelForce is the pointer force magnitude at squared distance d2:
// 1 at the pointer, falling linearly to 0 at the threshold.
func RepelForce(d2, threshold float32) float32 {
	if threshold <= 0 {
		return 0
	}
	return max(threshold-d2, 0) / threshold
}

// Update advances p by one frame. It returns true when p left the viewport
// and was respawned on an edge.
//
// Integration is one unit of time per frame, not per second: motion speed
// follows the frame rate.
func Update(p *Particle, pointer Point, vp Viewport, params *Params, rng *rand.Rand) bool {
	dx := p.X - pointer.X
	dy := p.Y - pointer.Y
	d2 := dx*dx + dy*dy

	if d2 < params.RepelThreshold {
		force := RepelForce(d2, params.RepelThreshold)
		inv := float32(1 / math.Sqrt(float64(d2+params.Epsilon)))
		p.VX += dx * inv * force * params.RepelStrength
		p.VY += dy * inv * force * params.RepelStrength
	}

	p.X += p.VX
	p.Y += p.VY

	reset := false
	if vp.Outside(p.X, p.Y, params.Margin) {
		Respawn(p, rng, params, vp.Width, vp.Height)
		reset = true
	}

	p.VX *= params.Damping
	p.VY *= params.Damping

	return reset
}

// ConnectionAlpha is the opacity of a link between two particles at squared
// distance d2: maxAlpha when touching, 0 at maxDist and beyond.
func ConnectionAlpha(d2, maxDist, maxAlpha float32) float32 {
	if maxDist <= 0 || d2 >= maxDist*maxDist {
		return 0
	}
	d := float32(math.Sqrt(float64(d2)))
	return maxAlpha * (1 - d/maxDist)
}
