// Package renderer implements the field's character-cell and headless
// painters and the colour helpers shared with the window surface.
package renderer

import "github.com/pthm-cable/backdrop/field"

// AlphaByte converts a fractional alpha to 0-255, clamping out-of-range input.
func AlphaByte(a float32) uint8 {
	switch {
	case a <= 0:
		return 0
	case a >= 1:
		return 255
	}
	return uint8(a*255 + 0.5)
}

// Blend composites c over an opaque background and returns the opaque result.
func Blend(c, bg field.Color) (r, g, b uint8) {
	a := c.A
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}
	mix := func(fg, back uint8) uint8 {
		return uint8(float32(back) + (float32(fg)-float32(back))*a + 0.5)
	}
	return mix(c.R, bg.R), mix(c.G, bg.G), mix(c.B, bg.B)
}
