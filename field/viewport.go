package field

import "math"

// Rect is a rendered box in host coordinates.
type Rect struct {
	X, Y          float32
	Width, Height float32
}

// Viewport describes the surface geometry: the logical size particles live
// in, the backing-store size pixels are rasterised at, and the scale between.
type Viewport struct {
	OriginX, OriginY float32 // surface top-left in host coordinates
	Width, Height    float32 // logical pixels
	PixelRatio       float32 // effective ratio after capping
	BackingWidth     int32
	BackingHeight    int32
}

// NewViewport builds a viewport from the container box and device pixel ratio.
// The ratio is capped at maxRatio; negative sizes collapse to zero.
func NewViewport(bounds Rect, dpr, maxRatio float32) Viewport {
	w := max(bounds.Width, 0)
	h := max(bounds.Height, 0)

	ratio := dpr
	if ratio <= 0 {
		ratio = 1
	}
	if maxRatio > 0 && ratio > maxRatio {
		ratio = maxRatio
	}

	return Viewport{
		OriginX:       bounds.X,
		OriginY:       bounds.Y,
		Width:         w,
		Height:        h,
		PixelRatio:    ratio,
		BackingWidth:  int32(math.Floor(float64(w * ratio))),
		BackingHeight: int32(math.Floor(float64(h * ratio))),
	}
}

// ToLocal translates a host-space position into surface-local logical pixels.
func (v Viewport) ToLocal(x, y float32) (float32, float32) {
	return x - v.OriginX, y - v.OriginY
}

// Outside reports whether (x, y) lies more than margin beyond the viewport.
func (v Viewport) Outside(x, y, margin float32) bool {
	return x < -margin || x > v.Width+margin || y < -margin || y > v.Height+margin
}

// Empty reports whether the viewport has zero area.
func (v Viewport) Empty() bool {
	return v.Width == 0 || v.Height == 0
}
