package renderer

import "github.com/pthm-cable/backdrop/field"

// Discard is a surface with fixed bounds whose painter only counts calls.
type Discard struct {
	bounds   field.Rect
	ratio    float32
	viewport field.Viewport

	Clears  int
	Circles int
	Lines   int
	Passes  int
}

// NewDiscard creates a discard surface of the given logical size.
func NewDiscard(width, height, ratio float32) *Discard {
	return &Discard{
		bounds: field.Rect{Width: width, Height: height},
		ratio:  ratio,
	}
}

// Bounds implements field.Surface.
func (d *Discard) Bounds() field.Rect { return d.bounds }

// PixelRatio implements field.Surface.
func (d *Discard) PixelRatio() float32 { return d.ratio }

// Configure implements field.Surface.
func (d *Discard) Configure(vp field.Viewport) { d.viewport = vp }

// SetBounds changes the box reported to the field on its next Resize.
func (d *Discard) SetBounds(r field.Rect) { d.bounds = r }

// Viewport returns the last configured viewport.
func (d *Discard) Viewport() field.Viewport { return d.viewport }

// Clear implements field.Painter.
func (d *Discard) Clear() {
	d.Clears++
}

// FillCircle implements field.Painter.
func (d *Discard) FillCircle(x, y, r float32, c field.Color) {
	d.Circles++
}

// StrokeLine implements field.Painter.
func (d *Discard) StrokeLine(x1, y1, x2, y2 float32, c field.Color) {
	d.Lines++
}

// EndPass implements field.PassEnder.
func (d *Discard) EndPass() {
	d.Passes++
}

// Reset zeroes the call counters.
func (d *Discard) Reset() {
	d.Clears, d.Circles, d.Lines, d.Passes = 0, 0, 0, 0
}
