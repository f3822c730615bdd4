// Package window hosts the field in a raylib window: the backing-texture
// surface and the per-frame driver that feeds it input.
package window

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/backdrop/field"
	"github.com/pthm-cable/backdrop/renderer"
)

// Surface draws the field into an offscreen texture sized to the backing
// store, scaled by the pixel ratio, and presents it at logical size.
// Frame draws must fall between Clear and EndPass, and EndPass must run
// before rl.BeginDrawing, which resets the transform the pass relies on.
type Surface struct {
	background rl.Color
	lineWidth  float32

	viewport field.Viewport
	camera   rl.Camera2D
	target   rl.RenderTexture2D
	loaded   bool
	drawing  bool
}

// NewSurface creates a window surface. It must be used after the raylib
// window is open.
func NewSurface(background field.Color, lineWidth float32) *Surface {
	if lineWidth <= 0 {
		lineWidth = 1
	}
	return &Surface{
		background: ToRL(background),
		lineWidth:  lineWidth,
	}
}

// Bounds reports the window's logical size.
func (s *Surface) Bounds() field.Rect {
	return field.Rect{
		Width:  float32(rl.GetScreenWidth()),
		Height: float32(rl.GetScreenHeight()),
	}
}

// PixelRatio reports the monitor's DPI scale.
func (s *Surface) PixelRatio() float32 {
	scale := rl.GetWindowScaleDPI()
	return scale.X
}

// Configure reallocates the backing texture for vp. A zero-area viewport
// leaves the surface without a texture until the next resize.
func (s *Surface) Configure(vp field.Viewport) {
	s.viewport = vp
	s.camera = rl.Camera2D{Zoom: vp.PixelRatio}

	if s.loaded {
		if s.target.Texture.Width == vp.BackingWidth && s.target.Texture.Height == vp.BackingHeight {
			return
		}
		rl.UnloadRenderTexture(s.target)
		s.loaded = false
	}
	if vp.BackingWidth <= 0 || vp.BackingHeight <= 0 {
		return
	}

	s.target = rl.LoadRenderTexture(vp.BackingWidth, vp.BackingHeight)
	rl.SetTextureFilter(s.target.Texture, rl.FilterBilinear)
	s.loaded = true
}

// Clear starts drawing into the backing texture and wipes it.
func (s *Surface) Clear() {
	if !s.loaded {
		return
	}
	rl.BeginTextureMode(s.target)
	rl.BeginMode2D(s.camera)
	rl.ClearBackground(s.background)
	s.drawing = true
}

// FillCircle implements field.Painter.
func (s *Surface) FillCircle(x, y, r float32, c field.Color) {
	if !s.drawing {
		return
	}
	rl.DrawCircleV(rl.Vector2{X: x, Y: y}, r, ToRL(c))
}

// StrokeLine implements field.Painter.
func (s *Surface) StrokeLine(x1, y1, x2, y2 float32, c field.Color) {
	if !s.drawing {
		return
	}
	rl.DrawLineEx(rl.Vector2{X: x1, Y: y1}, rl.Vector2{X: x2, Y: y2}, s.lineWidth, ToRL(c))
}

// EndPass implements field.PassEnder. It flushes the batched draws under
// the pixel-ratio camera and closes the offscreen pass.
func (s *Surface) EndPass() {
	if !s.drawing {
		return
	}
	rl.EndMode2D()
	rl.EndTextureMode()
	s.drawing = false
}

// Present blits the backing texture to the window. Call between
// rl.BeginDrawing and rl.EndDrawing, after EndPass.
func (s *Surface) Present() {
	rl.ClearBackground(s.background)
	if !s.loaded {
		return
	}

	// Render textures are stored upside down
	src := rl.Rectangle{
		Width:  float32(s.target.Texture.Width),
		Height: -float32(s.target.Texture.Height),
	}
	dst := rl.Rectangle{
		X:      s.viewport.OriginX,
		Y:      s.viewport.OriginY,
		Width:  s.viewport.Width,
		Height: s.viewport.Height,
	}
	rl.DrawTexturePro(s.target.Texture, src, dst, rl.Vector2{}, 0, rl.White)
}

// Unload frees the backing texture.
func (s *Surface) Unload() {
	if s.loaded {
		rl.UnloadRenderTexture(s.target)
		s.loaded = false
	}
}

// ToRL converts a field colour to a raylib colour.
func ToRL(c field.Color) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: renderer.AlphaByte(c.A)}
}
