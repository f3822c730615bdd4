package renderer

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/backdrop/field"
)

// Terminal maps the field onto a character grid. Each cell stands for a
// cellW×cellH block of logical pixels.
type Terminal struct {
	screen       tcell.Screen
	cellW, cellH float32
	background   field.Color
	bgStyle      tcell.Style
	viewport     field.Viewport
}

// NewTerminal wraps an initialised tcell screen.
func NewTerminal(screen tcell.Screen, cellW, cellH float32, background field.Color) *Terminal {
	if cellW <= 0 {
		cellW = 8
	}
	if cellH <= 0 {
		cellH = 16
	}
	bg := tcell.NewRGBColor(int32(background.R), int32(background.G), int32(background.B))
	return &Terminal{
		screen:     screen,
		cellW:      cellW,
		cellH:      cellH,
		background: background,
		bgStyle:    tcell.StyleDefault.Background(bg).Foreground(bg),
	}
}

// Bounds reports the screen size in logical pixels.
func (t *Terminal) Bounds() field.Rect {
	cols, rows := t.screen.Size()
	return field.Rect{
		Width:  float32(cols) * t.cellW,
		Height: float32(rows) * t.cellH,
	}
}

// PixelRatio is always 1; cells are the backing store.
func (t *Terminal) PixelRatio() float32 { return 1 }

// Configure implements field.Surface.
func (t *Terminal) Configure(vp field.Viewport) { t.viewport = vp }

// Cell converts a logical position to a cell. ok is false off-screen.
func (t *Terminal) Cell(x, y float32) (col, row int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col = int(x / t.cellW)
	row = int(y / t.cellH)
	cols, rows := t.screen.Size()
	return col, row, col < cols && row < rows
}

// ToLogical converts a cell to the logical position of its centre.
func (t *Terminal) ToLogical(col, row int) (x, y float32) {
	return (float32(col) + 0.5) * t.cellW, (float32(row) + 0.5) * t.cellH
}

// Clear implements field.Painter.
func (t *Terminal) Clear() {
	t.screen.Fill(' ', t.bgStyle)
}

// FillCircle draws a particle as a single rune; larger particles get a
// heavier glyph.
func (t *Terminal) FillCircle(x, y, r float32, c field.Color) {
	col, row, ok := t.Cell(x, y)
	if !ok {
		return
	}
	glyph := '·'
	if r >= 2 {
		glyph = '•'
	}
	t.screen.SetContent(col, row, glyph, nil, t.style(c))
}

// StrokeLine samples the segment once per cell and marks empty cells with a
// dot, leaving particle glyphs in place.
func (t *Terminal) StrokeLine(x1, y1, x2, y2 float32, c field.Color) {
	dx := float64(x2 - x1)
	dy := float64(y2 - y1)
	steps := int(math.Ceil(math.Max(math.Abs(dx)/float64(t.cellW), math.Abs(dy)/float64(t.cellH))))
	if steps < 1 {
		steps = 1
	}

	style := t.style(c)
	for i := 1; i < steps; i++ {
		f := float32(i) / float32(steps)
		col, row, ok := t.Cell(x1+float32(dx)*f, y1+float32(dy)*f)
		if !ok {
			continue
		}
		if glyph, _, _, _ := t.screen.GetContent(col, row); glyph != ' ' {
			continue
		}
		t.screen.SetContent(col, row, '.', nil, style)
	}
}

// Present flushes the frame to the terminal.
func (t *Terminal) Present() {
	t.screen.Show()
}

func (t *Terminal) style(c field.Color) tcell.Style {
	r, g, b := Blend(c, t.background)
	return t.bgStyle.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
}
