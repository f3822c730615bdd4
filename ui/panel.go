package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Panel renders a PanelDescriptor with raygui. It starts hidden.
type Panel struct {
	desc    PanelDescriptor
	theme   Theme
	visible bool
	x, y    float32
}

// NewPanel creates a panel anchored at (x, y).
func NewPanel(desc PanelDescriptor, x, y float32) *Panel {
	return &Panel{desc: desc, theme: DefaultTheme(), x: x, y: y}
}

// Toggle flips visibility.
func (p *Panel) Toggle() {
	p.visible = !p.visible
}

// Visible reports whether the panel is shown.
func (p *Panel) Visible() bool {
	return p.visible
}

// Draw renders the panel with values extracted from data.
func (p *Panel) Draw(data any) {
	if !p.visible {
		return
	}

	t := p.theme
	gui.Panel(rl.Rectangle{X: p.x, Y: p.y, Width: p.desc.Width, Height: t.Height(p.desc)}, p.desc.Title)

	y := p.y + t.TitleHeight + t.Padding
	valueW := p.desc.Width - t.LabelWidth - t.Padding*2
	for _, fd := range p.desc.Fields {
		gui.Label(rl.Rectangle{X: p.x + t.Padding, Y: y, Width: t.LabelWidth, Height: t.LineHeight}, fd.Label)
		if fd.Text != nil {
			gui.Label(rl.Rectangle{X: p.x + t.Padding + t.LabelWidth, Y: y, Width: valueW, Height: t.LineHeight}, fd.Text(data))
		}
		y += t.LineHeight
	}
}
