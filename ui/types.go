// Package ui draws descriptor-driven overlays on top of the field. Panels
// are described as data and rendered with raygui.
package ui

// FieldDescriptor defines how to display a single value.
type FieldDescriptor struct {
	ID    string           // Unique identifier for the field
	Label string           // Display label
	Text  func(any) string // Value extractor
}

// PanelDescriptor defines a complete panel layout.
type PanelDescriptor struct {
	ID     string
	Title  string
	Fields []FieldDescriptor
	Width  float32
}

// Theme holds layout constants.
type Theme struct {
	Padding     float32
	TitleHeight float32
	LineHeight  float32
	LabelWidth  float32
}

// DefaultTheme returns the default layout.
func DefaultTheme() Theme {
	return Theme{
		Padding:     8,
		TitleHeight: 24,
		LineHeight:  18,
		LabelWidth:  90,
	}
}

// Height returns the panel height needed to show every field of d.
func (t Theme) Height(d PanelDescriptor) float32 {
	return t.TitleHeight + t.Padding*2 + t.LineHeight*float32(len(d.Fields))
}
