package ui

import "fmt"

// StatsData holds the values shown in the stats panel.
type StatsData struct {
	FPS           float64
	FrameMS       float64
	Particles     int
	Links         int
	Resets        int
	PointerActive bool
	PointerX      float32
	PointerY      float32
	Width         float32
	Height        float32
	PixelRatio    float32
}

func stats(data any) StatsData {
	s, _ := data.(StatsData)
	return s
}

// StatsPanel describes the field stats overlay.
var StatsPanel = PanelDescriptor{
	ID:    "stats",
	Title: "Field",
	Width: 220,
	Fields: []FieldDescriptor{
		{ID: "fps", Label: "FPS", Text: func(d any) string {
			return fmt.Sprintf("%.0f", stats(d).FPS)
		}},
		{ID: "frame", Label: "Frame", Text: func(d any) string {
			return fmt.Sprintf("%.2f ms", stats(d).FrameMS)
		}},
		{ID: "particles", Label: "Particles", Text: func(d any) string {
			return fmt.Sprintf("%d", stats(d).Particles)
		}},
		{ID: "links", Label: "Links", Text: func(d any) string {
			return fmt.Sprintf("%d", stats(d).Links)
		}},
		{ID: "resets", Label: "Resets", Text: func(d any) string {
			return fmt.Sprintf("%d", stats(d).Resets)
		}},
		{ID: "pointer", Label: "Pointer", Text: func(d any) string {
			s := stats(d)
			if !s.PointerActive {
				return "away"
			}
			return fmt.Sprintf("%.0f, %.0f", s.PointerX, s.PointerY)
		}},
		{ID: "viewport", Label: "Viewport", Text: func(d any) string {
			s := stats(d)
			return fmt.Sprintf("%.0fx%.0f @%.1fx", s.Width, s.Height, s.PixelRatio)
		}},
	},
}
