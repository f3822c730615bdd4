package game

import (
	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/field"
)

// Options holds run settings that come from the command line.
type Options struct {
	Seed        int64
	LogStats    bool
	StatsWindow int // frames per stats window (0 = use config)
	OutputDir   string
	MaxFrames   int64 // stop after N frames (0 = unlimited)
}

// FieldParams converts the loaded config into field tuning.
func FieldParams(cfg *config.Config) field.Params {
	palette := make([]field.Color, len(cfg.Palette))
	for i, c := range cfg.Palette {
		palette[i] = Color(c)
	}

	return field.Params{
		Count:     cfg.Field.Count,
		MaxRadius: float32(cfg.Field.MaxRadius),
		SpeedMin:  float32(cfg.Field.SpeedMin),
		SpeedMax:  float32(cfg.Field.SpeedMax),
		Damping:   float32(cfg.Field.Damping),
		Margin:    float32(cfg.Field.Margin),

		RepelThreshold: float32(cfg.Pointer.Threshold),
		RepelStrength:  float32(cfg.Pointer.Strength),
		Epsilon:        float32(cfg.Pointer.Epsilon),
		Sentinel: field.Point{
			X: float32(cfg.Pointer.Sentinel.X),
			Y: float32(cfg.Pointer.Sentinel.Y),
		},

		ConnectionDistance: float32(cfg.Connections.Distance),
		ConnectionAlpha:    float32(cfg.Connections.MaxAlpha),
		LinkColor:          Color(cfg.Connections.Color),

		MaxPixelRatio: float32(cfg.Screen.MaxPixelRatio),
		Palette:       palette,
	}
}

// Color converts a config colour.
func Color(c config.ColorConfig) field.Color {
	return field.Color{R: c.R, G: c.G, B: c.B, A: float32(c.A)}
}
