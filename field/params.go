package field

// Color is an RGBA colour with fractional alpha in [0, 1].
type Color struct {
	R, G, B uint8
	A       float32
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float32) Color {
	c.A = a
	return c
}

// Point is a position in logical pixels.
type Point struct {
	X, Y float32
}

// Params holds the tunables of a field. All distances are logical pixels.
type Params struct {
	Count     int
	MaxRadius float32
	SpeedMin  float32
	SpeedMax  float32
	Damping   float32
	Margin    float32

	RepelThreshold float32 // squared distance
	RepelStrength  float32
	Epsilon        float32
	Sentinel       Point

	ConnectionDistance float32
	ConnectionAlpha    float32
	LinkColor          Color

	MaxPixelRatio float32
	Palette       []Color
}

// DefaultPalette is the portal's slate/sky particle palette.
var DefaultPalette = []Color{
	{R: 56, G: 189, B: 248, A: 0.55},
	{R: 129, G: 140, B: 248, A: 0.5},
	{R: 45, G: 212, B: 191, A: 0.45},
	{R: 148, G: 163, B: 184, A: 0.4},
}

// DefaultParams returns the stock field tuning.
func DefaultParams() Params {
	return Params{
		Count:              80,
		MaxRadius:          2,
		SpeedMin:           0.3,
		SpeedMax:           1.0,
		Damping:            0.995,
		Margin:             10,
		RepelThreshold:     12000,
		RepelStrength:      0.4,
		Epsilon:            0.01,
		Sentinel:           Point{X: -9999, Y: -9999},
		ConnectionDistance: 120,
		ConnectionAlpha:    0.08,
		LinkColor:          Color{R: 148, G: 163, B: 184, A: 1},
		MaxPixelRatio:      2,
		Palette:            DefaultPalette,
	}
}
