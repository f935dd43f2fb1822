package render

import (
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Diverging maps values onto a three-stop color ramp centered at Center.
// Values Spread or further from the center take the end colors.
type Diverging struct {
	Low, Mid, High drawing.Color
	Center, Spread float64
}

var (
	// RdBu runs from blue through near-white to red.
	rdbuLow  = drawing.Color{R: 0x21, G: 0x66, B: 0xac, A: 0xff}
	rdbuMid  = drawing.Color{R: 0xf7, G: 0xf7, B: 0xf7, A: 0xff}
	rdbuHigh = drawing.Color{R: 0xb2, G: 0x18, B: 0x2b, A: 0xff}

	coolLow  = drawing.Color{R: 0x3b, G: 0x4c, B: 0xc0, A: 0xff}
	coolMid  = drawing.Color{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff}
	coolHigh = drawing.Color{R: 0xb4, G: 0x04, B: 0x26, A: 0xff}

	missingFill = drawing.Color{R: 0xe5, G: 0xe5, B: 0xe5, A: 0xff}
	borderWhite = drawing.Color{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	textDark    = drawing.Color{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	textLight   = drawing.Color{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// MeanCentered builds the map scale: centered at mean and wide enough to reach
// the farther of min and max.
func MeanCentered(mean, min, max float64) Diverging {
	spread := math.Max(math.Abs(max-mean), math.Abs(mean-min))
	return Diverging{Low: rdbuLow, Mid: rdbuMid, High: rdbuHigh, Center: mean, Spread: spread}
}

// CorrelationScale is centered at zero and spans [-1, 1].
func CorrelationScale() Diverging {
	return Diverging{Low: coolLow, Mid: coolMid, High: coolHigh, Center: 0, Spread: 1}
}

// At returns the color for v.
func (d Diverging) At(v float64) drawing.Color {
	if math.IsNaN(v) {
		return missingFill
	}
	if d.Spread <= 0 {
		return d.Mid
	}
	t := (v - d.Center) / d.Spread
	t = math.Max(-1, math.Min(1, t))
	if t < 0 {
		return lerp(d.Mid, d.Low, -t)
	}
	return lerp(d.Mid, d.High, t)
}

func lerp(a, b drawing.Color, t float64) drawing.Color {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return drawing.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xff}
}

// luminance is used to pick readable annotation text over a fill.
func luminance(c drawing.Color) float64 {
	return (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255
}
