// Package pixel implements the CRGB color type and the row-major pixel
// buffer that backs every Canvas.
package pixel

// CRGB is a 24-bit color: one byte each for red, green, and blue.
type CRGB struct {
	R, G, B uint8
}

// Black is the zero value of CRGB, spelled out for readability at call sites.
var Black = CRGB{0, 0, 0}

// Magenta is the sentinel color Features emit when a sample falls outside
// the canvas they're reading from.
var Magenta = CRGB{255, 0, 255}

// Blend linearly interpolates between c and other by frac, a value in [0,1].
// frac is clamped to that range.
func (c CRGB) Blend(other CRGB, frac float64) CRGB {
	if frac <= 0 {
		return c
	}
	if frac >= 1 {
		return other
	}
	return CRGB{
		R: lerp(c.R, other.R, frac),
		G: lerp(c.G, other.G, frac),
		B: lerp(c.B, other.B, frac),
	}
}

func lerp(a, b uint8, frac float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*frac)
}

// Scale multiplies each channel by factor/255, saturating at the channel's
// natural bounds (scaling never increases brightness).
func (c CRGB) Scale(factor uint8) CRGB {
	return CRGB{
		R: scale8(c.R, factor),
		G: scale8(c.G, factor),
		B: scale8(c.B, factor),
	}
}

// FadeToBlackBy reduces each channel toward zero by amount/255.
func (c CRGB) FadeToBlackBy(amount uint8) CRGB {
	return c.Scale(255 - amount)
}

// Add combines two colors component-wise with 8-bit saturation.
func (c CRGB) Add(other CRGB) CRGB {
	return CRGB{
		R: addSat8(c.R, other.R),
		G: addSat8(c.G, other.G),
		B: addSat8(c.B, other.B),
	}
}

func scale8(v, factor uint8) uint8 {
	return uint8((uint16(v) * uint16(factor)) / 255)
}

func addSat8(a, b uint8) uint8 {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return uint8(sum)
}
