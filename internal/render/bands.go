package render

import (
	"image/color"
	"math"
)

// BandWidth is the temperature span covered by one colour band.
const BandWidth = 5.0

// bands runs from cold blue (<= 25) to deep red (> 95).
var bands = []color.RGBA{
	{0, 0, 255, 255},
	{0, 64, 255, 255},
	{0, 128, 255, 255},
	{0, 192, 255, 255},
	{0, 255, 255, 255},
	{0, 255, 128, 255},
	{0, 255, 0, 255},
	{128, 255, 0, 255},
	{192, 255, 0, 255},
	{255, 255, 0, 255},
	{255, 192, 0, 255},
	{255, 128, 0, 255},
	{255, 64, 0, 255},
	{255, 0, 0, 255},
	{192, 0, 0, 255},
	{128, 0, 0, 255},
}

// Palette returns a copy of the band colours, coldest first.
func Palette() []color.RGBA {
	return append([]color.RGBA(nil), bands...)
}

// BandIndex maps a temperature to its colour band. Band 0 covers everything
// up to 25 degrees, each following band the next 5 degrees, and the last band
// everything above 95.
func BandIndex(t float64) uint8 {
	if math.IsNaN(t) || t <= 25 {
		return 0
	}
	idx := int(math.Ceil((t-25)/BandWidth))
	if idx > len(bands)-1 {
		idx = len(bands) - 1
	}
	return uint8(idx)
}

// Colour returns the band colour of a temperature.
func Colour(t float64) color.RGBA {
	return bands[BandIndex(t)]
}

// Encode converts temperatures into band indices, reusing dst when it is
// large enough.
func Encode(dst []uint8, temps []float64) []uint8 {
	if cap(dst) < len(temps) {
		dst = make([]uint8, len(temps))
	}
	dst = dst[:len(temps)]
	for i, t := range temps {
		dst[i] = BandIndex(t)
	}
	return dst
}
