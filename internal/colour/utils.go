package colour

import (
	"math"
	"strconv"
)

// HSL is a colour in HSL space. H is in degrees (0-360), S and L are percentages (0-100).
type HSL struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// String returns the colour as "hsl(H, S%, L%)".
// Components are printed exactly as held; fractional values are not rounded here.
func (hsl HSL) String() string {
	return "hsl(" + formatFloat(hsl.H) + ", " + formatFloat(hsl.S) + "%, " + formatFloat(hsl.L) + "%)"
}

// Array returns the [H, S, L] components.
func (hsl HSL) Array() [3]float64 {
	return [3]float64{hsl.H, hsl.S, hsl.L}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RGBToHSL converts RGB to HSL, rounding each component to the nearest integer.
func RGBToHSL(rgb RGB) HSL {
	h, s, l := rgbToHSL(rgb)
	return HSL{
		H: math.Round(h),
		S: math.Round(s * 100),
		L: math.Round(l * 100),
	}
}

// rgbToHSL converts RGB to HSL colour space.
// Returns hue (0-360), saturation (0-1), lightness (0-1).
func rgbToHSL(rgb RGB) (h, s, l float64) {
	r := float64(rgb.R) / 255.0
	g := float64(rgb.G) / 255.0
	b := float64(rgb.B) / 255.0

	maxVal := math.Max(r, math.Max(g, b))
	minVal := math.Min(r, math.Min(g, b))
	delta := maxVal - minVal

	// Lightness.
	l = (maxVal + minVal) / 2.0

	// Saturation.
	if delta == 0 {
		s = 0
		h = 0
		return
	}

	if l < 0.5 {
		s = delta / (maxVal + minVal)
	} else {
		s = delta / (2.0 - maxVal - minVal)
	}

	// Hue.
	switch maxVal {
	case r:
		h = (g - b) / delta
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/delta + 2
	case b:
		h = (r-g)/delta + 4
	}

	h *= 60
	return
}

// HSLToRGB converts HSL to RGB colour space.
// h is hue (0-360), s and l are percentages (0-100).
func HSLToRGB(hsl HSL) RGB {
	s := hsl.S / 100
	l := hsl.L / 100
	if s == 0 {
		// Achromatic (grey).
		v := clampChannel(l * 255)
		return RGB{R: v, G: v, B: v}
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	return RGB{
		R: clampChannel(hueToRGB(p, q, hsl.H+120) * 255),
		G: clampChannel(hueToRGB(p, q, hsl.H) * 255),
		B: clampChannel(hueToRGB(p, q, hsl.H-120) * 255),
	}
}

// hueToRGB is a helper for HSL to RGB conversion.
func hueToRGB(p, q, t float64) float64 {
	// Normalize t to 0-360 range.
	for t < 0 {
		t += 360
	}
	for t >= 360 {
		t -= 360
	}

	if t < 60 {
		return p + (q-p)*t/60
	}
	if t < 180 {
		return q
	}
	if t < 240 {
		return p + (q-p)*(240-t)/60
	}
	return p
}

func clampChannel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}
