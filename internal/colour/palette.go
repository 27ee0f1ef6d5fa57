// Package colour provides colour types and the pure conversions used to
// present extracted palettes (hex, rgb(), hsl(), CSS keywords).
package colour

import (
	"encoding/json"
	"fmt"
	"image/color"
)

// RGB represents a colour in RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return RGBToHex(rgb.R, rgb.G, rgb.B)
}

// Array returns the channels as a three element array.
func (rgb RGB) Array() [3]uint8 {
	return [3]uint8{rgb.R, rgb.G, rgb.B}
}

// Brightness returns the average of the three channels, (r+g+b)/3.
func (rgb RGB) Brightness() float64 {
	return (float64(rgb.R) + float64(rgb.G) + float64(rgb.B)) / 3
}

// RGBA implements color.Color with full opacity.
func (rgb RGB) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}.RGBA()
}

// MarshalJSON encodes the colour as a [r, g, b] array.
func (rgb RGB) MarshalJSON() ([]byte, error) {
	return json.Marshal(rgb.Array())
}

// UnmarshalJSON accepts either a [r, g, b] array or a {"r":..,"g":..,"b":..} object.
func (rgb *RGB) UnmarshalJSON(data []byte) error {
	var arr []int
	if err := json.Unmarshal(data, &arr); err == nil {
		if len(arr) != 3 {
			return fmt.Errorf("invalid rgb value: want 3 channels, got %d", len(arr))
		}
		for _, v := range arr {
			if v < 0 || v > 255 {
				return fmt.Errorf("invalid rgb value: channel %d out of range 0-255", v)
			}
		}
		*rgb = RGB{R: uint8(arr[0]), G: uint8(arr[1]), B: uint8(arr[2])}
		return nil
	}
	var obj struct {
		R uint8 `json:"r"`
		G uint8 `json:"g"`
		B uint8 `json:"b"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("invalid rgb value: %w", err)
	}
	*rgb = RGB{R: obj.R, G: obj.G, B: obj.B}
	return nil
}

// ToRGB converts a color.Color to RGB.
func ToRGB(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	// RGBA returns values in the range [0, 65535], convert to [0, 255]
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}
