package colour

import (
	"encoding/json"
	"fmt"
	"image/color"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Format identifies a textual or numeric representation of a colour.
type Format int

const (
	// FormatHex is "#rrggbb", lowercase.
	FormatHex Format = iota
	// FormatRGBString is "rgb(r, g, b)".
	FormatRGBString
	// FormatHSLString is "hsl(h, s%, l%)".
	FormatHSLString
	// FormatRGBArray is the [r, g, b] triple itself.
	FormatRGBArray
	// FormatHSLArray is the [h, s, l] triple.
	FormatHSLArray
	// FormatKeyword is the CSS colour keyword, or the rgb() string when none matches.
	FormatKeyword
)

var formatNames = map[Format]string{
	FormatHex:       "hex",
	FormatRGBString: "rgb",
	FormatHSLString: "hsl",
	FormatRGBArray:  "rgbArray",
	FormatHSLArray:  "hslArray",
	FormatKeyword:   "keyword",
}

// String returns the canonical name of the format.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Formats returns every supported format.
func Formats() []Format {
	return []Format{FormatHex, FormatRGBString, FormatHSLString, FormatRGBArray, FormatHSLArray, FormatKeyword}
}

// ParseFormat resolves a format name. Matching is case-insensitive and accepts
// the long forms "rgbString" and "hslString".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "hex":
		return FormatHex, nil
	case "rgb", "rgbstring":
		return FormatRGBString, nil
	case "hsl", "hslstring":
		return FormatHSLString, nil
	case "rgbarray":
		return FormatRGBArray, nil
	case "hslarray":
		return FormatHSLArray, nil
	case "keyword":
		return FormatKeyword, nil
	}
	names := make([]string, 0, len(formatNames))
	for _, f := range Formats() {
		names = append(names, f.String())
	}
	return 0, fmt.Errorf("unsupported colour format: %q (supported: %s)", name, strings.Join(names, ", "))
}

// Convert returns rgb in the requested format. String formats yield a string,
// FormatRGBArray yields RGB and FormatHSLArray yields HSL.
func Convert(rgb RGB, f Format) (any, error) {
	switch f {
	case FormatHex:
		return rgb.Hex(), nil
	case FormatRGBString:
		return rgb.String(), nil
	case FormatHSLString:
		return RGBToHSL(rgb).String(), nil
	case FormatRGBArray:
		return rgb, nil
	case FormatHSLArray:
		return RGBToHSL(rgb), nil
	case FormatKeyword:
		return Keyword(rgb), nil
	default:
		return nil, fmt.Errorf("unsupported colour format: %s", f)
	}
}

// FormatString returns rgb in the requested format as text. Array formats are
// rendered as "[a, b, c]".
func FormatString(rgb RGB, f Format) (string, error) {
	switch f {
	case FormatRGBArray:
		return fmt.Sprintf("[%d, %d, %d]", rgb.R, rgb.G, rgb.B), nil
	case FormatHSLArray:
		hsl := RGBToHSL(rgb)
		return "[" + formatFloat(hsl.H) + ", " + formatFloat(hsl.S) + ", " + formatFloat(hsl.L) + "]", nil
	}
	v, err := Convert(rgb, f)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// RGBToHex returns "#rrggbb" with two lowercase hex digits per channel.
func RGBToHex(r, g, b uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// HexToRGB parses a six digit hex colour with an optional leading '#'.
// Shorthand ("#fff") and anything else that is not exactly six hex digits is rejected.
func HexToRGB(hex string) (RGB, bool) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return RGB{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, true
}

// keywords maps an exact colour to its CSS keyword. Where several keywords share
// a colour (aqua/cyan, gray/grey) the alphabetically first name wins.
var keywords = buildKeywords()

func buildKeywords() map[RGB]string {
	names := slices.Clone(colornames.Names)
	slices.Sort(names)
	m := make(map[RGB]string, len(names))
	for _, name := range names {
		rgb := ToRGB(colornames.Map[name])
		if _, ok := m[rgb]; !ok {
			m[rgb] = name
		}
	}
	return m
}

// Keyword returns the CSS keyword naming rgb exactly, or its rgb() string if none does.
func Keyword(rgb RGB) string {
	if name, ok := keywords[rgb]; ok {
		return name
	}
	return rgb.String()
}

// LookupKeyword returns the colour for a CSS keyword.
func LookupKeyword(name string) (RGB, bool) {
	c, ok := colornames.Map[strings.ToLower(name)]
	if !ok {
		return RGB{}, false
	}
	return ToRGB(c), true
}

// Parse reads a colour in any form FormatString produces except a bare HSL
// array: hex, a CSS keyword, "rgb(r, g, b)", "hsl(h, s%, l%)" or "[r, g, b]".
func Parse(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if rgb, ok := HexToRGB(s); ok {
		return rgb, nil
	}
	if rgb, ok := LookupKeyword(s); ok {
		return rgb, nil
	}

	compact := strings.ReplaceAll(s, " ", "")
	switch {
	case strings.HasPrefix(compact, "rgb("):
		var r, g, b uint8
		if _, err := fmt.Sscanf(compact, "rgb(%d,%d,%d)", &r, &g, &b); err != nil {
			return RGB{}, fmt.Errorf("invalid rgb colour %q: %w", s, err)
		}
		return RGB{R: r, G: g, B: b}, nil
	case strings.HasPrefix(compact, "hsl("):
		var hsl HSL
		if _, err := fmt.Sscanf(compact, "hsl(%g,%g%%,%g%%)", &hsl.H, &hsl.S, &hsl.L); err != nil {
			return RGB{}, fmt.Errorf("invalid hsl colour %q: %w", s, err)
		}
		if hsl.H < 0 || hsl.H > 360 || hsl.S < 0 || hsl.S > 100 || hsl.L < 0 || hsl.L > 100 {
			return RGB{}, fmt.Errorf("invalid hsl colour %q: out of range", s)
		}
		return HSLToRGB(hsl), nil
	case strings.HasPrefix(compact, "["), strings.HasPrefix(compact, "{"):
		var rgb RGB
		if err := json.Unmarshal([]byte(compact), &rgb); err != nil {
			return RGB{}, fmt.Errorf("invalid colour %q: %w", s, err)
		}
		return rgb, nil
	}
	return RGB{}, fmt.Errorf("unrecognised colour: %q", s)
}

var _ color.Color = RGB{}
