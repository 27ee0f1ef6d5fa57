package colour

import (
	"encoding/json"
	"image/color"
	"testing"
)

func TestToRGB(t *testing.T) {
	tests := []struct {
		name  string
		color color.Color
		want  RGB
	}{
		{
			name:  "red",
			color: color.RGBA{R: 255, G: 0, B: 0, A: 255},
			want:  RGB{R: 255, G: 0, B: 0},
		},
		{
			name:  "green",
			color: color.RGBA{R: 0, G: 255, B: 0, A: 255},
			want:  RGB{R: 0, G: 255, B: 0},
		},
		{
			name:  "grey",
			color: color.Gray{Y: 128},
			want:  RGB{R: 128, G: 128, B: 128},
		},
		{
			name:  "rgb round trip",
			color: RGB{R: 12, G: 34, B: 56},
			want:  RGB{R: 12, G: 34, B: 56},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToRGB(tt.color); got != tt.want {
				t.Errorf("ToRGB() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRGBHex(t *testing.T) {
	tests := []struct {
		name string
		rgb  RGB
		want string
	}{
		{name: "black", rgb: RGB{0, 0, 0}, want: "#000000"},
		{name: "white", rgb: RGB{255, 255, 255}, want: "#ffffff"},
		{name: "zero padded", rgb: RGB{1, 2, 3}, want: "#010203"},
		{name: "mixed", rgb: RGB{26, 43, 60}, want: "#1a2b3c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rgb.Hex(); got != tt.want {
				t.Errorf("Hex() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRGBString(t *testing.T) {
	rgb := RGB{R: 255, G: 128, B: 0}
	if got, want := rgb.String(), "rgb(255, 128, 0)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestRGBBrightness(t *testing.T) {
	tests := []struct {
		rgb  RGB
		want float64
	}{
		{RGB{0, 0, 0}, 0},
		{RGB{255, 255, 255}, 255},
		{RGB{255, 0, 0}, 85},
		{RGB{10, 20, 31}, 61.0 / 3},
	}

	for _, tt := range tests {
		if got := tt.rgb.Brightness(); got != tt.want {
			t.Errorf("%v.Brightness() = %v, want %v", tt.rgb, got, tt.want)
		}
	}
}

func TestRGBJSON(t *testing.T) {
	data, err := json.Marshal(RGB{R: 255, G: 0, B: 16})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != "[255,0,16]" {
		t.Errorf("Marshal() = %s, want [255,0,16]", data)
	}

	var fromArray, fromObject RGB
	if err := json.Unmarshal([]byte("[1,2,3]"), &fromArray); err != nil {
		t.Fatalf("Unmarshal(array) error = %v", err)
	}
	if err := json.Unmarshal([]byte(`{"r":1,"g":2,"b":3}`), &fromObject); err != nil {
		t.Fatalf("Unmarshal(object) error = %v", err)
	}
	want := RGB{1, 2, 3}
	if fromArray != want || fromObject != want {
		t.Errorf("Unmarshal() = %v / %v, want %v", fromArray, fromObject, want)
	}

	for _, input := range []string{`"red"`, "[1,2]", "[1,2,3,4]", "[-1,0,0]", "[0,0,256]"} {
		var bad RGB
		if err := json.Unmarshal([]byte(input), &bad); err == nil {
			t.Errorf("Unmarshal(%s) expected error", input)
		}
	}
}
