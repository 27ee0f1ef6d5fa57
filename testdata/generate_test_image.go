// Sample image generator for trying colorthief by hand:
//
//	go run testdata/generate_test_image.go
//	colorthief palette --quality 1 testdata/sample.png
//
// sample.png holds horizontal bands whose heights decrease from top to bottom,
// so the expected palette order is the band order. A transparent band and a
// white band are included to exercise --min-alpha and --exclude-white.
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

type band struct {
	colour color.NRGBA
	height int
}

func main() {
	const width = 200
	bands := []band{
		{color.NRGBA{R: 255, A: 255}, 80},                 // red
		{color.NRGBA{G: 128, A: 255}, 60},                 // green
		{color.NRGBA{B: 255, A: 255}, 40},                 // blue
		{color.NRGBA{R: 255, G: 165, A: 255}, 20},         // orange
		{color.NRGBA{R: 255, G: 255, B: 255, A: 255}, 60}, // white, excluded by default
		{color.NRGBA{R: 128, B: 128, A: 40}, 60},          // translucent purple, below min alpha
	}

	height := 0
	for _, b := range bands {
		height += b.height
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))

	top := 0
	for _, b := range bands {
		for y := top; y < top+b.height; y++ {
			for x := 0; x < width; x++ {
				img.SetNRGBA(x, y, b.colour)
			}
		}
		top += b.height
	}

	if err := writePNG("testdata/sample.png", img); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile("testdata/sample.svg", []byte(sampleSVG), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Sample images created: testdata/sample.png, testdata/sample.svg")
}

func writePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return png.Encode(file, img)
}

const sampleSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
  <rect x="0" y="0" width="100" height="60" fill="#ff6347"/>
  <rect x="0" y="60" width="100" height="40" fill="#4682b4"/>
</svg>
`
