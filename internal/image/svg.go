package image

import (
	"fmt"
	"image"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// SVG is a parsed SVG document ready to be rasterized.
type SVG struct {
	icon *oksvg.SvgIcon
}

// ParseSVG reads an SVG document. Elements the renderer does not support are
// skipped rather than rejected.
func ParseSVG(r io.Reader) (*SVG, error) {
	icon, err := oksvg.ReadIconStream(r, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}
	return &SVG{icon: icon}, nil
}

// Width returns the document's view box width.
func (s *SVG) Width() float64 {
	if s.icon == nil {
		return 0
	}
	return s.icon.ViewBox.W
}

// Height returns the document's view box height.
func (s *SVG) Height() float64 {
	if s.icon == nil {
		return 0
	}
	return s.icon.ViewBox.H
}

// canvasDimensions scales the view box to fit a size x size square, keeping
// its aspect ratio. Documents without a usable view box fill the square.
func (s *SVG) canvasDimensions(size int) (int, int) {
	w, h := s.Width(), s.Height()
	if w <= 0 || h <= 0 {
		return size, size
	}
	scale := float64(size) / math.Max(w, h)
	return max(1, int(math.Round(w*scale))), max(1, int(math.Round(h*scale)))
}

// Rasterize draws the document onto a transparent canvas no larger than size
// on either side.
func (s *SVG) Rasterize(size int) *image.NRGBA {
	w, h := s.canvasDimensions(size)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	s.icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	s.icon.Draw(rasterx.NewDasher(w, h, scanner), 1)

	return imaging.Clone(dst)
}
