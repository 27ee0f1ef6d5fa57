package image

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"github.com/hashicorp/go-hclog"
	_ "golang.org/x/image/bmp"  // Register BMP format
	_ "golang.org/x/image/webp" // Register WebP format
)

// MaxCanvasSize is the largest offscreen canvas side a CanvasSource will allocate.
const MaxCanvasSize = 8192

// decodable holds the sniffed MIME types that have a registered decoder.
var decodable = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/bmp":  true,
	"image/webp": true,
}

// Failure kinds reported by a Source. Match them with errors.Is.
var (
	ErrSurface              = errors.New("failed to create offscreen surface")
	ErrLoadImage            = errors.New("failed to load image")
	ErrLoadSVG              = errors.New("failed to load SVG")
	ErrReadImagePixels      = errors.New("failed to read pixels from image")
	ErrReadSVGPixels        = errors.New("failed to read pixels from SVG")
	ErrCanvasNotInitialized = errors.New("canvas not initialized")
)

// Surface is a rendered offscreen canvas. Release must be called once the
// pixels have been read; it is safe to call more than once.
type Surface interface {
	Width() int
	Height() int
	// ReadPixels returns Width*Height*4 bytes, non-premultiplied R, G, B, A.
	ReadPixels() ([]byte, error)
	Release()
}

// Source turns a URI into a rendered Surface.
type Source interface {
	// DecodeRaster loads a raster image and draws it onto a canvas no larger
	// than canvasSize on either side.
	DecodeRaster(ctx context.Context, uri string, canvasSize int) (Surface, error)
	// DecodeSVG loads and parses an SVG document.
	DecodeSVG(ctx context.Context, uri string) (*SVG, error)
	// DrawSVG rasterizes a parsed SVG onto a canvasSize canvas.
	DrawSVG(svg *SVG, canvasSize int) (Surface, error)
}

// CanvasSource is the default Source. It loads bytes through a Loader and
// renders into in-memory NRGBA canvases.
type CanvasSource struct {
	loader Loader
	logger hclog.Logger
}

// NewCanvasSource creates a CanvasSource that reads files and HTTP(S) URLs.
func NewCanvasSource(logger hclog.Logger) *CanvasSource {
	return NewCanvasSourceWithLoader(NewSmartLoader(), logger)
}

// NewCanvasSourceWithLoader creates a CanvasSource reading through loader.
func NewCanvasSourceWithLoader(loader Loader, logger hclog.Logger) *CanvasSource {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &CanvasSource{loader: loader, logger: logger.Named("source")}
}

// DecodeRaster implements Source.
func (s *CanvasSource) DecodeRaster(ctx context.Context, uri string, canvasSize int) (Surface, error) {
	if err := checkCanvasSize(canvasSize); err != nil {
		return nil, err
	}

	data, err := s.loader.Load(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadImage, err)
	}
	kind, err := filetype.Match(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadImage, err)
	}
	if kind == filetype.Unknown {
		return nil, fmt.Errorf("%w: unrecognised image data in %s", ErrLoadImage, uri)
	}
	if !decodable[kind.MIME.Value] {
		return nil, fmt.Errorf("%w: unsupported image type %s", ErrLoadImage, kind.MIME.Value)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image (format: %s): %w", ErrLoadImage, format, err)
	}

	bounds := img.Bounds()
	s.logger.Trace("decoded raster", "uri", uri, "format", format, "width", bounds.Dx(), "height", bounds.Dy())

	// Fit only ever scales down; small images are copied as they are.
	canvas := imaging.Fit(img, canvasSize, canvasSize, imaging.Lanczos)
	return newCanvas(canvas, ErrReadImagePixels), nil
}

// DecodeSVG implements Source.
func (s *CanvasSource) DecodeSVG(ctx context.Context, uri string) (*SVG, error) {
	data, err := s.loader.Load(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadSVG, err)
	}
	svg, err := ParseSVG(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadSVG, err)
	}
	s.logger.Trace("parsed svg", "uri", uri, "width", svg.Width(), "height", svg.Height())
	return svg, nil
}

// DrawSVG implements Source.
func (s *CanvasSource) DrawSVG(svg *SVG, canvasSize int) (Surface, error) {
	if err := checkCanvasSize(canvasSize); err != nil {
		return nil, err
	}
	if svg == nil || svg.icon == nil {
		return nil, fmt.Errorf("%w: no document", ErrLoadSVG)
	}
	return newCanvas(svg.Rasterize(canvasSize), ErrReadSVGPixels), nil
}

func checkCanvasSize(size int) error {
	if size < 1 || size > MaxCanvasSize {
		return fmt.Errorf("%w: canvas size %d out of range 1-%d", ErrSurface, size, MaxCanvasSize)
	}
	return nil
}

// canvas is the Surface produced by CanvasSource.
type canvas struct {
	img     *image.NRGBA
	readErr error
}

func newCanvas(img *image.NRGBA, readErr error) *canvas {
	return &canvas{img: img, readErr: readErr}
}

func (c *canvas) Width() int {
	if c.img == nil {
		return 0
	}
	return c.img.Bounds().Dx()
}

func (c *canvas) Height() int {
	if c.img == nil {
		return 0
	}
	return c.img.Bounds().Dy()
}

func (c *canvas) ReadPixels() ([]byte, error) {
	if c.img == nil {
		return nil, ErrCanvasNotInitialized
	}
	w, h := c.Width(), c.Height()
	if w == 0 || h == 0 || len(c.img.Pix) == 0 {
		return nil, fmt.Errorf("%w: empty canvas", c.readErr)
	}

	// Copy row by row so sub-images and padded strides come out packed.
	out := make([]byte, 0, w*h*4)
	for y := range h {
		start := y * c.img.Stride
		out = append(out, c.img.Pix[start:start+w*4]...)
	}
	return out, nil
}

func (c *canvas) Release() {
	c.img = nil
}
