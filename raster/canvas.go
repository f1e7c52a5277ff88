package raster

import (
	"fmt"
	"image"
	"image/draw"
)

// MaxSize is the largest accepted canvas width or height.
const MaxSize = 65535

// Canvas is a rasterization surface with fixed dimensions and format.
//
// Rows are padded to a 4-byte boundary, so Stride may exceed
// Width*BytesPerPixel for FormatA8. Pixel memory is exposed through an
// *image.RGBA (XRGB32, PRGB32) or *image.Alpha (A8) sharing the same slice.
//
// A Canvas is not safe for concurrent use; ownership is passed between
// goroutines, never shared.
type Canvas struct {
	width  int
	height int
	format Format
	stride int
	pix    []byte
	img    draw.Image
}

// StrideFor returns the row stride NewCanvas uses for the given width and
// format.
func StrideFor(width int, format Format) int {
	return (width*format.BytesPerPixel() + 3) &^ 3
}

// NewCanvas allocates a zeroed canvas.
func NewCanvas(width, height int, format Format) (*Canvas, error) {
	if width <= 0 || height <= 0 || width > MaxSize || height > MaxSize {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	stride := StrideFor(width, format)
	pix := make([]byte, stride*height)
	rect := image.Rect(0, 0, width, height)

	c := &Canvas{
		width:  width,
		height: height,
		format: format,
		stride: stride,
		pix:    pix,
	}
	if format == FormatA8 {
		c.img = &image.Alpha{Pix: pix, Stride: stride, Rect: rect}
	} else {
		c.img = &image.RGBA{Pix: pix, Stride: stride, Rect: rect}
	}
	return c, nil
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.height }

// Format returns the pixel format.
func (c *Canvas) Format() Format { return c.format }

// Stride returns the number of bytes per row.
func (c *Canvas) Stride() int { return c.stride }

// Pix returns the pixel memory, Stride bytes per row.
func (c *Canvas) Pix() []byte { return c.pix }

// Row returns the visible bytes of row y, without padding.
func (c *Canvas) Row(y int) []byte {
	off := y * c.stride
	return c.pix[off : off+c.width*c.format.BytesPerPixel()]
}

// Image returns the canvas as an image sharing its pixel memory.
// The concrete type is *image.RGBA or *image.Alpha.
func (c *Canvas) Image() image.Image { return c.img }

// Bounds returns the canvas rectangle.
func (c *Canvas) Bounds() image.Rectangle { return image.Rect(0, 0, c.width, c.height) }

// Matches reports whether the canvas has the given shape.
func (c *Canvas) Matches(width, height int, format Format) bool {
	return c.width == width && c.height == height && c.format == format
}

// Reset zeroes the pixel memory so the canvas can be reused.
func (c *Canvas) Reset() {
	clear(c.pix)
}

// forceOpaque sets the alpha byte of every pixel to 0xff. XRGB32 canvases
// ignore alpha while drawing; this normalizes them before encoding.
func (c *Canvas) forceOpaque() {
	for y := range c.height {
		row := c.Row(y)
		for i := 3; i < len(row); i += 4 {
			row[i] = 0xff
		}
	}
}
