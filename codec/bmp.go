package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/bmp"

	"github.com/gogpu/ggthread/raster"
)

// BMP stores each frame as a Windows bitmap stream. XRGB32 canvases are
// written as 24-bit, PRGB32 as 32-bit non-premultiplied, A8 as 8-bit gray.
// Opaque RGB round trips are bit exact.
type BMP struct{}

// Name returns "bmp".
func (BMP) Name() string { return "bmp" }

// Encode writes c as a bitmap stream.
func (BMP) Encode(c *raster.Canvas, frame uint64) (*Payload, error) {
	if err := checkCanvas(c); err != nil {
		return nil, err
	}

	var img image.Image
	b := c.Bounds()
	switch c.Format() {
	case raster.FormatXRGB32:
		img = c.Image()
	case raster.FormatPRGB32:
		n := image.NewNRGBA(b)
		draw.Draw(n, b, c.Image(), image.Point{}, draw.Src)
		img = n
	case raster.FormatA8:
		g := image.NewGray(b)
		for y := range c.Height() {
			copy(g.Pix[y*g.Stride:], c.Row(y))
		}
		img = g
	}

	var buf bytes.Buffer
	buf.Grow(b.Dx()*b.Dy()*c.Format().BytesPerPixel() + 1078)
	if err := bmp.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("codec: bmp encode: %w", err)
	}
	return &Payload{
		Frame:  frame,
		Width:  c.Width(),
		Height: c.Height(),
		Stride: c.Stride(),
		Format: c.Format(),
		Codec:  "bmp",
		Data:   buf.Bytes(),
	}, nil
}

// Decode parses the bitmap and converts it to p.Format.
func (BMP) Decode(p *Payload) (*Pixels, error) {
	if !p.Format.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, p.Format)
	}
	if len(p.Data) == 0 {
		return nil, ErrShortPayload
	}
	img, err := bmp.Decode(bytes.NewReader(p.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptPayload, err)
	}
	b := img.Bounds()
	if b.Dx() != p.Width || b.Dy() != p.Height {
		return nil, fmt.Errorf("%w: bitmap is %dx%d, payload declares %dx%d",
			ErrCorruptPayload, b.Dx(), b.Dy(), p.Width, p.Height)
	}

	px := newPixels(p.Width, p.Height, p.Format)
	switch p.Format {
	case raster.FormatA8:
		for y := range p.Height {
			row := px.Pix[y*px.Stride:]
			for x := range p.Width {
				row[x] = color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray).Y
			}
		}
	default:
		dst := px.Image().(*image.RGBA)
		draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
		if p.Format == raster.FormatXRGB32 {
			for i := 3; i < len(dst.Pix); i += 4 {
				dst.Pix[i] = 0xff
			}
		}
	}
	return px, nil
}
