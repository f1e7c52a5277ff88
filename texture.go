package ggthread

import (
	"image"
	"image/color"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/ggthread/codec"
	"github.com/gogpu/ggthread/raster"
)

// Texture is an immutable snapshot of a published frame.
//
// Each publication creates a new Texture; earlier ones stay valid and are
// never written to, so they may be read from any goroutine.
type Texture struct {
	width      int
	height     int
	stride     int
	format     PixelFormat
	frame      uint64
	generation uint64
	pix        []byte
}

func newTexture(px *codec.Pixels, frame, generation uint64) *Texture {
	return &Texture{
		width:      px.Width,
		height:     px.Height,
		stride:     px.Stride,
		format:     pixelFormatOf(px.Format),
		frame:      frame,
		generation: generation,
		pix:        px.Pix,
	}
}

// blankTexture returns a zeroed texture of the given shape.
func blankTexture(width, height int, format PixelFormat, generation uint64) *Texture {
	stride := raster.StrideFor(width, format.Raster())
	return &Texture{
		width:      width,
		height:     height,
		stride:     stride,
		format:     format,
		generation: generation,
		pix:        make([]byte, stride*height),
	}
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.height }

// Stride returns the number of bytes per row of Pix.
func (t *Texture) Stride() int { return t.stride }

// Format returns the pixel format.
func (t *Texture) Format() PixelFormat { return t.format }

// Frame returns the frame number passed to End for this frame. Blank
// textures report zero.
func (t *Texture) Frame() uint64 { return t.frame }

// Generation increases with every texture the renderer publishes.
func (t *Texture) Generation() uint64 { return t.generation }

// Pix returns the pixel rows. The slice must not be modified.
func (t *Texture) Pix() []byte { return t.pix }

// GPUFormat returns the texture format matching Packed.
func (t *Texture) GPUFormat() gputypes.TextureFormat { return t.format.GPUFormat() }

// Premultiplied reports whether color is premultiplied by alpha.
func (t *Texture) Premultiplied() bool { return t.format.Premultiplied() }

// Image returns the texture as an image sharing its pixels: *image.RGBA
// for color formats and *image.Alpha for FormatAlpha.
func (t *Texture) Image() image.Image {
	r := image.Rect(0, 0, t.width, t.height)
	if t.format == FormatAlpha {
		return &image.Alpha{Pix: t.pix, Stride: t.stride, Rect: r}
	}
	return &image.RGBA{Pix: t.pix, Stride: t.stride, Rect: r}
}

// At returns the color of the pixel at (x, y).
func (t *Texture) At(x, y int) color.Color {
	return t.Image().At(x, y)
}

// Packed returns rows without padding in the layout of GPUFormat: four
// bytes per pixel for color formats, one for FormatAlpha.
func (t *Texture) Packed() []byte {
	row := t.width * t.format.Raster().BytesPerPixel()
	if row == t.stride {
		return t.pix
	}
	out := make([]byte, row*t.height)
	for y := range t.height {
		copy(out[y*row:(y+1)*row], t.pix[y*t.stride:])
	}
	return out
}

// RGBA8 returns tightly packed premultiplied RGBA bytes for hosts that only
// accept four-channel textures. FormatAlpha expands to premultiplied white.
func (t *Texture) RGBA8() []byte {
	if t.format != FormatAlpha {
		return t.Packed()
	}
	out := make([]byte, t.width*t.height*4)
	for y := range t.height {
		src := t.pix[y*t.stride : y*t.stride+t.width]
		dst := out[y*t.width*4:]
		for x, a := range src {
			dst[4*x], dst[4*x+1], dst[4*x+2], dst[4*x+3] = a, a, a, a
		}
	}
	return out
}
