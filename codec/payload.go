package codec

import (
	"image"

	"github.com/gogpu/ggthread/raster"
)

// Payload is the immutable encoding of one finished canvas.
//
// A payload produced for a failed session carries Err and no Data; it still
// travels back to the caller so the session counts as consumed.
type Payload struct {
	Frame  uint64
	Width  int
	Height int
	Stride int
	Format raster.Format
	Codec  string
	Data   []byte

	// Flags are the drawing context errors raised while recording and
	// rasterizing the frame.
	Flags raster.ErrorFlags

	// Err is set when the worker could not produce the frame.
	Err error
}

// Failed reports whether the payload carries no frame.
func (p *Payload) Failed() bool {
	return p == nil || p.Err != nil
}

// Pixels is a decoded frame. Pix holds Stride bytes per row in Format's
// layout; XRGB32 and PRGB32 rows are R, G, B, A.
type Pixels struct {
	Pix    []byte
	Width  int
	Height int
	Stride int
	Format raster.Format
}

// Image returns the pixels as an image sharing Pix.
func (p *Pixels) Image() image.Image {
	r := image.Rect(0, 0, p.Width, p.Height)
	if p.Format == raster.FormatA8 {
		return &image.Alpha{Pix: p.Pix, Stride: p.Stride, Rect: r}
	}
	return &image.RGBA{Pix: p.Pix, Stride: p.Stride, Rect: r}
}

func newPixels(w, h int, f raster.Format) *Pixels {
	stride := raster.StrideFor(w, f)
	return &Pixels{
		Pix:    make([]byte, stride*h),
		Width:  w,
		Height: h,
		Stride: stride,
		Format: f,
	}
}
