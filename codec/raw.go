package codec

import (
	"fmt"

	"github.com/gogpu/ggthread/raster"
)

// Raw stores canvas rows verbatim, padding included. Round trips are bit
// exact for every format.
type Raw struct{}

// Name returns "raw".
func (Raw) Name() string { return "raw" }

// Encode copies the canvas memory.
func (Raw) Encode(c *raster.Canvas, frame uint64) (*Payload, error) {
	if err := checkCanvas(c); err != nil {
		return nil, err
	}
	data := make([]byte, len(c.Pix()))
	copy(data, c.Pix())
	return &Payload{
		Frame:  frame,
		Width:  c.Width(),
		Height: c.Height(),
		Stride: c.Stride(),
		Format: c.Format(),
		Codec:  "raw",
		Data:   data,
	}, nil
}

// Decode returns pixels aliasing p.Data. Payloads are consumed once, so no
// copy is made.
func (Raw) Decode(p *Payload) (*Pixels, error) {
	if !p.Format.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, p.Format)
	}
	if p.Width <= 0 || p.Height <= 0 || p.Stride < p.Width*p.Format.BytesPerPixel() {
		return nil, fmt.Errorf("%w: %dx%d stride %d", ErrCorruptPayload, p.Width, p.Height, p.Stride)
	}
	need := p.Stride * p.Height
	if len(p.Data) < need {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrShortPayload, len(p.Data), need)
	}
	return &Pixels{
		Pix:    p.Data[:need:need],
		Width:  p.Width,
		Height: p.Height,
		Stride: p.Stride,
		Format: p.Format,
	}, nil
}
