package raster

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Runner executes band tasks in parallel and waits for them.
// *parallel.Pool from ggthread's internal packages implements it.
type Runner interface {
	// Run executes every task and reports false if it could not run them.
	Run(tasks []func()) bool

	// Workers returns the parallelism the runner offers.
	Workers() int
}

// minBandHeight keeps bands from becoming so thin that per-band setup
// dominates.
const minBandHeight = 16

// Rasterize plays list back onto c. It is a synchronous flush: when it
// returns, every recorded command is in c's pixel memory. XRGB32 canvases
// are normalized to opaque alpha.
//
// With a nil runner, or a runner offering a single worker, the canvas is
// filled on the calling goroutine. If the runner refuses the work the
// canvas is filled on the calling goroutine as well and
// ErrorThreadPoolExhausted is reported.
//
// The returned flags are the list's recording flags plus any raised while
// rasterizing.
func Rasterize(c *Canvas, list *DisplayList, runner Runner) (ErrorFlags, error) {
	if c == nil || list == nil {
		return ErrorInvalidValue, ErrNilCanvas
	}
	flags := list.flags
	if !c.Matches(list.width, list.height, list.format) {
		return flags | ErrorInvalidState, fmt.Errorf("%w: list %dx%d %s, canvas %dx%d %s",
			ErrCanvasMismatch, list.width, list.height, list.format, c.width, c.height, c.format)
	}

	bands := 1
	if runner != nil {
		bands = min(runner.Workers(), max(c.height/minBandHeight, 1))
	}

	if bands <= 1 {
		renderBand(c, list, 0, c.height)
	} else {
		tasks := make([]func(), bands)
		for i := range bands {
			y0 := c.height * i / bands
			y1 := c.height * (i + 1) / bands
			tasks[i] = func() { renderBand(c, list, y0, y1) }
		}
		if !runner.Run(tasks) {
			flags |= ErrorThreadPoolExhausted
			renderBand(c, list, 0, c.height)
		}
	}

	if c.format == FormatXRGB32 {
		c.forceOpaque()
	}
	return flags, nil
}

// renderBand plays every command clipped to rows [y0, y1).
func renderBand(c *Canvas, list *DisplayList, y0, y1 int) {
	h := y1 - y0
	if h <= 0 {
		return
	}
	band := image.Rect(0, y0, c.width, y1)
	dst := c.img

	var (
		z    vector.Rasterizer
		mask *image.Alpha
	)
	for i := range list.commands {
		cmd := &list.commands[i]
		switch cmd.kind {
		case cmdPaint:
			op := draw.Over
			if cmd.src {
				op = draw.Src
			}
			draw.Draw(dst, band, image.NewUniform(cmd.color), image.Point{}, op)

		case cmdFill:
			if !cmd.bounds.Overlaps(band) {
				continue
			}
			z.Reset(c.width, h)
			replay(&z, cmd.path, float32(y0))
			src := image.NewUniform(cmd.color)
			if !cmd.aliased {
				z.DrawOp = draw.Over
				z.Draw(dst, band, src, image.Point{})
				continue
			}
			if mask == nil {
				mask = image.NewAlpha(image.Rect(0, 0, c.width, h))
			} else {
				clear(mask.Pix)
			}
			z.DrawOp = draw.Src
			z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
			threshold(mask.Pix)
			draw.DrawMask(dst, band, src, image.Point{}, mask, image.Point{}, draw.Over)

		case cmdText:
			sub, ok := subImage(dst, band)
			if !ok {
				continue
			}
			d := font.Drawer{
				Dst:  sub,
				Src:  image.NewUniform(cmd.color),
				Face: cmd.face,
				Dot:  fixed.Point26_6{X: toFixed(cmd.dot.X), Y: toFixed(cmd.dot.Y)},
			}
			d.DrawString(cmd.text)
		}
	}
}

// replay feeds a canvas-space path to z, shifted up by dy. Every subpath is
// closed explicitly.
func replay(z *vector.Rasterizer, path []segment, dy float32) {
	open := false
	for _, s := range path {
		p := s.pts
		switch s.op {
		case segMove:
			if open {
				z.ClosePath()
			}
			z.MoveTo(float32(p[0].X), float32(p[0].Y)-dy)
			open = true
		case segLine:
			z.LineTo(float32(p[0].X), float32(p[0].Y)-dy)
			open = true
		case segQuad:
			z.QuadTo(float32(p[0].X), float32(p[0].Y)-dy, float32(p[1].X), float32(p[1].Y)-dy)
			open = true
		case segCube:
			z.CubeTo(
				float32(p[0].X), float32(p[0].Y)-dy,
				float32(p[1].X), float32(p[1].Y)-dy,
				float32(p[2].X), float32(p[2].Y)-dy,
			)
			open = true
		case segClose:
			if open {
				z.ClosePath()
				open = false
			}
		}
	}
	if open {
		z.ClosePath()
	}
}

func threshold(pix []byte) {
	for i, v := range pix {
		if v >= 0x80 {
			pix[i] = 0xff
		} else {
			pix[i] = 0
		}
	}
}

func subImage(img draw.Image, r image.Rectangle) (draw.Image, bool) {
	s, ok := img.(interface {
		SubImage(image.Rectangle) image.Image
	})
	if !ok {
		return nil, false
	}
	sub, ok := s.SubImage(r).(draw.Image)
	return sub, ok
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
