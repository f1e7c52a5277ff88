// Package raster is the rasterization boundary of ggthread.
//
// A Canvas is a pixel surface with a fixed size, format and row stride.
// A Context records drawing commands against a Canvas without touching its
// pixels; Finish seals the recording into an immutable DisplayList that can
// be handed to another goroutine. Rasterize plays a DisplayList back onto
// its Canvas, splitting the surface in horizontal bands that are filled in
// parallel. Coverage is computed by golang.org/x/image/vector.
//
//	c, _ := raster.NewCanvas(256, 256, raster.FormatPRGB32)
//	dc := raster.NewContext(c)
//	dc.SetRGB(1, 0, 0)
//	dc.DrawCircle(128, 128, 64)
//	dc.Fill()
//	flags, err := raster.Rasterize(c, dc.Finish(), nil)
//
// # Errors
//
// Drawing calls never return errors. Invalid input raises ErrorFlags on the
// Context, which travel with the DisplayList and are reported by Rasterize,
// in the manner of an accumulating graphics context.
package raster
