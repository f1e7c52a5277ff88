// Package ggthread renders 2D vector graphics on a background goroutine
// with double buffering.
//
// # Overview
//
// A Renderer owns a worker goroutine. The caller (typically a UI or render
// loop) opens a session with Begin, draws through the returned
// raster.Context and closes it with End. The recorded commands are handed
// to the worker, which rasterizes them, encodes the result and sends it
// back. Update picks up finished frames and publishes the newest one as an
// immutable Texture. The caller never blocks on rasterization and never
// shares a canvas with the worker: ownership moves with every handoff.
//
// # Quick Start
//
//	r, err := ggthread.New(640, 480)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	for frame := uint64(1); running; frame++ {
//	    r.Update(false, true)
//	    if r.Begin() {
//	        dc := r.Context()
//	        dc.SetRGB(1, 0, 0)
//	        dc.DrawCircle(320, 240, 100)
//	        dc.Fill()
//	        r.End(frame, "")
//	    }
//	    show(r.Texture())
//	}
//
// # Backpressure
//
// Begin returns false while the previous frame has not been consumed by
// Update, so a caller that draws faster than the worker simply skips
// frames. WithMaxInFlight allows more sessions in flight; Update with
// dropOlderFrames then publishes only the newest.
//
// # Contract violations
//
// Begin with a session already open, End or Context without one, and
// Update or Allocate during a session are programming errors and panic.
// Runtime failures are logged and reported through return values; a frame
// the worker fails to produce still counts as consumed, so the renderer
// never stalls.
//
// # Logging
//
// ggthread is silent by default. Use SetLogger to route its log/slog output.
package ggthread
