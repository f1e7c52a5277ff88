package ggthread

import (
	"image/color"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/ggthread/codec"
	"github.com/gogpu/ggthread/raster"
)

// Option configures a Renderer during creation.
//
// Example:
//
//	r, err := ggthread.New(800, 600,
//	    ggthread.WithFormat(ggthread.FormatRGB),
//	    ggthread.WithThreads(8),
//	)
type Option func(*config)

type config struct {
	format      PixelFormat
	threads     int
	quality     raster.Quality
	codec       codec.Codec
	maxInFlight int
	instrument  bool
	uploader    gpucontext.TextureUpdater
	background  color.Color
}

func defaultConfig() config {
	return config{
		format:      FormatRGBA,
		threads:     4,
		quality:     raster.QualityAntialias,
		codec:       codec.Raw{},
		maxInFlight: 1,
	}
}

// WithFormat sets the initial pixel format. An unsupported value falls back
// to FormatRGBA with a warning.
func WithFormat(f PixelFormat) Option {
	return func(c *config) {
		c.format = f
	}
}

// WithThreads sets how many goroutines rasterize a frame. One rasterizes on
// the worker goroutine itself. Values below one are treated as one.
func WithThreads(n int) Option {
	return func(c *config) {
		c.threads = max(n, 1)
	}
}

// WithQuality sets the edge quality of every session's drawing context.
func WithQuality(q raster.Quality) Option {
	return func(c *config) {
		c.quality = q
	}
}

// WithCodec sets the codec moving frames from the worker to the caller.
// A nil codec keeps the default raw codec.
func WithCodec(cd codec.Codec) Option {
	return func(c *config) {
		if cd != nil {
			c.codec = cd
		}
	}
}

// WithMaxInFlight sets how many finished sessions may wait unconsumed
// before Begin refuses. The default of one gives strict double buffering.
func WithMaxInFlight(n int) Option {
	return func(c *config) {
		c.maxInFlight = max(n, 1)
	}
}

// WithInstrumentation enables frame timing in Stats.
func WithInstrumentation(enabled bool) Option {
	return func(c *config) {
		c.instrument = enabled
	}
}

// WithUploader pushes every published frame to a host GPU texture. The
// data passed to UpdateData is tightly packed in the format reported by
// Texture.GPUFormat.
func WithUploader(u gpucontext.TextureUpdater) Option {
	return func(c *config) {
		c.uploader = u
	}
}

// WithBackground sets the color each session starts with. The default is
// transparent.
func WithBackground(bg color.Color) Option {
	return func(c *config) {
		c.background = bg
	}
}
