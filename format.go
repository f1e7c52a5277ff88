package ggthread

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/ggthread/raster"
)

// PixelFormat is the layout of the canvas and the published texture.
type PixelFormat uint8

const (
	// FormatDefault keeps the current format in Allocate. New treats it as
	// FormatRGBA.
	FormatDefault PixelFormat = iota

	// FormatRGB is opaque color. Alpha bytes are always 0xff.
	FormatRGB

	// FormatRGBA is color with premultiplied alpha.
	FormatRGBA

	// FormatAlpha is a single 8-bit coverage channel.
	FormatAlpha
)

type formatInfo struct {
	name          string
	raster        raster.Format
	gpu           gputypes.TextureFormat
	premultiplied bool
}

// formats is indexed by PixelFormat and covers every concrete format.
var formats = [...]formatInfo{
	FormatDefault: {"default", raster.FormatNone, gputypes.TextureFormatUndefined, false},
	FormatRGB:     {"rgb", raster.FormatXRGB32, gputypes.TextureFormatRGBA8Unorm, false},
	FormatRGBA:    {"rgba", raster.FormatPRGB32, gputypes.TextureFormatRGBA8Unorm, true},
	FormatAlpha:   {"alpha", raster.FormatA8, gputypes.TextureFormatR8Unorm, false},
}

// String returns the format name.
func (f PixelFormat) String() string {
	if int(f) < len(formats) {
		return formats[f].name
	}
	return fmt.Sprintf("PixelFormat(%d)", f)
}

// Valid reports whether f is a concrete format.
func (f PixelFormat) Valid() bool {
	return f >= FormatRGB && f <= FormatAlpha
}

// Raster returns the canvas format backing f, or raster.FormatNone.
func (f PixelFormat) Raster() raster.Format {
	if !f.Valid() {
		return raster.FormatNone
	}
	return formats[f].raster
}

// GPUFormat returns the texture format a host should allocate for f.
func (f PixelFormat) GPUFormat() gputypes.TextureFormat {
	if !f.Valid() {
		return gputypes.TextureFormatUndefined
	}
	return formats[f].gpu
}

// Premultiplied reports whether color channels are premultiplied by alpha.
func (f PixelFormat) Premultiplied() bool {
	return f.Valid() && formats[f].premultiplied
}

// ParsePixelFormat maps a name ("rgb", "rgba", "alpha") to a format.
func ParsePixelFormat(s string) (PixelFormat, bool) {
	for i := FormatRGB; i <= FormatAlpha; i++ {
		if formats[i].name == s {
			return i, true
		}
	}
	return FormatDefault, false
}

// pixelFormatOf maps a canvas format back to its pixel format.
func pixelFormatOf(r raster.Format) PixelFormat {
	switch r {
	case raster.FormatXRGB32:
		return FormatRGB
	case raster.FormatPRGB32:
		return FormatRGBA
	case raster.FormatA8:
		return FormatAlpha
	default:
		return FormatDefault
	}
}

// resolveFormat applies the FormatDefault and fallback rules.
func resolveFormat(requested, current PixelFormat) PixelFormat {
	if requested == FormatDefault {
		if current.Valid() {
			return current
		}
		return FormatRGBA
	}
	if !requested.Valid() {
		Logger().Warn("ggthread: unsupported pixel format, falling back",
			"requested", requested.String(), "using", FormatRGBA.String())
		return FormatRGBA
	}
	return requested
}
