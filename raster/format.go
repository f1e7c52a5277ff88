package raster

import "fmt"

// Format is the pixel layout of a Canvas.
type Format uint8

const (
	// FormatNone is the zero value and is not a usable format.
	FormatNone Format = iota

	// FormatXRGB32 is opaque RGB stored as 4 bytes per pixel (R, G, B, 0xff).
	FormatXRGB32

	// FormatPRGB32 is RGB with premultiplied alpha, 4 bytes per pixel.
	FormatPRGB32

	// FormatA8 is a single 8-bit alpha channel.
	FormatA8
)

// String returns a human-readable name for the format.
func (f Format) String() string {
	switch f {
	case FormatXRGB32:
		return "XRGB32"
	case FormatPRGB32:
		return "PRGB32"
	case FormatA8:
		return "A8"
	default:
		return fmt.Sprintf("Format(%d)", f)
	}
}

// Valid reports whether f is one of the supported formats.
func (f Format) Valid() bool {
	return f >= FormatXRGB32 && f <= FormatA8
}

// BytesPerPixel returns the storage size of one pixel, or 0 for an
// unsupported format.
func (f Format) BytesPerPixel() int {
	switch f {
	case FormatXRGB32, FormatPRGB32:
		return 4
	case FormatA8:
		return 1
	default:
		return 0
	}
}

// HasAlpha reports whether the format carries meaningful alpha.
func (f Format) HasAlpha() bool {
	return f == FormatPRGB32 || f == FormatA8
}

// Quality selects how edges are rasterized.
type Quality uint8

const (
	// QualityAntialias computes exact area coverage for edge pixels.
	QualityAntialias Quality = iota

	// QualityAliased snaps coverage to fully on or off.
	QualityAliased
)

// String returns the quality name.
func (q Quality) String() string {
	switch q {
	case QualityAntialias:
		return "antialias"
	case QualityAliased:
		return "aliased"
	default:
		return fmt.Sprintf("Quality(%d)", q)
	}
}

// Valid reports whether q is a known quality level.
func (q Quality) Valid() bool {
	return q <= QualityAliased
}
